package commander

import "sync/atomic"

// Waker is the capability a suspended [Future] is handed to signal that it
// may be worth polling again. Calling Wake is safe from any goroutine, any
// number of times; excess wakes beyond the first while still blocked are
// harmless no-ops.
type Waker struct {
	block *Block
}

// Wake requests that the block behind this Waker be marked unblocked. The
// actual scheduling side effect (usually: re-adding a task to its run queue)
// happens via the block's onUnblock callback, invoked at most once per
// [Block.MarkBlocked] arming.
func (w Waker) Wake() {
	w.block.sendUnblockToExecutor()
}

// Block is the suspension primitive every [Future] suspends against: a
// future that returns false from Poll without ever touching a Block will
// never be polled again, since nothing will ever call its Waker.
//
// A Block is single-use per suspend/resume cycle: the first wake after
// [Block.MarkBlocked] clears the blocked flag, and a further MarkBlocked call
// re-arms the same Block value for another round of suspension (this is what
// [Turnstile] relies on to reuse one private Block across many polls of its
// inner future).
type Block struct {
	blocked   atomic.Bool
	onUnblock func(*Block)
}

// newBlock constructs a Block whose unblock callback is onUnblock. The block
// starts out not-blocked; [Block.MarkBlocked] must be called after a Pending
// poll to arm it.
func newBlock(onUnblock func(*Block)) *Block {
	return &Block{onUnblock: onUnblock}
}

// MarkBlocked arms the block: the next call to sendUnblockToExecutor will
// fire onUnblock exactly once. Intended to be called immediately after a
// wrapped future returns Pending.
func (b *Block) MarkBlocked() {
	b.blocked.Store(true)
}

// IsBlocked reports whether the block is currently armed.
func (b *Block) IsBlocked() bool {
	return b.blocked.Load()
}

func (b *Block) sendUnblockToExecutor() {
	if b.blocked.CompareAndSwap(true, false) {
		b.onUnblock(b)
	}
}

// MakeWaker returns a [Waker] bound to this block.
func (b *Block) MakeWaker() Waker {
	return Waker{block: b}
}

// BlockAgent is the per-[Agent] LIFO stack of active blocks. Every Agent is
// constructed with one permanent root block (never popped) so TopBlock
// always has something to return, even before a task's first suspension
// point pushes anything of its own.
type BlockAgent struct {
	stack []*Block
	root  *Block
}

func newBlockAgent(onRootUnblock func(*Block)) *BlockAgent {
	root := newBlock(onRootUnblock)
	return &BlockAgent{stack: []*Block{root}, root: root}
}

// NewBlock constructs a Block owned by this agent whose unblock callback is
// onUnblock.
func (a *BlockAgent) NewBlock(onUnblock func(*Block)) *Block {
	return newBlock(onUnblock)
}

// PushBlock makes b the new top of the stack.
func (a *BlockAgent) PushBlock(b *Block) {
	a.stack = append(a.stack, b)
}

// PopBlock removes the current top of the stack. Popping the permanent root
// block, or popping an empty stack, is a contract violation: callers must
// always push exactly what they pop, within the bracket of a single Poll
// call.
func (a *BlockAgent) PopBlock() {
	if len(a.stack) <= 1 {
		contractViolation("PopBlock: stack underflow (root block cannot be popped)")
	}
	a.stack = a.stack[:len(a.stack)-1]
}

// TopBlock returns the current top of the stack. Never returns nil: the
// permanent root block guarantees the stack is never empty.
func (a *BlockAgent) TopBlock() *Block {
	return a.stack[len(a.stack)-1]
}
