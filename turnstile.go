package commander

// turnstileFuture wraps an inner future and ensures it is never woken by
// wakeup events from outside it — useful, for example, in very broad joins,
// to prevent a wakeup anywhere in the join from re-polling every branch.
type turnstileFuture[R any] struct {
	agent    *Agent
	inner    Future[R]
	ourBlock *Block
}

// Poll implements [Future].
func (t *turnstileFuture[R]) Poll(_ Waker) (R, bool) {
	if t.ourBlock != nil {
		if t.ourBlock.IsBlocked() {
			var zero R
			return zero, false
		}
	} else {
		theirBlock := t.agent.blocks.TopBlock()
		t.ourBlock = t.agent.blocks.NewBlock(func(*Block) {
			theirBlock.sendUnblockToExecutor()
		})
	}
	t.agent.blocks.PushBlock(t.ourBlock)
	waker := t.ourBlock.MakeWaker()
	out, ok := t.inner.Poll(waker)
	t.agent.blocks.PopBlock()
	if !ok {
		t.ourBlock.MarkBlocked()
	}
	return out, ok
}

// cancelCoroutine forwards to inner if it (or something it wraps in turn)
// is a coroutine, so killing a task doesn't leak a goroutine parked behind a
// turnstile.
func (t *turnstileFuture[R]) cancelCoroutine() {
	if c, ok := t.inner.(coroutineCanceller); ok {
		c.cancelCoroutine()
	}
}

// Turnstile isolates inner's wakeups behind a private [Block]: the block
// captured as this agent's current top-of-stack at the moment of the
// turnstile's first poll becomes the sole forwarding target for any wakeup
// inner triggers, regardless of how many further blocks get pushed above the
// turnstile on later polls. Exposed as a free function, not a method, since
// Go forbids type parameters on methods.
func Turnstile[R any](agent *Agent, inner Future[R]) Future[R] {
	return &turnstileFuture[R]{agent: agent, inner: inner}
}
