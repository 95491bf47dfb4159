package commander

import "context"

// Yielder is the handle a coroutine body receives, and the only way it may
// call [Await]. It must never be retained beyond the lifetime of the body
// call that received it.
type Yielder struct {
	fut interface {
		currentWaker() Waker
		parkUntilResumed() (cancelled bool)
		context() context.Context
	}
}

// Context is cancelled once the owning task is killed. A body that never
// awaits anything after a kill would otherwise park its goroutine forever;
// [Await] already selects on this, so bodies that only ever suspend via
// Await need not check it directly. Bodies that suspend some other way
// (e.g. blocking on their own channel) should select on it too, to avoid
// leaking their goroutine past the task's lifetime.
func (y *Yielder) Context() context.Context {
	return y.fut.context()
}

// coroutineCanceller is implemented by futures that wrap a coroutine and can
// forward a cancellation request down to it — [coroutineFuture] itself, and
// anything (like [Turnstile]'s wrapper) that merely wraps one.
type coroutineCanceller interface {
	cancelCoroutine()
}

// coroutineCancelled unwinds a coroutine's goroutine via panic/recover once
// its task has been killed and it's parked waiting to be resumed — the
// coroutine has no other way to notice a kill while parked, since nothing
// will ever hand it another waker.
type coroutineCancelled struct{}

// coroutineFuture drives a coroutine body on its own goroutine, handing
// control back and forth with the polling goroutine one suspension point at
// a time. At any instant exactly one of the two goroutines is actually
// running; the other is parked on an unbuffered channel. This is the same
// goroutine+channel trick the standard library's iter.Pull uses internally
// to implement two-way generators, applied here so ordinary sequential Go
// code can be driven as a poll/waker [Future].
type coroutineFuture[R any] struct {
	started  bool
	finished bool
	curWaker Waker
	resume   chan struct{}
	suspend  chan struct{}
	done     chan R
	runFn    func()
	ctx      context.Context
	cancel   context.CancelFunc
}

func (c *coroutineFuture[R]) currentWaker() Waker          { return c.curWaker }
func (c *coroutineFuture[R]) context() context.Context     { return c.ctx }

func (c *coroutineFuture[R]) parkUntilResumed() bool {
	c.suspend <- struct{}{}
	select {
	case <-c.resume:
		return false
	case <-c.ctx.Done():
		return true
	}
}

// cancelCoroutine requests that the coroutine unwind at its next suspension
// point. Called by the scheduler when the owning task is killed.
func (c *coroutineFuture[R]) cancelCoroutine() {
	c.cancel()
}

// Poll implements [Future]. The first call starts the coroutine's goroutine;
// every call hands the coroutine the waker it should use for whatever
// sub-future it is currently (or about to be) awaiting, then blocks until
// the coroutine either finishes or suspends again.
func (c *coroutineFuture[R]) Poll(waker Waker) (R, bool) {
	if c.finished {
		contractViolation("Poll: coroutine already finished")
	}
	c.curWaker = waker
	if !c.started {
		c.started = true
		go c.runFn()
	} else {
		c.resume <- struct{}{}
	}
	select {
	case result := <-c.done:
		c.finished = true
		return result, true
	case <-c.suspend:
		var zero R
		return zero, false
	}
}

// Spawn runs body on a dedicated goroutine and returns a [Future] that
// drives it one suspension point (one [Await] call) at a time. Nothing else
// in this package spawns a goroutine per task; everything above this layer
// (blocks, tidiers, turnstiles, the executor tick loop) is plain poll/waker
// code.
func Spawn[R any](body func(y *Yielder) R) Future[R] {
	ctx, cancel := context.WithCancel(context.Background())
	c := &coroutineFuture[R]{
		resume:  make(chan struct{}),
		suspend: make(chan struct{}),
		done:    make(chan R, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	y := &Yielder{fut: c}
	c.runFn = func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(coroutineCancelled); ok {
					var zero R
					c.done <- zero
					return
				}
				panic(r)
			}
		}()
		result := body(y)
		c.done <- result
	}
	return c
}

// Await polls f to completion, suspending the calling coroutine (via its
// [Yielder]) between attempts. It must only be called from inside a function
// passed to [Spawn], on the goroutine that function runs on.
func Await[T any](y *Yielder, f Future[T]) T {
	for {
		val, ok := f.Poll(y.fut.currentWaker())
		if ok {
			return val
		}
		if cancelled := y.fut.parkUntilResumed(); cancelled {
			panic(coroutineCancelled{})
		}
	}
}
