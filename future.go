package commander

// Future is the poll/waker capability every schedulable unit of work
// implements: a single Poll call either produces a final value (ok == true)
// or suspends (ok == false), in which case the future must have arranged,
// via waker.Wake, to be polled again once progress is possible. A future
// that returns false without ever retaining the waker (directly, or by
// passing it down to something that will call it) is a dead task: nothing
// in the package re-polls a future on a timer or a hunch.
type Future[R any] interface {
	Poll(waker Waker) (value R, ok bool)
}

// FuncFutureFn adapts a plain poll function to [Future].
type FuncFutureFn[R any] func(waker Waker) (R, bool)

// Poll implements [Future].
func (f FuncFutureFn[R]) Poll(waker Waker) (R, bool) {
	return f(waker)
}

// FuncFuture wraps a poll function as a [Future], for the common case of a
// future with no state beyond what the closure already captures.
func FuncFuture[R any](fn func(waker Waker) (R, bool)) Future[R] {
	return FuncFutureFn[R](fn)
}

// readyFuture is a [Future] that is immediately ready with a fixed value.
type readyFuture[R any] struct{ value R }

// Poll implements [Future].
func (f readyFuture[R]) Poll(Waker) (R, bool) { return f.value, true }

// Ready returns a [Future] that completes on its very first poll with value.
func Ready[R any](value R) Future[R] {
	return readyFuture[R]{value: value}
}
