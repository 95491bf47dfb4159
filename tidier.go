package commander

import "sync"

// Tidier wraps an inner future so it is guaranteed to be driven to
// completion even if the owning task is killed. A Tidier is idempotent once
// finished: polling it again simply reports ready with no further side
// effects. It is shared by pointer — both the task that awaits it directly
// and the [Agent]'s own finish bookkeeping hold the same instance.
type Tidier struct {
	mu    sync.Mutex
	inner Future[struct{}]
	done  bool
}

// newTidier wraps inner as a Tidier.
func newTidier(inner Future[struct{}]) *Tidier {
	return &Tidier{inner: inner}
}

// Poll implements [Future].
func (t *Tidier) Poll(waker Waker) (struct{}, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return struct{}{}, true
	}
	_, ok := t.inner.Poll(waker)
	if ok {
		t.done = true
	}
	return struct{}{}, ok
}

// Finished reports whether the wrapped future has completed.
func (t *Tidier) Finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}
