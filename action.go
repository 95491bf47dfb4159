package commander

import "sync"

// ActionKind classifies an [Action] queued against an [Executor].
type ActionKind int

const (
	// ActionAdd requests that a newly-allocated task be made runnable.
	ActionAdd ActionKind = iota
	// ActionUnblockTask requests that a task's block be re-examined and, if
	// unblocked, the task re-added to its run queue.
	ActionUnblockTask
	// ActionDone reports that a task has finished all its tidiers and may be
	// removed from the container entirely.
	ActionDone
)

// Action is one entry in the queue an [Executor] drains at the start of each
// [Executor.Tick].
type Action struct {
	Kind   ActionKind
	Handle Handle
}

// taskLink is a concurrency-safe action queue: any goroutine may call Add,
// but only the executor's own tick goroutine calls Drain. It is a swap-buffer
// queue (two slices, one live and one spare), the same shape as the teacher's
// auxJobs/auxJobsSpare pattern, chosen so Add never blocks on Drain and
// Drain never allocates on the hot path once both buffers have grown to
// their steady-state capacity.
type taskLink struct {
	mu      sync.Mutex
	pending []Action
	spare   []Action
}

func newTaskLink() *taskLink {
	return &taskLink{}
}

// Add enqueues an action. Safe for concurrent use, including concurrent use
// with Drain.
func (l *taskLink) Add(a Action) {
	l.mu.Lock()
	l.pending = append(l.pending, a)
	l.mu.Unlock()
}

// Drain atomically swaps out and returns every action queued so far,
// resetting the live buffer to the (now-empty) spare one.
func (l *taskLink) Drain() []Action {
	l.mu.Lock()
	out := l.pending
	l.pending = l.spare[:0]
	l.spare = out[:0]
	l.mu.Unlock()
	return out
}
