package commander

import "sync"

// finishAgent is the [Agent] mixin responsible for kill signals and
// guaranteed cleanup. It owns the set of live [Tidier]s for its task, and
// decides when the task is fully finished (finishing, and every tidier has
// run to completion) — at which point it emits exactly one [ActionDone].
//
// Unlike its originating source, where every task lived on one logical
// thread, here a task's own coroutine goroutine and external callers (other
// tasks, host code) can call Finish concurrently with the executor's own
// tick goroutine inspecting this state, so access is mutex-guarded.
type finishAgent struct {
	mu         sync.Mutex
	tidiers    []*Tidier
	killReason *KillReason
	finishing  bool
	doneSent   bool
	handle     Handle
	link       *taskLink
	integ      *reenteringIntegration
	// onFinish, if set, is called exactly once, the first time finish
	// succeeds. Used to unpark a task body's coroutine goroutine immediately
	// rather than leaving it parked until some unrelated wakeup reaches it.
	onFinish func()
}

func newFinishAgent(handle Handle, link *taskLink, integ *reenteringIntegration) *finishAgent {
	return &finishAgent{handle: handle, link: link, integ: integ}
}

// makeTidier wraps inner as a [Tidier] tracked by this finishAgent, so it is
// guaranteed to be driven to completion even if the task is killed before
// ever awaiting the returned Tidier directly.
func (f *finishAgent) makeTidier(inner Future[struct{}]) *Tidier {
	t := newTidier(inner)
	f.mu.Lock()
	f.tidiers = append(f.tidiers, t)
	f.mu.Unlock()
	return t
}

// checkTidiers drops every tidier that has finished. Implemented as a single
// retain-pass, rather than index-based removal, so it behaves correctly
// regardless of how many tidiers finish in the same check.
func (f *finishAgent) checkTidiers() {
	f.mu.Lock()
	defer f.mu.Unlock()
	live := f.tidiers[:0]
	for _, t := range f.tidiers {
		if !t.Finished() {
			live = append(live, t)
		}
	}
	f.tidiers = live
}

// finishing reports whether Finish has been called.
func (f *finishAgent) finishing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finishing
}

// finished reports whether the task is fully done: finishing, with every
// tidier drained. The first time this becomes true it enqueues exactly one
// [ActionDone] for the owning task's handle.
func (f *finishAgent) finished() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finishing && len(f.tidiers) == 0 {
		if !f.doneSent {
			f.link.Add(Action{Kind: ActionDone, Handle: f.handle})
		}
		f.doneSent = true
		return true
	}
	return false
}

// getTidier returns the most recently created still-live tidier, if any.
func (f *finishAgent) getTidier() (*Tidier, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tidiers) == 0 {
		return nil, false
	}
	return f.tidiers[len(f.tidiers)-1], true
}

// finish marks the task as finishing. reason is nil when the task's own body
// chose to stop (e.g. its future simply completed); isAsync distinguishes a
// kill that might originate from outside the task's own poll call (which
// must force a prompt re-entry via CauseReentry) from one known to be
// happening inside the current poll (which doesn't need to, since the
// executor is already mid-tick for this task).
func (f *finishAgent) finish(reason *KillReason, isAsync bool) {
	f.mu.Lock()
	if f.finishing {
		f.mu.Unlock()
		return
	}
	if reason != nil {
		f.killReason = reason
	}
	f.finishing = true
	onFinish := f.onFinish
	f.mu.Unlock()

	if onFinish != nil {
		onFinish()
	}
	f.link.Add(Action{Kind: ActionUnblockTask, Handle: f.handle})
	if isAsync {
		f.integ.CauseReentry()
	}
}

// getKillReason returns the reason the task was finished, if Finish was
// called with one.
func (f *finishAgent) getKillReason() (KillReason, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.killReason == nil {
		return 0, false
	}
	return *f.killReason, true
}
