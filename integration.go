package commander

import "sync"

// SleepKind classifies a [SleepQuantity].
type SleepKind int

const (
	// SleepNone means the executor should be polled again immediately, with
	// no idle wait at all.
	SleepNone SleepKind = iota
	// SleepTime means the executor should be polled again after at most
	// Seconds have elapsed, or sooner if woken.
	SleepTime
	// SleepForever means nothing is currently scheduled to need attention;
	// the host should wait indefinitely until woken.
	SleepForever
	// SleepYesterday is the one-shot signal emitted by [reenteringIntegration]
	// to force an immediate re-entry into the executor, bypassing whatever
	// idle wait the host would otherwise have chosen.
	SleepYesterday
)

// SleepQuantity is the value an [Executor] reports to its host [Integration]
// after each tick: how long the host may safely idle before driving the
// executor again.
type SleepQuantity struct {
	Kind    SleepKind
	Seconds float64
}

// Integration is the host-supplied adapter an [Executor] drives: it supplies
// the current time and receives the executor's sleep/idle recommendation
// after every tick. Hosts typically implement this atop their own event loop
// or timer wheel; this package has no opinion on how Sleep is honoured.
type Integration interface {
	CurrentTime() float64
	Sleep(q SleepQuantity)
}

// sleepCatcherIntegration deduplicates consecutive identical SleepQuantity
// values before forwarding them to the wrapped Integration, so a host is
// never asked to re-arm an identical timer twice in a row.
type sleepCatcherIntegration struct {
	mu       sync.Mutex
	inner    Integration
	lastSet  bool
	lastSeen SleepQuantity
}

func newSleepCatcherIntegration(inner Integration) *sleepCatcherIntegration {
	return &sleepCatcherIntegration{inner: inner}
}

func (s *sleepCatcherIntegration) currentTime() float64 {
	return s.inner.CurrentTime()
}

func (s *sleepCatcherIntegration) sleep(q SleepQuantity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSet && s.lastSeen == q {
		return
	}
	s.lastSet = true
	s.lastSeen = q
	s.inner.Sleep(q)
}

// reenteringIntegration is the outermost wrapper around a host [Integration]:
// it provides CauseReentry, which guarantees SleepQuantity is forced to
// [SleepYesterday] exactly once until the next [reenteringIntegration.Reentering]
// call (made by the executor at the start of every tick). This lets an
// asynchronous event — one that isn't already known to be handled by the
// current tick in progress — guarantee a prompt re-entry into the executor.
type reenteringIntegration struct {
	mu        sync.Mutex
	yesterday bool
	inner     *sleepCatcherIntegration
}

func newReenteringIntegration(inner Integration) *reenteringIntegration {
	return &reenteringIntegration{inner: newSleepCatcherIntegration(inner)}
}

// CurrentTime returns the host's current time.
func (r *reenteringIntegration) CurrentTime() float64 {
	return r.inner.currentTime()
}

// Sleep forwards q to the wrapped integration, unless a CauseReentry call is
// still pending this tick, in which case it is suppressed.
func (r *reenteringIntegration) Sleep(q SleepQuantity) {
	r.mu.Lock()
	yesterday := r.yesterday
	r.mu.Unlock()
	if !yesterday {
		r.inner.sleep(q)
	}
}

// CauseReentry forces SleepYesterday to be reported (at most once, until the
// next Reentering call) regardless of what Sleep is subsequently called
// with.
func (r *reenteringIntegration) CauseReentry() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.yesterday {
		r.yesterday = true
		r.inner.sleep(SleepQuantity{Kind: SleepYesterday})
	}
}

// Reentering clears the one-shot CauseReentry latch. Called by the executor
// at the start of every tick.
func (r *reenteringIntegration) Reentering() {
	r.mu.Lock()
	r.yesterday = false
	r.mu.Unlock()
}
