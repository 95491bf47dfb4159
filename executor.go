package commander

import "container/heap"

// scheduledTask is the capability set an [Executor] needs from a task,
// regardless of what its actual future produces: the Go analogue of
// dispatching on a narrow {poll, priority, handle} capability rather than a
// concrete generic type, since a single [TaskContainer] must hold every
// task's [Agent]/[Future] pairing homogeneously.
type scheduledTask interface {
	poll(tickIndex uint64)
	checkFinish() bool
	priority() uint8
	handle() Handle
	isBlocked() bool
	isDone() bool
	agentRef() *Agent
	outcome() TaskOutcome
	killReason() KillReason
}

// ExecutorOption configures an [Executor] at construction time.
type ExecutorOption interface {
	applyExecutor(*executorConfig)
}

type executorConfig struct {
	log Logger
}

type executorOptionImpl struct {
	applyFunc func(*executorConfig)
}

func (o *executorOptionImpl) applyExecutor(cfg *executorConfig) {
	o.applyFunc(cfg)
}

// WithLogger sets the structured logger an [Executor] writes tick and
// task-finish events to. Injected per-Executor rather than read from a
// package-level global, since more than one Executor commonly coexists in a
// single process or test binary.
func WithLogger(log Logger) ExecutorOption {
	return &executorOptionImpl{func(cfg *executorConfig) {
		cfg.log = log
	}}
}

// Executor is the cooperative, single-threaded scheduler core: it owns a
// [TaskContainer], a priority run queue, and an action queue draining
// add/unblock/done requests, and drives exactly one task forward per
// [Executor.Tick] call.
//
// Tick is not safe for concurrent callers and must be driven by one host
// goroutine. [Add] and a [TaskHandle]'s State touch the same unguarded state
// as Tick and are not safe to call concurrently with it; an [Agent]'s
// Finish/Tidy (and so [TaskHandle.Kill]) only touch mutex- or atomic-guarded
// state and are.
type Executor struct {
	tasks       *TaskContainer[scheduledTask]
	run         *runnable
	link        *taskLink
	integ       *reenteringIntegration
	log         Logger
	metrics     *metricsState
	tickIndex   uint64
	now         float64
	tickWaiters tickWaiterHeap
	timeouts    timeoutHeap
	slots       map[SlotKey]*Agent
}

// New constructs an Executor driven by integration.
func New(integration Integration, opts ...ExecutorOption) *Executor {
	cfg := executorConfig{log: noopLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt.applyExecutor(&cfg)
		}
	}
	return &Executor{
		tasks:   NewTaskContainer[scheduledTask](),
		run:     newRunnable(),
		link:    newTaskLink(),
		integ:   newReenteringIntegration(integration),
		log:     cfg.log,
		metrics: newMetricsState(),
		now:     integration.CurrentTime(),
		slots:   make(map[SlotKey]*Agent),
	}
}

// NewAgent constructs an [Agent] configured by cfg, not yet bound to any
// task. Bind it to one by passing both to [Add].
func (e *Executor) NewAgent(cfg RunConfig, name string) *Agent {
	if name == "" {
		name = cfg.Name()
	}
	return newAgent(e.link, e.integ, e, cfg, name)
}

// currentTick returns the executor's internal tick counter, incremented
// once per [Executor.Tick] call.
func (e *Executor) currentTick() uint64 {
	return e.tickIndex
}

// registerTickWaiter arranges for block to be woken once currentTick() has
// advanced to at least target.
func (e *Executor) registerTickWaiter(target uint64, block *Block) {
	heap.Push(&e.tickWaiters, tickWaiterEntry{at: target, block: block})
}

// registerTimeout arranges for agent to be killed with [Timeout] once now
// has advanced to at least deadline.
func (e *Executor) registerTimeout(deadline float64, agent *Agent) {
	heap.Push(&e.timeouts, timeoutEntry{deadline: deadline, agent: agent})
}

// taskWrapper adapts a concrete Future[R] task to the package-private
// scheduledTask capability interface, so heterogeneous task types can share
// one [TaskContainer].
type taskWrapper[R any] struct {
	agent     *Agent
	future    Future[R]
	hasResult bool
	result    R
	done      bool
	outcome   TaskOutcome
	reason    KillReason
}

func (w *taskWrapper[R]) priority() uint8 { return w.agent.Priority() }
func (w *taskWrapper[R]) handle() Handle  { return w.agent.handle }
func (w *taskWrapper[R]) agentRef() *Agent { return w.agent }
func (w *taskWrapper[R]) isBlocked() bool { return w.agent.blocks.root.IsBlocked() }
func (w *taskWrapper[R]) isDone() bool    { return w.done }

// poll advances the task by one step: if it isn't finishing, poll its user
// future directly; if it is finishing (naturally completed, killed, or
// superseded), instead drive its tidiers forward, since nothing else will.
func (w *taskWrapper[R]) poll(tickIndex uint64) {
	if w.done {
		return
	}
	root := w.agent.blocks.root
	if w.agent.finish.finishing() {
		w.pollTidiers(root)
		return
	}
	waker := root.MakeWaker()
	val, ok := w.future.Poll(waker)
	if ok {
		w.hasResult = true
		w.result = val
		w.agent.finish.finish(nil, false)
		w.pollTidiers(root)
		return
	}
	root.MarkBlocked()
}

// pollTidiers drives every currently-ready live tidier to completion, in
// most-recently-created-first order, stopping as soon as one reports
// Pending (that tidier's own wake, via the same root block, will bring the
// task back here on a later tick) rather than spinning on it.
func (w *taskWrapper[R]) pollTidiers(root *Block) {
	for {
		tidier, ok := w.agent.finish.getTidier()
		if !ok {
			break
		}
		waker := root.MakeWaker()
		_, done := tidier.Poll(waker)
		w.agent.finish.checkTidiers()
		if !done {
			break
		}
	}
	if !w.agent.finish.finished() {
		root.MarkBlocked()
	}
}

// checkFinish reports, and if true finalises, the task's completion state.
func (w *taskWrapper[R]) checkFinish() bool {
	if w.done {
		return true
	}
	if !w.agent.finish.finishing() {
		return false
	}
	w.agent.finish.checkTidiers()
	if !w.agent.finish.finished() {
		return false
	}
	w.done = true
	if w.hasResult {
		w.outcome = Completed
	} else {
		reason, _ := w.agent.finish.getKillReason()
		w.outcome = Killed
		w.reason = reason
	}
	return true
}

// state returns the task's current observable result.
func (w *taskWrapper[R]) state() TaskResult[R] {
	if !w.done {
		return TaskResult[R]{Outcome: Ongoing}
	}
	if w.outcome == Completed {
		return TaskResult[R]{Outcome: Completed, Value: w.result}
	}
	return TaskResult[R]{Outcome: Killed, Reason: w.reason}
}

func (w *taskWrapper[R]) outcome() TaskOutcome   { return w.outcome }
func (w *taskWrapper[R]) killReason() KillReason { return w.reason }

// TaskHandle observes and controls one task added via [Add].
type TaskHandle[R any] struct {
	wrapper *taskWrapper[R]
}

// State returns the task's current result: [Ongoing] until it completes or
// is killed.
func (h TaskHandle[R]) State() TaskResult[R] {
	return h.wrapper.state()
}

// Kill finishes the task with reason, if it hasn't already finished.
func (h TaskHandle[R]) Kill(reason KillReason) {
	h.wrapper.agent.Finish(reason)
}

// Handle returns the underlying container handle, primarily useful for
// logging/diagnostics.
func (h TaskHandle[R]) Handle() Handle {
	return h.wrapper.agent.handle
}

// Add registers future, driven by agent, with e. agent must have come from
// e.NewAgent and not already be bound to another task. Slot exclusion and any
// configured timeout are taken from agent's own [RunConfig], set when it was
// created via [Executor.NewAgent].
//
// Add is a free function, not an Executor or Agent method, since Go forbids
// type parameters on methods.
func Add[R any](e *Executor, future Future[R], agent *Agent) TaskHandle[R] {
	h := e.tasks.Allocate()
	agent.bindHandle(h)
	w := &taskWrapper[R]{agent: agent, future: future, outcome: Ongoing}
	e.tasks.Set(h, w)

	if c, ok := any(future).(coroutineCanceller); ok {
		agent.finish.onFinish = c.cancelCoroutine
	}

	if agent.hasSlot {
		if older, exists := e.slots[agent.slotKey]; exists && older != agent {
			older.Finish(NotNeeded)
		}
		e.slots[agent.slotKey] = agent
	}
	if timeout, ok := agent.cfg.Timeout(); ok {
		e.registerTimeout(e.now+timeout, agent)
	}

	e.link.Add(Action{Kind: ActionAdd, Handle: h})
	return TaskHandle[R]{wrapper: w}
}

func (e *Executor) drainActions() {
	for _, a := range e.link.Drain() {
		switch a.Kind {
		case ActionAdd:
			e.run.add(e.tasks, a.Handle)
		case ActionUnblockTask:
			task, ok := e.tasks.Get(a.Handle)
			if !ok {
				continue
			}
			if !task.isBlocked() {
				e.run.add(e.tasks, a.Handle)
			}
		case ActionDone:
			e.finalizeDone(a.Handle)
		}
	}
}

func (e *Executor) finalizeDone(h Handle) {
	task, ok := e.tasks.Get(h)
	if !ok {
		return
	}
	e.run.remove(e.tasks, h)
	agent := task.agentRef()
	if agent.hasSlot && e.slots[agent.slotKey] == agent {
		delete(e.slots, agent.slotKey)
	}
	outcome := task.outcome()
	reason := task.killReason()
	if outcome == Killed {
		e.metrics.recordKill(reason, agent.statsBucket)
	} else {
		e.metrics.recordCompletion(agent.statsBucket)
	}
	if e.log != nil {
		logTaskDone(e.log, agent.name, agent.statsBucket, outcome, reason)
	}
	e.tasks.Remove(h)
}

func (e *Executor) serviceTimeouts(now float64) {
	for len(e.timeouts) > 0 && e.timeouts[0].deadline <= now {
		entry := heap.Pop(&e.timeouts).(timeoutEntry)
		entry.agent.Finish(Timeout)
	}
}

func (e *Executor) serviceTickWaiters() {
	for len(e.tickWaiters) > 0 && e.tickWaiters[0].at <= e.tickIndex {
		entry := heap.Pop(&e.tickWaiters).(tickWaiterEntry)
		entry.block.sendUnblockToExecutor()
	}
}

// sweepFinishing drives checkFinish on every live task, finalising any whose
// tidiers have all drained since their last poll. It does not itself enqueue
// [ActionDone]: that happens exactly once, inside [finishAgent.finished],
// the first time a task's finishing state and tidier set both settle —
// whether that's reached from here or from the task's own poll call.
func (e *Executor) sweepFinishing() {
	for _, h := range e.tasks.AllHandles() {
		task, ok := e.tasks.Get(h)
		if !ok {
			continue
		}
		task.checkFinish()
	}
}

// Tick drives the executor forward by one step: it processes queued
// actions, services elapsed timeouts and tick-waiters, polls exactly one
// ready task (chosen by strict priority then FIFO), and reports the next
// [SleepQuantity] the host should wait for.
func (e *Executor) Tick(now float64) {
	e.integ.Reentering()
	e.now = now
	e.drainActions()
	e.serviceTimeouts(now)
	polled := e.run.run(e.tasks, e.tickIndex)
	e.tickIndex++
	e.serviceTickWaiters()
	e.sweepFinishing()
	e.drainActions()

	sleep := e.computeSleep(now)
	e.integ.Sleep(sleep)
	if e.log != nil {
		logTick(e.log, e.tickIndex, sleep, polled)
	}
}

func (e *Executor) computeSleep(now float64) SleepQuantity {
	if e.run.firstUsed >= 0 {
		return SleepQuantity{Kind: SleepNone}
	}
	best, ok := float64(0), false
	if len(e.timeouts) > 0 {
		best, ok = e.timeouts[0].deadline-now, true
	}
	if len(e.tickWaiters) > 0 {
		if !ok {
			best, ok = 0, true
		}
	}
	if !ok {
		return SleepQuantity{Kind: SleepForever}
	}
	if best < 0 {
		best = 0
	}
	return SleepQuantity{Kind: SleepTime, Seconds: best}
}

// Metrics returns a point-in-time snapshot of this executor's activity.
func (e *Executor) Metrics() ExecutorMetrics {
	depth := make(map[uint8]int)
	for i, q := range e.run.queues {
		if q != nil && !q.empty() {
			depth[uint8(i)] = q.order.Len()
		}
	}
	return e.metrics.snapshot(e.tasks.Len(), depth)
}

// tickWaiterEntry is one entry in the tick-waiter min-heap.
type tickWaiterEntry struct {
	at    uint64
	block *Block
}

type tickWaiterHeap []tickWaiterEntry

func (h tickWaiterHeap) Len() int            { return len(h) }
func (h tickWaiterHeap) Less(i, j int) bool  { return h[i].at < h[j].at }
func (h tickWaiterHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *tickWaiterHeap) Push(x any)         { *h = append(*h, x.(tickWaiterEntry)) }
func (h *tickWaiterHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// timeoutEntry is one entry in the deadline min-heap.
type timeoutEntry struct {
	deadline float64
	agent    *Agent
}

type timeoutHeap []timeoutEntry

func (h timeoutHeap) Len() int            { return len(h) }
func (h timeoutHeap) Less(i, j int) bool  { return h[i].deadline < h[j].deadline }
func (h timeoutHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *timeoutHeap) Push(x any)         { *h = append(*h, x.(timeoutEntry)) }
func (h *timeoutHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
