package commander

// Agent surrounds a task's user-supplied [Future] with the lifecycle
// concerns every task needs regardless of what it actually computes:
// suspension ([BlockAgent]), cleanup ([Tidier] via [Agent.Tidy]), and kill
// signals ([Agent.Finish]). [Turnstile] is exposed as a free function
// rather than a method, since Go forbids type parameters on methods.
//
// An Agent is created via [Executor.NewAgent] before the task it will back
// is known, and bound to a [Handle] once [Add] registers that task.
type Agent struct {
	handle      Handle
	name        string
	statsBucket string
	cfg         RunConfig
	slotKey     SlotKey
	hasSlot     bool
	blocks      *BlockAgent
	finish      *finishAgent
	link        *taskLink
	integ       *reenteringIntegration
	executor    *Executor
}

func newAgent(link *taskLink, integ *reenteringIntegration, executor *Executor, cfg RunConfig, name string) *Agent {
	a := &Agent{name: name, statsBucket: cfg.StatsBucket(), cfg: cfg, link: link, integ: integ, executor: executor}
	if slot, ok := cfg.Slot(); ok {
		a.slotKey = slot
		a.hasSlot = true
	}
	a.blocks = newBlockAgent(func(*Block) {
		link.Add(Action{Kind: ActionUnblockTask, Handle: a.handle})
	})
	a.finish = newFinishAgent(Handle{}, link, integ)
	return a
}

// Priority returns the agent's configured run-queue priority.
func (a *Agent) Priority() uint8 { return a.cfg.Priority() }

// bindHandle associates this agent with the task's container slot. Called
// exactly once, by [Add].
func (a *Agent) bindHandle(h Handle) {
	a.handle = h
	a.finish.handle = h
}

// Handle returns the task handle this agent is bound to.
func (a *Agent) Handle() Handle { return a.handle }

// Name returns the agent's diagnostic display name.
func (a *Agent) Name() string { return a.name }

// Tick returns a future that becomes ready once n further [Executor.Tick]
// calls have occurred, counted from the moment it is first polled.
func (a *Agent) Tick(n int) Future[struct{}] {
	return &tickFuture{agent: a, n: n}
}

// Tidy wraps inner as a [Tidier]: guaranteed to be driven to completion even
// if this task is killed before ever directly awaiting the returned value.
func (a *Agent) Tidy(inner Future[struct{}]) *Tidier {
	return a.finish.makeTidier(inner)
}

// Finish kills the task with reason. Idempotent: only the first call has any
// effect. Safe to call from outside the task's own poll call (e.g. from
// another task, or from host code): besides queuing the finish, it also
// force-unblocks the root block directly, since a task killed from outside
// its own poll call may currently be parked on an arbitrary suspension point
// that nothing else is about to wake.
func (a *Agent) Finish(reason KillReason) {
	a.finish.finish(&reason, true)
	a.blocks.root.sendUnblockToExecutor()
}

// tickFuture is the [Future] behind [Agent.Tick]: ready once the executor's
// internal tick counter has advanced by n from wherever it stood at first
// poll.
type tickFuture struct {
	agent      *Agent
	n          int
	target     uint64
	hasTarget  bool
	registered bool
}

// Poll implements [Future].
func (t *tickFuture) Poll(waker Waker) (struct{}, bool) {
	cur := t.agent.executor.currentTick()
	if !t.hasTarget {
		t.target = cur + uint64(t.n)
		t.hasTarget = true
	}
	if cur >= t.target {
		return struct{}{}, true
	}
	if !t.registered {
		t.agent.executor.registerTickWaiter(t.target, waker.block)
		t.registered = true
	}
	return struct{}{}, false
}
