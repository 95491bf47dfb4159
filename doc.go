// Package commander provides a cooperative, single-threaded task scheduler.
//
// It runs many producer/consumer tasks to completion on a single logical
// thread of control, in strict priority order, honouring kill signals,
// cleanup guarantees, and a host-supplied sleep/idle primitive.
//
// # Architecture
//
// The scheduler is built around an [Executor] core that owns a
// [TaskContainer], a priority-ordered run queue, and an action
// queue draining add/unblock/done requests. Each task runs inside an
// [Agent], which surrounds the task's user-supplied [Future] with lifecycle,
// cancellation, and cleanup concerns: [Block]/[BlockAgent] for suspension,
// [Tidier] for guaranteed cleanup, and [Turnstile] for isolating wakeups in
// broad joins.
//
// User task bodies are ordinary synchronous Go functions, run on their own
// goroutine and handed off to the driving [Executor.Tick] call one
// suspension point at a time via [Spawn] and [Await] — the same
// goroutine+channel trick the standard library uses internally to implement
// two-way generators. Nothing else in the package spawns a goroutine; the
// rest of the scheduler is expressed purely as poll/waker state machines.
//
// # Thread Safety
//
// [Executor.Tick] is not safe for concurrent callers and must be driven by
// one host goroutine, matching the single-threaded cooperative model. The
// action queue feeding it ([taskLink]) is safe for concurrent Add calls,
// since a task's own coroutine goroutine briefly coexists with the executor
// goroutine around each suspend/resume handoff.
//
// # Execution Model
//
// Each call to [Executor.Tick] does, in order:
//
//  1. Tell the integration adapter a new tick has begun ([reenteringIntegration.Reentering]).
//  2. Drain the action queue snapshotted at the start of the tick (add/unblock/done).
//  3. Service any tasks whose timeout has elapsed, as if killed with [Timeout].
//  4. Poll exactly one ready task, chosen by strict priority then FIFO.
//  5. Compute and forward the next [SleepQuantity] to the host integration.
//
// # Usage
//
//	exec := commander.New(integration)
//	agent := exec.NewAgent(commander.NewRunConfig(commander.WithPriority(0)), "demo")
//	future := commander.FuncFuture(func(commander.Waker) (int, bool) {
//		return 42, true
//	})
//	handle := commander.Add(exec, future, agent)
//	exec.Tick(0)
//	fmt.Println(handle.State())
//
// # Error Types
//
// The package surfaces only a small, closed set of conditions at the task
// boundary: [KillReason] (recoverable, observed via [TaskResult]), and a
// handful of programming-error panics for contract violations (e.g. a
// [BlockAgent] stack underflow). Nothing else in the package panics in
// response to ordinary user-level events.
package commander
