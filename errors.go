package commander

import "fmt"

// KillReason explains why a task stopped having its primary future polled.
// Kill reasons are always recoverable at the task boundary and are surfaced
// via [TaskResult]; none of them cause a panic.
type KillReason int

const (
	// Cancelled means the task was killed by an explicit external request.
	Cancelled KillReason = iota
	// Timeout means the task's deadline (see [WithTimeout]) elapsed before
	// it completed.
	Timeout
	// NotNeeded means the task was superseded, typically because a newer
	// task was added to the same exclusive [SlotKey].
	NotNeeded
	// UserCode means the task's own body requested its termination.
	UserCode
)

// String implements [fmt.Stringer].
func (r KillReason) String() string {
	switch r {
	case Cancelled:
		return "cancelled"
	case Timeout:
		return "timeout"
	case NotNeeded:
		return "not-needed"
	case UserCode:
		return "user-code"
	default:
		return fmt.Sprintf("KillReason(%d)", int(r))
	}
}

// TaskOutcome classifies the lifecycle state a [TaskResult] reports.
type TaskOutcome int

const (
	// Ongoing means the task has neither completed nor been killed.
	Ongoing TaskOutcome = iota
	// Completed means the task's future reached Ready naturally.
	Completed
	// Killed means the task was finished via a kill reason before its
	// future ever reached Ready.
	Killed
)

// String implements [fmt.Stringer].
func (o TaskOutcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Completed:
		return "completed"
	case Killed:
		return "killed"
	default:
		return fmt.Sprintf("TaskOutcome(%d)", int(o))
	}
}

// TaskResult is the value observable via [TaskHandle.State]: a task is
// either still [Ongoing], [Completed] with a value, or [Killed] with a
// reason. Exactly one of Value/Reason is meaningful, per Outcome.
type TaskResult[R any] struct {
	Outcome TaskOutcome
	Value   R
	Reason  KillReason
}

// ContractViolation is the panic value raised when calling code breaks a
// documented invariant of this package — for example popping more blocks off
// a [BlockAgent] than were pushed, or polling a [Spawn] future again after it
// has finished. It is never raised in response to an ordinary task-level event
// (kill, timeout, double-finish); those are all recoverable and handled via
// [KillReason] instead.
type ContractViolation struct {
	Message string
}

// Error implements the error interface.
func (e *ContractViolation) Error() string {
	return "commander: " + e.Message
}

func contractViolation(format string, args ...any) {
	panic(&ContractViolation{Message: fmt.Sprintf(format, args...)})
}
