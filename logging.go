package commander

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logger type an [Executor] writes diagnostic
// events to: one per tick (category "tick", debug level) and one per task
// Done/Killed transition (category "finish", info level). Built atop
// logiface with the stumpy JSON event implementation, the same logging
// stack this module's ambient tooling otherwise follows throughout.
type Logger = *logiface.Logger[*stumpy.Event]

// NewLogger builds a default [Logger] writing stumpy-encoded JSON events at
// informational level and above.
func NewLogger(options ...stumpy.Option) Logger {
	return stumpy.L.New(stumpy.L.WithStumpy(options...))
}

// noopLogger is used when no [WithLogger] option is supplied: a logger bound
// to a writer that discards everything, rather than special-casing a nil
// logger at every call site.
func noopLogger() Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(discardWriter{})),
	)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func logTick(log Logger, tickIndex uint64, sleep SleepQuantity, polled bool) {
	log.Debug().
		Uint64(`tick`, tickIndex).
		Int(`sleep_kind`, int(sleep.Kind)).
		Float64(`sleep_seconds`, sleep.Seconds).
		Bool(`polled`, polled).
		Log(`tick`)
}

func logTaskDone(log Logger, name string, statsBucket string, outcome TaskOutcome, reason KillReason) {
	b := log.Info().
		Str(`name`, name).
		Str(`stats_bucket`, statsBucket).
		Str(`outcome`, outcome.String())
	if outcome == Killed {
		b = b.Str(`reason`, reason.String())
	}
	b.Log(`finish`)
}
