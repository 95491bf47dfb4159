package commander

import "sync"

// ExecutorMetrics is a point-in-time snapshot of an [Executor]'s activity.
// It is plain counters, not a percentile/latency tracker — this module's
// non-goals exclude fairness and timer-wheel generality, not basic
// observability, so the scope here is deliberately narrow.
type ExecutorMetrics struct {
	LiveTasks        int
	QueueDepth       map[uint8]int
	CompletedTotal   int
	KilledByReason   map[KillReason]int
	TasksByStatsBucket map[string]int
}

// metricsState is the Executor's mutable counters. Guarded by its own mutex
// since [Executor.Metrics] may reasonably be called from a goroutine other
// than the one driving [Executor.Tick].
type metricsState struct {
	mu             sync.Mutex
	completedTotal int
	killedByReason map[KillReason]int
	byStatsBucket  map[string]int
}

func newMetricsState() *metricsState {
	return &metricsState{
		killedByReason: make(map[KillReason]int),
		byStatsBucket:  make(map[string]int),
	}
}

func (m *metricsState) recordCompletion(statsBucket string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completedTotal++
	if statsBucket != "" {
		m.byStatsBucket[statsBucket]++
	}
}

func (m *metricsState) recordKill(reason KillReason, statsBucket string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.killedByReason[reason]++
	if statsBucket != "" {
		m.byStatsBucket[statsBucket]++
	}
}

func (m *metricsState) snapshot(liveTasks int, queueDepth map[uint8]int) ExecutorMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	killed := make(map[KillReason]int, len(m.killedByReason))
	for k, v := range m.killedByReason {
		killed[k] = v
	}
	buckets := make(map[string]int, len(m.byStatsBucket))
	for k, v := range m.byStatsBucket {
		buckets[k] = v
	}
	return ExecutorMetrics{
		LiveTasks:          liveTasks,
		QueueDepth:         queueDepth,
		CompletedTotal:     m.completedTotal,
		KilledByReason:     killed,
		TasksByStatsBucket: buckets,
	}
}
