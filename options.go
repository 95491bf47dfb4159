// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package commander

// SlotKey identifies an exclusive execution group: at most one task with a
// given SlotKey is ever live at once. Adding a task whose config names a
// SlotKey that already has a live occupant kills the older occupant with
// [NotNeeded] before the new task is added.
type SlotKey = any

// RunConfig holds the per-task configuration recognised by [Executor.NewAgent]:
// priority, optional exclusive slot, optional timeout, diagnostic name, and
// stats bucket.
type RunConfig struct {
	priority    uint8
	slot        SlotKey
	hasSlot     bool
	timeout     float64
	hasTimeout  bool
	name        string
	statsBucket string
}

// --- RunConfig Options ---

// RunConfigOption configures a [RunConfig].
type RunConfigOption interface {
	applyRunConfig(*RunConfig)
}

// runConfigOptionImpl implements [RunConfigOption].
type runConfigOptionImpl struct {
	applyFunc func(*RunConfig)
}

func (o *runConfigOptionImpl) applyRunConfig(cfg *RunConfig) {
	o.applyFunc(cfg)
}

// WithPriority sets the run-queue priority. Lower values run earlier;
// priorities strictly dominate, with no ageing or fairness across them.
func WithPriority(priority uint8) RunConfigOption {
	return &runConfigOptionImpl{func(cfg *RunConfig) {
		cfg.priority = priority
	}}
}

// WithSlot assigns the task to an exclusive execution group. Adding a later
// task with the same slot kills the earlier occupant with [NotNeeded].
func WithSlot(slot SlotKey) RunConfigOption {
	return &runConfigOptionImpl{func(cfg *RunConfig) {
		cfg.slot = slot
		cfg.hasSlot = true
	}}
}

// WithTimeout sets a deadline, in seconds relative to the task's add time,
// after which the task is killed with [Timeout] if it hasn't completed.
func WithTimeout(seconds float64) RunConfigOption {
	return &runConfigOptionImpl{func(cfg *RunConfig) {
		cfg.timeout = seconds
		cfg.hasTimeout = true
	}}
}

// WithName sets a diagnostic-only display name, surfaced in structured log
// events but otherwise inert.
func WithName(name string) RunConfigOption {
	return &runConfigOptionImpl{func(cfg *RunConfig) {
		cfg.name = name
	}}
}

// WithStatsBucket sets a free-text classification used to group tasks in
// [ExecutorMetrics], without affecting scheduling.
func WithStatsBucket(bucket string) RunConfigOption {
	return &runConfigOptionImpl{func(cfg *RunConfig) {
		cfg.statsBucket = bucket
	}}
}

// NewRunConfig builds a [RunConfig] from options, defaulting to priority 0,
// no slot, no timeout, and an empty name.
func NewRunConfig(opts ...RunConfigOption) RunConfig {
	var cfg RunConfig
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyRunConfig(&cfg)
	}
	return cfg
}

// Priority returns the configured run-queue priority.
func (c RunConfig) Priority() uint8 { return c.priority }

// Slot returns the configured exclusive slot key and whether one was set.
func (c RunConfig) Slot() (SlotKey, bool) { return c.slot, c.hasSlot }

// Timeout returns the configured timeout, in seconds, and whether one was set.
func (c RunConfig) Timeout() (float64, bool) { return c.timeout, c.hasTimeout }

// Name returns the configured diagnostic name.
func (c RunConfig) Name() string { return c.name }

// StatsBucket returns the configured stats bucket.
func (c RunConfig) StatsBucket() string { return c.statsBucket }
