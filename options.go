package priosched

import "log/slog"

// Options holds configuration for a [Simulator].
type Options struct {
	ContextSwitchTime Ttick
	Logger            *slog.Logger
	Hook              Hook
}

// Option is a function that configures [Options].
type Option func(*Options)

// WithContextSwitchTime sets the clock penalty charged on every process change
// after the first dispatch.
func WithContextSwitchTime(t Ttick) Option {
	return func(o *Options) {
		o.ContextSwitchTime = t
	}
}

// WithLogger sets the logger for dispatch, aging and completion events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithHook sets the hook notified of simulation events.
func WithHook(hook Hook) Option {
	return func(o *Options) {
		o.Hook = hook
	}
}
