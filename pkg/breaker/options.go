package breaker

import (
	"log/slog"
	"time"
)

// StateChangeHook is invoked after a persisted state transition (open,
// half-open, closed). Useful for metrics and alerting; see pkg/provider.
type StateChangeHook func(provider, region string, state State)

// Option configures a CircuitBreaker.
type Option func(*CircuitBreaker)

// WithLogger sets the logger for fallback and transition diagnostics.
// Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(cb *CircuitBreaker) {
		if log != nil {
			cb.log = log
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(cb *CircuitBreaker) {
		if now != nil {
			cb.now = now
		}
	}
}

// WithStateChangeHook registers a callback for circuit state transitions.
func WithStateChangeHook(hook StateChangeHook) Option {
	return func(cb *CircuitBreaker) {
		cb.onStateChange = hook
	}
}
