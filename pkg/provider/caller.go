package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/finkit/pkg/breaker"
	"github.com/dmitrymomot/finkit/pkg/deadline"
)

// CallConfig describes one outbound provider call.
type CallConfig struct {
	Provider string
	// Region defaults to the breaker's configured default region when empty.
	Region string
	// Operation names the call in errors, logs, and timeout diagnostics,
	// e.g. "accounts.list".
	Operation string
	// Timeout bounds the call; zero runs it unbounded (the context still
	// applies).
	Timeout time.Duration
	// OnTimeout is forwarded to the deadline enforcer, typically to abort
	// the underlying transport.
	OnTimeout func()
}

// Caller composes the circuit breaker and deadline enforcer for outbound
// provider calls. Safe for concurrent use.
type Caller struct {
	breaker *breaker.CircuitBreaker
	log     *slog.Logger
	metrics *Metrics
}

// CallerOption configures a Caller.
type CallerOption func(*Caller)

// WithCallerLogger sets the logger. Defaults to slog.Default().
func WithCallerLogger(log *slog.Logger) CallerOption {
	return func(c *Caller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetrics attaches call-outcome counters.
func WithMetrics(m *Metrics) CallerOption {
	return func(c *Caller) {
		c.metrics = m
	}
}

// NewCaller creates a Caller over the given circuit breaker.
func NewCaller(cb *breaker.CircuitBreaker, opts ...CallerOption) *Caller {
	c := &Caller{
		breaker: cb,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Breaker exposes the underlying circuit breaker for diagnostics endpoints.
func (c *Caller) Breaker() *breaker.CircuitBreaker { return c.breaker }

// Call runs fn guarded by the circuit breaker and bounded by cfg.Timeout,
// then records the outcome with the observed latency.
//
// An open circuit returns ErrProviderUnavailable without invoking fn. A
// timeout returns a deadline timeout error. When the call itself succeeds
// but the health store rejects the outcome write, Call returns the value
// together with an ErrHealthRecordWrite-wrapped error; the store failure is
// not swallowed because the breaker's view of the provider is now behind.
func Call[T any](ctx context.Context, c *Caller, cfg CallConfig, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if cfg.Provider == "" {
		return zero, breaker.ErrEmptyProvider
	}

	operation := cfg.Operation
	if operation == "" {
		operation = cfg.Provider + ".call"
	}
	region := cfg.Region
	if region == "" {
		region = c.breaker.DefaultRegion()
	}

	if c.breaker.IsOpen(ctx, cfg.Provider, region) {
		c.metrics.observeCall(cfg.Provider, region, outcomeRejected)
		return zero, fmt.Errorf("%w: %s circuit open", ErrProviderUnavailable, cfg.Provider)
	}

	start := time.Now()
	value, err := deadline.Run(ctx, deadline.Config{
		Timeout:   cfg.Timeout,
		Operation: operation,
		OnTimeout: cfg.OnTimeout,
		Logger:    c.log,
	}, fn)
	elapsed := time.Since(start)

	if err != nil {
		outcome := outcomeFailure
		if deadline.IsTimeout(err) {
			outcome = outcomeTimeout
		}
		c.metrics.observeCall(cfg.Provider, region, outcome)

		if recErr := c.breaker.RecordFailure(ctx, cfg.Provider, region, err.Error(), elapsed); recErr != nil {
			return zero, errors.Join(err, ErrHealthRecordWrite, recErr)
		}
		return zero, err
	}

	c.metrics.observeCall(cfg.Provider, region, outcomeSuccess)
	if recErr := c.breaker.RecordSuccess(ctx, cfg.Provider, region, elapsed); recErr != nil {
		return value, errors.Join(ErrHealthRecordWrite, recErr)
	}
	return value, nil
}
