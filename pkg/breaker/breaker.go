package breaker

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/finkit/pkg/cache"
)

// fallbackEntry is the last known durable state of a partition, kept in a
// bounded process-local cache for store outages. It is never authoritative
// while the durable store answers.
type fallbackEntry struct {
	open      bool
	updatedAt time.Time
}

// CircuitBreaker tracks provider health per (provider, region) partition.
// Safe for concurrent use; all shared state lives in the Store.
type CircuitBreaker struct {
	cfg           Config
	store         Store
	fallback      *cache.LRU[pairKey, fallbackEntry]
	log           *slog.Logger
	now           func() time.Time
	onStateChange StateChangeHook
}

// New creates a circuit breaker over the given health store. Zero Config
// fields fall back to DefaultConfig values.
func New(store Store, cfg Config, opts ...Option) *CircuitBreaker {
	cfg = cfg.normalize()

	cb := &CircuitBreaker{
		cfg:      cfg,
		store:    store,
		fallback: cache.New[pairKey, fallbackEntry](cfg.FallbackCacheSize),
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(cb)
	}
	return cb
}

// DefaultRegion returns the region substituted for empty region arguments.
func (cb *CircuitBreaker) DefaultRegion() string {
	return cb.cfg.DefaultRegion
}

func (cb *CircuitBreaker) region(region string) string {
	if region == "" {
		return cb.cfg.DefaultRegion
	}
	return region
}

func (cb *CircuitBreaker) notify(provider, region string, state State) {
	if cb.onStateChange != nil {
		cb.onStateChange(provider, region, state)
	}
}

// IsOpen reports whether calls to the partition should be rejected before
// even attempting the provider. It never fails: a store outage degrades to
// the in-memory fallback, and unknown partitions default to closed. When the
// open timeout has elapsed, IsOpen transitions the record to half-open as a
// side effect and lets the probe through.
func (cb *CircuitBreaker) IsOpen(ctx context.Context, provider, region string) bool {
	region = cb.region(region)
	key := pairKey{provider: provider, region: region}

	rec, err := cb.store.Find(ctx, provider, region)
	if err != nil {
		cb.log.WarnContext(ctx, "health store read failed, using in-memory fallback",
			slog.String("provider", provider),
			slog.String("region", region),
			slog.Any("error", err))
		if entry, ok := cb.fallback.Get(key); ok {
			return entry.open && cb.now().Sub(entry.updatedAt) < cb.cfg.OpenTimeout
		}
		return false
	}

	if rec == nil || !rec.Open {
		if rec != nil {
			cb.fallback.Put(key, fallbackEntry{updatedAt: rec.UpdatedAt})
		}
		return false
	}

	// Already half-open: probes stay allowed until an outcome settles the
	// circuit one way or the other.
	if rec.Status == StatusDegraded {
		cb.fallback.Put(key, fallbackEntry{updatedAt: rec.UpdatedAt})
		return false
	}

	now := cb.now()
	if now.Sub(rec.UpdatedAt) < cb.cfg.OpenTimeout {
		cb.fallback.Put(key, fallbackEntry{open: true, updatedAt: rec.UpdatedAt})
		return true
	}

	// Open timeout elapsed: mark the partition half-open and allow a probe.
	rec.Status = StatusDegraded
	rec.ConsecutiveSuccesses = 0
	rec.UpdatedAt = now
	if err := cb.store.Save(ctx, rec); err != nil {
		// Read path stays non-fatal; the probe is still allowed.
		cb.log.WarnContext(ctx, "failed to persist half-open transition",
			slog.String("provider", provider),
			slog.String("region", region),
			slog.Any("error", err))
	}
	cb.fallback.Put(key, fallbackEntry{updatedAt: now})
	cb.notify(provider, region, StateHalfOpen)
	return false
}

// RecordFailure tallies a failed call and trips the circuit once the
// partition's window holds at least TripThreshold failures at a failure rate
// above TripFailureRate. A failure while half-open re-opens immediately.
// Store errors propagate: a dropped outcome must not look recorded.
func (cb *CircuitBreaker) RecordFailure(ctx context.Context, provider, region, errMsg string, responseTime time.Duration) error {
	if provider == "" {
		return ErrEmptyProvider
	}
	region = cb.region(region)

	rec, err := cb.getOrCreate(ctx, provider, region)
	if err != nil {
		return err
	}

	now := cb.now()
	windowReset := cb.rollWindow(rec, now)

	rec.FailedCalls++
	rec.LastResponseTime = responseTime
	rec.LastError = errMsg

	var opened bool
	switch {
	case rec.Open && rec.Status == StatusDegraded:
		// Failed probe: re-open and restart the open timer.
		rec.Status = StatusUnhealthy
		rec.ConsecutiveSuccesses = 0
		opened = true

	case !rec.Open && !windowReset:
		total := rec.FailedCalls + rec.SuccessfulCalls
		rate := float64(rec.FailedCalls) / float64(total)
		if rec.FailedCalls >= cb.cfg.TripThreshold && rate > cb.cfg.TripFailureRate {
			rec.Open = true
			rec.Status = StatusUnhealthy
			opened = true
		}
	}
	rec.UpdatedAt = now

	if err := cb.store.Save(ctx, rec); err != nil {
		return err
	}

	key := pairKey{provider: provider, region: region}
	cb.fallback.Put(key, fallbackEntry{open: rec.Open, updatedAt: now})
	if opened {
		cb.notify(provider, region, StateOpen)
	}
	return nil
}

// RecordSuccess tallies a successful call. While half-open, SuccessThreshold
// consecutive successes close the circuit and zero the counters. Store
// errors propagate.
func (cb *CircuitBreaker) RecordSuccess(ctx context.Context, provider, region string, responseTime time.Duration) error {
	if provider == "" {
		return ErrEmptyProvider
	}
	region = cb.region(region)

	rec, err := cb.getOrCreate(ctx, provider, region)
	if err != nil {
		return err
	}

	now := cb.now()
	cb.rollWindow(rec, now)

	rec.SuccessfulCalls++
	rec.LastResponseTime = responseTime

	var closed bool
	if rec.Open && rec.Status == StatusDegraded {
		rec.ConsecutiveSuccesses++
		if rec.ConsecutiveSuccesses >= cb.cfg.SuccessThreshold {
			rec.Open = false
			rec.Status = StatusHealthy
			rec.FailedCalls = 0
			rec.SuccessfulCalls = 0
			rec.ConsecutiveSuccesses = 0
			rec.WindowStartedAt = now
			rec.LastError = ""
			closed = true
		}
	}
	rec.UpdatedAt = now

	if err := cb.store.Save(ctx, rec); err != nil {
		return err
	}

	key := pairKey{provider: provider, region: region}
	cb.fallback.Put(key, fallbackEntry{open: rec.Open, updatedAt: now})
	if closed {
		cb.notify(provider, region, StateClosed)
	}
	return nil
}

// Reset is the administrative override: closed, healthy, zero counters,
// regardless of prior state. Store errors propagate so callers can rely on
// the state actually having changed.
func (cb *CircuitBreaker) Reset(ctx context.Context, provider, region string) error {
	if provider == "" {
		return ErrEmptyProvider
	}
	region = cb.region(region)

	if _, err := cb.store.Reset(ctx, provider, region); err != nil {
		return err
	}

	cb.fallback.Put(pairKey{provider: provider, region: region}, fallbackEntry{updatedAt: cb.now()})
	cb.notify(provider, region, StateClosed)
	return nil
}

// State returns the authoritative observable state plus raw counters for
// diagnostics. Unlike IsOpen it performs the open-timeout check without
// persisting the half-open transition, so it never reports a stale open
// state but also has no side effects.
func (cb *CircuitBreaker) State(ctx context.Context, provider, region string) (Snapshot, error) {
	if provider == "" {
		return Snapshot{}, ErrEmptyProvider
	}
	region = cb.region(region)

	rec, err := cb.store.Find(ctx, provider, region)
	if err != nil {
		return Snapshot{}, err
	}
	if rec == nil {
		return Snapshot{
			Provider: provider,
			Region:   region,
			State:    StateClosed,
			Status:   StatusHealthy,
		}, nil
	}

	snap := Snapshot{
		Provider:         rec.Provider,
		Region:           rec.Region,
		Status:           rec.Status,
		FailedCalls:      rec.FailedCalls,
		SuccessfulCalls:  rec.SuccessfulCalls,
		WindowStartedAt:  rec.WindowStartedAt,
		UpdatedAt:        rec.UpdatedAt,
		LastResponseTime: rec.LastResponseTime,
		LastError:        rec.LastError,
	}
	switch {
	case !rec.Open:
		snap.State = StateClosed
	case rec.Status == StatusDegraded:
		snap.State = StateHalfOpen
	case cb.now().Sub(rec.UpdatedAt) >= cb.cfg.OpenTimeout:
		snap.State = StateHalfOpen
	default:
		snap.State = StateOpen
	}
	return snap, nil
}

func (cb *CircuitBreaker) getOrCreate(ctx context.Context, provider, region string) (*HealthRecord, error) {
	rec, err := cb.store.Find(ctx, provider, region)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &HealthRecord{
			Provider:        provider,
			Region:          region,
			Status:          StatusHealthy,
			WindowStartedAt: cb.now(),
		}
	}
	if rec.Status == "" {
		rec.Status = StatusHealthy
	}
	return rec, nil
}

// rollWindow zeroes both counters when the monitoring window is stale and
// reports whether it did. Both counters always reset together.
func (cb *CircuitBreaker) rollWindow(rec *HealthRecord, now time.Time) bool {
	if rec.WindowStartedAt.IsZero() {
		rec.WindowStartedAt = now
		return false
	}
	if now.Sub(rec.WindowStartedAt) < cb.cfg.Window {
		return false
	}
	rec.FailedCalls = 0
	rec.SuccessfulCalls = 0
	rec.WindowStartedAt = now
	return true
}
