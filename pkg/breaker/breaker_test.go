package breaker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/finkit/pkg/breaker"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// flakyStore wraps a Store and fails selected operations on demand.
type flakyStore struct {
	inner     breaker.Store
	failFind  bool
	failSave  bool
	failReset bool
}

func (s *flakyStore) Find(ctx context.Context, provider, region string) (*breaker.HealthRecord, error) {
	if s.failFind {
		return nil, breaker.ErrStoreUnavailable
	}
	return s.inner.Find(ctx, provider, region)
}

func (s *flakyStore) Save(ctx context.Context, record *breaker.HealthRecord) error {
	if s.failSave {
		return breaker.ErrStoreUnavailable
	}
	return s.inner.Save(ctx, record)
}

func (s *flakyStore) Reset(ctx context.Context, provider, region string) (*breaker.HealthRecord, error) {
	if s.failReset {
		return nil, breaker.ErrStoreUnavailable
	}
	return s.inner.Reset(ctx, provider, region)
}

func newTestBreaker(t *testing.T, opts ...breaker.Option) (*breaker.CircuitBreaker, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	opts = append([]breaker.Option{breaker.WithClock(clock.Now)}, opts...)
	cb := breaker.New(breaker.NewMemoryStore(), breaker.DefaultConfig(), opts...)
	return cb, clock
}

func recordFailures(t *testing.T, cb *breaker.CircuitBreaker, provider, region string, n int) {
	t.Helper()
	for range n {
		require.NoError(t, cb.RecordFailure(context.Background(), provider, region, "connection refused", 120*time.Millisecond))
	}
}

func TestCircuitBreaker_TripThreshold(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stays closed one failure short of the threshold", func(t *testing.T) {
		t.Parallel()

		cb, _ := newTestBreaker(t)
		recordFailures(t, cb, "plaid", "US", 4)

		assert.False(t, cb.IsOpen(ctx, "plaid", "US"))
	})

	t.Run("opens at the threshold with a pure failure window", func(t *testing.T) {
		t.Parallel()

		cb, _ := newTestBreaker(t)
		recordFailures(t, cb, "plaid", "US", 5)

		assert.True(t, cb.IsOpen(ctx, "plaid", "US"))

		snap, err := cb.State(ctx, "plaid", "US")
		require.NoError(t, err)
		assert.Equal(t, breaker.StateOpen, snap.State)
		assert.Equal(t, 5, snap.FailedCalls)
	})

	t.Run("successes diluting the failure rate keep it closed", func(t *testing.T) {
		t.Parallel()

		cb, _ := newTestBreaker(t)
		for range 6 {
			require.NoError(t, cb.RecordSuccess(ctx, "plaid", "US", 80*time.Millisecond))
		}
		recordFailures(t, cb, "plaid", "US", 5)

		// 5 failures out of 11 calls is under the 50% trip rate, so the
		// absolute threshold alone must not open the circuit.
		assert.False(t, cb.IsOpen(ctx, "plaid", "US"))

		snap, err := cb.State(ctx, "plaid", "US")
		require.NoError(t, err)
		assert.Equal(t, breaker.StateClosed, snap.State)
		assert.Equal(t, 5, snap.FailedCalls)
		assert.Equal(t, 6, snap.SuccessfulCalls)
	})
}

func TestCircuitBreaker_OpenAndRecovery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("open until the timeout, then half-open on the next check", func(t *testing.T) {
		t.Parallel()

		cb, clock := newTestBreaker(t)
		recordFailures(t, cb, "kraken", "EU", 5)

		assert.True(t, cb.IsOpen(ctx, "kraken", "EU"))

		clock.Advance(59 * time.Second)
		assert.True(t, cb.IsOpen(ctx, "kraken", "EU"))

		clock.Advance(2 * time.Second)
		assert.False(t, cb.IsOpen(ctx, "kraken", "EU"), "probe must be allowed after the open timeout")

		snap, err := cb.State(ctx, "kraken", "EU")
		require.NoError(t, err)
		assert.Equal(t, breaker.StateHalfOpen, snap.State)
		assert.Equal(t, breaker.StatusDegraded, snap.Status)
	})

	t.Run("consecutive successes close from half-open", func(t *testing.T) {
		t.Parallel()

		cb, clock := newTestBreaker(t)
		recordFailures(t, cb, "kraken", "EU", 5)
		clock.Advance(61 * time.Second)
		require.False(t, cb.IsOpen(ctx, "kraken", "EU"))

		require.NoError(t, cb.RecordSuccess(ctx, "kraken", "EU", 50*time.Millisecond))

		snap, err := cb.State(ctx, "kraken", "EU")
		require.NoError(t, err)
		assert.Equal(t, breaker.StateHalfOpen, snap.State, "one success is below the close threshold")

		require.NoError(t, cb.RecordSuccess(ctx, "kraken", "EU", 50*time.Millisecond))

		snap, err = cb.State(ctx, "kraken", "EU")
		require.NoError(t, err)
		assert.Equal(t, breaker.StateClosed, snap.State)
		assert.Zero(t, snap.FailedCalls)
		assert.Zero(t, snap.SuccessfulCalls)
		assert.False(t, cb.IsOpen(ctx, "kraken", "EU"))
	})

	t.Run("failure while half-open re-opens immediately", func(t *testing.T) {
		t.Parallel()

		cb, clock := newTestBreaker(t)
		recordFailures(t, cb, "kraken", "EU", 5)
		clock.Advance(61 * time.Second)
		require.False(t, cb.IsOpen(ctx, "kraken", "EU"))

		require.NoError(t, cb.RecordSuccess(ctx, "kraken", "EU", 50*time.Millisecond))
		require.NoError(t, cb.RecordFailure(ctx, "kraken", "EU", "probe failed", 0))

		assert.True(t, cb.IsOpen(ctx, "kraken", "EU"))

		// The consecutive-success run must start over on the next probe.
		clock.Advance(61 * time.Second)
		require.False(t, cb.IsOpen(ctx, "kraken", "EU"))
		require.NoError(t, cb.RecordSuccess(ctx, "kraken", "EU", 50*time.Millisecond))
		snap, err := cb.State(ctx, "kraken", "EU")
		require.NoError(t, err)
		assert.Equal(t, breaker.StateHalfOpen, snap.State)
	})

	t.Run("state reports half-open without a prior IsOpen call", func(t *testing.T) {
		t.Parallel()

		cb, clock := newTestBreaker(t)
		recordFailures(t, cb, "etherscan", "US", 5)
		clock.Advance(61 * time.Second)

		snap, err := cb.State(ctx, "etherscan", "US")
		require.NoError(t, err)
		assert.Equal(t, breaker.StateHalfOpen, snap.State)
	})
}

func TestCircuitBreaker_MonitoringWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cb, clock := newTestBreaker(t)
	recordFailures(t, cb, "plaid", "US", 4)

	clock.Advance(5*time.Minute + time.Second)
	require.NoError(t, cb.RecordFailure(ctx, "plaid", "US", "timeout", 0))

	snap, err := cb.State(ctx, "plaid", "US")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.FailedCalls, "stale window restarts counting at this call")
	assert.Zero(t, snap.SuccessfulCalls)
	assert.Equal(t, breaker.StateClosed, snap.State)
	assert.False(t, cb.IsOpen(ctx, "plaid", "US"))
}

func TestCircuitBreaker_Reset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cb, _ := newTestBreaker(t)
	recordFailures(t, cb, "plaid", "US", 7)
	require.True(t, cb.IsOpen(ctx, "plaid", "US"))

	require.NoError(t, cb.Reset(ctx, "plaid", "US"))

	snap, err := cb.State(ctx, "plaid", "US")
	require.NoError(t, err)
	assert.Equal(t, breaker.StateClosed, snap.State)
	assert.Equal(t, breaker.StatusHealthy, snap.Status)
	assert.Zero(t, snap.FailedCalls)
	assert.Zero(t, snap.SuccessfulCalls)
	assert.False(t, cb.IsOpen(ctx, "plaid", "US"))
}

func TestCircuitBreaker_PartitionIsolation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cb, _ := newTestBreaker(t)
	recordFailures(t, cb, "plaid", "US", 5)

	assert.True(t, cb.IsOpen(ctx, "plaid", "US"))
	assert.False(t, cb.IsOpen(ctx, "plaid", "EU"), "same provider, other region must stay closed")
	assert.False(t, cb.IsOpen(ctx, "kraken", "US"), "other provider, same region must stay closed")

	euSnap, err := cb.State(ctx, "plaid", "EU")
	require.NoError(t, err)
	assert.Zero(t, euSnap.FailedCalls)
}

func TestCircuitBreaker_DefaultRegion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cb, _ := newTestBreaker(t)
	require.NoError(t, cb.RecordFailure(ctx, "plaid", "", "boom", 0))

	snap, err := cb.State(ctx, "plaid", "US")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.FailedCalls, "empty region resolves to the configured default")

	snapDefault, err := cb.State(ctx, "plaid", "")
	require.NoError(t, err)
	assert.Equal(t, snap.FailedCalls, snapDefault.FailedCalls)
}

func TestCircuitBreaker_StoreOutage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("reads fall back to last known state", func(t *testing.T) {
		t.Parallel()

		store := &flakyStore{inner: breaker.NewMemoryStore()}
		clock := newFakeClock()
		cb := breaker.New(store, breaker.DefaultConfig(), breaker.WithClock(clock.Now))

		recordFailures(t, cb, "plaid", "US", 5)
		require.True(t, cb.IsOpen(ctx, "plaid", "US"))

		store.failFind = true

		assert.True(t, cb.IsOpen(ctx, "plaid", "US"), "fallback remembers the open circuit")
		assert.False(t, cb.IsOpen(ctx, "never-seen", "US"), "unknown partitions default to closed")

		clock.Advance(61 * time.Second)
		assert.False(t, cb.IsOpen(ctx, "plaid", "US"), "fallback honors the open timeout")
	})

	t.Run("write failures propagate", func(t *testing.T) {
		t.Parallel()

		store := &flakyStore{inner: breaker.NewMemoryStore(), failSave: true}
		cb := breaker.New(store, breaker.DefaultConfig())

		err := cb.RecordFailure(ctx, "plaid", "US", "boom", 0)
		require.Error(t, err)
		assert.True(t, breaker.IsStoreUnavailable(err))

		err = cb.RecordSuccess(ctx, "plaid", "US", 0)
		require.Error(t, err)
		assert.True(t, breaker.IsStoreUnavailable(err))
	})

	t.Run("reset failures propagate", func(t *testing.T) {
		t.Parallel()

		store := &flakyStore{inner: breaker.NewMemoryStore(), failReset: true}
		cb := breaker.New(store, breaker.DefaultConfig())

		err := cb.Reset(ctx, "plaid", "US")
		require.Error(t, err)
		assert.True(t, breaker.IsStoreUnavailable(err))
	})

	t.Run("state read failures propagate", func(t *testing.T) {
		t.Parallel()

		store := &flakyStore{inner: breaker.NewMemoryStore(), failFind: true}
		cb := breaker.New(store, breaker.DefaultConfig())

		_, err := cb.State(ctx, "plaid", "US")
		require.Error(t, err)
		assert.True(t, breaker.IsStoreUnavailable(err))
	})
}

func TestCircuitBreaker_StateChangeHook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	type transition struct {
		provider, region string
		state            breaker.State
	}
	var mu sync.Mutex
	var transitions []transition

	clock := newFakeClock()
	cb := breaker.New(breaker.NewMemoryStore(), breaker.DefaultConfig(),
		breaker.WithClock(clock.Now),
		breaker.WithStateChangeHook(func(provider, region string, state breaker.State) {
			mu.Lock()
			transitions = append(transitions, transition{provider, region, state})
			mu.Unlock()
		}),
	)

	recordFailures(t, cb, "plaid", "US", 5)
	clock.Advance(61 * time.Second)
	require.False(t, cb.IsOpen(ctx, "plaid", "US"))
	require.NoError(t, cb.RecordSuccess(ctx, "plaid", "US", 0))
	require.NoError(t, cb.RecordSuccess(ctx, "plaid", "US", 0))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, transitions, 3)
	assert.Equal(t, transition{"plaid", "US", breaker.StateOpen}, transitions[0])
	assert.Equal(t, transition{"plaid", "US", breaker.StateHalfOpen}, transitions[1])
	assert.Equal(t, transition{"plaid", "US", breaker.StateClosed}, transitions[2])
}

func TestCircuitBreaker_InputValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cb, _ := newTestBreaker(t)

	assert.ErrorIs(t, cb.RecordFailure(ctx, "", "US", "x", 0), breaker.ErrEmptyProvider)
	assert.ErrorIs(t, cb.RecordSuccess(ctx, "", "US", 0), breaker.ErrEmptyProvider)
	assert.ErrorIs(t, cb.Reset(ctx, "", "US"), breaker.ErrEmptyProvider)
	_, err := cb.State(ctx, "", "US")
	assert.ErrorIs(t, err, breaker.ErrEmptyProvider)
}

func TestCircuitBreaker_LastResponseTimeOverwritten(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cb, _ := newTestBreaker(t)
	require.NoError(t, cb.RecordSuccess(ctx, "plaid", "US", 100*time.Millisecond))
	require.NoError(t, cb.RecordSuccess(ctx, "plaid", "US", 300*time.Millisecond))

	snap, err := cb.State(ctx, "plaid", "US")
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, snap.LastResponseTime, "latency is last-observed, not averaged")
}
