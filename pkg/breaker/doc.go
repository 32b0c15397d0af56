// Package breaker guards outbound calls to external financial providers with
// a durable, per-(provider, region) circuit breaker.
//
// Every provider integration in the aggregation backend reports call outcomes
// here. Once a provider partition fails often enough inside the monitoring
// window, the circuit opens and call sites fast-fail instead of hammering a
// provider that is already down. After the open timeout the breaker lets a
// probe through (half-open) and closes again after a run of consecutive
// successes.
//
// # State Machine
//
//   - Closed: calls allowed, outcomes tallied per monitoring window.
//   - Open: IsOpen returns true until Config.OpenTimeout has elapsed since
//     the last update.
//   - Half-open: the probing state after the timeout; Config.SuccessThreshold
//     consecutive successes close the circuit, a single failure re-opens it.
//
// The circuit trips when both conditions hold within the current window:
// FailedCalls has reached Config.TripThreshold AND the failure rate exceeds
// Config.TripFailureRate.
//
// # Storage
//
// Health records live in a Store so that horizontally scaled instances share
// one view of provider health. MemoryStore suits tests and single-process
// deployments; RedisStore and PGStore are the production backends. Counters
// are read-modify-write, so concurrent writers from different processes may
// race; the breaker is a liveness mechanism and tolerates that documented
// weak consistency.
//
// Store outages are handled asymmetrically. Reads (IsOpen) never fail: the
// breaker falls back to a bounded in-memory cache of last known states and
// defaults unknown partitions to closed, trading safety for availability.
// Writes (RecordFailure, RecordSuccess, Reset) propagate store errors,
// because silently dropping an outcome would let callers believe it was
// recorded.
//
// # Usage
//
//	cb := breaker.New(store, breaker.DefaultConfig())
//
//	if cb.IsOpen(ctx, "plaid", "US") {
//	    return ErrProviderUnavailable
//	}
//	start := time.Now()
//	resp, err := client.FetchAccounts(ctx)
//	if err != nil {
//	    _ = cb.RecordFailure(ctx, "plaid", "US", err.Error(), time.Since(start))
//	    return err
//	}
//	return cb.RecordSuccess(ctx, "plaid", "US", time.Since(start))
//
// Isolation is strict: no operation reads or writes more than one
// (provider, region) record, including every fallback path.
package breaker
