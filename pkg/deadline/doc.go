// Package deadline bounds the wall-clock duration of asynchronous operations
// when calling external financial providers.
//
// Provider APIs used by the aggregation backend (banking aggregators, crypto
// exchanges, chain RPC endpoints) routinely hang or degrade. This package
// wraps a caller-supplied unit of work with a timer and offers graceful
// degradation variants on top of the same race:
//
//   - Run: hard timeout with a typed error
//   - RunOrZero / RunOrDefault: convert a timeout (and only a timeout) into a
//     zero or caller-supplied fallback value
//   - RunAll: N independent operations, each under its own timer, with
//     per-item outcomes
//   - RunTiered: escalating soft deadlines (alerts, metrics) ahead of one
//     hard cutoff
//
// # Basic Usage
//
//	balance, err := deadline.Run(ctx, deadline.Config{
//	    Timeout:   5 * time.Second,
//	    Operation: "plaid.balances",
//	}, func(ctx context.Context) (Balance, error) {
//	    return client.FetchBalance(ctx, accountID)
//	})
//	if deadline.IsTimeout(err) {
//	    // serve cached balance
//	}
//
// # Cancellation Model
//
// The timer is the only cancellation primitive. When it fires, Run stops
// waiting and returns a *TimeoutError; the operation itself keeps running in
// its goroutine until it honors the context it was given. Operations that
// must be truly killed should abort their own transport in OnTimeout or
// observe ctx.Done. A completion that races the timer at the boundary loses:
// once the timer case is selected the result is discarded.
//
// The package starts no workers of its own and performs no retries. Retry
// policy belongs to the caller, typically layered together with pkg/breaker
// via pkg/provider.
package deadline
