// Package provider is the contract provider integrations program against
// when calling out to external financial APIs.
//
// It composes the two resilience primitives every outbound call needs: the
// circuit breaker check before the call (pkg/breaker) and the deadline race
// around it (pkg/deadline), then reports the outcome and observed latency
// back to the breaker. Integrations supply only the provider-specific work:
//
//	caller := provider.NewCaller(cb)
//
//	accounts, err := provider.Call(ctx, caller, provider.CallConfig{
//	    Provider:  provider.Plaid,
//	    Region:    provider.RegionUS,
//	    Operation: "accounts.list",
//	    Timeout:   5 * time.Second,
//	}, func(ctx context.Context) ([]Account, error) {
//	    return client.ListAccounts(ctx, userToken)
//	})
//	if errors.Is(err, provider.ErrProviderUnavailable) {
//	    // circuit open: fast-fail without touching the provider
//	}
//
// An open circuit surfaces as ErrProviderUnavailable before the provider is
// touched. Timeouts keep their deadline.TimeoutError identity so callers can
// branch on them. The package performs no retries.
//
// Metrics, built on prometheus/client_golang, count calls by outcome and
// breaker transitions by state; wire them with NewMetrics and the breaker's
// state-change hook.
package provider
