package provider

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/finkit/pkg/breaker"
)

// Call outcome labels.
const (
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	outcomeTimeout  = "timeout"
	outcomeRejected = "rejected"
)

// Metrics counts provider calls by outcome and circuit breaker transitions
// by state. A nil *Metrics is valid and records nothing.
type Metrics struct {
	calls       *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewMetrics registers the provider counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_calls_total",
			Help: "Outbound provider calls by outcome.",
		}, []string{"provider", "region", "outcome"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_breaker_transitions_total",
			Help: "Circuit breaker state transitions per provider and region.",
		}, []string{"provider", "region", "state"}),
	}
}

// StateChangeHook adapts the metrics to the breaker's state-change
// notification, counting every transition.
func (m *Metrics) StateChangeHook() breaker.StateChangeHook {
	return func(provider, region string, state breaker.State) {
		if m == nil {
			return
		}
		m.transitions.WithLabelValues(provider, region, state.String()).Inc()
	}
}

func (m *Metrics) observeCall(provider, region, outcome string) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(provider, region, outcome).Inc()
}
