package breaker

import "time"

// Status is the persisted health marker of a provider partition.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded" // half-open probing state
	StatusUnhealthy Status = "unhealthy"
)

// State is the externally observable circuit state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// String returns the string representation of the circuit state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// HealthRecord is the durable bookkeeping for one (provider, region)
// partition. Exactly one record exists per pair; it is created lazily on the
// first recorded outcome.
type HealthRecord struct {
	Provider string `json:"provider"`
	Region   string `json:"region"`
	Status   Status `json:"status"`
	Open     bool   `json:"circuit_open"`

	// Counters within the current monitoring window. They are reset together
	// when the window goes stale, never independently.
	FailedCalls     int `json:"failed_calls"`
	SuccessfulCalls int `json:"successful_calls"`

	// ConsecutiveSuccesses counts half-open probe successes toward closing.
	ConsecutiveSuccesses int `json:"consecutive_successes"`

	WindowStartedAt time.Time `json:"window_started_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// LastResponseTime holds the last observed call latency, overwritten on
	// every outcome.
	LastResponseTime time.Duration `json:"last_response_time"`
	LastError        string        `json:"last_error,omitempty"`
}

// Snapshot is a point-in-time diagnostic view of one partition, served by
// the gateway's provider health endpoint.
type Snapshot struct {
	Provider         string        `json:"provider"`
	Region           string        `json:"region"`
	State            State         `json:"state"`
	Status           Status        `json:"status"`
	FailedCalls      int           `json:"failed_calls"`
	SuccessfulCalls  int           `json:"successful_calls"`
	WindowStartedAt  time.Time     `json:"window_started_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	LastResponseTime time.Duration `json:"last_response_time"`
	LastError        string        `json:"last_error,omitempty"`
}

// MarshalJSON is implemented on State so snapshots serialize the state name
// rather than its ordinal.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}
