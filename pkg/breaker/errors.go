package breaker

import "errors"

var (
	// ErrStoreUnavailable wraps connectivity failures of the underlying
	// health store so the breaker can apply its read-path fallback policy.
	ErrStoreUnavailable = errors.New("health store unavailable")

	// ErrEmptyProvider is returned when an operation is called without a
	// provider identifier.
	ErrEmptyProvider = errors.New("provider is required")
)

// IsStoreUnavailable reports whether err indicates a health store outage as
// opposed to a logical failure.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
