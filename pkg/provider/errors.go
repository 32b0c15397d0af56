package provider

import "errors"

var (
	// ErrProviderUnavailable is returned before the provider is attempted
	// when its circuit is open.
	ErrProviderUnavailable = errors.New("provider temporarily unavailable")

	// ErrHealthRecordWrite wraps a breaker store failure that occurred while
	// recording a call outcome. The call itself may have succeeded; see
	// Call's documentation.
	ErrHealthRecordWrite = errors.New("failed to record provider call outcome")
)

// IsUnavailable reports whether err is a circuit-open fast-fail.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}
