package webhook

import "errors"

var (
	// ErrInvalidSignature marks a delivery whose payload failed
	// authentication. Client-class: nothing was processed. Log it without
	// the provided signature, the expected signature, or the secret; it may
	// represent an active forgery attempt.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrStoreUnavailable wraps idempotency store outages. The processor
	// absorbs it (deliveries are processed without duplicate suppression);
	// it is exported for store implementations and their tests.
	ErrStoreUnavailable = errors.New("idempotency store unavailable")
)

// IsInvalidSignature reports whether err is a signature rejection.
func IsInvalidSignature(err error) bool {
	return errors.Is(err, ErrInvalidSignature)
}
