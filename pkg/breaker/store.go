package breaker

import "context"

// Store persists health records. Implementations must treat each
// (provider, region) record as an independent unit and wrap connectivity
// failures in ErrStoreUnavailable so the breaker can distinguish an outage
// from a logical error.
type Store interface {
	// Find returns the record for the pair, or (nil, nil) when none exists.
	Find(ctx context.Context, provider, region string) (*HealthRecord, error)

	// Save upserts the record keyed by (Provider, Region).
	Save(ctx context.Context, record *HealthRecord) error

	// Reset forces the pair back to a closed, healthy, zero-counter record
	// and returns it.
	Reset(ctx context.Context, provider, region string) (*HealthRecord, error)
}
