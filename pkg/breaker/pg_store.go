package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on PostgreSQL. The provider_health table is keyed
// by (provider, region); see the migrations directory for the schema.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a Postgres-backed health store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const findHealthQuery = `
SELECT provider, region, status, circuit_open,
       failed_calls, successful_calls, consecutive_successes,
       window_started_at, updated_at, last_response_time_ms, last_error
FROM provider_health
WHERE provider = $1 AND region = $2`

// Find returns the record for the pair, or (nil, nil) when no row exists.
// Any other query failure is wrapped in ErrStoreUnavailable.
func (s *PGStore) Find(ctx context.Context, provider, region string) (*HealthRecord, error) {
	var (
		rec        HealthRecord
		responseMs int64
	)
	err := s.pool.QueryRow(ctx, findHealthQuery, provider, region).Scan(
		&rec.Provider, &rec.Region, &rec.Status, &rec.Open,
		&rec.FailedCalls, &rec.SuccessfulCalls, &rec.ConsecutiveSuccesses,
		&rec.WindowStartedAt, &rec.UpdatedAt, &responseMs, &rec.LastError,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	rec.LastResponseTime = time.Duration(responseMs) * time.Millisecond
	return &rec, nil
}

const saveHealthQuery = `
INSERT INTO provider_health (
    provider, region, status, circuit_open,
    failed_calls, successful_calls, consecutive_successes,
    window_started_at, updated_at, last_response_time_ms, last_error
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (provider, region) DO UPDATE SET
    status                = EXCLUDED.status,
    circuit_open          = EXCLUDED.circuit_open,
    failed_calls          = EXCLUDED.failed_calls,
    successful_calls      = EXCLUDED.successful_calls,
    consecutive_successes = EXCLUDED.consecutive_successes,
    window_started_at     = EXCLUDED.window_started_at,
    updated_at            = EXCLUDED.updated_at,
    last_response_time_ms = EXCLUDED.last_response_time_ms,
    last_error            = EXCLUDED.last_error`

// Save upserts the record.
func (s *PGStore) Save(ctx context.Context, record *HealthRecord) error {
	_, err := s.pool.Exec(ctx, saveHealthQuery,
		record.Provider, record.Region, record.Status, record.Open,
		record.FailedCalls, record.SuccessfulCalls, record.ConsecutiveSuccesses,
		record.WindowStartedAt, record.UpdatedAt,
		record.LastResponseTime.Milliseconds(), record.LastError,
	)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Reset overwrites the pair with a closed, healthy, zero-counter record.
func (s *PGStore) Reset(ctx context.Context, provider, region string) (*HealthRecord, error) {
	now := time.Now()
	rec := &HealthRecord{
		Provider:        provider,
		Region:          region,
		Status:          StatusHealthy,
		WindowStartedAt: now,
		UpdatedAt:       now,
	}
	if err := s.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
