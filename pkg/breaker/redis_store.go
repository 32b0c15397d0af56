package breaker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "finkit:provider_health:"

// RedisStore implements Store on Redis, one JSON value per
// (provider, region) key. Records have no TTL; they are mutated in place and
// cleared only by Reset.
//
// Counter updates are read-modify-write at the breaker level, so concurrent
// writers from different processes may race. The breaker documents and
// accepts that weak consistency.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKeyPrefix overrides the default "finkit:provider_health:" prefix.
func WithRedisKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// NewRedisStore creates a Redis-backed health store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client:    client,
		keyPrefix: defaultRedisKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(provider, region string) string {
	return fmt.Sprintf("%s%s:%s", s.keyPrefix, provider, region)
}

// Find returns the record for the pair, or (nil, nil) when absent.
// Connectivity failures are wrapped in ErrStoreUnavailable.
func (s *RedisStore) Find(ctx context.Context, provider, region string) (*HealthRecord, error) {
	data, err := s.client.Get(ctx, s.key(provider, region)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	var rec HealthRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode health record %s/%s: %w", provider, region, err)
	}
	return &rec, nil
}

// Save upserts the record as a JSON value.
func (s *RedisStore) Save(ctx context.Context, record *HealthRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode health record %s/%s: %w", record.Provider, record.Region, err)
	}

	if err := s.client.Set(ctx, s.key(record.Provider, record.Region), data, 0).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Reset overwrites the pair with a closed, healthy, zero-counter record.
func (s *RedisStore) Reset(ctx context.Context, provider, region string) (*HealthRecord, error) {
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
