package webhook

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore records which delivery identities have already been
// processed. Implementations wrap connectivity failures in
// ErrStoreUnavailable; the processor degrades to processing every delivery
// when the store cannot answer.
type IdempotencyStore interface {
	// Seen reports whether key was marked processed within its retention
	// window.
	Seen(ctx context.Context, key string) (bool, error)

	// MarkProcessed records key as processed for ttl.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) error
}

// MemoryIdempotencyStore keeps processed keys in an expiring in-memory map.
// Suited to tests and single-instance deployments; for horizontally scaled
// receivers use RedisIdempotencyStore so redeliveries landing on another
// instance are still suppressed.
type MemoryIdempotencyStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time // key -> expiry

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewMemoryIdempotencyStore creates a store that prunes expired keys every
// cleanupInterval. A zero interval disables the background cleanup. Call
// Close to stop the cleanup goroutine.
func NewMemoryIdempotencyStore(cleanupInterval time.Duration) *MemoryIdempotencyStore {
	s := &MemoryIdempotencyStore{
		entries:     make(map[string]time.Time),
		stopCleanup: make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.cleanup(cleanupInterval)
	}
	return s
}

func (s *MemoryIdempotencyStore) Seen(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	expiry, ok := s.entries[key]
	s.mu.RUnlock()

	return ok && time.Now().Before(expiry), nil
}

func (s *MemoryIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[key] = time.Now().Add(ttl)
	s.mu.Unlock()
	return nil
}

// Close stops the background cleanup goroutine.
func (s *MemoryIdempotencyStore) Close() {
	s.stopOnce.Do(func() { close(s.stopCleanup) })
}

func (s *MemoryIdempotencyStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCleanup:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, expiry := range s.entries {
				if now.After(expiry) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

const defaultIdempotencyKeyPrefix = "finkit:webhook_seen:"

// RedisIdempotencyStore records processed deliveries as expiring Redis keys,
// sharing duplicate suppression across receiver instances.
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisIdempotencyOption configures a RedisIdempotencyStore.
type RedisIdempotencyOption func(*RedisIdempotencyStore)

// WithIdempotencyKeyPrefix overrides the default "finkit:webhook_seen:" prefix.
func WithIdempotencyKeyPrefix(prefix string) RedisIdempotencyOption {
	return func(s *RedisIdempotencyStore) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// NewRedisIdempotencyStore creates a Redis-backed idempotency store.
func NewRedisIdempotencyStore(client redis.UniversalClient, opts ...RedisIdempotencyOption) *RedisIdempotencyStore {
	s := &RedisIdempotencyStore{
		client:    client,
		keyPrefix: defaultIdempotencyKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisIdempotencyStore) Seen(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, errors.Join(ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, "1", ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
