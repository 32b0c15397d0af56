package breaker

import (
	"context"
	"sync"
	"time"
)

type pairKey struct {
	provider string
	region   string
}

// MemoryStore implements Store with a mutex-guarded map. It backs tests and
// single-process deployments; state is lost on restart and never shared
// across instances.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[pairKey]HealthRecord
}

// NewMemoryStore creates an empty in-memory health store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[pairKey]HealthRecord),
	}
}

// Find returns a copy of the stored record, or (nil, nil) when absent.
func (s *MemoryStore) Find(ctx context.Context, provider, region string) (*HealthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[pairKey{provider: provider, region: region}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Save stores a copy of record keyed by (Provider, Region).
func (s *MemoryStore) Save(ctx context.Context, record *HealthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[pairKey{provider: record.Provider, region: record.Region}] = *record
	return nil
}

// Reset replaces the pair's record with a closed, healthy, zero-counter one.
func (s *MemoryStore) Reset(ctx context.Context, provider, region string) (*HealthRecord, error) {
	now := time.Now()
	rec := HealthRecord{
		Provider:        provider,
		Region:          region,
		Status:          StatusHealthy,
		WindowStartedAt: now,
		UpdatedAt:       now,
	}

	s.mu.Lock()
	s.records[pairKey{provider: provider, region: region}] = rec
	s.mu.Unlock()

	return &rec, nil
}
