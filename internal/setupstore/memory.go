package setupstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process SetupStore.
type MemoryStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Claim implements SetupStore.
func (s *MemoryStore) Claim(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evict(now)

	if _, claimed := s.expires[id]; claimed {
		return false, nil
	}

	s.expires[id] = now.Add(ttl)

	return true, nil
}

// Len returns the number of live claims.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict(s.now())

	return len(s.expires)
}

// Close implements SetupStore.
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) evict(now time.Time) {
	for id, expiry := range s.expires {
		if !now.Before(expiry) {
			delete(s.expires, id)
		}
	}
}
