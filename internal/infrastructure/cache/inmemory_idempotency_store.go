package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	expiresAt time.Time
}

// InMemoryIdempotencyStore implements IdempotencyStore using an
// in-memory map. Suitable for single-instance deployments and tests.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates a new in-memory idempotency
// store and starts a background goroutine that evicts expired keys
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// MarkProcessed records the key with a TTL. Returns true if the key
// was newly recorded, false if it was already present and unexpired.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.entries[key]; exists {
		if time.Now().Before(e.expiresAt) {
			return false, nil
		}
		// Expired entry is overwritten below
	}

	s.entries[key] = entry{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// IsProcessed checks whether the key has already been recorded
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[key]
	if !exists {
		return false, nil
	}
	if time.Now().After(e.expiresAt) {
		return false, nil
	}
	return true, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// Size returns the number of entries in the store (for tests)
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
