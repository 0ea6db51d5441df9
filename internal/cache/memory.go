package cache

import (
	"context"
	"sync"
	"time"
)

// sweepInterval bounds how often expired counters are evicted.
const sweepInterval = time.Minute

type memoryEntry struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is an in-process Store used when Redis is not configured.
// Expired counters are swept on increment so the map does not grow without
// bound as distinct client IPs come and go.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	nextSweep time.Time
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) IncrementWithTTL(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	entry, ok := s.entries[key]
	if !ok || now.After(entry.resetAt) {
		entry = &memoryEntry{resetAt: now.Add(window)}
		s.entries[key] = entry
	}
	entry.count++
	return entry.count, entry.resetAt.Sub(now), nil
}

// sweep drops counters whose window has closed. Caller holds the lock.
func (s *MemoryStore) sweep(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	for key, entry := range s.entries {
		if now.After(entry.resetAt) {
			delete(s.entries, key)
		}
	}
	s.nextSweep = now.Add(sweepInterval)
}
