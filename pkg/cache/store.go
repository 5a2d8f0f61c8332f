package cache

import (
	"sync"
	"time"
)

// Store is a thread-safe map of cache entries sharing a single TTL.
// Expired entries are reported as absent on read; they are overwritten
// in place on the next Put rather than swept in the background.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[T]
	ttl     time.Duration
}

// NewStore creates an empty store whose entries expire after ttl.
func NewStore[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		entries: make(map[string]Entry[T]),
		ttl:     ttl,
	}
}

// Get returns the cached value for key if present and not expired.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || entry.Expired(s.ttl) {
		var zero T
		return zero, false
	}

	return entry.Value, true
}

// Put stores value under key, replacing any existing entry.
func (s *Store[T]) Put(key string, value T) {
	entry := NewEntry(value)

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
}

// Len returns the number of entries currently held, including expired
// ones that have not been overwritten yet.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
