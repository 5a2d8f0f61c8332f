package cache

import (
	"sync"
	"time"
)

// ResourceEntry caches the rendered text of a resource document. Unlike
// Entry, each resource carries its own absolute expiry so different URIs
// can live for different durations in the same store.
type ResourceEntry struct {
	Text      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewResourceEntry builds an entry expiring ttl from now.
func NewResourceEntry(text string, ttl time.Duration) ResourceEntry {
	now := time.Now()

	return ResourceEntry{
		Text:      text,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the entry's absolute deadline has passed.
func (e ResourceEntry) Expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// ResourceStore is a thread-safe cache of rendered resource documents
// keyed by URI.
type ResourceStore struct {
	mu      sync.RWMutex
	entries map[string]ResourceEntry
}

// NewResourceStore creates an empty resource cache.
func NewResourceStore() *ResourceStore {
	return &ResourceStore{
		entries: make(map[string]ResourceEntry),
	}
}

// Get returns the cached text for uri if present and not expired.
func (s *ResourceStore) Get(uri string) (string, bool) {
	s.mu.RLock()
	entry, ok := s.entries[uri]
	s.mu.RUnlock()

	if !ok || entry.Expired() {
		return "", false
	}

	return entry.Text, true
}

// Put caches text under uri with the given lifetime, replacing any
// existing entry.
func (s *ResourceStore) Put(uri, text string, ttl time.Duration) {
	entry := NewResourceEntry(text, ttl)

	s.mu.Lock()
	s.entries[uri] = entry
	s.mu.Unlock()
}
