// Package cache provides in-memory TTL caches for API query results and
// rendered resource documents.
package cache

import "time"

// Entry holds a cached value together with its creation time. Expiry is
// evaluated against a TTL supplied by the owning store, so the same entry
// type serves stores with different lifetimes.
type Entry[T any] struct {
	Value     T
	CreatedAt time.Time
}

// NewEntry wraps a value with the current timestamp.
func NewEntry[T any](value T) Entry[T] {
	return Entry[T]{
		Value:     value,
		CreatedAt: time.Now(),
	}
}

// Expired reports whether the entry has outlived the given TTL.
func (e Entry[T]) Expired(ttl time.Duration) bool {
	return time.Since(e.CreatedAt) > ttl
}
