package session

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store keeps per-session values in memory with a sliding idle TTL.
type Store[T any] struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// New creates a session store. Entries untouched for ttl are evicted.
func New[T any](ttl, cleanupInterval time.Duration) *Store[T] {
	return &Store[T]{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get returns the value stored for id.
func (s *Store[T]) Get(id string) (T, bool) {
	var zero T
	v, found := s.cache.Get(id)
	if !found {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Put stores v for id and restarts its idle timer.
func (s *Store[T]) Put(id string, v T) {
	s.cache.Set(id, v, s.ttl)
}

// Delete removes id.
func (s *Store[T]) Delete(id string) {
	s.cache.Delete(id)
}
