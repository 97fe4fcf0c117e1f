// Package memory is an in-process db.Store for single-node and local runs.
// Votes kept here are lost on restart.
package memory

import (
	"context"
	"slices"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kailas-cloud/philodex/internal/db"
)

var _ db.Store = (*Store)(nil)

// Store keeps values in a go-cache instance with no default expiry.
type Store struct {
	cache *gocache.Cache
}

// NewStore creates an empty store. cleanupInterval is passed to the go-cache janitor.
func NewStore(cleanupInterval time.Duration) *Store {
	return &Store{cache: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Close drops every value.
func (s *Store) Close() { s.cache.Flush() }

// Get returns a copy of the value at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	v, found := s.cache.Get(key)
	if !found {
		return nil, db.ErrKeyNotFound
	}
	return slices.Clone(v.([]byte)), nil
}

// Set stores a copy of value.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.cache.Set(key, slices.Clone(value), gocache.NoExpiration)
	return nil
}
