package db

import (
	"context"
	"time"
)

// Store is the backend behind vote persistence and the health probe.
// Consumers declare the narrow sub-interface they need.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore reads and writes opaque values by key. Values never expire.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
