package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CatalogState reports whether a catalog has been published.
type CatalogState interface {
	Loaded() bool
}
