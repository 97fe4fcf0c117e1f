package catalog

import (
	"context"

	"github.com/kailas-cloud/philodex/internal/domain/philosopher"
)

// Source loads the raw philosopher list.
type Source interface {
	Load(ctx context.Context) ([]philosopher.Philosopher, error)
}
