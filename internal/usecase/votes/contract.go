package votes

import (
	"context"

	"github.com/kailas-cloud/philodex/internal/domain/philosopher"
	"github.com/kailas-cloud/philodex/internal/domain/vote"
)

// Repository persists the vote tally.
type Repository interface {
	Load(ctx context.Context) (vote.Tally, error)
	Save(ctx context.Context, tally vote.Tally) error
}

// ArgumentLookup resolves an argument title against the published catalog.
type ArgumentLookup interface {
	Argument(title string) (philosopher.Argument, error)
}
