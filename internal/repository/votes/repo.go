package votes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/philodex/internal/db"
	"github.com/kailas-cloud/philodex/internal/domain/vote"
)

// DefaultKey is the storage key holding every vote tally.
const DefaultKey = "philodex:votes"

// store is the consumer interface for vote persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo persists the whole tally as one JSON document under a single key.
type Repo struct {
	store store
	key   string
}

// New creates a vote repository. An empty key falls back to DefaultKey.
func New(s store, key string) *Repo {
	if key == "" {
		key = DefaultKey
	}
	return &Repo{store: s, key: key}
}

// Load returns the stored tally, or an empty one if nothing has been stored yet.
func (r *Repo) Load(ctx context.Context) (vote.Tally, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return vote.Tally{}, nil
		}
		return nil, fmt.Errorf("votes GET %s: %w", r.key, err)
	}

	tally := vote.Tally{}
	if err := json.Unmarshal(data, &tally); err != nil {
		return nil, fmt.Errorf("votes GET %s parse: %w", r.key, err)
	}
	return tally, nil
}

// Save overwrites the stored tally.
func (r *Repo) Save(ctx context.Context, tally vote.Tally) error {
	data, err := json.Marshal(tally)
	if err != nil {
		return fmt.Errorf("marshal tally: %w", err)
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("votes SET %s: %w", r.key, err)
	}
	return nil
}
