package votes

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/philodex/internal/domain"
	"github.com/kailas-cloud/philodex/internal/domain/vote"
	"github.com/kailas-cloud/philodex/internal/metrics"
)

// Service records agree/disagree votes on catalog arguments.
type Service struct {
	repo    Repository
	catalog ArgumentLookup

	// mu serializes the load-record-save cycle.
	mu sync.Mutex
}

// New creates a vote service.
func New(repo Repository, lookup ArgumentLookup) *Service {
	return &Service{repo: repo, catalog: lookup}
}

// Cast adds one vote to the argument and returns its updated count.
func (s *Service) Cast(ctx context.Context, title string, choice vote.Choice) (vote.Count, error) {
	if !choice.IsValid() {
		return vote.Count{}, fmt.Errorf("choice %q: %w", choice, domain.ErrInvalidRequest)
	}
	if _, err := s.catalog.Argument(title); err != nil {
		return vote.Count{}, fmt.Errorf("cast vote: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tally, err := s.repo.Load(ctx)
	if err != nil {
		return vote.Count{}, fmt.Errorf("load votes: %w", err)
	}
	next, cnt := tally.Record(title, choice)
	if err := s.repo.Save(ctx, next); err != nil {
		return vote.Count{}, fmt.Errorf("save votes: %w", err)
	}

	metrics.VotesTotal.WithLabelValues(string(choice)).Inc()
	return cnt, nil
}

// Count returns the current count of the argument. Arguments without votes return zero counts.
func (s *Service) Count(ctx context.Context, title string) (vote.Count, error) {
	if _, err := s.catalog.Argument(title); err != nil {
		return vote.Count{}, fmt.Errorf("count votes: %w", err)
	}

	tally, err := s.repo.Load(ctx)
	if err != nil {
		return vote.Count{}, fmt.Errorf("load votes: %w", err)
	}
	return tally[title], nil
}
