package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kailas-cloud/philodex/internal/domain"
	"github.com/kailas-cloud/philodex/internal/domain/category"
	"github.com/kailas-cloud/philodex/internal/domain/philosopher"
	"github.com/kailas-cloud/philodex/internal/domain/timeline"
	"github.com/kailas-cloud/philodex/internal/metrics"
)

// Service owns the published catalog index.
// Readers always see a complete index; a reload swaps it atomically.
type Service struct {
	source Source
	logger *zap.Logger
	index  atomic.Pointer[Index]
	loaded atomic.Bool
}

// New creates a catalog service with an empty index.
func New(source Source, logger *zap.Logger) *Service {
	s := &Service{source: source, logger: logger}
	s.index.Store(Empty())
	return s
}

// Load fetches the source and publishes a fresh index.
// On failure the previously published index stays in place.
func (s *Service) Load(ctx context.Context) error {
	records, err := s.source.Load(ctx)
	if err != nil {
		metrics.CatalogLoadsTotal.WithLabelValues("error").Inc()
		s.logger.Error("catalog load failed", zap.Error(err))
		return fmt.Errorf("load catalog: %w", err)
	}
	if len(records) == 0 {
		metrics.CatalogLoadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("load catalog: %w: no records", domain.ErrDataLoad)
	}

	idx := Build(records)
	s.index.Store(idx)
	s.loaded.Store(true)

	metrics.CatalogLoadsTotal.WithLabelValues("ok").Inc()
	metrics.CatalogRecords.WithLabelValues("philosophers").Set(float64(idx.Len()))
	metrics.CatalogRecords.WithLabelValues("arguments").Set(float64(len(idx.arguments)))
	s.logger.Info("catalog loaded",
		zap.Int("philosophers", idx.Len()),
		zap.Int("arguments", len(idx.arguments)),
	)
	return nil
}

// Index returns the currently published index.
func (s *Service) Index() *Index { return s.index.Load() }

// Loaded reports whether a load has ever succeeded.
func (s *Service) Loaded() bool { return s.loaded.Load() }

// Search returns the philosophers matching text.
func (s *Service) Search(text string) []philosopher.Philosopher {
	metrics.CatalogQueriesTotal.WithLabelValues("query").Inc()
	return s.Index().Query(text)
}

// Philosopher returns a single record by exact name.
func (s *Service) Philosopher(name string) (philosopher.Philosopher, error) {
	p, err := s.Index().Philosopher(name)
	if err != nil {
		return philosopher.Philosopher{}, fmt.Errorf("get philosopher: %w", err)
	}
	return p, nil
}

// Argument returns a catalog-wide argument by exact title.
func (s *Service) Argument(title string) (philosopher.Argument, error) {
	a, err := s.Index().Argument(title)
	if err != nil {
		return philosopher.Argument{}, fmt.Errorf("get argument: %w", err)
	}
	return a, nil
}

// Arguments returns the de-duplicated arguments of the philosophers matching
// text, filtered by category c.
func (s *Service) Arguments(text string, c category.Category) []philosopher.Argument {
	metrics.CatalogQueriesTotal.WithLabelValues("filter").Inc()
	idx := s.Index()
	if strings.TrimSpace(text) == "" {
		return idx.FilterByCategory(c)
	}
	return FilterArguments(ArgumentsOf(idx.Query(text)), c)
}

// Timeline returns the matching philosophers in chronological order.
func (s *Service) Timeline(text string) []timeline.Entry {
	return Timeline(s.Search(text))
}
