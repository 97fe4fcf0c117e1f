// Package featured rotates the featured argument on a schedule and builds
// the "who proposed it" quiz around it.
package featured

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/philodex/internal/domain"
	"github.com/kailas-cloud/philodex/internal/domain/philosopher"
	"github.com/kailas-cloud/philodex/internal/metrics"
)

// DefaultSchedule rotates once a day at midnight UTC.
const DefaultSchedule = "@daily"

// Rotator advances the featured argument on a cron schedule.
// The rotation position is its only mutable state.
type Rotator struct {
	catalog IndexProvider
	cron    *cron.Cron
	logger  *zap.Logger
	pos     atomic.Uint64
}

// NewRotator creates a rotator. schedule accepts standard five-field cron
// expressions and descriptors such as "@hourly" or "@every 30m".
func NewRotator(provider IndexProvider, schedule string, logger *zap.Logger) (*Rotator, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	r := &Rotator{
		catalog: provider,
		cron:    cron.New(cron.WithLocation(time.UTC)),
		logger:  logger,
	}
	if _, err := r.cron.AddFunc(schedule, r.Rotate); err != nil {
		return nil, fmt.Errorf("featured schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start runs the schedule in the background.
func (r *Rotator) Start() {
	r.cron.Start()
	r.logger.Info("featured rotation started", zap.Int("entries", len(r.cron.Entries())))
}

// Stop halts the schedule and waits for a running rotation to finish or ctx to expire.
func (r *Rotator) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	r.logger.Info("featured rotation stopped")
}

// Rotate moves to the next featured argument.
func (r *Rotator) Rotate() {
	pos := r.pos.Add(1)
	metrics.FeaturedRotationsTotal.Inc()
	if a, err := r.Current(); err == nil {
		r.logger.Debug("featured argument rotated",
			zap.Uint64("position", pos),
			zap.String("title", a.Title()),
		)
	}
}

// Current returns the featured argument at the current position.
func (r *Rotator) Current() (philosopher.Argument, error) {
	candidates := r.catalog.Index().Featured()
	if len(candidates) == 0 {
		return philosopher.Argument{}, fmt.Errorf("featured argument: %w", domain.ErrNotFound)
	}
	return candidates[r.pos.Load()%uint64(len(candidates))], nil
}
