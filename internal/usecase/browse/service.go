package browse

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/philodex/internal/domain"
	"github.com/kailas-cloud/philodex/internal/domain/category"
	"github.com/kailas-cloud/philodex/internal/logger"
	"github.com/kailas-cloud/philodex/internal/usecase/catalog"
)

// Session is a rendered browse session.
type Session struct {
	ID   string
	View View
}

// Service manages server-side browse sessions.
type Service struct {
	catalog  IndexProvider
	sessions SessionStore
	layout   Layout

	// mu serializes read-apply-write on session state.
	mu sync.Mutex
}

// New creates a browse service.
func New(provider IndexProvider, sessions SessionStore, layout Layout) *Service {
	return &Service{catalog: provider, sessions: sessions, layout: layout}
}

// Create starts a session at the initial state.
func (s *Service) Create(ctx context.Context) (Session, error) {
	idx := s.catalog.Index()
	st, err := NewState(idx, s.layout)
	if err != nil {
		return Session{}, fmt.Errorf("new session: %w", err)
	}

	id := uuid.NewString()
	s.sessions.Put(id, st)
	logger.FromContext(ctx).Debug("browse session created", zap.String("session_id", id))
	return Session{ID: id, View: Render(idx, st, s.layout.Stride)}, nil
}

// Get renders the current state of a session.
func (s *Service) Get(_ context.Context, id string) (Session, error) {
	return s.apply(id, nil)
}

// Search applies a query to a session.
func (s *Service) Search(_ context.Context, id, query string) (Session, error) {
	return s.apply(id, func(idx *catalog.Index, st State) (State, error) {
		return Search(idx, st, query), nil
	})
}

// SelectCategory applies an argument category filter to a session.
func (s *Service) SelectCategory(_ context.Context, id string, c category.Category) (Session, error) {
	return s.apply(id, func(idx *catalog.Index, st State) (State, error) {
		return SelectCategory(idx, st, c), nil
	})
}

// Navigate moves one carousel of a session.
func (s *Service) Navigate(_ context.Context, id string, target Carousel, dir Direction) (Session, error) {
	return s.apply(id, func(_ *catalog.Index, st State) (State, error) {
		return Navigate(st, target, dir)
	})
}

// End discards a session. Ending an unknown session is ErrSessionNotFound.
func (s *Service) End(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions.Get(id); !ok {
		return fmt.Errorf("session %q: %w", id, domain.ErrSessionNotFound)
	}
	s.sessions.Delete(id)
	logger.FromContext(ctx).Debug("browse session ended", zap.String("session_id", id))
	return nil
}

// apply loads the session, syncs it with the published index, runs fn when
// set, stores the result and renders it.
func (s *Service) apply(id string, fn func(*catalog.Index, State) (State, error)) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions.Get(id)
	if !ok {
		return Session{}, fmt.Errorf("session %q: %w", id, domain.ErrSessionNotFound)
	}

	idx := s.catalog.Index()
	st = Sync(idx, st)
	if fn != nil {
		next, err := fn(idx, st)
		if err != nil {
			return Session{}, err
		}
		st = next
	}

	s.sessions.Put(id, st)
	return Session{ID: id, View: Render(idx, st, s.layout.Stride)}, nil
}
