// Package browse holds per-session browse state and the pure handlers that
// move it: search, category selection and carousel navigation.
package browse

import (
	"fmt"

	"github.com/kailas-cloud/philodex/internal/domain"
	"github.com/kailas-cloud/philodex/internal/domain/carousel"
	"github.com/kailas-cloud/philodex/internal/domain/category"
	"github.com/kailas-cloud/philodex/internal/domain/philosopher"
	"github.com/kailas-cloud/philodex/internal/usecase/catalog"
)

// Carousel names one of the two carousels of a session.
type Carousel string

// Carousel constants.
const (
	PhilosophersCarousel Carousel = "philosophers"
	ArgumentsCarousel    Carousel = "arguments"
)

// Direction is a carousel navigation command.
type Direction string

// Direction constants.
const (
	Next  Direction = "next"
	Prev  Direction = "prev"
	Reset Direction = "reset"
)

// Layout fixes carousel geometry for new sessions.
type Layout struct {
	PhilosopherPageSize int
	ArgumentPageSize    int
	Stride              int
	Mode                carousel.Mode
}

// DefaultLayout matches the reference page: 3 philosopher cards, 4 argument
// cards, 300px cards with a 30px gap, clamped at the ends.
func DefaultLayout() Layout {
	return Layout{
		PhilosopherPageSize: 3,
		ArgumentPageSize:    4,
		Stride:              330,
		Mode:                carousel.Clamped,
	}
}

// State is the complete browse state of one session.
type State struct {
	Query        string
	Category     category.Category
	Philosophers carousel.Window
	Arguments    carousel.Window
}

// NewState creates the initial state over idx: empty query, all categories, first pages.
func NewState(idx *catalog.Index, layout Layout) (State, error) {
	pw, err := carousel.New(layout.PhilosopherPageSize, idx.Len(), layout.Mode)
	if err != nil {
		return State{}, fmt.Errorf("philosophers carousel: %w", err)
	}
	aw, err := carousel.New(layout.ArgumentPageSize, len(idx.Arguments()), layout.Mode)
	if err != nil {
		return State{}, fmt.Errorf("arguments carousel: %w", err)
	}
	return State{Category: category.All, Philosophers: pw, Arguments: aw}, nil
}

// Search sets the query. Both carousels resize to the narrowed lists and return to page 0.
func Search(idx *catalog.Index, s State, query string) State {
	s.Query = query
	phils, args := visible(idx, s)
	s.Philosophers = s.Philosophers.Resize(len(phils))
	s.Arguments = s.Arguments.Resize(len(args))
	return s
}

// SelectCategory sets the argument filter. Only the arguments carousel resets.
func SelectCategory(idx *catalog.Index, s State, c category.Category) State {
	s.Category = c
	_, args := visible(idx, s)
	s.Arguments = s.Arguments.Resize(len(args))
	return s
}

// Navigate moves one carousel.
func Navigate(s State, target Carousel, dir Direction) (State, error) {
	var w *carousel.Window
	switch target {
	case PhilosophersCarousel:
		w = &s.Philosophers
	case ArgumentsCarousel:
		w = &s.Arguments
	default:
		return s, fmt.Errorf("carousel %q: %w", target, domain.ErrInvalidRequest)
	}

	switch dir {
	case Next:
		*w = w.Advance()
	case Prev:
		*w = w.Retreat()
	case Reset:
		*w = w.Reset()
	default:
		return s, fmt.Errorf("direction %q: %w", dir, domain.ErrInvalidRequest)
	}
	return s, nil
}

// Sync resizes windows whose totals no longer match idx, for example after a catalog reload.
func Sync(idx *catalog.Index, s State) State {
	phils, args := visible(idx, s)
	if s.Philosophers.Total() != len(phils) {
		s.Philosophers = s.Philosophers.Resize(len(phils))
	}
	if s.Arguments.Total() != len(args) {
		s.Arguments = s.Arguments.Resize(len(args))
	}
	return s
}

// Page is the visible slice of one carousel.
type Page[T any] struct {
	Items   []T
	Page    int
	MaxPage int
	Total   int
	Offset  int
	CanPrev bool
	CanNext bool
}

// View is a rendered state.
type View struct {
	Query        string
	Category     category.Category
	Philosophers Page[philosopher.Philosopher]
	Arguments    Page[philosopher.Argument]
}

// Render projects s over idx.
func Render(idx *catalog.Index, s State, stride int) View {
	phils, args := visible(idx, s)
	return View{
		Query:        s.Query,
		Category:     s.Category,
		Philosophers: page(phils, s.Philosophers, stride),
		Arguments:    page(args, s.Arguments, stride),
	}
}

func visible(idx *catalog.Index, s State) ([]philosopher.Philosopher, []philosopher.Argument) {
	phils := idx.Query(s.Query)
	return phils, catalog.FilterArguments(catalog.ArgumentsOf(phils), s.Category)
}

func page[T any](items []T, w carousel.Window, stride int) Page[T] {
	start, end := w.Bounds()
	start = min(start, len(items))
	end = min(end, len(items))
	return Page[T]{
		Items:   items[start:end],
		Page:    w.Page(),
		MaxPage: w.MaxPage(),
		Total:   w.Total(),
		Offset:  w.Offset(stride),
		CanPrev: w.CanRetreat(),
		CanNext: w.CanAdvance(),
	}
}
