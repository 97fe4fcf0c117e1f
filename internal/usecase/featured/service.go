package featured

import (
	"fmt"

	"github.com/kailas-cloud/philodex/internal/domain/philosopher"
)

// Service exposes the featured argument and its quiz.
type Service struct {
	catalog IndexProvider
	rotator *Rotator
}

// New creates a featured service.
func New(provider IndexProvider, rotator *Rotator) *Service {
	return &Service{catalog: provider, rotator: rotator}
}

// Current returns the featured argument.
func (s *Service) Current() (philosopher.Argument, error) {
	a, err := s.rotator.Current()
	if err != nil {
		return philosopher.Argument{}, fmt.Errorf("current featured: %w", err)
	}
	return a, nil
}

// Quiz returns the quiz for the featured argument.
func (s *Service) Quiz() (Quiz, error) {
	a, err := s.Current()
	if err != nil {
		return Quiz{}, err
	}
	return BuildQuiz(s.catalog.Index(), a.Title())
}

// Answer scores an answer to the quiz about title. The title is taken from
// the client so that a rotation between asking and answering does not change the question.
func (s *Service) Answer(title string, answer int) (Result, error) {
	q, err := BuildQuiz(s.catalog.Index(), title)
	if err != nil {
		return Result{}, err
	}
	return q.Check(answer)
}
