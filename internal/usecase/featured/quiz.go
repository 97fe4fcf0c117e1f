package featured

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/philodex/internal/domain"
	"github.com/kailas-cloud/philodex/internal/usecase/catalog"
)

// maxDistractors is the number of wrong options offered next to the answer.
const maxDistractors = 3

// Quiz asks who proposed an argument. Options are numbered from 1.
type Quiz struct {
	Title    string
	Question string
	Options  []string
	Correct  int
}

// Result is the outcome of one answer.
type Result struct {
	Correct       bool
	CorrectAnswer int
	Answer        string
}

// BuildQuiz creates the quiz for the argument with the given title.
// The answer is the argument's key philosopher, or the first philosopher listing it.
// Distractors are the first other philosophers in catalog order; options are sorted by name.
func BuildQuiz(idx *catalog.Index, title string) (Quiz, error) {
	a, err := idx.Argument(title)
	if err != nil {
		return Quiz{}, fmt.Errorf("build quiz: %w", err)
	}

	answer := a.KeyPhilosopher()
	if answer == "" {
		answer, _ = idx.Owner(title)
	}

	options := []string{answer}
	for _, p := range idx.Philosophers() {
		if len(options) > maxDistractors {
			break
		}
		if !slices.Contains(options, p.Name()) {
			options = append(options, p.Name())
		}
	}
	slices.Sort(options)

	return Quiz{
		Title:    a.Title(),
		Question: fmt.Sprintf("Who proposed the %s?", a.Title()),
		Options:  options,
		Correct:  slices.Index(options, answer) + 1,
	}, nil
}

// Check scores a 1-based answer.
func (q Quiz) Check(answer int) (Result, error) {
	if answer < 1 || answer > len(q.Options) {
		return Result{}, fmt.Errorf("answer %d out of range 1..%d: %w", answer, len(q.Options), domain.ErrInvalidRequest)
	}
	return Result{
		Correct:       answer == q.Correct,
		CorrectAnswer: q.Correct,
		Answer:        q.Options[q.Correct-1],
	}, nil
}
