package philosopher

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/philodex/internal/domain/category"
)

// Argument is a single philosophical argument (immutable value object).
type Argument struct {
	title           string
	description     string
	briefOverview   string
	summary         string
	realLifeExample string
	pro             string
	con             string
	keyPhilosopher  string
	category        category.Category
	featured        bool
}

// ArgumentFields carries the raw argument attributes accepted by NewArgument.
type ArgumentFields struct {
	Title           string
	Description     string
	BriefOverview   string
	Summary         string
	RealLifeExample string
	Pro             string
	Con             string
	KeyPhilosopher  string
	Category        string
	Featured        bool
}

// NewArgument validates and creates an Argument.
// Title is required. An empty category is derived from the title; a non-empty one must be assignable.
func NewArgument(f ArgumentFields) (Argument, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return Argument{}, fmt.Errorf("argument title is required")
	}

	cat := category.Categorize(title)
	if raw := strings.TrimSpace(f.Category); raw != "" {
		cat = category.Category(strings.ToLower(raw))
		if !cat.IsValid() {
			return Argument{}, fmt.Errorf("argument %q: unknown category %q", title, f.Category)
		}
	}

	return Argument{
		title:           title,
		description:     f.Description,
		briefOverview:   f.BriefOverview,
		summary:         f.Summary,
		realLifeExample: f.RealLifeExample,
		pro:             f.Pro,
		con:             f.Con,
		keyPhilosopher:  strings.TrimSpace(f.KeyPhilosopher),
		category:        cat,
		featured:        f.Featured,
	}, nil
}

// Title returns the argument title, the de-duplication key.
func (a Argument) Title() string { return a.title }

// Description returns the long description.
func (a Argument) Description() string { return a.description }

// BriefOverview returns the card teaser text.
func (a Argument) BriefOverview() string { return a.briefOverview }

// Summary returns the detail summary.
func (a Argument) Summary() string { return a.summary }

// RealLifeExample returns the illustrative example.
func (a Argument) RealLifeExample() string { return a.realLifeExample }

// Pro returns the supporting point.
func (a Argument) Pro() string { return a.pro }

// Con returns the opposing point.
func (a Argument) Con() string { return a.con }

// KeyPhilosopher returns the name credited with the argument.
func (a Argument) KeyPhilosopher() string { return a.keyPhilosopher }

// Category returns the assigned category.
func (a Argument) Category() category.Category { return a.category }

// Featured reports whether the argument takes part in the featured rotation.
func (a Argument) Featured() bool { return a.featured }

// Philosopher is a catalog record (immutable value object).
type Philosopher struct {
	name      string
	bio       string
	influence string
	born      string
	image     string
	works     []string
	arguments []Argument
}

// Fields carries the raw philosopher attributes accepted by New.
type Fields struct {
	Name      string
	Bio       string
	Influence string
	Born      string
	Image     string
	Works     []string
}

// New validates and creates a Philosopher. Name and at least one argument are required.
func New(f Fields, arguments []Argument) (Philosopher, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return Philosopher{}, fmt.Errorf("philosopher name is required")
	}
	if len(arguments) == 0 {
		return Philosopher{}, fmt.Errorf("philosopher %q has no arguments", name)
	}

	works := make([]string, 0, len(f.Works))
	for _, w := range f.Works {
		if w = strings.TrimSpace(w); w != "" {
			works = append(works, w)
		}
	}

	return Philosopher{
		name:      name,
		bio:       f.Bio,
		influence: f.Influence,
		born:      strings.TrimSpace(f.Born),
		image:     strings.TrimSpace(f.Image),
		works:     works,
		arguments: slices.Clone(arguments),
	}, nil
}

// Name returns the unique record key.
func (p Philosopher) Name() string { return p.name }

// Bio returns the biography.
func (p Philosopher) Bio() string { return p.bio }

// Influence returns the influence text.
func (p Philosopher) Influence() string { return p.influence }

// Born returns the birth or publication date as written in the source, e.g. "384 BC".
func (p Philosopher) Born() string { return p.born }

// Image returns the portrait URL, if any.
func (p Philosopher) Image() string { return p.image }

// Works returns a copy of the ordered list of major works.
func (p Philosopher) Works() []string { return slices.Clone(p.works) }

// Arguments returns a copy of the ordered argument list.
func (p Philosopher) Arguments() []Argument { return slices.Clone(p.arguments) }

// CentralArgument returns the first argument.
func (p Philosopher) CentralArgument() Argument { return p.arguments[0] }
