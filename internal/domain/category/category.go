package category

import (
	"fmt"
	"strings"
)

// Category is the topic tag of an argument.
type Category string

// Category constants.
const (
	// All is the filter sentinel that matches every category. It is never assigned to an argument.
	All       Category = "all"
	Ethics    Category = "ethics"
	Existence Category = "existence"
	Mind      Category = "mind"
	Religion  Category = "religion"
	Other     Category = "other"
)

// IsValid reports whether c can be assigned to an argument.
func (c Category) IsValid() bool {
	return c == Ethics || c == Existence || c == Mind || c == Religion || c == Other
}

// Values returns the assignable categories in display order.
func Values() []Category {
	return []Category{Ethics, Existence, Mind, Religion, Other}
}

// Parse normalizes a filter tag. Accepts All in addition to the assignable categories.
func Parse(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == All || c.IsValid() {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

type rule struct {
	category Category
	keywords []string
}

// rules are evaluated in order; the first rule with a matching keyword wins.
var rules = []rule{
	{Ethics, []string{"ethic", "moral"}},
	{Existence, []string{"existence", "reality", "ontological"}},
	{Mind, []string{"mind", "consciousness"}},
	{Religion, []string{"god", "religion"}},
}

// Categorize derives a category from an argument title by keyword match.
func Categorize(title string) Category {
	lower := strings.ToLower(title)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return Other
}
