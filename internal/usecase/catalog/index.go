package catalog

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/philodex/internal/domain"
	"github.com/kailas-cloud/philodex/internal/domain/category"
	"github.com/kailas-cloud/philodex/internal/domain/philosopher"
	"github.com/kailas-cloud/philodex/internal/domain/timeline"
)

// MinQueryLength is the shortest query that narrows results. Shorter queries match everything.
const MinQueryLength = 2

// Index is an immutable searchable view over a fixed list of records.
// It is safe for concurrent use.
type Index struct {
	philosophers []philosopher.Philosopher
	// fields[i] holds the lowercased searchable fields of philosophers[i].
	fields    [][]string
	arguments []philosopher.Argument
	owners    map[string]string
	byName    map[string]int
	byTitle   map[string]int
}

// Build constructs an index over records. Records are kept in input order.
func Build(records []philosopher.Philosopher) *Index {
	idx := &Index{
		philosophers: slices.Clone(records),
		fields:       make([][]string, len(records)),
		owners:       make(map[string]string),
		byName:       make(map[string]int, len(records)),
		byTitle:      make(map[string]int),
	}

	for i, p := range records {
		idx.fields[i] = searchableFields(p)
		if _, dup := idx.byName[p.Name()]; !dup {
			idx.byName[p.Name()] = i
		}
		for _, a := range p.Arguments() {
			if _, seen := idx.owners[a.Title()]; !seen {
				idx.owners[a.Title()] = p.Name()
			}
		}
	}

	idx.arguments = ArgumentsOf(records)
	for i, a := range idx.arguments {
		idx.byTitle[a.Title()] = i
	}
	return idx
}

// Empty returns an index over no records.
func Empty() *Index { return Build(nil) }

func searchableFields(p philosopher.Philosopher) []string {
	args := p.Arguments()
	works := p.Works()
	out := make([]string, 0, 1+len(works)+2*len(args))
	out = append(out, strings.ToLower(p.Name()))
	for _, w := range works {
		out = append(out, strings.ToLower(w))
	}
	for _, a := range args {
		out = append(out, strings.ToLower(a.Title()), strings.ToLower(a.Description()))
	}
	return out
}

// Len returns the number of philosopher records.
func (idx *Index) Len() int { return len(idx.philosophers) }

// Philosophers returns all records in source order.
func (idx *Index) Philosophers() []philosopher.Philosopher {
	return slices.Clone(idx.philosophers)
}

// Arguments returns the flattened, de-duplicated argument list.
func (idx *Index) Arguments() []philosopher.Argument {
	return slices.Clone(idx.arguments)
}

// Query returns the records whose name, work titles, argument titles or
// argument descriptions contain text, case-insensitively, in source order.
// Surrounding whitespace is ignored. A query shorter than MinQueryLength
// returns every record.
func (idx *Index) Query(text string) []philosopher.Philosopher {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinQueryLength {
		return idx.Philosophers()
	}

	needle := strings.ToLower(text)
	out := make([]philosopher.Philosopher, 0)
	for i, fields := range idx.fields {
		if slices.ContainsFunc(fields, func(f string) bool { return strings.Contains(f, needle) }) {
			out = append(out, idx.philosophers[i])
		}
	}
	return out
}

// FilterByCategory returns the arguments tagged c, or all arguments for category.All.
// An unknown tag matches nothing.
func (idx *Index) FilterByCategory(c category.Category) []philosopher.Argument {
	return FilterArguments(idx.arguments, c)
}

// Philosopher returns the record with the given name.
func (idx *Index) Philosopher(name string) (philosopher.Philosopher, error) {
	i, ok := idx.byName[name]
	if !ok {
		return philosopher.Philosopher{}, fmt.Errorf("philosopher %q: %w", name, domain.ErrNotFound)
	}
	return idx.philosophers[i], nil
}

// Argument returns the catalog-wide argument with the given title.
func (idx *Index) Argument(title string) (philosopher.Argument, error) {
	i, ok := idx.byTitle[title]
	if !ok {
		return philosopher.Argument{}, fmt.Errorf("argument %q: %w", title, domain.ErrNotFound)
	}
	return idx.arguments[i], nil
}

// Owner returns the name of the first philosopher listing the argument.
func (idx *Index) Owner(title string) (string, bool) {
	name, ok := idx.owners[title]
	return name, ok
}

// Featured returns the arguments flagged featured, or every argument when none is flagged.
func (idx *Index) Featured() []philosopher.Argument {
	out := make([]philosopher.Argument, 0)
	for _, a := range idx.arguments {
		if a.Featured() {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return idx.Arguments()
	}
	return out
}

// ArgumentsOf concatenates the arguments of records, keeping the first argument for each title.
func ArgumentsOf(records []philosopher.Philosopher) []philosopher.Argument {
	seen := make(map[string]struct{})
	out := make([]philosopher.Argument, 0)
	for _, p := range records {
		for _, a := range p.Arguments() {
			if _, dup := seen[a.Title()]; dup {
				continue
			}
			seen[a.Title()] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}

// FilterArguments returns the arguments tagged c, or all of them for category.All. Order is kept.
func FilterArguments(args []philosopher.Argument, c category.Category) []philosopher.Argument {
	if c == category.All {
		return slices.Clone(args)
	}
	out := make([]philosopher.Argument, 0)
	for _, a := range args {
		if a.Category() == c {
			out = append(out, a)
		}
	}
	return out
}

// ParseFilter normalizes a user-supplied category filter. Empty means category.All.
// Unknown tags are passed through and later match nothing.
func ParseFilter(s string) category.Category {
	s = strings.TrimSpace(s)
	if s == "" {
		return category.All
	}
	return category.Category(strings.ToLower(s))
}

// Timeline orders records chronologically by birth or publication date.
func Timeline(records []philosopher.Philosopher) []timeline.Entry {
	entries := make([]timeline.Entry, len(records))
	for i, p := range records {
		entries[i] = timeline.NewEntry(p.Name(), p.Born(), p.Works())
	}
	timeline.Sort(entries)
	return entries
}
