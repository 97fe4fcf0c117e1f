// Package timeline orders catalog records chronologically.
package timeline

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// Entry is a single point on the timeline.
type Entry struct {
	Name  string
	Date  string
	Year  int
	Known bool
	Works []string
}

// ParseYear converts a date such as "1641", "384 BC", "c. 1225" or "AD 354" to a signed year.
// BC years are negative. Returns false if no year can be read.
func ParseYear(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "C.")
	s = strings.TrimSpace(s)

	sign := 1
	switch {
	case strings.HasSuffix(s, "BCE"):
		sign = -1
		s = strings.TrimSuffix(s, "BCE")
	case strings.HasSuffix(s, "BC"):
		sign = -1
		s = strings.TrimSuffix(s, "BC")
	case strings.HasSuffix(s, "CE"):
		s = strings.TrimSuffix(s, "CE")
	case strings.HasSuffix(s, "AD"):
		s = strings.TrimSuffix(s, "AD")
	}
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "AD"))

	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || year <= 0 {
		return 0, false
	}
	return sign * year, true
}

// NewEntry builds an entry, parsing the year from date.
func NewEntry(name, date string, works []string) Entry {
	year, ok := ParseYear(date)
	return Entry{Name: name, Date: date, Year: year, Known: ok, Works: works}
}

// Sort orders entries by year ascending. Entries without a known year go last.
// Ties keep their input order.
func Sort(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case a.Known && !b.Known:
			return -1
		case !a.Known && b.Known:
			return 1
		case !a.Known && !b.Known:
			return 0
		}
		return cmp.Compare(a.Year, b.Year)
	})
}
