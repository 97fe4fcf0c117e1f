package carousel

import "fmt"

// Mode is the boundary policy of a carousel.
type Mode string

// Mode constants.
const (
	// Clamped stops at the first and last page.
	Clamped Mode = "clamped"
	// Cyclic wraps around past either end.
	Cyclic Mode = "cyclic"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Clamped || m == Cyclic
}

// Window is the paging state of a carousel (immutable value object).
// Navigation methods return a new Window.
type Window struct {
	page     int
	pageSize int
	total    int
	mode     Mode
}

// New validates and creates a Window positioned at page 0.
func New(pageSize, total int, mode Mode) (Window, error) {
	if pageSize <= 0 {
		return Window{}, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	if total < 0 {
		return Window{}, fmt.Errorf("total items must be non-negative, got %d", total)
	}
	if !mode.IsValid() {
		return Window{}, fmt.Errorf("unknown carousel mode %q", mode)
	}
	return Window{pageSize: pageSize, total: total, mode: mode}, nil
}

// Reconstruct creates a Window without validation (session hydration).
func Reconstruct(page, pageSize, total int, mode Mode) Window {
	return Window{page: page, pageSize: pageSize, total: total, mode: mode}
}

// Page returns the current page index.
func (w Window) Page() int { return w.page }

// PageSize returns the number of items per page.
func (w Window) PageSize() int { return w.pageSize }

// Total returns the number of items behind the window.
func (w Window) Total() int { return w.total }

// Mode returns the boundary policy.
func (w Window) Mode() Mode { return w.mode }

// MaxPage returns the last valid page index, 0 for an empty list.
func (w Window) MaxPage() int {
	if w.total == 0 || w.pageSize <= 0 {
		return 0
	}
	return (w.total+w.pageSize-1)/w.pageSize - 1
}

// Advance moves one page forward.
func (w Window) Advance() Window {
	if w.total == 0 {
		return w
	}
	switch {
	case w.page < w.MaxPage():
		w.page++
	case w.mode == Cyclic:
		w.page = 0
	}
	return w
}

// Retreat moves one page back.
func (w Window) Retreat() Window {
	if w.total == 0 {
		return w
	}
	switch {
	case w.page > 0:
		w.page--
	case w.mode == Cyclic:
		w.page = w.MaxPage()
	}
	return w
}

// Reset returns to the first page.
func (w Window) Reset() Window {
	w.page = 0
	return w
}

// Resize replaces the item count and resets to the first page.
func (w Window) Resize(total int) Window {
	if total < 0 {
		total = 0
	}
	w.total = total
	return w.Reset()
}

// CanAdvance reports whether Advance would change the page.
func (w Window) CanAdvance() bool {
	if w.MaxPage() == 0 {
		return false
	}
	return w.mode == Cyclic || w.page < w.MaxPage()
}

// CanRetreat reports whether Retreat would change the page.
func (w Window) CanRetreat() bool {
	if w.MaxPage() == 0 {
		return false
	}
	return w.mode == Cyclic || w.page > 0
}

// Offset returns the scroll offset of the current page for items of the given stride.
func (w Window) Offset(stride int) int {
	if w.total == 0 {
		return 0
	}
	return w.page * w.pageSize * stride
}

// Bounds returns the half-open range [start, end) of visible item indexes.
func (w Window) Bounds() (start, end int) {
	if w.total == 0 {
		return 0, 0
	}
	start = min(w.page*w.pageSize, w.total)
	end = min(start+w.pageSize, w.total)
	return start, end
}
