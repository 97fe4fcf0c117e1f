package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing catalog record.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals malformed client input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrDataLoad signals that the catalog source could not be fetched or decoded.
	ErrDataLoad = errors.New("data load failed")
	// ErrSessionNotFound signals an unknown or expired browse session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// EntryError describes a catalog entry rejected at the load boundary.
type EntryError struct {
	Index  int
	Name   string
	Reason error
}

func (e *EntryError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("entry %d rejected: %v", e.Index, e.Reason)
	}
	return fmt.Sprintf("entry %d (%s) rejected: %v", e.Index, e.Name, e.Reason)
}

func (e *EntryError) Unwrap() error { return e.Reason }
