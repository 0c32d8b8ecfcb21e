package search

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTerm is returned when the search term is empty after trimming
	ErrEmptyTerm = errors.New("search term is empty")
	// ErrRootNotDirectory is returned when the search root is not a directory
	ErrRootNotDirectory = errors.New("search root is not a directory")
)

// ValidationError rejects a start command before any state change
type ValidationError struct {
	Field string // "term" or "root"
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
