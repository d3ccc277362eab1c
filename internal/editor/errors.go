package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrLocked is returned when editing or saving a read-only entry
	ErrLocked = errors.New("entry is read-only: only today's entry can be edited")

	// ErrNoEntry is returned when no entry has been opened
	ErrNoEntry = errors.New("no entry is open")
)

// ValidationError is returned by Save when a dated entry is too short
type ValidationError struct {
	Path  string
	Count int
	Min   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s has %d characters, at least %d are required (%d to go)",
		e.Path, e.Count, e.Min, e.Min-e.Count)
}
