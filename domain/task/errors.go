package task

import (
	"errors"
	"fmt"
)

// The store returns the most specific classified error; callers decide the
// HTTP status with errors.Is / errors.As. The taxonomy is closed: every
// backend failure maps onto exactly one of the errors below.
var (
	// ErrNotFound indicates no task row exists for the given id.
	ErrNotFound = errors.New("task not found")
	// ErrConflict indicates a uniqueness constraint was violated.
	ErrConflict = errors.New("task already exists")
	// ErrForeignKey indicates a referenced record is missing.
	ErrForeignKey = errors.New("referenced record not found")
)

// ValidationError reports a field-level failure in request input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// StorageError wraps an unclassified backend failure. The wrapped error is
// kept for diagnostics and must not be exposed to API callers.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
