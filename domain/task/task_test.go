package task

import (
	"errors"
	"testing"
)

func TestStatusIsValid(t *testing.T) {
	valid := []Status{StatusPending, StatusActive, StatusCompleted}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	invalid := []Status{"", "done", "PENDING", "in-progress"}
	for _, s := range invalid {
		if s.IsValid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestDefaultStatus(t *testing.T) {
	if DefaultStatus != StatusPending {
		t.Errorf("expected default status pending, got %q", DefaultStatus)
	}
	if !DefaultStatus.IsValid() {
		t.Error("default status must be valid")
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "title", Reason: "must not be empty"}
	if err.Error() != "title must not be empty" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &StorageError{Op: "create", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
	if err.Error() == "" {
		t.Error("expected a non-empty message")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrConflict, ErrForeignKey}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v must not match %v", a, b)
			}
		}
	}
}
