package task

import (
	"unicode/utf8"

	domain "github.com/example/todo-api/domain/task"
)

// Field rules are written once below. The create view requires every field;
// the update view applies the same rules only to fields that are present.

func validateTitle(title string) error {
	if title == "" {
		return &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(title) > domain.TitleMaxLen {
		return &domain.ValidationError{Field: "title", Reason: "must be at most 500 characters"}
	}
	return nil
}

func validateDescription(description string) error {
	if description == "" {
		return &domain.ValidationError{Field: "description", Reason: "must not be empty"}
	}
	return nil
}

func validateStatus(status domain.Status) error {
	if !status.IsValid() {
		return &domain.ValidationError{Field: "status", Reason: "must be one of pending, active, completed"}
	}
	return nil
}

// Validate checks a creation request. All four fields are required.
func (r CreateTaskRequest) Validate() error {
	if err := validateTitle(r.Title); err != nil {
		return err
	}
	if err := validateDescription(r.Description); err != nil {
		return err
	}
	if r.Status == nil {
		return &domain.ValidationError{Field: "status", Reason: "is required"}
	}
	if err := validateStatus(*r.Status); err != nil {
		return err
	}
	if r.Completed == nil {
		return &domain.ValidationError{Field: "completed", Reason: "is required"}
	}
	return nil
}

// Validate checks a partial update. Absent fields are skipped; present
// fields obey the same rules as creation.
func (r UpdateTaskRequest) Validate() error {
	if r.Title != nil {
		if err := validateTitle(*r.Title); err != nil {
			return err
		}
	}
	if r.Description != nil {
		if err := validateDescription(*r.Description); err != nil {
			return err
		}
	}
	if r.Status != nil {
		if err := validateStatus(*r.Status); err != nil {
			return err
		}
	}
	return nil
}
