package task

import (
	"errors"
	"strings"
	"testing"

	domain "github.com/example/todo-api/domain/task"
)

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != field {
		t.Errorf("expected field %q, got %q", field, validationErr.Field)
	}
}

func TestCreateTaskRequest_Validate(t *testing.T) {
	valid := func() CreateTaskRequest {
		return CreateTaskRequest{
			Title:       "Write report",
			Description: "Quarterly numbers",
			Status:      statusPtr(domain.StatusActive),
			Completed:   boolPtr(false),
		}
	}

	t.Run("valid", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("empty title", func(t *testing.T) {
		req := valid()
		req.Title = ""
		assertValidationField(t, req.Validate(), "title")
	})

	t.Run("title too long", func(t *testing.T) {
		req := valid()
		req.Title = strings.Repeat("x", domain.TitleMaxLen+1)
		assertValidationField(t, req.Validate(), "title")
	})

	t.Run("title at limit", func(t *testing.T) {
		req := valid()
		req.Title = strings.Repeat("x", domain.TitleMaxLen)
		if err := req.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("multibyte title at limit", func(t *testing.T) {
		// The limit counts characters, not bytes.
		req := valid()
		req.Title = strings.Repeat("ä", domain.TitleMaxLen)
		if err := req.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("empty description", func(t *testing.T) {
		req := valid()
		req.Description = ""
		assertValidationField(t, req.Validate(), "description")
	})

	t.Run("missing status", func(t *testing.T) {
		req := valid()
		req.Status = nil
		assertValidationField(t, req.Validate(), "status")
	})

	t.Run("invalid status", func(t *testing.T) {
		req := valid()
		req.Status = statusPtr(domain.Status("done"))
		assertValidationField(t, req.Validate(), "status")
	})

	t.Run("missing completed", func(t *testing.T) {
		req := valid()
		req.Completed = nil
		assertValidationField(t, req.Validate(), "completed")
	})
}

func TestUpdateTaskRequest_Validate(t *testing.T) {
	t.Run("empty request is valid", func(t *testing.T) {
		if err := (UpdateTaskRequest{}).Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("single valid field", func(t *testing.T) {
		req := UpdateTaskRequest{Completed: boolPtr(true)}
		if err := req.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("present title obeys create rules", func(t *testing.T) {
		req := UpdateTaskRequest{Title: strPtr("")}
		assertValidationField(t, req.Validate(), "title")

		req = UpdateTaskRequest{Title: strPtr(strings.Repeat("x", domain.TitleMaxLen+1))}
		assertValidationField(t, req.Validate(), "title")
	})

	t.Run("present description obeys create rules", func(t *testing.T) {
		req := UpdateTaskRequest{Description: strPtr("")}
		assertValidationField(t, req.Validate(), "description")
	})

	t.Run("present status obeys create rules", func(t *testing.T) {
		req := UpdateTaskRequest{Status: statusPtr(domain.Status("paused"))}
		assertValidationField(t, req.Validate(), "status")
	})
}
