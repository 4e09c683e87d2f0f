package task

import domain "github.com/example/todo-api/domain/task"

// CreateTaskRequest carries the fields for creating a task. Every field is
// required; Status and Completed are pointers so that a missing field can be
// told apart from a zero value.
type CreateTaskRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      *domain.Status `json:"status"`
	Completed   *bool          `json:"completed"`
}

// UpdateTaskRequest carries a partial update. Nil fields are left unchanged;
// an empty request is valid and still refreshes the task's updatedAt.
type UpdateTaskRequest struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *domain.Status `json:"status,omitempty"`
	Completed   *bool          `json:"completed,omitempty"`
}

// Patch converts the request into the repository's patch form.
func (r UpdateTaskRequest) Patch() TaskPatch {
	return TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Completed:   r.Completed,
	}
}
