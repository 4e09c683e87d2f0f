// Package task provides the canonical task entity shared by the
// persistence and HTTP layers. Field constraints live here so that the
// validation views and the storage schema cannot drift apart.
package task

import "time"

// Status represents the progress state of a task.
type Status string

const (
	// StatusPending indicates the task has not been started.
	StatusPending Status = "pending"
	// StatusActive indicates the task is in progress.
	StatusActive Status = "active"
	// StatusCompleted indicates the task is finished.
	StatusCompleted Status = "completed"
)

// DefaultStatus is applied by the store when a row is inserted without an
// explicit status. A fresh task has made no progress, hence pending.
const DefaultStatus = StatusPending

// TitleMaxLen is the maximum title length in characters.
const TitleMaxLen = 500

// IsValid returns true if the status is one of the enumerated values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}

// Task is the persisted task record. Completed and Status carry no enforced
// relationship; a task may be completed while its status is still pending.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
