package task

import (
	"context"
	"log"

	domain "github.com/example/todo-api/domain/task"
	"github.com/example/todo-api/metrics"
	"github.com/google/uuid"
)

// TaskService defines the task business operations consumed by the HTTP
// layer. Every method validates its input, runs exactly one repository call
// under the query timer, and returns a classified error on failure.
type TaskService interface {
	// Create validates the request and inserts a new task.
	Create(ctx context.Context, req CreateTaskRequest) (*domain.Task, error)
	// List returns every task.
	List(ctx context.Context) ([]domain.Task, error)
	// Get returns the task with the given id.
	Get(ctx context.Context, id string) (*domain.Task, error)
	// Update applies a partial update to the task with the given id.
	Update(ctx context.Context, id string, req UpdateTaskRequest) (*domain.Task, error)
	// Delete permanently removes the task with the given id.
	Delete(ctx context.Context, id string) error
}

// TaskServiceImpl implements TaskService on a TaskRepository.
type TaskServiceImpl struct {
	repo    TaskRepository
	metrics *metrics.Metrics
}

// Compile-time interface check.
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a TaskService recording into the given metrics.
func NewTaskService(repo TaskRepository, m *metrics.Metrics) TaskService {
	return &TaskServiceImpl{
		repo:    repo,
		metrics: m,
	}
}

// instrument runs one repository call under the query timer, labeling the
// observation with the operation name and its outcome on every exit path.
func instrument[T any](m *metrics.Metrics, operation string, fn func() (T, error)) (T, error) {
	end := m.StartQueryTimer()
	v, err := fn()
	end(operation, err == nil)
	return v, err
}

// Create validates and inserts a new task.
func (s *TaskServiceImpl) Create(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := instrument(s.metrics, "create_task", func() (*domain.Task, error) {
		return s.repo.Create(ctx, req.Title, req.Description, *req.Status, *req.Completed)
	})
	if err != nil {
		log.Printf("[task] create failed: %v", err)
		return nil, err
	}
	return t, nil
}

// List returns every task.
func (s *TaskServiceImpl) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := instrument(s.metrics, "get_tasks", func() ([]domain.Task, error) {
		return s.repo.FindAll(ctx)
	})
	if err != nil {
		log.Printf("[task] list failed: %v", err)
		return nil, err
	}
	return tasks, nil
}

// Get returns a single task by id.
func (s *TaskServiceImpl) Get(ctx context.Context, id string) (*domain.Task, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		// A malformed id matches no row.
		return nil, domain.ErrNotFound
	}

	t, err := instrument(s.metrics, "get_task", func() (*domain.Task, error) {
		return s.repo.FindByID(ctx, uid)
	})
	if err != nil {
		log.Printf("[task] get failed: id=%s err=%v", id, err)
		return nil, err
	}
	return t, nil
}

// Update validates and applies a partial update. An empty request is a
// legal no-op that still refreshes the task's updatedAt.
func (s *TaskServiceImpl) Update(ctx context.Context, id string, req UpdateTaskRequest) (*domain.Task, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := instrument(s.metrics, "update_task", func() (*domain.Task, error) {
		return s.repo.Update(ctx, uid, req.Patch())
	})
	if err != nil {
		log.Printf("[task] update failed: id=%s err=%v", id, err)
		return nil, err
	}
	return t, nil
}

// Delete permanently removes a task.
func (s *TaskServiceImpl) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrNotFound
	}

	_, err = instrument(s.metrics, "delete_task", func() (struct{}, error) {
		return struct{}{}, s.repo.Delete(ctx, uid)
	})
	if err != nil {
		log.Printf("[task] delete failed: id=%s err=%v", id, err)
		return err
	}
	return nil
}
