package api

import (
	"errors"
	"log"

	domain "github.com/example/todo-api/domain/task"
	"github.com/example/todo-api/modules/task"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains the HTTP handlers for the task API.
type Handlers struct {
	service task.TaskService
}

// NewHandlers creates a Handlers calling into the given task service.
func NewHandlers(service task.TaskService) *Handlers {
	return &Handlers{service: service}
}

// CreateTask handles POST /v1/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var req task.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	t, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return h.taskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(t)
}

// ListTasks handles GET /v1/tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.service.List(c.UserContext())
	if err != nil {
		return h.taskError(c, err)
	}
	return c.JSON(tasks)
}

// GetTask handles GET /v1/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	t, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.taskError(c, err)
	}
	return c.JSON(t)
}

// UpdateTask handles PATCH /v1/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var req task.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	t, err := h.service.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return h.taskError(c, err)
	}
	return c.JSON(t)
}

// DeleteTask handles DELETE /v1/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.taskError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// taskError maps the closed error taxonomy onto HTTP status codes. Anything
// unclassified is logged with request context and surfaced as an opaque 500.
func (h *Handlers) taskError(c *fiber.Ctx, err error) error {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "Task already exists",
		})
	case errors.Is(err, domain.ErrForeignKey):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "unprocessable",
			Message: "Referenced record not found",
		})
	default:
		log.Printf("[api] %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "Internal Server Error",
		})
	}
}
