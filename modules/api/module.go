// Package api exposes the task service over HTTP.
package api

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/todo-api/config"
	"github.com/example/todo-api/metrics"
	"github.com/example/todo-api/middleware/ratelimit"
	taskmod "github.com/example/todo-api/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Requests to the docs endpoint get their own, laxer bucket.
const (
	docsRateLimit  = 30
	docsRateWindow = time.Minute
)

// APIModule provides the HTTP surface: task routes, health check, metrics
// exposition, and the OpenAPI document.
type APIModule struct {
	app         *fiber.App
	handlers    *Handlers
	taskModule  *taskmod.TaskModule
	rateLimiter *ratelimit.Module
	metrics     *metrics.Metrics
	addr        string
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*APIModule)(nil)
	_ mono.HealthCheckableModule = (*APIModule)(nil)
)

// NewModule creates an APIModule listening on the configured address.
func NewModule(cfg *config.Config, m *metrics.Metrics) *APIModule {
	return &APIModule{
		metrics: m,
		addr:    cfg.Addr(),
	}
}

// SetTaskModule sets the task module dependency. Must be called before the
// application starts.
func (m *APIModule) SetTaskModule(tm *taskmod.TaskModule) {
	m.taskModule = tm
}

// SetRateLimiter sets the rate limiting module dependency.
func (m *APIModule) SetRateLimiter(rl *ratelimit.Module) {
	m.rateLimiter = rl
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Start builds the Fiber app and begins serving. The task module is started
// first by registration order, so its service is available here.
func (m *APIModule) Start(_ context.Context) error {
	if m.taskModule == nil {
		return fmt.Errorf("task module not set")
	}
	service := m.taskModule.GetService()
	if service == nil {
		return fmt.Errorf("task service not available")
	}

	m.handlers = NewHandlers(service)

	m.app = fiber.New(fiber.Config{
		AppName:               "Todo API",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(MetricsMiddleware(m.metrics))

	m.setupRoutes()

	go func() {
		log.Printf("[api] Starting HTTP server on %s", m.addr)
		if err := m.app.Listen(m.addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	return nil
}

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	// Operational endpoints, outside the rate limit.
	m.app.Get("/healthcheck", m.healthHandler)
	m.app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(m.metrics.Registry(), promhttp.HandlerOpts{}),
	))

	docs := m.app.Group("/docs.json")
	if m.rateLimiter != nil {
		docs.Use(m.rateLimiter.HandlerWithLimit(docsRateLimit, docsRateWindow))
	}
	docs.Get("", m.handlers.Docs)

	v1 := m.app.Group("/v1")
	if m.rateLimiter != nil {
		v1.Use(m.rateLimiter.Handler())
	}

	tasks := v1.Group("/tasks")
	tasks.Post("/", m.handlers.CreateTask)
	tasks.Get("/", m.handlers.ListTasks)
	tasks.Get("/:id", m.handlers.GetTask)
	tasks.Patch("/:id", m.handlers.UpdateTask)
	tasks.Delete("/:id", m.handlers.DeleteTask)
}

// healthHandler handles GET /healthcheck.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	details := map[string]any{}
	status := "ok"

	taskHealth := m.taskModule.Health(c.UserContext())
	details["task"] = taskHealth.Message
	if !taskHealth.Healthy {
		status = "degraded"
		c.Status(fiber.StatusServiceUnavailable)
	}

	return c.JSON(HealthResponse{
		Status:  status,
		Details: details,
	})
}

// Stop shuts down the HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// errorHandler handles errors escaping Fiber routes.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
