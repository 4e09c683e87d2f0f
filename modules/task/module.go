package task

import (
	"context"
	"fmt"
	"log"

	"github.com/example/todo-api/metrics"
	"github.com/go-monolith/mono"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup. The enum and table are created only if
// absent, so restarts are safe.
const schema = `
DO $$ BEGIN
	CREATE TYPE status AS ENUM ('pending', 'active', 'completed');
EXCEPTION WHEN duplicate_object THEN NULL;
END $$;

CREATE TABLE IF NOT EXISTS tasks (
	id text PRIMARY KEY,
	title text NOT NULL,
	description text NOT NULL,
	status status NOT NULL DEFAULT 'pending',
	completed boolean NOT NULL DEFAULT false,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);
`

// TaskModule owns the database connection pool and exposes the TaskService
// to the rest of the application.
type TaskModule struct {
	pool    *pgxpool.Pool
	service TaskService
	metrics *metrics.Metrics
	dbURL   string
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*TaskModule)(nil)
	_ mono.HealthCheckableModule = (*TaskModule)(nil)
)

// NewModule creates a TaskModule connecting to the given database URL.
func NewModule(dbURL string, m *metrics.Metrics) *TaskModule {
	return &TaskModule{
		dbURL:   dbURL,
		metrics: m,
	}
}

// NewModuleWithService creates a TaskModule with an injected service.
// This constructor enables dependency injection for testing.
func NewModuleWithService(service TaskService) *TaskModule {
	return &TaskModule{
		service: service,
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// GetService returns the task service. Nil until Start has run.
func (m *TaskModule) GetService() TaskService {
	return m.service
}

// Start initializes the connection pool, applies the schema, and creates
// the repository and service layers.
func (m *TaskModule) Start(ctx context.Context) error {
	// Skip database initialization if a service is already injected.
	if m.service != nil {
		log.Println("[task] Module started with injected service")
		return nil
	}

	log.Println("[task] Connecting to PostgreSQL...")

	cfg, err := pgxpool.ParseConfig(m.dbURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	m.pool = pool
	m.service = NewTaskService(NewPostgresRepository(pool), m.metrics)

	log.Println("[task] Module started successfully")
	return nil
}

// Stop gracefully closes the database connection pool.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.pool == nil {
		return nil
	}
	log.Println("[task] Closing database connection pool...")
	m.pool.Close()
	return nil
}

// Health performs a health check against the database.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.pool == nil {
		if m.service != nil {
			return mono.HealthStatus{Healthy: true, Message: "operational (injected service)"}
		}
		return mono.HealthStatus{
			Healthy: false,
			Message: "database pool not initialized",
		}
	}

	if err := m.pool.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "pgx/v5",
		},
	}
}
