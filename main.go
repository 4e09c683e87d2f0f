package main

import (
	"context"
	"log"
	"os"

	"github.com/example/todo-api/config"
	"github.com/example/todo-api/metrics"
	"github.com/example/todo-api/middleware/ratelimit"
	apimod "github.com/example/todo-api/modules/api"
	taskmod "github.com/example/todo-api/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg := config.Load()

	log.Println("=== Todo API ===")
	log.Printf("Listen: %s", cfg.Addr())
	log.Printf("Redis: %s", cfg.RedisAddr)
	log.Printf("Rate limit: %d per %s (ban after %d violations for %s)",
		cfg.RateLimit.Max, cfg.RateLimit.Window,
		cfg.RateLimit.BanThreshold, cfg.RateLimit.BanTime)

	m := metrics.New(cfg.MetricsPrefix)

	taskModule := taskmod.NewModule(cfg.DatabaseURL, m)
	rateLimitModule := ratelimit.NewModule(m,
		ratelimit.WithRedisAddr(cfg.RedisAddr),
		ratelimit.WithRedisPassword(cfg.RedisPassword),
		ratelimit.WithLimit(cfg.RateLimit.Max),
		ratelimit.WithWindow(cfg.RateLimit.Window),
		ratelimit.WithBan(cfg.RateLimit.BanThreshold, cfg.RateLimit.BanTime),
	)
	apiModule := apimod.NewModule(cfg, m)
	apiModule.SetTaskModule(taskModule)
	apiModule.SetRateLimiter(rateLimitModule)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Registration order matters: the API module reads the task service
	// during its own Start.
	app.Register(taskModule)
	app.Register(rateLimitModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("API available at http://%s", cfg.Addr())
	log.Println("Endpoints:")
	log.Println("  POST   /v1/tasks     - Create a task")
	log.Println("  GET    /v1/tasks     - List tasks")
	log.Println("  GET    /v1/tasks/:id - Get a task")
	log.Println("  PATCH  /v1/tasks/:id - Update a task")
	log.Println("  DELETE /v1/tasks/:id - Delete a task")
	log.Println("  GET    /healthcheck  - Health check")
	log.Println("  GET    /metrics      - Prometheus metrics")
	log.Println("  GET    /docs.json    - OpenAPI document")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}
