package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/todo-api/metrics"
	"github.com/gofiber/fiber/v2"
)

func TestHandlerBeforeStart(t *testing.T) {
	// A module that never started has no limiter and must not block traffic.
	m := NewModule(metrics.New("test_"))

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(m.Handler())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 passthrough, got %d", resp.StatusCode)
	}
}

func TestClientID(t *testing.T) {
	m := NewModule(metrics.New("test_"))

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	var got string
	app.Get("/", func(c *fiber.Ctx) error {
		got = m.clientID(c)
		return c.SendString("ok")
	})

	t.Run("api key header wins", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-API-Key", "client-42")
		if _, err := app.Test(req); err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if got != "client-42" {
			t.Errorf("expected client-42, got %q", got)
		}
	})

	t.Run("falls back to client address", func(t *testing.T) {
		if _, err := app.Test(httptest.NewRequest("GET", "/", nil)); err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if got == "" {
			t.Error("expected a non-empty client address fallback")
		}
	})
}

func TestReject(t *testing.T) {
	m := NewModule(metrics.New("test_"))

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/", func(c *fiber.Ctx) error {
		return m.reject(c, 10, time.Now().Add(42*time.Second))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("expected a Retry-After header")
	}
	if resp.Header.Get("x-ratelimit-limit") != "10" {
		t.Errorf("expected x-ratelimit-limit 10, got %q", resp.Header.Get("x-ratelimit-limit"))
	}
	if resp.Header.Get("x-ratelimit-remaining") != "0" {
		t.Errorf("expected x-ratelimit-remaining 0, got %q", resp.Header.Get("x-ratelimit-remaining"))
	}
}

func TestModuleName(t *testing.T) {
	m := NewModule(metrics.New("test_"))
	if m.Name() != "rate-limit" {
		t.Errorf("expected module name rate-limit, got %q", m.Name())
	}
}
