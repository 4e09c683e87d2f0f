// Package ratelimit provides Redis-backed sliding window rate limiting with
// ban tracking, exposed as a Fiber middleware.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/example/todo-api/metrics"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Module owns the Redis connection and produces Fiber handlers enforcing
// per-client rate limits. Clients are identified by the configured API key
// header, falling back to the client address.
type Module struct {
	config  Config
	client  *redis.Client
	limiter *Limiter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Compile-time interface check.
var _ mono.Module = (*Module)(nil)

// NewModule creates a rate limiting module recording into the given metrics.
func NewModule(m *metrics.Metrics, opts ...Option) *Module {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Module{
		config:  config,
		metrics: m,
		logger:  slog.Default(),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "rate-limit"
}

// Start initializes the Redis connection.
func (m *Module) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr:         m.config.RedisAddr,
		Password:     m.config.RedisPassword,
		DB:           m.config.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.config.RedisAddr, err)
	}

	m.limiter = NewLimiter(m.client, m.config.KeyPrefix)
	m.logger.Info("Rate limiting started",
		"redis", m.config.RedisAddr,
		"limit", m.config.Limit,
		"window", m.config.Window,
		"ban_threshold", m.config.BanThreshold)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// Handler returns a Fiber middleware enforcing the configured limit.
func (m *Module) Handler() fiber.Handler {
	return m.handler(m.config.Limit, m.config.Window)
}

// HandlerWithLimit returns a Fiber middleware with its own limit and
// window, sharing the module's Redis connection and ban state.
func (m *Module) HandlerWithLimit(limit int, window time.Duration) fiber.Handler {
	return m.handler(limit, window)
}

func (m *Module) handler(limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Not started yet (or disabled in tests): let traffic through.
		if m.limiter == nil {
			return c.Next()
		}

		clientID := m.clientID(c)
		route := c.Path()
		ctx := c.UserContext()

		bannedFor, err := m.limiter.BannedFor(ctx, clientID)
		if err != nil {
			// Redis trouble must not take the API down: fail open.
			m.logger.Warn("Ban check failed", "client_id", clientID, "error", err)
			return c.Next()
		}
		if bannedFor > 0 {
			m.metrics.RateLimitBlocks.WithLabelValues(route, clientID).Inc()
			return m.reject(c, limit, time.Now().Add(bannedFor))
		}

		result, err := m.limiter.Allow(ctx, clientID, limit, window)
		if err != nil {
			m.logger.Warn("Rate limit check failed", "client_id", clientID, "error", err)
			return c.Next()
		}

		if !result.Allowed {
			m.metrics.RateLimitBlocks.WithLabelValues(route, clientID).Inc()

			violations, err := m.limiter.RegisterViolation(ctx, clientID, window)
			if err != nil {
				m.logger.Warn("Violation tracking failed", "client_id", clientID, "error", err)
			} else if m.config.BanThreshold > 0 && violations >= int64(m.config.BanThreshold) {
				if err := m.limiter.Ban(ctx, clientID, m.config.BanTime); err != nil {
					m.logger.Warn("Ban failed", "client_id", clientID, "error", err)
				} else {
					m.metrics.RateLimitBans.WithLabelValues(clientID).Inc()
					m.logger.Warn("Client banned",
						"client_id", clientID,
						"violations", violations,
						"ban_time", m.config.BanTime)
				}
			}

			return m.reject(c, result.Limit, result.ResetAt)
		}

		m.metrics.RateLimitHits.WithLabelValues(route, clientID).Inc()
		setRateLimitHeaders(c, result.Limit, result.Remaining, result.ResetAt)
		return c.Next()
	}
}

// clientID identifies the caller by API key header, falling back to the
// client address.
func (m *Module) clientID(c *fiber.Ctx) string {
	if key := c.Get(m.config.APIKeyHeader); key != "" {
		return key
	}
	return c.IP()
}

func (m *Module) reject(c *fiber.Ctx, limit int, resetAt time.Time) error {
	retryAfter := int(time.Until(resetAt).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	setRateLimitHeaders(c, limit, 0, resetAt)
	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))

	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":   "rate_limit_exceeded",
		"message": "Rate limit exceeded, retry later",
	})
}

func setRateLimitHeaders(c *fiber.Ctx, limit, remaining int, resetAt time.Time) {
	c.Set("x-ratelimit-limit", strconv.Itoa(limit))
	c.Set("x-ratelimit-remaining", strconv.Itoa(remaining))
	c.Set("x-ratelimit-reset", strconv.FormatInt(resetAt.Unix(), 10))
}
