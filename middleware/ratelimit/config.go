package ratelimit

import (
	"time"
)

// Config holds rate limiter configuration.
type Config struct {
	// RedisAddr is the Redis server address (e.g., "localhost:6379")
	RedisAddr string

	// RedisPassword is the Redis authentication password (optional)
	RedisPassword string

	// RedisDB is the Redis database number (default: 0)
	RedisDB int

	// Limit is the maximum number of requests allowed in the window
	Limit int

	// Window is the time window for rate limiting
	Window time.Duration

	// BanThreshold is the number of rejected requests within the window
	// after which a client is banned (0 disables banning)
	BanThreshold int

	// BanTime is how long a banned client stays banned
	BanTime time.Duration

	// KeyPrefix is the prefix for Redis keys (default: "ratelimit:")
	KeyPrefix string

	// APIKeyHeader is the header used to identify clients; requests
	// without it are keyed by client IP (default: "X-API-Key")
	APIKeyHeader string
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RedisAddr:     "localhost:6379",
		RedisPassword: "",
		RedisDB:       0,
		Limit:         10,
		Window:        30 * time.Second,
		BanThreshold:  3,
		BanTime:       5 * time.Minute,
		KeyPrefix:     "ratelimit:",
		APIKeyHeader:  "X-API-Key",
	}
}

// Option is a function that modifies Config.
type Option func(*Config)

// WithRedisAddr sets the Redis server address.
func WithRedisAddr(addr string) Option {
	return func(c *Config) {
		c.RedisAddr = addr
	}
}

// WithRedisPassword sets the Redis authentication password.
func WithRedisPassword(password string) Option {
	return func(c *Config) {
		c.RedisPassword = password
	}
}

// WithRedisDB sets the Redis database number.
func WithRedisDB(db int) Option {
	return func(c *Config) {
		c.RedisDB = db
	}
}

// WithLimit sets the request limit per window.
func WithLimit(limit int) Option {
	return func(c *Config) {
		c.Limit = limit
	}
}

// WithWindow sets the rate limit window.
func WithWindow(window time.Duration) Option {
	return func(c *Config) {
		c.Window = window
	}
}

// WithBan sets the violation threshold and ban duration.
func WithBan(threshold int, banTime time.Duration) Option {
	return func(c *Config) {
		c.BanThreshold = threshold
		c.BanTime = banTime
	}
}

// WithKeyPrefix sets the Redis key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}

// WithAPIKeyHeader sets the header used to identify clients.
func WithAPIKeyHeader(header string) Option {
	return func(c *Config) {
		c.APIKeyHeader = header
	}
}
