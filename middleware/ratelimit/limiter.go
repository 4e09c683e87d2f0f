package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter implements sliding window rate limiting with ban tracking using
// Redis.
type Limiter struct {
	client    *redis.Client
	keyPrefix string
}

// NewLimiter creates a new rate limiter with Redis backend.
func NewLimiter(client *redis.Client, keyPrefix string) *Limiter {
	return &Limiter{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Limit     int
}

// Allow checks if a request is allowed under the rate limit.
// Uses sliding window algorithm with Redis sorted sets; the Lua script
// keeps remove-count-add atomic under concurrent requests.
var allowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)

	if current < limit then
		local counter = redis.call('INCR', key .. ':counter')
		redis.call('ZADD', key, now, now .. ':' .. counter)
		local expire_seconds = math.ceil(window_ms / 1000)
		redis.call('EXPIRE', key, expire_seconds)
		redis.call('EXPIRE', key .. ':counter', expire_seconds)
		return {1, limit - current - 1, 0}
	else
		local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
		local reset_at = 0
		if oldest and #oldest >= 2 then
			reset_at = tonumber(oldest[2]) + window_ms
		end
		return {0, 0, reset_at}
	end
`)

// Allow checks whether one more request fits in the client's window.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	now := time.Now()
	redisKey := l.keyPrefix + key

	result, err := allowScript.Run(ctx, l.client, []string{redisKey},
		now.UnixMilli(),
		now.Add(-window).UnixMilli(),
		limit,
		window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis script error: %w", err)
	}
	if len(result) != 3 {
		return nil, fmt.Errorf("unexpected Redis response length: %d", len(result))
	}

	var resetAt time.Time
	if result[2] > 0 {
		resetAt = time.UnixMilli(result[2])
	} else {
		resetAt = now.Add(window)
	}

	return &RateLimitResult{
		Allowed:   result[0] == 1,
		Remaining: int(result[1]),
		ResetAt:   resetAt,
		Limit:     limit,
	}, nil
}

// The increment and the expiry must land together; a counter without a TTL
// would accumulate violations across windows.
var violationScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return count
`)

// RegisterViolation records one rejected request for the client and returns
// the violation count in the current window.
func (l *Limiter) RegisterViolation(ctx context.Context, key string, window time.Duration) (int64, error) {
	violationKey := l.keyPrefix + "violations:" + key

	count, err := violationScript.Run(ctx, l.client, []string{violationKey},
		window.Milliseconds(),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis script error: %w", err)
	}
	return count, nil
}

// Ban marks the client as banned for the given duration.
func (l *Limiter) Ban(ctx context.Context, key string, banTime time.Duration) error {
	return l.client.Set(ctx, l.keyPrefix+"ban:"+key, "1", banTime).Err()
}

// BannedFor returns how long the client remains banned, or zero if not
// banned.
func (l *Limiter) BannedFor(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := l.client.PTTL(ctx, l.keyPrefix+"ban:"+key).Result()
	if err != nil {
		return 0, err
	}
	// PTTL returns a negative duration when the key does not exist or has
	// no expiry.
	if ttl <= 0 {
		return 0, nil
	}
	return ttl, nil
}

// Reset clears the rate limit state for a specific key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx,
		l.keyPrefix+key,
		l.keyPrefix+key+":counter",
		l.keyPrefix+"violations:"+key,
		l.keyPrefix+"ban:"+key,
	).Err()
}
