package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testLimiter connects to a local Redis, skipping the test when none is
// reachable. Each call gets its own key prefix so tests cannot collide.
func testLimiter(t *testing.T) *Limiter {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        DefaultConfig().RedisAddr,
		DialTimeout: time.Second,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	prefix := fmt.Sprintf("test:ratelimit:%d:", time.Now().UnixNano())
	return NewLimiter(client, prefix)
}

func TestAllow(t *testing.T) {
	l := testLimiter(t)
	ctx := context.Background()

	t.Run("counts down to a block", func(t *testing.T) {
		key := "allow-client"
		defer l.Reset(ctx, key)

		for i := 0; i < 3; i++ {
			result, err := l.Allow(ctx, key, 3, time.Minute)
			if err != nil {
				t.Fatalf("Allow() error = %v", err)
			}
			if !result.Allowed {
				t.Fatalf("request %d should be allowed", i+1)
			}
			if result.Remaining != 3-i-1 {
				t.Errorf("request %d: expected remaining %d, got %d", i+1, 3-i-1, result.Remaining)
			}
		}

		result, err := l.Allow(ctx, key, 3, time.Minute)
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if result.Allowed {
			t.Error("request over the limit should be blocked")
		}
		if result.ResetAt.Before(time.Now()) {
			t.Errorf("expected a future reset time, got %v", result.ResetAt)
		}
	})
}

func TestRegisterViolation(t *testing.T) {
	l := testLimiter(t)
	ctx := context.Background()

	t.Run("counts violations", func(t *testing.T) {
		key := "violation-client"
		defer l.Reset(ctx, key)

		for want := int64(1); want <= 3; want++ {
			count, err := l.RegisterViolation(ctx, key, time.Minute)
			if err != nil {
				t.Fatalf("RegisterViolation() error = %v", err)
			}
			if count != want {
				t.Errorf("expected count %d, got %d", want, count)
			}
		}
	})

	t.Run("counter always carries an expiry", func(t *testing.T) {
		key := "expiry-client"
		defer l.Reset(ctx, key)

		for i := 0; i < 2; i++ {
			if _, err := l.RegisterViolation(ctx, key, time.Minute); err != nil {
				t.Fatalf("RegisterViolation() error = %v", err)
			}

			ttl, err := l.client.PTTL(ctx, l.keyPrefix+"violations:"+key).Result()
			if err != nil {
				t.Fatalf("PTTL error = %v", err)
			}
			if ttl <= 0 {
				t.Fatalf("violation counter has no expiry after call %d (PTTL %v)", i+1, ttl)
			}
			if ttl > time.Minute {
				t.Errorf("expected TTL within the window, got %v", ttl)
			}
		}
	})
}

func TestBan(t *testing.T) {
	l := testLimiter(t)
	ctx := context.Background()

	key := "ban-client"
	defer l.Reset(ctx, key)

	remaining, err := l.BannedFor(ctx, key)
	if err != nil {
		t.Fatalf("BannedFor() error = %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected no ban, got %v", remaining)
	}

	if err := l.Ban(ctx, key, time.Minute); err != nil {
		t.Fatalf("Ban() error = %v", err)
	}

	remaining, err = l.BannedFor(ctx, key)
	if err != nil {
		t.Fatalf("BannedFor() error = %v", err)
	}
	if remaining <= 0 || remaining > time.Minute {
		t.Errorf("expected remaining ban within a minute, got %v", remaining)
	}

	if err := l.Reset(ctx, key); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	remaining, err = l.BannedFor(ctx, key)
	if err != nil {
		t.Fatalf("BannedFor() error = %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected ban cleared after reset, got %v", remaining)
	}
}
