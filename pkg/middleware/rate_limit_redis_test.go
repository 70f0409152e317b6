package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"
)

func newTestRedisLimiter(t *testing.T) (RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRateLimiter(client, zaptest.NewLogger(t)), mr
}

func TestRedisRateLimiter(t *testing.T) {
	rl, mr := newTestRedisLimiter(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if d := rl.Allow(ctx, "k", 3, time.Minute); !d.Allowed || d.Count != i {
			t.Fatalf("request %d: %+v", i, d)
		}
	}
	d := rl.Allow(ctx, "k", 3, time.Minute)
	if d.Allowed || d.Count != 4 {
		t.Fatalf("request 4 should be blocked: %+v", d)
	}
	if ttl := mr.TTL("dcms:ratelimit:k"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("window ttl = %v", ttl)
	}

	if d := rl.Allow(ctx, "other", 3, time.Minute); !d.Allowed || d.Count != 1 {
		t.Fatalf("keys must be counted separately: %+v", d)
	}

	mr.FastForward(time.Minute + time.Second)
	if d := rl.Allow(ctx, "k", 3, time.Minute); !d.Allowed || d.Count != 1 {
		t.Fatalf("new window should reset the counter: %+v", d)
	}
}

func TestRedisRateLimiterFailsOpen(t *testing.T) {
	rl, mr := newTestRedisLimiter(t)
	mr.Close()

	if d := rl.Allow(context.Background(), "k", 1, time.Minute); !d.Allowed {
		t.Fatalf("limiter must allow when redis is unavailable: %+v", d)
	}
}
