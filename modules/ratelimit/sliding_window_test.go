package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/example/taskhub/domain/ratelimit"
	"github.com/redis/go-redis/v9"
)

func TestSlidingWindowLimiter_Allow(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}

	prefix := "test:taskhub:ratelimit:"
	key := "client-1"
	defer client.Del(ctx, prefix+key, prefix+key+":counter")

	limiter := NewSlidingWindowLimiter(client, ratelimit.Config{
		RequestsPerWindow: 3,
		WindowSize:        time.Minute,
	}, prefix)

	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(ctx, key)
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !result.Allowed {
			t.Errorf("request %d should be allowed", i+1)
		}
		if result.Remaining != 3-i-1 {
			t.Errorf("expected %d remaining, got %d", 3-i-1, result.Remaining)
		}
	}

	result, err := limiter.Allow(ctx, key)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if result.Allowed {
		t.Error("request over the limit should be denied")
	}
	if result.RetryAfter <= 0 {
		t.Errorf("expected positive RetryAfter, got %v", result.RetryAfter)
	}
}
