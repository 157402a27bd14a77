// Package ratelimit provides a Redis-backed sliding window rate limiter.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/example/taskhub/domain/ratelimit"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript performs the whole check atomically: drop entries
// outside the window, count what remains, and either record the request or
// compute how long the caller must wait.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local counter_key = KEYS[2]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_size_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)

	if count < limit then
		local counter = redis.call('INCR', counter_key)
		redis.call('ZADD', key, now, now .. ':' .. counter)
		redis.call('PEXPIRE', key, window_size_ms)
		redis.call('PEXPIRE', counter_key, window_size_ms)
		return {1, limit - count - 1, 0}
	else
		local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
		local retry_after = 0
		if #oldest >= 2 then
			retry_after = oldest[2] + window_size_ms - now
		end
		return {0, 0, retry_after}
	end
`)

// SlidingWindowLimiter tracks request timestamps per key in a Redis sorted
// set and enforces a limit over a sliding window.
type SlidingWindowLimiter struct {
	client *redis.Client
	config ratelimit.Config
	prefix string
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(client *redis.Client, config ratelimit.Config, prefix string) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		client: client,
		config: config,
		prefix: prefix,
	}
}

// Allow checks whether a request identified by key fits in the current window.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (*ratelimit.Result, error) {
	now := time.Now()
	windowSizeMs := l.config.WindowSize.Milliseconds()
	redisKey := l.prefix + key

	raw, err := slidingWindowScript.Run(ctx, l.client,
		[]string{redisKey, redisKey + ":counter"},
		now.UnixMilli(),
		now.Add(-l.config.WindowSize).UnixMilli(),
		l.config.RequestsPerWindow,
		windowSizeMs,
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(raw) < 3 {
		return nil, fmt.Errorf("unexpected script result length: %d", len(raw))
	}

	allowed, ok := raw[0].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for allowed: %T", raw[0])
	}
	remaining, ok := raw[1].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for remaining: %T", raw[1])
	}
	retryAfterMs, ok := raw[2].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for retry_after: %T", raw[2])
	}

	result := &ratelimit.Result{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		ResetAt:   now.Add(l.config.WindowSize),
	}
	if !result.Allowed && retryAfterMs > 0 {
		result.RetryAfter = time.Duration(retryAfterMs) * time.Millisecond
	}
	return result, nil
}
