package ratelimit

import (
	"context"
	"fmt"
	"log"

	"github.com/example/taskhub/domain/ratelimit"
	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// RateLimitModule provides Redis-backed rate limiting middleware.
// It is only registered when a Redis address is configured.
type RateLimitModule struct {
	client     *redis.Client
	middleware *Middleware
	config     ratelimit.Config
	redisAddr  string
}

var _ mono.Module = (*RateLimitModule)(nil)
var _ mono.HealthCheckableModule = (*RateLimitModule)(nil)

// NewModule creates a new rate limiting module for the given Redis address.
func NewModule(redisAddr string) *RateLimitModule {
	return &RateLimitModule{
		redisAddr: redisAddr,
		config:    ratelimit.DefaultConfig(),
	}
}

// Name returns the module name.
func (m *RateLimitModule) Name() string {
	return "ratelimit"
}

// Start connects to Redis and builds the middleware.
func (m *RateLimitModule) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr: m.redisAddr,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	m.middleware = NewMiddleware(m.client, m.config)
	log.Printf("[ratelimit] Module started (redis: %s, %d req/%s per IP)",
		m.redisAddr, m.config.RequestsPerWindow, m.config.WindowSize)
	return nil
}

// Stop closes the Redis connection.
func (m *RateLimitModule) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			log.Printf("[ratelimit] Error closing Redis connection: %v", err)
		}
	}
	log.Println("[ratelimit] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *RateLimitModule) Health(ctx context.Context) mono.HealthStatus {
	if m.client == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "Redis client not initialized",
		}
	}
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("Redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis": m.redisAddr,
		},
	}
}

// GetMiddleware returns the rate limiting middleware. It is nil until Start.
func (m *RateLimitModule) GetMiddleware() *Middleware {
	return m.middleware
}
