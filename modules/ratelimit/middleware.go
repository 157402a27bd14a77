package ratelimit

import (
	"fmt"
	"strconv"

	"github.com/example/taskhub/domain/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Middleware provides per-client-IP rate limiting for Fiber.
type Middleware struct {
	limiter *SlidingWindowLimiter
	limit   int
}

// NewMiddleware creates rate limiting middleware backed by the given Redis client.
func NewMiddleware(client *redis.Client, config ratelimit.Config) *Middleware {
	return &Middleware{
		limiter: NewSlidingWindowLimiter(client, config, "ratelimit:ip:"),
		limit:   config.RequestsPerWindow,
	}
}

// Handler returns a Fiber handler that limits requests by client IP.
// Limiter errors fail open so a Redis outage does not take the API down.
func (m *Middleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Unable to determine client IP address",
			})
		}

		result, err := m.limiter.Allow(c.Context(), ip)
		if err != nil {
			c.Set("X-RateLimit-Error", err.Error())
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(m.limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set("Retry-After", strconv.Itoa(retryAfter))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds.", retryAfter),
			})
		}

		return c.Next()
	}
}
