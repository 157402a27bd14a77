package api

import (
	"strings"

	"github.com/example/taskhub/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// UserContextKey is the key used to store user claims in the Fiber context.
const UserContextKey = "user"

// AuthMiddleware creates a middleware that validates Bearer tokens and
// stores the resulting claims in the request context.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error: "Authorization header is required",
			})
		}

		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error: "Invalid authorization header format. Use: Bearer <token>",
			})
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error: "Token is required",
			})
		}

		claims, err := authPort.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error: "Invalid or expired token",
			})
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}
