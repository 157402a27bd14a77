package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/example/taskhub/modules/auth"
	"github.com/example/taskhub/modules/ratelimit"
	"github.com/example/taskhub/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the driving adapter that exposes REST endpoints.
// It reaches the core domain through the TaskPort and AuthPort interfaces.
type APIModule struct {
	app       *fiber.App
	taskPort  task.TaskPort
	authPort  auth.AuthPort
	rateLimit *ratelimit.RateLimitModule
	port      string
}

var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule() *APIModule {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "3000"
	}
	return &APIModule{port: port}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"task", "auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "task":
		m.taskPort = task.NewTaskAdapter(container)
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	}
}

// SetRateLimitModule attaches the optional rate limiting module. When unset,
// no rate limiting is applied.
func (m *APIModule) SetRateLimitModule(rl *ratelimit.RateLimitModule) {
	m.rateLimit = rl
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.taskPort == nil {
		return fmt.Errorf("taskPort dependency not set")
	}
	if m.authPort == nil {
		return fmt.Errorf("authPort dependency not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New())
	m.app.Use(cors.New())

	m.setupRoutes()

	// Server availability is verified via the Health() method.
	go func() {
		if err := m.app.Listen(":" + m.port); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%s", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// errorHandler translates unhandled Fiber errors into the JSON error shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{Error: message})
}
