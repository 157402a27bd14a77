package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/taskhub/modules/api"
	"github.com/example/taskhub/modules/auth"
	"github.com/example/taskhub/modules/imagehost"
	"github.com/example/taskhub/modules/notification"
	"github.com/example/taskhub/modules/ratelimit"
	"github.com/example/taskhub/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== TaskHub - Team Task Management ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	apiModule := api.NewModule()

	// Rate limiting is only active when a Redis address is configured.
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rateLimitModule := ratelimit.NewModule(redisAddr)
		apiModule.SetRateLimitModule(rateLimitModule)
		app.Register(rateLimitModule)
	}

	// Order: independent modules first, then modules with dependencies.
	app.Register(auth.NewModule())         // Independent (own user store + JWT)
	app.Register(imagehost.NewModule())    // Independent (external image hosting)
	app.Register(notification.NewModule()) // Event consumer (subscribes to task events)
	app.Register(task.NewModule())         // Core domain (depends on imagehost, emits events)
	app.Register(apiModule)                // Driving adapter (depends on task and auth)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "3000"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("  POST   /api/auth/register            - Create an account")
	log.Println("  POST   /api/auth/login               - Log in")
	log.Println("  POST   /api/auth/refresh             - Refresh tokens")
	log.Println("  POST   /api/tasks                    - Create a task (multipart form)")
	log.Println("  GET    /api/tasks                    - List tasks (optional ?userId=)")
	log.Println("  GET    /api/tasks/:id                - Get a task by ID")
	log.Println("  PUT    /api/tasks/:id                - Update a task (multipart form)")
	log.Println("  PATCH  /api/tasks/:id/status         - Change a task's status")
	log.Println("  DELETE /api/tasks/:id                - Delete a task")
	log.Println("  DELETE /api/tasks/bulk-delete        - Delete several tasks")
	log.Println("  GET    /health                       - Health check")
	log.Println("")
	log.Println("Terminal dashboard: go run ./cmd/dashboard --server http://localhost:" + port)
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
