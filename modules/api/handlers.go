package api

import (
	"fmt"
	"io"
	"strings"

	taskdomain "github.com/example/taskhub/domain/task"
	"github.com/example/taskhub/modules/task"
	"github.com/gofiber/fiber/v2"
)

// isNotFound reports whether a service-call failure stems from an absent
// task. Typed errors do not cross the service container boundary, so the
// sentinel text carried in the reply is matched instead.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), task.ErrNotFound.Error())
}

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	m.app.Get("/health", m.healthHandler)

	api := m.app.Group("/api")
	if m.rateLimit != nil {
		api.Use(m.rateLimit.GetMiddleware().Handler())
	}

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", m.register)
	authRoutes.Post("/login", m.login)
	authRoutes.Post("/refresh", m.refresh)

	tasks := api.Group("/tasks", AuthMiddleware(m.authPort))
	tasks.Post("/", m.createTask)
	tasks.Get("/", m.listTasks)
	// bulk-delete must be registered before :id routes so the literal path
	// is not captured as a task ID
	tasks.Delete("/bulk-delete", m.bulkDeleteTasks)
	tasks.Get("/:id", m.getTask)
	tasks.Put("/:id", m.updateTask)
	tasks.Patch("/:id/status", m.updateStatus)
	tasks.Delete("/:id", m.deleteTask)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.port,
		},
	})
}

// register handles POST /api/auth/register.
func (m *APIModule) register(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	resp, err := m.authPort.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Registration failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// login handles POST /api/auth/login.
func (m *APIModule) login(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	tokens, err := m.authPort.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Invalid email or password"})
	}

	return c.JSON(tokens)
}

// refresh handles POST /api/auth/refresh.
func (m *APIModule) refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	tokens, err := m.authPort.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Invalid refresh token"})
	}

	return c.JSON(tokens)
}

// readFormImage extracts the optional image attachment from a multipart form.
// A missing file field is not an error.
func readFormImage(c *fiber.Ctx) (string, []byte, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil || fileHeader == nil {
		return "", nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read uploaded image: %w", err)
	}

	return fileHeader.Filename, data, nil
}

// validateTaskForm checks the multipart fields shared by create and update.
// It returns a user-facing message for the first violation.
func validateTaskForm(c *fiber.Ctx, requireUser bool) (string, bool) {
	if c.FormValue("name") == "" {
		return "Name is required", false
	}
	if requireUser && c.FormValue("userId") == "" {
		return "User ID is required", false
	}
	if !taskdomain.ValidPriority(c.FormValue("priority")) {
		return "Invalid priority", false
	}
	if !taskdomain.ValidStatus(c.FormValue("status")) {
		return "Invalid status", false
	}
	return "", true
}

// createTask handles POST /api/tasks (multipart form).
func (m *APIModule) createTask(c *fiber.Ctx) error {
	if msg, ok := validateTaskForm(c, true); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
	}

	imageName, imageData, err := readFormImage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid image upload"})
	}

	created, err := m.taskPort.CreateTask(c.UserContext(), &task.CreateTaskRequest{
		Name:        c.FormValue("name"),
		Assignee:    c.FormValue("assignee"),
		Tags:        c.FormValue("tags"),
		Deadline:    c.FormValue("deadline"),
		Description: c.FormValue("description"),
		Project:     c.FormValue("project"),
		Priority:    c.FormValue("priority"),
		Status:      c.FormValue("status"),
		UserID:      c.FormValue("userId"),
		ImageName:   imageName,
		ImageData:   imageData,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to create task"})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// listTasks handles GET /api/tasks. The response body is a bare array,
// newest first.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	tasks, err := m.taskPort.ListTasks(c.UserContext(), c.Query("userId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to fetch tasks"})
	}
	return c.JSON(tasks)
}

// getTask handles GET /api/tasks/:id.
func (m *APIModule) getTask(c *fiber.Ctx) error {
	found, err := m.taskPort.GetTask(c.UserContext(), c.Params("id"))
	if err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to fetch task"})
	}
	return c.JSON(found)
}

// updateTask handles PUT /api/tasks/:id (multipart form).
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	if msg, ok := validateTaskForm(c, false); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
	}

	imageName, imageData, err := readFormImage(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid image upload"})
	}

	updated, err := m.taskPort.UpdateTask(c.UserContext(), &task.UpdateTaskRequest{
		TaskID:          c.Params("id"),
		Name:            c.FormValue("name"),
		Assignee:        c.FormValue("assignee"),
		Tags:            c.FormValue("tags"),
		Deadline:        c.FormValue("deadline"),
		Description:     c.FormValue("description"),
		Project:         c.FormValue("project"),
		Priority:        c.FormValue("priority"),
		Status:          c.FormValue("status"),
		CurrentImageURL: c.FormValue("currentImageUrl"),
		ImageName:       imageName,
		ImageData:       imageData,
	})
	if err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to update task"})
	}

	return c.JSON(updated)
}

// updateStatus handles PATCH /api/tasks/:id/status.
func (m *APIModule) updateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	if !taskdomain.ValidStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid status"})
	}

	updated, err := m.taskPort.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to update task"})
	}

	return c.JSON(updated)
}

// deleteTask handles DELETE /api/tasks/:id. Deletion is unconditional, so
// deleting an absent task still reports success.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	if err := m.taskPort.DeleteTask(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to delete task"})
	}
	return c.JSON(MessageResponse{Message: "Task deleted successfully"})
}

// bulkDeleteTasks handles DELETE /api/tasks/bulk-delete.
func (m *APIModule) bulkDeleteTasks(c *fiber.Ctx) error {
	var req BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	if len(req.TaskIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "taskIds is required"})
	}

	deleted, err := m.taskPort.BulkDeleteTasks(c.UserContext(), req.TaskIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to delete tasks"})
	}

	return c.JSON(BulkDeleteResponse{Deleted: deleted})
}
