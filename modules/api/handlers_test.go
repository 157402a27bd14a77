package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	taskdomain "github.com/example/taskhub/domain/task"
	userdomain "github.com/example/taskhub/domain/user"
	"github.com/example/taskhub/modules/auth"
	"github.com/example/taskhub/modules/task"
	"github.com/gofiber/fiber/v2"
)

// mockTaskPort records calls and serves canned tasks. When failWith is set,
// every lookup-style call fails with that error.
type mockTaskPort struct {
	tasks      map[string]*taskdomain.Task
	failWith   error
	lastCreate *task.CreateTaskRequest
	lastUpdate *task.UpdateTaskRequest
	lastBulk   []string
	deletedID  string
}

func newMockTaskPort() *mockTaskPort {
	return &mockTaskPort{tasks: make(map[string]*taskdomain.Task)}
}

func (p *mockTaskPort) CreateTask(_ context.Context, req *task.CreateTaskRequest) (*taskdomain.Task, error) {
	p.lastCreate = req
	created := &taskdomain.Task{
		ID:        "task-1",
		Name:      req.Name,
		Priority:  taskdomain.Priority(req.Priority),
		Status:    taskdomain.Status(req.Status),
		UserID:    req.UserID,
		CreatedAt: time.Now(),
	}
	p.tasks[created.ID] = created
	return created, nil
}

func (p *mockTaskPort) GetTask(_ context.Context, taskID string) (*taskdomain.Task, error) {
	if p.failWith != nil {
		return nil, p.failWith
	}
	found, ok := p.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("get-task service call failed: %w", task.ErrNotFound)
	}
	return found, nil
}

func (p *mockTaskPort) ListTasks(_ context.Context, _ string) ([]taskdomain.Task, error) {
	result := make([]taskdomain.Task, 0, len(p.tasks))
	for _, t := range p.tasks {
		result = append(result, *t)
	}
	return result, nil
}

func (p *mockTaskPort) UpdateTask(_ context.Context, req *task.UpdateTaskRequest) (*taskdomain.Task, error) {
	p.lastUpdate = req
	if p.failWith != nil {
		return nil, p.failWith
	}
	found, ok := p.tasks[req.TaskID]
	if !ok {
		return nil, fmt.Errorf("update-task service call failed: %w", task.ErrNotFound)
	}
	found.Name = req.Name
	return found, nil
}

func (p *mockTaskPort) UpdateStatus(_ context.Context, taskID, status string) (*taskdomain.Task, error) {
	if p.failWith != nil {
		return nil, p.failWith
	}
	found, ok := p.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("update-status service call failed: %w", task.ErrNotFound)
	}
	found.Status = taskdomain.Status(status)
	return found, nil
}

func (p *mockTaskPort) DeleteTask(_ context.Context, taskID string) error {
	p.deletedID = taskID
	delete(p.tasks, taskID)
	return nil
}

func (p *mockTaskPort) BulkDeleteTasks(_ context.Context, taskIDs []string) (int, error) {
	p.lastBulk = taskIDs
	deleted := 0
	for _, id := range taskIDs {
		if _, ok := p.tasks[id]; ok {
			delete(p.tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

// mockAuthPort accepts the fixed token "valid-token".
type mockAuthPort struct{}

func (mockAuthPort) Register(_ context.Context, email, _ string) (*auth.RegisterResponse, error) {
	return &auth.RegisterResponse{ID: "user-1", Email: email}, nil
}

func (mockAuthPort) Login(_ context.Context, _, _ string) (*auth.TokenResponse, error) {
	return &auth.TokenResponse{AccessToken: "valid-token", TokenType: "Bearer"}, nil
}

func (mockAuthPort) Refresh(_ context.Context, _ string) (*auth.TokenResponse, error) {
	return &auth.TokenResponse{AccessToken: "valid-token", TokenType: "Bearer"}, nil
}

func (mockAuthPort) ValidateToken(_ context.Context, token string) (*userdomain.Claims, error) {
	if token != "valid-token" {
		return nil, errors.New("invalid token")
	}
	return &userdomain.Claims{UserID: "user-1", Email: "alice@example.com"}, nil
}

func (mockAuthPort) GetUser(_ context.Context, userID string) (*userdomain.User, error) {
	return &userdomain.User{ID: userID}, nil
}

func setupTestAPI(t *testing.T) (*APIModule, *mockTaskPort) {
	t.Helper()

	tasks := newMockTaskPort()
	m := &APIModule{
		taskPort: tasks,
		authPort: mockAuthPort{},
		port:     "3000",
	}
	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	m.setupRoutes()

	return m, tasks
}

// taskForm builds a multipart form with the given field overrides.
func taskForm(t *testing.T, overrides map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()

	fields := map[string]string{
		"name":        "Ship v2 landing page",
		"assignee":    "Alice",
		"tags":        "frontend, launch",
		"deadline":    "2026-10-01",
		"description": "Final pass over the hero section",
		"project":     "Website",
		"priority":    "high",
		"status":      "todo",
		"userId":      "user-1",
	}
	for k, v := range overrides {
		fields[k] = v
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	for k, v := range fields {
		if v == "-" {
			continue
		}
		if err := form.WriteField(k, v); err != nil {
			t.Fatalf("failed to write form field: %v", err)
		}
	}
	if withImage {
		fw, err := form.CreateFormFile("image", "banner.png")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		fw.Write([]byte("png-bytes"))
	}
	form.Close()

	return body, form.FormDataContentType()
}

func decodeError(t *testing.T, body io.Reader) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return resp.Error
}

func TestTaskRoutes_RequireAuth(t *testing.T) {
	m, _ := setupTestAPI(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"bad token", "Bearer wrong-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := m.app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Errorf("expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestCreateTask(t *testing.T) {
	t.Run("valid multipart form", func(t *testing.T) {
		m, tasks := setupTestAPI(t)
		body, contentType := taskForm(t, nil, true)

		req := httptest.NewRequest("POST", "/api/tasks", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer valid-token")

		resp, err := m.app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}

		if tasks.lastCreate == nil {
			t.Fatal("expected CreateTask to be called")
		}
		if tasks.lastCreate.Tags != "frontend, launch" {
			t.Errorf("expected raw tags to pass through, got %q", tasks.lastCreate.Tags)
		}
		if tasks.lastCreate.ImageName != "banner.png" {
			t.Errorf("expected image name %q, got %q", "banner.png", tasks.lastCreate.ImageName)
		}
		if string(tasks.lastCreate.ImageData) != "png-bytes" {
			t.Error("expected image bytes to pass through")
		}
	})

	t.Run("boundary validation", func(t *testing.T) {
		tests := []struct {
			name     string
			override map[string]string
			wantMsg  string
		}{
			{"missing name", map[string]string{"name": "-"}, "Name is required"},
			{"missing userId", map[string]string{"userId": "-"}, "User ID is required"},
			{"bad priority", map[string]string{"priority": "urgent"}, "Invalid priority"},
			{"bad status", map[string]string{"status": "done"}, "Invalid status"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				m, tasks := setupTestAPI(t)
				body, contentType := taskForm(t, tt.override, false)

				req := httptest.NewRequest("POST", "/api/tasks", body)
				req.Header.Set("Content-Type", contentType)
				req.Header.Set("Authorization", "Bearer valid-token")

				resp, err := m.app.Test(req, -1)
				if err != nil {
					t.Fatalf("app.Test() error = %v", err)
				}
				if resp.StatusCode != fiber.StatusBadRequest {
					t.Errorf("expected 400, got %d", resp.StatusCode)
				}
				if got := decodeError(t, resp.Body); got != tt.wantMsg {
					t.Errorf("expected error %q, got %q", tt.wantMsg, got)
				}
				if tasks.lastCreate != nil {
					t.Error("expected CreateTask not to be called")
				}
			})
		}
	})
}

func TestGetTask(t *testing.T) {
	m, tasks := setupTestAPI(t)
	tasks.tasks["task-1"] = &taskdomain.Task{ID: "task-1", Name: "Existing"}

	t.Run("existing task", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/tasks/task-1", nil)
		req.Header.Set("Authorization", "Bearer valid-token")

		resp, err := m.app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("unknown task", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/tasks/missing", nil)
		req.Header.Set("Authorization", "Bearer valid-token")

		resp, err := m.app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
		if got := decodeError(t, resp.Body); got != "Task not found" {
			t.Errorf("expected %q, got %q", "Task not found", got)
		}
	})
}

func TestTaskErrorStatusClassification(t *testing.T) {
	// Only an absent task maps to 404; any other failure is a 500 with the
	// operation's generic message.
	t.Run("get with backend failure", func(t *testing.T) {
		m, tasks := setupTestAPI(t)
		tasks.failWith = errors.New("get-task service call failed: database is locked")

		req := httptest.NewRequest("GET", "/api/tasks/task-1", nil)
		req.Header.Set("Authorization", "Bearer valid-token")

		resp, err := m.app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Errorf("expected 500, got %d", resp.StatusCode)
		}
		if got := decodeError(t, resp.Body); got != "Failed to fetch task" {
			t.Errorf("expected %q, got %q", "Failed to fetch task", got)
		}
	})

	t.Run("update of absent task", func(t *testing.T) {
		m, _ := setupTestAPI(t)
		body, contentType := taskForm(t, nil, false)

		req := httptest.NewRequest("PUT", "/api/tasks/missing", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer valid-token")

		resp, err := m.app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
		if got := decodeError(t, resp.Body); got != "Task not found" {
			t.Errorf("expected %q, got %q", "Task not found", got)
		}
	})

	t.Run("update with upload failure", func(t *testing.T) {
		m, tasks := setupTestAPI(t)
		tasks.tasks["task-1"] = &taskdomain.Task{ID: "task-1"}
		tasks.failWith = errors.New("update-task service call failed: failed to upload image: host unreachable")
		body, contentType := taskForm(t, nil, false)

		req := httptest.NewRequest("PUT", "/api/tasks/task-1", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer valid-token")

		resp, err := m.app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Errorf("expected 500, got %d", resp.StatusCode)
		}
		if got := decodeError(t, resp.Body); got != "Failed to update task" {
			t.Errorf("expected %q, got %q", "Failed to update task", got)
		}
	})

	t.Run("status update with backend failure", func(t *testing.T) {
		m, tasks := setupTestAPI(t)
		tasks.tasks["task-1"] = &taskdomain.Task{ID: "task-1"}
		tasks.failWith = errors.New("update-status service call failed: database is locked")

		req := httptest.NewRequest("PATCH", "/api/tasks/task-1/status",
			strings.NewReader(`{"status":"completed"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer valid-token")

		resp, err := m.app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Errorf("expected 500, got %d", resp.StatusCode)
		}
	})
}

func TestListTasks_ReturnsBareArray(t *testing.T) {
	m, tasks := setupTestAPI(t)
	tasks.tasks["task-1"] = &taskdomain.Task{ID: "task-1", Name: "Only one"}

	req := httptest.NewRequest("GET", "/api/tasks?userId=user-1", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	resp, err := m.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
		t.Errorf("expected bare JSON array, got %s", raw)
	}
}

func TestUpdateStatus(t *testing.T) {
	m, tasks := setupTestAPI(t)
	tasks.tasks["task-1"] = &taskdomain.Task{ID: "task-1", Status: taskdomain.StatusTodo}

	t.Run("valid status", func(t *testing.T) {
		req := httptest.NewRequest("PATCH", "/api/tasks/task-1/status",
			strings.NewReader(`{"status":"completed"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer valid-token")

		resp, err := m.app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		if tasks.tasks["task-1"].Status != taskdomain.StatusCompleted {
			t.Errorf("expected status completed, got %q", tasks.tasks["task-1"].Status)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		req := httptest.NewRequest("PATCH", "/api/tasks/task-1/status",
			strings.NewReader(`{"status":"archived"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer valid-token")

		resp, err := m.app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestDeleteTask(t *testing.T) {
	m, tasks := setupTestAPI(t)
	tasks.tasks["task-1"] = &taskdomain.Task{ID: "task-1"}

	req := httptest.NewRequest("DELETE", "/api/tasks/task-1", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	resp, err := m.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var msg MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if msg.Message != "Task deleted successfully" {
		t.Errorf("expected confirmation message, got %q", msg.Message)
	}
}

func TestBulkDelete_NotCapturedByIDRoute(t *testing.T) {
	m, tasks := setupTestAPI(t)
	tasks.tasks["task-1"] = &taskdomain.Task{ID: "task-1"}
	tasks.tasks["task-2"] = &taskdomain.Task{ID: "task-2"}

	req := httptest.NewRequest("DELETE", "/api/tasks/bulk-delete",
		strings.NewReader(`{"taskIds":["task-1","task-2"]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")

	resp, err := m.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if len(tasks.lastBulk) != 2 {
		t.Fatalf("expected bulk handler to receive 2 IDs, got %v", tasks.lastBulk)
	}
	if tasks.deletedID != "" {
		t.Error("expected single-delete handler not to be hit")
	}

	var result BulkDeleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if result.Deleted != 2 {
		t.Errorf("expected 2 deletions, got %d", result.Deleted)
	}
}
