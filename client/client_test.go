package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	taskdomain "github.com/example/taskhub/domain/task"
)

func TestCreateTask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/tasks" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer token, got %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart form: %v", err)
		}
		if got := r.FormValue("tags"); got != "a, b" {
			t.Errorf("expected raw tags %q, got %q", "a, b", got)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("expected image file: %v", err)
		}
		file.Close()
		if header.Filename != "shot.png" {
			t.Errorf("expected filename shot.png, got %q", header.Filename)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(taskdomain.Task{ID: "task-1", Name: r.FormValue("name")})
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetToken("test-token")

	created, err := c.CreateTask(context.Background(), &TaskInput{
		Name:      "Fix login flow",
		Tags:      "a, b",
		Priority:  "high",
		Status:    "todo",
		UserID:    "user-1",
		ImageName: "shot.png",
		ImageData: []byte("png-bytes"),
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if created.ID != "task-1" {
		t.Errorf("expected ID task-1, got %q", created.ID)
	}
}

func TestGetTasks_ScopesByUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("userId"); got != "user-1" {
			t.Errorf("expected userId query, got %q", got)
		}
		json.NewEncoder(w).Encode([]taskdomain.Task{{ID: "task-1"}, {ID: "task-2"}})
	}))
	defer server.Close()

	tasks, err := New(server.URL).GetTasks(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetTasks() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("expected 2 tasks, got %d", len(tasks))
	}
}

func TestGetTasksWithFilters_FiltersLocally(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]taskdomain.Task{
			{ID: "task-1", Status: taskdomain.StatusTodo, Priority: taskdomain.PriorityHigh},
			{ID: "task-2", Status: taskdomain.StatusCompleted, Priority: taskdomain.PriorityHigh},
			{ID: "task-3", Status: taskdomain.StatusTodo, Priority: taskdomain.PriorityLow},
		})
	}))
	defer server.Close()

	tasks, err := New(server.URL).GetTasksWithFilters(context.Background(), "user-1", Filters{
		Status:   "todo",
		Priority: "high",
	})
	if err != nil {
		t.Fatalf("GetTasksWithFilters() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "task-1" {
		t.Errorf("expected only task-1, got %+v", tasks)
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/tasks/task-1/status" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["status"] != "completed" {
			t.Errorf("expected status completed, got %q", body["status"])
		}
		json.NewEncoder(w).Encode(taskdomain.Task{ID: "task-1", Status: taskdomain.StatusCompleted})
	}))
	defer server.Close()

	updated, err := New(server.URL).UpdateTaskStatus(context.Background(), "task-1", "completed")
	if err != nil {
		t.Fatalf("UpdateTaskStatus() error = %v", err)
	}
	if updated.Status != taskdomain.StatusCompleted {
		t.Errorf("expected completed, got %q", updated.Status)
	}
}

func TestBulkDeleteTasks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/tasks/bulk-delete" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]int{"deleted": 2})
	}))
	defer server.Close()

	deleted, err := New(server.URL).BulkDeleteTasks(context.Background(), []string{"task-1", "task-2"})
	if err != nil {
		t.Fatalf("BulkDeleteTasks() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}
}

func TestErrorMessages(t *testing.T) {
	t.Run("server message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Task not found"}`))
		}))
		defer server.Close()

		_, err := New(server.URL).GetTask(context.Background(), "missing")
		if err == nil || err.Error() != "Task not found" {
			t.Errorf("expected server message, got %v", err)
		}
	})

	t.Run("unparseable body falls back", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>bad gateway</html>"))
		}))
		defer server.Close()

		_, err := New(server.URL).GetTask(context.Background(), "task-1")
		if err == nil || err.Error() != "request failed with status 502" {
			t.Errorf("expected generic message, got %v", err)
		}
	})
}
