package task

import (
	"context"

	domain "github.com/example/taskhub/domain/task"
)

// CreateTaskRequest is the request for creating a task. Tags is the raw
// comma-separated form value; the service normalizes it. ImageData carries
// the optional attachment bytes (base64 over the wire).
type CreateTaskRequest struct {
	Name        string `json:"name"`
	Assignee    string `json:"assignee"`
	Tags        string `json:"tags"`
	Deadline    string `json:"deadline"`
	Description string `json:"description"`
	Project     string `json:"project"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	UserID      string `json:"userId"`
	ImageName   string `json:"imageName,omitempty"`
	ImageData   []byte `json:"imageData,omitempty"`
}

// UpdateTaskRequest is the request for a full task update. CurrentImageURL
// is the image to keep when no new attachment is provided.
type UpdateTaskRequest struct {
	TaskID          string `json:"taskId"`
	Name            string `json:"name"`
	Assignee        string `json:"assignee"`
	Tags            string `json:"tags"`
	Deadline        string `json:"deadline"`
	Description     string `json:"description"`
	Project         string `json:"project"`
	Priority        string `json:"priority"`
	Status          string `json:"status"`
	CurrentImageURL string `json:"currentImageUrl,omitempty"`
	ImageName       string `json:"imageName,omitempty"`
	ImageData       []byte `json:"imageData,omitempty"`
}

// GetTaskRequest is the request for fetching a single task.
type GetTaskRequest struct {
	TaskID string `json:"taskId"`
}

// ListTasksRequest is the request for listing tasks, optionally scoped to a user.
type ListTasksRequest struct {
	UserID string `json:"userId,omitempty"`
}

// ListTasksResponse is the response for listing tasks, newest first.
type ListTasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
	Total int           `json:"total"`
}

// UpdateStatusRequest is the request for a status-only change.
type UpdateStatusRequest struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID string `json:"taskId"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// BulkDeleteRequest is the request for deleting several tasks at once.
type BulkDeleteRequest struct {
	TaskIDs []string `json:"taskIds"`
}

// BulkDeleteResponse reports how many tasks were removed.
type BulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// TaskPort defines the interface for task operations. Driving adapters
// (the HTTP API) use this contract to reach the core domain.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*domain.Task, error)
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*domain.Task, error)
	UpdateStatus(ctx context.Context, taskID, status string) (*domain.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	BulkDeleteTasks(ctx context.Context, taskIDs []string) (int, error)
}
