package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/taskhub/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
// It implements the TaskPort interface.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
// container is the ServiceContainer from the task module received via
// SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// CreateTask creates a new task via the create-task service.
func (a *taskAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (*domain.Task, error) {
	var resp domain.Task
	if err := helper.CallRequestReplyService(
		ctx, a.container, "create-task", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("create-task service call failed: %w", err)
	}
	return &resp, nil
}

// GetTask retrieves a task by ID via the get-task service.
func (a *taskAdapter) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	req := GetTaskRequest{TaskID: taskID}
	var resp domain.Task
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-task", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get-task service call failed: %w", err)
	}
	return &resp, nil
}

// ListTasks lists tasks newest first, optionally scoped to a user.
func (a *taskAdapter) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	req := ListTasksRequest{UserID: userID}
	var resp ListTasksResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-tasks", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list-tasks service call failed: %w", err)
	}
	return resp.Tasks, nil
}

// UpdateTask replaces a task's editable fields via the update-task service.
func (a *taskAdapter) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*domain.Task, error) {
	var resp domain.Task
	if err := helper.CallRequestReplyService(
		ctx, a.container, "update-task", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("update-task service call failed: %w", err)
	}
	return &resp, nil
}

// UpdateStatus changes only a task's status via the update-status service.
func (a *taskAdapter) UpdateStatus(ctx context.Context, taskID, status string) (*domain.Task, error) {
	req := UpdateStatusRequest{TaskID: taskID, Status: status}
	var resp domain.Task
	if err := helper.CallRequestReplyService(
		ctx, a.container, "update-status", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("update-status service call failed: %w", err)
	}
	return &resp, nil
}

// DeleteTask deletes a task via the delete-task service.
func (a *taskAdapter) DeleteTask(ctx context.Context, taskID string) error {
	req := DeleteTaskRequest{TaskID: taskID}
	var resp DeleteTaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "delete-task", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return fmt.Errorf("delete-task service call failed: %w", err)
	}
	return nil
}

// BulkDeleteTasks deletes a set of tasks via the bulk-delete-tasks service.
func (a *taskAdapter) BulkDeleteTasks(ctx context.Context, taskIDs []string) (int, error) {
	req := BulkDeleteRequest{TaskIDs: taskIDs}
	var resp BulkDeleteResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "bulk-delete-tasks", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return 0, fmt.Errorf("bulk-delete-tasks service call failed: %w", err)
	}
	return resp.Deleted, nil
}
