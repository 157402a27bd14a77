package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	domain "github.com/example/taskhub/domain/task"
	"github.com/example/taskhub/events"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// normalizeTags splits a raw comma-separated tag string into trimmed tags.
// An empty input yields an empty slice, never a single empty tag.
func normalizeTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tags = append(tags, strings.TrimSpace(part))
	}
	return tags
}

// resolveImage uploads a new attachment when one is present, otherwise
// returns the fallback URL. An upload failure fails the whole operation.
func (m *TaskModule) resolveImage(ctx context.Context, name string, data []byte, fallback string) (string, error) {
	if len(data) == 0 {
		return fallback, nil
	}
	url, err := m.imagePort.UploadImage(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return url, nil
}

// createTask handles the create-task service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (domain.Task, error) {
	if strings.TrimSpace(req.Name) == "" {
		return domain.Task{}, ErrNameRequired
	}
	if req.UserID == "" {
		return domain.Task{}, ErrUserRequired
	}
	if !domain.ValidPriority(req.Priority) {
		return domain.Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, req.Priority)
	}
	if !domain.ValidStatus(req.Status) {
		return domain.Task{}, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	imageURL, err := m.resolveImage(ctx, req.ImageName, req.ImageData, "")
	if err != nil {
		return domain.Task{}, err
	}

	newTask := &domain.Task{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Assignee:    req.Assignee,
		Tags:        normalizeTags(req.Tags),
		Deadline:    req.Deadline,
		Description: req.Description,
		Project:     req.Project,
		Priority:    domain.Priority(req.Priority),
		Status:      domain.Status(req.Status),
		ImageURL:    imageURL,
		UserID:      req.UserID,
		CreatedAt:   time.Now(),
	}

	if err := m.repo.Create(newTask); err != nil {
		return domain.Task{}, err
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    newTask.ID,
			Name:      newTask.Name,
			Project:   newTask.Project,
			Assignee:  newTask.Assignee,
			UserID:    newTask.UserID,
			CreatedAt: newTask.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			// Event publishing is best-effort; log but don't fail the operation
			log.Printf("[task] Warning: failed to publish TaskCreated event for task %s: %v", newTask.ID, err)
		}
	}

	return *newTask, nil
}

// getTask handles the get-task service request.
func (m *TaskModule) getTask(_ context.Context, req GetTaskRequest, _ *mono.Msg) (domain.Task, error) {
	found, err := m.repo.FindByID(req.TaskID)
	if err != nil {
		return domain.Task{}, err
	}
	return *found, nil
}

// listTasks handles the list-tasks service request.
func (m *TaskModule) listTasks(_ context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.repo.FindByUser(req.UserID)
	if err != nil {
		return ListTasksResponse{}, err
	}
	return ListTasksResponse{
		Tasks: tasks,
		Total: len(tasks),
	}, nil
}

// updateTask handles the update-task service request. All editable fields
// are replaced; ID, owner and creation time are preserved.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (domain.Task, error) {
	existing, err := m.repo.FindByID(req.TaskID)
	if err != nil {
		return domain.Task{}, err
	}

	if strings.TrimSpace(req.Name) == "" {
		return domain.Task{}, ErrNameRequired
	}
	if !domain.ValidPriority(req.Priority) {
		return domain.Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, req.Priority)
	}
	if !domain.ValidStatus(req.Status) {
		return domain.Task{}, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	imageURL, err := m.resolveImage(ctx, req.ImageName, req.ImageData, req.CurrentImageURL)
	if err != nil {
		return domain.Task{}, err
	}

	wasCompleted := existing.Status == domain.StatusCompleted

	now := time.Now()
	existing.Name = req.Name
	existing.Assignee = req.Assignee
	existing.Tags = normalizeTags(req.Tags)
	existing.Deadline = req.Deadline
	existing.Description = req.Description
	existing.Project = req.Project
	existing.Priority = domain.Priority(req.Priority)
	existing.Status = domain.Status(req.Status)
	existing.ImageURL = imageURL
	existing.UpdatedAt = &now

	if err := m.repo.Save(existing); err != nil {
		return domain.Task{}, err
	}

	if !wasCompleted && existing.Status == domain.StatusCompleted {
		m.publishCompleted(existing, now)
	}

	return *existing, nil
}

// updateStatus handles the update-status service request.
func (m *TaskModule) updateStatus(_ context.Context, req UpdateStatusRequest, _ *mono.Msg) (domain.Task, error) {
	if !domain.ValidStatus(req.Status) {
		return domain.Task{}, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	existing, err := m.repo.FindByID(req.TaskID)
	if err != nil {
		return domain.Task{}, err
	}

	wasCompleted := existing.Status == domain.StatusCompleted

	now := time.Now()
	existing.Status = domain.Status(req.Status)
	existing.UpdatedAt = &now

	if err := m.repo.Save(existing); err != nil {
		return domain.Task{}, err
	}

	if !wasCompleted && existing.Status == domain.StatusCompleted {
		m.publishCompleted(existing, now)
	}

	return *existing, nil
}

// deleteTask handles the delete-task service request. Deletion is
// unconditional; an absent ID still reports success.
func (m *TaskModule) deleteTask(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	existing, err := m.repo.FindByID(req.TaskID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return DeleteTaskResponse{}, err
	}

	if err := m.repo.Delete(req.TaskID); err != nil {
		return DeleteTaskResponse{}, err
	}

	if existing != nil {
		m.publishDeleted(existing.ID, existing.UserID)
	}

	return DeleteTaskResponse{Deleted: true}, nil
}

// bulkDeleteTasks handles the bulk-delete-tasks service request.
func (m *TaskModule) bulkDeleteTasks(_ context.Context, req BulkDeleteRequest, _ *mono.Msg) (BulkDeleteResponse, error) {
	existing, err := m.repo.FindByIDs(req.TaskIDs)
	if err != nil {
		return BulkDeleteResponse{}, err
	}

	deleted, err := m.repo.DeleteMany(req.TaskIDs)
	if err != nil {
		return BulkDeleteResponse{}, err
	}

	for i := range existing {
		m.publishDeleted(existing[i].ID, existing[i].UserID)
	}

	return BulkDeleteResponse{Deleted: deleted}, nil
}

func (m *TaskModule) publishCompleted(t *domain.Task, at time.Time) {
	if m.eventBus == nil {
		return
	}
	event := events.TaskCompletedEvent{
		TaskID:      t.ID,
		Name:        t.Name,
		UserID:      t.UserID,
		CompletedAt: at,
	}
	if err := events.TaskCompletedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskCompleted event for task %s: %v", t.ID, err)
	}
}

func (m *TaskModule) publishDeleted(taskID, userID string) {
	if m.eventBus == nil {
		return
	}
	event := events.TaskDeletedEvent{
		TaskID:    taskID,
		UserID:    userID,
		DeletedAt: time.Now(),
	}
	if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskDeleted event for task %s: %v", taskID, err)
	}
}
