package notification

import (
	"context"
	"testing"
	"time"

	"github.com/example/taskhub/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationLogging(t *testing.T) {
	m := NewModule()
	ctx := context.Background()

	err := m.handleTaskCreated(ctx, events.TaskCreatedEvent{
		TaskID:    "task-1",
		Name:      "Write release notes",
		Project:   "Docs",
		Assignee:  "Alice",
		UserID:    "user-1",
		CreatedAt: time.Now(),
	}, nil)
	require.NoError(t, err)

	err = m.handleTaskCompleted(ctx, events.TaskCompletedEvent{
		TaskID:      "task-1",
		Name:        "Write release notes",
		UserID:      "user-1",
		CompletedAt: time.Now(),
	}, nil)
	require.NoError(t, err)

	err = m.handleTaskDeleted(ctx, events.TaskDeletedEvent{
		TaskID:    "task-1",
		UserID:    "user-1",
		DeletedAt: time.Now(),
	}, nil)
	require.NoError(t, err)

	logged := m.GetNotifications()
	require.Len(t, logged, 3)
	assert.Equal(t, "task_created", logged[0].Type)
	assert.Contains(t, logged[0].Message, "Write release notes")
	assert.Contains(t, logged[0].Message, "Docs")
	assert.Equal(t, "task_completed", logged[1].Type)
	assert.Equal(t, "task_deleted", logged[2].Type)
}

func TestGetNotificationsReturnsCopy(t *testing.T) {
	m := NewModule()
	_ = m.handleTaskDeleted(context.Background(), events.TaskDeletedEvent{TaskID: "task-1"}, nil)

	logged := m.GetNotifications()
	logged[0].Message = "mutated"

	assert.NotEqual(t, "mutated", m.GetNotifications()[0].Message)
}
