package task

import "time"

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	switch Priority(p) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Status is the lifecycle state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is the core domain entity. JSON field names are the wire contract
// consumed by clients, so they stay camelCase. Timestamps are stamped by the
// task service, not by GORM: UpdatedAt must stay empty until the first update.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Assignee    string     `gorm:"size:100" json:"assignee"`
	Tags        []string   `gorm:"serializer:json" json:"tags"`
	Deadline    string     `gorm:"size:32" json:"deadline"`
	Description string     `gorm:"size:2000" json:"description"`
	Project     string     `gorm:"size:100" json:"project"`
	Priority    Priority   `gorm:"size:10" json:"priority"`
	Status      Status     `gorm:"size:16" json:"status"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	UserID      string     `gorm:"index;size:64" json:"userId"`
	CreatedAt   time.Time  `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
