package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	domain "github.com/example/taskhub/domain/task"
	"github.com/example/taskhub/events"
	"github.com/example/taskhub/modules/imagehost"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TaskModule provides task management services (core domain).
type TaskModule struct {
	db        *gorm.DB
	repo      *TaskRepository
	imagePort imagehost.ImagePort
	eventBus  mono.EventBus
	dbPath    string
}

var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.DependentModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule.
func NewModule() *TaskModule {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "taskhub.db"
	}
	return &TaskModule{dbPath: dbPath}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// Dependencies returns the list of module dependencies.
func (m *TaskModule) Dependencies() []string {
	return []string{"imagehost"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *TaskModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "imagehost" {
		m.imagePort = imagehost.NewImageAdapter(container)
	}
}

// SetEventBus stores the event bus for publishing task lifecycle events.
func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-status", json.Unmarshal, json.Marshal, m.updateStatus,
	); err != nil {
		return fmt.Errorf("failed to register update-status service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "bulk-delete-tasks", json.Unmarshal, json.Marshal, m.bulkDeleteTasks,
	); err != nil {
		return fmt.Errorf("failed to register bulk-delete-tasks service: %w", err)
	}

	log.Printf("[task] Registered services: create-task, get-task, list-tasks, update-task, update-status, delete-task, bulk-delete-tasks")
	return nil
}

// Start opens the task database and wires up the repository.
func (m *TaskModule) Start(_ context.Context) error {
	if m.imagePort == nil {
		return fmt.Errorf("imagePort dependency not set")
	}
	if m.eventBus == nil {
		log.Println("[task] Warning: eventBus not set, events will not be published")
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	m.repo = NewTaskRepository(db)

	log.Printf("[task] Module started (database: %s, depends on: imagehost)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}
