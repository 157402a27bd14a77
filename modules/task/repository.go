package task

import (
	"errors"
	"fmt"

	domain "github.com/example/taskhub/domain/task"
	"gorm.io/gorm"
)

// TaskRepository provides task persistence using GORM.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task.
func (r *TaskRepository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *TaskRepository) FindByID(id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindByUser retrieves tasks newest first. An empty userID returns all tasks.
func (r *TaskRepository) FindByUser(userID string) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	query := r.db.Order("created_at DESC")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// FindByIDs retrieves the tasks matching the given IDs. Unknown IDs are
// silently skipped.
func (r *TaskRepository) FindByIDs(ids []string) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(ids))
	if len(ids) == 0 {
		return tasks, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// Save writes the full row for an existing task. Save is used instead of a
// partial update so cleared fields (an emptied image URL, a nil UpdatedAt)
// are persisted too.
func (r *TaskRepository) Save(task *domain.Task) error {
	if err := r.db.Save(task).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// Delete removes a task by ID. Deleting an absent ID is not an error;
// deletion is unconditional.
func (r *TaskRepository) Delete(id string) error {
	if err := r.db.Delete(&domain.Task{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// DeleteMany removes all tasks matching the given IDs and returns the
// number of rows removed.
func (r *TaskRepository) DeleteMany(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Delete(&domain.Task{}, "id IN ?", ids)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete tasks: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}
