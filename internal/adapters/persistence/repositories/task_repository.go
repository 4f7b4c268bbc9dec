package repositories

import (
	"context"

	"labops-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// TaskRepository handles task data access
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID gets a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List lists tasks with optional status/priority equality filters,
// ordered by end date ascending.
func (r *TaskRepository) List(ctx context.Context, status, priority string) ([]*models.Task, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if priority != "" {
		query = query.Where("priority = ?", priority)
	}

	var tasks []*models.Task
	err := query.Order("end_date ASC").Find(&tasks).Error
	return tasks, err
}

// Update updates a task. Returns gorm.ErrRecordNotFound if absent.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", task.ID).Updates(map[string]interface{}{
		"title":       task.Title,
		"assignee":    task.Assignee,
		"status":      task.Status,
		"priority":    task.Priority,
		"start_date":  task.StartDate,
		"end_date":    task.EndDate,
		"description": task.Description,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes a task. Returns gorm.ErrRecordNotFound if absent.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
