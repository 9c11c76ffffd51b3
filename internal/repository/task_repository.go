package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ticklist/ticklist/internal/model"
)

// AllCategories is the client-side sentinel meaning "no category filter".
const AllCategories = "All Categories"

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListByUser returns the owner's tasks, newest first. An empty filter or
// the AllCategories sentinel returns everything; any other value filters by
// exact category match.
func (r *TaskRepository) ListByUser(ctx context.Context, userID uuid.UUID, categoryFilter string) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if categoryFilter != "" && categoryFilter != AllCategories {
		q = q.Where("category = ?", categoryFilter)
	}

	var tasks []model.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error
	switch {
	case err == nil:
		return &task, nil
	case err == gorm.ErrRecordNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("find task: %w", err)
	}
}

// Update applies the given column changes to the owner's task and returns
// the updated row. Fields absent from changes keep their values.
func (r *TaskRepository) Update(ctx context.Context, userID, taskID uuid.UUID, changes map[string]any) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			return ErrNotFound
		case err != nil:
			return fmt.Errorf("find task: %w", err)
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&task).Updates(changes).Error; err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ToggleComplete flips the completed flag in a single persisted write.
func (r *TaskRepository) ToggleComplete(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			return ErrNotFound
		case err != nil:
			return fmt.Errorf("find task: %w", err)
		}
		if err := tx.Model(&task).Update("completed", !task.Completed).Error; err != nil {
			return fmt.Errorf("toggle task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes the owner's task; ErrNotFound if no row matched.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
