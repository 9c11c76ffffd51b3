package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ticklist/ticklist/internal/model"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListByUser returns the owner's categories, newest first.
func (r *CategoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Create inserts a category after checking the per-owner uniqueness rule.
// The name comparison is exact (trimmed, case-sensitive); the unique index
// on (user_id, name) backs the in-transaction check.
func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Category{}).
			Where("user_id = ? AND name = ?", category.UserID, category.Name).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check existing category: %w", err)
		}
		if count > 0 {
			return ErrDuplicate
		}
		if err := tx.Create(category).Error; err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	})
}

// DeleteCascade removes the named category and every task of the same owner
// tagged with it, atomically. It returns the deleted category and the task
// count; ErrNotFound if the owner has no category with that name.
func (r *CategoryRepository) DeleteCascade(ctx context.Context, userID uuid.UUID, name string) (*model.Category, int64, error) {
	var category model.Category
	var deletedTasks int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND name = ?", userID, name).First(&category).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			return ErrNotFound
		case err != nil:
			return fmt.Errorf("find category: %w", err)
		}

		res := tx.Where("user_id = ? AND category = ?", userID, name).Delete(&model.Task{})
		if res.Error != nil {
			return fmt.Errorf("delete tasks in category: %w", res.Error)
		}
		deletedTasks = res.RowsAffected

		if err := tx.Where("user_id = ? AND id = ?", userID, category.ID).
			Delete(&model.Category{}).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &category, deletedTasks, nil
}
