package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a single to-do item. Category is a plain name string rather than
// a foreign key: a category rename-via-delete/recreate leaves tasks tagged
// with the old name, and only the explicit cascade delete cleans them up.
type Task struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:text;index:idx_task_user;index:idx_task_user_category" json:"userId"`
	Text      string    `json:"text"`
	Category  string    `gorm:"index:idx_task_user_category" json:"category"`
	Completed bool      `gorm:"default:false" json:"completed"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
