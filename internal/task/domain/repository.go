package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, task *Task) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Task, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID int64) ([]Task, error)
	Update(ctx context.Context, db *gorm.DB, task *Task) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
