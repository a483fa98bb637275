package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, schedule *Schedule) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Schedule, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID int64) ([]Schedule, error)
	Update(ctx context.Context, db *gorm.DB, schedule *Schedule) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
