package domain

import (
	"context"

	"github.com/storekeeplabs/storekeep/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Product, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest, page pagination.Pagination) ([]Product, error)
	Count(ctx context.Context, db *gorm.DB, filter ListRequest) (int64, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	AdjustStock(ctx context.Context, db *gorm.DB, id int64, delta int) error
	SetStock(ctx context.Context, db *gorm.DB, id int64, quantity int) error
	LowStock(ctx context.Context, db *gorm.DB, threshold int) ([]Product, error)
	OutOfStock(ctx context.Context, db *gorm.DB) ([]Product, error)
	Stats(ctx context.Context, db *gorm.DB) (*Statistics, error)
}
