package domain

import (
	"context"
	"time"

	"github.com/storekeeplabs/storekeep/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, user *User) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]User, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest, page pagination.Pagination) ([]User, error)
	Count(ctx context.Context, db *gorm.DB, filter ListRequest) (int64, error)
	Update(ctx context.Context, db *gorm.DB, user *User) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	Verified(ctx context.Context, db *gorm.DB) ([]User, error)
	Unverified(ctx context.Context, db *gorm.DB) ([]User, error)
	Admins(ctx context.Context, db *gorm.DB) ([]User, error)
	Stats(ctx context.Context, db *gorm.DB, recentSince time.Time) (*Statistics, error)
}
