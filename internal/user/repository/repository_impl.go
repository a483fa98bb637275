package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/storekeeplabs/storekeep/internal/user/domain"
	"github.com/storekeeplabs/storekeep/pkg/db/option"
	"github.com/storekeeplabs/storekeep/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

var sortableColumns = map[string]bool{
	"name":       true,
	"email":      true,
	"role":       true,
	"created_at": true,
	"updated_at": true,
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var items []domain.User
	if err := db.WithContext(ctx).Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func applyFilter(stmt *gorm.DB, filter domain.ListRequest) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		stmt = stmt.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if filter.EmailVerified != nil {
		if *filter.EmailVerified {
			stmt = stmt.Where("email_verified_at IS NOT NULL")
		} else {
			stmt = stmt.Where("email_verified_at IS NULL")
		}
	}
	if role := strings.TrimSpace(filter.Role); role != "" {
		stmt = stmt.Where("role = ?", role)
	}
	return stmt
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest, page pagination.Pagination) ([]domain.User, error) {
	var items []domain.User
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.User{}), filter)

	stmt = option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.SortOrder, sortableColumns)).Apply(stmt)
	stmt = option.ApplyPagination(page).Apply(stmt)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, filter domain.ListRequest) (int64, error) {
	var total int64
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.User{}), filter)
	if err := stmt.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Model(user).Select("*").Omit("id", "created_at").Updates(user).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id).Error
}

func (r *repo) Verified(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var items []domain.User
	err := db.WithContext(ctx).
		Where("email_verified_at IS NOT NULL").
		Order("email_verified_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Unverified(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var items []domain.User
	err := db.WithContext(ctx).
		Where("email_verified_at IS NULL").
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Admins(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var items []domain.User
	err := db.WithContext(ctx).
		Where("role = ?", domain.RoleAdmin).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB, recentSince time.Time) (*domain.Statistics, error) {
	var stats domain.Statistics
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS total_users,
		        COALESCE(SUM(CASE WHEN email_verified_at IS NOT NULL THEN 1 ELSE 0 END), 0) AS verified_users,
		        COALESCE(SUM(CASE WHEN email_verified_at IS NULL THEN 1 ELSE 0 END), 0)     AS unverified_users,
		        COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0)               AS recent_users,
		        COALESCE(SUM(CASE WHEN role = 'admin' THEN 1 ELSE 0 END), 0)                AS admin_users,
		        COALESCE(SUM(CASE WHEN role = 'user' THEN 1 ELSE 0 END), 0)                 AS regular_users
		 FROM users`,
		recentSince,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
