package repository

import (
	"context"
	"errors"
	"time"

	"github.com/storekeeplabs/storekeep/internal/auth/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, token *domain.AuthToken) error
	FindByHash(ctx context.Context, db *gorm.DB, hash string) (*domain.AuthToken, error)
	Touch(ctx context.Context, db *gorm.DB, id int64, at time.Time) error
	DeleteByHash(ctx context.Context, db *gorm.DB, hash string) error
	DeleteByUser(ctx context.Context, db *gorm.DB, userID int64) error
}

type repo struct{}

func New() Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, token *domain.AuthToken) error {
	return db.WithContext(ctx).Create(token).Error
}

func (r *repo) FindByHash(ctx context.Context, db *gorm.DB, hash string) (*domain.AuthToken, error) {
	var t domain.AuthToken
	err := db.WithContext(ctx).First(&t, "token_hash = ?", hash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) Touch(ctx context.Context, db *gorm.DB, id int64, at time.Time) error {
	return db.WithContext(ctx).Model(&domain.AuthToken{}).Where("id = ?", id).
		UpdateColumn("last_used_at", at).Error
}

func (r *repo) DeleteByHash(ctx context.Context, db *gorm.DB, hash string) error {
	return db.WithContext(ctx).Delete(&domain.AuthToken{}, "token_hash = ?", hash).Error
}

func (r *repo) DeleteByUser(ctx context.Context, db *gorm.DB, userID int64) error {
	return db.WithContext(ctx).Delete(&domain.AuthToken{}, "user_id = ?", userID).Error
}
