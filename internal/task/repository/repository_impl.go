package repository

import (
	"context"
	"errors"

	"github.com/storekeeplabs/storekeep/internal/task/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, task *domain.Task) error {
	return db.WithContext(ctx).Create(task).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Task, error) {
	var t domain.Task
	err := db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID int64) ([]domain.Task, error) {
	var items []domain.Task
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, task *domain.Task) error {
	return db.WithContext(ctx).Model(task).Select("*").Omit("id", "created_at").Updates(task).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id).Error
}
