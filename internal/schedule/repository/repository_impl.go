package repository

import (
	"context"
	"errors"

	"github.com/storekeeplabs/storekeep/internal/schedule/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, schedule *domain.Schedule) error {
	return db.WithContext(ctx).Create(schedule).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Schedule, error) {
	var s domain.Schedule
	err := db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID int64) ([]domain.Schedule, error) {
	var items []domain.Schedule
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, schedule *domain.Schedule) error {
	return db.WithContext(ctx).Model(schedule).Select("*").Omit("id", "created_at").Updates(schedule).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.Schedule{}, "id = ?", id).Error
}
