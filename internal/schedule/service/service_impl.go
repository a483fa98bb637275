package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/storekeeplabs/storekeep/internal/schedule/domain"
	userdomain "github.com/storekeeplabs/storekeep/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	UserRepo userdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	userRepo userdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("schedule.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		userRepo: p.UserRepo,
	}
}

func (s *Service) List(ctx context.Context, userID int64) ([]domain.Response, error) {
	items, err := s.repo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	owner, err := s.ownerSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Response, 0, len(items))
	for i := range items {
		out = append(out, domain.ToResponse(&items[i], owner))
	}
	return out, nil
}

func (s *Service) Find(ctx context.Context, userID, id int64) (*domain.Response, error) {
	item, err := s.ownedByUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.ownerSummary(ctx, item.UserID)
	if err != nil {
		return nil, err
	}
	resp := domain.ToResponse(item, owner)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, userID int64, req domain.CreateRequest) (*domain.Response, error) {
	if req.EndTime.Before(req.StartTime) {
		return nil, domain.ErrTimeOrder
	}

	status := req.Status
	if status == "" {
		status = domain.StatusScheduled
	}

	now := time.Now().UTC()
	item := &domain.Schedule{
		ID:          s.genID.Generate().Int64(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Type:        req.Type,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, item)
	})
	if err != nil {
		s.log.Error("failed to create schedule", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	s.log.Info("schedule created", zap.Int64("schedule_id", item.ID), zap.Int64("user_id", userID))

	owner, err := s.ownerSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := domain.ToResponse(item, owner)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, req domain.UpdateRequest) (*domain.Response, error) {
	item, err := s.ownedByUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.StartTime != nil {
		item.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		item.EndTime = *req.EndTime
	}
	if item.EndTime.Before(item.StartTime) {
		return nil, domain.ErrTimeOrder
	}
	if req.Type != nil {
		item.Type = *req.Type
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	item.UpdatedAt = time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, item)
	})
	if err != nil {
		s.log.Error("failed to update schedule", zap.Int64("schedule_id", id), zap.Error(err))
		return nil, err
	}
	s.log.Info("schedule updated", zap.Int64("schedule_id", id))

	owner, err := s.ownerSummary(ctx, item.UserID)
	if err != nil {
		return nil, err
	}
	resp := domain.ToResponse(item, owner)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.ownedByUser(ctx, userID, id); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		s.log.Error("failed to delete schedule", zap.Int64("schedule_id", id), zap.Error(err))
		return err
	}
	s.log.Info("schedule deleted", zap.Int64("schedule_id", id))
	return nil
}

func (s *Service) ownedByUser(ctx context.Context, userID, id int64) (*domain.Schedule, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

func (s *Service) ownerSummary(ctx context.Context, userID int64) (domain.OwnerSummary, error) {
	owner, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		return domain.OwnerSummary{}, err
	}
	if owner == nil {
		return domain.OwnerSummary{ID: userID}, nil
	}
	return domain.OwnerSummary{ID: owner.ID, Name: owner.Name}, nil
}
