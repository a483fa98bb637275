package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/storekeeplabs/storekeep/internal/task/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("task.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, userID int64) ([]domain.Response, error) {
	items, err := s.repo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Response, 0, len(items))
	for i := range items {
		out = append(out, domain.ToResponse(&items[i]))
	}
	return out, nil
}

func (s *Service) Find(ctx context.Context, userID, id int64) (*domain.Response, error) {
	item, err := s.ownedByUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := domain.ToResponse(item)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, userID int64, req domain.CreateRequest) (*domain.Response, error) {
	now := time.Now().UTC()
	item := &domain.Task{
		ID:          s.genID.Generate().Int64(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, item)
	})
	if err != nil {
		s.log.Error("failed to create task", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	s.log.Info("task created", zap.Int64("task_id", item.ID), zap.Int64("user_id", userID))

	resp := domain.ToResponse(item)
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
	if req.Completed != nil {
		item.Completed = *req.Completed
	}
	item.UpdatedAt = time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, item)
	})
	if err != nil {
		s.log.Error("failed to update task", zap.Int64("task_id", id), zap.Error(err))
		return nil, err
	}
	s.log.Info("task updated", zap.Int64("task_id", id))

	resp := domain.ToResponse(item)
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
		s.log.Error("failed to delete task", zap.Int64("task_id", id), zap.Error(err))
		return err
	}
	s.log.Info("task deleted", zap.Int64("task_id", id))
	return nil
}

func (s *Service) ownedByUser(ctx context.Context, userID, id int64) (*domain.Task, error) {
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
