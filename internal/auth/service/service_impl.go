package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/storekeeplabs/storekeep/internal/auth/domain"
	"github.com/storekeeplabs/storekeep/internal/auth/password"
	"github.com/storekeeplabs/storekeep/internal/auth/repository"
	"github.com/storekeeplabs/storekeep/internal/clock"
	"github.com/storekeeplabs/storekeep/internal/config"
	userdomain "github.com/storekeeplabs/storekeep/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Config  config.Config
	Clock   clock.Clock
	Tokens  repository.Repository
	Users   userdomain.Repository
	UserSvc userdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	cfg     config.Config
	clock   clock.Clock
	tokens  repository.Repository
	users   userdomain.Repository
	userSvc userdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("auth.service"),
		genID:   p.GenID,
		cfg:     p.Config,
		clock:   p.Clock,
		tokens:  p.Tokens,
		users:   p.Users,
		userSvc: p.UserSvc,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Session, error) {
	created, err := s.userSvc.Create(ctx, userdomain.CreateRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     userdomain.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(ctx, created.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", created.ID))
	return &domain.Session{Token: token, User: *created}, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !password.Verify(user.Password, req.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.Int64("user_id", user.ID))
	return &domain.Session{Token: token, User: userdomain.ToResponse(user)}, nil
}

func (s *Service) Logout(ctx context.Context, plainToken string) error {
	return s.tokens.DeleteByHash(ctx, s.db, domain.HashToken(plainToken))
}

func (s *Service) RevokeUserTokens(ctx context.Context, userID int64) error {
	return s.tokens.DeleteByUser(ctx, s.db, userID)
}

func (s *Service) Authenticate(ctx context.Context, plainToken string) (*userdomain.User, error) {
	if plainToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	hash := domain.HashToken(plainToken)
	record, err := s.tokens.FindByHash(ctx, s.db, hash)
	if err != nil {
		return nil, err
	}
	if record == nil || subtle.ConstantTimeCompare([]byte(record.TokenHash), []byte(hash)) != 1 {
		return nil, domain.ErrUnauthenticated
	}

	now := s.clock.Now(ctx)
	if record.ExpiresAt != nil && record.ExpiresAt.Before(now) {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, s.db, record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	if err := s.tokens.Touch(ctx, s.db, record.ID, now); err != nil {
		s.log.Warn("failed to touch token", zap.Int64("token_id", record.ID), zap.Error(err))
	}

	return user, nil
}

func (s *Service) issueToken(ctx context.Context, userID int64) (string, error) {
	plain, err := domain.NewPlainToken()
	if err != nil {
		return "", err
	}

	now := s.clock.Now(ctx)
	record := &domain.AuthToken{
		ID:        s.genID.Generate().Int64(),
		UserID:    userID,
		TokenHash: domain.HashToken(plain),
		Name:      "api",
		CreatedAt: now,
	}
	if hours := s.cfg.Auth.TokenTTLHours; hours > 0 {
		expires := now.Add(time.Duration(hours) * time.Hour)
		record.ExpiresAt = &expires
	}

	if err := s.tokens.Create(ctx, s.db, record); err != nil {
		s.log.Error("failed to persist auth token", zap.Int64("user_id", userID), zap.Error(err))
		return "", err
	}
	return plain, nil
}
