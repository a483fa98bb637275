package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/storekeeplabs/storekeep/internal/auth/password"
	"github.com/storekeeplabs/storekeep/internal/cache"
	"github.com/storekeeplabs/storekeep/internal/clock"
	"github.com/storekeeplabs/storekeep/internal/user/domain"
	"github.com/storekeeplabs/storekeep/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cachePrefix = "users"

// recentWindow is the lookback for the recent_users statistic.
const recentWindow = 7 * 24 * time.Hour

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Cache cache.Store
	TTL   cache.TTL
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	cache cache.Store
	ttl   time.Duration
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		repo:  p.Repo,
		cache: p.Cache,
		ttl:   time.Duration(p.TTL),
		clock: p.Clock,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	page := req.Page.Normalize()

	items, err := s.repo.List(ctx, s.db, req, page)
	if err != nil {
		return domain.ListResponse{}, err
	}
	total, err := s.repo.Count(ctx, s.db, req)
	if err != nil {
		return domain.ListResponse{}, err
	}

	return domain.ListResponse{
		Users:    domain.ToResponses(items),
		PageInfo: pagination.BuildPageInfo(total, page),
	}, nil
}

func (s *Service) All(ctx context.Context) ([]domain.Response, error) {
	items, err := cache.Remember(ctx, s.cache, cachePrefix+".all", s.ttl, func(ctx context.Context) ([]domain.User, error) {
		return s.repo.FindAll(ctx, s.db)
	})
	if err != nil {
		return nil, err
	}
	return domain.ToResponses(items), nil
}

func (s *Service) Find(ctx context.Context, id int64) (*domain.Response, error) {
	item, err := s.findCached(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := domain.ToResponse(item)
	return &resp, nil
}

// findCached mirrors the product read path: hits are cached with TTL,
// not-found results are not.
func (s *Service) findCached(ctx context.Context, id int64) (*domain.User, error) {
	key := entityKey(id)

	var cached domain.User
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	if err := s.cache.Set(ctx, key, item, s.ttl); err != nil {
		s.log.Warn("cache populate failed", zap.String("key", key), zap.Error(err))
	}
	return item, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, domain.ErrInvalidRole
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &domain.User{
		ID:        s.genID.Generate().Int64(),
		Name:      req.Name,
		Email:     email,
		Password:  hashed,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, u)
	})
	if err != nil {
		s.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)
	s.log.Info("user created", zap.Int64("user_id", u.ID))

	resp := domain.ToResponse(u)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id int64, req domain.UpdateRequest) (*domain.Response, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != item.Email {
			existing, err := s.repo.FindByEmail(ctx, s.db, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != id {
				return nil, domain.ErrEmailTaken
			}
		}
		item.Email = email
	}
	if req.Role != nil {
		if *req.Role != domain.RoleUser && *req.Role != domain.RoleAdmin {
			return nil, domain.ErrInvalidRole
		}
		item.Role = *req.Role
	}
	if req.Password != "" {
		hashed, err := password.Hash(req.Password)
		if err != nil {
			return nil, err
		}
		item.Password = hashed
	}
	item.UpdatedAt = time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, item)
	})
	if err != nil {
		s.log.Error("failed to update user", zap.Int64("user_id", id), zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, entityKey(id))
	s.log.Info("user updated", zap.Int64("user_id", id))

	resp := domain.ToResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		s.log.Error("failed to delete user", zap.Int64("user_id", id), zap.Error(err))
		return err
	}

	s.invalidate(ctx, entityKey(id))
	s.log.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

func (s *Service) Verified(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.Verified(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return domain.ToResponses(items), nil
}

func (s *Service) Unverified(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.Unverified(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return domain.ToResponses(items), nil
}

func (s *Service) Admins(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.Admins(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return domain.ToResponses(items), nil
}

func (s *Service) Statistics(ctx context.Context) (*domain.Statistics, error) {
	stats, err := cache.Remember(ctx, s.cache, cachePrefix+".stats", s.ttl, func(ctx context.Context) (domain.Statistics, error) {
		out, err := s.repo.Stats(ctx, s.db, s.clock.Now(ctx).Add(-recentWindow))
		if err != nil {
			return domain.Statistics{}, err
		}
		return *out, nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Service) PromoteToAdmin(ctx context.Context, id int64) (*domain.Response, error) {
	role := domain.RoleAdmin
	return s.Update(ctx, id, domain.UpdateRequest{Role: &role})
}

func (s *Service) DemoteToUser(ctx context.Context, id int64) (*domain.Response, error) {
	role := domain.RoleUser
	return s.Update(ctx, id, domain.UpdateRequest{Role: &role})
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	keys = append(keys, cachePrefix+".all", cachePrefix+".stats")
	if err := s.cache.Forget(ctx, keys...); err != nil {
		s.log.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func entityKey(id int64) string {
	return fmt.Sprintf("%s.%d", cachePrefix, id)
}
