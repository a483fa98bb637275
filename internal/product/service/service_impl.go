package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/storekeeplabs/storekeep/internal/cache"
	"github.com/storekeeplabs/storekeep/internal/product/domain"
	"github.com/storekeeplabs/storekeep/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cachePrefix = "products"

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Cache cache.Store
	TTL   cache.TTL
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	cache cache.Store
	ttl   time.Duration
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		repo:  p.Repo,
		cache: p.Cache,
		ttl:   time.Duration(p.TTL),
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
		Products: domain.ToResponses(items),
		PageInfo: pagination.BuildPageInfo(total, page),
	}, nil
}

func (s *Service) All(ctx context.Context) ([]domain.Response, error) {
	items, err := cache.Remember(ctx, s.cache, cachePrefix+".all", s.ttl, func(ctx context.Context) ([]domain.Product, error) {
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

// findCached is the cache-aside single-record read. A miss that finds nothing
// is not cached, so lookups of a nonexistent id always reach the store.
func (s *Service) findCached(ctx context.Context, id int64) (*domain.Product, error) {
	key := entityKey(id)

	var cached domain.Product
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
	existing, err := s.repo.FindByName(ctx, s.db, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrNameTaken
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:          s.genID.Generate().Int64(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, p)
	})
	if err != nil {
		s.log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)
	s.log.Info("product created", zap.Int64("product_id", p.ID))

	resp := domain.ToResponse(p)
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

	if req.Name != nil && *req.Name != item.Name {
		existing, err := s.repo.FindByName(ctx, s.db, *req.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrNameTaken
		}
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Stock != nil {
		item.Stock = *req.Stock
	}
	item.UpdatedAt = time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, item)
	})
	if err != nil {
		s.log.Error("failed to update product", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, entityKey(id))
	s.log.Info("product updated", zap.Int64("product_id", id))

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
		s.log.Error("failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		return err
	}

	s.invalidate(ctx, entityKey(id))
	s.log.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *Service) UpdateStock(ctx context.Context, id int64, quantity int, op domain.StockOperation) (*domain.Response, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch op {
		case domain.StockAdd:
			return s.repo.AdjustStock(ctx, tx, id, quantity)
		case domain.StockSubtract:
			// Unclamped: stock may go negative.
			return s.repo.AdjustStock(ctx, tx, id, -quantity)
		default:
			return s.repo.SetStock(ctx, tx, id, quantity)
		}
	})
	if err != nil {
		s.log.Error("failed to update product stock", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, entityKey(id))
	s.log.Info("product stock updated",
		zap.Int64("product_id", id),
		zap.String("operation", string(op)),
		zap.Int("quantity", quantity),
	)

	fresh, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, domain.ErrNotFound
	}
	resp := domain.ToResponse(fresh)
	return &resp, nil
}

func (s *Service) LowStock(ctx context.Context, threshold int) ([]domain.Response, error) {
	if threshold <= 0 {
		threshold = domain.LowStockDefaultThreshold
	}
	items, err := s.repo.LowStock(ctx, s.db, threshold)
	if err != nil {
		return nil, err
	}
	return domain.ToResponses(items), nil
}

func (s *Service) OutOfStock(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.OutOfStock(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return domain.ToResponses(items), nil
}

func (s *Service) Statistics(ctx context.Context) (*domain.Statistics, error) {
	stats, err := cache.Remember(ctx, s.cache, cachePrefix+".stats", s.ttl, func(ctx context.Context) (domain.Statistics, error) {
		out, err := s.repo.Stats(ctx, s.db)
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

// invalidate drops the aggregate keys plus any explicitly named entity keys.
// Invalidation runs after commit; failures are logged, not rolled back.
func (s *Service) invalidate(ctx context.Context, keys ...string) {
	keys = append(keys, cachePrefix+".all", cachePrefix+".stats")
	if err := s.cache.Forget(ctx, keys...); err != nil {
		s.log.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func entityKey(id int64) string {
	return fmt.Sprintf("%s.%d", cachePrefix, id)
}
