package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storekeeplabs/storekeep/internal/config"
	"go.uber.org/fx"
)

// Store is the injected cache capability used for read-through memoization.
// Entries live until their TTL expires or a write invalidates them.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Forget(ctx context.Context, keys ...string) error
}

type redisStore struct {
	client *redis.Client
}

var Module = fx.Module("cache",
	fx.Provide(NewRedisStore),
	fx.Provide(NewTTL),
)

// TTL is the default entry lifetime, wired from config.
type TTL time.Duration

func NewTTL(cfg config.Config) TTL {
	seconds := cfg.Cache.TTLSeconds
	if seconds <= 0 {
		seconds = 300
	}
	return TTL(time.Duration(seconds) * time.Second)
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, payload, ttl).Err()
}

func (s *redisStore) Forget(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Remember is the cache-aside read path: return the cached snapshot when
// present, otherwise fetch from the source of truth and populate the cache.
// A miss that fetches successfully is visible to subsequent callers until the
// TTL elapses or an invalidation removes it.
func Remember[T any](ctx context.Context, store Store, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := store.Get(ctx, key, &cached)
	if err == nil && hit {
		return cached, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := store.Set(ctx, key, value, ttl); err != nil {
		// Best effort: a failed populate degrades hit rate, not correctness.
		return value, nil
	}
	return value, nil
}
