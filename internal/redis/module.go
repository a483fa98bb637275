package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/storekeeplabs/storekeep/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("redis",
	fx.Provide(NewClient),
)

func NewClient(cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Ping to verify connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
