package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"github.com/storekeeplabs/storekeep/internal/auth"
	"github.com/storekeeplabs/storekeep/internal/cache"
	"github.com/storekeeplabs/storekeep/internal/clock"
	"github.com/storekeeplabs/storekeep/internal/config"
	"github.com/storekeeplabs/storekeep/internal/migration"
	"github.com/storekeeplabs/storekeep/internal/observability"
	"github.com/storekeeplabs/storekeep/internal/product"
	"github.com/storekeeplabs/storekeep/internal/redis"
	"github.com/storekeeplabs/storekeep/internal/schedule"
	"github.com/storekeeplabs/storekeep/internal/seed"
	"github.com/storekeeplabs/storekeep/internal/server"
	"github.com/storekeeplabs/storekeep/internal/task"
	"github.com/storekeeplabs/storekeep/internal/user"
	"github.com/storekeeplabs/storekeep/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "storekeep",
		Short:   "Storekeep admin API",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newServeCmd(), newAllCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed default admin and demo users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run migrations and seed, then start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(); err != nil {
				return err
			}
			if err := runSeed(); err != nil {
				return err
			}
			runServe()
			return nil
		},
	}
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runSeed() error {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		fx.Invoke(func(conn *gorm.DB) error {
			return seed.EnsureDefaultUsers(conn)
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		redis.Module,
		cache.Module,
		auth.Module,
		user.Module,
		product.Module,
		schedule.Module,
		task.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
