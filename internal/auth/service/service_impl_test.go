package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	authdomain "github.com/storekeeplabs/storekeep/internal/auth/domain"
	"github.com/storekeeplabs/storekeep/internal/auth/repository"
	"github.com/storekeeplabs/storekeep/internal/auth/service"
	"github.com/storekeeplabs/storekeep/internal/cache"
	"github.com/storekeeplabs/storekeep/internal/clock"
	"github.com/storekeeplabs/storekeep/internal/config"
	userdomain "github.com/storekeeplabs/storekeep/internal/user/domain"
	userrepository "github.com/storekeeplabs/storekeep/internal/user/repository"
	userservice "github.com/storekeeplabs/storekeep/internal/user/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, cfg config.Config, now time.Time) (authdomain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&userdomain.User{}, &authdomain.AuthToken{}))

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := cache.NewRedisStore(rdb)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fixed := clock.Fixed(now)
	userRepo := userrepository.Provide()
	users := userservice.New(userservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  userRepo,
		Cache: store,
		TTL:   cache.TTL(5 * time.Minute),
		Clock: fixed,
	})

	svc := service.New(service.Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Config:  cfg,
		Clock:   fixed,
		Tokens:  repository.New(),
		Users:   userRepo,
		UserSvc: users,
	})
	return svc, db
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, _ := newTestService(t, config.Config{}, time.Now().UTC())
	ctx := context.Background()

	session, err := svc.Register(ctx, authdomain.RegisterRequest{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "jordan@example.com", session.User.Email)
	assert.Equal(t, userdomain.RoleUser, session.User.Role)

	user, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t, config.Config{}, time.Now().UTC())
	ctx := context.Background()

	_, err := svc.Register(ctx, authdomain.RegisterRequest{
		Name: "Jordan", Email: "jordan@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	session, err := svc.Login(ctx, authdomain.LoginRequest{Email: "Jordan@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	_, err = svc.Login(ctx, authdomain.LoginRequest{Email: "jordan@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, authdomain.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService(t, config.Config{}, time.Now().UTC())
	ctx := context.Background()

	session, err := svc.Register(ctx, authdomain.RegisterRequest{
		Name: "Jordan", Email: "jordan@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.Token))

	_, err = svc.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, authdomain.ErrUnauthenticated)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t, config.Config{}, time.Now().UTC())

	_, err := svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, authdomain.ErrUnauthenticated)

	_, err = svc.Authenticate(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, authdomain.ErrUnauthenticated)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	cfg := config.Config{}
	cfg.Auth.TokenTTLHours = 1

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, db := newTestService(t, cfg, start)
	ctx := context.Background()

	session, err := svc.Register(ctx, authdomain.RegisterRequest{
		Name: "Jordan", Email: "jordan@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	// Age the token past its expiry.
	expired := start.Add(-time.Minute)
	require.NoError(t, db.Model(&authdomain.AuthToken{}).
		Where("token_hash = ?", authdomain.HashToken(session.Token)).
		Update("expires_at", &expired).Error)

	_, err = svc.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, authdomain.ErrUnauthenticated)
}

func TestAuthenticateTouchesLastUsed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, db := newTestService(t, config.Config{}, now)
	ctx := context.Background()

	session, err := svc.Register(ctx, authdomain.RegisterRequest{
		Name: "Jordan", Email: "jordan@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)

	var record authdomain.AuthToken
	require.NoError(t, db.First(&record, "token_hash = ?", authdomain.HashToken(session.Token)).Error)
	require.NotNil(t, record.LastUsedAt)
	assert.Equal(t, now, record.LastUsedAt.UTC())
}
