package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/storekeeplabs/storekeep/internal/auth/password"
	"github.com/storekeeplabs/storekeep/internal/cache"
	"github.com/storekeeplabs/storekeep/internal/clock"
	"github.com/storekeeplabs/storekeep/internal/user/domain"
	"github.com/storekeeplabs/storekeep/internal/user/repository"
	"github.com/storekeeplabs/storekeep/internal/user/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, now time.Time) (domain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := service.New(service.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Cache: cache.NewRedisStore(rdb),
		TTL:   cache.TTL(5 * time.Minute),
		Clock: clock.Fixed(now),
	})
	return svc, db
}

func strPtr(s string) *string { return &s }

func TestCreateUser(t *testing.T) {
	svc, db := newTestService(t, time.Now().UTC())
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{
		Name:     "Jordan",
		Email:    "Jordan@Example.COM",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "jordan@example.com", resp.Email)
	assert.Equal(t, domain.RoleUser, resp.Role)
	assert.False(t, resp.EmailVerified)

	var stored domain.User
	require.NoError(t, db.First(&stored, "id = ?", resp.ID).Error)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.True(t, password.Verify(stored.Password, "secret123"))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t, time.Now().UTC())
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "B", Email: "A@EXAMPLE.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestCreateUserInvalidRole(t *testing.T) {
	svc, _ := newTestService(t, time.Now().UTC())

	_, err := svc.Create(context.Background(), domain.CreateRequest{
		Name:     "A",
		Email:    "a@example.com",
		Password: "secret123",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestUpdateUserPasswordOnlyWhenProvided(t *testing.T) {
	svc, db := newTestService(t, time.Now().UTC())
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	var before domain.User
	require.NoError(t, db.First(&before, "id = ?", resp.ID).Error)

	_, err = svc.Update(ctx, resp.ID, domain.UpdateRequest{Name: strPtr("Renamed")})
	require.NoError(t, err)

	var after domain.User
	require.NoError(t, db.First(&after, "id = ?", resp.ID).Error)
	assert.Equal(t, "Renamed", after.Name)
	assert.Equal(t, before.Password, after.Password)

	_, err = svc.Update(ctx, resp.ID, domain.UpdateRequest{Password: "newsecret"})
	require.NoError(t, err)
	require.NoError(t, db.First(&after, "id = ?", resp.ID).Error)
	assert.True(t, password.Verify(after.Password, "newsecret"))
}

func TestPromoteAndDemote(t *testing.T) {
	svc, _ := newTestService(t, time.Now().UTC())
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	promoted, err := svc.PromoteToAdmin(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)

	demoted, err := svc.DemoteToUser(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, demoted.Role)

	_, err = svc.PromoteToAdmin(ctx, 999999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFilters(t *testing.T) {
	svc, db := newTestService(t, time.Now().UTC())
	ctx := context.Background()

	a, err := svc.Create(ctx, domain.CreateRequest{Name: "Alice Smith", Email: "alice@example.com", Password: "secret123", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Bob Jones", Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", a.ID).Update("email_verified_at", &now).Error)

	out, err := svc.List(ctx, domain.ListRequest{Search: "alice"})
	require.NoError(t, err)
	require.Len(t, out.Users, 1)
	assert.Equal(t, "Alice Smith", out.Users[0].Name)

	verified := true
	out, err = svc.List(ctx, domain.ListRequest{EmailVerified: &verified})
	require.NoError(t, err)
	require.Len(t, out.Users, 1)
	assert.Equal(t, "alice@example.com", out.Users[0].Email)

	unverified := false
	out, err = svc.List(ctx, domain.ListRequest{EmailVerified: &unverified})
	require.NoError(t, err)
	require.Len(t, out.Users, 1)
	assert.Equal(t, "bob@example.com", out.Users[0].Email)

	out, err = svc.List(ctx, domain.ListRequest{Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, out.Users, 1)
	assert.Equal(t, "alice@example.com", out.Users[0].Email)
}

func TestVerifiedUnverifiedAdmins(t *testing.T) {
	svc, db := newTestService(t, time.Now().UTC())
	ctx := context.Background()

	a, err := svc.Create(ctx, domain.CreateRequest{Name: "A", Email: "a@example.com", Password: "secret123", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "B", Email: "b@example.com", Password: "secret123"})
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", a.ID).Update("email_verified_at", &now).Error)

	verified, err := svc.Verified(ctx)
	require.NoError(t, err)
	require.Len(t, verified, 1)
	assert.Equal(t, "a@example.com", verified[0].Email)

	unverified, err := svc.Unverified(ctx)
	require.NoError(t, err)
	require.Len(t, unverified, 1)
	assert.Equal(t, "b@example.com", unverified[0].Email)

	admins, err := svc.Admins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "a@example.com", admins[0].Email)
}

func TestStatisticsRecentWindow(t *testing.T) {
	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, db := newTestService(t, fixed)
	ctx := context.Background()

	recent, err := svc.Create(ctx, domain.CreateRequest{Name: "Recent", Email: "recent@example.com", Password: "secret123"})
	require.NoError(t, err)
	old, err := svc.Create(ctx, domain.CreateRequest{Name: "Old", Email: "old@example.com", Password: "secret123", Role: domain.RoleAdmin})
	require.NoError(t, err)

	// Push one signup outside the 7-day lookback.
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", old.ID).
		Update("created_at", fixed.Add(-30*24*time.Hour)).Error)
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", recent.ID).
		Update("created_at", fixed.Add(-2*24*time.Hour)).Error)

	verifiedAt := fixed.Add(-time.Hour)
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", old.ID).
		Update("email_verified_at", &verifiedAt).Error)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.VerifiedUsers)
	assert.Equal(t, int64(1), stats.UnverifiedUsers)
	assert.Equal(t, int64(1), stats.RecentUsers)
	assert.Equal(t, int64(1), stats.AdminUsers)
	assert.Equal(t, int64(1), stats.RegularUsers)
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newTestService(t, time.Now().UTC())
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, resp.ID))
	_, err = svc.Find(ctx, resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, resp.ID), domain.ErrNotFound)
}
