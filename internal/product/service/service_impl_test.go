package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/storekeeplabs/storekeep/internal/cache"
	"github.com/storekeeplabs/storekeep/internal/product/domain"
	"github.com/storekeeplabs/storekeep/internal/product/repository"
	"github.com/storekeeplabs/storekeep/internal/product/service"
	"github.com/storekeeplabs/storekeep/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Product{}))

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := cache.NewRedisStore(rdb)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := service.New(service.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Cache: store,
		TTL:   cache.TTL(5 * time.Minute),
	})
	return svc, db, mr
}

func strPtr(s string) *string    { return &s }
func intPtr(i int) *int          { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestCreateProduct(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{
		Name:        "Widget",
		Description: strPtr("A widget"),
		Price:       999.99,
		Stock:       25,
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Widget", resp.Name)
	assert.Equal(t, "999.99", resp.Price)
	assert.Equal(t, "$999.99", resp.PriceFormatted)
	assert.Equal(t, 25, resp.Stock)
	assert.Equal(t, domain.StatusInStock, resp.StockStatus)

	found, err := svc.Find(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, found.ID)
}

func TestCreateProductDuplicateName(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Price: 1, Stock: 1})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Widget", Price: 2, Stock: 2})
	assert.ErrorIs(t, err, domain.ErrNameTaken)
}

func TestFindServesFromCache(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Price: 10, Stock: 5})
	require.NoError(t, err)

	// Warm the cache.
	_, err = svc.Find(ctx, resp.ID)
	require.NoError(t, err)

	// Delete behind the service's back: the cached snapshot should still serve.
	require.NoError(t, db.Exec("DELETE FROM products WHERE id = ?", resp.ID).Error)

	found, err := svc.Find(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, found.ID)
}

func TestFindMissingNotCached(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()

	_, err := svc.Find(ctx, 424242)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, mr.Keys())
}

func TestUpdateProductPartial(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{
		Name:        "Widget",
		Description: strPtr("original"),
		Price:       10,
		Stock:       5,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, resp.ID, domain.UpdateRequest{Price: floatPtr(12.5)})
	require.NoError(t, err)
	assert.Equal(t, "12.50", updated.Price)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, "original", *updated.Description)
	assert.Equal(t, 5, updated.Stock)
}

func TestUpdateProductEmptyPayloadIsNoOp(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Price: 10, Stock: 5})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, resp.ID, domain.UpdateRequest{})
	require.NoError(t, err)
	assert.Equal(t, resp.Name, updated.Name)
	assert.Equal(t, resp.Price, updated.Price)
	assert.Equal(t, resp.Stock, updated.Stock)
}

func TestUpdateProductNameConflict(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "First", Price: 1, Stock: 1})
	require.NoError(t, err)
	second, err := svc.Create(ctx, domain.CreateRequest{Name: "Second", Price: 1, Stock: 1})
	require.NoError(t, err)

	_, err = svc.Update(ctx, second.ID, domain.UpdateRequest{Name: strPtr("First")})
	assert.ErrorIs(t, err, domain.ErrNameTaken)
}

func TestUpdateStockOperations(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Price: 10, Stock: 50})
	require.NoError(t, err)

	after, err := svc.UpdateStock(ctx, resp.ID, 20, domain.StockAdd)
	require.NoError(t, err)
	assert.Equal(t, 70, after.Stock)

	after, err = svc.UpdateStock(ctx, resp.ID, 20, domain.StockSubtract)
	require.NoError(t, err)
	assert.Equal(t, 50, after.Stock)

	after, err = svc.UpdateStock(ctx, resp.ID, 7, domain.StockSet)
	require.NoError(t, err)
	assert.Equal(t, 7, after.Stock)
}

func TestUpdateStockSubtractBelowZero(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Price: 10, Stock: 50})
	require.NoError(t, err)

	after, err := svc.UpdateStock(ctx, resp.ID, 60, domain.StockSubtract)
	require.NoError(t, err)
	assert.Equal(t, -10, after.Stock)
	assert.Equal(t, domain.StatusOutOfStock, after.StockStatus)
}

func TestUpdateStockMissingProduct(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.UpdateStock(context.Background(), 999, 5, domain.StockAdd)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLowStockOrdering(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for name, stock := range map[string]int{"a": 0, "b": 3, "c": 15, "d": 9, "e": 5} {
		_, err := svc.Create(ctx, domain.CreateRequest{Name: name, Price: 1, Stock: stock})
		require.NoError(t, err)
	}

	items, err := svc.LowStock(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, 3, items[0].Stock)
	assert.Equal(t, 5, items[1].Stock)
	assert.Equal(t, 9, items[2].Stock)
}

func TestLowStockThresholdInclusive(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for name, stock := range map[string]int{"a": 0, "b": 3, "c": 5, "d": 9} {
		_, err := svc.Create(ctx, domain.CreateRequest{Name: name, Price: 1, Stock: stock})
		require.NoError(t, err)
	}

	items, err := svc.LowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Stock)
	assert.Equal(t, 5, items[1].Stock)
}

func TestOutOfStock(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "gone", Price: 1, Stock: 0})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "here", Price: 1, Stock: 4})
	require.NoError(t, err)

	items, err := svc.OutOfStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "gone", items[0].Name)
}

func TestDeleteProductInvalidatesCache(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Price: 10, Stock: 5})
	require.NoError(t, err)

	_, err = svc.Find(ctx, resp.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, mr.Keys())

	require.NoError(t, svc.Delete(ctx, resp.ID))

	_, err = svc.Find(ctx, resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, mr.Keys())
}

func TestStatisticsCachedUntilWrite(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "a", Price: 10, Stock: 20})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "b", Price: 20, Stock: 0})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "c", Price: 30, Stock: 3})
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.InStock)
	assert.Equal(t, int64(1), stats.OutOfStock)
	assert.Equal(t, int64(1), stats.LowStock)
	assert.Equal(t, int64(23), stats.TotalStock)
	assert.InDelta(t, 20.0, stats.AveragePrice, 0.001)
	assert.InDelta(t, 10*20+30*3, stats.TotalValue, 0.001)

	// Cached snapshot survives until a write invalidates it.
	again, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.TotalProducts, again.TotalProducts)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "d", Price: 5, Stock: 1})
	require.NoError(t, err)

	fresh, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), fresh.TotalProducts)
}

func TestListFiltersAndPagination(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	seed := []domain.CreateRequest{
		{Name: "Red Chair", Description: strPtr("wooden chair"), Price: 40, Stock: 10},
		{Name: "Blue Chair", Description: strPtr("plastic chair"), Price: 25, Stock: 0},
		{Name: "Desk Lamp", Description: strPtr("warm light"), Price: 15, Stock: 7},
	}
	for _, req := range seed {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	out, err := svc.List(ctx, domain.ListRequest{Search: "chair"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.PageInfo.Total)

	inStock := true
	out, err = svc.List(ctx, domain.ListRequest{Search: "chair", InStock: &inStock})
	require.NoError(t, err)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "Red Chair", out.Products[0].Name)

	out, err = svc.List(ctx, domain.ListRequest{
		MinPrice:  floatPtr(20),
		SortBy:    "price",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	require.Len(t, out.Products, 2)
	assert.Equal(t, "Blue Chair", out.Products[0].Name)

	out, err = svc.List(ctx, domain.ListRequest{
		SortBy: "price", SortOrder: "asc",
		Page: pagination.Pagination{Page: 2, PerPage: 2},
	})
	require.NoError(t, err)
	require.Len(t, out.Products, 1)
	assert.Equal(t, int64(3), out.PageInfo.Total)
	assert.Equal(t, 2, out.PageInfo.LastPage)
	assert.Equal(t, 2, out.PageInfo.CurrentPage)
}

func TestListConflictingPriceBounds(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "Desk Lamp", Price: 50, Stock: 5})
	require.NoError(t, err)

	// min > max is passed through to the store and yields an empty page, not an error.
	out, err := svc.List(ctx, domain.ListRequest{MinPrice: floatPtr(100), MaxPrice: floatPtr(10)})
	require.NoError(t, err)
	assert.Empty(t, out.Products)
	assert.Equal(t, int64(0), out.PageInfo.Total)
}
