package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/storekeeplabs/storekeep/internal/product/domain"
	"github.com/storekeeplabs/storekeep/pkg/db/option"
	"github.com/storekeeplabs/storekeep/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

var sortableColumns = map[string]bool{
	"name":       true,
	"price":      true,
	"stock":      true,
	"created_at": true,
	"updated_at": true,
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).First(&p, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var items []domain.Product
	if err := db.WithContext(ctx).Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func applyFilter(stmt *gorm.DB, filter domain.ListRequest) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		stmt = stmt.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.MinPrice != nil {
		stmt = stmt.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		stmt = stmt.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			stmt = stmt.Where("stock > 0")
		} else {
			stmt = stmt.Where("stock = 0")
		}
	}
	return stmt
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest, page pagination.Pagination) ([]domain.Product, error) {
	var items []domain.Product
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.Product{}), filter)

	stmt = option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.SortOrder, sortableColumns)).Apply(stmt)
	stmt = option.ApplyPagination(page).Apply(stmt)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, filter domain.ListRequest) (int64, error) {
	var total int64
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.Product{}), filter)
	if err := stmt.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	// Select("*") writes every field, including cleared nullable columns.
	return db.WithContext(ctx).Model(product).Select("*").Omit("id", "created_at").Updates(product).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id).Error
}

func (r *repo) AdjustStock(ctx context.Context, db *gorm.DB, id int64, delta int) error {
	return db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).
		UpdateColumns(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": db.NowFunc(),
		}).Error
}

func (r *repo) SetStock(ctx context.Context, db *gorm.DB, id int64, quantity int) error {
	return db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).
		UpdateColumns(map[string]any{
			"stock":      quantity,
			"updated_at": db.NowFunc(),
		}).Error
}

func (r *repo) LowStock(ctx context.Context, db *gorm.DB, threshold int) ([]domain.Product, error) {
	var items []domain.Product
	err := db.WithContext(ctx).
		Where("stock > 0 AND stock <= ?", threshold).
		Order("stock asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) OutOfStock(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var items []domain.Product
	if err := db.WithContext(ctx).Where("stock = 0").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB) (*domain.Statistics, error) {
	var stats domain.Statistics
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*)                                              AS total_products,
		        COALESCE(SUM(CASE WHEN stock > 0 THEN 1 ELSE 0 END), 0) AS in_stock,
		        COALESCE(SUM(CASE WHEN stock = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock,
		        COALESCE(SUM(CASE WHEN stock > 0 AND stock <= ? THEN 1 ELSE 0 END), 0) AS low_stock,
		        COALESCE(SUM(price * stock), 0)                       AS total_value,
		        COALESCE(AVG(price), 0)                               AS average_price,
		        COALESCE(SUM(stock), 0)                               AS total_stock
		 FROM products`,
		domain.LowStockDefaultThreshold,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
