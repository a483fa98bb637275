package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/storekeeplabs/storekeep/pkg/db/pagination"
)

type StockOperation string

const (
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
	StockSet      StockOperation = "set"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	All(ctx context.Context) ([]Response, error)
	Find(ctx context.Context, id int64) (*Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id int64) error
	UpdateStock(ctx context.Context, id int64, quantity int, op StockOperation) (*Response, error)
	LowStock(ctx context.Context, threshold int) ([]Response, error)
	OutOfStock(ctx context.Context) ([]Response, error)
	Statistics(ctx context.Context) (*Statistics, error)
}

type ListRequest struct {
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	InStock   *bool
	SortBy    string
	SortOrder string
	Page      pagination.Pagination
}

type ListResponse struct {
	Products []Response          `json:"products"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type CreateRequest struct {
	Name        string
	Description *string
	Price       float64
	Stock       int
}

// UpdateRequest merges by presence: nil fields keep their current value, so
// an explicit empty string still clears a nullable column.
type UpdateRequest struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
}

type Response struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	Price          string  `json:"price"`
	PriceFormatted string  `json:"price_formatted"`
	Stock          int     `json:"stock"`
	StockStatus    string  `json:"stock_status"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
	CreatedAtHuman string  `json:"created_at_human"`
	UpdatedAtHuman string  `json:"updated_at_human"`
}

type Statistics struct {
	TotalProducts int64   `json:"total_products"`
	InStock       int64   `json:"in_stock"`
	OutOfStock    int64   `json:"out_of_stock"`
	LowStock      int64   `json:"low_stock"`
	TotalValue    float64 `json:"total_value"`
	AveragePrice  float64 `json:"average_price"`
	TotalStock    int64   `json:"total_stock"`
}

var (
	ErrNotFound  = errors.New("product_not_found")
	ErrNameTaken = errors.New("product_name_taken")
)

const (
	StatusInStock    = "in_stock"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"

	// LowStockDefaultThreshold marks the stock level below which stock_status
	// and statistics report a product as running low.
	LowStockDefaultThreshold = 10
)

// StockStatus classifies a stock level. Anything at or below zero is out of
// stock; stock arithmetic is unclamped, so negative values are possible.
func StockStatus(stock int) string {
	if stock <= 0 {
		return StatusOutOfStock
	}
	if stock < LowStockDefaultThreshold {
		return StatusLowStock
	}
	return StatusInStock
}

func ToResponse(p *Product) Response {
	return Response{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          fmt.Sprintf("%.2f", p.Price),
		PriceFormatted: formatMoney(p.Price),
		Stock:          p.Stock,
		StockStatus:    StockStatus(p.Stock),
		CreatedAt:      p.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      p.UpdatedAt.Format("2006-01-02 15:04:05"),
		CreatedAtHuman: humanize.Time(p.CreatedAt),
		UpdatedAtHuman: humanize.Time(p.UpdatedAt),
	}
}

func ToResponses(items []Product) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, ToResponse(&items[i]))
	}
	return out
}

func formatMoney(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	neg := strings.HasPrefix(whole, "-")
	if neg {
		whole = whole[1:]
	}
	for i := len(whole) - 3; i > 0; i -= 3 {
		whole = whole[:i] + "," + whole[i:]
	}
	if neg {
		whole = "-" + whole
	}
	return "$" + whole + "." + parts[1]
}
