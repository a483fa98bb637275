package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	productdomain "github.com/storekeeplabs/storekeep/internal/product/domain"
	"github.com/storekeeplabs/storekeep/pkg/db/pagination"
)

type createProductRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Stock       *int     `json:"stock" binding:"required,gte=0"`
}

type updateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
}

type updateStockRequest struct {
	Quantity  *int   `json:"quantity" binding:"required,gte=0"`
	Operation string `json:"operation" binding:"required,oneof=add subtract set"`
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search    string `form:"search"`
		MinPrice  string `form:"min_price"`
		MaxPrice  string `form:"max_price"`
		InStock   string `form:"in_stock"`
		SortBy    string `form:"sort_by"`
		SortOrder string `form:"sort_order"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		s.AbortWithError(c, ErrInvalidRequest)
		return
	}

	minPrice, err := parseOptionalFloat(query.MinPrice)
	if err != nil {
		s.AbortWithError(c, newValidationError("min_price", "The min_price field must be a number."))
		return
	}
	maxPrice, err := parseOptionalFloat(query.MaxPrice)
	if err != nil {
		s.AbortWithError(c, newValidationError("max_price", "The max_price field must be a number."))
		return
	}
	inStock, err := parseOptionalBool(query.InStock)
	if err != nil {
		s.AbortWithError(c, newValidationError("in_stock", "The in_stock field must be a boolean."))
		return
	}

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Search:    strings.TrimSpace(query.Search),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		InStock:   inStock,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
		Page:      query.Pagination,
	})
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "Products retrieved successfully", resp)
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
	})
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondCreated(c, "Product created successfully", resp)
}

func (s *Server) GetProduct(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("Product not found"))
		return
	}

	resp, err := s.productSvc.Find(c.Request.Context(), id)
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "Product retrieved successfully", resp)
}

func (s *Server) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("Product not found"))
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.productSvc.Update(c.Request.Context(), id, productdomain.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "Product updated successfully", resp)
}

func (s *Server) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("Product not found"))
		return
	}

	if err := s.productSvc.Delete(c.Request.Context(), id); err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "Product deleted successfully", nil)
}

func (s *Server) UpdateProductStock(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("Product not found"))
		return
	}

	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.productSvc.UpdateStock(c.Request.Context(), id, *req.Quantity, productdomain.StockOperation(req.Operation))
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "Product stock updated successfully", resp)
}

func (s *Server) AllProducts(c *gin.Context) {
	resp, err := s.productSvc.All(c.Request.Context())
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "Products retrieved successfully", resp)
}

func (s *Server) OutOfStockProducts(c *gin.Context) {
	resp, err := s.productSvc.OutOfStock(c.Request.Context())
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "Out of stock products retrieved successfully", resp)
}

func (s *Server) LowStockProducts(c *gin.Context) {
	threshold := productdomain.LowStockDefaultThreshold
	if raw := strings.TrimSpace(c.Query("threshold")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.AbortWithError(c, newValidationError("threshold", "The threshold field must be an integer."))
			return
		}
		threshold = parsed
	}

	resp, err := s.productSvc.LowStock(c.Request.Context(), threshold)
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "Low stock products retrieved successfully", resp)
}

func (s *Server) ProductStatistics(c *gin.Context) {
	stats, err := s.productSvc.Statistics(c.Request.Context())
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "Statistics retrieved successfully", stats)
}
