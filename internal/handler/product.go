package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"goldmart-backend/internal/auth"
	"goldmart-backend/internal/domain"
	"goldmart-backend/internal/service"
)

// ProductHandler serves the catalog endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// ProductRequest is the body of create and update product requests.
type ProductRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Weight       string  `json:"weight" validate:"max=50"`
	Description  string  `json:"description" validate:"max=5000"`
	Image        string  `json:"image" validate:"max=1000"`
	Code         string  `json:"code" validate:"max=100"`
	Category     string  `json:"category" validate:"omitempty,mongodb"`
	Color        string  `json:"color" validate:"max=50"`
	Brand        string  `json:"brand" validate:"max=100"`
	Price        float64 `json:"price" validate:"gte=0"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
}

func (r ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:         r.Name,
		Weight:       r.Weight,
		Description:  r.Description,
		Image:        r.Image,
		Code:         r.Code,
		Category:     r.Category,
		Color:        r.Color,
		Brand:        r.Brand,
		Price:        r.Price,
		CountInStock: r.CountInStock,
	}
}

type productsResponse struct {
	Products []domain.Product `json:"products"`
}

func (h *ProductHandler) writeList(c *gin.Context, products []domain.Product, err error) {
	if err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, productsResponse{Products: products})
}

// ListProducts handles GET /api/products?keyword=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.service.List(c.Request.Context(), c.Query("keyword"))
	h.writeList(c, products, err)
}

// ListByColor handles GET /api/products/colored?color=
func (h *ProductHandler) ListByColor(c *gin.Context) {
	products, err := h.service.ListByColor(c.Request.Context(), c.Query("color"))
	h.writeList(c, products, err)
}

// ListByBrand handles GET /api/products/branded?brand=
func (h *ProductHandler) ListByBrand(c *gin.Context) {
	products, err := h.service.ListByBrand(c.Request.Context(), c.Query("brand"))
	h.writeList(c, products, err)
}

// ListByMaxPrice handles GET /api/products/priced?price=
func (h *ProductHandler) ListByMaxPrice(c *gin.Context) {
	products, err := h.service.ListByMaxPrice(c.Request.Context(), c.Query("price"))
	h.writeList(c, products, err)
}

// ListSortedByName handles GET /api/products/sorted?alpha=asc|desc
func (h *ProductHandler) ListSortedByName(c *gin.Context) {
	products, err := h.service.ListSortedByName(c.Request.Context(), c.Query("alpha"))
	h.writeList(c, products, err)
}

// ListSortedByDate handles GET /api/products/filter?asc=asc|desc
func (h *ProductHandler) ListSortedByDate(c *gin.Context) {
	products, err := h.service.ListSortedByDate(c.Request.Context(), c.Query("asc"))
	h.writeList(c, products, err)
}

// ListFeatured handles GET /api/products/featured
func (h *ProductHandler) ListFeatured(c *gin.Context) {
	products, err := h.service.ListFeatured(c.Request.Context())
	h.writeList(c, products, err)
}

// ListTop handles GET /api/products/top. The result is a bare array.
func (h *ProductHandler) ListTop(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_PARAMETER", Message: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	products, err := h.service.ListTop(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, products)
}

// ListByCategory handles GET /api/products/category/:id
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	products, err := h.service.ListByCategory(c.Request.Context(), c.Param("id"))
	h.writeList(c, products, err)
}

// ListWishlisted handles GET /api/products/wishlist for the current caller.
func (h *ProductHandler) ListWishlisted(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	products, err := h.service.ListWishlistedBy(c.Request.Context(), caller)
	h.writeList(c, products, err)
}

// GetProduct handles GET /api/products/:id. The product is returned bare.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /api/products (admin).
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if !bind(c, &req) {
		return
	}

	caller, _ := auth.CallerFrom(c)
	product, err := h.service.Create(c.Request.Context(), caller, req.input())
	if err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/:id (admin).
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if !bind(c, &req) {
		return
	}

	product, err := h.service.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/:id (admin).
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Product removed"})
}
