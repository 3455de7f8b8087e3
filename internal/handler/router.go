package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"goldmart-backend/internal/auth"
	"goldmart-backend/internal/metrics"
	"goldmart-backend/internal/service"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Products       *service.ProductService
	Rates          *service.RateService
	Verifier       *auth.Verifier
	Health         *HealthHandler
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	AllowedOrigins []string
	Production     bool
}

// NewRouter creates the gin engine with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := gin.New()

	// Global middleware
	r.Use(recovery(cfg.Logger))
	r.Use(requestLogger(cfg.Logger))
	r.Use(cfg.Metrics.Middleware())
	r.Use(secureHeaders(cfg.Production))
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "NOT_FOUND", Message: "route not found: " + c.Request.URL.Path})
	})

	// Health and metrics
	r.GET("/health/live", cfg.Health.Live)
	r.GET("/health/ready", cfg.Health.Ready)
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	protect := auth.Protect(cfg.Verifier, cfg.Logger)
	admin := auth.Admin()

	products := NewProductHandler(cfg.Products, cfg.Logger)
	p := r.Group("/api/products")
	{
		p.GET("", products.ListProducts)
		p.POST("", protect, admin, products.CreateProduct)
		p.GET("/featured", products.ListFeatured)
		p.GET("/colored", products.ListByColor)
		p.GET("/branded", products.ListByBrand)
		p.GET("/priced", products.ListByMaxPrice)
		p.GET("/sorted", products.ListSortedByName)
		p.GET("/filter", products.ListSortedByDate)
		p.GET("/top", products.ListTop)
		p.GET("/wishlist", protect, products.ListWishlisted)
		p.GET("/category/:id", products.ListByCategory)

		p.POST("/:id/reviews", protect, products.CreateReview)
		p.PUT("/:id/reviews", protect, products.UpdateReview)
		p.DELETE("/:id/reviews", protect, products.DeleteReview)
		p.POST("/:id/wishlist", protect, products.AddToWishlist)
		p.POST("/:id/remove", protect, products.RemoveFromWishlist)

		p.GET("/:id", products.GetProduct)
		p.PUT("/:id", protect, admin, products.UpdateProduct)
		p.DELETE("/:id", protect, admin, products.DeleteProduct)
	}

	rates := NewRateHandler(cfg.Rates, cfg.Logger)
	rt := r.Group("/api/rates")
	{
		rt.GET("", rates.ListRates)
		rt.POST("", protect, admin, rates.CreateRate)
		rt.PUT("/:id", protect, admin, rates.UpdateRate)
		rt.DELETE("/:id", protect, admin, rates.DeleteRate)
	}

	return r
}
