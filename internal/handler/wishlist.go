package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goldmart-backend/internal/auth"
)

// AddToWishlist handles POST /api/products/:id/wishlist
func (h *ProductHandler) AddToWishlist(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	if err := h.service.AddToWishlist(c.Request.Context(), c.Param("id"), caller); err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Product added to wishlist"})
}

// RemoveFromWishlist handles POST /api/products/:id/remove
func (h *ProductHandler) RemoveFromWishlist(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	if err := h.service.RemoveFromWishlist(c.Request.Context(), c.Param("id"), caller); err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Product removed from wishlist"})
}
