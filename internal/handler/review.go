package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"goldmart-backend/internal/auth"
	"goldmart-backend/internal/service"
)

// ReviewRequest is the body of create and update review requests. Rating
// may be sent as a JSON number or a numeric string.
type ReviewRequest struct {
	Rating  json.Number `json:"rating" validate:"required,numeric"`
	Comment string      `json:"comment" validate:"max=2000"`
}

func (r ReviewRequest) input() (service.ReviewInput, bool) {
	rating, err := r.Rating.Float64()
	if err != nil {
		return service.ReviewInput{}, false
	}
	return service.ReviewInput{Rating: rating, Comment: r.Comment}, true
}

func (h *ProductHandler) bindReview(c *gin.Context) (service.ReviewInput, bool) {
	var req ReviewRequest
	if !bind(c, &req) {
		return service.ReviewInput{}, false
	}
	in, ok := req.input()
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_INPUT", Message: "rating must be a number"})
	}
	return in, ok
}

// CreateReview handles POST /api/products/:id/reviews
func (h *ProductHandler) CreateReview(c *gin.Context) {
	in, ok := h.bindReview(c)
	if !ok {
		return
	}

	caller, _ := auth.CallerFrom(c)
	if err := h.service.CreateReview(c.Request.Context(), c.Param("id"), caller, in); err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Review added"})
}

// UpdateReview handles PUT /api/products/:id/reviews
func (h *ProductHandler) UpdateReview(c *gin.Context) {
	in, ok := h.bindReview(c)
	if !ok {
		return
	}

	caller, _ := auth.CallerFrom(c)
	if err := h.service.UpdateReview(c.Request.Context(), c.Param("id"), caller, in); err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Review updated"})
}

// DeleteReview handles DELETE /api/products/:id/reviews
func (h *ProductHandler) DeleteReview(c *gin.Context) {
	caller, _ := auth.CallerFrom(c)
	if err := h.service.DeleteReview(c.Request.Context(), c.Param("id"), caller); err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Review removed"})
}
