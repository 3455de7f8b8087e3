package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"goldmart-backend/internal/domain"
	"goldmart-backend/internal/service"
)

// RateHandler serves the gold rate endpoints.
type RateHandler struct {
	service *service.RateService
	logger  *slog.Logger
}

// NewRateHandler creates a new rate HTTP handler.
func NewRateHandler(svc *service.RateService, logger *slog.Logger) *RateHandler {
	return &RateHandler{service: svc, logger: logger}
}

// RateValue holds the text of a JSON number or string as sent.
type RateValue string

func (v *RateValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = RateValue(s)
		return nil
	}
	*v = RateValue(b)
	return nil
}

// RateRequest is the body of create and update rate requests. Price may be
// a JSON number or a numeric string; its text is stored as is.
type RateRequest struct {
	Price RateValue `json:"price" validate:"required,numeric"`
}

type ratesResponse struct {
	Rates []domain.Rate `json:"rates"`
}

// ListRates handles GET /api/rates
func (h *RateHandler) ListRates(c *gin.Context) {
	rates, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, ratesResponse{Rates: rates})
}

// CreateRate handles POST /api/rates (admin).
func (h *RateHandler) CreateRate(c *gin.Context) {
	var req RateRequest
	if !bind(c, &req) {
		return
	}

	rate, err := h.service.Create(c.Request.Context(), string(req.Price))
	if err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, rate)
}

// UpdateRate handles PUT /api/rates/:id (admin). The value is checked by
// the service once the rate is known to exist.
func (h *RateHandler) UpdateRate(c *gin.Context) {
	var req RateRequest
	if !decodeBody(c, &req) {
		return
	}

	rate, err := h.service.Update(c.Request.Context(), c.Param("id"), string(req.Price))
	if err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, rate)
}

// DeleteRate handles DELETE /api/rates/:id (admin).
func (h *RateHandler) DeleteRate(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Rate removed"})
}
