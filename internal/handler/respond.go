package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"goldmart-backend/internal/apperrors"
	"goldmart-backend/internal/logger"
	"goldmart-backend/internal/validator"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// MessageResponse confirms a mutation that returns no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeError maps err onto a status and the standard error body. Internal
// errors are logged and their text is not sent to the client.
func writeError(c *gin.Context, err error, fallback *slog.Logger) {
	ctx := c.Request.Context()
	requestID := logger.CorrelationIDFromContext(ctx)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, ErrorResponse{Code: appErr.Code, Message: appErr.Message, RequestID: requestID})
		return
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code, message = "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		code, message = "INVALID_INPUT", err.Error()
	}

	if status == http.StatusInternalServerError {
		logger.FromContext(ctx, fallback).ErrorContext(ctx, "internal error",
			slog.String("error", err.Error()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
	}

	c.JSON(status, ErrorResponse{Code: code, Message: message, RequestID: requestID})
}

// writeValidationError reports field-level validation failures, or a plain
// INVALID_INPUT for anything else (typically a malformed body).
func writeValidationError(c *gin.Context, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		})
		return
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
}

// decodeBody reads the JSON body without running struct validation.
func decodeBody(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// bind decodes the JSON body into req and validates it. It writes the error
// response itself and reports whether the handler may continue.
func bind(c *gin.Context, req any) bool {
	if !decodeBody(c, req) {
		return false
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(c, err)
		return false
	}
	return true
}
