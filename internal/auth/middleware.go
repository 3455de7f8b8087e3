package auth

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"goldmart-backend/internal/apperrors"
	"goldmart-backend/internal/domain"
	"goldmart-backend/internal/logger"
)

const callerKey = "caller"

// Protect rejects requests without a valid bearer token and stores the
// resolved caller on the gin context.
func Protect(v *Verifier, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, apperrors.Unauthorized("not authorized, no token"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			abort(c, apperrors.Unauthorized("not authorized, no token"))
			return
		}

		caller, err := v.Verify(parts[1])
		if err != nil {
			log.WarnContext(c.Request.Context(), "invalid token",
				slog.String("path", c.Request.URL.Path),
				slog.String("error", err.Error()),
			)
			abort(c, apperrors.Unauthorized("not authorized, token failed"))
			return
		}

		c.Set(callerKey, *caller)
		ctx := logger.WithUserID(c.Request.Context(), caller.ID.Hex())
		ctx = logger.NewContext(ctx, logger.WithContext(ctx, log))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Admin lets only admin callers through. It must run after Protect.
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok || !caller.IsAdmin {
			abort(c, apperrors.Forbidden("not authorized as an admin"))
			return
		}
		c.Next()
	}
}

// CallerFrom returns the caller stored by Protect.
func CallerFrom(c *gin.Context) (domain.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return domain.Caller{}, false
	}
	caller, ok := v.(domain.Caller)
	return caller, ok
}

func abort(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.Status, err)
}
