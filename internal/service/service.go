package service

import (
	"context"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"goldmart-backend/internal/apperrors"
	"goldmart-backend/internal/event"
	"goldmart-backend/internal/logger"
)

// parseID converts a path identifier. A malformed id cannot name a stored
// document, so it is reported as not found.
func parseID(id, resource string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.NotFound(resource)
	}
	return oid, nil
}

// ParseDirection maps a caller supplied sort token onto a mongo sort
// direction. An empty token sorts ascending.
func ParseDirection(token string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "", "1", "asc", "ascending":
		return 1, nil
	case "-1", "desc", "descending":
		return -1, nil
	default:
		return 0, apperrors.InvalidInput("sort direction must be asc or desc")
	}
}

// publish emits an event after a successful write. Failures are logged and
// never surface to the caller.
func publish(ctx context.Context, p event.Publisher, l *slog.Logger, topic, aggregateID, aggregateType string, data any) {
	e, err := event.New(topic, aggregateID, aggregateType, data)
	if err != nil {
		logger.FromContext(ctx, l).ErrorContext(ctx, "failed to build event", slog.String("topic", topic), slog.String("error", err.Error()))
		return
	}
	e.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.Publish(ctx, topic, e); err != nil {
		logger.FromContext(ctx, l).ErrorContext(ctx, "failed to publish event",
			slog.String("topic", topic),
			slog.String("aggregate_id", aggregateID),
			slog.String("error", err.Error()),
		)
	}
}
