package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"goldmart-backend/internal/apperrors"
	"goldmart-backend/internal/domain"
	"goldmart-backend/internal/event"
	"goldmart-backend/internal/logger"
	"goldmart-backend/internal/repository"
)

// RateService implements CRUD over gold rate records.
type RateService struct {
	repo      repository.RateRepository
	publisher event.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewRateService creates a new rate service.
func NewRateService(repo repository.RateRepository, publisher event.Publisher, log *slog.Logger) *RateService {
	return &RateService{
		repo:      repo,
		publisher: publisher,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// normalizeRate trims the value and checks that it reads as a number. The
// text form is what gets stored.
func normalizeRate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return "", apperrors.InvalidInput("price must be numeric")
	}
	return value, nil
}

// List returns every rate in store order.
func (s *RateService) List(ctx context.Context) ([]domain.Rate, error) {
	rates, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	return rates, nil
}

// Create stores a new rate.
func (s *RateService) Create(ctx context.Context, value string) (*domain.Rate, error) {
	value, err := normalizeRate(value)
	if err != nil {
		return nil, err
	}
	now := s.now()
	rate := &domain.Rate{Rate: value, CreatedAt: now, UpdatedAt: now}

	if err := s.repo.Create(ctx, rate); err != nil {
		return nil, fmt.Errorf("create rate: %w", err)
	}

	s.changed(ctx, rate.ID.Hex(), rate.Rate, "created")
	return rate, nil
}

// Update overwrites the value of an existing rate.
func (s *RateService) Update(ctx context.Context, id, value string) (*domain.Rate, error) {
	oid, err := parseID(id, "rate")
	if err != nil {
		return nil, err
	}
	rate, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("get rate: %w", err)
	}
	value, err = normalizeRate(value)
	if err != nil {
		return nil, err
	}

	rate.Rate = value
	rate.UpdatedAt = s.now()
	if err := s.repo.Replace(ctx, rate); err != nil {
		return nil, fmt.Errorf("update rate: %w", err)
	}

	s.changed(ctx, rate.ID.Hex(), rate.Rate, "updated")
	return rate, nil
}

// Delete removes a rate.
func (s *RateService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "rate")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, oid); err != nil {
		return fmt.Errorf("delete rate: %w", err)
	}

	s.changed(ctx, id, "", "deleted")
	return nil
}

func (s *RateService) changed(ctx context.Context, id, value, action string) {
	publish(ctx, s.publisher, s.logger, event.TopicRateChanged, id, event.AggregateRate, event.RateData{
		ID: id, Rate: value, Action: action,
	})
	logger.FromContext(ctx, s.logger).InfoContext(ctx, "rate "+action, slog.String("rate_id", id), slog.String("rate", value))
}
