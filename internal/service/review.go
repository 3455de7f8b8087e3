package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"goldmart-backend/internal/apperrors"
	"goldmart-backend/internal/domain"
	"goldmart-backend/internal/event"
	"goldmart-backend/internal/logger"
)

const (
	minRating = 1
	maxRating = 5
)

// ReviewInput holds the caller-supplied part of a review.
type ReviewInput struct {
	Rating  float64
	Comment string
}

func (in ReviewInput) validate() error {
	if in.Rating < minRating || in.Rating > maxRating {
		return apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", minRating, maxRating))
	}
	return nil
}

// mutate loads the product, applies fn and persists the whole document.
// Nothing is written when fn fails. There is no version check: concurrent
// writers to one product race and the last replace wins.
func (s *ProductService) mutate(ctx context.Context, productID string, fn func(p *domain.Product) error) (*domain.Product, error) {
	product, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := fn(product); err != nil {
		return nil, err
	}
	product.UpdatedAt = s.now()
	if err := s.repo.Replace(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return product, nil
}

// CreateReview adds the caller's review and recomputes the rating.
func (s *ProductService) CreateReview(ctx context.Context, productID string, caller domain.Caller, input ReviewInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	product, err := s.mutate(ctx, productID, func(p *domain.Product) error {
		now := s.now()
		err := p.AddReview(domain.Review{
			User:      caller.ID,
			Name:      caller.Name,
			Rating:    input.Rating,
			Comment:   input.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if errors.Is(err, domain.ErrAlreadyReviewed) {
			return apperrors.Conflict("Product already reviewed")
		}
		return err
	})
	if err != nil {
		return err
	}

	s.reviewChanged(ctx, product, caller, "created")
	return nil
}

// UpdateReview replaces the caller's existing review in place.
func (s *ProductService) UpdateReview(ctx context.Context, productID string, caller domain.Caller, input ReviewInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	product, err := s.mutate(ctx, productID, func(p *domain.Product) error {
		err := p.ReplaceReview(domain.Review{
			User:      caller.ID,
			Name:      caller.Name,
			Rating:    input.Rating,
			Comment:   input.Comment,
			UpdatedAt: s.now(),
		})
		if errors.Is(err, domain.ErrReviewNotFound) {
			return apperrors.NotFound("review")
		}
		return err
	})
	if err != nil {
		return err
	}

	s.reviewChanged(ctx, product, caller, "updated")
	return nil
}

// DeleteReview removes the caller's review. Deleting a review that does
// not exist succeeds.
func (s *ProductService) DeleteReview(ctx context.Context, productID string, caller domain.Caller) error {
	product, err := s.mutate(ctx, productID, func(p *domain.Product) error {
		p.RemoveReview(caller.ID)
		return nil
	})
	if err != nil {
		return err
	}

	s.reviewChanged(ctx, product, caller, "deleted")
	return nil
}

// AddToWishlist puts the product on the caller's wishlist.
func (s *ProductService) AddToWishlist(ctx context.Context, productID string, caller domain.Caller) error {
	product, err := s.mutate(ctx, productID, func(p *domain.Product) error {
		if errors.Is(p.AddToWishlist(caller.ID), domain.ErrAlreadyWishlisted) {
			return apperrors.Conflict("Product already added to wishlist")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.wishlistChanged(ctx, product, caller, "added")
	return nil
}

// RemoveFromWishlist takes the product off the caller's wishlist. It is not
// an error if it was not there.
func (s *ProductService) RemoveFromWishlist(ctx context.Context, productID string, caller domain.Caller) error {
	product, err := s.mutate(ctx, productID, func(p *domain.Product) error {
		p.RemoveFromWishlist(caller.ID)
		return nil
	})
	if err != nil {
		return err
	}

	s.wishlistChanged(ctx, product, caller, "removed")
	return nil
}

func (s *ProductService) reviewChanged(ctx context.Context, p *domain.Product, caller domain.Caller, action string) {
	publish(ctx, s.publisher, s.logger, event.TopicProductReviewed, p.ID.Hex(), event.AggregateProduct, event.ReviewData{
		ProductID:  p.ID.Hex(),
		UserID:     caller.ID.Hex(),
		Action:     action,
		NumReviews: p.NumReviews,
		Rating:     p.Rating,
	})
	logger.FromContext(ctx, s.logger).InfoContext(ctx, "review "+action,
		slog.String("product_id", p.ID.Hex()),
		slog.String("user_id", caller.ID.Hex()),
		slog.Int("num_reviews", p.NumReviews),
		slog.Float64("rating", p.Rating),
	)
}

func (s *ProductService) wishlistChanged(ctx context.Context, p *domain.Product, caller domain.Caller, action string) {
	publish(ctx, s.publisher, s.logger, event.TopicProductWishlisted, p.ID.Hex(), event.AggregateProduct, event.WishlistData{
		ProductID: p.ID.Hex(),
		UserID:    caller.ID.Hex(),
		Action:    action,
	})
	logger.FromContext(ctx, s.logger).InfoContext(ctx, "wishlist "+action,
		slog.String("product_id", p.ID.Hex()),
		slog.String("user_id", caller.ID.Hex()),
	)
}
