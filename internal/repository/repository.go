package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"goldmart-backend/internal/domain"
)

// Sort fields understood by ProductFilter.
const (
	SortByName      = "name"
	SortByCreatedAt = "createdAt"
	SortByRating    = "rating"
)

// ProductFilter defines filter criteria for listing products. Nil fields do
// not constrain the result.
type ProductFilter struct {
	Keyword      *string
	Color        *string
	Brand        *string
	MaxPrice     *float64
	CategoryID   *primitive.ObjectID
	WishlistedBy *primitive.ObjectID

	SortBy  string
	SortDir int // 1 ascending, -1 descending
	Limit   int64
}

// ProductRepository defines persistence operations for product documents.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID loads a whole product document.
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)

	// List returns products matching filter in the requested order.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// Replace rewrites the stored document with product.
	Replace(ctx context.Context, product *domain.Product) error

	// Delete removes a product by id.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RateRepository defines persistence operations for rate records.
type RateRepository interface {
	List(ctx context.Context) ([]domain.Rate, error)
	Create(ctx context.Context, rate *domain.Rate) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Rate, error)
	Replace(ctx context.Context, rate *domain.Rate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
