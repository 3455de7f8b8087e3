package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"goldmart-backend/internal/apperrors"
	"goldmart-backend/internal/domain"
	"goldmart-backend/internal/event"
	"goldmart-backend/internal/logger"
	"goldmart-backend/internal/repository"
)

const (
	featuredCount   = 3
	defaultTopLimit = 3
)

// ProductService implements catalog queries, admin product maintenance and
// the review and wishlist mutations of the product aggregate.
type ProductService struct {
	repo      repository.ProductRepository
	publisher event.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, publisher event.Publisher, log *slog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ProductInput holds the admin-editable product attributes.
type ProductInput struct {
	Name         string
	Weight       string
	Description  string
	Image        string
	Code         string
	Category     string
	Color        string
	Brand        string
	Price        float64
	CountInStock int
}

func (s *ProductService) list(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// List returns all products, or those whose name contains keyword
// ignoring case.
func (s *ProductService) List(ctx context.Context, keyword string) ([]domain.Product, error) {
	var filter repository.ProductFilter
	if keyword != "" {
		filter.Keyword = &keyword
	}
	return s.list(ctx, filter)
}

// ListByColor returns products with exactly the given color.
func (s *ProductService) ListByColor(ctx context.Context, color string) ([]domain.Product, error) {
	return s.list(ctx, repository.ProductFilter{Color: &color})
}

// ListByBrand returns products with exactly the given brand.
func (s *ProductService) ListByBrand(ctx context.Context, brand string) ([]domain.Product, error) {
	return s.list(ctx, repository.ProductFilter{Brand: &brand})
}

// ListByMaxPrice returns products priced at or below price.
func (s *ProductService) ListByMaxPrice(ctx context.Context, price string) ([]domain.Product, error) {
	bound, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return nil, apperrors.InvalidInput("price must be a number")
	}
	return s.list(ctx, repository.ProductFilter{MaxPrice: &bound})
}

// ListSortedByName returns all products ordered by name.
func (s *ProductService) ListSortedByName(ctx context.Context, direction string) ([]domain.Product, error) {
	dir, err := ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, repository.ProductFilter{SortBy: repository.SortByName, SortDir: dir})
}

// ListSortedByDate returns all products ordered by creation time.
func (s *ProductService) ListSortedByDate(ctx context.Context, direction string) ([]domain.Product, error) {
	dir, err := ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, repository.ProductFilter{SortBy: repository.SortByCreatedAt, SortDir: dir})
}

// ListFeatured returns the first products in store order.
func (s *ProductService) ListFeatured(ctx context.Context) ([]domain.Product, error) {
	return s.list(ctx, repository.ProductFilter{Limit: featuredCount})
}

// ListTop returns at most limit products by descending rating. A
// non-positive limit means the default of three.
func (s *ProductService) ListTop(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	return s.list(ctx, repository.ProductFilter{
		SortBy:  repository.SortByRating,
		SortDir: -1,
		Limit:   int64(limit),
	})
}

// ListByCategory returns products referencing the category.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid category id")
	}
	return s.list(ctx, repository.ProductFilter{CategoryID: &oid})
}

// ListWishlistedBy returns the products on the caller's wishlist.
func (s *ProductService) ListWishlistedBy(ctx context.Context, caller domain.Caller) ([]domain.Product, error) {
	return s.list(ctx, repository.ProductFilter{WishlistedBy: &caller.ID})
}

// GetByID loads a single product.
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// Create stores a new product owned by the calling admin.
func (s *ProductService) Create(ctx context.Context, caller domain.Caller, input ProductInput) (*domain.Product, error) {
	product := domain.NewProduct(caller.ID, s.now())
	if err := applyInput(product, input); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	publish(ctx, s.publisher, s.logger, event.TopicProductCreated, product.ID.Hex(), event.AggregateProduct, productData(product))
	logger.FromContext(ctx, s.logger).InfoContext(ctx, "product created",
		slog.String("product_id", product.ID.Hex()),
		slog.String("name", product.Name),
	)
	return product, nil
}

// Update overwrites the editable attributes of an existing product.
func (s *ProductService) Update(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyInput(product, input); err != nil {
		return nil, err
	}
	product.UpdatedAt = s.now()

	if err := s.repo.Replace(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	publish(ctx, s.publisher, s.logger, event.TopicProductUpdated, product.ID.Hex(), event.AggregateProduct, productData(product))
	logger.FromContext(ctx, s.logger).InfoContext(ctx, "product updated", slog.String("product_id", product.ID.Hex()))
	return product, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "product")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, oid); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	publish(ctx, s.publisher, s.logger, event.TopicProductDeleted, id, event.AggregateProduct, event.DeletedData{ID: id})
	logger.FromContext(ctx, s.logger).InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}

func applyInput(p *domain.Product, in ProductInput) error {
	if in.Category != "" {
		cat, err := primitive.ObjectIDFromHex(in.Category)
		if err != nil {
			return apperrors.InvalidInput("invalid category id")
		}
		p.Category = cat
	}
	if in.CountInStock < 0 {
		return apperrors.InvalidInput("countInStock must not be negative")
	}
	if in.Price < 0 {
		return apperrors.InvalidInput("price must not be negative")
	}
	p.Name = in.Name
	p.Weight = in.Weight
	p.Description = in.Description
	p.Image = in.Image
	p.Code = in.Code
	p.Color = in.Color
	p.Brand = in.Brand
	p.Price = in.Price
	p.CountInStock = in.CountInStock
	return nil
}

func productData(p *domain.Product) event.ProductData {
	data := event.ProductData{
		ID:           p.ID.Hex(),
		Name:         p.Name,
		Code:         p.Code,
		CountInStock: p.CountInStock,
		Price:        p.Price,
	}
	if !p.Category.IsZero() {
		data.Category = p.Category.Hex()
	}
	return data
}
