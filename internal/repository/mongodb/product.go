package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"goldmart-backend/internal/apperrors"
	"goldmart-backend/internal/domain"
	"goldmart-backend/internal/repository"
)

// ProductRepository stores products in the products collection.
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository creates a repository backed by db.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(ProductsCollection)}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var product domain.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("product")
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id.Hex(), err)
	}
	product.Normalize()
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	opts := options.Find()
	if filter.SortBy != "" {
		dir := filter.SortDir
		if dir == 0 {
			dir = 1
		}
		opts.SetSort(bson.D{{Key: filter.SortBy, Value: dir}})
	}
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cur, err := r.coll.Find(ctx, buildProductQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	products := []domain.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	for i := range products {
		products[i].Normalize()
	}
	return products, nil
}

func (r *ProductRepository) Replace(ctx context.Context, product *domain.Product) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("replace product %s: %w", product.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("product")
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("product")
	}
	return nil
}

func buildProductQuery(filter repository.ProductFilter) bson.M {
	query := bson.M{}
	if filter.Keyword != nil && *filter.Keyword != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(*filter.Keyword), Options: "i"}
	}
	if filter.Color != nil {
		query["color"] = *filter.Color
	}
	if filter.Brand != nil {
		query["brand"] = *filter.Brand
	}
	if filter.MaxPrice != nil {
		query["price"] = bson.M{"$lte": *filter.MaxPrice}
	}
	if filter.CategoryID != nil {
		query["category"] = *filter.CategoryID
	}
	if filter.WishlistedBy != nil {
		// matches when the array contains the id
		query["wishList"] = *filter.WishlistedBy
	}
	return query
}
