package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"goldmart-backend/internal/apperrors"
	"goldmart-backend/internal/domain"
	"goldmart-backend/internal/repository"
)

// RateRepository stores gold rates in the rates collection.
type RateRepository struct {
	coll *mongo.Collection
}

// NewRateRepository creates a repository backed by db.
func NewRateRepository(db *mongo.Database) *RateRepository {
	return &RateRepository{coll: db.Collection(RatesCollection)}
}

var _ repository.RateRepository = (*RateRepository)(nil)

func (r *RateRepository) List(ctx context.Context) ([]domain.Rate, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find rates: %w", err)
	}
	rates := []domain.Rate{}
	if err := cur.All(ctx, &rates); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	return rates, nil
}

func (r *RateRepository) Create(ctx context.Context, rate *domain.Rate) error {
	if rate.ID.IsZero() {
		rate.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, rate); err != nil {
		return fmt.Errorf("insert rate: %w", err)
	}
	return nil
}

func (r *RateRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Rate, error) {
	var rate domain.Rate
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rate)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("rate")
	}
	if err != nil {
		return nil, fmt.Errorf("find rate %s: %w", id.Hex(), err)
	}
	return &rate, nil
}

func (r *RateRepository) Replace(ctx context.Context, rate *domain.Rate) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": rate.ID}, rate)
	if err != nil {
		return fmt.Errorf("replace rate %s: %w", rate.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("rate")
	}
	return nil
}

func (r *RateRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete rate %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("rate")
	}
	return nil
}
