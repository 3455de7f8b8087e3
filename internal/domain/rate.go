package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rate is a gold price record. The value is kept as text exactly as it was
// submitted.
type Rate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Rate      string             `bson:"rate" json:"rate"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
