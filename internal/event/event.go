package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kafka topics for catalog events.
const (
	TopicProductCreated    = "goldmart.product.created"
	TopicProductUpdated    = "goldmart.product.updated"
	TopicProductDeleted    = "goldmart.product.deleted"
	TopicProductReviewed   = "goldmart.product.reviewed"
	TopicProductWishlisted = "goldmart.product.wishlisted"
	TopicRateChanged       = "goldmart.rate.changed"
)

// Aggregate types.
const (
	AggregateProduct = "product"
	AggregateRate    = "rate"
)

// Source identifies this service on every envelope.
const Source = "goldmart-backend"

// Event is the envelope written to every topic.
type Event struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Timestamp     time.Time       `json:"timestamp"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// New builds an envelope with a generated id and the current time.
func New(eventType, aggregateID, aggregateType string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Event{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Timestamp:     time.Now().UTC(),
		Source:        Source,
		Data:          raw,
	}, nil
}

// WithCorrelationID sets the correlation ID on the event.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// Publisher delivers events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, e *Event) error
}

// Nop discards every event. Used when Kafka is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, string, *Event) error { return nil }

// ProductData is the payload for product created/updated events.
type ProductData struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Code         string  `json:"code"`
	Category     string  `json:"category,omitempty"`
	CountInStock int     `json:"countInStock"`
	Price        float64 `json:"price,omitempty"`
}

// DeletedData is the payload for deletion events.
type DeletedData struct {
	ID string `json:"id"`
}

// ReviewData is the payload for review changes. Action is one of
// created, updated or deleted.
type ReviewData struct {
	ProductID  string  `json:"productId"`
	UserID     string  `json:"userId"`
	Action     string  `json:"action"`
	NumReviews int     `json:"numReviews"`
	Rating     float64 `json:"rating"`
}

// WishlistData is the payload for wishlist changes. Action is added or removed.
type WishlistData struct {
	ProductID string `json:"productId"`
	UserID    string `json:"userId"`
	Action    string `json:"action"`
}

// RateData is the payload for rate changes. Action is created, updated or deleted.
type RateData struct {
	ID     string `json:"id"`
	Rate   string `json:"rate,omitempty"`
	Action string `json:"action"`
}
