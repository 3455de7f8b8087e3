package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Caller is the authenticated identity a request acts on behalf of.
type Caller struct {
	ID      primitive.ObjectID
	Name    string
	IsAdmin bool
}
