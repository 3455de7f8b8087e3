package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Aggregate rule violations. The service layer maps them onto API errors.
var (
	ErrAlreadyReviewed   = errors.New("product already reviewed")
	ErrReviewNotFound    = errors.New("review not found")
	ErrAlreadyWishlisted = errors.New("product already added to wishlist")
)

// Product is the unit of load/mutate/persist. Reviews and wishList are
// embedded and always rewritten together with the derived fields.
type Product struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	User         primitive.ObjectID   `bson:"user,omitempty" json:"user,omitzero"`
	Name         string               `bson:"name" json:"name"`
	Description  string               `bson:"description" json:"description"`
	Image        string               `bson:"image" json:"image"`
	Code         string               `bson:"code" json:"code"`
	Weight       string               `bson:"weight" json:"weight"`
	Category     primitive.ObjectID   `bson:"category,omitempty" json:"category,omitzero"`
	Color        string               `bson:"color,omitempty" json:"color,omitempty"`
	Brand        string               `bson:"brand,omitempty" json:"brand,omitempty"`
	Price        float64              `bson:"price" json:"price"`
	CountInStock int                  `bson:"countInStock" json:"countInStock"`
	Reviews      []Review             `bson:"reviews" json:"reviews"`
	NumReviews   int                  `bson:"numReviews" json:"numReviews"`
	Rating       float64              `bson:"rating" json:"rating"`
	WishList     []primitive.ObjectID `bson:"wishList" json:"wishList"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`

	// position of each user's review in Reviews, built on first use
	byUser map[primitive.ObjectID]int
}

// Review is embedded in a Product. Name is captured when the review is
// written and is not kept in sync with the user record.
type Review struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	Name      string             `bson:"name" json:"name"`
	Rating    float64            `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewProduct returns an empty product owned by creator, with zeroed derived
// fields and non-nil collections.
func NewProduct(creator primitive.ObjectID, now time.Time) *Product {
	return &Product{
		ID:        primitive.NewObjectID(),
		User:      creator,
		Reviews:   []Review{},
		WishList:  []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Normalize replaces missing collections on a decoded document with empty
// ones so they are served and persisted as arrays.
func (p *Product) Normalize() {
	if p.Reviews == nil {
		p.Reviews = []Review{}
	}
	if p.WishList == nil {
		p.WishList = []primitive.ObjectID{}
	}
}

func (p *Product) index() map[primitive.ObjectID]int {
	if p.byUser == nil {
		p.byUser = make(map[primitive.ObjectID]int, len(p.Reviews))
		for i, r := range p.Reviews {
			if _, seen := p.byUser[r.User]; !seen {
				p.byUser[r.User] = i
			}
		}
	}
	return p.byUser
}

// ReviewBy returns the review written by user, if any.
func (p *Product) ReviewBy(user primitive.ObjectID) (Review, bool) {
	i, ok := p.index()[user]
	if !ok {
		return Review{}, false
	}
	return p.Reviews[i], true
}

// AddReview appends r. A user may review a product only once; on rejection
// the product is left untouched.
func (p *Product) AddReview(r Review) error {
	idx := p.index()
	if _, ok := idx[r.User]; ok {
		return ErrAlreadyReviewed
	}
	p.Reviews = append(p.Reviews, r)
	idx[r.User] = len(p.Reviews) - 1
	p.recompute()
	return nil
}

// ReplaceReview overwrites the rating and comment of r.User's review while
// keeping its display position and creation time.
func (p *Product) ReplaceReview(r Review) error {
	i, ok := p.index()[r.User]
	if !ok {
		return ErrReviewNotFound
	}
	r.CreatedAt = p.Reviews[i].CreatedAt
	p.Reviews[i] = r
	p.recompute()
	return nil
}

// RemoveReview deletes user's review. Removing a review that does not exist
// is not an error; the derived fields are recomputed either way. It reports
// whether a review was removed.
func (p *Product) RemoveReview(user primitive.ObjectID) bool {
	i, ok := p.index()[user]
	if ok {
		p.Reviews = append(p.Reviews[:i], p.Reviews[i+1:]...)
		p.byUser = nil
	}
	p.recompute()
	return ok
}

// recompute restores numReviews == len(reviews) and rating == mean rating.
func (p *Product) recompute() {
	if p.Reviews == nil {
		p.Reviews = []Review{}
	}
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}
	var sum float64
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = sum / float64(p.NumReviews)
}

// IsWishlistedBy reports whether user has the product on their wishlist.
func (p *Product) IsWishlistedBy(user primitive.ObjectID) bool {
	for _, id := range p.WishList {
		if id == user {
			return true
		}
	}
	return false
}

// AddToWishlist records user's interest. Adding twice fails and leaves the
// list unchanged.
func (p *Product) AddToWishlist(user primitive.ObjectID) error {
	if p.IsWishlistedBy(user) {
		return ErrAlreadyWishlisted
	}
	p.WishList = append(p.WishList, user)
	return nil
}

// RemoveFromWishlist removes the first occurrence of user. It reports whether
// anything was removed; absence is not an error.
func (p *Product) RemoveFromWishlist(user primitive.ObjectID) bool {
	for i, id := range p.WishList {
		if id == user {
			p.WishList = append(p.WishList[:i], p.WishList[i+1:]...)
			return true
		}
	}
	if p.WishList == nil {
		p.WishList = []primitive.ObjectID{}
	}
	return false
}
