package domain

import "errors"

var ErrListingNotFound = errors.New("listing not found")
var ErrInsufficientStock = errors.New("insufficient stock")
var ErrReviewNotFound = errors.New("review not found")

// Review is a buyer comment embedded in a listing. Reviewer holds the
// author's user id; Hidden reviews stay stored but are filtered from
// public views.
type Review struct {
	Reviewer string `json:"reviewer" bson:"reviewer"`
	Rating   int    `json:"rating" bson:"rating"`
	Comment  string `json:"comment" bson:"comment"`
	Hidden   bool   `json:"hidden,omitempty" bson:"hidden,omitempty"`
}

// Listing is a phone for sale. Stock is the only field the checkout flow
// may write, and it must never drop below zero.
type Listing struct {
	ID       string   `json:"id" bson:"_id,omitempty"`
	Title    string   `json:"title" bson:"title"`
	Brand    string   `json:"brand" bson:"brand"`
	Price    float64  `json:"price" bson:"price"`
	Stock    int      `json:"stock" bson:"stock"`
	Image    string   `json:"image" bson:"image"`
	Seller   string   `json:"seller" bson:"seller"`
	Disabled bool     `json:"disabled,omitempty" bson:"disabled,omitempty"`
	Reviews  []Review `json:"reviews" bson:"reviews"`
}

// VisibleReviews returns the listing's reviews with hidden ones removed.
func (l *Listing) VisibleReviews() []Review {
	out := make([]Review, 0, len(l.Reviews))
	for _, r := range l.Reviews {
		if !r.Hidden {
			out = append(out, r)
		}
	}
	return out
}
