package ports

import (
	"context"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// ListingFilter carries the public browse query parameters.
type ListingFilter struct {
	Search   string  // case-insensitive substring on title
	Brand    string  // exact brand match
	MaxPrice float64 // 0 = no cap
}

// ListingSummary is the lightweight browse view. AverageRating is nil when
// the listing has fewer than two reviews.
type ListingSummary struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Brand         string   `json:"brand"`
	Image         string   `json:"image"`
	Price         float64  `json:"price"`
	Stock         int      `json:"stock"`
	AverageRating *float64 `json:"averageRating"`
}

// ListingRepository defines persistence operations on the phones
// collection. Checkout's write access is limited to DecrementStock.
type ListingRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	FindManyByID(ctx context.Context, ids []string) ([]domain.Listing, error)
	FindBySeller(ctx context.Context, sellerID string) ([]domain.Listing, error)
	// FindByReviewer returns listings carrying at least one review by the
	// given user, with title and reviews projected.
	FindByReviewer(ctx context.Context, reviewerID string) ([]domain.Listing, error)

	Search(ctx context.Context, filter ListingFilter) ([]ListingSummary, error)
	// AdminList returns full listing documents, disabled ones included,
	// optionally filtered by a title/brand substring.
	AdminList(ctx context.Context, search string) ([]domain.Listing, error)
	// Metadata returns the distinct brands and the highest price among
	// active listings.
	Metadata(ctx context.Context) (brands []string, maxPrice float64, err error)
	// SoldOutSoon returns the five in-stock listings with the lowest stock.
	SoldOutSoon(ctx context.Context) ([]domain.Listing, error)
	// BestSellers returns the five best-rated listings with at least two
	// reviews.
	BestSellers(ctx context.Context) ([]ListingSummary, error)

	Create(ctx context.Context, l *domain.Listing) (string, error)
	UpdateFields(ctx context.Context, id string, update ListingUpdate) (*domain.Listing, error)
	SetDisabled(ctx context.Context, id string, disabled bool) error
	Delete(ctx context.Context, id string) error

	PushReview(ctx context.Context, id string, review domain.Review) error
	SetReviewHidden(ctx context.Context, id string, index int, hidden bool) error

	// DecrementStock subtracts quantity from the listing's stock only when
	// enough stock remains, as a single conditional update. Returns
	// domain.ErrInsufficientStock when the condition does not match and
	// domain.ErrListingNotFound when the listing is gone.
	DecrementStock(ctx context.Context, id string, quantity int) error
}

// ListingUpdate carries the admin-editable listing fields; nil pointers
// leave the field untouched.
type ListingUpdate struct {
	Title    *string
	Brand    *string
	Price    *float64
	Stock    *int
	Disabled *bool
}
