package ports

import (
	"context"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// SellerInfo is the seller's public name on a listing detail view.
type SellerInfo struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// ReviewView is a review with the author's display name resolved.
type ReviewView struct {
	Reviewer string `json:"reviewer"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Hidden   bool   `json:"hidden"`
	Fullname string `json:"fullname"`
}

// ListingDetail is the full public view of a listing.
type ListingDetail struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Brand   string       `json:"brand"`
	Image   string       `json:"image"`
	Price   float64      `json:"price"`
	Stock   int          `json:"stock"`
	Seller  SellerInfo   `json:"sellerInfo"`
	Reviews []ReviewView `json:"reviews"`
}

// CreateListingInput carries the fields for a new listing.
type CreateListingInput struct {
	Title  string
	Brand  string
	Price  float64
	Stock  int
	Image  string
	Seller string
}

// AddReviewInput carries a new review for a listing.
type AddReviewInput struct {
	ListingID string
	Reviewer  string
	Rating    int
	Comment   string
}

// ListingService defines browse and listing-management use cases.
type ListingService interface {
	Browse(ctx context.Context, filter ListingFilter) ([]ListingSummary, error)
	Metadata(ctx context.Context) (brands []string, maxPrice float64, err error)
	SoldOutSoon(ctx context.Context) ([]domain.Listing, error)
	BestSellers(ctx context.Context) ([]ListingSummary, error)
	Get(ctx context.Context, id string) (*domain.Listing, error)
	Details(ctx context.Context, id string) (*ListingDetail, error)
	Create(ctx context.Context, input CreateListingInput) (*domain.Listing, error)
	SetDisabled(ctx context.Context, id string, disabled bool) error
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, input AddReviewInput) (*ReviewView, error)
	SetReviewHidden(ctx context.Context, id string, index int, hidden bool) error
}
