package ports

import (
	"context"
	"time"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// AdminListing is a listing joined with its seller's name for the
// moderation table.
type AdminListing struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Brand           string  `json:"brand"`
	Image           string  `json:"image"`
	Price           float64 `json:"price"`
	Stock           int     `json:"stock"`
	Disabled        bool    `json:"disabled"`
	Seller          string  `json:"seller"`
	SellerFirstname string  `json:"sellerFirstname"`
	SellerLastname  string  `json:"sellerLastname"`
}

// UserReview links a review back to the listing it was left on, addressed
// by the review's index inside the listing's embedded array.
type UserReview struct {
	ListingID    string `json:"listingId"`
	ListingTitle string `json:"listingTitle"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	Hidden       bool   `json:"hidden"`
	ReviewIndex  int    `json:"reviewIndex"`
}

// ReviewDetail is a review row in the moderation table, with the
// reviewer's name resolved.
type ReviewDetail struct {
	ListingID    string `json:"listingId"`
	ListingTitle string `json:"listingTitle"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	Hidden       bool   `json:"hidden"`
	ReviewIndex  int    `json:"reviewIndex"`
	ReviewerName string `json:"reviewerName"`
}

// AdminService covers user/listing/review moderation and sales inspection.
type AdminService interface {
	ListUsers(ctx context.Context, search string) ([]domain.User, error)
	UpdateUser(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	SetUserDisabled(ctx context.Context, id string, disabled bool) error
	DeleteUser(ctx context.Context, id string) error
	ListUserListings(ctx context.Context, userID string) ([]domain.Listing, error)
	ListUserReviews(ctx context.Context, userID string) ([]UserReview, error)

	ListListings(ctx context.Context, search string) ([]AdminListing, error)
	UpdateListing(ctx context.Context, id string, update ListingUpdate) (*domain.Listing, error)
	DisableListing(ctx context.Context, id string) error
	DeleteListing(ctx context.Context, id string) error

	ListReviews(ctx context.Context, search string, showHidden bool) ([]ReviewDetail, error)
	SetReviewVisibility(ctx context.Context, listingID string, index int, hidden bool) error

	ListTransactions(ctx context.Context, from, to time.Time) ([]domain.Transaction, error)
	// ExportTransactionsCSV renders the full sales history as CSV.
	ExportTransactionsCSV(ctx context.Context) ([]byte, error)

	ListNotifications(ctx context.Context) ([]domain.Notification, error)
}
