package ports

import (
	"context"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// WishlistService manages a user's saved listings.
type WishlistService interface {
	// List resolves the wishlist ids to their listings; ids whose listing
	// has been deleted are dropped from the result.
	List(ctx context.Context, userID string) ([]domain.Listing, error)
	Add(ctx context.Context, userID, listingID string) error
	Remove(ctx context.Context, userID, listingID string) error
}
