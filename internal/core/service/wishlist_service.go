package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// WishlistService manages a user's saved listings. The wishlist is a plain
// id set on the user document; deleted listings simply drop out of List.
type WishlistService struct {
	users    ports.UserRepository
	listings ports.ListingRepository
	log      zerolog.Logger
}

func NewWishlistService(users ports.UserRepository, listings ports.ListingRepository, log zerolog.Logger) *WishlistService {
	return &WishlistService{users: users, listings: listings, log: log}
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]domain.Listing, error) {
	ids, err := s.users.GetWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Listing{}, nil
	}
	return s.listings.FindManyByID(ctx, ids)
}

func (s *WishlistService) Add(ctx context.Context, userID, listingID string) error {
	return s.users.AddWishlistItem(ctx, userID, listingID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, listingID string) error {
	return s.users.RemoveWishlistItem(ctx, userID, listingID)
}
