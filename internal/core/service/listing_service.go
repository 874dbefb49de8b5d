package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// ListingService implements browsing, listing management and reviews.
type ListingService struct {
	listings ports.ListingRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

func NewListingService(listings ports.ListingRepository, users ports.UserRepository, log zerolog.Logger) *ListingService {
	return &ListingService{listings: listings, users: users, log: log}
}

func (s *ListingService) Browse(ctx context.Context, filter ports.ListingFilter) ([]ports.ListingSummary, error) {
	return s.listings.Search(ctx, filter)
}

func (s *ListingService) Metadata(ctx context.Context) ([]string, float64, error) {
	return s.listings.Metadata(ctx)
}

func (s *ListingService) SoldOutSoon(ctx context.Context) ([]domain.Listing, error) {
	return s.listings.SoldOutSoon(ctx)
}

func (s *ListingService) BestSellers(ctx context.Context) ([]ports.ListingSummary, error) {
	return s.listings.BestSellers(ctx)
}

func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return s.listings.FindByID(ctx, id)
}

// Details returns the full public view: listing fields, the seller's name,
// and every review with its author's display name resolved. Authors whose
// account has since been deleted show as "Unknown".
func (s *ListingService) Details(ctx context.Context, id string) (*ports.ListingDetail, error) {
	listing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ports.ListingDetail{
		ID:      listing.ID,
		Title:   listing.Title,
		Brand:   listing.Brand,
		Image:   listing.Image,
		Price:   listing.Price,
		Stock:   listing.Stock,
		Reviews: make([]ports.ReviewView, 0, len(listing.Reviews)),
	}

	if seller, err := s.users.FindByID(ctx, listing.Seller); err == nil {
		detail.Seller = ports.SellerInfo{Firstname: seller.Firstname, Lastname: seller.Lastname}
	} else {
		s.log.Warn().Err(err).Str("seller_id", listing.Seller).Msg("seller lookup failed")
	}

	reviewerIDs := make([]string, 0, len(listing.Reviews))
	for _, r := range listing.Reviews {
		reviewerIDs = append(reviewerIDs, r.Reviewer)
	}
	names, err := s.users.Names(ctx, reviewerIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range listing.Reviews {
		fullname, ok := names[r.Reviewer]
		if !ok {
			fullname = "Unknown"
		}
		detail.Reviews = append(detail.Reviews, ports.ReviewView{
			Reviewer: r.Reviewer,
			Rating:   r.Rating,
			Comment:  r.Comment,
			Hidden:   r.Hidden,
			Fullname: fullname,
		})
	}

	return detail, nil
}

func (s *ListingService) Create(ctx context.Context, input ports.CreateListingInput) (*domain.Listing, error) {
	listing := &domain.Listing{
		Title:    input.Title,
		Brand:    input.Brand,
		Price:    input.Price,
		Stock:    input.Stock,
		Image:    input.Image,
		Seller:   input.Seller,
		Disabled: false,
		Reviews:  []domain.Review{},
	}

	id, err := s.listings.Create(ctx, listing)
	if err != nil {
		return nil, err
	}
	listing.ID = id

	s.log.Info().Str("listing_id", id).Str("seller_id", input.Seller).Str("brand", input.Brand).Msg("listing created")
	return listing, nil
}

func (s *ListingService) SetDisabled(ctx context.Context, id string, disabled bool) error {
	return s.listings.SetDisabled(ctx, id, disabled)
}

func (s *ListingService) Delete(ctx context.Context, id string) error {
	return s.listings.Delete(ctx, id)
}

// AddReview appends a review and returns it with the author's name so the
// client can render it without a refetch.
func (s *ListingService) AddReview(ctx context.Context, input ports.AddReviewInput) (*ports.ReviewView, error) {
	reviewer, err := s.users.FindByID(ctx, input.Reviewer)
	if err != nil {
		return nil, err
	}

	review := domain.Review{
		Reviewer: input.Reviewer,
		Rating:   input.Rating,
		Comment:  input.Comment,
	}
	if err := s.listings.PushReview(ctx, input.ListingID, review); err != nil {
		return nil, err
	}

	return &ports.ReviewView{
		Reviewer: input.Reviewer,
		Rating:   input.Rating,
		Comment:  input.Comment,
		Fullname: reviewer.DisplayName(),
	}, nil
}

func (s *ListingService) SetReviewHidden(ctx context.Context, id string, index int, hidden bool) error {
	return s.listings.SetReviewHidden(ctx, id, index, hidden)
}
