package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// AdminService implements user/listing/review moderation and sales
// inspection. Access control happens in the transport layer (RBAC
// middleware); these methods trust their caller.
type AdminService struct {
	users         ports.UserRepository
	listings      ports.ListingRepository
	transactions  ports.TransactionRepository
	notifications ports.NotificationRepository
	log           zerolog.Logger
}

func NewAdminService(
	users ports.UserRepository,
	listings ports.ListingRepository,
	transactions ports.TransactionRepository,
	notifications ports.NotificationRepository,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:         users,
		listings:      listings,
		transactions:  transactions,
		notifications: notifications,
		log:           log,
	}
}

func (s *AdminService) ListUsers(ctx context.Context, search string) ([]domain.User, error) {
	return s.users.Search(ctx, search)
}

func (s *AdminService) UpdateUser(ctx context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	return s.users.UpdateFields(ctx, id, update)
}

func (s *AdminService) SetUserDisabled(ctx context.Context, id string, disabled bool) error {
	return s.users.SetDisabled(ctx, id, disabled)
}

func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *AdminService) ListUserListings(ctx context.Context, userID string) ([]domain.Listing, error) {
	return s.listings.FindBySeller(ctx, userID)
}

// ListUserReviews flattens every review the user has left across all
// listings, keeping each review's index so the moderation UI can address
// it inside the listing's embedded array.
func (s *AdminService) ListUserReviews(ctx context.Context, userID string) ([]ports.UserReview, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	listings, err := s.listings.FindByReviewer(ctx, userID)
	if err != nil {
		return nil, err
	}

	reviews := []ports.UserReview{}
	for _, l := range listings {
		for idx, r := range l.Reviews {
			if r.Reviewer != userID {
				continue
			}
			reviews = append(reviews, ports.UserReview{
				ListingID:    l.ID,
				ListingTitle: l.Title,
				Rating:       r.Rating,
				Comment:      r.Comment,
				Hidden:       r.Hidden,
				ReviewIndex:  idx,
			})
		}
	}
	return reviews, nil
}

// ListListings returns every listing, disabled ones included, joined with
// the seller's name.
func (s *AdminService) ListListings(ctx context.Context, search string) ([]ports.AdminListing, error) {
	listings, err := s.listings.AdminList(ctx, search)
	if err != nil {
		return nil, err
	}

	sellerIDs := make([]string, 0, len(listings))
	for _, l := range listings {
		sellerIDs = append(sellerIDs, l.Seller)
	}
	names, err := s.users.Names(ctx, sellerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ports.AdminListing, 0, len(listings))
	for _, l := range listings {
		first, last := splitName(names[l.Seller])
		out = append(out, ports.AdminListing{
			ID:              l.ID,
			Title:           l.Title,
			Brand:           l.Brand,
			Image:           l.Image,
			Price:           l.Price,
			Stock:           l.Stock,
			Disabled:        l.Disabled,
			Seller:          l.Seller,
			SellerFirstname: first,
			SellerLastname:  last,
		})
	}
	return out, nil
}

func (s *AdminService) UpdateListing(ctx context.Context, id string, update ports.ListingUpdate) (*domain.Listing, error) {
	return s.listings.UpdateFields(ctx, id, update)
}

func (s *AdminService) DisableListing(ctx context.Context, id string) error {
	return s.listings.SetDisabled(ctx, id, true)
}

func (s *AdminService) DeleteListing(ctx context.Context, id string) error {
	return s.listings.Delete(ctx, id)
}

// ListReviews returns every review across all listings for moderation.
// Hidden reviews are excluded unless showHidden is set; search matches the
// listing title or the reviewer's name, case-insensitively.
func (s *AdminService) ListReviews(ctx context.Context, search string, showHidden bool) ([]ports.ReviewDetail, error) {
	listings, err := s.listings.AdminList(ctx, "")
	if err != nil {
		return nil, err
	}

	reviewerIDs := make([]string, 0)
	for _, l := range listings {
		for _, r := range l.Reviews {
			reviewerIDs = append(reviewerIDs, r.Reviewer)
		}
	}
	names, err := s.users.Names(ctx, reviewerIDs)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(search)
	out := []ports.ReviewDetail{}
	for _, l := range listings {
		for idx, r := range l.Reviews {
			if r.Hidden && !showHidden {
				continue
			}
			reviewerName := names[r.Reviewer]
			if needle != "" &&
				!strings.Contains(strings.ToLower(l.Title), needle) &&
				!strings.Contains(strings.ToLower(reviewerName), needle) {
				continue
			}
			out = append(out, ports.ReviewDetail{
				ListingID:    l.ID,
				ListingTitle: l.Title,
				Rating:       r.Rating,
				Comment:      r.Comment,
				Hidden:       r.Hidden,
				ReviewIndex:  idx,
				ReviewerName: reviewerName,
			})
		}
	}
	return out, nil
}

func (s *AdminService) SetReviewVisibility(ctx context.Context, listingID string, index int, hidden bool) error {
	return s.listings.SetReviewHidden(ctx, listingID, index, hidden)
}

func (s *AdminService) ListTransactions(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	return s.transactions.List(ctx, from, to)
}

// ExportTransactionsCSV renders the full sales history as CSV: one row per
// transaction with the purchased items compacted to "name(qty)" pairs.
func (s *AdminService) ExportTransactionsCSV(ctx context.Context) ([]byte, error) {
	txs, err := s.transactions.List(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"timestamp", "buyer", "items", "total"}); err != nil {
		return nil, err
	}

	for _, t := range txs {
		items := make([]string, len(t.Cart))
		for i, line := range t.Cart {
			items[i] = fmt.Sprintf("%s(%d)", line.Name, line.Quantity)
		}
		row := []string{
			t.Timestamp.UTC().Format(time.RFC3339),
			t.BuyerName,
			strings.Join(items, "; "),
			strconv.FormatFloat(t.Total, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *AdminService) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	return s.notifications.List(ctx)
}

// splitName breaks a "Firstname Lastname" display name back into parts.
func splitName(full string) (string, string) {
	first, last, found := strings.Cut(full, " ")
	if !found {
		return full, ""
	}
	return first, last
}
