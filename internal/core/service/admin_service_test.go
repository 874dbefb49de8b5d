package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

func newAdminFixture() (*AdminService, *stubListingRepo, *stubUserRepo, *stubTransactionRepo, *stubNotificationRepo) {
	listingRepo := newStubListingRepo(
		&domain.Listing{
			ID: "p1", Title: "Pixel 6", Brand: "Google", Seller: "seller-1",
			Reviews: []domain.Review{
				{Reviewer: "u1", Rating: 5, Comment: "great"},
				{Reviewer: "u2", Rating: 1, Comment: "spam", Hidden: true},
			},
		},
		&domain.Listing{
			ID: "p2", Title: "iPhone 12", Brand: "Apple", Seller: "seller-1", Disabled: true,
			Reviews: []domain.Review{
				{Reviewer: "u1", Rating: 3, Comment: "ok"},
			},
		},
	)
	userRepo := newStubUserRepo(
		&domain.User{ID: "seller-1", Firstname: "Sam", Lastname: "Seller"},
		&domain.User{ID: "u1", Firstname: "Ana", Lastname: "Alvarez"},
		&domain.User{ID: "u2", Firstname: "Troll", Lastname: "Account"},
	)
	txRepo := &stubTransactionRepo{}
	notifRepo := &stubNotificationRepo{}
	svc := NewAdminService(userRepo, listingRepo, txRepo, notifRepo, zerolog.Nop())
	return svc, listingRepo, userRepo, txRepo, notifRepo
}

func TestAdminService_ListUserReviews(t *testing.T) {
	svc, _, _, _, _ := newAdminFixture()

	reviews, err := svc.ListUserReviews(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListUserReviews returned error: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews for u1, got %d", len(reviews))
	}
	for _, r := range reviews {
		switch r.ListingID {
		case "p1":
			if r.ReviewIndex != 0 || r.Rating != 5 {
				t.Fatalf("unexpected p1 review: %+v", r)
			}
		case "p2":
			if r.ReviewIndex != 0 || r.Rating != 3 {
				t.Fatalf("unexpected p2 review: %+v", r)
			}
		default:
			t.Fatalf("unexpected listing %q", r.ListingID)
		}
	}

	if _, err := svc.ListUserReviews(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminService_ListListings_IncludesDisabledWithSellerName(t *testing.T) {
	svc, _, _, _, _ := newAdminFixture()

	listings, err := svc.ListListings(context.Background(), "")
	if err != nil {
		t.Fatalf("ListListings returned error: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("disabled listings must be included, got %d", len(listings))
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	if !listings[1].Disabled {
		t.Fatal("p2 should be flagged disabled")
	}
	if listings[0].SellerFirstname != "Sam" || listings[0].SellerLastname != "Seller" {
		t.Fatalf("unexpected seller name: %+v", listings[0])
	}
}

func TestAdminService_ListReviews(t *testing.T) {
	svc, _, _, _, _ := newAdminFixture()

	t.Run("hidden reviews are excluded by default", func(t *testing.T) {
		reviews, err := svc.ListReviews(context.Background(), "", false)
		if err != nil {
			t.Fatalf("ListReviews returned error: %v", err)
		}
		if len(reviews) != 2 {
			t.Fatalf("expected 2 visible reviews, got %d", len(reviews))
		}
		for _, r := range reviews {
			if r.Hidden {
				t.Fatalf("hidden review leaked: %+v", r)
			}
		}
	})

	t.Run("showHidden includes moderated reviews", func(t *testing.T) {
		reviews, err := svc.ListReviews(context.Background(), "", true)
		if err != nil {
			t.Fatalf("ListReviews returned error: %v", err)
		}
		if len(reviews) != 3 {
			t.Fatalf("expected 3 reviews, got %d", len(reviews))
		}
	})

	t.Run("search matches listing title", func(t *testing.T) {
		reviews, err := svc.ListReviews(context.Background(), "pixel", true)
		if err != nil {
			t.Fatalf("ListReviews returned error: %v", err)
		}
		if len(reviews) != 2 {
			t.Fatalf("expected 2 Pixel reviews, got %d", len(reviews))
		}
	})

	t.Run("search matches reviewer name", func(t *testing.T) {
		reviews, err := svc.ListReviews(context.Background(), "troll", true)
		if err != nil {
			t.Fatalf("ListReviews returned error: %v", err)
		}
		if len(reviews) != 1 || reviews[0].ReviewerName != "Troll Account" {
			t.Fatalf("unexpected reviews: %+v", reviews)
		}
	})
}

func TestAdminService_SetReviewVisibility(t *testing.T) {
	svc, listingRepo, _, _, _ := newAdminFixture()

	if err := svc.SetReviewVisibility(context.Background(), "p1", 0, true); err != nil {
		t.Fatalf("SetReviewVisibility returned error: %v", err)
	}
	if !listingRepo.listings["p1"].Reviews[0].Hidden {
		t.Fatal("review not hidden")
	}

	if err := svc.SetReviewVisibility(context.Background(), "p1", 9, true); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestAdminService_ExportTransactionsCSV(t *testing.T) {
	svc, _, _, txRepo, _ := newAdminFixture()
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	txRepo.inserted = []*domain.Transaction{
		{
			ID: "tx-1", BuyerID: "u1", BuyerName: "Ana Alvarez",
			Cart: []domain.TransactionLine{
				{ItemID: "p1", Name: "Pixel 6", Quantity: 2},
				{ItemID: "p2", Name: "iPhone 12", Quantity: 1},
			},
			Total: 650.5, Timestamp: ts,
		},
	}

	out, err := svc.ExportTransactionsCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportTransactionsCSV returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != "timestamp,buyer,items,total" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	row := lines[1]
	if !strings.Contains(row, "2024-03-01T12:00:00Z") ||
		!strings.Contains(row, "Ana Alvarez") ||
		!strings.Contains(row, "Pixel 6(2); iPhone 12(1)") ||
		!strings.Contains(row, "650.50") {
		t.Fatalf("unexpected row %q", row)
	}
}

func TestAdminService_ListTransactionsWindow(t *testing.T) {
	svc, _, _, txRepo, _ := newAdminFixture()
	txRepo.inserted = []*domain.Transaction{
		{ID: "tx-1", Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "tx-2", Timestamp: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	txs, err := svc.ListTransactions(context.Background(),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != "tx-2" {
		t.Fatalf("unexpected window result: %+v", txs)
	}
}

func TestAdminService_UserModeration(t *testing.T) {
	svc, _, userRepo, _, _ := newAdminFixture()

	if err := svc.SetUserDisabled(context.Background(), "u2", true); err != nil {
		t.Fatalf("SetUserDisabled returned error: %v", err)
	}
	if !userRepo.users["u2"].Disabled {
		t.Fatal("user not disabled")
	}

	if err := svc.DeleteUser(context.Background(), "u2"); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if _, ok := userRepo.users["u2"]; ok {
		t.Fatal("user not deleted")
	}

	if err := svc.DeleteUser(context.Background(), "u2"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
