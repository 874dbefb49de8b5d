package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

func TestListingService_Details(t *testing.T) {
	listingRepo := newStubListingRepo(&domain.Listing{
		ID: "p1", Title: "Pixel 6", Brand: "Google", Price: 250, Stock: 3,
		Seller: "seller-1",
		Reviews: []domain.Review{
			{Reviewer: "u1", Rating: 5, Comment: "great"},
			{Reviewer: "gone", Rating: 2, Comment: "meh", Hidden: true},
		},
	})
	userRepo := newStubUserRepo(
		&domain.User{ID: "seller-1", Firstname: "Sam", Lastname: "Seller"},
		&domain.User{ID: "u1", Firstname: "Ana", Lastname: "Alvarez"},
	)
	svc := NewListingService(listingRepo, userRepo, zerolog.Nop())

	detail, err := svc.Details(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Details returned error: %v", err)
	}
	if detail.Seller.Firstname != "Sam" || detail.Seller.Lastname != "Seller" {
		t.Fatalf("unexpected seller: %+v", detail.Seller)
	}
	if len(detail.Reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(detail.Reviews))
	}
	if detail.Reviews[0].Fullname != "Ana Alvarez" {
		t.Fatalf("expected resolved reviewer name, got %q", detail.Reviews[0].Fullname)
	}
	if detail.Reviews[1].Fullname != "Unknown" {
		t.Fatalf("deleted reviewer should show as Unknown, got %q", detail.Reviews[1].Fullname)
	}
	if !detail.Reviews[1].Hidden {
		t.Fatal("hidden flag must survive into the view")
	}
}

func TestListingService_Details_NotFound(t *testing.T) {
	svc := NewListingService(newStubListingRepo(), newStubUserRepo(), zerolog.Nop())
	if _, err := svc.Details(context.Background(), "nope"); !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestListingService_Create(t *testing.T) {
	listingRepo := newStubListingRepo()
	svc := NewListingService(listingRepo, newStubUserRepo(), zerolog.Nop())

	created, err := svc.Create(context.Background(), ports.CreateListingInput{
		Title: "iPhone 12", Brand: "Apple", Price: 400, Stock: 2,
		Image: "iphone.jpg", Seller: "seller-1",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an id on the created listing")
	}
	if created.Disabled {
		t.Fatal("new listings must start enabled")
	}
	stored := listingRepo.listings[created.ID]
	if stored.Title != "iPhone 12" || stored.Seller != "seller-1" {
		t.Fatalf("unexpected stored listing: %+v", stored)
	}
	if stored.Reviews == nil || len(stored.Reviews) != 0 {
		t.Fatal("new listings must start with an empty review slice")
	}
}

func TestListingService_AddReview(t *testing.T) {
	listingRepo := newStubListingRepo(&domain.Listing{ID: "p1", Title: "Pixel 6", Seller: "seller-1"})
	userRepo := newStubUserRepo(&domain.User{ID: "u1", Firstname: "Ana", Lastname: "Alvarez"})
	svc := NewListingService(listingRepo, userRepo, zerolog.Nop())

	view, err := svc.AddReview(context.Background(), ports.AddReviewInput{
		ListingID: "p1", Reviewer: "u1", Rating: 4, Comment: "solid phone",
	})
	if err != nil {
		t.Fatalf("AddReview returned error: %v", err)
	}
	if view.Fullname != "Ana Alvarez" || view.Rating != 4 {
		t.Fatalf("unexpected review view: %+v", view)
	}
	reviews := listingRepo.listings["p1"].Reviews
	if len(reviews) != 1 || reviews[0].Reviewer != "u1" || reviews[0].Hidden {
		t.Fatalf("unexpected stored reviews: %+v", reviews)
	}

	t.Run("unknown reviewer", func(t *testing.T) {
		_, err := svc.AddReview(context.Background(), ports.AddReviewInput{
			ListingID: "p1", Reviewer: "ghost", Rating: 1,
		})
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("unknown listing", func(t *testing.T) {
		_, err := svc.AddReview(context.Background(), ports.AddReviewInput{
			ListingID: "nope", Reviewer: "u1", Rating: 1,
		})
		if !errors.Is(err, domain.ErrListingNotFound) {
			t.Fatalf("expected ErrListingNotFound, got %v", err)
		}
	})
}

func TestListingService_SetReviewHidden(t *testing.T) {
	listingRepo := newStubListingRepo(&domain.Listing{
		ID:      "p1",
		Reviews: []domain.Review{{Reviewer: "u1", Rating: 1, Comment: "spam"}},
	})
	svc := NewListingService(listingRepo, newStubUserRepo(), zerolog.Nop())

	if err := svc.SetReviewHidden(context.Background(), "p1", 0, true); err != nil {
		t.Fatalf("SetReviewHidden returned error: %v", err)
	}
	if !listingRepo.listings["p1"].Reviews[0].Hidden {
		t.Fatal("review not hidden")
	}

	if err := svc.SetReviewHidden(context.Background(), "p1", 5, true); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}
