package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

func newWishlistFixture() (*WishlistService, *stubUserRepo, *stubListingRepo) {
	userRepo := newStubUserRepo(&domain.User{ID: "u1", Firstname: "Ana"})
	listingRepo := newStubListingRepo(
		&domain.Listing{ID: "p1", Title: "Pixel 6", Price: 250},
		&domain.Listing{ID: "p2", Title: "iPhone 12", Price: 400},
	)
	return NewWishlistService(userRepo, listingRepo, zerolog.Nop()), userRepo, listingRepo
}

func TestWishlistService_AddListRemove(t *testing.T) {
	svc, userRepo, _ := newWishlistFixture()

	if err := svc.Add(context.Background(), "u1", "p1"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := svc.Add(context.Background(), "u1", "p2"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	// Adding the same id again must not duplicate it.
	if err := svc.Add(context.Background(), "u1", "p1"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if got := len(userRepo.users["u1"].Wishlist); got != 2 {
		t.Fatalf("expected 2 wishlist ids, got %d", got)
	}

	listings, err := svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	if err := svc.Remove(context.Background(), "u1", "p1"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	listings, err = svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listings) != 1 || listings[0].ID != "p2" {
		t.Fatalf("unexpected wishlist after remove: %+v", listings)
	}
}

func TestWishlistService_List_DropsDeletedListings(t *testing.T) {
	svc, _, listingRepo := newWishlistFixture()

	if err := svc.Add(context.Background(), "u1", "p1"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := svc.Add(context.Background(), "u1", "p2"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	delete(listingRepo.listings, "p1")

	listings, err := svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listings) != 1 || listings[0].ID != "p2" {
		t.Fatalf("deleted listing should drop out, got %+v", listings)
	}
}

func TestWishlistService_EmptyAndUnknownUser(t *testing.T) {
	svc, _, _ := newWishlistFixture()

	listings, err := svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listings) != 0 {
		t.Fatalf("expected empty wishlist, got %+v", listings)
	}

	if _, err := svc.List(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := svc.Add(context.Background(), "ghost", "p1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
