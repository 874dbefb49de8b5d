package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests
// ---------------------------------------------------------------------------

type stubCartRepo struct {
	carts     map[string][]domain.CartLine
	clearErr  error // if set, Clear returns this error
	clearedAt int   // number of Clear calls
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: make(map[string][]domain.CartLine)}
}

func (r *stubCartRepo) GetLines(_ context.Context, userID string) ([]domain.CartLine, error) {
	lines, ok := r.carts[userID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out, nil
}

func (r *stubCartRepo) SetLineQuantity(_ context.Context, userID, itemID string, quantity int) (bool, error) {
	lines, ok := r.carts[userID]
	if !ok {
		return false, domain.ErrCartNotFound
	}
	for i := range lines {
		if lines[i].ItemID == itemID {
			lines[i].Quantity = quantity
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCartRepo) PushLine(_ context.Context, userID string, line domain.CartLine) error {
	if _, ok := r.carts[userID]; !ok {
		return domain.ErrCartNotFound
	}
	r.carts[userID] = append(r.carts[userID], line)
	return nil
}

func (r *stubCartRepo) PullLine(_ context.Context, userID, itemID string) error {
	lines, ok := r.carts[userID]
	if !ok {
		return domain.ErrCartNotFound
	}
	out := lines[:0]
	for _, l := range lines {
		if l.ItemID != itemID {
			out = append(out, l)
		}
	}
	r.carts[userID] = out
	return nil
}

func (r *stubCartRepo) Clear(_ context.Context, userID string) error {
	if r.clearErr != nil {
		return r.clearErr
	}
	if _, ok := r.carts[userID]; !ok {
		return domain.ErrCartNotFound
	}
	r.carts[userID] = []domain.CartLine{}
	r.clearedAt++
	return nil
}

// ---------------------------------------------------------------------------

type stubListingRepo struct {
	listings  map[string]*domain.Listing
	decrement []string // item ids passed to DecrementStock, in order
}

func newStubListingRepo(listings ...*domain.Listing) *stubListingRepo {
	r := &stubListingRepo{listings: make(map[string]*domain.Listing)}
	for _, l := range listings {
		clone := *l
		r.listings[l.ID] = &clone
	}
	return r
}

func (r *stubListingRepo) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *stubListingRepo) FindManyByID(ctx context.Context, ids []string) ([]domain.Listing, error) {
	out := []domain.Listing{}
	for _, id := range ids {
		if l, ok := r.listings[id]; ok {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubListingRepo) FindBySeller(_ context.Context, sellerID string) ([]domain.Listing, error) {
	out := []domain.Listing{}
	for _, l := range r.listings {
		if l.Seller == sellerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubListingRepo) FindByReviewer(_ context.Context, reviewerID string) ([]domain.Listing, error) {
	out := []domain.Listing{}
	for _, l := range r.listings {
		for _, rv := range l.Reviews {
			if rv.Reviewer == reviewerID {
				out = append(out, *l)
				break
			}
		}
	}
	return out, nil
}

func (r *stubListingRepo) Search(_ context.Context, f ports.ListingFilter) ([]ports.ListingSummary, error) {
	out := []ports.ListingSummary{}
	for _, l := range r.listings {
		if l.Disabled {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(l.Title), strings.ToLower(f.Search)) {
			continue
		}
		if f.Brand != "" && l.Brand != f.Brand {
			continue
		}
		if f.MaxPrice > 0 && l.Price > f.MaxPrice {
			continue
		}
		out = append(out, ports.ListingSummary{
			ID: l.ID, Title: l.Title, Brand: l.Brand,
			Image: l.Image, Price: l.Price, Stock: l.Stock,
		})
	}
	return out, nil
}

func (r *stubListingRepo) AdminList(_ context.Context, search string) ([]domain.Listing, error) {
	out := []domain.Listing{}
	for _, l := range r.listings {
		if search != "" &&
			!strings.Contains(strings.ToLower(l.Title), strings.ToLower(search)) &&
			!strings.Contains(strings.ToLower(l.Brand), strings.ToLower(search)) {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubListingRepo) Metadata(_ context.Context) ([]string, float64, error) {
	brands := []string{}
	maxPrice := 0.0
	for _, l := range r.listings {
		if l.Disabled {
			continue
		}
		brands = append(brands, l.Brand)
		if l.Price > maxPrice {
			maxPrice = l.Price
		}
	}
	return brands, maxPrice, nil
}

func (r *stubListingRepo) SoldOutSoon(_ context.Context) ([]domain.Listing, error) {
	out := []domain.Listing{}
	for _, l := range r.listings {
		if !l.Disabled && l.Stock > 0 {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubListingRepo) BestSellers(_ context.Context) ([]ports.ListingSummary, error) {
	return []ports.ListingSummary{}, nil
}

func (r *stubListingRepo) Create(_ context.Context, l *domain.Listing) (string, error) {
	id := fmt.Sprintf("listing-%d", len(r.listings)+1)
	clone := *l
	clone.ID = id
	r.listings[id] = &clone
	return id, nil
}

func (r *stubListingRepo) UpdateFields(_ context.Context, id string, update ports.ListingUpdate) (*domain.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	if update.Title != nil {
		l.Title = *update.Title
	}
	if update.Brand != nil {
		l.Brand = *update.Brand
	}
	if update.Price != nil {
		l.Price = *update.Price
	}
	if update.Stock != nil {
		l.Stock = *update.Stock
	}
	if update.Disabled != nil {
		l.Disabled = *update.Disabled
	}
	clone := *l
	return &clone, nil
}

func (r *stubListingRepo) SetDisabled(_ context.Context, id string, disabled bool) error {
	l, ok := r.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.Disabled = disabled
	return nil
}

func (r *stubListingRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *stubListingRepo) PushReview(_ context.Context, id string, review domain.Review) error {
	l, ok := r.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.Reviews = append(l.Reviews, review)
	return nil
}

func (r *stubListingRepo) SetReviewHidden(_ context.Context, id string, index int, hidden bool) error {
	l, ok := r.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	if index < 0 || index >= len(l.Reviews) {
		return domain.ErrReviewNotFound
	}
	l.Reviews[index].Hidden = hidden
	return nil
}

// DecrementStock mirrors the conditional update of the real Mongo repo.
func (r *stubListingRepo) DecrementStock(_ context.Context, id string, quantity int) error {
	l, ok := r.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	if l.Stock < quantity {
		return domain.ErrInsufficientStock
	}
	l.Stock -= quantity
	r.decrement = append(r.decrement, id)
	return nil
}

// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
	pwdErr error // if set, UpdatePassword returns this error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		clone := *u
		r.users[u.ID] = &clone
	}
	return r
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := *user
	clone.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) Search(_ context.Context, search string) ([]domain.User, error) {
	out := []domain.User{}
	needle := strings.ToLower(search)
	for _, u := range r.users {
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Firstname), needle) &&
			!strings.Contains(strings.ToLower(u.Lastname), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) UpdateFields(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Firstname != nil {
		u.Firstname = *update.Firstname
	}
	if update.Lastname != nil {
		u.Lastname = *update.Lastname
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Disabled != nil {
		u.Disabled = *update.Disabled
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) SetDisabled(_ context.Context, id string, disabled bool) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Disabled = disabled
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) SetVerified(_ context.Context, email string) error {
	for _, u := range r.users {
		if u.Email == email {
			u.Verified = true
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id string, t time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = t
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	if r.pwdErr != nil {
		return r.pwdErr
	}
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *stubUserRepo) Names(_ context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			names[id] = u.Firstname + " " + u.Lastname
		}
	}
	return names, nil
}

func (r *stubUserRepo) AddWishlistItem(_ context.Context, userID, listingID string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for _, id := range u.Wishlist {
		if id == listingID {
			return nil
		}
	}
	u.Wishlist = append(u.Wishlist, listingID)
	return nil
}

func (r *stubUserRepo) RemoveWishlistItem(_ context.Context, userID, listingID string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	out := u.Wishlist[:0]
	for _, id := range u.Wishlist {
		if id != listingID {
			out = append(out, id)
		}
	}
	u.Wishlist = out
	return nil
}

func (r *stubUserRepo) GetWishlist(_ context.Context, userID string) ([]string, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := make([]string, len(u.Wishlist))
	copy(out, u.Wishlist)
	return out, nil
}

// ---------------------------------------------------------------------------

type stubTransactionRepo struct {
	inserted  []*domain.Transaction
	insertErr error // if set, Insert returns this error
}

func (r *stubTransactionRepo) Insert(_ context.Context, tx *domain.Transaction) (string, error) {
	if r.insertErr != nil {
		return "", r.insertErr
	}
	clone := *tx
	id := fmt.Sprintf("tx-%d", len(r.inserted)+1)
	clone.ID = id
	r.inserted = append(r.inserted, &clone)
	return id, nil
}

func (r *stubTransactionRepo) FindByBuyer(_ context.Context, buyerID string) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	for _, tx := range r.inserted {
		if tx.BuyerID == buyerID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *stubTransactionRepo) List(_ context.Context, from, to time.Time) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	for _, tx := range r.inserted {
		if !from.IsZero() && tx.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && tx.Timestamp.After(to) {
			continue
		}
		out = append(out, *tx)
	}
	return out, nil
}

type stubNotificationRepo struct {
	inserted []*domain.Notification
}

func (r *stubNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	clone := *n
	r.inserted = append(r.inserted, &clone)
	return nil
}

func (r *stubNotificationRepo) List(_ context.Context) ([]domain.Notification, error) {
	out := make([]domain.Notification, 0, len(r.inserted))
	for i := len(r.inserted) - 1; i >= 0; i-- {
		out = append(out, *r.inserted[i])
	}
	return out, nil
}

// ---------------------------------------------------------------------------

type stubCountCache struct {
	values      map[string]int
	invalidated int
}

func newStubCountCache() *stubCountCache {
	return &stubCountCache{values: make(map[string]int)}
}

func (c *stubCountCache) Get(_ context.Context, userID string) (int, bool, error) {
	v, ok := c.values[userID]
	return v, ok, nil
}

func (c *stubCountCache) Set(_ context.Context, userID string, count int) error {
	c.values[userID] = count
	return nil
}

func (c *stubCountCache) Invalidate(_ context.Context, userID string) error {
	delete(c.values, userID)
	c.invalidated++
	return nil
}
