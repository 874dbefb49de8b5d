package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/phonemart/marketplace-api/internal/api/metrics"
	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// CartService implements every cart mutation and view.
//
// Batch operations validate and commit line by line: a valid line is
// persisted immediately, and failures for the remaining lines are collected
// and returned alongside the resulting cart. There is no rollback of the
// lines that already committed.
type CartService struct {
	carts    ports.CartRepository
	listings ports.ListingRepository
	cache    ports.CartCountCache
	pricer   *Pricer
	log      zerolog.Logger
}

func NewCartService(
	carts ports.CartRepository,
	listings ports.ListingRepository,
	cache ports.CartCountCache,
	pricer *Pricer,
	log zerolog.Logger,
) *CartService {
	return &CartService{carts: carts, listings: listings, cache: cache, pricer: pricer, log: log}
}

// RenderCart returns the enriched cart with the computed total.
func (s *CartService) RenderCart(ctx context.Context, userID string) (*ports.CartView, error) {
	lines, err := s.carts.GetLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	enriched, total, err := s.pricer.Enrich(ctx, lines)
	if err != nil {
		return nil, err
	}
	return &ports.CartView{Lines: enriched, Total: total}, nil
}

// CountItems returns the summed quantity across all cart lines. The value
// is served from the Redis cache when fresh; cart mutations invalidate it.
func (s *CartService) CountItems(ctx context.Context, userID string) (int, error) {
	if count, ok, err := s.cache.Get(ctx, userID); err != nil {
		s.log.Warn().Err(err).Msg("cart count cache read failed, falling back to store")
	} else if ok {
		metrics.CartCountCacheTotal.WithLabelValues("hit").Inc()
		return count, nil
	} else {
		metrics.CartCountCacheTotal.WithLabelValues("miss").Inc()
	}

	lines, err := s.carts.GetLines(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, line := range lines {
		count += line.Quantity
	}

	if err := s.cache.Set(ctx, userID, count); err != nil {
		s.log.Warn().Err(err).Msg("cart count cache write failed")
	}
	return count, nil
}

// AddItems merges the requested lines into the cart. Per line: the listing
// must exist and the merged quantity (existing + requested) must not exceed
// its stock. Valid lines upsert (overwrite quantity if present, append
// otherwise); invalid ones are reported in the returned errors.
func (s *CartService) AddItems(ctx context.Context, userID string, lines []ports.CartLineInput) ([]domain.CartLine, []ports.LineError, error) {
	cart, err := s.carts.GetLines(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var lineErrs []ports.LineError
	for _, in := range lines {
		listing, err := s.listings.FindByID(ctx, in.ItemID)
		if err != nil {
			if errors.Is(err, domain.ErrListingNotFound) {
				lineErrs = append(lineErrs, ports.LineError{
					ItemID:  in.ItemID,
					Message: fmt.Sprintf("item %s not found", in.ItemID),
				})
				continue
			}
			return nil, nil, err
		}

		newQuantity := in.Quantity
		if existing := findLine(cart, in.ItemID); existing != nil {
			newQuantity += existing.Quantity
		}
		if newQuantity > listing.Stock {
			lineErrs = append(lineErrs, ports.LineError{
				ItemID:  in.ItemID,
				Message: fmt.Sprintf("not enough stock for %s: requested %d, available %d", in.ItemID, newQuantity, listing.Stock),
			})
			continue
		}

		matched, err := s.carts.SetLineQuantity(ctx, userID, in.ItemID, newQuantity)
		if err != nil {
			return nil, nil, err
		}
		if !matched {
			if err := s.carts.PushLine(ctx, userID, domain.CartLine{ItemID: in.ItemID, Quantity: newQuantity}); err != nil {
				return nil, nil, err
			}
		}
		cart = upsertLine(cart, in.ItemID, newQuantity)
		metrics.CartMutationsTotal.WithLabelValues("add").Inc()
	}

	return s.finishMutation(ctx, userID, lineErrs)
}

// UpdateItems overwrites quantities on lines that are already in the cart.
func (s *CartService) UpdateItems(ctx context.Context, userID string, lines []ports.CartLineInput) ([]domain.CartLine, []ports.LineError, error) {
	cart, err := s.carts.GetLines(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var lineErrs []ports.LineError
	for _, in := range lines {
		listing, err := s.listings.FindByID(ctx, in.ItemID)
		if err != nil {
			if errors.Is(err, domain.ErrListingNotFound) {
				lineErrs = append(lineErrs, ports.LineError{
					ItemID:  in.ItemID,
					Message: fmt.Sprintf("item %s not found", in.ItemID),
				})
				continue
			}
			return nil, nil, err
		}

		if findLine(cart, in.ItemID) == nil {
			lineErrs = append(lineErrs, ports.LineError{
				ItemID:  in.ItemID,
				Message: fmt.Sprintf("item %s is not in the cart", in.ItemID),
			})
			continue
		}
		if in.Quantity > listing.Stock {
			lineErrs = append(lineErrs, ports.LineError{
				ItemID:  in.ItemID,
				Message: fmt.Sprintf("not enough stock for %s: requested %d, available %d", in.ItemID, in.Quantity, listing.Stock),
			})
			continue
		}

		if _, err := s.carts.SetLineQuantity(ctx, userID, in.ItemID, in.Quantity); err != nil {
			return nil, nil, err
		}
		cart = upsertLine(cart, in.ItemID, in.Quantity)
		metrics.CartMutationsTotal.WithLabelValues("update").Inc()
	}

	return s.finishMutation(ctx, userID, lineErrs)
}

// RemoveItems pulls the given lines out of the cart. Removing an item that
// is not in the cart reports ItemNotInCart for that line and leaves the
// cart untouched, so a repeated remove is harmless.
func (s *CartService) RemoveItems(ctx context.Context, userID string, itemIDs []string) ([]domain.CartLine, []ports.LineError, error) {
	cart, err := s.carts.GetLines(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var lineErrs []ports.LineError
	for _, itemID := range itemIDs {
		if findLine(cart, itemID) == nil {
			lineErrs = append(lineErrs, ports.LineError{
				ItemID:  itemID,
				Message: fmt.Sprintf("item %s is not in the cart", itemID),
			})
			continue
		}
		if err := s.carts.PullLine(ctx, userID, itemID); err != nil {
			return nil, nil, err
		}
		cart = removeLine(cart, itemID)
		metrics.CartMutationsTotal.WithLabelValues("delete").Inc()
	}

	return s.finishMutation(ctx, userID, lineErrs)
}

// finishMutation invalidates the count cache and re-reads the cart so the
// caller always sees the committed state, including partial batches.
func (s *CartService) finishMutation(ctx context.Context, userID string, lineErrs []ports.LineError) ([]domain.CartLine, []ports.LineError, error) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("cart count cache invalidation failed")
	}

	cart, err := s.carts.GetLines(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return cart, lineErrs, nil
}

func findLine(cart []domain.CartLine, itemID string) *domain.CartLine {
	for i := range cart {
		if cart[i].ItemID == itemID {
			return &cart[i]
		}
	}
	return nil
}

func upsertLine(cart []domain.CartLine, itemID string, quantity int) []domain.CartLine {
	for i := range cart {
		if cart[i].ItemID == itemID {
			cart[i].Quantity = quantity
			return cart
		}
	}
	return append(cart, domain.CartLine{ItemID: itemID, Quantity: quantity})
}

func removeLine(cart []domain.CartLine, itemID string) []domain.CartLine {
	out := cart[:0]
	for _, line := range cart {
		if line.ItemID != itemID {
			out = append(out, line)
		}
	}
	return out
}
