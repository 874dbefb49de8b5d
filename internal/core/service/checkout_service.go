package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/phonemart/marketplace-api/internal/api/metrics"
	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// CheckoutService orchestrates the cart → transaction flow:
//
//	load → validate → commit stock → snapshot → clear → persist → notify
//
// Validation is all-or-nothing: nothing is written until every line passes.
// Stock commits are per-line conditional decrements, so a concurrent
// checkout against the same listing cannot drive stock negative; the loser's
// decrement is skipped and logged. Steps after the stock commit are not
// rolled back on failure.
type CheckoutService struct {
	carts         ports.CartRepository
	listings      ports.ListingRepository
	transactions  ports.TransactionRepository
	notifications ports.NotificationRepository
	cache         ports.CartCountCache
	pricer        *Pricer
	log           zerolog.Logger
}

func NewCheckoutService(
	carts ports.CartRepository,
	listings ports.ListingRepository,
	transactions ports.TransactionRepository,
	notifications ports.NotificationRepository,
	cache ports.CartCountCache,
	pricer *Pricer,
	log zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:         carts,
		listings:      listings,
		transactions:  transactions,
		notifications: notifications,
		cache:         cache,
		pricer:        pricer,
		log:           log,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, input ports.CheckoutInput) (*ports.CheckoutResult, error) {
	start := time.Now()

	// 1. Load the cart.
	lines, err := s.carts.GetLines(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// 2. Validate every line against live stock. No mutation happens
	// until the whole cart passes this gate.
	var lineErrs []ports.LineError
	for _, line := range lines {
		listing, err := s.listings.FindByID(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, domain.ErrListingNotFound) {
				lineErrs = append(lineErrs, ports.LineError{
					ItemID:  line.ItemID,
					Message: fmt.Sprintf("item %s not found", line.ItemID),
				})
				continue
			}
			return nil, err
		}
		if line.Quantity > listing.Stock {
			lineErrs = append(lineErrs, ports.LineError{
				ItemID:  line.ItemID,
				Message: fmt.Sprintf("not enough stock for %s: buying %d when there's %d", line.ItemID, line.Quantity, listing.Stock),
			})
		}
	}
	if len(lineErrs) > 0 {
		metrics.CheckoutErrorsTotal.WithLabelValues("validation").Inc()
		return nil, &ports.CheckoutValidationError{Lines: lineErrs}
	}

	// 3. Commit stock. Each decrement is conditional on enough stock
	// remaining, so a racing checkout loses cleanly instead of pushing
	// stock below zero. A lost race at this point is logged and not
	// reported to the buyer.
	for _, line := range lines {
		if err := s.listings.DecrementStock(ctx, line.ItemID, line.Quantity); err != nil {
			metrics.CheckoutErrorsTotal.WithLabelValues("stock_commit").Inc()
			s.log.Warn().Err(err).
				Str("item_id", line.ItemID).
				Int("quantity", line.Quantity).
				Msg("stock decrement skipped")
		}
	}

	// 4. Snapshot the enriched cart into the order.
	enriched, total, err := s.pricer.Enrich(ctx, lines)
	if err != nil {
		return nil, err
	}
	snapshot := ports.OrderSnapshot{
		Cart:      enriched,
		Total:     total,
		BuyerID:   input.UserID,
		BuyerName: input.BuyerName,
		Timestamp: time.Now().UTC(),
		Delivered: false,
	}

	// 5. Clear the cart.
	if err := s.carts.Clear(ctx, input.UserID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	if err := s.cache.Invalidate(ctx, input.UserID); err != nil {
		s.log.Warn().Err(err).Str("user_id", input.UserID).Msg("cart count cache invalidation failed")
	}

	// 6. Persist the transaction.
	txLines := make([]domain.TransactionLine, len(enriched))
	for i, e := range enriched {
		txLines[i] = domain.TransactionLine{
			ItemID:     e.ItemID,
			Quantity:   e.Quantity,
			Name:       e.Name,
			Brand:      e.Brand,
			Image:      e.Image,
			Price:      e.Price,
			SellerID:   e.SellerID,
			SellerName: e.SellerName,
		}
	}
	txID, err := s.transactions.Insert(ctx, &domain.Transaction{
		BuyerID:   snapshot.BuyerID,
		BuyerName: snapshot.BuyerName,
		Cart:      txLines,
		Total:     snapshot.Total,
		Timestamp: snapshot.Timestamp,
		Delivered: false,
	})
	if err != nil {
		// Stock is already decremented and the cart is cleared; there
		// is no compensation path.
		return nil, fmt.Errorf("persist transaction: %w", err)
	}

	// 7. Emit the order_placed notification.
	items := make([]domain.NotificationItem, len(lines))
	for i, line := range lines {
		items[i] = domain.NotificationItem{ItemID: line.ItemID, Quantity: line.Quantity}
	}
	if err := s.notifications.Insert(ctx, &domain.Notification{
		Type:          domain.NotificationOrderPlaced,
		TransactionID: txID,
		BuyerID:       snapshot.BuyerID,
		BuyerName:     snapshot.BuyerName,
		Items:         items,
		Total:         snapshot.Total,
		Timestamp:     snapshot.Timestamp,
	}); err != nil {
		s.log.Error().Err(err).Str("transaction_id", txID).Msg("failed to write order notification")
	}

	metrics.CheckoutsTotal.Inc()
	metrics.CheckoutValue.Observe(snapshot.Total)
	metrics.CheckoutDuration.Observe(time.Since(start).Seconds())

	s.log.Info().
		Str("transaction_id", txID).
		Str("buyer_id", input.UserID).
		Float64("total", snapshot.Total).
		Int("lines", len(txLines)).
		Msg("checkout completed")

	// 8. Respond with the new transaction id and the full snapshot.
	return &ports.CheckoutResult{TransactionID: txID, Order: snapshot}, nil
}

// ListOrders returns the buyer's past transactions.
func (s *CheckoutService) ListOrders(ctx context.Context, buyerID string) ([]domain.Transaction, error) {
	return s.transactions.FindByBuyer(ctx, buyerID)
}
