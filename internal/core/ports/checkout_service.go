package ports

import (
	"context"
	"time"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// CheckoutInput identifies the buyer for a checkout attempt. BuyerName is
// taken from the request principal, not re-read from the database.
type CheckoutInput struct {
	UserID    string
	BuyerName string
}

// OrderSnapshot is the enriched cart frozen at checkout time, exactly as
// it is persisted in the transaction record.
type OrderSnapshot struct {
	Cart      []EnrichedLine `json:"cart"`
	Total     float64        `json:"total"`
	BuyerID   string         `json:"buyerID"`
	BuyerName string         `json:"buyerName"`
	Timestamp time.Time      `json:"timestamp"`
	Delivered bool           `json:"delivered"`
}

// CheckoutResult is returned on a successful checkout.
type CheckoutResult struct {
	TransactionID string
	Order         OrderSnapshot
}

// CheckoutService converts a cart into a transaction, decrementing stock
// and emitting an order_placed notification.
type CheckoutService interface {
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
	// ListOrders returns the buyer's past transactions.
	ListOrders(ctx context.Context, buyerID string) ([]domain.Transaction, error)
}
