package ports

import (
	"context"
	"fmt"
	"strings"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// CartLineInput is a requested (item, quantity) pair from the client.
type CartLineInput struct {
	ItemID   string
	Quantity int
}

// LineError is a per-line failure collected during a batch cart operation
// or checkout validation.
type LineError struct {
	ItemID  string `json:"itemID"`
	Message string `json:"error"`
}

// EnrichedLine is a cart line joined with live listing and seller data.
// Price is the line total (unit price × quantity).
type EnrichedLine struct {
	ItemID     string  `json:"itemID"`
	Quantity   int     `json:"quantity"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	Image      string  `json:"image"`
	Price      float64 `json:"price"`
	SellerID   string  `json:"sellerID"`
	SellerName string  `json:"sellerName"`
}

// CartView is the materialized cart: enriched lines plus the computed
// total. Lines whose listing no longer exists are silently omitted.
type CartView struct {
	Lines []EnrichedLine `json:"cart"`
	Total float64        `json:"total"`
}

// CheckoutValidationError aggregates every line that failed the stock
// validation gate. When it is returned no mutation has happened.
type CheckoutValidationError struct {
	Lines []LineError
}

func (e *CheckoutValidationError) Error() string {
	msgs := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		msgs[i] = l.Message
	}
	return fmt.Sprintf("checkout validation failed: %s", strings.Join(msgs, "; "))
}

// CartService covers every mutation and view of a user's cart.
//
// The batch mutations return the resulting raw cart together with any
// per-line errors: lines that validated are committed immediately even when
// other lines in the same batch fail.
type CartService interface {
	RenderCart(ctx context.Context, userID string) (*CartView, error)
	CountItems(ctx context.Context, userID string) (int, error)
	AddItems(ctx context.Context, userID string, lines []CartLineInput) ([]domain.CartLine, []LineError, error)
	UpdateItems(ctx context.Context, userID string, lines []CartLineInput) ([]domain.CartLine, []LineError, error)
	RemoveItems(ctx context.Context, userID string, itemIDs []string) ([]domain.CartLine, []LineError, error)
}
