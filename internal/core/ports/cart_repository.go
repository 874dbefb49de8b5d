package ports

import (
	"context"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// CartRepository persists per-user cart lines. The cart lives embedded in
// the user document, so every operation is keyed by user id.
type CartRepository interface {
	// GetLines returns the raw cart lines. ErrCartNotFound when the user
	// document does not exist.
	GetLines(ctx context.Context, userID string) ([]domain.CartLine, error)

	// SetLineQuantity overwrites the quantity of an existing line. The
	// boolean reports whether a line matched (false means the item is
	// not in the cart).
	SetLineQuantity(ctx context.Context, userID, itemID string, quantity int) (bool, error)

	// PushLine appends a new line to the cart.
	PushLine(ctx context.Context, userID string, line domain.CartLine) error

	// PullLine removes the line for itemID, if present.
	PullLine(ctx context.Context, userID, itemID string) error

	// Clear empties the cart.
	Clear(ctx context.Context, userID string) error
}

// CartCountCache caches the total item count shown on the cart badge.
// A miss is not an error; mutations invalidate the entry.
type CartCountCache interface {
	Get(ctx context.Context, userID string) (int, bool, error)
	Set(ctx context.Context, userID string, count int) error
	Invalidate(ctx context.Context, userID string) error
}
