package handler

import (
	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// lineErrorResponse is the envelope for batch operations that failed on
// one or more lines.
type lineErrorResponse struct {
	Errors []ports.LineError `json:"errors"`
}

// --- Request / Response types ---

type cartLineRequest struct {
	ItemID   string `json:"itemID"   validate:"required,mongodb"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// cartBatchRequest is the body of the add and update endpoints.
type cartBatchRequest struct {
	Cart []cartLineRequest `json:"cart" validate:"required,min=1,dive"`
}

type cartRemoveLineRequest struct {
	ItemID string `json:"itemID" validate:"required,mongodb"`
}

// cartRemoveRequest is the body of the delete endpoint; quantities are
// irrelevant when removing whole lines.
type cartRemoveRequest struct {
	Cart []cartRemoveLineRequest `json:"cart" validate:"required,min=1,dive"`
}

// cartMutationResponse returns the raw cart after a batch mutation,
// together with any per-line failures.
type cartMutationResponse struct {
	Cart   []domain.CartLine `json:"cart"`
	Errors []ports.LineError `json:"errors,omitempty"`
}

type checkoutResponse struct {
	Success bool                `json:"success"`
	OrderID string              `json:"orderID"`
	Order   ports.OrderSnapshot `json:"order"`
}
