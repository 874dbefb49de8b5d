package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// OrderHandler serves the buyer's order history.
type OrderHandler struct {
	checkout ports.CheckoutService
}

func NewOrderHandler(checkout ports.CheckoutService) *OrderHandler {
	return &OrderHandler{checkout: checkout}
}

// List handles GET /api/orders.
//
// @Summary      List the caller's past orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Transaction
// @Failure      401  {object}  errorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	orders, err := h.checkout.ListOrders(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}
