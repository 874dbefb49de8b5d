package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// CartHandler handles HTTP requests for cart and checkout operations.
type CartHandler struct {
	carts    ports.CartService
	checkout ports.CheckoutService
}

func NewCartHandler(carts ports.CartService, checkout ports.CheckoutService) *CartHandler {
	return &CartHandler{carts: carts, checkout: checkout}
}

// Get handles GET /api/cart.
//
// @Summary      Get the enriched cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.CartView
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	view, err := h.carts.RenderCart(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Quantity handles GET /api/cart/quantity. The body is the plain item
// count, which the storefront renders directly in the header badge.
//
// @Summary      Get the total item count in the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {integer}  int
// @Failure      401  {object}   errorResponse
// @Router       /api/cart/quantity [get]
func (h *CartHandler) Quantity(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	count, err := h.carts.CountItems(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, count)
}

// Add handles POST /api/cart/add.
//
// @Summary      Add items to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      cartBatchRequest  true  "Lines to add"
// @Success      200   {object}  cartMutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  lineErrorResponse
// @Router       /api/cart/add [post]
func (h *CartHandler) Add(c echo.Context) error {
	lines, err := bindBatch(c)
	if err != nil {
		return err
	}
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	cart, lineErrs, err := h.carts.AddItems(c.Request().Context(), p.UserID, lines)
	return mutationResponse(c, cart, lineErrs, err)
}

// Update handles POST /api/cart/update.
//
// @Summary      Set line quantities in the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      cartBatchRequest  true  "Lines to update"
// @Success      200   {object}  cartMutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  lineErrorResponse
// @Router       /api/cart/update [post]
func (h *CartHandler) Update(c echo.Context) error {
	lines, err := bindBatch(c)
	if err != nil {
		return err
	}
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	cart, lineErrs, err := h.carts.UpdateItems(c.Request().Context(), p.UserID, lines)
	return mutationResponse(c, cart, lineErrs, err)
}

// Delete handles POST /api/cart/delete.
//
// @Summary      Remove lines from the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      cartRemoveRequest  true  "Lines to remove"
// @Success      200   {object}  cartMutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  lineErrorResponse
// @Router       /api/cart/delete [post]
func (h *CartHandler) Delete(c echo.Context) error {
	var req cartRemoveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	ids := make([]string, len(req.Cart))
	for i, l := range req.Cart {
		ids[i] = l.ItemID
	}

	cart, lineErrs, err := h.carts.RemoveItems(c.Request().Context(), p.UserID, ids)
	return mutationResponse(c, cart, lineErrs, err)
}

// Checkout handles GET /api/cart/checkout.
//
// @Summary      Convert the cart into an order
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  checkoutResponse
// @Failure      400  {object}  lineErrorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/cart/checkout [get]
func (h *CartHandler) Checkout(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	result, err := h.checkout.Checkout(c.Request().Context(), ports.CheckoutInput{
		UserID:    p.UserID,
		BuyerName: p.DisplayName(),
	})
	if err != nil {
		var ve *ports.CheckoutValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, lineErrorResponse{Errors: ve.Lines})
		}
		return err
	}

	return c.JSON(http.StatusOK, checkoutResponse{
		Success: true,
		OrderID: result.TransactionID,
		Order:   result.Order,
	})
}

func bindBatch(c echo.Context) ([]ports.CartLineInput, error) {
	var req cartBatchRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lines := make([]ports.CartLineInput, len(req.Cart))
	for i, l := range req.Cart {
		lines[i] = ports.CartLineInput{ItemID: l.ItemID, Quantity: l.Quantity}
	}
	return lines, nil
}

// mutationResponse renders the outcome of a batch cart mutation: the full
// cart on success, the collected line errors when any line failed. Lines
// that did validate stay committed either way.
func mutationResponse(c echo.Context, cart []domain.CartLine, lineErrs []ports.LineError, err error) error {
	if err != nil {
		return err
	}
	if len(lineErrs) > 0 {
		return c.JSON(http.StatusNotFound, lineErrorResponse{Errors: lineErrs})
	}
	return c.JSON(http.StatusOK, cartMutationResponse{Cart: cart})
}
