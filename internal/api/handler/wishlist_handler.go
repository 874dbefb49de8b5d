package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// WishlistHandler serves the caller's saved listings.
type WishlistHandler struct {
	wishlist ports.WishlistService
}

func NewWishlistHandler(wishlist ports.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

// List handles GET /api/wishlist.
//
// @Summary      List saved listings
// @Tags         wishlist
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Listing
// @Failure      401  {object}  errorResponse
// @Router       /api/wishlist [get]
func (h *WishlistHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	listings, err := h.wishlist.List(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}

// Add handles POST /api/wishlist/:id.
//
// @Summary      Save a listing
// @Tags         wishlist
// @Security     BearerAuth
// @Param        id   path  string  true  "Listing id"
// @Success      204  "saved"
// @Failure      404  {object}  errorResponse
// @Router       /api/wishlist/{id} [post]
func (h *WishlistHandler) Add(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.wishlist.Add(c.Request().Context(), p.UserID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Remove handles DELETE /api/wishlist/:id.
//
// @Summary      Remove a saved listing
// @Tags         wishlist
// @Security     BearerAuth
// @Param        id   path  string  true  "Listing id"
// @Success      204  "removed"
// @Failure      404  {object}  errorResponse
// @Router       /api/wishlist/{id} [delete]
func (h *WishlistHandler) Remove(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.wishlist.Remove(c.Request().Context(), p.UserID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
