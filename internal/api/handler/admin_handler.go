package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// AdminHandler serves the moderation and sales inspection endpoints. Every
// route behind it requires the admin role and is audited.
type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type adminUpdateUserRequest struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Disabled  *bool   `json:"disabled"`
}

type adminUpdateListingRequest struct {
	Title    *string  `json:"title"`
	Brand    *string  `json:"brand"`
	Price    *float64 `json:"price" validate:"omitempty,gt=0"`
	Stock    *int     `json:"stock" validate:"omitempty,gte=0"`
	Disabled *bool    `json:"disabled"`
}

type reviewVisibilityRequest struct {
	Hidden bool `json:"hidden"`
}

// ListUsers handles GET /api/admin/users.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Name or e-mail substring"
// @Success      200     {array}   domain.User
// @Failure      403     {object}  errorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.admin.ListUsers(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUser handles PATCH /api/admin/users/:id.
//
// @Summary      Edit an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "User id"
// @Param        body  body      adminUpdateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  errorResponse
// @Router       /api/admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	var req adminUpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.admin.UpdateUser(c.Request().Context(), c.Param("id"), ports.UserUpdate{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Disabled:  req.Disabled,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetUserDisabled handles POST /api/admin/users/:id/disable.
//
// @Summary      Disable or re-enable an account
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string                   true  "User id"
// @Param        body  body  reviewVisibilityRequest  true  "Disabled flag"
// @Success      204   "updated"
// @Failure      404   {object}  errorResponse
// @Router       /api/admin/users/{id}/disable [post]
func (h *AdminHandler) SetUserDisabled(c echo.Context) error {
	var req struct {
		Disabled bool `json:"disabled"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.admin.SetUserDisabled(c.Request().Context(), c.Param("id"), req.Disabled); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteUser handles DELETE /api/admin/users/:id.
//
// @Summary      Delete an account
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "User id"
// @Success      204  "deleted"
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.admin.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUserListings handles GET /api/admin/users/:id/listings.
//
// @Summary      List an account's listings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {array}   domain.Listing
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id}/listings [get]
func (h *AdminHandler) ListUserListings(c echo.Context) error {
	listings, err := h.admin.ListUserListings(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}

// ListUserReviews handles GET /api/admin/users/:id/reviews.
//
// @Summary      List an account's reviews
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {array}   ports.UserReview
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id}/reviews [get]
func (h *AdminHandler) ListUserReviews(c echo.Context) error {
	reviews, err := h.admin.ListUserReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// ListListings handles GET /api/admin/phones.
//
// @Summary      List all listings, disabled included
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Title or brand substring"
// @Success      200     {array}   ports.AdminListing
// @Failure      403     {object}  errorResponse
// @Router       /api/admin/phones [get]
func (h *AdminHandler) ListListings(c echo.Context) error {
	listings, err := h.admin.ListListings(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}

// UpdateListing handles PATCH /api/admin/phones/:id.
//
// @Summary      Edit a listing
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Listing id"
// @Param        body  body      adminUpdateListingRequest  true  "Fields to change"
// @Success      200   {object}  domain.Listing
// @Failure      404   {object}  errorResponse
// @Router       /api/admin/phones/{id} [patch]
func (h *AdminHandler) UpdateListing(c echo.Context) error {
	var req adminUpdateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	listing, err := h.admin.UpdateListing(c.Request().Context(), c.Param("id"), ports.ListingUpdate{
		Title:    req.Title,
		Brand:    req.Brand,
		Price:    req.Price,
		Stock:    req.Stock,
		Disabled: req.Disabled,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listing)
}

// DisableListing handles POST /api/admin/phones/:id/disable.
//
// @Summary      Pull a listing from the storefront
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Listing id"
// @Success      204  "disabled"
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/phones/{id}/disable [post]
func (h *AdminHandler) DisableListing(c echo.Context) error {
	if err := h.admin.DisableListing(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteListing handles DELETE /api/admin/phones/:id.
//
// @Summary      Delete a listing
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Listing id"
// @Success      204  "deleted"
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/phones/{id} [delete]
func (h *AdminHandler) DeleteListing(c echo.Context) error {
	if err := h.admin.DeleteListing(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListReviews handles GET /api/admin/reviews.
//
// @Summary      List reviews across all listings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search      query     string  false  "Comment or listing substring"
// @Param        showHidden  query     bool    false  "Include hidden reviews"
// @Success      200         {array}   ports.ReviewDetail
// @Failure      403         {object}  errorResponse
// @Router       /api/admin/reviews [get]
func (h *AdminHandler) ListReviews(c echo.Context) error {
	showHidden, _ := strconv.ParseBool(c.QueryParam("showHidden"))
	reviews, err := h.admin.ListReviews(c.Request().Context(), c.QueryParam("search"), showHidden)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// SetReviewVisibility handles PATCH /api/admin/phones/:id/reviews/:index.
//
// @Summary      Hide or unhide a review
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id     path  string                   true  "Listing id"
// @Param        index  path  int                      true  "Review index"
// @Param        body   body  reviewVisibilityRequest  true  "Hidden flag"
// @Success      204    "updated"
// @Failure      404    {object}  errorResponse
// @Router       /api/admin/phones/{id}/reviews/{index} [patch]
func (h *AdminHandler) SetReviewVisibility(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "index must be a non-negative integer")
	}

	var req reviewVisibilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.admin.SetReviewVisibility(c.Request().Context(), c.Param("id"), index, req.Hidden); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTransactions handles GET /api/admin/transactions. When format=csv
// the full history is rendered as a CSV attachment instead of JSON.
//
// @Summary      List transactions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        from    query     string  false  "RFC 3339 lower bound"
// @Param        to      query     string  false  "RFC 3339 upper bound"
// @Param        format  query     string  false  "json (default) or csv"
// @Success      200     {array}   domain.Transaction
// @Failure      400     {object}  errorResponse
// @Router       /api/admin/transactions [get]
func (h *AdminHandler) ListTransactions(c echo.Context) error {
	if c.QueryParam("format") == "csv" {
		data, err := h.admin.ExportTransactionsCSV(c.Request().Context())
		if err != nil {
			return err
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="transactions.csv"`)
		return c.Blob(http.StatusOK, "text/csv", data)
	}

	from, err := parseTimeParam(c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "from must be RFC 3339")
	}
	to, err := parseTimeParam(c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "to must be RFC 3339")
	}

	txs, err := h.admin.ListTransactions(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, txs)
}

// ListNotifications handles GET /api/admin/notifications.
//
// @Summary      List checkout notifications, newest first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Notification
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/notifications [get]
func (h *AdminHandler) ListNotifications(c echo.Context) error {
	notifications, err := h.admin.ListNotifications(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}

func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
