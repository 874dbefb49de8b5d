package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// ListingHandler serves public browsing and listing management.
type ListingHandler struct {
	listings ports.ListingService
}

func NewListingHandler(listings ports.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

type createListingRequest struct {
	Title string  `json:"title" validate:"required"`
	Brand string  `json:"brand" validate:"required"`
	Price float64 `json:"price" validate:"required,gt=0"`
	Stock int     `json:"stock" validate:"gte=0"`
	Image string  `json:"image"`
}

type addReviewRequest struct {
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

type setHiddenRequest struct {
	Hidden bool `json:"hidden"`
}

type metadataResponse struct {
	Brands   []string `json:"brands"`
	MaxPrice float64  `json:"maxPrice"`
}

// Browse handles GET /api/phones.
//
// @Summary      Browse listings
// @Tags         phones
// @Produce      json
// @Param        search    query     string  false  "Title substring"
// @Param        brand     query     string  false  "Exact brand"
// @Param        maxPrice  query     number  false  "Price cap"
// @Success      200       {array}   ports.ListingSummary
// @Router       /api/phones [get]
func (h *ListingHandler) Browse(c echo.Context) error {
	filter := ports.ListingFilter{
		Search: c.QueryParam("search"),
		Brand:  c.QueryParam("brand"),
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "maxPrice must be a non-negative number")
		}
		filter.MaxPrice = price
	}

	summaries, err := h.listings.Browse(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaries)
}

// Metadata handles GET /api/phones/metadata.
//
// @Summary      Get browse filter metadata
// @Tags         phones
// @Produce      json
// @Success      200  {object}  metadataResponse
// @Router       /api/phones/metadata [get]
func (h *ListingHandler) Metadata(c echo.Context) error {
	brands, maxPrice, err := h.listings.Metadata(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, metadataResponse{Brands: brands, MaxPrice: maxPrice})
}

// SoldOutSoon handles GET /api/phones/soldoutsoon.
//
// @Summary      List the listings closest to selling out
// @Tags         phones
// @Produce      json
// @Success      200  {array}  domain.Listing
// @Router       /api/phones/soldoutsoon [get]
func (h *ListingHandler) SoldOutSoon(c echo.Context) error {
	listings, err := h.listings.SoldOutSoon(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}

// BestSellers handles GET /api/phones/bestsellers.
//
// @Summary      List the best-rated listings
// @Tags         phones
// @Produce      json
// @Success      200  {array}  ports.ListingSummary
// @Router       /api/phones/bestsellers [get]
func (h *ListingHandler) BestSellers(c echo.Context) error {
	summaries, err := h.listings.BestSellers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaries)
}

// Get handles GET /api/phones/:id.
//
// @Summary      Get a listing
// @Tags         phones
// @Produce      json
// @Param        id   path      string  true  "Listing id"
// @Success      200  {object}  domain.Listing
// @Failure      404  {object}  errorResponse
// @Router       /api/phones/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	listing, err := h.listings.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listing)
}

// Details handles GET /api/phones/:id/details.
//
// @Summary      Get a listing with seller and reviewer names
// @Tags         phones
// @Produce      json
// @Param        id   path      string  true  "Listing id"
// @Success      200  {object}  ports.ListingDetail
// @Failure      404  {object}  errorResponse
// @Router       /api/phones/{id}/details [get]
func (h *ListingHandler) Details(c echo.Context) error {
	detail, err := h.listings.Details(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Create handles POST /api/phones. The caller becomes the seller.
//
// @Summary      Create a listing
// @Tags         phones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createListingRequest  true  "Listing details"
// @Success      201   {object}  domain.Listing
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/phones [post]
func (h *ListingHandler) Create(c echo.Context) error {
	var req createListingRequest
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

	listing, err := h.listings.Create(c.Request().Context(), ports.CreateListingInput{
		Title:  req.Title,
		Brand:  req.Brand,
		Price:  req.Price,
		Stock:  req.Stock,
		Image:  req.Image,
		Seller: p.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, listing)
}

// SetDisabled handles PATCH /api/phones/:id.
//
// @Summary      Disable or re-enable a listing
// @Tags         phones
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string            true  "Listing id"
// @Param        body  body  setHiddenRequest  true  "Disabled flag"
// @Success      204   "updated"
// @Failure      404   {object}  errorResponse
// @Router       /api/phones/{id} [patch]
func (h *ListingHandler) SetDisabled(c echo.Context) error {
	var req struct {
		Disabled bool `json:"disabled"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.listings.SetDisabled(c.Request().Context(), c.Param("id"), req.Disabled); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/phones/:id.
//
// @Summary      Delete a listing
// @Tags         phones
// @Security     BearerAuth
// @Param        id   path  string  true  "Listing id"
// @Success      204  "deleted"
// @Failure      404  {object}  errorResponse
// @Router       /api/phones/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	if err := h.listings.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddReview handles POST /api/phones/:id/reviews.
//
// @Summary      Review a listing
// @Tags         phones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Listing id"
// @Param        body  body      addReviewRequest  true  "Review"
// @Success      201   {object}  ports.ReviewView
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/phones/{id}/reviews [post]
func (h *ListingHandler) AddReview(c echo.Context) error {
	var req addReviewRequest
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

	review, err := h.listings.AddReview(c.Request().Context(), ports.AddReviewInput{
		ListingID: c.Param("id"),
		Reviewer:  p.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, review)
}

// SetReviewHidden handles PATCH /api/phones/:id/reviews/:index.
//
// @Summary      Hide or unhide a review
// @Tags         phones
// @Accept       json
// @Security     BearerAuth
// @Param        id     path  string            true  "Listing id"
// @Param        index  path  int               true  "Review index"
// @Param        body   body  setHiddenRequest  true  "Hidden flag"
// @Success      204    "updated"
// @Failure      404    {object}  errorResponse
// @Router       /api/phones/{id}/reviews/{index} [patch]
func (h *ListingHandler) SetReviewHidden(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "index must be a non-negative integer")
	}

	var req setHiddenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.listings.SetReviewHidden(c.Request().Context(), c.Param("id"), index, req.Hidden); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
