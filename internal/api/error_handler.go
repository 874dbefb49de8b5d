package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound, "listing not found"
	case errors.Is(err, domain.ErrReviewNotFound):
		return http.StatusNotFound, "review not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrCartNotFound):
		return http.StatusNotFound, "cart not found"
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusNotFound, "cart is empty"
	case errors.Is(err, domain.ErrItemNotInCart):
		return http.StatusNotFound, "item not in cart"
	// The storefront reuses the not-found rendering for sold-out items
	// on cart mutations; checkout reports stock failures per line instead.
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrAccountNotVerified):
		return http.StatusUnauthorized, "account not verified"
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusForbidden, "account disabled"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusConflict, "account already verified"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
