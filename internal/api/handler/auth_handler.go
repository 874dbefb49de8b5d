package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/ports"
)

// AuthHandler handles account registration, login and profile management.
type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyRequest struct {
	Token string `json:"token" validate:"required"`
}

type updateProfileRequest struct {
	Firstname       *string `json:"firstname"`
	Lastname        *string `json:"lastname"`
	Email           *string `json:"email" validate:"omitempty,email"`
	CurrentPassword string  `json:"currentPassword" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Register creates a new unverified account.
//
// @Summary      Register a new account
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/account/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, _, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates an account and returns a bearer token.
//
// @Summary      Login
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/account/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Verify activates the account referenced by a verification token.
//
// @Summary      Verify an account
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRequest  true  "Verification token"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/account/verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	email, err := h.auth.Verify(c.Request().Context(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"email": email})
}

// Profile returns the caller's account.
//
// @Summary      Get own profile
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /api/account/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.auth.Profile(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile edits the caller's name or e-mail after re-checking the
// current password.
//
// @Summary      Update own profile
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/account/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
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

	user, err := h.auth.UpdateProfile(c.Request().Context(), p.UserID, ports.UserUpdate{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
	}, req.CurrentPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change own password
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      204   "password changed"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/account/password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
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

	if err := h.auth.ChangePassword(c.Request().Context(), p.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
