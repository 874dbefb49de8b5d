package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/phonemart/marketplace-api/internal/api/middleware"
)

// principal is the authenticated caller as carried in the JWT claims.
type principal struct {
	UserID    string
	Firstname string
	Lastname  string
	Email     string
	Role      string
}

func (p principal) DisplayName() string {
	return p.Firstname + " " + p.Lastname
}

// ctxPrincipal extracts the claims injected by the Auth middleware and
// fast-fails before any service call: a missing user id means the
// middleware did not run or the token predates the current claim layout.
func ctxPrincipal(c echo.Context) (principal, error) {
	p := principal{}
	p.UserID, _ = c.Get(middleware.CtxUserID).(string)
	if p.UserID == "" {
		return principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	p.Firstname, _ = c.Get(middleware.CtxFirstname).(string)
	p.Lastname, _ = c.Get(middleware.CtxLastname).(string)
	p.Email, _ = c.Get(middleware.CtxEmail).(string)
	p.Role, _ = c.Get(middleware.CtxRole).(string)
	return p, nil
}
