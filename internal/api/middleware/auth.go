package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/phonemart/marketplace-api/internal/core/domain"
)

// Context keys populated by Auth.
const (
	CtxUserID    = "userID"
	CtxFirstname = "firstname"
	CtxLastname  = "lastname"
	CtxEmail     = "email"
	CtxRole      = "role"
)

// Auth validates the Bearer JWT and injects its claims into context.
// Verification tokens carry the verify role and are rejected here: they
// only grant access to the account activation endpoint, which is public.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			role, _ := claims["role"].(string)
			if role == domain.RoleVerify {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxUserID, claims["userID"])
			c.Set(CtxFirstname, claims["firstname"])
			c.Set(CtxLastname, claims["lastname"])
			c.Set(CtxEmail, claims["email"])
			c.Set(CtxRole, role)

			return next(c)
		}
	}
}
