package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/craftmarket/auth-api/internal/core/token"
)

// Auth validates the bearer access token and injects its claims into the
// echo context under "email", "role", and "nickname".
//
// Validation here is strict: an expired token is rejected even though the
// refresh endpoint would still be able to read its subject.
func Auth(provider *token.Provider) echo.MiddlewareFunc {
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

			if !provider.Validate(parts[1]) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, err := provider.ExtractClaims(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("email", claims.Subject)
			c.Set("role", claims.Role)
			c.Set("nickname", claims.Nickname)

			return next(c)
		}
	}
}
