package middleware // package middleware contains reusable echo middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pathfinder-api/internal/utils"
)

// JWTAuth returns an Echo middleware that validates the bearer token in the
// Authorization header and stores its claims in the request context.  A
// missing token is 401; a token that fails signature or expiry checks is 403.
// The status code is the only difference between the two, the body just
// names the condition.
func JWTAuth(tokens *utils.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request().Header.Get("Authorization"))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Access token required"})
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Invalid or expired token"})
			}

			setClaims(c, claims)
			return next(c)
		}
	}
}

// bearerToken returns the credential that follows the scheme word, e.g. the
// token of "Bearer <token>".  An absent credential yields "".
func bearerToken(header string) string {
	_, rest, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	token, _, _ := strings.Cut(strings.TrimSpace(rest), " ")
	return token
}
