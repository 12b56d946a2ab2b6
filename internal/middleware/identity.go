package middleware

// identity.go holds the context keys written by JWTAuth and helpers for
// reading them back in handlers.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pathfinder-api/internal/utils"
)

const (
	claimsKey = "claims"
	userIDKey = "user_id"
	roleKey   = "role"
)

func setClaims(c echo.Context, claims *utils.Claims) {
	c.Set(claimsKey, claims)
	c.Set(userIDKey, claims.ID)
	c.Set(roleKey, claims.Role)
}

// ClaimsFrom returns the claims stored by JWTAuth.  ok is false on routes
// that are not behind JWTAuth.
func ClaimsFrom(c echo.Context) (*utils.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*utils.Claims)
	return claims, ok && claims != nil
}
