package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pathfinder-api/internal/utils"
)

func protectedEcho(tokens *utils.TokenManager) *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.JSON(http.StatusOK, echo.Map{"id": claims.ID, "role": c.Get("role")})
	}, JWTAuth(tokens))
	return e
}

func TestJWTAuth(t *testing.T) {
	issued := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tokens := utils.NewTokenManager("secret", "pathfinder-api", 24*time.Hour).
		WithClock(func() time.Time { return issued })
	good, _, err := tokens.Issue(3, "a@x.io", "user")
	require.NoError(t, err)

	later := tokens.WithClock(func() time.Time { return issued.Add(time.Hour) })
	expired := tokens.WithClock(func() time.Time { return issued.Add(25 * time.Hour) })

	tests := []struct {
		name   string
		tokens *utils.TokenManager
		header string
		status int
		body   string
	}{
		{"missing header", later, "", http.StatusUnauthorized, `{"error":"Access token required"}`},
		{"scheme only", later, "Bearer", http.StatusUnauthorized, `{"error":"Access token required"}`},
		{"garbage token", later, "Bearer abc", http.StatusForbidden, `{"error":"Invalid or expired token"}`},
		{"expired", expired, "Bearer " + good, http.StatusForbidden, `{"error":"Invalid or expired token"}`},
		{"valid", later, "Bearer " + good, http.StatusOK, `{"id":3,"role":"user"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			protectedEcho(tt.tokens).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "tok", bearerToken("Bearer tok"))
	assert.Equal(t, "tok", bearerToken("  Bearer   tok  "))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "", bearerToken(""))
}
