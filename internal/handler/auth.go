package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/pathfinder-api/internal/metrics"
	"github.com/iliyamo/pathfinder-api/internal/middleware"
	"github.com/iliyamo/pathfinder-api/internal/model"
	"github.com/iliyamo/pathfinder-api/internal/service"
)

// AuthHandler bundles dependencies for the signup, login and profile
// endpoints.
type AuthHandler struct {
	Auth    *service.AuthService
	Metrics *metrics.Metrics
	Log     zerolog.Logger
}

func NewAuthHandler(auth *service.AuthService, m *metrics.Metrics, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Metrics: m, Log: log}
}

// ----- DTOs -----

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

var invalidBody = echo.Map{"error": "Invalid request body"}

// bindJSON decodes a JSON request body into dst.  A body sent with any other
// content type is ignored and dst stays zero, so the request fails field
// validation instead of being rejected as malformed.
func bindJSON(c echo.Context, dst any) error {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		return nil
	}
	return (&echo.DefaultBinder{}).BindBody(c, dst)
}

// Signup creates an account and returns a token for it immediately.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := bindJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody)
	}

	res, err := h.Auth.Signup(c.Request().Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return respondError(c, h.Log, "signup", err)
	}
	h.Metrics.SignupSucceeded()
	return c.JSON(http.StatusCreated, authResp{
		Message: "User created successfully",
		Token:   res.Token,
		User:    res.User,
	})
}

// Login verifies credentials and returns a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, invalidBody)
	}

	res, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			h.Metrics.LoginAttempt("invalid")
		case errors.Is(err, service.ErrValidation):
			// malformed request, not a login attempt
		default:
			h.Metrics.LoginAttempt("error")
		}
		return respondError(c, h.Log, "login", err)
	}
	h.Metrics.LoginAttempt("success")
	return c.JSON(http.StatusOK, authResp{
		Message: "Login successful",
		Token:   res.Token,
		User:    res.User,
	})
}

// Profile returns the account behind the bearer token.  It must sit behind
// middleware.JWTAuth.
func (h *AuthHandler) Profile(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Access token required"})
	}
	profile, err := h.Auth.Profile(c.Request().Context(), claims.ID)
	if err != nil {
		return respondError(c, h.Log, "profile", err)
	}
	return c.JSON(http.StatusOK, profile)
}
