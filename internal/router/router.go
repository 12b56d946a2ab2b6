package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pathfinder-api/internal/handler"
	"github.com/iliyamo/pathfinder-api/internal/middleware"
	"github.com/iliyamo/pathfinder-api/internal/utils"
)

// RegisterRoutes registers the health check, which neither touches the
// catalog nor needs authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", handler.Health)
}

// RegisterCatalog registers the public catalog routes.  cache wraps every
// catalog read; pass a pass-through middleware to disable caching.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api", cache)
	g.GET("/colleges", h.ListColleges)
	g.GET("/colleges/:stream", h.ListStreamColleges)
	g.GET("/college/:id", h.GetCollege)
	g.GET("/streams", h.ListStreams)
	g.GET("/streams/:stream/filters", h.StreamFilters)
}

// RegisterAuth registers signup and login under /api/auth and the
// token-protected profile route.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *utils.TokenManager) {
	g := e.Group("/api/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)

	e.GET("/api/profile", a.Profile, middleware.JWTAuth(tokens))
}
