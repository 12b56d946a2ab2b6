package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/pathfinder-api/internal/config"
	"github.com/iliyamo/pathfinder-api/internal/handler"
	"github.com/iliyamo/pathfinder-api/internal/metrics"
	"github.com/iliyamo/pathfinder-api/internal/middleware"
	"github.com/iliyamo/pathfinder-api/internal/repository"
	"github.com/iliyamo/pathfinder-api/internal/router"
	"github.com/iliyamo/pathfinder-api/internal/service"
	"github.com/iliyamo/pathfinder-api/internal/utils"
)

// Deps are the collaborators the server is assembled from.  Events, Cache
// and Metrics are optional.
type Deps struct {
	Config  config.Config
	Log     zerolog.Logger
	Catalog repository.CatalogStore
	Users   repository.UserStore
	Tokens  *utils.TokenManager
	Hasher  *utils.PasswordHasher
	Events  service.EventPublisher
	Cache   middleware.CacheStore
	Metrics *metrics.Metrics
}

// Server wraps the echo instance with the services it serves.
type Server struct {
	Echo *echo.Echo
	Auth *service.AuthService

	addr string
}

// New wires middleware, handlers and routes and returns a ready server.
func New(d Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler(d.Log)
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	e.Server.IdleTimeout = 120 * time.Second

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{DisableStackAll: true}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.Config.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if d.Metrics != nil {
		e.Use(middleware.Metrics(d.Metrics))
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	catalog := service.NewCatalogService(d.Catalog)
	auth := service.NewAuthService(d.Users, d.Hasher, d.Tokens, d.Events, d.Log)

	router.RegisterRoutes(e)
	router.RegisterCatalog(e, handler.NewCatalogHandler(catalog, d.Log), middleware.ResponseCache(d.Config.Cache, d.Cache, d.Log))
	router.RegisterAuth(e, handler.NewAuthHandler(auth, d.Metrics, d.Log), d.Tokens)

	return &Server{Echo: e, Auth: auth, addr: d.Config.HTTPAddress()}
}

// ServeHTTP lets tests drive the server without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Echo.ServeHTTP(w, r)
}

// Start begins serving HTTP traffic.  It returns http.ErrServerClosed after
// Shutdown.
func (s *Server) Start() error {
	return s.Echo.Start(s.addr)
}

// Shutdown drains in-flight requests, then waits for pending event
// publications.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Echo.Shutdown(ctx)
	s.Auth.Wait()
	return err
}
