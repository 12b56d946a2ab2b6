package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/iliyamo/pathfinder-api/internal/config"
	"github.com/iliyamo/pathfinder-api/internal/logging"
	"github.com/iliyamo/pathfinder-api/internal/metrics"
	"github.com/iliyamo/pathfinder-api/internal/middleware"
	"github.com/iliyamo/pathfinder-api/internal/queue"
	"github.com/iliyamo/pathfinder-api/internal/repository"
	"github.com/iliyamo/pathfinder-api/internal/server"
	"github.com/iliyamo/pathfinder-api/internal/utils"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("info", "json", os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if envErr != nil {
		log.Debug().Msg("no .env file found; relying on existing environment")
	}
	if cfg.UsesDevSecret() {
		log.Warn().Msg("JWT_SECRET not set; signing tokens with the development secret")
	}

	catalog, err := repository.LoadEmbeddedCatalog()
	if err != nil {
		log.Fatal().Err(err).Msg("load catalog")
	}
	users := repository.NewUserRepo()

	deps := server.Deps{
		Config:  cfg,
		Log:     log,
		Catalog: catalog,
		Users:   users,
		Tokens:  utils.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL),
		Hasher:  utils.NewPasswordHasher(cfg.BcryptCost, cfg.HashConcurrency),
		Metrics: metrics.New(func() float64 { return float64(users.Count()) }),
	}

	if cfg.Cache.Enabled {
		if rdb := config.NewRedisClient(cfg.Redis); rdb != nil {
			defer rdb.Close()
			deps.Cache = middleware.NewRedisStore(rdb)
			log.Info().Str("addr", cfg.Redis.Addr).Msg("response cache enabled")
		} else {
			log.Warn().Str("addr", cfg.Redis.Addr).Msg("redis unreachable; response cache disabled")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.EventsEnabled {
		deps.Events = queue.NewAMQPPublisher(cfg.RabbitMQURL)
		go runSignupConsumer(ctx, cfg, log)
	}

	srv := server.New(deps)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddress()).Str("env", cfg.Env).Msg("PathFinder backend listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}

func runSignupConsumer(ctx context.Context, cfg config.Config, log zerolog.Logger) {
	if err := queue.StartSignupConsumer(ctx, cfg.RabbitMQURL, cfg.SignupLogPath, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("signup consumer stopped")
	}
}
