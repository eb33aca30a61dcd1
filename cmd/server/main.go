// Command server runs the cocktail backend: the catalog proxy, ratings,
// favorites, profiles and community submissions over HTTP, with live
// updates on websockets.
//
// Startup order:
//
//  1. .env and environment configuration
//  2. logging and tracing
//  3. persistence (SQLite by default, MongoDB with STORE_BACKEND=mongo)
//  4. catalog client, snapshot cache and the badger-backed daily pick
//  5. live broker (in-process, or Redis when REDIS_ADDR is set)
//  6. router, then the supervision tree until SIGINT/SIGTERM
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	_ "github.com/tbourn/go-cocktail-backend/docs"
	"github.com/tbourn/go-cocktail-backend/internal/auth"
	"github.com/tbourn/go-cocktail-backend/internal/catalog"
	"github.com/tbourn/go-cocktail-backend/internal/config"
	"github.com/tbourn/go-cocktail-backend/internal/daily"
	"github.com/tbourn/go-cocktail-backend/internal/docstore"
	httpapi "github.com/tbourn/go-cocktail-backend/internal/http"
	"github.com/tbourn/go-cocktail-backend/internal/http/handlers"
	"github.com/tbourn/go-cocktail-backend/internal/http/middleware"
	"github.com/tbourn/go-cocktail-backend/internal/live"
	"github.com/tbourn/go-cocktail-backend/internal/observability"
	"github.com/tbourn/go-cocktail-backend/internal/repo"
	"github.com/tbourn/go-cocktail-backend/internal/services"
	"github.com/tbourn/go-cocktail-backend/internal/supervisor"
	"github.com/tbourn/go-cocktail-backend/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title           Cocktail Backend API
// @version         1.0
// @description     Recipe catalog, ratings, favorites, profiles and community submissions.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	ver := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	sysutil.SetupLogger(os.Stdout, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName, ver)

	if err := run(cfg, ver); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg config.Config, ver string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer flush("tracing", shutdownOTel, cfg.ShutdownTimeout)

	store, purge, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeQuietly("store", store.Close)

	client, err := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	if err != nil {
		return fmt.Errorf("catalog client: %w", err)
	}
	cache := catalog.NewCache(client, cfg.Catalog.Concurrency)

	dailyDB, err := daily.Open(cfg.Catalog.DailyCachePath)
	if err != nil {
		return err
	}
	defer closeQuietly("daily cache", dailyDB.Close)

	broker, err := openBroker(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeQuietly("live broker", broker.Close)

	var verifier middleware.TokenVerifier
	if cfg.Auth.JWTSecret != "" {
		v, err := auth.NewVerifier(cfg.Auth.JWTSecret)
		if err != nil {
			return fmt.Errorf("jwt verifier: %w", err)
		}
		verifier = v
	}

	catalogSvc := services.NewCatalogService(cache, client, daily.New(dailyDB, client))
	submissions := services.NewSubmissionService(store, store, cfg.IdempotencyTTL)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, cfg, httpapi.App{
		Deps: handlers.Deps{
			Catalog:     catalogSvc,
			Ratings:     services.NewRatingService(store, broker),
			Favorites:   services.NewFavoriteService(store, catalogSvc, broker),
			Submissions: submissions,
			Profiles:    services.NewUserService(store),
			Live:        broker,
		},
		Verifier:   verifier,
		Replayable: submissions.Replayable,
		Ready:      store.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	tree := supervisor.New(log.Logger, supervisor.TreeConfig{ShutdownTimeout: cfg.ShutdownTimeout})
	tree.AddAPI(supervisor.NewHTTPService(srv, cfg.ShutdownTimeout))
	tree.AddBackground(&catalog.Refresher{
		Cache:    cache,
		Interval: cfg.Catalog.RefreshInterval,
		Warm:     cfg.Catalog.WarmOnStart,
	})
	if purge != nil {
		tree.AddBackground(&supervisor.Janitor{Purge: purge, Interval: time.Hour})
	}

	log.Info().
		Str("addr", srv.Addr).
		Str("store", cfg.Store.Backend).
		Bool("redis", cfg.Redis.Addr != "").
		Bool("jwt", verifier != nil).
		Msg("server starting")

	err = tree.Serve(ctx)
	if report, _ := tree.UnstoppedServiceReport(); len(report) > 0 {
		log.Warn().Int("count", len(report)).Msg("services did not stop in time")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// openStore returns the configured backend. The purge func is nil when the
// backend expires idempotency records on its own.
func openStore(ctx context.Context, cfg config.StoreConfig) (services.Store, supervisor.PurgeFunc, error) {
	switch cfg.Backend {
	case "mongo":
		st, err := docstore.Open(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		if err := st.EnsureIndexes(ctx); err != nil {
			_ = st.Close()
			return nil, nil, err
		}
		return st, nil, nil
	default:
		db, err := repo.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := repo.AutoMigrate(db); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		st := repo.NewStore(db)
		return st, st.PurgeExpiredIdempotency, nil
	}
}

type broker interface {
	handlers.Subscriber
	services.Publisher
	Close() error
}

func openBroker(ctx context.Context, cfg config.RedisConfig) (broker, error) {
	if cfg.Addr == "" {
		return live.NewMemoryBroker(16), nil
	}
	rdb, err := live.DialRedis(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return live.NewRedisBroker(rdb, 16), nil
}

func closeQuietly(what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Warn().Err(err).Str("component", what).Msg("close failed")
	}
}

func flush(what string, fn func(context.Context) error, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn().Err(err).Str("component", what).Msg("flush failed")
	}
}
