package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"swap-match-service/internal/adapters/ratelimit"
	"swap-match-service/internal/adapters/repositories"
	"swap-match-service/internal/api"
	"swap-match-service/internal/config"
	"swap-match-service/internal/platform/db"
	"swap-match-service/internal/platform/obs"
	"swap-match-service/internal/ports"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or memory, Redis) behind ports and starts the HTTP server.
func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := obs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	checks := map[string]ports.Pinger{"store": repo}

	var limiter ports.RateLimiter
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()

		rl := ratelimit.NewRedisLimiter(client, "swapmatch:ratelimit:", cfg.RateLimitPerMinute, time.Minute)
		if err := rl.Ping(ctx); err != nil {
			// The limiter fails open, so an unreachable Redis is not fatal.
			logger.Warn("redis unreachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		limiter = rl
		checks["redis"] = rl
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := obs.NewMetrics(reg)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{
		Logger:         logger,
		Repo:           repo,
		Limiter:        limiter,
		Metrics:        metrics,
		Match:          cfg.Match,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		HealthChecks:   checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Match.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.Store))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

type listingStore interface {
	ports.ListingRepository
	ports.Pinger
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (listingStore, func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		listings, err := repositories.LoadListingsJSON(cfg.SeedPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("loaded listings into memory", zap.String("path", cfg.SeedPath), zap.Int("count", len(listings)))
		return repositories.NewMemoryListingRepository(listings), func() {}, nil

	default:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresListingRepository(conn), func() { _ = conn.Close() }, nil
	}
}
