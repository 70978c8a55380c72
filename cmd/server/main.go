package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/neexbeast/trip-itinerary/internal/api"
	"github.com/neexbeast/trip-itinerary/internal/cache"
	"github.com/neexbeast/trip-itinerary/internal/catalog"
	"github.com/neexbeast/trip-itinerary/internal/currency"
	"github.com/neexbeast/trip-itinerary/internal/itinerary"
	"github.com/neexbeast/trip-itinerary/internal/metrics"
	"github.com/neexbeast/trip-itinerary/internal/places"
	"github.com/neexbeast/trip-itinerary/internal/storage"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found; using process environment")
	}

	if err := run(log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()

	src, checks, closeSource, err := openCatalogSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSource()

	cat, err := catalog.Load(ctx, src)
	if err != nil {
		return err
	}
	if cat.Len() == 0 {
		log.Warn("catalog is empty; itineraries will use generic templates", "source", cfg.CatalogSource)
	}
	log.Info("catalog loaded", "source", cfg.CatalogSource, "destinations", cat.Names())

	if cfg.PlacesAPIKey == "" {
		log.Warn("GOOGLE_PLACES_API_KEY not set; live places data disabled")
	}

	// Wire dependencies.
	reg := metrics.NewRegistry()
	limiter := rate.NewLimiter(rate.Limit(cfg.PlacesRPS), cfg.PlacesRPS)
	gateway := places.NewGateway(cfg.PlacesAPIKey, limiter, cfg.PlacesTimeout, reg)
	conv := currency.NewConverter()
	composer := itinerary.NewComposer(gateway, cat, conv, log)
	handlers := api.NewHandlers(composer, conv, reg, log)

	router := api.NewRouter(handlers, api.RouterConfig{
		Token:             cfg.APIToken,
		AllowedOrigins:    cfg.AllowedOrigins,
		RequestsPerMinute: cfg.RateLimitRPM,
		Health:            checks,
		Metrics:           reg.Handler(),
	}, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.PlacesTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "port", cfg.Port, "auth", cfg.APIToken != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}

// openCatalogSource connects the configured catalog backend and returns the
// health checks that belong to it. The returned close func is never nil.
func openCatalogSource(ctx context.Context, cfg config, log *slog.Logger) (catalog.Source, []api.HealthCheck, func(), error) {
	switch cfg.CatalogSource {
	case sourcePostgres:
		pool, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := storage.RunMigrations(ctx, pool, storage.MigrationsFrom(cfg.MigrationsDir)); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied")
		checks := []api.HealthCheck{{Name: "db", Pinger: pool}}
		return storage.NewRepository(pool), checks, pool.Close, nil

	case sourceRedis:
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		checks := []api.HealthCheck{{Name: "redis", Pinger: &redisPingerAdapter{client: client}}}
		return cache.NewStore(client), checks, func() { _ = client.Close() }, nil

	default:
		return catalog.Embedded{}, nil, func() {}, nil
	}
}

// redisPingerAdapter adapts redis.Client to the api.Pinger interface.
type redisPingerAdapter struct {
	client *redis.Client
}

func (r *redisPingerAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
