// Command catalogsync copies the bundled destination catalog into Postgres or
// Redis so the server can run with CATALOG_SOURCE=postgres or redis.
//
//	catalogsync -target postgres   # needs DATABASE_URL
//	catalogsync -target redis      # needs REDIS_URL
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/neexbeast/trip-itinerary/internal/cache"
	"github.com/neexbeast/trip-itinerary/internal/catalog"
	"github.com/neexbeast/trip-itinerary/internal/storage"
)

// writer is satisfied by *storage.Repository and *cache.Store.
type writer interface {
	catalog.Source
	SaveCatalog(ctx context.Context, entries map[string]catalog.Entry) error
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	target := flag.String("target", "", "destination backend: postgres or redis")
	file := flag.String("file", "", "catalog JSON to load instead of the bundled one")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found; using process environment")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, log, *target, *file); err != nil {
		log.Error("catalog sync failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, target, file string) error {
	entries, err := readEntries(ctx, file)
	if err != nil {
		return err
	}

	w, closeFn, err := openWriter(ctx, log, target)
	if err != nil {
		return err
	}
	defer closeFn()

	return syncCatalog(ctx, log, w, entries)
}

func readEntries(ctx context.Context, file string) (map[string]catalog.Entry, error) {
	if file == "" {
		return catalog.Embedded{}.Load(ctx)
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	return catalog.Decode(raw)
}

func openWriter(ctx context.Context, log *slog.Logger, target string) (writer, func(), error) {
	switch target {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for -target postgres")
		}
		pool, err := storage.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := storage.RunMigrations(ctx, pool, storage.MigrationsFrom(os.Getenv("MIGRATIONS_DIR"))); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied")
		return storage.NewRepository(pool), pool.Close, nil

	case "redis":
		url := os.Getenv("REDIS_URL")
		if url == "" {
			return nil, nil, fmt.Errorf("REDIS_URL is required for -target redis")
		}
		client, err := cache.Connect(ctx, url)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return cache.NewStore(client), func() { _ = client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown -target %q (want postgres or redis)", target)
	}
}

// syncCatalog writes entries and reads them back to confirm every destination
// landed.
func syncCatalog(ctx context.Context, log *slog.Logger, w writer, entries map[string]catalog.Entry) error {
	if err := w.SaveCatalog(ctx, entries); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}

	stored, err := w.Load(ctx)
	if err != nil {
		return fmt.Errorf("verifying catalog: %w", err)
	}
	for name := range entries {
		if _, ok := stored[name]; !ok {
			return fmt.Errorf("verifying catalog: %s missing after save", name)
		}
	}

	log.Info("catalog synced", "destinations", len(entries), "stored", len(stored))
	return nil
}
