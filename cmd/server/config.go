package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/neexbeast/trip-itinerary/internal/places"
)

// Catalog backends selectable with CATALOG_SOURCE.
const (
	sourceEmbedded = "embedded"
	sourcePostgres = "postgres"
	sourceRedis    = "redis"
)

type config struct {
	Port           string
	PlacesAPIKey   string
	PlacesTimeout  time.Duration
	PlacesRPS      int
	CatalogSource  string
	DatabaseURL    string
	RedisURL       string
	MigrationsDir  string
	APIToken       string
	AllowedOrigins []string
	RateLimitRPM   int
}

// loadConfig reads the server configuration through getenv (os.Getenv in
// production).
func loadConfig(getenv func(string) string) (config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := config{
		Port:          get("PORT", "8080"),
		PlacesAPIKey:  get("GOOGLE_PLACES_API_KEY", ""),
		CatalogSource: strings.ToLower(get("CATALOG_SOURCE", sourceEmbedded)),
		DatabaseURL:   get("DATABASE_URL", ""),
		RedisURL:      get("REDIS_URL", ""),
		MigrationsDir: get("MIGRATIONS_DIR", ""),
		APIToken:      get("API_TOKEN", ""),
	}

	var err error
	if cfg.PlacesTimeout, err = time.ParseDuration(get("PLACES_TIMEOUT", places.DefaultTimeout.String())); err != nil {
		return config{}, fmt.Errorf("parsing PLACES_TIMEOUT: %w", err)
	}
	if cfg.PlacesRPS, err = positiveInt(get("PLACES_RPS", "10")); err != nil {
		return config{}, fmt.Errorf("parsing PLACES_RPS: %w", err)
	}
	if cfg.RateLimitRPM, err = positiveInt(get("RATE_LIMIT_RPM", "60")); err != nil {
		return config{}, fmt.Errorf("parsing RATE_LIMIT_RPM: %w", err)
	}

	for _, o := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	switch cfg.CatalogSource {
	case sourceEmbedded:
	case sourcePostgres:
		if cfg.DatabaseURL == "" {
			return config{}, fmt.Errorf("CATALOG_SOURCE=postgres requires DATABASE_URL")
		}
	case sourceRedis:
		if cfg.RedisURL == "" {
			return config{}, fmt.Errorf("CATALOG_SOURCE=redis requires REDIS_URL")
		}
	default:
		return config{}, fmt.Errorf("unknown CATALOG_SOURCE %q", cfg.CatalogSource)
	}

	return cfg, nil
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}
