// Package config loads the application configuration from the environment,
// with an optional .env file for local development. Invalid values fail the
// process at startup.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig is populated once at startup and never modified.
type AppConfig struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Outbound HTTP client timeout for provider calls.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`

	// Forecast cache TTL.
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"6h"`

	// Days of forecast requested from providers.
	ForecastDays int `envconfig:"FORECAST_DAYS" default:"7"`

	// Provider credentials. The tidal provider key is mandatory; the
	// premium provider is simply not wired when its key is absent.
	WorldWeatherAPIKey string `envconfig:"WORLDWEATHERONLINE_API_KEY"`
	StormglassAPIKey   string `envconfig:"STORMGLASS_API_KEY"`

	// Optional Google geocoding key enabling free-text location names.
	GeocoderAPIKey string `envconfig:"GOOGLE_GEOCODING_API_KEY"`

	// The home-spot alias and its coordinates.
	DefaultLocationAlias string  `envconfig:"DEFAULT_LOCATION_ALIAS" default:"posillipo"`
	DefaultLocationName  string  `envconfig:"DEFAULT_LOCATION_NAME" default:"Posillipo"`
	DefaultLat           float64 `envconfig:"DEFAULT_LOCATION_LAT" default:"40.813238"`
	DefaultLon           float64 `envconfig:"DEFAULT_LOCATION_LON" default:"14.208944"`

	// Premium provider gating: reference point and haversine tolerance.
	PremiumLat      float64 `envconfig:"PREMIUM_LAT" default:"40.813238"`
	PremiumLon      float64 `envconfig:"PREMIUM_LON" default:"14.208944"`
	PremiumRadiusKm float64 `envconfig:"PREMIUM_RADIUS_KM" default:"1"`

	// Cache warming job interval. Zero disables the job.
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"6h"`

	// Shared secret guarding the manual cache refresh endpoint.
	RefreshSecret string `envconfig:"REFRESH_SECRET"`

	// Analysis event queue capacity and per-event timeout.
	AnalysisQueueSize int           `envconfig:"ANALYSIS_QUEUE_SIZE" default:"8"`
	AnalysisTimeout   time.Duration `envconfig:"ANALYSIS_TIMEOUT" default:"2m"`
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cfg.WorldWeatherAPIKey == "" {
		return nil, fmt.Errorf("WORLDWEATHERONLINE_API_KEY is required")
	}
	if cfg.ForecastDays < 1 || cfg.ForecastDays > 7 {
		return nil, fmt.Errorf("FORECAST_DAYS must be between 1 and 7, got %d", cfg.ForecastDays)
	}
	if cfg.PremiumRadiusKm <= 0 {
		return nil, fmt.Errorf("PREMIUM_RADIUS_KM must be positive")
	}
	return cfg, nil
}
