package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"fishcast/internal/analysis"
	httpapi "fishcast/internal/api/http"
	"fishcast/internal/cache"
	"fishcast/internal/config"
	"fishcast/internal/forecast"
	"fishcast/internal/geo"
	"fishcast/internal/providers"
	"fishcast/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slogger := newLogger(cfg.LogLevel)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	resolver := geo.NewResolver(cfg.DefaultLocationAlias, geo.Location{
		Lat:  cfg.DefaultLat,
		Lon:  cfg.DefaultLon,
		Name: cfg.DefaultLocationName,
	}, cfg.GeocoderAPIKey)

	// Providers. The premium current source is wired only when configured.
	daily := providers.NewWorldWeatherProvider(httpClient, cfg.WorldWeatherAPIKey, cfg.ForecastDays)
	hourly := providers.NewOpenMeteoProvider(httpClient, cfg.ForecastDays)
	var currents forecast.CurrentProvider
	if cfg.StormglassAPIKey != "" {
		currents = providers.NewStormglassProvider(httpClient, cfg.StormglassAPIKey)
	}

	orch := forecast.NewOrchestrator(daily, hourly, currents,
		cfg.PremiumLat, cfg.PremiumLon, cfg.PremiumRadiusKm, slogger)

	// Downstream analysis consumer, detached from the request path. The
	// default analyzer just records the event; a real consumer plugs in here.
	notifier := analysis.NewNotifier(analysis.AnalyzerFunc(func(_ context.Context, ev analysis.Event) error {
		slogger.Info("forecast ready for analysis",
			"location", ev.LocationKey, "name", ev.LocationName, "date", ev.Day.Date)
		return nil
	}), cfg.AnalysisQueueSize, cfg.AnalysisTimeout, slogger)
	notifier.Start()
	defer notifier.Stop()

	bundleCache := cache.New[forecast.ForecastBundle](cfg.CacheTTL)
	service := forecast.NewService(resolver, orch, forecast.NewAssembler(), bundleCache,
		notifier, "Open-Meteo & WorldWeatherOnline", slogger)

	// Cache warming for the home spot.
	sched := scheduler.New(cfg.DefaultLocationAlias, cfg.RefreshInterval, service, slogger)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "fishcast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "fishcast",
		})
	})

	httpapi.RegisterRoutes(app, service, httpapi.Options{
		DefaultLocation: cfg.DefaultLocationAlias,
		RefreshSecret:   cfg.RefreshSecret,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slogger.Error("fiber server stopped", "err", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slogger.Error("error during shutdown", "err", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
