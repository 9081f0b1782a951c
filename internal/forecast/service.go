package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fishcast/internal/cache"
	"fishcast/internal/geo"
)

// AnalysisNotifier receives the first day of a freshly assembled bundle after
// it is written to the cache. Implementations must not block the caller.
type AnalysisNotifier interface {
	ForecastReady(locationKey string, day DailyForecast)
}

// Service is the single entry point of the pipeline: resolve the location,
// fetch-or-cache under single-flight, assemble, and notify the downstream
// analysis consumer.
type Service struct {
	resolver  *geo.Resolver
	orch      *Orchestrator
	assembler *Assembler
	cache     *cache.Cache[ForecastBundle]
	sources   string
	logger    *slog.Logger
}

// NewService wires the pipeline. notifier may be nil when no downstream
// analysis consumer is configured.
func NewService(
	resolver *geo.Resolver,
	orch *Orchestrator,
	assembler *Assembler,
	c *cache.Cache[ForecastBundle],
	notifier AnalysisNotifier,
	sources string,
	logger *slog.Logger,
) *Service {
	s := &Service{
		resolver:  resolver,
		orch:      orch,
		assembler: assembler,
		cache:     c,
		sources:   sources,
		logger:    logger,
	}
	if notifier != nil {
		c.OnStore(func(key string, bundle ForecastBundle) {
			if len(bundle.Forecast) > 0 {
				notifier.ForecastReady(key, bundle.Forecast[0])
			}
		})
	}
	return s
}

// ResolveForecast resolves a free-form location string and returns its
// forecast bundle, from cache when live. Identical locations after 3-decimal
// rounding share one cache entry and one single-flight slot.
func (s *Service) ResolveForecast(ctx context.Context, locationString string) (ForecastBundle, error) {
	loc, err := s.resolver.Resolve(locationString)
	if err != nil {
		return ForecastBundle{}, err
	}

	key := loc.Key()
	return s.cache.GetOrFetch(ctx, key, func(ctx context.Context) (ForecastBundle, error) {
		// A fetch abandoned by its caller still completes and populates the
		// cache for subsequent callers; provider adapters carry their own
		// per-call timeouts.
		return s.fetchAndAssemble(context.WithoutCancel(ctx), loc)
	})
}

func (s *Service) fetchAndAssemble(ctx context.Context, loc geo.Location) (ForecastBundle, error) {
	start := time.Now()
	batch := s.orch.Fetch(ctx, loc)

	days, err := s.assembler.Assemble(batch.Daily.Data, batch.Hourly.Data, batch.Currents.Data, loc.Name)
	if err != nil {
		return ForecastBundle{}, fmt.Errorf("assembling forecast for %s: %w", loc.Key(), err)
	}

	s.logger.Info("forecast assembled",
		"location", loc.Key(),
		"days", len(days),
		"premium", batch.PremiumInvoked,
		"elapsed", time.Since(start))

	return ForecastBundle{
		Sources:   s.sources,
		Forecast:  days,
		DateRange: dateRange(days),
		FetchedAt: time.Now().UTC(),
	}, nil
}

func dateRange(days []DailyForecast) string {
	if len(days) == 0 {
		return NotAvailable
	}
	return days[0].DayDate + " - " + days[len(days)-1].DayDate
}
