package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"fishcast/internal/geo"
)

// Result tags one provider call's outcome so downstream code can
// pattern-match instead of null-checking.
type Result[T any] struct {
	Data T
	Err  error
}

// OK reports whether the provider call succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// ProviderBatch is the fixed-shape output of one orchestrated fetch. Currents
// carries no data and no error when the premium provider was not invoked.
type ProviderBatch struct {
	Daily          Result[[]ProviderDay]
	Hourly         Result[map[string][]ProviderHour]
	Currents       Result[map[string][]CurrentHour]
	PremiumInvoked bool
}

// Orchestrator fans out to the 2-3 providers concurrently for one location.
// Individual provider failures are captured in the batch, never propagated.
type Orchestrator struct {
	daily    DailyProvider
	hourly   HourlyProvider
	currents CurrentProvider

	premiumLat      float64
	premiumLon      float64
	premiumRadiusKm float64

	logger *slog.Logger
}

// NewOrchestrator wires the two mandatory providers and the optional premium
// current provider (may be nil). The premium provider is invoked only for
// locations within premiumRadiusKm of the premium reference point.
func NewOrchestrator(
	daily DailyProvider,
	hourly HourlyProvider,
	currents CurrentProvider,
	premiumLat, premiumLon, premiumRadiusKm float64,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		daily:           daily,
		hourly:          hourly,
		currents:        currents,
		premiumLat:      premiumLat,
		premiumLon:      premiumLon,
		premiumRadiusKm: premiumRadiusKm,
		logger:          logger,
	}
}

// premiumEligible reports whether the premium current provider applies to the
// resolved location.
func (o *Orchestrator) premiumEligible(loc geo.Location) bool {
	return o.currents != nil &&
		geo.Near(loc.Lat, loc.Lon, o.premiumLat, o.premiumLon, o.premiumRadiusKm)
}

// Fetch runs all applicable providers concurrently and returns their tagged
// results. An orchestration-level panic yields an all-failed batch of the
// expected shape rather than propagating.
func (o *Orchestrator) Fetch(ctx context.Context, loc geo.Location) (batch ProviderBatch) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("orchestration fault: %v", r)
			o.logger.Error("provider fan-out panicked", "location", loc.Key(), "panic", r)
			batch = ProviderBatch{
				Daily:    Result[[]ProviderDay]{Err: err},
				Hourly:   Result[map[string][]ProviderHour]{Err: err},
				Currents: Result[map[string][]CurrentHour]{Err: err},
			}
		}
	}()

	batch.PremiumInvoked = o.premiumEligible(loc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer recoverInto(&batch.Daily.Err)
		batch.Daily.Data, batch.Daily.Err = o.daily.FetchDaily(ctx, loc)
		if batch.Daily.Err != nil {
			o.logger.Warn("daily provider failed", "provider", o.daily.Name(), "location", loc.Key(), "err", batch.Daily.Err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer recoverInto(&batch.Hourly.Err)
		batch.Hourly.Data, batch.Hourly.Err = o.hourly.FetchHourly(ctx, loc)
		if batch.Hourly.Err != nil {
			o.logger.Warn("hourly provider failed", "provider", o.hourly.Name(), "location", loc.Key(), "err", batch.Hourly.Err)
		}
	}()

	if batch.PremiumInvoked {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer recoverInto(&batch.Currents.Err)
			batch.Currents.Data, batch.Currents.Err = o.currents.FetchCurrents(ctx, loc)
			if batch.Currents.Err != nil {
				o.logger.Warn("premium provider failed, proceeding without current data",
					"provider", o.currents.Name(), "location", loc.Key(), "err", batch.Currents.Err)
			}
		}()
	}

	wg.Wait()
	return batch
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("provider panicked: %v", r)
	}
}
