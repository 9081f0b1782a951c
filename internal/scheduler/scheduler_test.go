package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishcast/internal/cache"
	"fishcast/internal/forecast"
	"fishcast/internal/geo"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type countingDaily struct{ calls atomic.Int32 }

func (c *countingDaily) Name() string { return "counting-daily" }
func (c *countingDaily) FetchDaily(context.Context, geo.Location) ([]forecast.ProviderDay, error) {
	c.calls.Add(1)
	return []forecast.ProviderDay{{Date: "2026-03-10"}}, nil
}

type flatHourly struct{}

func (flatHourly) Name() string { return "flat-hourly" }
func (flatHourly) FetchHourly(context.Context, geo.Location) (map[string][]forecast.ProviderHour, error) {
	hours := make([]forecast.ProviderHour, 24)
	for i := range hours {
		hours[i] = forecast.ProviderHour{Time: fmt.Sprintf("%02d:00", i), Pressure: 1013}
	}
	return map[string][]forecast.ProviderHour{"2026-03-10": hours}, nil
}

func newWarmableService(daily *countingDaily) *forecast.Service {
	home := geo.Location{Lat: 40.813238, Lon: 14.208944, Name: "Posillipo"}
	resolver := geo.NewResolver("posillipo", home, "")
	orch := forecast.NewOrchestrator(daily, flatHourly{}, nil, home.Lat, home.Lon, 1, discardLogger)
	// Short TTL so each scheduler tick triggers a real refetch.
	return forecast.NewService(resolver, orch, forecast.NewAssembler(),
		cache.New[forecast.ForecastBundle](time.Millisecond), nil, "test", discardLogger)
}

func TestSchedulerWarmsCache(t *testing.T) {
	daily := &countingDaily{}
	s := New("posillipo", 50*time.Millisecond, newWarmableService(daily), discardLogger)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return daily.calls.Load() >= 1
	}, 3*time.Second, 10*time.Millisecond)
}

func TestSchedulerZeroIntervalDisabled(t *testing.T) {
	daily := &countingDaily{}
	s := New("posillipo", 0, newWarmableService(daily), discardLogger)

	require.NoError(t, s.Start())
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	assert.Zero(t, daily.calls.Load())
}

func TestSchedulerStopIsSafe(t *testing.T) {
	s := New("posillipo", time.Hour, newWarmableService(&countingDaily{}), discardLogger)
	require.NoError(t, s.Start())
	s.Stop()
	s.Stop()
}
