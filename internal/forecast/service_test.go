package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishcast/internal/cache"
	"fishcast/internal/geo"
)

type recordingNotifier struct {
	keys []string
	days []DailyForecast
}

func (r *recordingNotifier) ForecastReady(key string, day DailyForecast) {
	r.keys = append(r.keys, key)
	r.days = append(r.days, day)
}

func newTestService(d *stubDaily, h *stubHourly, c CurrentProvider, notifier AnalysisNotifier) *Service {
	resolver := geo.NewResolver("posillipo", home, "")
	orch := newTestOrchestrator(d, h, c)
	return NewService(resolver, orch, NewAssemblerAt(fixedClock(9)),
		cache.New[ForecastBundle](time.Hour), notifier, "test-sources", discardLogger)
}

func happyProviders() (*stubDaily, *stubHourly) {
	d := &stubDaily{days: []ProviderDay{makeDay("2026-03-10"), makeDay("2026-03-11")}}
	h := &stubHourly{hours: map[string][]ProviderHour{
		"2026-03-10": makeHours(nil),
		"2026-03-11": makeHours(nil),
	}}
	return d, h
}

func TestResolveForecast(t *testing.T) {
	d, h := happyProviders()
	svc := newTestService(d, h, nil, nil)

	bundle, err := svc.ResolveForecast(context.Background(), "posillipo")
	require.NoError(t, err)

	assert.Equal(t, "test-sources", bundle.Sources)
	require.Len(t, bundle.Forecast, 2)
	assert.Equal(t, "10/03 - 11/03", bundle.DateRange)
	assert.Equal(t, "Posillipo", bundle.Forecast[0].LocationName)
	assert.WithinDuration(t, time.Now().UTC(), bundle.FetchedAt, 5*time.Second)
}

func TestResolveForecastCaches(t *testing.T) {
	d, h := happyProviders()
	svc := newTestService(d, h, nil, nil)

	_, err := svc.ResolveForecast(context.Background(), "posillipo")
	require.NoError(t, err)

	// The alias and its raw coordinates share one cache entry.
	_, err = svc.ResolveForecast(context.Background(), "40.813238,14.208944")
	require.NoError(t, err)

	assert.Equal(t, 1, d.calls)
	assert.Equal(t, 1, h.calls)
}

func TestResolveForecastInvalidLocation(t *testing.T) {
	d, h := happyProviders()
	svc := newTestService(d, h, nil, nil)

	_, err := svc.ResolveForecast(context.Background(), "not a place")
	require.ErrorIs(t, err, geo.ErrInvalidLocation)
	assert.Zero(t, d.calls)
}

func TestResolveForecastAssemblyFailure(t *testing.T) {
	d := &stubDaily{err: errors.New("tidal API down")}
	h := &stubHourly{err: errors.New("hourly API down")}
	svc := newTestService(d, h, nil, nil)

	_, err := svc.ResolveForecast(context.Background(), "posillipo")
	require.ErrorIs(t, err, ErrAssemblyFailed)
}

func TestResolveForecastNotifies(t *testing.T) {
	d, h := happyProviders()
	notifier := &recordingNotifier{}
	svc := newTestService(d, h, nil, notifier)

	_, err := svc.ResolveForecast(context.Background(), "posillipo")
	require.NoError(t, err)

	require.Len(t, notifier.keys, 1)
	assert.Equal(t, home.Key(), notifier.keys[0])
	assert.Equal(t, "2026-03-10", notifier.days[0].Date)

	// A cache hit does not republish.
	_, err = svc.ResolveForecast(context.Background(), "posillipo")
	require.NoError(t, err)
	assert.Len(t, notifier.keys, 1)
}

func TestResolveForecastSurvivesCancelledCaller(t *testing.T) {
	d, h := happyProviders()
	svc := newTestService(d, h, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The fetch is detached from the caller's context, so an already
	// cancelled request still produces and caches a bundle.
	bundle, err := svc.ResolveForecast(ctx, "posillipo")
	require.NoError(t, err)
	assert.Len(t, bundle.Forecast, 2)
}
