package forecast

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishcast/internal/geo"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubDaily struct {
	days   []ProviderDay
	err    error
	panics bool
	calls  int
}

func (s *stubDaily) Name() string { return "stub-daily" }
func (s *stubDaily) FetchDaily(context.Context, geo.Location) ([]ProviderDay, error) {
	s.calls++
	if s.panics {
		panic("daily boom")
	}
	return s.days, s.err
}

type stubHourly struct {
	hours map[string][]ProviderHour
	err   error
	calls int
}

func (s *stubHourly) Name() string { return "stub-hourly" }
func (s *stubHourly) FetchHourly(context.Context, geo.Location) (map[string][]ProviderHour, error) {
	s.calls++
	return s.hours, s.err
}

type stubCurrents struct {
	currents map[string][]CurrentHour
	err      error
	calls    int
}

func (s *stubCurrents) Name() string { return "stub-currents" }
func (s *stubCurrents) FetchCurrents(context.Context, geo.Location) (map[string][]CurrentHour, error) {
	s.calls++
	return s.currents, s.err
}

var home = geo.Location{Lat: 40.813238, Lon: 14.208944, Name: "Posillipo"}

func newTestOrchestrator(d *stubDaily, h *stubHourly, c CurrentProvider) *Orchestrator {
	return NewOrchestrator(d, h, c, home.Lat, home.Lon, 1, discardLogger)
}

func TestFetchAllSucceed(t *testing.T) {
	d := &stubDaily{days: []ProviderDay{makeDay("2026-03-10")}}
	h := &stubHourly{hours: map[string][]ProviderHour{"2026-03-10": makeHours(nil)}}
	c := &stubCurrents{currents: map[string][]CurrentHour{"2026-03-10": {{Hour: "09"}}}}

	batch := newTestOrchestrator(d, h, c).Fetch(context.Background(), home)

	assert.True(t, batch.Daily.OK())
	assert.True(t, batch.Hourly.OK())
	assert.True(t, batch.Currents.OK())
	assert.True(t, batch.PremiumInvoked)
	assert.Len(t, batch.Daily.Data, 1)
}

func TestFetchPremiumGating(t *testing.T) {
	d := &stubDaily{}
	h := &stubHourly{}
	c := &stubCurrents{}
	orch := newTestOrchestrator(d, h, c)

	// Outside the premium radius the current provider is never called.
	faraway := geo.Location{Lat: 43.5, Lon: 10.3}
	batch := orch.Fetch(context.Background(), faraway)

	assert.False(t, batch.PremiumInvoked)
	assert.Zero(t, c.calls)
	assert.True(t, batch.Currents.OK())
	assert.Nil(t, batch.Currents.Data)

	// Inside the radius it runs.
	batch = orch.Fetch(context.Background(), home)
	assert.True(t, batch.PremiumInvoked)
	assert.Equal(t, 1, c.calls)
}

func TestFetchNoPremiumProvider(t *testing.T) {
	d := &stubDaily{}
	h := &stubHourly{}

	batch := newTestOrchestrator(d, h, nil).Fetch(context.Background(), home)

	assert.False(t, batch.PremiumInvoked)
	assert.True(t, batch.Currents.OK())
}

func TestFetchTagsFailures(t *testing.T) {
	wantErr := errors.New("tidal API down")
	d := &stubDaily{err: wantErr}
	h := &stubHourly{hours: map[string][]ProviderHour{}}

	batch := newTestOrchestrator(d, h, nil).Fetch(context.Background(), home)

	// One provider failing never hides the other's result.
	assert.False(t, batch.Daily.OK())
	require.ErrorIs(t, batch.Daily.Err, wantErr)
	assert.True(t, batch.Hourly.OK())
}

func TestFetchRecoversProviderPanic(t *testing.T) {
	d := &stubDaily{panics: true}
	h := &stubHourly{hours: map[string][]ProviderHour{}}

	batch := newTestOrchestrator(d, h, nil).Fetch(context.Background(), home)

	assert.False(t, batch.Daily.OK())
	assert.Contains(t, batch.Daily.Err.Error(), "panicked")
	assert.True(t, batch.Hourly.OK())
}
