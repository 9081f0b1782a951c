package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishcast/internal/forecast"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func sampleDay() forecast.DailyForecast {
	return forecast.DailyForecast{Date: "2026-03-10", LocationName: "Posillipo"}
}

func TestNotifierDelivers(t *testing.T) {
	var mu sync.Mutex
	var got []Event
	received := make(chan struct{}, 1)

	n := NewNotifier(AnalyzerFunc(func(_ context.Context, ev Event) error {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
		received <- struct{}{}
		return nil
	}), 4, time.Second, discardLogger)
	n.Start()
	defer n.Stop()

	n.ForecastReady("40.813,14.209", sampleDay())

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	ev := got[0]
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "40.813,14.209", ev.LocationKey)
	assert.Equal(t, "Posillipo", ev.LocationName)
	assert.Equal(t, "2026-03-10", ev.Day.Date)
	assert.WithinDuration(t, time.Now().UTC(), ev.PublishedAt, 5*time.Second)
}

func TestNotifierNeverBlocksPublisher(t *testing.T) {
	// A consumer that is never started: the queue fills up and subsequent
	// publishes must drop rather than block.
	n := NewNotifier(AnalyzerFunc(func(context.Context, Event) error {
		return nil
	}), 2, time.Second, discardLogger)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			n.ForecastReady("k", sampleDay())
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ForecastReady blocked on a full queue")
	}
}

func TestNotifierSurvivesAnalyzerFailure(t *testing.T) {
	calls := make(chan string, 4)

	n := NewNotifier(AnalyzerFunc(func(_ context.Context, ev Event) error {
		calls <- ev.LocationKey
		if ev.LocationKey == "bad" {
			return errors.New("analysis backend down")
		}
		return nil
	}), 4, time.Second, discardLogger)
	n.Start()
	defer n.Stop()

	n.ForecastReady("bad", sampleDay())
	n.ForecastReady("good", sampleDay())

	for _, want := range []string{"bad", "good"} {
		select {
		case got := <-calls:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("missing %s event", want)
		}
	}
}

func TestNotifierSurvivesAnalyzerPanic(t *testing.T) {
	calls := make(chan string, 4)

	n := NewNotifier(AnalyzerFunc(func(_ context.Context, ev Event) error {
		calls <- ev.LocationKey
		if ev.LocationKey == "boom" {
			panic("analyzer exploded")
		}
		return nil
	}), 4, time.Second, discardLogger)
	n.Start()
	defer n.Stop()

	n.ForecastReady("boom", sampleDay())
	n.ForecastReady("after", sampleDay())

	for _, want := range []string{"boom", "after"} {
		select {
		case got := <-calls:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("missing %s event", want)
		}
	}
}

func TestNotifierStopIsIdempotent(t *testing.T) {
	n := NewNotifier(AnalyzerFunc(func(context.Context, Event) error {
		return nil
	}), 4, time.Second, discardLogger)
	n.Start()

	n.Stop()
	n.Stop()
}
