// Package analysis decouples the proactive downstream analysis from the
// request path. The forecast service publishes completion events here; a
// consumer goroutine hands them to a pluggable Analyzer behind its own error
// boundary, so analysis failures can never reach a response in flight.
package analysis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"fishcast/internal/forecast"
)

// Event is one "forecast ready" notification.
type Event struct {
	ID           string
	LocationKey  string
	LocationName string
	Day          forecast.DailyForecast
	PublishedAt  time.Time
}

// Analyzer consumes forecast-ready events. Implementations typically hand the
// day off to an external analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, ev Event) error
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, ev Event) error

func (f AnalyzerFunc) Analyze(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Notifier is a buffered, non-blocking event channel with one consumer.
// Publishing never blocks the caller: a full queue drops the event with a
// log line.
type Notifier struct {
	events   chan Event
	analyzer Analyzer
	timeout  time.Duration
	logger   *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewNotifier creates a Notifier with the given queue capacity. Call Start
// to launch the consumer.
func NewNotifier(analyzer Analyzer, capacity int, timeout time.Duration, logger *slog.Logger) *Notifier {
	if capacity <= 0 {
		capacity = 8
	}
	return &Notifier{
		events:   make(chan Event, capacity),
		analyzer: analyzer,
		timeout:  timeout,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the consumer goroutine.
func (n *Notifier) Start() {
	go n.run()
}

// Stop shuts the consumer down after the in-flight event, if any, finishes.
func (n *Notifier) Stop() {
	n.stopOnce.Do(func() { close(n.stop) })
	<-n.done
}

// ForecastReady publishes a completion event for a freshly cached bundle.
// It never blocks and never fails the caller.
func (n *Notifier) ForecastReady(locationKey string, day forecast.DailyForecast) {
	ev := Event{
		ID:           uuid.New().String(),
		LocationKey:  locationKey,
		LocationName: day.LocationName,
		Day:          day,
		PublishedAt:  time.Now().UTC(),
	}
	select {
	case n.events <- ev:
	default:
		n.logger.Warn("analysis queue full, dropping event", "location", locationKey)
	}
}

func (n *Notifier) run() {
	defer close(n.done)
	for {
		select {
		case <-n.stop:
			return
		case ev := <-n.events:
			n.handle(ev)
		}
	}
}

func (n *Notifier) handle(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("analyzer panicked", "event", ev.ID, "panic", r)
		}
	}()

	ctx := context.Background()
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	if err := n.analyzer.Analyze(ctx, ev); err != nil {
		// Terminal and local: analysis errors never reach the request path.
		n.logger.Warn("proactive analysis failed", "event", ev.ID, "location", ev.LocationKey, "err", err)
		return
	}
	n.logger.Info("proactive analysis completed", "event", ev.ID, "location", ev.LocationKey)
}
