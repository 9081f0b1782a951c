// Package scheduler keeps the home spot's forecast warm by re-fetching it on
// a fixed interval, so the first user request after a TTL expiry does not pay
// the full provider round-trip.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"fishcast/internal/forecast"
)

// Scheduler periodically refreshes the forecast cache for one location.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *forecast.Service
	location  string
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a Scheduler warming the given location string every interval.
func New(location string, interval time.Duration, service *forecast.Service, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		location:  location,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// A zero interval disables the job.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("cache warming disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if _, err := s.service.ResolveForecast(ctx, s.location); err != nil {
			s.logger.Warn("cache warming failed", "location", s.location, "err", err)
			return
		}
		s.logger.Info("cache warmed", "location", s.location)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
