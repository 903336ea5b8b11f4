package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/climate-chart/internal/climate"
)

// Warmer is implemented by climate.Service.
type Warmer interface {
	Warm(ctx context.Context, t climate.DataType) error
	Loaded(t climate.DataType) bool
}

// Scheduler preloads the observation arrays of every data type so the first
// chart request does not wait on the fetch. Types whose load failed are retried
// on every tick; loaded types are skipped.
type Scheduler struct {
	scheduler *gocron.Scheduler
	warmer    Warmer
	types     []climate.DataType
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(types []climate.DataType, interval, timeout time.Duration, warmer Warmer, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		warmer:    warmer,
		types:     types,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the preload job, runs it once right away and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.types) == 0 {
		s.logger.Info("scheduler: no data types configured; nothing to preload")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).StartImmediately().Do(s.Preload)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Preload warms every data type that is not cached yet.
func (s *Scheduler) Preload() {
	var wg sync.WaitGroup
	for _, t := range s.types {
		if s.warmer.Loaded(t) {
			continue
		}

		wg.Add(1)
		go func(t climate.DataType) {
			defer wg.Done()

			timeout := s.timeout
			if timeout <= 0 {
				timeout = 30 * time.Second
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			if err := s.warmer.Warm(ctx, t); err != nil {
				s.logger.Warn("scheduler: preload failed", "type", t, "err", err)
				return
			}
			s.logger.Info("scheduler: preloaded", "type", t)
		}(t)
	}
	wg.Wait()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
