package usecase

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"NewsChecker/internal/ports"
)

// Runner is the full parse run triggered by the scheduler.
type Runner interface {
	Parse(ctx context.Context) error
}

// Scheduler wires the cron-like driver with the crawl use case. At most one
// run is in flight; triggers arriving during a run are dropped.
type Scheduler struct {
	driver  ports.Scheduler
	runner  Runner
	logger  *slog.Logger
	running atomic.Bool
	wg      sync.WaitGroup
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, runner Runner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{driver: driver, runner: runner, logger: logger}
}

// Trigger starts a run in the background. It reports false when a run is
// already in progress.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	if s.runner == nil || !s.running.CompareAndSwap(false, true) {
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)
		s.run(ctx, time.Now())
	}()
	return true
}

// Running reports whether a run is in progress.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// RunNow executes a run synchronously. It reports false when a run is already
// in progress.
func (s *Scheduler) RunNow(ctx context.Context) (bool, error) {
	if s.runner == nil || !s.running.CompareAndSwap(false, true) {
		return false, nil
	}
	defer s.running.Store(false)
	return true, s.runner.Parse(ctx)
}

// Start registers the crawl with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.runner == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if !s.running.CompareAndSwap(false, true) {
			s.logger.Warn("scheduled run skipped, previous run still active", "trigger", trigger)
			return
		}
		defer s.running.Store(false)
		s.run(ctx, trigger)
	}

	return s.driver.Start(ctx, job)
}

// Stop tears down the underlying scheduler and waits for manual runs.
func (s *Scheduler) Stop(ctx context.Context) error {
	var err error
	if s.driver != nil {
		err = s.driver.Stop(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(ctx context.Context, trigger time.Time) {
	started := time.Now()
	s.logger.Info("parse run started", "trigger", trigger)
	if err := s.runner.Parse(ctx); err != nil {
		s.logger.Error("parse run finished with errors", "error", err, "elapsed", time.Since(started))
		return
	}
	s.logger.Info("parse run finished", "elapsed", time.Since(started))
}
