package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"NewsChecker/internal/ports"
	"NewsChecker/pkg/logger"
)

// Parser accepts standard 5-field expressions (minute hour day month weekday)
// and descriptors such as @daily or @every 1h.
var Parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Options configures the cron driver.
type Options struct {
	Expression string
	Location   *time.Location
	RunOnStart bool
}

// CronScheduler drives recurring runs from a cron expression.
type CronScheduler struct {
	opts   Options
	logger *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
	wg   sync.WaitGroup
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler validates the expression and builds the scheduler.
func NewCronScheduler(opts Options, log *slog.Logger) (*CronScheduler, error) {
	if _, err := Parser.Parse(opts.Expression); err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", opts.Expression, err)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &CronScheduler{opts: opts, logger: log}, nil
}

// Start registers the job and begins ticking. Calling Start twice is a no-op.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron != nil {
		return nil
	}

	cronLog := logger.NewCron(c.logger, "cron")
	driver := cron.New(
		cron.WithParser(Parser),
		cron.WithLocation(c.opts.Location),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog)),
	)

	if _, err := driver.AddFunc(c.opts.Expression, func() {
		if ctx.Err() != nil {
			return
		}
		job(time.Now().In(c.opts.Location))
	}); err != nil {
		return fmt.Errorf("schedule job: %w", err)
	}

	driver.Start()
	c.cron = driver
	c.logger.Info("scheduler started", "expression", c.opts.Expression, "location", c.opts.Location.String())

	if c.opts.RunOnStart {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					cronLog.Error(errors.New("panic"), "startup run panicked", "recovered", r)
				}
			}()
			job(time.Now().In(c.opts.Location))
		}()
	}

	return nil
}

// Stop halts the driver and waits for running jobs or ctx expiry.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	driver := c.cron
	c.cron = nil
	c.mu.Unlock()

	if driver == nil {
		return nil
	}

	stopped := driver.Stop()
	done := make(chan struct{})
	go func() {
		<-stopped.Done()
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
