package logger

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Cron adapts a slog logger to the cron library's logger interface.
type Cron struct {
	log *slog.Logger
}

var _ cron.Logger = Cron{}

// NewCron returns a cron.Logger writing through log with component prefix.
func NewCron(log *slog.Logger, component string) Cron {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return Cron{log: log.With("component", component)}
}

// Info logs routine scheduler messages at debug level; cron is chatty.
func (c Cron) Info(msg string, keysAndValues ...any) {
	c.log.Debug(msg, keysAndValues...)
}

// Error logs scheduler failures such as recovered job panics.
func (c Cron) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error(msg, append(keysAndValues, "error", err)...)
}
