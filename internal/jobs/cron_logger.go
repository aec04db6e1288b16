package jobs

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// cronLogger routes the scheduler's own messages to slog.
type cronLogger struct {
	logger *slog.Logger
}

var _ cron.Logger = cronLogger{}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

func newCron(logger *slog.Logger) *cron.Cron {
	cl := cronLogger{logger: logger}
	return cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
}
