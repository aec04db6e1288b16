package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/settings"

	"github.com/robfig/cron/v3"
)

const reloadTimeout = 10 * time.Second

type SettingsReloader interface {
	Reload(ctx context.Context) (settings.Snapshot, error)
}

// SettingsRefreshJob re-reads the business settings so that edits made in the
// admin panel take effect without a reload request.
type SettingsRefreshJob struct {
	reloader SettingsReloader
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewSettingsRefreshJob(reloader SettingsReloader, schedule string, logger *slog.Logger) *SettingsRefreshJob {
	logger = logger.With("component", "settings_refresh_job")
	return &SettingsRefreshJob{
		reloader: reloader,
		schedule: schedule,
		cron:     newCron(logger),
		logger:   logger,
	}
}

// Start does nothing when no schedule is configured.
func (j *SettingsRefreshJob) Start() error {
	if j.schedule == "" {
		return nil
	}
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()

		if _, err := j.reloader.Reload(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Settings refresh failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Settings refresh job started", "schedule", j.schedule)
	return nil
}

func (j *SettingsRefreshJob) Stop() {
	<-j.cron.Stop().Done()
}
