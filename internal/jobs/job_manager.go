package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	settlement *PaymentSettlementJob
	refresh    *SettingsRefreshJob
}

func NewJobManager(settlement *PaymentSettlementJob, refresh *SettingsRefreshJob) *JobManager {
	return &JobManager{settlement: settlement, refresh: refresh}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.refresh.Start(); err != nil {
		return fmt.Errorf("failed to start settings refresh job: %w", err)
	}

	if err := jm.settlement.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.refresh.Stop()
		return fmt.Errorf("failed to start payment settlement job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.settlement.Stop()
	jm.refresh.Stop()
}
