// Package jobs provides scheduled background tasks of the fulfillment service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. PaymentSettlementJob - polls the payment gateway for card orders whose
// payment is still pending (every 15 seconds by default)
// 2. SettingsRefreshJob - re-reads cashback, distance tariffs and payment
// settings on an optional schedule
//
// # Usage
//
//	jobManager := jobs.NewJobManager(settlementJob, refreshJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A failed poll is logged and counted, the other orders are still polled
// - A tick still running when the next one is due is skipped
// - Failed job starts will stop any already running jobs
package jobs
