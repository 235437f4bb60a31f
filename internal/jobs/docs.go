// Package jobs provides scheduled background tasks for the split shipping
// service.
//
// Jobs are built on github.com/robfig/cron/v3 and managed through JobManager:
//
//	retry := jobs.NewDeliveryRetryJob(retryHandler, cmd, "@every 1m", log)
//	jobManager := jobs.NewJobManager(log, retry)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("failed to start jobs", "error", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// DeliveryRetryJob re-dispatches failed deliveries that have attempts left,
// through the same locked path as an operator retry. Overlapping ticks are
// skipped. Per-plan failures are logged with the sweep summary; they never
// stop the schedule.
package jobs
