// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron-based and use github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// 1. PendingOrderExpiryJob - cancels Pending orders that were never confirmed
// within the configured time to live. It runs as the system actor.
//
// # Usage
//
//	expiry := jobs.NewPendingOrderExpiryJob(orderService, "0 * * * * *", 30*time.Minute, logger)
//	jobManager := jobs.NewJobManager(logger, expiry)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A run that fails is logged and retried on the next tick
// - Failed job starts stop any already running jobs
package jobs
