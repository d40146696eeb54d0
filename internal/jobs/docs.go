// Package jobs provides scheduled background tasks for the delivery system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the delivery service.
//
// # Available Jobs
//
// 1. BroadcastRefreshJob - Periodically re-runs candidate selection for
// delivery offers stuck in the broadcasted state, widening them to couriers
// who have become free since the original broadcast.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(refreshBroadcastsHandler, schedule, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The refresh sweep never aborts on a single assignment: per-assignment
// failures are logged by the command handler and the sweep continues. Only a
// failure of the sweep itself is logged here.
package jobs
