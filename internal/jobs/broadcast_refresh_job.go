package jobs

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultBroadcastRefreshSchedule runs the refresh sweep every 30 seconds.
const DefaultBroadcastRefreshSchedule = "*/30 * * * * *"

// BroadcastRefreshJob periodically re-runs candidate selection for delivery
// offers that have sat unclaimed, so couriers who became free since the
// original broadcast still receive them.
type BroadcastRefreshJob struct {
	handler  commands.RefreshBroadcastsCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewBroadcastRefreshJob creates a job that sweeps stale broadcasts on the
// given cron schedule (with a seconds field). An empty schedule falls back to
// DefaultBroadcastRefreshSchedule.
func NewBroadcastRefreshJob(
	handler commands.RefreshBroadcastsCommandHandler, schedule string, logger *slog.Logger,
) *BroadcastRefreshJob {
	if schedule == "" {
		schedule = DefaultBroadcastRefreshSchedule
	}
	return &BroadcastRefreshJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "broadcast_refresh_job"),
	}
}

// Start schedules the refresh sweep.
func (j *BroadcastRefreshJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewRefreshBroadcastsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Broadcast refresh sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Broadcast refresh job started", "schedule", j.schedule)
	return nil
}

// Stop stops the refresh sweep.
func (j *BroadcastRefreshJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Broadcast refresh job stopped")
}
