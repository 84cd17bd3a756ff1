package jobs

import (
	"context"
	"time"

	"shopping/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultExpirySchedule runs the expiry once a minute.
const DefaultExpirySchedule = "0 * * * * *"

// PendingOrderExpirer cancels stale Pending orders.
type PendingOrderExpirer interface {
	ExpireStalePendingOrders(ctx context.Context, actor kernel.Actor, olderThan time.Duration) (int, error)
}

// PendingOrderExpiryJob periodically cancels Pending orders older than ttl.
type PendingOrderExpiryJob struct {
	expirer  PendingOrderExpirer
	schedule string
	ttl      time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewPendingOrderExpiryJob creates the job. An empty schedule means DefaultExpirySchedule.
func NewPendingOrderExpiryJob(
	expirer PendingOrderExpirer,
	schedule string,
	ttl time.Duration,
	logger *zap.Logger,
) *PendingOrderExpiryJob {
	if schedule == "" {
		schedule = DefaultExpirySchedule
	}
	return &PendingOrderExpiryJob{
		expirer:  expirer,
		schedule: schedule,
		ttl:      ttl,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With(zap.String("component", "pending_order_expiry_job")),
	}
}

// Name identifies the job in logs.
func (j *PendingOrderExpiryJob) Name() string {
	return "pending order expiry"
}

// Start schedules the job. It fails on an invalid schedule.
func (j *PendingOrderExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Pending order expiry job started",
		zap.String("schedule", j.schedule),
		zap.Duration("ttl", j.ttl),
	)
	return nil
}

// RunOnce performs a single expiry pass and reports how many orders it cancelled.
func (j *PendingOrderExpiryJob) RunOnce(ctx context.Context) int {
	expired, err := j.expirer.ExpireStalePendingOrders(ctx, kernel.SystemActor(), j.ttl)
	if err != nil {
		j.logger.Error("Pending order expiry job failed", zap.Error(err), zap.Int("expired", expired))
	}
	return expired
}

// Stop stops the schedule and waits for a running pass to finish.
func (j *PendingOrderExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Pending order expiry job stopped")
}
