package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// OverdueSweepJobName is the name of the overdue payment sweep job
const OverdueSweepJobName = "overdue_sweep"

// OverdueSweeper flags pending payment phases whose due date has passed.
// Implemented by the payment service.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, now time.Time) (int64, error)
}

// OverdueSweepJob marks overdue payment phases on a nightly schedule
type OverdueSweepJob struct {
	payments OverdueSweeper
	logger   *zap.Logger
	timeout  time.Duration
}

// NewOverdueSweepJob creates a new overdue sweep job
func NewOverdueSweepJob(payments OverdueSweeper, logger *zap.Logger, timeout time.Duration) *OverdueSweepJob {
	return &OverdueSweepJob{
		payments: payments,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run executes one sweep. Called by the scheduler.
func (j *OverdueSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	flagged, err := j.payments.SweepOverdue(ctx, start)
	if err != nil {
		j.logger.Error("overdue sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("overdue sweep completed",
		zap.Int64("flagged", flagged),
		zap.Duration("duration", time.Since(start)))
}

// RegisterOverdueSweepJob registers the sweep with the scheduler and
// runs one sweep immediately so a restart never leaves stale phases
// pending until the next schedule.
func RegisterOverdueSweepJob(scheduler *Scheduler, payments OverdueSweeper, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewOverdueSweepJob(payments, logger, timeout)
	go job.Run()
	return scheduler.AddJob(OverdueSweepJobName, cronExpr, job.Run)
}
