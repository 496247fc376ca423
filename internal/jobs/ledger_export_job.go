package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LedgerExportJobName is the name of the accounting ledger export job
const LedgerExportJobName = "ledger_export"

// initialExportWindow bounds the first export after a restart
const initialExportWindow = 7 * 24 * time.Hour

// LedgerExporter pushes paid payment phases to the accounting ledger.
// Implemented by the ledger export service.
type LedgerExporter interface {
	ExportPaidSince(ctx context.Context, since time.Time) (int, error)
}

// LedgerExportJob exports newly paid phases on a schedule. Each run
// exports everything paid since the last successful run; the ledger
// upsert makes the overlap harmless.
type LedgerExportJob struct {
	exporter LedgerExporter
	logger   *zap.Logger
	timeout  time.Duration

	mu        sync.Mutex
	lastRunAt time.Time
}

// NewLedgerExportJob creates a new ledger export job
func NewLedgerExportJob(exporter LedgerExporter, logger *zap.Logger, timeout time.Duration) *LedgerExportJob {
	return &LedgerExportJob{
		exporter: exporter,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run executes one export. Called by the scheduler.
func (j *LedgerExportJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	j.mu.Lock()
	since := j.lastRunAt
	j.mu.Unlock()
	start := time.Now()
	if since.IsZero() {
		since = start.Add(-initialExportWindow)
	}

	written, err := j.exporter.ExportPaidSince(ctx, since)
	if err != nil {
		j.logger.Error("ledger export failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.mu.Lock()
	j.lastRunAt = start
	j.mu.Unlock()

	j.logger.Info("ledger export completed",
		zap.Int("rows", written),
		zap.Duration("duration", time.Since(start)))
}

// RegisterLedgerExportJob registers the export job with the scheduler.
// When runOnBoot is set an export runs immediately in the background.
func RegisterLedgerExportJob(scheduler *Scheduler, exporter LedgerExporter, logger *zap.Logger, cronExpr string, timeout time.Duration, runOnBoot bool) error {
	job := NewLedgerExportJob(exporter, logger, timeout)
	if runOnBoot {
		go job.Run()
	}
	return scheduler.AddJob(LedgerExportJobName, cronExpr, job.Run)
}
