package service

import (
	"context"
	"time"

	"github.com/sainam-co/jobtrack-api/internal/accounting"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"go.uber.org/zap"
)

// LedgerExportService pushes paid payment phases into the accounting
// ledger. Runs from the scheduler; the export window overlaps between
// runs and the ledger upsert keeps that safe.
type LedgerExportService struct {
	payments *repository.PaymentRepository
	jobs     *repository.JobRepository
	ledger   *accounting.Client
	logger   *zap.Logger
}

// NewLedgerExportService creates a new LedgerExportService
func NewLedgerExportService(
	payments *repository.PaymentRepository,
	jobs *repository.JobRepository,
	ledger *accounting.Client,
	logger *zap.Logger,
) *LedgerExportService {
	return &LedgerExportService{
		payments: payments,
		jobs:     jobs,
		ledger:   ledger,
		logger:   logger,
	}
}

// ExportPaidSince exports phases paid since the given time. Returns the
// number of ledger rows written.
func (s *LedgerExportService) ExportPaidSince(ctx context.Context, since time.Time) (int, error) {
	if !s.ledger.IsEnabled() {
		return 0, nil
	}

	phases, err := s.payments.ListPaidSince(ctx, since)
	if err != nil {
		return 0, err
	}
	if len(phases) == 0 {
		return 0, nil
	}

	entries := make([]accounting.LedgerEntry, 0, len(phases))
	for _, phase := range phases {
		job, err := s.jobs.GetByID(ctx, phase.JobID)
		if err != nil {
			return 0, err
		}
		if job == nil || phase.PaidDate == nil {
			continue
		}
		entry := accounting.LedgerEntry{
			JobCode:  job.Code,
			Phase:    phase.Phase,
			Amount:   phase.Amount,
			PaidDate: *phase.PaidDate,
		}
		if job.Customer != nil {
			entry.CustomerName = job.Customer.Name
		}
		entries = append(entries, entry)
	}

	written, err := s.ledger.UpsertLedgerEntries(ctx, entries)
	if err != nil {
		return written, err
	}

	s.logger.Info("exported paid phases to accounting ledger",
		zap.Int("rows", written),
		zap.Time("since", since))
	return written, nil
}
