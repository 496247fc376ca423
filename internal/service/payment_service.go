package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/policy"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"go.uber.org/zap"
)

// PaymentService manages the installment schedule of a job. Five
// phases is the house convention; the schedule itself is a variable
// length sequence numbered from 1.
type PaymentService struct {
	payments *repository.PaymentRepository
	jobs     *repository.JobRepository
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	payments *repository.PaymentRepository,
	jobs *repository.JobRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		jobs:     jobs,
		logger:   logger,
	}
}

// CreateSchedule replaces a job's payment schedule. Duplicate phase
// numbers are rejected; a schedule with paid phases cannot be replaced.
func (s *PaymentService) CreateSchedule(ctx context.Context, jobID uuid.UUID, req *domain.CreatePaymentScheduleRequest) ([]domain.PaymentPhase, []string, error) {
	if _, err := checkPolicy(ctx, policy.ActionCreate, policy.EntityPayment); err != nil {
		return nil, nil, err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if job == nil {
		return nil, nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}

	existing, err := s.payments.ListByJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range existing {
		if p.Status == domain.PaymentPaid {
			return nil, nil, fmt.Errorf("%w: schedule has paid phases and cannot be replaced", ErrConflict)
		}
	}

	seen := make(map[int]bool)
	phases := make([]domain.PaymentPhase, 0, len(req.Phases))
	for _, in := range req.Phases {
		if seen[in.Phase] {
			return nil, nil, fmt.Errorf("%w: duplicate phase number %d", ErrInvalidInput, in.Phase)
		}
		seen[in.Phase] = true

		dueDate, err := time.Parse("2006-01-02", in.DueDate)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid due date %q", ErrInvalidInput, in.DueDate)
		}
		phases = append(phases, domain.PaymentPhase{
			JobID:   jobID,
			Phase:   in.Phase,
			Amount:  in.Amount,
			DueDate: dueDate,
			Status:  domain.PaymentPending,
		})
	}

	if err := s.payments.ReplaceSchedule(ctx, jobID, phases); err != nil {
		return nil, nil, err
	}

	var warnings []string
	if job.TotalAmount != nil {
		if total := paymentTotal(phases); total != *job.TotalAmount {
			warnings = append(warnings,
				fmt.Sprintf("schedule totals %.2f but job amount is %.2f", total, *job.TotalAmount))
		}
	}

	s.logger.Info("payment schedule created",
		zap.String("job_id", jobID.String()),
		zap.Int("phases", len(phases)))
	return phases, warnings, nil
}

// MarkPaid records payment of one phase. A paid date is required;
// marking without one is a validation error, as is a paid date on a
// phase that is not being marked paid.
func (s *PaymentService) MarkPaid(ctx context.Context, jobID uuid.UUID, phase int, req *domain.MarkPaymentPaidRequest) (*domain.PaymentPhase, error) {
	if _, err := checkPolicy(ctx, policy.ActionUpdate, policy.EntityPayment); err != nil {
		return nil, err
	}

	payment, err := s.payments.GetByJobAndPhase(ctx, jobID, phase)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("%w: phase %d of job %s", ErrNotFound, phase, jobID)
	}
	if payment.Status == domain.PaymentPaid {
		return nil, fmt.Errorf("%w: phase %d is already paid", ErrConflict, phase)
	}

	paidDate, err := time.Parse("2006-01-02", req.PaidDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid paid date %q", ErrInvalidInput, req.PaidDate)
	}

	payment.Status = domain.PaymentPaid
	payment.PaidDate = &paidDate
	if req.SlipURL != "" {
		payment.SlipURL = req.SlipURL
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("payment phase paid",
		zap.String("job_id", jobID.String()),
		zap.Int("phase", phase),
		zap.Float64("amount", payment.Amount))
	return payment, nil
}

// Summary aggregates a job's schedule into paid, pending and overdue
// amounts plus an overall progress percentage.
func (s *PaymentService) Summary(ctx context.Context, jobID uuid.UUID) (*domain.PaymentSummary, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityPayment); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}

	phases, err := s.payments.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	summary := &domain.PaymentSummary{
		JobID:  jobID,
		Phases: phases,
	}
	for _, p := range phases {
		summary.TotalAmount += p.Amount
		switch p.Status {
		case domain.PaymentPaid:
			summary.PaidAmount += p.Amount
		case domain.PaymentOverdue:
			summary.OverdueAmount += p.Amount
		default:
			summary.PendingAmount += p.Amount
		}
	}
	// Overdue is still owed
	summary.PendingAmount += summary.OverdueAmount
	if summary.TotalAmount > 0 {
		summary.ProgressPercent = summary.PaidAmount / summary.TotalAmount * 100
	}
	return summary, nil
}

// SweepOverdue flags pending phases whose due date has passed. Run by
// the scheduler; callers outside the scheduler need payment update
// rights.
func (s *PaymentService) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	flagged, err := s.payments.MarkOverdueBefore(ctx, now)
	if err != nil {
		return 0, err
	}
	if flagged > 0 {
		s.logger.Info("flagged overdue payment phases", zap.Int64("count", flagged))
	}
	return flagged, nil
}
