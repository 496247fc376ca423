package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/policy"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"go.uber.org/zap"
)

// JobService owns the job lifecycle: creation with code assignment,
// status transitions, and the derived action set.
type JobService struct {
	jobs      *repository.JobRepository
	customers *repository.CustomerRepository
	history   *repository.JobStatusHistoryRepository
	checklist *repository.ChecklistRepository
	codes     *JobCodeService
	logger    *zap.Logger
}

// NewJobService creates a new JobService
func NewJobService(
	jobs *repository.JobRepository,
	customers *repository.CustomerRepository,
	history *repository.JobStatusHistoryRepository,
	checklist *repository.ChecklistRepository,
	codes *JobCodeService,
	logger *zap.Logger,
) *JobService {
	return &JobService{
		jobs:      jobs,
		customers: customers,
		history:   history,
		checklist: checklist,
		codes:     codes,
		logger:    logger,
	}
}

// Create registers a new job in pending status and assigns its code.
// The customer is either referenced by ID or created inline.
func (s *JobService) Create(ctx context.Context, req *domain.CreateJobRequest) (*domain.Job, error) {
	if _, err := checkPolicy(ctx, policy.ActionCreate, policy.EntityJob); err != nil {
		return nil, err
	}

	var customerID uuid.UUID
	switch {
	case req.CustomerID != nil:
		customer, err := s.customers.GetByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, fmt.Errorf("%w: customer %s", ErrNotFound, *req.CustomerID)
		}
		customerID = customer.ID
	case req.Customer != nil:
		customer := &domain.Customer{
			Name:    req.Customer.Name,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		}
		if err := s.customers.Create(ctx, customer); err != nil {
			return nil, err
		}
		customerID = customer.ID
	default:
		return nil, fmt.Errorf("%w: either customerId or customer is required", ErrInvalidInput)
	}

	code, err := s.codes.Generate(ctx)
	if err != nil {
		return nil, err
	}

	job := &domain.Job{
		Code:        code,
		CustomerID:  customerID,
		Status:      domain.StatusPending,
		TotalAmount: req.TotalAmount,
		Notes:       req.Notes,
		Version:     1,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("job created",
		zap.String("job_id", job.ID.String()),
		zap.String("code", job.Code))

	return s.Get(ctx, job.ID)
}

// Get retrieves a job with all sub-entities
func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityJob); err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	return job, nil
}

// List retrieves jobs matching the filter
func (s *JobService) List(ctx context.Context, filter domain.JobListFilter) ([]domain.Job, int64, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityJob); err != nil {
		return nil, 0, err
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *filter.Status)
	}
	return s.jobs.List(ctx, filter)
}

// Update changes job fields other than status. The request carries the
// version the caller read; a mismatch means another writer got there
// first and the caller must re-fetch.
func (s *JobService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateJobRequest) (*domain.Job, error) {
	if _, err := checkPolicy(ctx, policy.ActionUpdate, policy.EntityJob); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, id)
	}

	job.Version = req.Version
	if req.TotalAmount != nil {
		job.TotalAmount = req.TotalAmount
	}
	if req.Notes != nil {
		job.Notes = *req.Notes
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, fmt.Errorf("%w: job %s changed since it was read", ErrConflict, id)
		}
		return nil, err
	}
	return s.jobs.GetByID(ctx, id)
}

// Delete removes a job and everything it owns
func (s *JobService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := checkPolicy(ctx, policy.ActionDelete, policy.EntityJob); err != nil {
		return err
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	return s.jobs.Delete(ctx, id)
}

// Transition moves a job to a new status. Fails with
// ErrInvalidTransition when the edge is not in the transition table;
// the job is left untouched. Sub-entities are never changed here;
// callers create quotations, schedules and the like explicitly.
// Entering in-progress seeds the default checklist as a convenience.
func (s *JobService) Transition(ctx context.Context, id uuid.UUID, req *domain.TransitionJobRequest) (*domain.Job, []string, error) {
	actor, err := checkPolicy(ctx, policy.ActionTransition, policy.EntityJob)
	if err != nil {
		return nil, nil, err
	}

	if !req.Status.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if job == nil {
		return nil, nil, fmt.Errorf("%w: job %s", ErrNotFound, id)
	}

	from := job.Status
	if !from.CanTransitionTo(req.Status) {
		return nil, nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, req.Status)
	}

	warnings := s.transitionWarnings(job, req.Status)

	if err := s.jobs.UpdateStatus(ctx, job, req.Status); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, nil, fmt.Errorf("%w: job %s changed since it was read", ErrConflict, id)
		}
		return nil, nil, err
	}

	entry := &domain.JobStatusHistory{
		JobID:      job.ID,
		FromStatus: from,
		ToStatus:   req.Status,
		ChangedBy:  &actor.UserID,
		Note:       req.Note,
	}
	if err := s.history.RecordTransition(ctx, entry); err != nil {
		s.logger.Error("failed to record status transition",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	}

	if req.Status == domain.StatusInProgress {
		if err := s.checklist.SeedDefaults(ctx, job.ID); err != nil {
			s.logger.Error("failed to seed checklist",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("job status changed",
		zap.String("job_id", job.ID.String()),
		zap.String("code", job.Code),
		zap.String("from", string(from)),
		zap.String("to", string(req.Status)),
		zap.String("changed_by", actor.UserID.String()))

	updated, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return updated, warnings, nil
}

// transitionWarnings reports soft-guard violations. These never block
// the transition; the original workflow leaves the final call with the
// person doing the work.
func (s *JobService) transitionWarnings(job *domain.Job, target domain.JobStatus) []string {
	var warnings []string
	if target == domain.StatusQuoting && job.Appointment == nil {
		warnings = append(warnings, "no appointment recorded; measurement usually precedes quoting")
	}
	if target == domain.StatusCompleted {
		if total := paymentTotal(job.Payments); job.TotalAmount != nil && len(job.Payments) > 0 && total != *job.TotalAmount {
			warnings = append(warnings,
				fmt.Sprintf("payment schedule totals %.2f but job amount is %.2f", total, *job.TotalAmount))
		}
	}
	return warnings
}

// History returns a job's transition audit trail
func (s *JobService) History(ctx context.Context, id uuid.UUID) ([]domain.JobStatusHistory, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityJob); err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	return s.history.ListByJob(ctx, id)
}

func paymentTotal(phases []domain.PaymentPhase) float64 {
	var total float64
	for _, p := range phases {
		total += p.Amount
	}
	return total
}
