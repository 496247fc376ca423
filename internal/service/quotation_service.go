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

// QuotationService handles the quotation lifecycle: draft, send to the
// customer, and record the accept/reject answer.
type QuotationService struct {
	quotations *repository.QuotationRepository
	jobs       *repository.JobRepository
	logger     *zap.Logger
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotations *repository.QuotationRepository,
	jobs *repository.JobRepository,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		quotations: quotations,
		jobs:       jobs,
		logger:     logger,
	}
}

// Get retrieves a job's quotation
func (s *QuotationService) Get(ctx context.Context, jobID uuid.UUID) (*domain.Quotation, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityQuotation); err != nil {
		return nil, err
	}
	quotation, err := s.quotations.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, fmt.Errorf("%w: no quotation for job %s", ErrNotFound, jobID)
	}
	return quotation, nil
}

// Upsert creates or updates the quotation draft for a job. A resolved
// quotation (accepted or rejected) can no longer be edited.
func (s *QuotationService) Upsert(ctx context.Context, jobID uuid.UUID, req *domain.UpsertQuotationRequest) (*domain.Quotation, error) {
	if _, err := checkPolicy(ctx, policy.ActionUpdate, policy.EntityQuotation); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}

	quotation, err := s.quotations.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if quotation == nil {
		quotation = &domain.Quotation{
			JobID:   jobID,
			Status:  domain.QuotationNotCreated,
			Amount:  req.Amount,
			FileURL: req.FileURL,
			Notes:   req.Notes,
		}
		if err := s.quotations.Create(ctx, quotation); err != nil {
			return nil, err
		}
		return quotation, nil
	}

	if quotation.Status.IsResolved() {
		return nil, fmt.Errorf("%w: quotation is already %s", ErrConflict, quotation.Status)
	}

	quotation.Amount = req.Amount
	quotation.FileURL = req.FileURL
	quotation.Notes = req.Notes
	if err := s.quotations.Update(ctx, quotation); err != nil {
		return nil, err
	}
	return quotation, nil
}

// Send marks the quotation as sent to the customer
func (s *QuotationService) Send(ctx context.Context, jobID uuid.UUID) (*domain.Quotation, error) {
	if _, err := checkPolicy(ctx, policy.ActionUpdate, policy.EntityQuotation); err != nil {
		return nil, err
	}

	quotation, err := s.quotations.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, fmt.Errorf("%w: no quotation for job %s", ErrNotFound, jobID)
	}
	if quotation.Status != domain.QuotationNotCreated {
		return nil, fmt.Errorf("%w: quotation is already %s", ErrConflict, quotation.Status)
	}
	if quotation.Amount <= 0 && quotation.FileURL == "" {
		return nil, fmt.Errorf("%w: quotation needs an amount or an attached file before sending", ErrInvalidInput)
	}

	now := time.Now()
	quotation.Status = domain.QuotationSent
	quotation.SentDate = &now
	if err := s.quotations.Update(ctx, quotation); err != nil {
		return nil, err
	}

	s.logger.Info("quotation sent",
		zap.String("job_id", jobID.String()),
		zap.Float64("amount", quotation.Amount))
	return quotation, nil
}

// Accept records the customer's acceptance. The job's estimated total
// is filled from the quotation when it was never set; an existing
// divergent total is reported as a warning, never overwritten.
func (s *QuotationService) Accept(ctx context.Context, jobID uuid.UUID, req *domain.QuotationResponseRequest) (*domain.Quotation, []string, error) {
	quotation, err := s.resolve(ctx, jobID, domain.QuotationAccepted, req.Notes)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if job.TotalAmount == nil {
		if err := s.jobs.UpdateTotalAmount(ctx, jobID, quotation.Amount); err != nil {
			return nil, nil, err
		}
	} else if *job.TotalAmount != quotation.Amount {
		warnings = append(warnings,
			fmt.Sprintf("job amount %.2f diverges from accepted quotation %.2f", *job.TotalAmount, quotation.Amount))
	}

	return quotation, warnings, nil
}

// Reject records the customer's rejection
func (s *QuotationService) Reject(ctx context.Context, jobID uuid.UUID, req *domain.QuotationResponseRequest) (*domain.Quotation, error) {
	return s.resolve(ctx, jobID, domain.QuotationRejected, req.Notes)
}

func (s *QuotationService) resolve(ctx context.Context, jobID uuid.UUID, status domain.QuotationStatus, notes string) (*domain.Quotation, error) {
	if _, err := checkPolicy(ctx, policy.ActionUpdate, policy.EntityQuotation); err != nil {
		return nil, err
	}

	quotation, err := s.quotations.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, fmt.Errorf("%w: no quotation for job %s", ErrNotFound, jobID)
	}
	if quotation.Status != domain.QuotationSent {
		return nil, fmt.Errorf("%w: only a sent quotation can be %s, current status is %s", ErrConflict, status, quotation.Status)
	}

	now := time.Now()
	quotation.Status = status
	quotation.ResponseDate = &now
	if notes != "" {
		quotation.Notes = notes
	}
	if err := s.quotations.Update(ctx, quotation); err != nil {
		return nil, err
	}

	s.logger.Info("quotation resolved",
		zap.String("job_id", jobID.String()),
		zap.String("status", string(status)))
	return quotation, nil
}
