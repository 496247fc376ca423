package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/policy"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"go.uber.org/zap"
)

// ChecklistService manages a job's execution checklist. The default
// items are seeded when the job enters execution; items can only be
// toggled, never added or removed through the API.
type ChecklistService struct {
	checklist *repository.ChecklistRepository
	jobs      *repository.JobRepository
	logger    *zap.Logger
}

// NewChecklistService creates a new ChecklistService
func NewChecklistService(
	checklist *repository.ChecklistRepository,
	jobs *repository.JobRepository,
	logger *zap.Logger,
) *ChecklistService {
	return &ChecklistService{
		checklist: checklist,
		jobs:      jobs,
		logger:    logger,
	}
}

// List returns a job's checklist with completion progress
func (s *ChecklistService) List(ctx context.Context, jobID uuid.UUID) (*domain.ChecklistResponse, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityChecklist); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}

	items, err := s.checklist.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	resp := &domain.ChecklistResponse{
		JobID: jobID,
		Items: items,
	}
	if len(items) > 0 {
		var done int
		for _, item := range items {
			if item.Completed {
				done++
			}
		}
		resp.ProgressPercent = float64(done) / float64(len(items)) * 100
	}
	return resp, nil
}

// Toggle sets an item's completion state
func (s *ChecklistService) Toggle(ctx context.Context, jobID, itemID uuid.UUID, completed bool) (*domain.ChecklistItem, error) {
	if _, err := checkPolicy(ctx, policy.ActionUpdate, policy.EntityChecklist); err != nil {
		return nil, err
	}

	item, err := s.checklist.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.JobID != jobID {
		return nil, fmt.Errorf("%w: checklist item %s", ErrNotFound, itemID)
	}

	item.Completed = completed
	if err := s.checklist.Update(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Debug("checklist item toggled",
		zap.String("job_id", jobID.String()),
		zap.String("item_id", itemID.String()),
		zap.Bool("completed", completed))
	return item, nil
}
