package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"gorm.io/gorm"
)

// JobStatusHistoryRepository handles the append-only transition audit trail
type JobStatusHistoryRepository struct {
	db *gorm.DB
}

// NewJobStatusHistoryRepository creates a new JobStatusHistoryRepository
func NewJobStatusHistoryRepository(db *gorm.DB) *JobStatusHistoryRepository {
	return &JobStatusHistoryRepository{db: db}
}

// RecordTransition appends a transition record
func (r *JobStatusHistoryRepository) RecordTransition(ctx context.Context, entry *domain.JobStatusHistory) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record status transition: %w", err)
	}
	return nil
}

// ListByJob returns a job's transitions, oldest first
func (r *JobStatusHistoryRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.JobStatusHistory, error) {
	var history []domain.JobStatusHistory
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	return history, nil
}
