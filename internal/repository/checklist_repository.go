package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"gorm.io/gorm"
)

// ChecklistRepository handles database operations for checklist items
type ChecklistRepository struct {
	db *gorm.DB
}

// NewChecklistRepository creates a new ChecklistRepository
func NewChecklistRepository(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// SeedDefaults creates the default checklist for a job. Does nothing
// if the job already has items.
func (r *ChecklistRepository) SeedDefaults(ctx context.Context, jobID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.ChecklistItem{}).Where("job_id = ?", jobID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count checklist items: %w", err)
		}
		if count > 0 {
			return nil
		}
		for i, task := range domain.DefaultChecklistTasks {
			item := domain.ChecklistItem{
				JobID:    jobID,
				Task:     task,
				Position: i + 1,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to seed checklist item: %w", err)
			}
		}
		return nil
	})
}

// ListByJob returns a job's checklist in position order
func (r *ChecklistRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.ChecklistItem, error) {
	var items []domain.ChecklistItem
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}
	return items, nil
}

// GetByID retrieves a checklist item by ID
func (r *ChecklistRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistItem, error) {
	var item domain.ChecklistItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist item: %w", err)
	}
	return &item, nil
}

// Update saves changes to a checklist item
func (r *ChecklistRepository) Update(ctx context.Context, item *domain.ChecklistItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to update checklist item: %w", err)
	}
	return nil
}
