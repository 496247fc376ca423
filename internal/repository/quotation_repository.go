package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"gorm.io/gorm"
)

// QuotationRepository handles database operations for quotations.
// A job has at most one quotation.
type QuotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository creates a new QuotationRepository
func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// GetByJobID retrieves a job's quotation if one exists
func (r *QuotationRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&quotation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	return &quotation, nil
}

// Create inserts a new quotation
func (r *QuotationRepository) Create(ctx context.Context, quotation *domain.Quotation) error {
	if err := r.db.WithContext(ctx).Create(quotation).Error; err != nil {
		return fmt.Errorf("failed to create quotation: %w", err)
	}
	return nil
}

// Update saves changes to a quotation
func (r *QuotationRepository) Update(ctx context.Context, quotation *domain.Quotation) error {
	if err := r.db.WithContext(ctx).Save(quotation).Error; err != nil {
		return fmt.Errorf("failed to update quotation: %w", err)
	}
	return nil
}
