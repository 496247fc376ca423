package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"gorm.io/gorm"
)

// PaymentRepository handles database operations for payment phases
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListByJob returns a job's payment phases ordered by phase number
func (r *PaymentRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.PaymentPhase, error) {
	var phases []domain.PaymentPhase
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("phase ASC").
		Find(&phases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment phases: %w", err)
	}
	return phases, nil
}

// GetByJobAndPhase retrieves one installment
func (r *PaymentRepository) GetByJobAndPhase(ctx context.Context, jobID uuid.UUID, phase int) (*domain.PaymentPhase, error) {
	var payment domain.PaymentPhase
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND phase = ?", jobID, phase).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment phase: %w", err)
	}
	return &payment, nil
}

// ReplaceSchedule swaps the job's entire payment schedule in one
// transaction. Paid phases block replacement; the caller checks first.
func (r *PaymentRepository) ReplaceSchedule(ctx context.Context, jobID uuid.UUID, phases []domain.PaymentPhase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", jobID).Delete(&domain.PaymentPhase{}).Error; err != nil {
			return fmt.Errorf("failed to clear payment schedule: %w", err)
		}
		for i := range phases {
			phases[i].JobID = jobID
			if err := tx.Create(&phases[i]).Error; err != nil {
				return fmt.Errorf("failed to create payment phase %d: %w", phases[i].Phase, err)
			}
		}
		return nil
	})
}

// Update saves changes to a payment phase
func (r *PaymentRepository) Update(ctx context.Context, payment *domain.PaymentPhase) error {
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		return fmt.Errorf("failed to update payment phase: %w", err)
	}
	return nil
}

// MarkOverdueBefore flags pending phases whose due date passed.
// Returns the number of phases flipped to overdue.
func (r *PaymentRepository) MarkOverdueBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.PaymentPhase{}).
		Where("status = ? AND paid_date IS NULL AND due_date < ?", domain.PaymentPending, cutoff.Format("2006-01-02")).
		Updates(map[string]interface{}{
			"status":     domain.PaymentOverdue,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark overdue payments: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListPaidSince returns phases paid on or after the given time,
// joined with their job codes for ledger export
func (r *PaymentRepository) ListPaidSince(ctx context.Context, since time.Time) ([]domain.PaymentPhase, error) {
	var phases []domain.PaymentPhase
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at >= ?", domain.PaymentPaid, since).
		Order("updated_at ASC").
		Find(&phases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list paid phases: %w", err)
	}
	return phases, nil
}
