package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"gorm.io/gorm"
)

// ExpenseRepository handles database operations for expenses
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create inserts a new expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	if err := r.db.WithContext(ctx).Create(expense).Error; err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// ListByJob returns a job's expenses, oldest first
func (r *ExpenseRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.Expense, error) {
	var expenses []domain.Expense
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("date ASC, created_at ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// SumByJob totals a job's expenses
func (r *ExpenseRepository) SumByJob(ctx context.Context, jobID uuid.UUID) (float64, error) {
	var sum *float64
	err := r.db.WithContext(ctx).Model(&domain.Expense{}).
		Where("job_id = ?", jobID).
		Select("SUM(amount)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum expenses: %w", err)
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
