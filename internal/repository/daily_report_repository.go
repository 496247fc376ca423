package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"gorm.io/gorm"
)

// DailyReportRepository handles database operations for daily reports.
// Reports are append-only; there are no update or delete operations.
type DailyReportRepository struct {
	db *gorm.DB
}

// NewDailyReportRepository creates a new DailyReportRepository
func NewDailyReportRepository(db *gorm.DB) *DailyReportRepository {
	return &DailyReportRepository{db: db}
}

// Create inserts a report together with its expenses in one transaction
func (r *DailyReportRepository) Create(ctx context.Context, report *domain.DailyReport) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expenses := report.Expenses
		report.Expenses = nil
		if err := tx.Create(report).Error; err != nil {
			return fmt.Errorf("failed to create daily report: %w", err)
		}
		for i := range expenses {
			expenses[i].JobID = report.JobID
			expenses[i].DailyReportID = &report.ID
			if err := tx.Create(&expenses[i]).Error; err != nil {
				return fmt.Errorf("failed to create report expense: %w", err)
			}
		}
		report.Expenses = expenses
		return nil
	})
}

// ListByJob returns a job's reports, newest first, with their expenses
func (r *DailyReportRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.DailyReport, error) {
	var reports []domain.DailyReport
	err := r.db.WithContext(ctx).
		Preload("Expenses").
		Where("job_id = ?", jobID).
		Order("date DESC, created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list daily reports: %w", err)
	}
	return reports, nil
}
