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

// ErrVersionConflict is returned when an update races another writer
var ErrVersionConflict = errors.New("job was modified by another writer")

// JobRepository handles database operations for jobs
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// GetByID retrieves a job with all sub-entities loaded
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var job domain.Job
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Appointment").
		Preload("Quotation").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("phase ASC")
		}).
		Preload("Expenses", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC, created_at ASC")
		}).
		Preload("DailyReports", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC, created_at DESC")
		}).
		Preload("DailyReports.Expenses").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Checklist", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// List retrieves jobs matching the filter. Search is a case-insensitive
// substring match on job code, customer name or customer phone.
func (r *JobRepository) List(ctx context.Context, filter domain.JobListFilter) ([]domain.Job, int64, error) {
	var jobs []domain.Job
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Job{}).
		Joins("LEFT JOIN customers ON customers.id = jobs.customer_id")

	if filter.Status != nil {
		query = query.Where("jobs.status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(jobs.code) LIKE LOWER(?) OR LOWER(customers.name) LIKE LOWER(?) OR customers.phone LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	err := query.
		Preload("Customer").
		Order("jobs.created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, total, nil
}

// Create inserts a new job
func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// Update persists job field changes guarded by the version column.
// Returns ErrVersionConflict when the stored version no longer matches.
func (r *JobRepository) Update(ctx context.Context, job *domain.Job) error {
	currentVersion := job.Version
	result := r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("id = ? AND version = ?", job.ID, currentVersion).
		Updates(map[string]interface{}{
			"total_amount": job.TotalAmount,
			"notes":        job.Notes,
			"version":      currentVersion + 1,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.db.WithContext(ctx).Model(&domain.Job{}).Where("id = ?", job.ID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrVersionConflict
	}
	job.Version = currentVersion + 1
	return nil
}

// UpdateStatus changes the job status, also version-guarded
func (r *JobRepository) UpdateStatus(ctx context.Context, job *domain.Job, status domain.JobStatus) error {
	currentVersion := job.Version
	result := r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("id = ? AND version = ?", job.ID, currentVersion).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    currentVersion + 1,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update job status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	job.Status = status
	job.Version = currentVersion + 1
	return nil
}

// UpdateTotalAmount sets the job's estimated total
func (r *JobRepository) UpdateTotalAmount(ctx context.Context, jobID uuid.UUID, amount float64) error {
	return r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"total_amount": amount,
			"updated_at":   time.Now(),
		}).Error
}

// Delete removes a job and, through cascades, all owned sub-entities.
// The customer is shared by reference and survives.
func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&domain.Expense{}, &domain.DailyReport{}, &domain.Attachment{},
			&domain.ChecklistItem{}, &domain.PaymentPhase{}, &domain.Quotation{},
			&domain.Appointment{}, &domain.JobStatusHistory{},
		} {
			if err := tx.Where("job_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete job sub-entities: %w", err)
			}
		}

		result := tx.Delete(&domain.Job{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete job: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountByStatus returns the number of jobs in the given status
func (r *JobRepository) CountByStatus(ctx context.Context, status domain.JobStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// SumTotalAmountByStatuses sums estimated totals over jobs in the given statuses
func (r *JobRepository) SumTotalAmountByStatuses(ctx context.Context, statuses []domain.JobStatus) (float64, error) {
	var sum *float64
	err := r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("status IN ?", statuses).
		Select("SUM(total_amount)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum job amounts: %w", err)
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// Recent returns the most recently created jobs
func (r *JobRepository) Recent(ctx context.Context, limit int) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent jobs: %w", err)
	}
	return jobs, nil
}
