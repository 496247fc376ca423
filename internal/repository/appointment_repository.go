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

// AppointmentRepository handles database operations for site
// measurement appointments. A job has at most one appointment.
type AppointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new AppointmentRepository
func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// GetByJobID retrieves a job's appointment if one exists
func (r *AppointmentRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&appt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appt, nil
}

// Upsert creates the job's appointment or replaces its fields
func (r *AppointmentRepository) Upsert(ctx context.Context, appt *domain.Appointment) error {
	existing, err := r.GetByJobID(ctx, appt.JobID)
	if err != nil {
		return err
	}
	if existing == nil {
		if err := r.db.WithContext(ctx).Create(appt).Error; err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		return nil
	}

	appt.ID = existing.ID
	appt.CreatedAt = existing.CreatedAt
	if err := r.db.WithContext(ctx).Save(appt).Error; err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

// Delete removes a job's appointment
func (r *AppointmentRepository) Delete(ctx context.Context, jobID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("job_id = ?", jobID).Delete(&domain.Appointment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete appointment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountOnDate returns how many appointments fall on the given calendar day
func (r *AppointmentRepository) CountOnDate(ctx context.Context, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Appointment{}).
		Where("date >= ? AND date < ?", start, end).
		Count(&count).Error
	return count, err
}
