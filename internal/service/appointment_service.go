package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/policy"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppointmentService manages the single site-measurement appointment a
// job may carry
type AppointmentService struct {
	appointments *repository.AppointmentRepository
	jobs         *repository.JobRepository
	logger       *zap.Logger
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(
	appointments *repository.AppointmentRepository,
	jobs *repository.JobRepository,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		jobs:         jobs,
		logger:       logger,
	}
}

// Get retrieves a job's appointment
func (s *AppointmentService) Get(ctx context.Context, jobID uuid.UUID) (*domain.Appointment, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityAppointment); err != nil {
		return nil, err
	}
	appt, err := s.appointments.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, fmt.Errorf("%w: no appointment for job %s", ErrNotFound, jobID)
	}
	return appt, nil
}

// Upsert creates or replaces a job's appointment
func (s *AppointmentService) Upsert(ctx context.Context, jobID uuid.UUID, req *domain.UpsertAppointmentRequest) (*domain.Appointment, error) {
	if _, err := checkPolicy(ctx, policy.ActionCreate, policy.EntityAppointment); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}
	if job.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: job %s is %s", ErrConflict, job.Code, job.Status)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, req.Date)
	}

	appt := &domain.Appointment{
		JobID:    jobID,
		Date:     date,
		Time:     req.Time,
		Address:  req.Address,
		Distance: req.Distance,
		Fee:      req.Fee,
		Notes:    req.Notes,
	}
	if err := s.appointments.Upsert(ctx, appt); err != nil {
		return nil, err
	}

	s.logger.Info("appointment saved",
		zap.String("job_id", jobID.String()),
		zap.String("date", req.Date))
	return appt, nil
}

// Delete removes a job's appointment
func (s *AppointmentService) Delete(ctx context.Context, jobID uuid.UUID) error {
	if _, err := checkPolicy(ctx, policy.ActionDelete, policy.EntityAppointment); err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, jobID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: no appointment for job %s", ErrNotFound, jobID)
		}
		return err
	}
	return nil
}
