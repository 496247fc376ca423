package service

import (
	"context"
	"time"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/policy"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"go.uber.org/zap"
)

const recentJobsLimit = 5

// DashboardService aggregates the owner/admin overview
type DashboardService struct {
	jobs         *repository.JobRepository
	appointments *repository.AppointmentRepository
	logger       *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	jobs *repository.JobRepository,
	appointments *repository.AppointmentRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		jobs:         jobs,
		appointments: appointments,
		logger:       logger,
	}
}

// Stats computes the dashboard overview. Revenue counts jobs that are
// in progress or completed; quoted-but-unapproved work is excluded.
func (s *DashboardService) Stats(ctx context.Context, now time.Time) (*domain.DashboardStats, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityDashboard); err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{}

	var err error
	if stats.TodayAppointments, err = s.appointments.CountOnDate(ctx, now); err != nil {
		return nil, err
	}
	if stats.MeasuringCount, err = s.jobs.CountByStatus(ctx, domain.StatusMeasuring); err != nil {
		return nil, err
	}
	if stats.QuotingCount, err = s.jobs.CountByStatus(ctx, domain.StatusQuoting); err != nil {
		return nil, err
	}
	if stats.InProgressCount, err = s.jobs.CountByStatus(ctx, domain.StatusInProgress); err != nil {
		return nil, err
	}
	if stats.PendingFollowCount, err = s.jobs.CountByStatus(ctx, domain.StatusPendingFollow); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = s.jobs.SumTotalAmountByStatuses(ctx, []domain.JobStatus{
		domain.StatusInProgress,
		domain.StatusCompleted,
	}); err != nil {
		return nil, err
	}
	if stats.RecentJobs, err = s.jobs.Recent(ctx, recentJobsLimit); err != nil {
		return nil, err
	}

	return stats, nil
}
