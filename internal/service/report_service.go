package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/policy"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"go.uber.org/zap"
)

// ReportService handles the foreman's daily reports and standalone
// expenses. Reports are append-only: there is deliberately no update
// or delete path, corrections are submitted as new reports.
type ReportService struct {
	reports  *repository.DailyReportRepository
	expenses *repository.ExpenseRepository
	jobs     *repository.JobRepository
	logger   *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	reports *repository.DailyReportRepository,
	expenses *repository.ExpenseRepository,
	jobs *repository.JobRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reports:  reports,
		expenses: expenses,
		jobs:     jobs,
		logger:   logger,
	}
}

// CreateReport submits a daily report with its expenses
func (s *ReportService) CreateReport(ctx context.Context, jobID uuid.UUID, req *domain.CreateDailyReportRequest) (*domain.DailyReport, error) {
	actor, err := checkPolicy(ctx, policy.ActionCreate, policy.EntityDailyReport)
	if err != nil {
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

	report := &domain.DailyReport{
		JobID:           jobID,
		ReportedBy:      &actor.UserID,
		Date:            date,
		WorkDescription: req.WorkDescription,
		Images:          pq.StringArray(req.Images),
	}
	for _, in := range req.Expenses {
		expense, err := buildExpense(jobID, &in)
		if err != nil {
			return nil, err
		}
		report.Expenses = append(report.Expenses, *expense)
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("daily report submitted",
		zap.String("job_id", jobID.String()),
		zap.String("date", req.Date),
		zap.Int("images", len(req.Images)),
		zap.Int("expenses", len(req.Expenses)))
	return report, nil
}

// ListReports returns a job's daily reports, newest first
func (s *ReportService) ListReports(ctx context.Context, jobID uuid.UUID) ([]domain.DailyReport, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityDailyReport); err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}
	return s.reports.ListByJob(ctx, jobID)
}

// CreateExpense records a cost directly against a job
func (s *ReportService) CreateExpense(ctx context.Context, jobID uuid.UUID, req *domain.CreateExpenseRequest) (*domain.Expense, error) {
	if _, err := checkPolicy(ctx, policy.ActionCreate, policy.EntityExpense); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}

	expense, err := buildExpense(jobID, req)
	if err != nil {
		return nil, err
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses returns all expenses of a job
func (s *ReportService) ListExpenses(ctx context.Context, jobID uuid.UUID) ([]domain.Expense, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityExpense); err != nil {
		return nil, err
	}
	return s.expenses.ListByJob(ctx, jobID)
}

func buildExpense(jobID uuid.UUID, req *domain.CreateExpenseRequest) (*domain.Expense, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expense date %q", ErrInvalidInput, req.Date)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: expense amount must not be negative", ErrInvalidInput)
	}
	return &domain.Expense{
		JobID:       jobID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		Category:    req.Category,
		ReceiptURL:  req.ReceiptURL,
	}, nil
}
