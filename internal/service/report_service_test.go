package service_test

import (
	"context"
	"testing"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"github.com/sainam-co/jobtrack-api/internal/service"
	"github.com/sainam-co/jobtrack-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newReportService(t *testing.T) (*service.ReportService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := service.NewReportService(
		repository.NewDailyReportRepository(db),
		repository.NewExpenseRepository(db),
		repository.NewJobRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func TestReportService_CreateReport(t *testing.T) {
	svc, db := newReportService(t)
	ctx := testutil.AsForeman(context.Background())
	customer := testutil.CreateTestCustomer(t, db, "Report Customer")

	t.Run("foreman submits a report with expenses", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-971", domain.StatusInProgress)

		report, err := svc.CreateReport(ctx, job.ID, &domain.CreateDailyReportRequest{
			Date:            "2024-07-15",
			WorkDescription: "laid the base layer on the north side",
			Images:          []string{"https://files.example.com/1.jpg"},
			Expenses: []domain.CreateExpenseRequest{
				{Description: "gravel", Amount: 2500, Date: "2024-07-15", Category: "materials"},
			},
		})
		require.NoError(t, err)
		assert.NotNil(t, report.ReportedBy)
		assert.Len(t, report.Images, 1)
		require.Len(t, report.Expenses, 1)
		assert.Equal(t, job.ID, report.Expenses[0].JobID)

		reports, err := svc.ListReports(ctx, job.ID)
		require.NoError(t, err)
		assert.Len(t, reports, 1)
	})

	t.Run("terminal jobs reject reports", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-972", domain.StatusCompleted)
		_, err := svc.CreateReport(ctx, job.ID, &domain.CreateDailyReportRequest{
			Date:            "2024-07-15",
			WorkDescription: "late report",
		})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("bad date", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-973", domain.StatusInProgress)
		_, err := svc.CreateReport(ctx, job.ID, &domain.CreateDailyReportRequest{
			Date:            "15/07/2024",
			WorkDescription: "x",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("owner may not report", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-974", domain.StatusInProgress)
		_, err := svc.CreateReport(testutil.AsOwner(context.Background()), job.ID, &domain.CreateDailyReportRequest{
			Date:            "2024-07-15",
			WorkDescription: "x",
		})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})
}

func TestReportService_Expenses(t *testing.T) {
	svc, db := newReportService(t)
	ctx := testutil.AsForeman(context.Background())
	customer := testutil.CreateTestCustomer(t, db, "Expense Customer")
	job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-981", domain.StatusInProgress)

	t.Run("records a standalone expense", func(t *testing.T) {
		expense, err := svc.CreateExpense(ctx, job.ID, &domain.CreateExpenseRequest{
			Description: "fuel",
			Amount:      800,
			Date:        "2024-07-16",
			Category:    "transport",
		})
		require.NoError(t, err)
		assert.Equal(t, 800.0, expense.Amount)
		assert.Nil(t, expense.DailyReportID)
	})

	t.Run("negative amount is invalid", func(t *testing.T) {
		_, err := svc.CreateExpense(ctx, job.ID, &domain.CreateExpenseRequest{
			Description: "refund",
			Amount:      -100,
			Date:        "2024-07-16",
			Category:    "misc",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("lists report and standalone expenses together", func(t *testing.T) {
		_, err := svc.CreateReport(ctx, job.ID, &domain.CreateDailyReportRequest{
			Date:            "2024-07-17",
			WorkDescription: "finished edging",
			Expenses: []domain.CreateExpenseRequest{
				{Description: "edging strips", Amount: 1200, Date: "2024-07-17", Category: "materials"},
			},
		})
		require.NoError(t, err)

		expenses, err := svc.ListExpenses(ctx, job.ID)
		require.NoError(t, err)
		assert.Len(t, expenses, 2)
	})
}
