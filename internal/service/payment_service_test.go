package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"github.com/sainam-co/jobtrack-api/internal/service"
	"github.com/sainam-co/jobtrack-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newPaymentService(t *testing.T) (*service.PaymentService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := service.NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewJobRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func fivePhaseSchedule() *domain.CreatePaymentScheduleRequest {
	return &domain.CreatePaymentScheduleRequest{
		Phases: []domain.PaymentPhaseInput{
			{Phase: 1, Amount: 30000, DueDate: "2024-06-01"},
			{Phase: 2, Amount: 40000, DueDate: "2024-07-01"},
			{Phase: 3, Amount: 40000, DueDate: "2024-08-01"},
			{Phase: 4, Amount: 30000, DueDate: "2024-09-01"},
			{Phase: 5, Amount: 10000, DueDate: "2024-10-01"},
		},
	}
}

func TestPaymentService_CreateSchedule(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := testutil.AsAdmin(context.Background())
	customer := testutil.CreateTestCustomer(t, db, "Schedule Customer")

	t.Run("creates five phases", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-501", domain.StatusApproved)

		phases, warnings, err := svc.CreateSchedule(ctx, job.ID, fivePhaseSchedule())
		require.NoError(t, err)
		require.Len(t, phases, 5)
		assert.Empty(t, warnings)
		for i, p := range phases {
			assert.Equal(t, i+1, p.Phase)
			assert.Equal(t, domain.PaymentPending, p.Status)
		}
	})

	t.Run("warns on amount mismatch", func(t *testing.T) {
		amount := 200000.0
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-502", domain.StatusApproved)
		require.NoError(t, db.Model(job).Update("total_amount", amount).Error)

		// schedule totals 150000 against a 200000 job
		_, warnings, err := svc.CreateSchedule(ctx, job.ID, fivePhaseSchedule())
		require.NoError(t, err)
		assert.NotEmpty(t, warnings)
	})

	t.Run("rejects duplicate phase numbers", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-503", domain.StatusApproved)
		_, _, err := svc.CreateSchedule(ctx, job.ID, &domain.CreatePaymentScheduleRequest{
			Phases: []domain.PaymentPhaseInput{
				{Phase: 1, Amount: 100, DueDate: "2024-06-01"},
				{Phase: 1, Amount: 200, DueDate: "2024-07-01"},
			},
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("replaces an unpaid schedule", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-504", domain.StatusApproved)
		_, _, err := svc.CreateSchedule(ctx, job.ID, fivePhaseSchedule())
		require.NoError(t, err)

		phases, _, err := svc.CreateSchedule(ctx, job.ID, &domain.CreatePaymentScheduleRequest{
			Phases: []domain.PaymentPhaseInput{
				{Phase: 1, Amount: 150000, DueDate: "2024-06-01"},
			},
		})
		require.NoError(t, err)
		assert.Len(t, phases, 1)
	})

	t.Run("refuses to replace a schedule with paid phases", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-505", domain.StatusApproved)
		_, _, err := svc.CreateSchedule(ctx, job.ID, fivePhaseSchedule())
		require.NoError(t, err)

		_, err = svc.MarkPaid(ctx, job.ID, 1, &domain.MarkPaymentPaidRequest{PaidDate: "2024-06-01"})
		require.NoError(t, err)

		_, _, err = svc.CreateSchedule(ctx, job.ID, fivePhaseSchedule())
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("unknown job", func(t *testing.T) {
		_, _, err := svc.CreateSchedule(ctx, uuid.New(), fivePhaseSchedule())
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("owner may not create schedules", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-506", domain.StatusApproved)
		_, _, err := svc.CreateSchedule(testutil.AsOwner(context.Background()), job.ID, fivePhaseSchedule())
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})
}

func TestPaymentService_MarkPaid(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := testutil.AsAdmin(context.Background())
	customer := testutil.CreateTestCustomer(t, db, "MarkPaid Customer")
	job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-601", domain.StatusInProgress)

	_, _, err := svc.CreateSchedule(ctx, job.ID, fivePhaseSchedule())
	require.NoError(t, err)

	t.Run("records payment with date", func(t *testing.T) {
		paid, err := svc.MarkPaid(ctx, job.ID, 1, &domain.MarkPaymentPaidRequest{
			PaidDate: "2024-06-02",
			SlipURL:  "https://files.example.com/slip-1.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPaid, paid.Status)
		require.NotNil(t, paid.PaidDate)
		assert.Equal(t, "2024-06-02", paid.PaidDate.Format("2006-01-02"))
		assert.Equal(t, "https://files.example.com/slip-1.jpg", paid.SlipURL)
	})

	t.Run("already paid conflicts", func(t *testing.T) {
		_, err := svc.MarkPaid(ctx, job.ID, 1, &domain.MarkPaymentPaidRequest{PaidDate: "2024-06-03"})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("bad date is invalid input", func(t *testing.T) {
		_, err := svc.MarkPaid(ctx, job.ID, 2, &domain.MarkPaymentPaidRequest{PaidDate: "02/06/2024"})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("unknown phase", func(t *testing.T) {
		_, err := svc.MarkPaid(ctx, job.ID, 9, &domain.MarkPaymentPaidRequest{PaidDate: "2024-06-02"})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestPaymentService_Summary(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := testutil.AsAdmin(context.Background())
	customer := testutil.CreateTestCustomer(t, db, "Summary Customer")
	job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-701", domain.StatusInProgress)

	_, _, err := svc.CreateSchedule(ctx, job.ID, fivePhaseSchedule())
	require.NoError(t, err)

	_, err = svc.MarkPaid(ctx, job.ID, 1, &domain.MarkPaymentPaidRequest{PaidDate: "2024-06-02"})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 150000.0, summary.TotalAmount)
	assert.Equal(t, 30000.0, summary.PaidAmount)
	assert.Equal(t, 120000.0, summary.PendingAmount)
	assert.Equal(t, 0.0, summary.OverdueAmount)
	assert.InDelta(t, 20.0, summary.ProgressPercent, 0.001)
	assert.Len(t, summary.Phases, 5)
}

func TestPaymentService_SweepOverdue(t *testing.T) {
	svc, db := newPaymentService(t)
	ctx := testutil.AsAdmin(context.Background())
	customer := testutil.CreateTestCustomer(t, db, "Overdue Customer")
	job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-801", domain.StatusInProgress)

	_, _, err := svc.CreateSchedule(ctx, job.ID, fivePhaseSchedule())
	require.NoError(t, err)

	_, err = svc.MarkPaid(ctx, job.ID, 1, &domain.MarkPaymentPaidRequest{PaidDate: "2024-06-02"})
	require.NoError(t, err)

	// phases 2 and 3 are past due, 4 and 5 are not
	cutoff := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	flagged, err := svc.SweepOverdue(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), flagged)

	summary, err := svc.Summary(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 80000.0, summary.OverdueAmount)
	// overdue is still owed
	assert.Equal(t, 120000.0, summary.PendingAmount)
	assert.Equal(t, 30000.0, summary.PaidAmount)

	t.Run("second sweep is a no-op", func(t *testing.T) {
		flagged, err := svc.SweepOverdue(context.Background(), cutoff)
		require.NoError(t, err)
		assert.Zero(t, flagged)
	})

	t.Run("paid phases are never flagged", func(t *testing.T) {
		phase, err := svc.MarkPaid(ctx, job.ID, 4, &domain.MarkPaymentPaidRequest{PaidDate: "2024-09-01"})
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPaid, phase.Status)

		flagged, err := svc.SweepOverdue(context.Background(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, int64(1), flagged) // only phase 5
	})
}
