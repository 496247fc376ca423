package service_test

import (
	"context"
	"fmt"
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

func newJobService(t *testing.T) (*service.JobService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()
	codes := service.NewJobCodeService(repository.NewJobCodeRepository(db), log)
	svc := service.NewJobService(
		repository.NewJobRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewJobStatusHistoryRepository(db),
		repository.NewChecklistRepository(db),
		codes,
		log,
	)
	return svc, db
}

func TestJobService_Create(t *testing.T) {
	svc, db := newJobService(t)
	ctx := testutil.AsAdmin(context.Background())

	t.Run("with inline customer", func(t *testing.T) {
		job, err := svc.Create(ctx, &domain.CreateJobRequest{
			Customer: &domain.CreateCustomerRequest{Name: "Khun Malee", Phone: "0898765432"},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, job.Status)
		assert.Equal(t, fmt.Sprintf("JOB-%d-001", time.Now().Year()), job.Code)
		assert.Equal(t, 1, job.Version)
		require.NotNil(t, job.Customer)
		assert.Equal(t, "Khun Malee", job.Customer.Name)
	})

	t.Run("with existing customer", func(t *testing.T) {
		customer := testutil.CreateTestCustomer(t, db, "Returning Customer")
		job, err := svc.Create(ctx, &domain.CreateJobRequest{CustomerID: &customer.ID})
		require.NoError(t, err)
		assert.Equal(t, customer.ID, job.CustomerID)
		assert.Equal(t, fmt.Sprintf("JOB-%d-002", time.Now().Year()), job.Code)
	})

	t.Run("unknown customer", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.Create(ctx, &domain.CreateJobRequest{CustomerID: &missing})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("neither reference nor inline customer", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateJobRequest{})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("foreman may not create jobs", func(t *testing.T) {
		_, err := svc.Create(testutil.AsForeman(context.Background()), &domain.CreateJobRequest{
			Customer: &domain.CreateCustomerRequest{Name: "X", Phone: "1"},
		})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("no actor", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &domain.CreateJobRequest{
			Customer: &domain.CreateCustomerRequest{Name: "X", Phone: "1"},
		})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}

func TestJobService_Transition(t *testing.T) {
	svc, db := newJobService(t)
	ctx := testutil.AsAdmin(context.Background())
	customer := testutil.CreateTestCustomer(t, db, "Transition Customer")

	t.Run("walks the happy path", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-101", domain.StatusPending)

		for _, next := range []domain.JobStatus{
			domain.StatusMeasuring, domain.StatusQuoting, domain.StatusApproved,
			domain.StatusInProgress, domain.StatusCompleted,
		} {
			updated, _, err := svc.Transition(ctx, job.ID, &domain.TransitionJobRequest{Status: next})
			require.NoError(t, err, "transition to %s", next)
			assert.Equal(t, next, updated.Status)
		}

		history, err := svc.History(ctx, job.ID)
		require.NoError(t, err)
		require.Len(t, history, 5)
		assert.Equal(t, domain.StatusPending, history[0].FromStatus)
		assert.Equal(t, domain.StatusMeasuring, history[0].ToStatus)
		assert.NotNil(t, history[0].ChangedBy)
	})

	t.Run("rejects an illegal edge", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-102", domain.StatusPending)

		_, _, err := svc.Transition(ctx, job.ID, &domain.TransitionJobRequest{Status: domain.StatusCompleted})
		assert.ErrorIs(t, err, service.ErrInvalidTransition)

		unchanged, err := svc.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, unchanged.Status)

		history, err := svc.History(ctx, job.ID)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-103", domain.StatusPending)
		_, _, err := svc.Transition(ctx, job.ID, &domain.TransitionJobRequest{Status: "archived"})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("terminal statuses stay terminal", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-104", domain.StatusCancelled)
		_, _, err := svc.Transition(ctx, job.ID, &domain.TransitionJobRequest{Status: domain.StatusPending})
		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})

	t.Run("entering in-progress seeds the checklist", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-105", domain.StatusApproved)

		updated, _, err := svc.Transition(ctx, job.ID, &domain.TransitionJobRequest{Status: domain.StatusInProgress})
		require.NoError(t, err)
		require.Len(t, updated.Checklist, len(domain.DefaultChecklistTasks))
		assert.Equal(t, 1, updated.Checklist[0].Position)
		assert.False(t, updated.Checklist[0].Completed)
	})

	t.Run("quoting without appointment warns but proceeds", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-106", domain.StatusMeasuring)

		updated, warnings, err := svc.Transition(ctx, job.ID, &domain.TransitionJobRequest{Status: domain.StatusQuoting})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusQuoting, updated.Status)
		assert.NotEmpty(t, warnings)
	})

	t.Run("foreman may not transition", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-107", domain.StatusPending)
		_, _, err := svc.Transition(testutil.AsForeman(context.Background()), job.ID,
			&domain.TransitionJobRequest{Status: domain.StatusMeasuring})
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})
}

func TestJobService_Update(t *testing.T) {
	svc, db := newJobService(t)
	ctx := testutil.AsAdmin(context.Background())
	customer := testutil.CreateTestCustomer(t, db, "Update Customer")

	t.Run("bumps the version", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-201", domain.StatusPending)

		amount := 50000.0
		notes := "talked to the customer"
		updated, err := svc.Update(ctx, job.ID, &domain.UpdateJobRequest{
			TotalAmount: &amount,
			Notes:       &notes,
			Version:     1,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Version)
		require.NotNil(t, updated.TotalAmount)
		assert.Equal(t, 50000.0, *updated.TotalAmount)
		assert.Equal(t, notes, updated.Notes)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-202", domain.StatusPending)

		notes := "first writer"
		_, err := svc.Update(ctx, job.ID, &domain.UpdateJobRequest{Notes: &notes, Version: 1})
		require.NoError(t, err)

		notes = "second writer with stale read"
		_, err = svc.Update(ctx, job.ID, &domain.UpdateJobRequest{Notes: &notes, Version: 1})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("unknown job", func(t *testing.T) {
		notes := "x"
		_, err := svc.Update(ctx, uuid.New(), &domain.UpdateJobRequest{Notes: &notes, Version: 1})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestJobService_Delete(t *testing.T) {
	svc, db := newJobService(t)
	ctx := testutil.AsAdmin(context.Background())
	customer := testutil.CreateTestCustomer(t, db, "Delete Customer")
	job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-301", domain.StatusInProgress)

	require.NoError(t, db.Create(&domain.PaymentPhase{
		JobID: job.ID, Phase: 1, Amount: 1000, DueDate: time.Now(), Status: domain.PaymentPending,
	}).Error)
	require.NoError(t, db.Create(&domain.ChecklistItem{
		JobID: job.ID, Task: "task", Position: 1,
	}).Error)

	require.NoError(t, svc.Delete(ctx, job.ID))

	_, err := svc.Get(ctx, job.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	var phaseCount, itemCount int64
	db.Model(&domain.PaymentPhase{}).Where("job_id = ?", job.ID).Count(&phaseCount)
	db.Model(&domain.ChecklistItem{}).Where("job_id = ?", job.ID).Count(&itemCount)
	assert.Zero(t, phaseCount)
	assert.Zero(t, itemCount)

	// the customer is shared by reference and survives
	var customerCount int64
	db.Model(&domain.Customer{}).Where("id = ?", customer.ID).Count(&customerCount)
	assert.Equal(t, int64(1), customerCount)
}

func TestJobService_List(t *testing.T) {
	svc, db := newJobService(t)
	ctx := testutil.AsAdmin(context.Background())

	malee := testutil.CreateTestCustomer(t, db, "Malee Garden")
	somsak := testutil.CreateTestCustomer(t, db, "Somsak Resort")
	testutil.CreateTestJob(t, db, malee.ID, "JOB-2024-401", domain.StatusPending)
	testutil.CreateTestJob(t, db, malee.ID, "JOB-2024-402", domain.StatusQuoting)
	testutil.CreateTestJob(t, db, somsak.ID, "JOB-2024-403", domain.StatusQuoting)

	t.Run("all", func(t *testing.T) {
		jobs, total, err := svc.List(ctx, domain.JobListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, jobs, 3)
	})

	t.Run("by status", func(t *testing.T) {
		status := domain.StatusQuoting
		jobs, total, err := svc.List(ctx, domain.JobListFilter{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, j := range jobs {
			assert.Equal(t, domain.StatusQuoting, j.Status)
		}
	})

	t.Run("unknown status filter", func(t *testing.T) {
		status := domain.JobStatus("archived")
		_, _, err := svc.List(ctx, domain.JobListFilter{Status: &status})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("search by customer name", func(t *testing.T) {
		jobs, total, err := svc.List(ctx, domain.JobListFilter{Search: "somsak"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, jobs, 1)
		assert.Equal(t, "JOB-2024-403", jobs[0].Code)
	})

	t.Run("search by code", func(t *testing.T) {
		_, total, err := svc.List(ctx, domain.JobListFilter{Search: "2024-401"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})
}
