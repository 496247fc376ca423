package repository_test

import (
	"context"
	"testing"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"github.com/sainam-co/jobtrack-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRepository_Update_VersionGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewJobRepository(db)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, db, "Guard Customer")
	job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-021", domain.StatusPending)

	t.Run("matching version succeeds and bumps", func(t *testing.T) {
		job.Notes = "first write"
		require.NoError(t, repo.Update(ctx, job))
		assert.Equal(t, 2, job.Version)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		stale := *job
		stale.Version = 1
		stale.Notes = "stale write"
		err := repo.Update(ctx, &stale)
		assert.ErrorIs(t, err, repository.ErrVersionConflict)

		fresh, err := repo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, "first write", fresh.Notes)
		assert.Equal(t, 2, fresh.Version)
	})
}

func TestJobRepository_UpdateStatus_VersionGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewJobRepository(db)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, db, "Status Customer")
	job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-022", domain.StatusPending)

	require.NoError(t, repo.UpdateStatus(ctx, job, domain.StatusMeasuring))
	assert.Equal(t, domain.StatusMeasuring, job.Status)
	assert.Equal(t, 2, job.Version)

	stale := *job
	stale.Version = 1
	err := repo.UpdateStatus(ctx, &stale, domain.StatusQuoting)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)
}

func TestJobRepository_List_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewJobRepository(db)
	ctx := context.Background()

	malee := testutil.CreateTestCustomer(t, db, "Malee Garden")
	somsak := &domain.Customer{Name: "Somsak Resort", Phone: "022223333"}
	require.NoError(t, db.Create(somsak).Error)

	testutil.CreateTestJob(t, db, malee.ID, "JOB-2024-031", domain.StatusPending)
	testutil.CreateTestJob(t, db, somsak.ID, "JOB-2024-032", domain.StatusPending)

	t.Run("by customer name, case-insensitive", func(t *testing.T) {
		jobs, total, err := repo.List(ctx, domain.JobListFilter{Search: "MALEE"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, jobs, 1)
		assert.Equal(t, "JOB-2024-031", jobs[0].Code)
	})

	t.Run("by customer phone", func(t *testing.T) {
		_, total, err := repo.List(ctx, domain.JobListFilter{Search: "022223333"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("by job code fragment", func(t *testing.T) {
		_, total, err := repo.List(ctx, domain.JobListFilter{Search: "2024-032"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("no match", func(t *testing.T) {
		jobs, total, err := repo.List(ctx, domain.JobListFilter{Search: "nothing-here"})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, jobs)
	})
}

func TestJobRepository_GetByID_PreloadsOwnedEntities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewJobRepository(db)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, db, "Preload Customer")
	job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-041", domain.StatusInProgress)

	require.NoError(t, db.Create(&domain.Quotation{
		JobID: job.ID, Status: domain.QuotationAccepted, Amount: 150000,
	}).Error)
	for phase := 2; phase >= 1; phase-- {
		require.NoError(t, db.Create(&domain.PaymentPhase{
			JobID: job.ID, Phase: phase, Amount: 1000, Status: domain.PaymentPending,
		}).Error)
	}

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "Preload Customer", got.Customer.Name)
	require.NotNil(t, got.Quotation)
	require.Len(t, got.Payments, 2)
	// phases come back in phase order regardless of insert order
	assert.Equal(t, 1, got.Payments[0].Phase)
	assert.Equal(t, 2, got.Payments[1].Phase)
}
