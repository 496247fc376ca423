package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"github.com/sainam-co/jobtrack-api/internal/service"
	"github.com/sainam-co/jobtrack-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboardService_Stats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewDashboardService(
		repository.NewJobRepository(db),
		repository.NewAppointmentRepository(db),
		zap.NewNop(),
	)
	ctx := testutil.AsOwner(context.Background())
	customer := testutil.CreateTestCustomer(t, db, "Dashboard Customer")

	setAmount := func(job *domain.Job, amount float64) {
		require.NoError(t, db.Model(job).Update("total_amount", amount).Error)
	}

	testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-991", domain.StatusMeasuring)
	testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-992", domain.StatusQuoting)
	quoted := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-993", domain.StatusQuoting)
	setAmount(quoted, 999999)
	inProgress := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-994", domain.StatusInProgress)
	setAmount(inProgress, 150000)
	completed := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-995", domain.StatusCompleted)
	setAmount(completed, 80000)
	testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-996", domain.StatusPendingFollow)

	now := time.Now().UTC()
	require.NoError(t, db.Create(&domain.Appointment{
		JobID:   quoted.ID,
		Date:    time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Time:    "10:00",
		Address: "site address",
	}).Error)

	stats, err := svc.Stats(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TodayAppointments)
	assert.Equal(t, int64(1), stats.MeasuringCount)
	assert.Equal(t, int64(2), stats.QuotingCount)
	assert.Equal(t, int64(1), stats.InProgressCount)
	assert.Equal(t, int64(1), stats.PendingFollowCount)
	// revenue counts committed work only, never open quotes
	assert.Equal(t, 230000.0, stats.TotalRevenue)
	assert.Len(t, stats.RecentJobs, 5)

	t.Run("foreman has no dashboard", func(t *testing.T) {
		_, err := svc.Stats(testutil.AsForeman(context.Background()), now)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})
}
