package service_test

import (
	"context"
	"testing"

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

func newAppointmentService(t *testing.T) (*service.AppointmentService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := service.NewAppointmentService(
		repository.NewAppointmentRepository(db),
		repository.NewJobRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func TestAppointmentService_Upsert(t *testing.T) {
	svc, db := newAppointmentService(t)
	ctx := testutil.AsAdmin(context.Background())
	customer := testutil.CreateTestCustomer(t, db, "Appointment Customer")

	t.Run("creates then replaces", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-001", domain.StatusMeasuring)

		fee := 500.0
		first, err := svc.Upsert(ctx, job.ID, &domain.UpsertAppointmentRequest{
			Date:    "2024-05-10",
			Time:    "09:30",
			Address: "55 Moo 3, Bang Phli",
			Fee:     &fee,
		})
		require.NoError(t, err)
		assert.Equal(t, "09:30", first.Time)

		second, err := svc.Upsert(ctx, job.ID, &domain.UpsertAppointmentRequest{
			Date:    "2024-05-12",
			Time:    "14:00",
			Address: "55 Moo 3, Bang Phli",
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "14:00", second.Time)

		// still at most one per job
		var count int64
		db.Model(&domain.Appointment{}).Where("job_id = ?", job.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("bad date", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-002", domain.StatusMeasuring)
		_, err := svc.Upsert(ctx, job.ID, &domain.UpsertAppointmentRequest{
			Date: "10-05-2024", Time: "09:00", Address: "x",
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("terminal job rejects appointments", func(t *testing.T) {
		job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-003", domain.StatusCancelled)
		_, err := svc.Upsert(ctx, job.ID, &domain.UpsertAppointmentRequest{
			Date: "2024-05-10", Time: "09:00", Address: "x",
		})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("unknown job", func(t *testing.T) {
		_, err := svc.Upsert(ctx, uuid.New(), &domain.UpsertAppointmentRequest{
			Date: "2024-05-10", Time: "09:00", Address: "x",
		})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestAppointmentService_GetAndDelete(t *testing.T) {
	svc, db := newAppointmentService(t)
	ctx := testutil.AsAdmin(context.Background())
	customer := testutil.CreateTestCustomer(t, db, "Visit Customer")
	job := testutil.CreateTestJob(t, db, customer.ID, "JOB-2024-011", domain.StatusMeasuring)

	t.Run("get without appointment", func(t *testing.T) {
		_, err := svc.Get(ctx, job.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	_, err := svc.Upsert(ctx, job.ID, &domain.UpsertAppointmentRequest{
		Date: "2024-05-10", Time: "09:00", Address: "site",
	})
	require.NoError(t, err)

	t.Run("get after upsert", func(t *testing.T) {
		appt, err := svc.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, "site", appt.Address)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, job.ID))
		_, err := svc.Get(ctx, job.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("deleting again reports not found", func(t *testing.T) {
		err := svc.Delete(ctx, job.ID)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}
