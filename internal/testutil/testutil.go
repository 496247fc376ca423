// Package testutil provides shared helpers for package tests. Tests
// run against an in-memory sqlite database with the schema migrated
// from the domain models.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/auth"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory sqlite database and migrates the full
// schema. Each call gets its own database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	// sqlite in-memory databases are per-connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&domain.User{},
		&domain.Customer{},
		&domain.Job{},
		&domain.JobStatusHistory{},
		&domain.Appointment{},
		&domain.Quotation{},
		&domain.PaymentPhase{},
		&domain.Expense{},
		&domain.DailyReport{},
		&domain.Attachment{},
		&domain.ChecklistItem{},
		&domain.JobCodeSequence{},
	)
	require.NoError(t, err, "failed to migrate test schema")

	return db
}

// AsAdmin returns a context carrying an admin actor
func AsAdmin(ctx context.Context) context.Context {
	return auth.WithUserContext(ctx, &auth.UserContext{
		UserID:      uuid.New(),
		Username:    "admin",
		DisplayName: "Administrator",
		Role:        domain.RoleAdmin,
	})
}

// AsForeman returns a context carrying a foreman actor
func AsForeman(ctx context.Context) context.Context {
	return auth.WithUserContext(ctx, &auth.UserContext{
		UserID:      uuid.New(),
		Username:    "foreman",
		DisplayName: "Site Foreman",
		Role:        domain.RoleForeman,
	})
}

// AsOwner returns a context carrying an owner actor
func AsOwner(ctx context.Context) context.Context {
	return auth.WithUserContext(ctx, &auth.UserContext{
		UserID:      uuid.New(),
		Username:    "owner",
		DisplayName: "Business Owner",
		Role:        domain.RoleOwner,
	})
}

// CreateTestCustomer inserts a customer directly
func CreateTestCustomer(t *testing.T, db *gorm.DB, name string) *domain.Customer {
	t.Helper()
	customer := &domain.Customer{
		Name:  name,
		Phone: "0812345678",
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// CreateTestJob inserts a job directly, bypassing code generation
func CreateTestJob(t *testing.T, db *gorm.DB, customerID uuid.UUID, code string, status domain.JobStatus) *domain.Job {
	t.Helper()
	job := &domain.Job{
		Code:       code,
		CustomerID: customerID,
		Status:     status,
		Version:    1,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}
