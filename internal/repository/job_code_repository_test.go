package repository_test

import (
	"context"
	"testing"

	"github.com/sainam-co/jobtrack-api/internal/repository"
	"github.com/sainam-co/jobtrack-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobCodeRepository_NextSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewJobCodeRepository(db)
	ctx := context.Background()

	t.Run("starts at one and increments", func(t *testing.T) {
		for want := 1; want <= 3; want++ {
			got, err := repo.NextSequence(ctx, 2024)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("each year has its own sequence", func(t *testing.T) {
		got, err := repo.NextSequence(ctx, 2025)
		require.NoError(t, err)
		assert.Equal(t, 1, got)

		got, err = repo.NextSequence(ctx, 2024)
		require.NoError(t, err)
		assert.Equal(t, 4, got)
	})
}

func TestJobCodeRepository_CurrentSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewJobCodeRepository(db)
	ctx := context.Background()

	t.Run("zero for an untouched year", func(t *testing.T) {
		got, err := repo.CurrentSequence(ctx, 2030)
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("reads without incrementing", func(t *testing.T) {
		_, err := repo.NextSequence(ctx, 2024)
		require.NoError(t, err)
		_, err = repo.NextSequence(ctx, 2024)
		require.NoError(t, err)

		got, err := repo.CurrentSequence(ctx, 2024)
		require.NoError(t, err)
		assert.Equal(t, 2, got)

		got, err = repo.CurrentSequence(ctx, 2024)
		require.NoError(t, err)
		assert.Equal(t, 2, got)
	})
}
