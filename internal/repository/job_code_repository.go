package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobCodeRepository handles the per-year job code sequence.
// The sequence is monotonically increasing and resets each year.
type JobCodeRepository struct {
	db *gorm.DB
}

// NewJobCodeRepository creates a new JobCodeRepository
func NewJobCodeRepository(db *gorm.DB) *JobCodeRepository {
	return &JobCodeRepository{db: db}
}

// NextSequence atomically retrieves and increments the sequence for a
// year. Uses SELECT FOR UPDATE so concurrent saves never share a number.
// If no sequence exists for the year, it creates one starting at 1.
func (r *JobCodeRepository) NextSequence(ctx context.Context, year int) (int, error) {
	var seq domain.JobCodeSequence
	var nextSeq int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		// sqlite serializes writes and has no FOR UPDATE syntax
		if tx.Dialector.Name() == "postgres" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		result := query.
			Where("year = ?", year).
			First(&seq)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			seq = domain.JobCodeSequence{
				Year:         year,
				LastSequence: 1,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create job code sequence: %w", err)
			}
			nextSeq = 1
		} else if result.Error != nil {
			return fmt.Errorf("failed to get job code sequence: %w", result.Error)
		} else {
			nextSeq = seq.LastSequence + 1
			if err := tx.Model(&seq).Updates(map[string]interface{}{
				"last_sequence": nextSeq,
				"updated_at":    time.Now(),
			}).Error; err != nil {
				return fmt.Errorf("failed to update job code sequence: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return nextSeq, nil
}

// CurrentSequence returns the last used sequence for a year without
// incrementing. Returns 0 when the year has no jobs yet.
func (r *JobCodeRepository) CurrentSequence(ctx context.Context, year int) (int, error) {
	var seq domain.JobCodeSequence
	result := r.db.WithContext(ctx).Where("year = ?", year).First(&seq)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if result.Error != nil {
		return 0, fmt.Errorf("failed to get job code sequence: %w", result.Error)
	}
	return seq.LastSequence, nil
}
