package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sainam-co/jobtrack-api/internal/repository"
	"go.uber.org/zap"
)

// jobCodePrefix is the fixed prefix of every job code
const jobCodePrefix = "JOB"

// JobCodeService generates unique, human-readable job codes.
//
// Format: JOB-{YEAR}-{SEQUENCE}, e.g. "JOB-2024-001". The sequence is
// zero-padded to three digits, monotonically increasing within a year
// and resets each year.
type JobCodeService struct {
	repo   *repository.JobCodeRepository
	logger *zap.Logger
}

// NewJobCodeService creates a new JobCodeService
func NewJobCodeService(repo *repository.JobCodeRepository, logger *zap.Logger) *JobCodeService {
	return &JobCodeService{
		repo:   repo,
		logger: logger,
	}
}

// Generate produces the next job code for the current year
func (s *JobCodeService) Generate(ctx context.Context) (string, error) {
	return s.GenerateForYear(ctx, time.Now().Year())
}

// GenerateForYear produces the next job code for a specific year
func (s *JobCodeService) GenerateForYear(ctx context.Context, year int) (string, error) {
	nextSeq, err := s.repo.NextSequence(ctx, year)
	if err != nil {
		s.logger.Error("failed to get next job code sequence",
			zap.Int("year", year),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate job code: %w", err)
	}

	code := fmt.Sprintf("%s-%d-%03d", jobCodePrefix, year, nextSeq)

	s.logger.Info("generated job code",
		zap.String("code", code),
		zap.Int("year", year),
		zap.Int("sequence", nextSeq))

	return code, nil
}
