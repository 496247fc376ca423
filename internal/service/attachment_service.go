package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/policy"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"github.com/sainam-co/jobtrack-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttachmentService manages a job's file registry. Metadata lives in
// the database, bytes in the storage backend. Removal is terminal.
type AttachmentService struct {
	attachments *repository.AttachmentRepository
	jobs        *repository.JobRepository
	store       storage.Storage
	logger      *zap.Logger
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	attachments *repository.AttachmentRepository,
	jobs *repository.JobRepository,
	store storage.Storage,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachments: attachments,
		jobs:        jobs,
		store:       store,
		logger:      logger,
	}
}

// Upload stores a file and registers it against a job
func (s *AttachmentService) Upload(ctx context.Context, jobID uuid.UUID, name string, attType domain.AttachmentType, contentType string, data io.Reader) (*domain.Attachment, error) {
	actor, err := checkPolicy(ctx, policy.ActionCreate, policy.EntityAttachment)
	if err != nil {
		return nil, err
	}

	if !attType.IsValid() {
		return nil, fmt.Errorf("%w: unknown attachment type %q", ErrInvalidInput, attType)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}

	storagePath, size, err := s.store.Upload(ctx, name, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	attachment := &domain.Attachment{
		JobID:       jobID,
		Name:        name,
		Type:        attType,
		ContentType: contentType,
		StoragePath: storagePath,
		Size:        size,
		UploadedBy:  &actor.UserID,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		// Orphaned bytes are worse than a failed request
		if cleanupErr := s.store.Delete(ctx, storagePath); cleanupErr != nil {
			s.logger.Warn("failed to clean up stored file after create error",
				zap.String("storage_path", storagePath),
				zap.Error(cleanupErr))
		}
		return nil, err
	}

	s.logger.Info("attachment uploaded",
		zap.String("job_id", jobID.String()),
		zap.String("attachment_id", attachment.ID.String()),
		zap.String("type", string(attType)),
		zap.Int64("size", size))
	return attachment, nil
}

// Download streams an attachment's bytes
func (s *AttachmentService) Download(ctx context.Context, id uuid.UUID) (*domain.Attachment, io.ReadCloser, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityAttachment); err != nil {
		return nil, nil, err
	}

	attachment, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if attachment == nil {
		return nil, nil, fmt.Errorf("%w: attachment %s", ErrNotFound, id)
	}

	body, err := s.store.Download(ctx, attachment.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	return attachment, body, nil
}

// Remove deletes an attachment and its stored bytes. Removing an
// unknown attachment reports not found; removal cannot be undone.
func (s *AttachmentService) Remove(ctx context.Context, id uuid.UUID) error {
	if _, err := checkPolicy(ctx, policy.ActionDelete, policy.EntityAttachment); err != nil {
		return err
	}

	attachment, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if attachment == nil {
		return fmt.Errorf("%w: attachment %s", ErrNotFound, id)
	}

	if err := s.attachments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: attachment %s", ErrNotFound, id)
		}
		return err
	}

	// Metadata is gone; losing the bytes cleanup only leaks storage
	if err := s.store.Delete(ctx, attachment.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored file",
			zap.String("storage_path", attachment.StoragePath),
			zap.Error(err))
	}

	s.logger.Info("attachment removed",
		zap.String("attachment_id", id.String()),
		zap.String("job_id", attachment.JobID.String()))
	return nil
}

// ListByType returns a job's attachments grouped by type, each group
// in upload order. Every known type is present, empty or not.
func (s *AttachmentService) ListByType(ctx context.Context, jobID uuid.UUID) (domain.AttachmentGroups, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityAttachment); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}

	attachments, err := s.attachments.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	groups := make(domain.AttachmentGroups, len(domain.AllAttachmentTypes()))
	for _, t := range domain.AllAttachmentTypes() {
		groups[t] = []domain.Attachment{}
	}
	for _, a := range attachments {
		groups[a.Type] = append(groups[a.Type], a)
	}
	return groups, nil
}
