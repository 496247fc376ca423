package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/service"
	"go.uber.org/zap"
)

const maxUploadMB int64 = 50

type AttachmentHandler struct {
	attachmentService *service.AttachmentService
	logger            *zap.Logger
}

func NewAttachmentHandler(attachmentService *service.AttachmentService, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		logger:            logger,
	}
}

// Upload godoc
// @Summary Upload attachment
// @Description Upload a file for a job. The type field classifies it
// @Description for display grouping.
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param file formData file true "File to upload"
// @Param type formData string true "Attachment type" Enums(image, video, model-file, receipt)
// @Success 201 {object} domain.Attachment
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/attachments [post]
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file too large: maximum size is %dMB", maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	attType := domain.AttachmentType(r.FormValue("type"))

	attachment, err := h.attachmentService.Upload(r.Context(), jobID,
		header.Filename, attType, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to upload attachment")
		return
	}
	respondJSON(w, http.StatusCreated, attachment)
}

// ListByType godoc
// @Summary List attachments
// @Description Get the job's attachments grouped by type, each group
// @Description in upload order
// @Tags Attachments
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Success 200 {object} domain.AttachmentGroups
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/attachments [get]
func (h *AttachmentHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	groups, err := h.attachmentService.ListByType(r.Context(), jobID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list attachments")
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

// Download godoc
// @Summary Download attachment
// @Tags Attachments
// @Produce application/octet-stream
// @Param attachmentId path string true "Attachment ID" format(uuid)
// @Success 200
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /attachments/{attachmentId}/download [get]
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "attachmentId")
	if !ok {
		return
	}

	attachment, body, err := h.attachmentService.Download(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to download attachment")
		return
	}
	defer body.Close()

	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("failed to stream attachment",
			zap.String("attachment_id", id.String()),
			zap.Error(err))
	}
}

// Delete godoc
// @Summary Remove attachment
// @Description Remove an attachment and its stored bytes. Cannot be
// @Description undone.
// @Tags Attachments
// @Param attachmentId path string true "Attachment ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /attachments/{attachmentId} [delete]
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "attachmentId")
	if !ok {
		return
	}
	if err := h.attachmentService.Remove(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete attachment")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
