package handler

import (
	"net/http"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/service"
	"go.uber.org/zap"
)

type ChecklistHandler struct {
	checklistService *service.ChecklistService
	logger           *zap.Logger
}

func NewChecklistHandler(checklistService *service.ChecklistService, logger *zap.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		checklistService: checklistService,
		logger:           logger,
	}
}

// List godoc
// @Summary Get checklist
// @Description Get the job's execution checklist with progress
// @Tags Checklist
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Success 200 {object} domain.ChecklistResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/checklist [get]
func (h *ChecklistHandler) List(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	checklist, err := h.checklistService.List(r.Context(), jobID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get checklist")
		return
	}
	respondJSON(w, http.StatusOK, checklist)
}

// Toggle godoc
// @Summary Toggle checklist item
// @Tags Checklist
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param itemId path string true "Checklist item ID" format(uuid)
// @Param request body domain.ToggleChecklistItemRequest true "Completion state"
// @Success 200 {object} domain.ChecklistItem
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/checklist/{itemId} [put]
func (h *ChecklistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(w, r, "itemId")
	if !ok {
		return
	}
	var req domain.ToggleChecklistItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	item, err := h.checklistService.Toggle(r.Context(), jobID, itemID, req.Completed)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to toggle checklist item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}
