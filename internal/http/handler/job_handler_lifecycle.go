package handler

import (
	"net/http"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/mapper"
)

// Transition godoc
// @Summary Transition job status
// @Description Move a job to a new status. Only transitions allowed by
// @Description the status machine succeed; soft-invariant problems are
// @Description returned as warnings, not errors.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.TransitionJobRequest true "Target status"
// @Success 200 {object} domain.JobResponse
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/transition [post]
func (h *JobHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.TransitionJobRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, warnings, err := h.jobService.Transition(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to transition job")
		return
	}
	respondJSON(w, http.StatusOK, h.toResponse(r, job, warnings))
}

// History godoc
// @Summary Job status history
// @Description Get the append-only transition audit trail of a job
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Success 200 {object} domain.JobStatusHistoryResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/history [get]
func (h *JobHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	job, err := h.jobService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get job")
		return
	}
	history, err := h.jobService.History(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get job history")
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToHistoryResponse(job, history))
}
