package handler

import (
	"net/http"
	"strconv"

	"github.com/sainam-co/jobtrack-api/internal/auth"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/mapper"
	"github.com/sainam-co/jobtrack-api/internal/service"
	"go.uber.org/zap"
)

type JobHandler struct {
	jobService *service.JobService
	logger     *zap.Logger
}

func NewJobHandler(jobService *service.JobService, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		logger:     logger,
	}
}

// List godoc
// @Summary List jobs
// @Description Get jobs filtered by status and free-text search over
// @Description job code, customer name and phone
// @Tags Jobs
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, measuring, quoting, approved, in-progress, pending-follow, completed, cancelled)
// @Param search query string false "Search by code, customer name or phone"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} domain.JobListResponse
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs [get]
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.JobListFilter{
		Search: r.URL.Query().Get("search"),
	}
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.JobStatus(status)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "unknown status filter")
			return
		}
		filter.Status = &s
	}

	jobs, total, err := h.jobService.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list jobs")
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToJobListResponse(jobs, total, filter.Limit, filter.Offset))
}

// Create godoc
// @Summary Create job
// @Description Create a job in pending status, referencing an existing
// @Description customer or creating one inline
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body domain.CreateJobRequest true "Job"
// @Success 201 {object} domain.JobResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs [post]
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateJobRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.CustomerID == nil && req.Customer == nil {
		respondWithError(w, http.StatusBadRequest, "either customerId or customer is required")
		return
	}

	job, err := h.jobService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create job")
		return
	}
	respondJSON(w, http.StatusCreated, h.toResponse(r, job, nil))
}

// GetByID godoc
// @Summary Get job
// @Description Get a job with all sub-entities and the transitions
// @Description allowed from its current status
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Success 200 {object} domain.JobResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id} [get]
func (h *JobHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	job, err := h.jobService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get job")
		return
	}
	respondJSON(w, http.StatusOK, h.toResponse(r, job, nil))
}

// Update godoc
// @Summary Update job
// @Description Update job fields. The request must carry the job's
// @Description current version; a stale version is rejected with 409.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.UpdateJobRequest true "Fields to update"
// @Success 200 {object} domain.JobResponse
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id} [put]
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateJobRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	job, err := h.jobService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update job")
		return
	}
	respondJSON(w, http.StatusOK, h.toResponse(r, job, nil))
}

// Delete godoc
// @Summary Delete job
// @Description Delete a job and all its sub-entities. The customer is
// @Description left untouched.
// @Tags Jobs
// @Param id path string true "Job ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id} [delete]
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.jobService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete job")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *JobHandler) toResponse(r *http.Request, job *domain.Job, warnings []string) domain.JobResponse {
	role := domain.Role("")
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		role = userCtx.Role
	}
	return mapper.ToJobResponse(job, role, warnings)
}
