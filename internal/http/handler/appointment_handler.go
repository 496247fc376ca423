package handler

import (
	"net/http"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/service"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	appointmentService *service.AppointmentService
	logger             *zap.Logger
}

func NewAppointmentHandler(appointmentService *service.AppointmentService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
		logger:             logger,
	}
}

// Get godoc
// @Summary Get appointment
// @Tags Appointments
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Success 200 {object} domain.Appointment
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/appointment [get]
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	appt, err := h.appointmentService.Get(r.Context(), jobID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get appointment")
		return
	}
	respondJSON(w, http.StatusOK, appt)
}

// Upsert godoc
// @Summary Set appointment
// @Description Create or replace the job's measurement appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.UpsertAppointmentRequest true "Appointment"
// @Success 200 {object} domain.Appointment
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/appointment [put]
func (h *AppointmentHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpsertAppointmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	appt, err := h.appointmentService.Upsert(r.Context(), jobID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to save appointment")
		return
	}
	respondJSON(w, http.StatusOK, appt)
}

// Delete godoc
// @Summary Remove appointment
// @Tags Appointments
// @Param id path string true "Job ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/appointment [delete]
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.appointmentService.Delete(r.Context(), jobID); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete appointment")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
