package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/service"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreateSchedule godoc
// @Summary Create payment schedule
// @Description Replace the job's installment schedule. Fails when any
// @Description phase is already paid.
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.CreatePaymentScheduleRequest true "Schedule"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/payments [post]
func (h *PaymentHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.CreatePaymentScheduleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	phases, warnings, err := h.paymentService.CreateSchedule(r.Context(), jobID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create payment schedule")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"phases":   phases,
		"warnings": warnings,
	})
}

// MarkPaid godoc
// @Summary Mark phase paid
// @Description Record payment of one phase. A paid date is required.
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param phase path int true "Phase number"
// @Param request body domain.MarkPaymentPaidRequest true "Payment details"
// @Success 200 {object} domain.PaymentPhase
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/payments/{phase}/paid [post]
func (h *PaymentHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	phase, err := strconv.Atoi(chi.URLParam(r, "phase"))
	if err != nil || phase < 1 {
		respondWithError(w, http.StatusBadRequest, "invalid phase number")
		return
	}
	var req domain.MarkPaymentPaidRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	payment, err := h.paymentService.MarkPaid(r.Context(), jobID, phase, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to mark payment paid")
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

// Summary godoc
// @Summary Payment summary
// @Description Get the job's schedule with paid, pending and overdue
// @Description totals and overall progress
// @Tags Payments
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Success 200 {object} domain.PaymentSummary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/payments [get]
func (h *PaymentHandler) Summary(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	summary, err := h.paymentService.Summary(r.Context(), jobID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get payment summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
