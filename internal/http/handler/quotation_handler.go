package handler

import (
	"net/http"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/service"
	"go.uber.org/zap"
)

type QuotationHandler struct {
	quotationService *service.QuotationService
	logger           *zap.Logger
}

func NewQuotationHandler(quotationService *service.QuotationService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		logger:           logger,
	}
}

// Get godoc
// @Summary Get quotation
// @Tags Quotations
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Success 200 {object} domain.Quotation
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/quotation [get]
func (h *QuotationHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	quotation, err := h.quotationService.Get(r.Context(), jobID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get quotation")
		return
	}
	respondJSON(w, http.StatusOK, quotation)
}

// Upsert godoc
// @Summary Save quotation draft
// @Description Create or update the quotation draft. A resolved
// @Description quotation can no longer be edited.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.UpsertQuotationRequest true "Quotation"
// @Success 200 {object} domain.Quotation
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/quotation [put]
func (h *QuotationHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpsertQuotationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	quotation, err := h.quotationService.Upsert(r.Context(), jobID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to save quotation")
		return
	}
	respondJSON(w, http.StatusOK, quotation)
}

// Send godoc
// @Summary Send quotation
// @Description Mark the quotation as sent to the customer
// @Tags Quotations
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Success 200 {object} domain.Quotation
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/quotation/send [post]
func (h *QuotationHandler) Send(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	quotation, err := h.quotationService.Send(r.Context(), jobID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to send quotation")
		return
	}
	respondJSON(w, http.StatusOK, quotation)
}

// Accept godoc
// @Summary Accept quotation
// @Description Record the customer's acceptance. Fills the job's total
// @Description amount from the quotation when it was never set.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.QuotationResponseRequest false "Notes"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/quotation/accept [post]
func (h *QuotationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	req := domain.QuotationResponseRequest{}
	if r.ContentLength > 0 && !decodeAndValidate(w, r, &req) {
		return
	}
	quotation, warnings, err := h.quotationService.Accept(r.Context(), jobID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to accept quotation")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"quotation": quotation,
		"warnings":  warnings,
	})
}

// Reject godoc
// @Summary Reject quotation
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.QuotationResponseRequest false "Notes"
// @Success 200 {object} domain.Quotation
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/quotation/reject [post]
func (h *QuotationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	req := domain.QuotationResponseRequest{}
	if r.ContentLength > 0 && !decodeAndValidate(w, r, &req) {
		return
	}
	quotation, err := h.quotationService.Reject(r.Context(), jobID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to reject quotation")
		return
	}
	respondJSON(w, http.StatusOK, quotation)
}
