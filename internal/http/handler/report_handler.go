package handler

import (
	"net/http"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/service"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// CreateReport godoc
// @Summary Submit daily report
// @Description Submit a daily work report with photos and expenses.
// @Description Reports are append-only.
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.CreateDailyReportRequest true "Report"
// @Success 201 {object} domain.DailyReport
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/reports [post]
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.CreateDailyReportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	report, err := h.reportService.CreateReport(r.Context(), jobID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create daily report")
		return
	}
	respondJSON(w, http.StatusCreated, report)
}

// ListReports godoc
// @Summary List daily reports
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Success 200 {array} domain.DailyReport
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/reports [get]
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	reports, err := h.reportService.ListReports(r.Context(), jobID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list daily reports")
		return
	}
	respondJSON(w, http.StatusOK, reports)
}

// CreateExpense godoc
// @Summary Record expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.CreateExpenseRequest true "Expense"
// @Success 201 {object} domain.Expense
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/expenses [post]
func (h *ReportHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.CreateExpenseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	expense, err := h.reportService.CreateExpense(r.Context(), jobID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create expense")
		return
	}
	respondJSON(w, http.StatusCreated, expense)
}

// ListExpenses godoc
// @Summary List expenses
// @Tags Expenses
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Success 200 {array} domain.Expense
// @Security BearerAuth
// @Router /jobs/{id}/expenses [get]
func (h *ReportHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	expenses, err := h.reportService.ListExpenses(r.Context(), jobID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list expenses")
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}
