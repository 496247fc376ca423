package handler

import (
	"net/http"
	"time"

	"github.com/sainam-co/jobtrack-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Stats godoc
// @Summary Dashboard overview
// @Description Get today's appointments, per-status job counts, total
// @Description revenue and recent jobs
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardStats
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context(), time.Now())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get dashboard stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
