package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sainam-co/jobtrack-api/internal/accounting"
	"github.com/sainam-co/jobtrack-api/internal/auth"
	"github.com/sainam-co/jobtrack-api/internal/config"
	"github.com/sainam-co/jobtrack-api/internal/database"
	"github.com/sainam-co/jobtrack-api/internal/http/handler"
	"github.com/sainam-co/jobtrack-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/sainam-co/jobtrack-api/docs" // generated swagger docs
)

type Router struct {
	cfg                *config.Config
	logger             *zap.Logger
	db                 *gorm.DB
	ledger             *accounting.Client
	authMiddleware     *auth.Middleware
	rateLimiter        *middleware.RateLimiter
	authHandler        *handler.AuthHandler
	customerHandler    *handler.CustomerHandler
	jobHandler         *handler.JobHandler
	appointmentHandler *handler.AppointmentHandler
	quotationHandler   *handler.QuotationHandler
	paymentHandler     *handler.PaymentHandler
	reportHandler      *handler.ReportHandler
	attachmentHandler  *handler.AttachmentHandler
	checklistHandler   *handler.ChecklistHandler
	dashboardHandler   *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	ledger *accounting.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	customerHandler *handler.CustomerHandler,
	jobHandler *handler.JobHandler,
	appointmentHandler *handler.AppointmentHandler,
	quotationHandler *handler.QuotationHandler,
	paymentHandler *handler.PaymentHandler,
	reportHandler *handler.ReportHandler,
	attachmentHandler *handler.AttachmentHandler,
	checklistHandler *handler.ChecklistHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:                cfg,
		logger:             logger,
		db:                 db,
		ledger:             ledger,
		authMiddleware:     authMiddleware,
		rateLimiter:        rateLimiter,
		authHandler:        authHandler,
		customerHandler:    customerHandler,
		jobHandler:         jobHandler,
		appointmentHandler: appointmentHandler,
		quotationHandler:   quotationHandler,
		paymentHandler:     paymentHandler,
		reportHandler:      reportHandler,
		attachmentHandler:  attachmentHandler,
		checklistHandler:   checklistHandler,
		dashboardHandler:   dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database readiness with pool stats
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness across all dependencies
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{"status": "healthy"}
		}

		if rt.ledger.IsEnabled() {
			status := rt.ledger.HealthCheck(r.Context())
			checks["accounting"] = status
			if status.Status == "unhealthy" {
				allHealthy = false
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	if rt.cfg.IsDevelopment() {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.With(rt.rateLimiter.Limit).Post("/auth/login", rt.authHandler.Login)

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			r.Get("/auth/me", rt.authHandler.Me)

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", rt.customerHandler.List)
				r.Post("/", rt.customerHandler.Create)
				r.Get("/{id}", rt.customerHandler.GetByID)
				r.Put("/{id}", rt.customerHandler.Update)
				r.Delete("/{id}", rt.customerHandler.Delete)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", rt.jobHandler.List)
				r.Post("/", rt.jobHandler.Create)
				r.Get("/{id}", rt.jobHandler.GetByID)
				r.Put("/{id}", rt.jobHandler.Update)
				r.Delete("/{id}", rt.jobHandler.Delete)

				// Lifecycle
				r.Post("/{id}/transition", rt.jobHandler.Transition)
				r.Get("/{id}/history", rt.jobHandler.History)

				// Sub-resources
				r.Get("/{id}/appointment", rt.appointmentHandler.Get)
				r.Put("/{id}/appointment", rt.appointmentHandler.Upsert)
				r.Delete("/{id}/appointment", rt.appointmentHandler.Delete)

				r.Get("/{id}/quotation", rt.quotationHandler.Get)
				r.Put("/{id}/quotation", rt.quotationHandler.Upsert)
				r.Post("/{id}/quotation/send", rt.quotationHandler.Send)
				r.Post("/{id}/quotation/accept", rt.quotationHandler.Accept)
				r.Post("/{id}/quotation/reject", rt.quotationHandler.Reject)

				r.Get("/{id}/payments", rt.paymentHandler.Summary)
				r.Post("/{id}/payments", rt.paymentHandler.CreateSchedule)
				r.Post("/{id}/payments/{phase}/paid", rt.paymentHandler.MarkPaid)

				r.Get("/{id}/reports", rt.reportHandler.ListReports)
				r.Post("/{id}/reports", rt.reportHandler.CreateReport)
				r.Get("/{id}/expenses", rt.reportHandler.ListExpenses)
				r.Post("/{id}/expenses", rt.reportHandler.CreateExpense)

				r.Get("/{id}/attachments", rt.attachmentHandler.ListByType)
				r.Post("/{id}/attachments", rt.attachmentHandler.Upload)

				r.Get("/{id}/checklist", rt.checklistHandler.List)
				r.Put("/{id}/checklist/{itemId}", rt.checklistHandler.Toggle)
			})

			r.Route("/attachments", func(r chi.Router) {
				r.Get("/{attachmentId}/download", rt.attachmentHandler.Download)
				r.Delete("/{attachmentId}", rt.attachmentHandler.Delete)
			})

			r.Get("/dashboard", rt.dashboardHandler.Stats)
		})
	})

	return r
}
