package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sainam-co/jobtrack-api/docs"
	"github.com/sainam-co/jobtrack-api/internal/accounting"
	"github.com/sainam-co/jobtrack-api/internal/auth"
	"github.com/sainam-co/jobtrack-api/internal/config"
	"github.com/sainam-co/jobtrack-api/internal/database"
	"github.com/sainam-co/jobtrack-api/internal/http/handler"
	"github.com/sainam-co/jobtrack-api/internal/http/middleware"
	"github.com/sainam-co/jobtrack-api/internal/http/router"
	"github.com/sainam-co/jobtrack-api/internal/jobs"
	"github.com/sainam-co/jobtrack-api/internal/logger"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"github.com/sainam-co/jobtrack-api/internal/secrets"
	"github.com/sainam-co/jobtrack-api/internal/service"
	"github.com/sainam-co/jobtrack-api/internal/storage"
	"go.uber.org/zap"
)

// @title JobTrack API
// @version 1.0
// @description Job tracking API for installation work: customers, jobs,
// @description quotations, payments and site reporting

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Logging, cfg.App.Name, cfg.App.Environment)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port))

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.Server.Port)

	// Overlay vault-managed secrets before anything connects
	secretProvider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:      secrets.Source(cfg.Secrets.Source),
		VaultName:   cfg.Secrets.VaultName,
		Environment: cfg.App.Environment,
		CacheTTL:    time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize secrets provider: %w", err)
	}
	cfg.ApplySecrets(ctx, secretProvider)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Optional; the app runs without the accounting export
	ledger, err := accounting.NewClient(&cfg.Accounting, log)
	if err != nil {
		log.Warn("accounting connection failed, continuing without export", zap.Error(err))
		ledger = nil
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	jobRepo := repository.NewJobRepository(db)
	jobCodeRepo := repository.NewJobCodeRepository(db)
	historyRepo := repository.NewJobStatusHistoryRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	reportRepo := repository.NewDailyReportRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)

	// Services
	tokenManager := auth.NewTokenManager(&cfg.Security)
	userService := service.NewUserService(userRepo, tokenManager, log)
	customerService := service.NewCustomerService(customerRepo, log)
	jobCodeService := service.NewJobCodeService(jobCodeRepo, log)
	jobService := service.NewJobService(jobRepo, customerRepo, historyRepo, checklistRepo, jobCodeService, log)
	appointmentService := service.NewAppointmentService(appointmentRepo, jobRepo, log)
	quotationService := service.NewQuotationService(quotationRepo, jobRepo, log)
	paymentService := service.NewPaymentService(paymentRepo, jobRepo, log)
	reportService := service.NewReportService(reportRepo, expenseRepo, jobRepo, log)
	attachmentService := service.NewAttachmentService(attachmentRepo, jobRepo, fileStorage, log)
	checklistService := service.NewChecklistService(checklistRepo, jobRepo, log)
	dashboardService := service.NewDashboardService(jobRepo, appointmentRepo, log)
	ledgerExportService := service.NewLedgerExportService(paymentRepo, jobRepo, ledger, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokenManager, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, log)
	customerHandler := handler.NewCustomerHandler(customerService, log)
	jobHandler := handler.NewJobHandler(jobService, log)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, log)
	paymentHandler := handler.NewPaymentHandler(paymentService, log)
	reportHandler := handler.NewReportHandler(reportService, log)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService, log)
	checklistHandler := handler.NewChecklistHandler(checklistService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		ledger,
		authMiddleware,
		rateLimiter,
		authHandler,
		customerHandler,
		jobHandler,
		appointmentHandler,
		quotationHandler,
		paymentHandler,
		reportHandler,
		attachmentHandler,
		checklistHandler,
		dashboardHandler,
	)

	// Background jobs
	scheduler := jobs.NewScheduler(log)
	if err := jobs.RegisterOverdueSweepJob(
		scheduler,
		paymentService,
		log,
		cfg.Jobs.OverdueSweepCron,
		cfg.Jobs.JobTimeoutDuration(),
	); err != nil {
		return fmt.Errorf("failed to register overdue sweep job: %w", err)
	}
	if ledger.IsEnabled() {
		if err := jobs.RegisterLedgerExportJob(
			scheduler,
			ledgerExportService,
			log,
			cfg.Jobs.LedgerExportCron,
			cfg.Jobs.JobTimeoutDuration(),
			cfg.Jobs.LedgerExportOnBoot,
		); err != nil {
			return fmt.Errorf("failed to register ledger export job: %w", err)
		}
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      rt.Setup(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
		log.Info("scheduler stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if err := ledger.Close(); err != nil {
			log.Warn("error closing accounting connection", zap.Error(err))
		}

		log.Info("server stopped gracefully")
	}

	return nil
}
