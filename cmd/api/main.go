package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ats-backend/config"
	_ "ats-backend/docs"
	v1 "ats-backend/internal/delivery/http/v1"
	"ats-backend/internal/notify"
	"ats-backend/internal/repository/postgres"
	"ats-backend/internal/storage/s3"
	"ats-backend/internal/usecase"
	"ats-backend/pkg/database"
	"ats-backend/pkg/email"
	"ats-backend/pkg/logger"
	"ats-backend/pkg/objectstore"
	"ats-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const version = "1.0.0"

// @title           Applicant Tracking System API
// @version         1.0
// @description     Candidate and document management backend using Clean Architecture.
// @host            localhost:8080
// @BasePath        /api/v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting ATS backend", "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	if err := database.RunMigrations(ctx, cfg.DBUrl); err != nil {
		logger.Log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Object Storage
	s3Client, err := objectstore.NewClient(ctx, objectstore.ClientConfig{
		Endpoint:  cfg.MinioEndpoint,
		Port:      cfg.MinioPort,
		UseSSL:    cfg.MinioUseSSL,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Region:    cfg.MinioRegion,
	})
	if err != nil {
		logger.Log.Error("Failed to create object storage client", "error", err)
		os.Exit(1)
	}
	documentStore := s3.NewDocumentStore(s3Client, cfg.MinioBucket)
	if err := documentStore.EnsureBucket(ctx); err != nil {
		logger.Log.Error("Failed to ensure bucket", "bucket", cfg.MinioBucket, "error", err)
		os.Exit(1)
	}
	if err := objectstore.TestConnection(ctx, s3Client, cfg.MinioBucket); err != nil {
		logger.Log.Error("Object storage unreachable", "bucket", cfg.MinioBucket, "error", err)
		os.Exit(1)
	}

	// 5. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not configured - candidate notifications disabled")
	}
	dispatcher := notify.NewDispatcher(64)
	notifier := notify.NewCandidateNotifier(emailService, dispatcher)

	// 6. Setup Repositories
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	documentRepo := postgres.NewDocumentRepository(dbPool)

	// 7. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, notifier, validate, cfg.DefaultPageLimit, cfg.MaxPageLimit)
	documentUC := usecase.NewDocumentUsecase(documentRepo, candidateRepo, documentStore)
	healthUC := usecase.NewHealthUsecase(dbPool, version)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		CandidateUC: candidateUC,
		DocumentUC:  documentUC,
		HealthUC:    healthUC,
		Config:      cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	dispatcher.Close()

	logger.Log.Info("Server exiting")
}
