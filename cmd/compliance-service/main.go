package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/agroflow/agroflow-backend/internal/compliance/classifier"
	"github.com/agroflow/agroflow-backend/internal/compliance/consumers"
	"github.com/agroflow/agroflow-backend/internal/compliance/events"
	"github.com/agroflow/agroflow-backend/internal/compliance/extract"
	"github.com/agroflow/agroflow-backend/internal/compliance/handler"
	"github.com/agroflow/agroflow-backend/internal/compliance/repository"
	"github.com/agroflow/agroflow-backend/internal/compliance/rules"
	"github.com/agroflow/agroflow-backend/internal/compliance/service"
	"github.com/agroflow/agroflow-backend/internal/compliance/storage"
	"github.com/agroflow/agroflow-backend/pkg/config"
	"github.com/agroflow/agroflow-backend/pkg/database"
	"github.com/agroflow/agroflow-backend/pkg/httputil"
	"github.com/agroflow/agroflow-backend/pkg/logger"
	"github.com/agroflow/agroflow-backend/pkg/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation("compliance-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("compliance-service", cfg.Server.Environment)
	log.Info().Msg("starting Compliance Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	publisher, err := events.NewCompliancePublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	fieldSetRepo := repository.NewFieldSetRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)

	// Initialize the classification pipeline. The AI fallback is optional;
	// without a configured URL the keyword classifier stands alone.
	var aiClient classifier.AIClient
	if cfg.Engine.AIClassifierURL != "" {
		aiClient = classifier.NewHTTPAIClient(cfg.Engine.AIClassifierURL, cfg.Engine.AITimeout)
		log.Info().Str("url", cfg.Engine.AIClassifierURL).Msg("AI classification fallback enabled")
	}
	cls := classifier.New(
		cfg.Engine.ClassificationThreshold,
		cfg.Engine.AmbiguityMargin,
		aiClient,
		classifier.NewCache(cfg.Engine.ClassifierCacheTTL),
		log,
	)

	// Initialize service
	complianceService := service.NewService(
		cls,
		extract.New(log),
		rules.NewEngine(log),
		storage.NewJobStore(cfg.Engine.JobTTL),
		storage.NewFieldSetStore(),
		fieldSetRepo,
		summaryRepo,
		publisher,
		&cfg.Engine,
		log,
	)

	// Initialize handler
	complianceHandler := handler.NewHandler(complianceService, log)

	// Start OCR event consumer
	ocrConsumer, err := consumers.NewOCRConsumer(rmq, complianceService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create OCR event consumer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ocrConsumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start OCR event consumer")
	}

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "compliance-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Mount("/api/v1", complianceHandler.Routes())

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Cancel context to stop consumers
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
