package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"assistant/internal/capabilities"
	"assistant/internal/config"
	"assistant/internal/domain/repositories"
	"assistant/internal/handler"
	"assistant/internal/handler/sse"
	"assistant/internal/metrics"
	"assistant/internal/middleware"
	"assistant/internal/repository"
	"assistant/internal/service"
	"assistant/internal/service/generation"
	serviceLLM "assistant/internal/service/llm"
)

func main() {
	// Deferred cleanup in run (store, log file) must finish before exit.
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	// Load configuration (.env files, then the process environment)
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Setup structured logging
	logger, logCloser, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store_driver", cfg.StoreDriver,
		"collection_prefix", cfg.CollectionPrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Open the document store
	store, err := repository.Open(ctx, cfg, logger, m)
	if err != nil {
		logger.Error("failed to open document store", "error", err)
		return fmt.Errorf("open document store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("failed to close document store", "error", err)
		}
	}()

	// Create collection names and ensure indexes
	collections := repositories.NewCollectionNames(cfg.CollectionPrefix)
	indexReport := repository.EnsureDefaultIndexes(ctx, store, collections, logger)

	// Create services
	promptService := service.NewPromptService(store, collections, logger)
	dialogService := service.NewDialogService(store, collections, logger)
	projectService := service.NewProjectService(store, collections, promptService, dialogService, logger)

	// Setup model providers
	providerRegistry := serviceLLM.SetupProviders(cfg, logger)

	// Initialize capability registry
	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		logger.Error("failed to load model catalog", "error", err)
		return fmt.Errorf("load model catalog: %w", err)
	}
	logger.Info("capability registry initialized", "providers", capabilityRegistry.GetAllProviders())

	generationService := generation.NewService(
		dialogService,
		promptService,
		providerRegistry,
		capabilityRegistry,
		generation.NewGuard(cfg.GenerationRateLimit, cfg.GenerationRateWindow),
		generation.DefaultsFromConfig(cfg),
		m,
		logger,
	)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, &handler.Handlers{
		Health:   handler.NewHealthHandler(store, indexReport, logger),
		Metrics:  m.Handler(),
		Models:   handler.NewModelsHandler(cfg.ModelName, capabilityRegistry),
		Project:  handler.NewProjectHandler(projectService, promptService, dialogService, logger),
		Prompt:   handler.NewPromptHandler(promptService, logger),
		Dialog:   handler.NewDialogHandler(dialogService, logger),
		Generate: handler.NewGenerateHandler(generationService, &sse.Config{KeepAliveInterval: cfg.StreamKeepAlive}, logger),
	})

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → RequestID → Metrics → Routes
	h = middleware.Metrics(m, logger)(h)
	h = middleware.RequestID()(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		return err
	}
	<-shutdownDone
	logger.Info("server stopped")
	return nil
}
