package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phambaophuc/image-cropper/internal/config"
	"github.com/phambaophuc/image-cropper/internal/http/handlers"
	"github.com/phambaophuc/image-cropper/internal/http/routes"
	"github.com/phambaophuc/image-cropper/internal/services/editor"
	"github.com/phambaophuc/image-cropper/internal/services/processor"
	"github.com/phambaophuc/image-cropper/internal/services/queue"
	"github.com/phambaophuc/image-cropper/internal/services/storage"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize services
	imageProcessor := processor.NewImageProcessor(cfg.Storage.JPEGQuality)

	persister := storage.NewLocalPersister(cfg.Storage.DocumentDir, cfg.Storage.Filename, imageProcessor, logger)
	if path, err := persister.Path(); err != nil {
		logger.Warn("Document directory unavailable, saves will fail", zap.Error(err))
	} else {
		logger.Info("Cropped images will be saved", zap.String("path", path))
	}

	storageService, err := storage.NewStorageService(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}
	defer storageService.Close()

	sessions := editor.NewStore(imageProcessor, cfg.Session.TTL, logger)
	sessions.StartJanitor(ctx, cfg.Session.CleanupInterval)

	var queueService *queue.QueueService
	if cfg.RabbitMQ.URL != "" {
		queueService, err = queue.NewQueueService(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.QueueName,
			imageProcessor,
			storageService,
			persister,
			cfg.Storage.MaxFileSize,
			cfg.Storage.AllowedTypes,
			logger,
		)
		if err != nil {
			// Continue without queue service for interactive cropping
			logger.Warn("Failed to initialize queue service", zap.Error(err))
			queueService = nil
		} else {
			defer queueService.Close()
			for i := 1; i <= cfg.RabbitMQ.Workers; i++ {
				if err := queueService.StartWorker(ctx, i); err != nil {
					logger.Error("Failed to start worker", zap.Int("worker_id", i), zap.Error(err))
				}
			}
		}
	}

	// Initialize handlers
	imageHandler := handlers.NewImageHandler(
		imageProcessor,
		sessions,
		persister,
		storageService,
		queueService,
		logger,
		cfg,
	)

	router := routes.NewRouter(imageHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
