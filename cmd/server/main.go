package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/license-backend/config"
	"github.com/ikkim/license-backend/internal/app/controller"
	"github.com/ikkim/license-backend/internal/app/repository"
	"github.com/ikkim/license-backend/internal/app/service"
	"github.com/ikkim/license-backend/internal/db"
	"github.com/ikkim/license-backend/internal/router"
	"github.com/ikkim/license-backend/internal/storage"
	"github.com/ikkim/license-backend/pkg/logger"
	"github.com/ikkim/license-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	if err := logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
		FilePath:    cfg.Log.File,
	}); err != nil {
		logger.Fatal("Failed to initialize logger", err)
	}
	defer logger.Close()

	logger.Info("Starting license application server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize document storage
	blobs, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize document storage", err)
	}

	// Optional Redis read-through cache
	var cache service.ApplicationCache
	if cfg.Redis.Enabled() {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without application cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cache = service.NewRedisApplicationCache(redis.NewJSONCache(redis.GetClient(), "application", cfg.Redis.TTL))
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	// Initialize repositories
	appRepo := repository.NewApplicationRepository(db.GetDB())
	fileRepo := repository.NewFileRepository(db.GetDB())

	// Initialize services
	applicationService := service.NewApplicationService(appRepo, service.WithCache(cache))
	fileService := service.NewFileService(appRepo, fileRepo, blobs, cache)
	accountTypeService := service.NewAccountTypeService()

	// Setup router
	r := router.NewRouter(
		controller.NewApplicationController(applicationService),
		controller.NewFileController(fileService),
		controller.NewAccountTypeController(accountTypeService),
		cfg,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
