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

	"github.com/ikkim/messreview-backend/config"
	"github.com/ikkim/messreview-backend/internal/app/controller"
	"github.com/ikkim/messreview-backend/internal/app/repository"
	"github.com/ikkim/messreview-backend/internal/app/schedule"
	"github.com/ikkim/messreview-backend/internal/app/service"
	"github.com/ikkim/messreview-backend/internal/db"
	"github.com/ikkim/messreview-backend/internal/middleware"
	"github.com/ikkim/messreview-backend/internal/router"
	"github.com/ikkim/messreview-backend/internal/scheduler"
	"github.com/ikkim/messreview-backend/internal/storage"
	"github.com/ikkim/messreview-backend/internal/websocket"
	"github.com/ikkim/messreview-backend/pkg/logger"
	"github.com/ikkim/messreview-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	loc, _ := cfg.Schedule.Location()
	clock := schedule.NewClock(loc, nil)

	logger.Info("Starting Mess Review Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"timezone":    loc.String(),
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

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Optional token blacklist
	var (
		revoker service.TokenRevoker
		checker middleware.RevocationChecker
	)
	if cfg.Redis.Enabled {
		tokenStore, err := redis.Connect(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer tokenStore.Close()
		revoker, checker = tokenStore, tokenStore
	} else {
		logger.Warn("Redis disabled: logout will not revoke access tokens")
	}

	// Optional object storage
	var objectStore storage.ObjectStorage
	if cfg.S3.Bucket != "" {
		objectStore = storage.NewS3Storage(
			context.Background(),
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	} else {
		logger.Warn("S3 bucket not configured: report and import archiving disabled")
	}

	// Realtime hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	foodItemRepo := repository.NewFoodItemRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	menuService := service.NewMenuService(foodItemRepo, reviewRepo, userRepo, clock)
	foodItemService := service.NewFoodItemService(foodItemRepo, clock, hub)
	reviewService := service.NewReviewService(reviewRepo, foodItemRepo, hub)
	reportService := service.NewReportService(foodItemRepo, reviewRepo, userRepo, objectStore, clock)
	importService := service.NewImportService(foodItemRepo, objectStore, clock, hub)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	menuController := controller.NewMenuController(menuService, clock)
	foodItemController := controller.NewFoodItemController(foodItemService, importService)
	reviewController := controller.NewReviewController(reviewService)
	reportController := controller.NewReportController(reportService)
	eventController := controller.NewEventController(hub, cfg.CORS.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, checker)

	// Scheduler
	var archiver service.ReportService
	if objectStore != nil {
		archiver = reportService
	}
	menuScheduler := scheduler.NewMenuScheduler(
		clock,
		hub,
		archiver,
		cfg.Schedule.SlotAnnouncers,
		cfg.Schedule.ReportArchive,
	)
	if err := menuScheduler.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", err)
	}

	// Setup router
	r := router.NewRouter(
		authController,
		menuController,
		foodItemController,
		reviewController,
		reportController,
		eventController,
		authMiddleware,
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
		logger.Error("Server shutdown failed", err)
	}
	menuScheduler.Stop()
	stopHub()

	logger.Info("Server stopped successfully")
}
