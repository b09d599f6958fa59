package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/api"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/config"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/database"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/logging"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/repository"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/scheduler"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // Nothing useful to do on sync failure at exit

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	logger.Info("connected to database", zap.String("path", cfg.Database.Path))

	// Create repositories
	trancheRepo := repository.NewTrancheRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	couponRepo := repository.NewCouponRepository(db)

	// Create services
	scheduleService := service.NewScheduleService(
		db,
		trancheRepo,
		subscriptionRepo,
		couponRepo,
		cfg.Schedule.FrequencyPolicy,
		logger.Named("schedule"),
	)
	services := api.Services{
		System:   service.NewSystemService(db, cfg.Schedule.Cron),
		Tranche:  service.NewTrancheService(trancheRepo, cfg.Schedule.FrequencyPolicy),
		Schedule: scheduleService,
		Coupon:   service.NewCouponService(trancheRepo, couponRepo, logger.Named("coupon")),
	}

	sweep, err := scheduler.New(cfg.Schedule.Cron, scheduleService, logger.Named("scheduler"))
	if err != nil {
		logger.Fatal("failed to create scheduler", zap.Error(err))
	}
	if sweep != nil {
		sweep.Start()
	} else {
		logger.Info("regeneration sweep disabled")
	}

	if cfg.Security.InternalAPIKey == "" {
		logger.Warn("INTERNAL_API_KEY is not set, mutating endpoints will refuse every request")
	}

	// Create router
	router := api.NewRouter(services, cfg, logger.Named("http"))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("starting server",
			zap.String("addr", cfg.Server.Addr),
			zap.String("frequency_policy", string(cfg.Schedule.FrequencyPolicy)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sweep != nil {
		sweep.Stop(ctx)
	}

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
