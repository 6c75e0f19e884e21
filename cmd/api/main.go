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

	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/cache"
	"github.com/BarkinBalci/app-stats-service/internal/config"
	"github.com/BarkinBalci/app-stats-service/internal/handler"
	"github.com/BarkinBalci/app-stats-service/internal/logger"
	"github.com/BarkinBalci/app-stats-service/internal/queue/sqs"
	"github.com/BarkinBalci/app-stats-service/internal/repository/sqlstore"
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx := context.Background()

	// Initialize store
	store, err := sqlstore.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Optional dashboard cache
	var dashboardCache service.DashboardCache
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		dashboardCache = cache.NewDashboardCache(redisClient, cfg.Redis.DashboardTTL, log)
		log.Info("Dashboard cache enabled", zap.Duration("ttl", cfg.Redis.DashboardTTL))
	}

	stats := service.NewStats(store, log)
	services := handler.Services{
		Recorder:   service.NewRecorder(store, log),
		Stats:      stats,
		Timeseries: service.NewTimeseries(store, log),
		Apps:       service.NewApps(store, stats, dashboardCache, log),
		Health:     store,
	}

	// Optional asynchronous ingestion
	if cfg.SQS.Enabled() {
		sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
		if err != nil {
			log.Fatal("Failed to create SQS client", zap.Error(err))
		}
		services.Publisher = sqsClient
	}

	if cfg.Auth.APIKey == "" {
		log.Warn("API key not set, authentication is disabled")
	}

	h := handler.NewHandler(services, cfg.Auth.APIKey, log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Service.APIPort),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("API server starting", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down API server gracefully")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("API server shutdown error", zap.Error(err))
	}
}
