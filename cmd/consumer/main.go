package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/archive/clickhouse"
	"github.com/BarkinBalci/app-stats-service/internal/config"
	"github.com/BarkinBalci/app-stats-service/internal/consumer"
	"github.com/BarkinBalci/app-stats-service/internal/logger"
	"github.com/BarkinBalci/app-stats-service/internal/queue/sqs"
	"github.com/BarkinBalci/app-stats-service/internal/repository/sqlstore"
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

func main() {
	// Load configuration
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

	log.Info("Starting consumer service",
		zap.String("environment", cfg.Service.Environment))

	if !cfg.SQS.Enabled() {
		log.Fatal("SQS_QUEUE_URL is required by the consumer")
	}

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

	// Optional ClickHouse archive
	var archiver consumer.EventArchiver
	if cfg.ClickHouse.Enabled() {
		chClient, err := clickhouse.NewClient(ctx, cfg.ClickHouse, log)
		if err != nil {
			log.Fatal("Failed to create ClickHouse client", zap.Error(err))
		}
		archive := clickhouse.NewArchive(chClient, log)
		defer func() {
			if err := archive.Close(); err != nil {
				log.Error("Failed to close ClickHouse client", zap.Error(err))
			}
		}()

		if err := archive.InitSchema(ctx); err != nil {
			log.Fatal("Failed to initialize archive schema", zap.Error(err))
		}
		archiver = archive
	}

	// Initialize SQS client
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	// Initialize consumer
	recorder := service.NewRecorder(store, log)
	c := consumer.NewConsumer(cfg, sqsClient, recorder, archiver, log)

	// Start health check endpoint
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := store.Ping(r.Context()); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		addr := ":" + cfg.Consumer.HealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	consumerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	log.Info("Consumer starting")

	go func() {
		defer close(done)
		if err := c.Start(consumerCtx); err != nil {
			log.Error("Consumer error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down consumer gracefully")
	cancel()

	// Wait for the pipeline to flush buffered batches
	<-done
	log.Info("Consumer stopped")
}
