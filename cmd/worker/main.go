// Command worker consumes catalog batches outside Lambda, from asynq or by
// long-polling SQS depending on QUEUE_BACKEND.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-backend/infrastructure/config"
	"shop-backend/infrastructure/di"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, cleanup, err := di.InitializeWorker(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	container.Logger.Info("Starting worker", zap.String("queue_backend", cfg.QueueBackend))

	if err := container.Runner.Run(ctx); err != nil {
		container.Logger.Error("Worker stopped with error", zap.Error(err))
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := container.Metrics.Flush(flushCtx); err != nil {
		container.Logger.Warn("Failed to flush metrics", zap.Error(err))
	}

	_ = container.Logger.Sync()
	log.Println("Worker stopped")
}
