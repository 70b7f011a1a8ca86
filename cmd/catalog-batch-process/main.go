// Command catalog-batch-process commits queued catalog records and publishes
// product notifications. It is triggered by SQS batches.
package main

import (
	"context"
	"log"

	"shop-backend/infrastructure/config"
	"shop-backend/infrastructure/di"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, cleanup, err := di.InitializeBatchProcessor(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	lambda.Start(container.Handler.Handle)
}
