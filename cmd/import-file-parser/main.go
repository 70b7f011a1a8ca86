// Command import-file-parser streams CSV uploads into the catalog batch queue.
// It is triggered by S3 ObjectCreated events under the incoming prefix.
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

	container, cleanup, err := di.InitializeIngestion(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	lambda.Start(container.Handler.Handle)
}
