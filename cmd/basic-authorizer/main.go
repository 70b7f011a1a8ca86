// Command basic-authorizer is the API Gateway token authorizer guarding /import.
package main

import (
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

	container, err := di.InitializeAuthorizer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	lambda.Start(container.Handler.Handle)
}
