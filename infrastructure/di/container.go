package di

import (
	catalogapp "shop-backend/application/catalog"
	"shop-backend/application/ingest"
	"shop-backend/infrastructure/config"
	"shop-backend/interfaces/http/rest"
	"shop-backend/interfaces/lambda"
	"shop-backend/interfaces/worker"
	"shop-backend/pkg/observability"

	"go.uber.org/zap"
)

// Ingestion holds the dependencies of the import-file-parser function
type Ingestion struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Producer *ingest.Producer
	Handler  *lambda.S3Handler
}

// BatchProcessor holds the dependencies of the catalog-batch-process function
type BatchProcessor struct {
	Config      *config.Config
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	Coordinator *catalogapp.Coordinator
	Handler     *lambda.SQSHandler
}

// Worker holds a long-running queue consumer
type Worker struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Runner  worker.Runner
}

// API holds the HTTP surface shared by the local server and the Lambda proxy
type API struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Router  *rest.Router
}

// Authorizer holds the token authorizer function
type Authorizer struct {
	Config  *config.Config
	Logger  *zap.Logger
	Handler *lambda.AuthorizerHandler
}
