//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"shop-backend/infrastructure/config"
	"shop-backend/interfaces/http/rest"

	"github.com/google/wire"
)

// CoreSet provides logging, AWS configuration and observability
var CoreSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideCloudWatchClient,
	ProvideMetrics,
	ProvideTracer,
)

// StorageSet provides the blob backend and upload signer
var StorageSet = wire.NewSet(
	ProvideS3Client,
	ProvideObjectStorage,
	ProvideBlobStore,
	ProvideUploadSigner,
)

// MessagingSet provides the batch queue and notifier
var MessagingSet = wire.NewSet(
	ProvideSQSClient,
	ProvideSNSClient,
	ProvideEventBridgeClient,
	ProvideBatchQueue,
	ProvideNotifier,
)

// CatalogSet provides the catalog store, read path and buses
var CatalogSet = wire.NewSet(
	ProvideDynamoDBClient,
	ProvideCatalogStore,
	ProvideProductReader,
	ProvideTransactionWriter,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideReadinessCheck,
)

// AuthSet provides Basic auth checking and failure limiting
var AuthSet = wire.NewSet(
	ProvideBasicChecker,
	ProvideRedisClient,
	ProvideFailureLimiter,
)

// InitializeIngestion wires the CSV producer behind the S3 event handler
func InitializeIngestion(ctx context.Context, cfg *config.Config) (*Ingestion, func(), error) {
	wire.Build(
		CoreSet,
		StorageSet,
		MessagingSet,
		ProvideProducer,
		ProvideS3Handler,
		wire.Struct(new(Ingestion), "*"),
	)
	return nil, nil, nil
}

// InitializeBatchProcessor wires the coordinator behind the SQS event handler
func InitializeBatchProcessor(ctx context.Context, cfg *config.Config) (*BatchProcessor, func(), error) {
	wire.Build(
		CoreSet,
		MessagingSet,
		CatalogSet,
		ProvideCoordinator,
		ProvideSQSHandler,
		wire.Struct(new(BatchProcessor), "*"),
	)
	return nil, nil, nil
}

// InitializeWorker wires the coordinator behind a long-running queue consumer
func InitializeWorker(ctx context.Context, cfg *config.Config) (*Worker, func(), error) {
	wire.Build(
		CoreSet,
		MessagingSet,
		CatalogSet,
		ProvideCoordinator,
		ProvideRunner,
		wire.Struct(new(Worker), "*"),
	)
	return nil, nil, nil
}

// InitializeAPI wires the HTTP router
func InitializeAPI(ctx context.Context, cfg *config.Config) (*API, func(), error) {
	wire.Build(
		CoreSet,
		StorageSet,
		CatalogSet,
		AuthSet,
		ProvideImportService,
		ProvideRouterConfig,
		rest.NewRouter,
		wire.Struct(new(API), "*"),
	)
	return nil, nil, nil
}

// InitializeAuthorizer wires the token authorizer
func InitializeAuthorizer(cfg *config.Config) (*Authorizer, error) {
	wire.Build(
		ProvideLogger,
		ProvideBasicChecker,
		ProvideAuthorizerHandler,
		wire.Struct(new(Authorizer), "*"),
	)
	return nil, nil
}
