package di

import (
	"context"
	"fmt"
	"time"

	catalogapp "shop-backend/application/catalog"
	"shop-backend/application/commands"
	"shop-backend/application/commands/bus"
	cmdhandlers "shop-backend/application/commands/handlers"
	"shop-backend/application/imports"
	"shop-backend/application/ingest"
	"shop-backend/application/ports"
	"shop-backend/application/queries"
	querybus "shop-backend/application/queries/bus"
	queryhandlers "shop-backend/application/queries/handlers"
	"shop-backend/infrastructure/config"
	asynqmq "shop-backend/infrastructure/messaging/asynq"
	"shop-backend/infrastructure/messaging/eventbridge"
	"shop-backend/infrastructure/messaging/sns"
	sqsmq "shop-backend/infrastructure/messaging/sqs"
	"shop-backend/infrastructure/persistence/dynamodb"
	"shop-backend/infrastructure/storage/minio"
	"shop-backend/infrastructure/storage/s3"
	"shop-backend/interfaces/http/rest"
	"shop-backend/interfaces/lambda"
	"shop-backend/interfaces/worker"
	"shop-backend/pkg/auth"
	"shop-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Failed Basic auth attempts allowed per client IP before /import answers 429
const (
	authFailureLimit  = 5
	authFailureWindow = 15 * time.Minute
)

// ObjectStorage is a blob backend that can also presign uploads
type ObjectStorage interface {
	ports.BlobStore
	ports.UploadSigner
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", cfg.ServiceName)), nil
}

// ProvideAWSConfig creates AWS configuration. AWS_ENDPOINT_URL points every
// client at a local emulator.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}

	if cfg.AWSEndpoint != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.AWSEndpoint)
	}

	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client. Emulators need path-style addressing.
func ProvideS3Client(awsCfg aws.Config, cfg *config.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.UsePathStyle = cfg.AWSEndpoint != ""
	})
}

// ProvideSQSClient creates an SQS client
func ProvideSQSClient(awsCfg aws.Config) *awssqs.Client {
	return awssqs.NewFromConfig(awsCfg)
}

// ProvideSNSClient creates an SNS client
func ProvideSNSClient(awsCfg aws.Config) *awssns.Client {
	return awssns.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideMetrics creates metrics instance. CloudWatch publishing is only
// enabled by ENABLE_METRICS; the Prometheus collectors are always live.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return observability.NewMetrics(cfg.MetricsPrefix, nil)
	}
	return observability.NewMetrics(cfg.MetricsPrefix, client)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(cfg.ServiceName, cfg.EnableTracing)
}

// ProvideObjectStorage selects the blob backend named by BLOB_BACKEND
func ProvideObjectStorage(ctx context.Context, cfg *config.Config, client *awss3.Client, logger *zap.Logger) (ObjectStorage, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendMinIO:
		store, err := minio.NewBlobStore(minio.Config{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			UseSSL:    cfg.MinIOUseSSL,
			Region:    cfg.AWSRegion,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		if cfg.IsDevelopment() {
			if err := store.EnsureBucket(ctx, cfg.ImportBucket); err != nil {
				return nil, err
			}
		}
		return store, nil
	case config.BlobBackendS3:
		return s3.NewBlobStoreFromClient(client, logger), nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}

// ProvideBlobStore exposes the read/relocate half of the storage backend
func ProvideBlobStore(storage ObjectStorage) ports.BlobStore {
	return storage
}

// ProvideUploadSigner exposes the presign half of the storage backend
func ProvideUploadSigner(storage ObjectStorage) ports.UploadSigner {
	return storage
}

// ProvideBatchQueue selects the queue backend named by QUEUE_BACKEND
func ProvideBatchQueue(cfg *config.Config, client *awssqs.Client, logger *zap.Logger) (ports.BatchQueue, func(), error) {
	switch cfg.QueueBackend {
	case config.QueueBackendAsynq:
		queue, err := asynqmq.NewBatchQueue(cfg.RedisURL, cfg.AsynqQueue, cfg.AsynqMaxRetry, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create asynq client: %w", err)
		}
		cleanup := func() {
			if err := queue.Close(); err != nil {
				logger.Warn("Failed to close asynq client", zap.Error(err))
			}
		}
		return queue, cleanup, nil
	case config.QueueBackendSQS:
		return sqsmq.NewBatchQueue(client, cfg.QueueURL, logger), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown queue backend %q", cfg.QueueBackend)
	}
}

// ProvideNotifier selects the notification backend named by NOTIFY_BACKEND
func ProvideNotifier(cfg *config.Config, snsClient *awssns.Client, ebClient *awseventbridge.Client, logger *zap.Logger) (ports.Notifier, error) {
	switch cfg.NotifyBackend {
	case config.NotifyBackendEventBridge:
		return eventbridge.NewNotifier(ebClient, cfg.EventBusName, logger), nil
	case config.NotifyBackendSNS:
		return sns.NewNotifier(snsClient, cfg.TopicARN, logger), nil
	default:
		return nil, fmt.Errorf("unknown notify backend %q", cfg.NotifyBackend)
	}
}

// ProvideCatalogStore creates the transactional catalog store
func ProvideCatalogStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.CatalogStore {
	return dynamodb.NewCatalogStore(client, cfg.ProductsTable, cfg.StockTable, logger)
}

// ProvideProductReader creates the product read path behind a circuit breaker
func ProvideProductReader(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ProductReader {
	reader := dynamodb.NewProductReader(client, cfg.ProductsTable, cfg.StockTable, logger)
	return dynamodb.NewBreakingProductReader(reader, dynamodb.DefaultCircuitBreakerConfig("product-reader"), logger)
}

// ProvideTransactionWriter creates the product/stock item builder
func ProvideTransactionWriter() *catalogapp.TransactionWriter {
	return catalogapp.NewTransactionWriter()
}

// ProvideProducer creates the CSV import producer
func ProvideProducer(
	blobs ports.BlobStore,
	queue ports.BatchQueue,
	cfg *config.Config,
	logger *zap.Logger,
	tracer *observability.Tracer,
	metrics *observability.Metrics,
) (*ingest.Producer, error) {
	return ingest.NewProducer(blobs, queue, ingest.ProducerConfig{
		BatchSize:       cfg.BatchSize,
		IncomingPrefix:  cfg.IncomingPrefix,
		ProcessedPrefix: cfg.ProcessedPrefix,
	}, logger, tracer, metrics)
}

// ProvideCoordinator creates the batch coordinator
func ProvideCoordinator(
	store ports.CatalogStore,
	notifier ports.Notifier,
	writer *catalogapp.TransactionWriter,
	cfg *config.Config,
	logger *zap.Logger,
	tracer *observability.Tracer,
	metrics *observability.Metrics,
) *catalogapp.Coordinator {
	return catalogapp.NewCoordinator(store, notifier, writer, cfg.BatchTimeout, logger, tracer, metrics)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	store ports.CatalogStore,
	writer *catalogapp.TransactionWriter,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
	)

	if err := commandBus.Register(commands.CreateProductCommand{}, cmdhandlers.NewCreateProductHandler(store, writer, logger)); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	reader ports.ProductReader,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(metrics)

	if err := queryBus.Register(queries.ListProductsQuery{}, queryhandlers.NewListProductsHandler(reader, logger)); err != nil {
		return nil, err
	}
	if err := queryBus.Register(queries.GetProductQuery{}, queryhandlers.NewGetProductHandler(reader, logger)); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideImportService creates the presigned upload service
func ProvideImportService(signer ports.UploadSigner, cfg *config.Config, logger *zap.Logger) *imports.Service {
	return imports.NewService(signer, cfg.ImportBucket, cfg.IncomingPrefix, cfg.PresignTTL, logger)
}

// ProvideBasicChecker parses CREDENTIALS
func ProvideBasicChecker(cfg *config.Config) *auth.BasicChecker {
	return auth.NewBasicChecker(cfg.Credentials)
}

// ProvideRedisClient connects to REDIS_URL. Without one it returns nil and
// callers fall back to in-process state.
func ProvideRedisClient(cfg *config.Config, logger *zap.Logger) (redis.UniversalClient, func(), error) {
	if cfg.RedisURL == "" {
		return nil, func() {}, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	return client, cleanup, nil
}

// ProvideFailureLimiter tracks failed Basic auth attempts per client IP.
// With Redis the count is shared across instances.
func ProvideFailureLimiter(client redis.UniversalClient) *auth.FailureLimiter {
	if client == nil {
		return auth.NewFailureLimiter(auth.NewSlidingWindowLimiter(authFailureLimit, authFailureWindow))
	}
	return auth.NewFailureLimiter(auth.NewRedisRateLimiter(client, authFailureLimit, authFailureWindow, "basic-auth"))
}

// ProvideReadinessCheck reports ready once the products table is reachable
func ProvideReadinessCheck(client *awsdynamodb.Client, cfg *config.Config) rest.ReadinessCheck {
	return func(ctx context.Context) error {
		_, err := client.DescribeTable(ctx, &awsdynamodb.DescribeTableInput{
			TableName: aws.String(cfg.ProductsTable),
		})
		return err
	}
}

// ProvideRouterConfig maps configuration flags onto the router
func ProvideRouterConfig(cfg *config.Config) rest.RouterConfig {
	return rest.RouterConfig{
		EnableCORS:  cfg.EnableCORS,
		RequireAuth: cfg.RequireAuthHTTP,
		Debug:       cfg.IsDevelopment(),
	}
}

// ProvideS3Handler creates the import-file-parser Lambda handler
func ProvideS3Handler(producer *ingest.Producer, metrics *observability.Metrics, logger *zap.Logger) *lambda.S3Handler {
	return lambda.NewS3Handler(producer, metrics, logger)
}

// ProvideSQSHandler creates the catalog-batch-process Lambda handler
func ProvideSQSHandler(coordinator *catalogapp.Coordinator, metrics *observability.Metrics, logger *zap.Logger) *lambda.SQSHandler {
	return lambda.NewSQSHandler(coordinator, metrics, logger)
}

// ProvideAuthorizerHandler creates the token authorizer Lambda handler
func ProvideAuthorizerHandler(checker *auth.BasicChecker, logger *zap.Logger) *lambda.AuthorizerHandler {
	return lambda.NewAuthorizerHandler(checker, logger)
}

// ProvideRunner selects the out-of-Lambda consumer for QUEUE_BACKEND
func ProvideRunner(
	cfg *config.Config,
	client *awssqs.Client,
	coordinator *catalogapp.Coordinator,
	logger *zap.Logger,
) (worker.Runner, error) {
	handle := worker.BatchFunc(coordinator, logger)

	switch cfg.QueueBackend {
	case config.QueueBackendAsynq:
		server, err := asynqmq.NewServer(cfg.RedisURL, cfg.AsynqQueue, cfg.AsynqConcurrency, handle, logger)
		if err != nil {
			return nil, err
		}
		return server, nil
	case config.QueueBackendSQS:
		if cfg.QueueURL == "" {
			return nil, fmt.Errorf("SQS_URL is required to poll the sqs queue")
		}
		poller := sqsmq.NewPoller(client, cfg.QueueURL, ports.MaxQueueBatch, logger)
		return worker.NewPollerRunner(poller, handle), nil
	default:
		return nil, fmt.Errorf("unknown queue backend %q", cfg.QueueBackend)
	}
}
