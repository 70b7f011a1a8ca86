package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop-backend/infrastructure/config"
	asynqmq "shop-backend/infrastructure/messaging/asynq"
	"shop-backend/infrastructure/messaging/eventbridge"
	"shop-backend/infrastructure/messaging/sns"
	sqsmq "shop-backend/infrastructure/messaging/sqs"
	"shop-backend/infrastructure/storage/s3"
	"shop-backend/interfaces/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Environment = "test"
	cfg.QueueURL = "https://sqs.eu-west-1.amazonaws.com/123456789012/catalog"
	cfg.TopicARN = "arn:aws:sns:eu-west-1:123456789012:create-product"
	return cfg
}

func TestProvideLogger(t *testing.T) {
	cfg := testConfig()
	logger, err := ProvideLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.LogLevel = "loud"
	_, err = ProvideLogger(cfg)
	assert.Error(t, err)
}

func TestProvideAWSConfig_EndpointOverride(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	cfg := testConfig()
	cfg.AWSEndpoint = "http://localhost:4566"

	awsCfg, err := ProvideAWSConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", awsCfg.Region)
	assert.Equal(t, "http://localhost:4566", aws.ToString(awsCfg.BaseEndpoint))
}

func TestProvideObjectStorage(t *testing.T) {
	cfg := testConfig()
	client := ProvideS3Client(aws.Config{Region: "eu-west-1"}, cfg)

	storage, err := ProvideObjectStorage(context.Background(), cfg, client, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &s3.BlobStore{}, storage)
	assert.Same(t, storage, ProvideBlobStore(storage))
	assert.Same(t, storage, ProvideUploadSigner(storage))

	cfg.BlobBackend = "ftp"
	_, err = ProvideObjectStorage(context.Background(), cfg, client, zap.NewNop())
	assert.Error(t, err)
}

func TestProvideBatchQueue(t *testing.T) {
	cfg := testConfig()
	sqsClient := ProvideSQSClient(aws.Config{Region: "eu-west-1"})

	queue, cleanup, err := ProvideBatchQueue(cfg, sqsClient, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &sqsmq.BatchQueue{}, queue)
	cleanup()

	redisServer := miniredis.RunT(t)
	cfg.QueueBackend = config.QueueBackendAsynq
	cfg.RedisURL = "redis://" + redisServer.Addr()
	queue, cleanup, err = ProvideBatchQueue(cfg, sqsClient, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &asynqmq.BatchQueue{}, queue)
	cleanup()
}

func TestProvideNotifier(t *testing.T) {
	cfg := testConfig()
	awsCfg := aws.Config{Region: "eu-west-1"}

	notifier, err := ProvideNotifier(cfg, ProvideSNSClient(awsCfg), ProvideEventBridgeClient(awsCfg), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &sns.Notifier{}, notifier)

	cfg.NotifyBackend = config.NotifyBackendEventBridge
	notifier, err = ProvideNotifier(cfg, ProvideSNSClient(awsCfg), ProvideEventBridgeClient(awsCfg), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &eventbridge.Notifier{}, notifier)
}

func TestProvideFailureLimiter(t *testing.T) {
	ctx := context.Background()

	local := ProvideFailureLimiter(nil)
	for i := 0; i < authFailureLimit; i++ {
		require.NoError(t, local.RecordFailure(ctx, "10.0.0.1"))
	}
	assert.True(t, local.Blocked(ctx, "10.0.0.1"))

	redisServer := miniredis.RunT(t)
	client, cleanup, err := ProvideRedisClient(&config.Config{RedisURL: "redis://" + redisServer.Addr()}, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	shared := ProvideFailureLimiter(client)
	for i := 0; i < authFailureLimit; i++ {
		require.NoError(t, shared.RecordFailure(ctx, "10.0.0.2"))
	}
	assert.True(t, shared.Blocked(ctx, "10.0.0.2"))
	assert.True(t, redisServer.Exists("ratelimit:basic-auth:ip:10.0.0.2"))
}

func TestProvideRunner(t *testing.T) {
	cfg := testConfig()
	sqsClient := ProvideSQSClient(aws.Config{Region: "eu-west-1"})

	runner, err := ProvideRunner(cfg, sqsClient, nil, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &worker.PollerRunner{}, runner)

	cfg.QueueURL = ""
	_, err = ProvideRunner(cfg, sqsClient, nil, zap.NewNop())
	assert.Error(t, err)

	cfg.QueueBackend = config.QueueBackendAsynq
	cfg.RedisURL = "redis://" + miniredis.RunT(t).Addr()
	runner, err = ProvideRunner(cfg, sqsClient, nil, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &asynqmq.Server{}, runner)
}

func TestInitializeAPI_Health(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	api, cleanup, err := InitializeAPI(context.Background(), testConfig())
	require.NoError(t, err)
	defer cleanup()

	rr := httptest.NewRecorder()
	api.Router.Setup().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())
}

func TestInitializeAuthorizer(t *testing.T) {
	cfg := testConfig()
	cfg.Credentials = "admin=TEST_PASSWORD"

	authorizer, err := InitializeAuthorizer(cfg)
	require.NoError(t, err)
	assert.NotNil(t, authorizer.Handler)
}
