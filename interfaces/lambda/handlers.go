// Package lambda adapts AWS Lambda events to the catalog import pipeline.
package lambda

import (
	"context"
	"fmt"

	catalogapp "shop-backend/application/catalog"
	"shop-backend/application/ingest"
	"shop-backend/application/ports"
	"shop-backend/pkg/auth"
	"shop-backend/pkg/errors"
	"shop-backend/pkg/observability"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// S3Handler feeds every uploaded object named in an S3 event to the producer
type S3Handler struct {
	producer *ingest.Producer
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewS3Handler creates an S3 event handler
func NewS3Handler(producer *ingest.Producer, metrics *observability.Metrics, logger *zap.Logger) *S3Handler {
	return &S3Handler{producer: producer, metrics: metrics, logger: logger}
}

// Handle processes each record in turn. Keys outside the incoming prefix and
// objects that no longer exist are skipped; any other failure is returned so
// the invocation is retried.
func (h *S3Handler) Handle(ctx context.Context, event events.S3Event) error {
	defer h.flush(ctx)

	var errs error
	for _, record := range event.Records {
		bucket := record.S3.Bucket.Name
		key := record.S3.Object.URLDecodedKey
		if key == "" {
			key = record.S3.Object.Key
		}

		_, err := h.producer.ProcessObject(ctx, bucket, key)
		switch {
		case err == nil:
		case errors.IsValidation(err):
			h.logger.Warn("Ignoring object outside the import prefix", zap.String("key", key))
		case errors.IsNotFound(err):
			h.logger.Warn("Object already processed or removed", zap.String("key", key))
		default:
			errs = multierr.Append(errs, fmt.Errorf("%s/%s: %w", bucket, key, err))
		}
	}
	return errs
}

func (h *S3Handler) flush(ctx context.Context) {
	if err := h.metrics.Flush(ctx); err != nil {
		h.logger.Warn("Failed to flush metrics", zap.Error(err))
	}
}

// SQSHandler hands an SQS delivery to the batch coordinator
type SQSHandler struct {
	coordinator *catalogapp.Coordinator
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewSQSHandler creates an SQS event handler
func NewSQSHandler(coordinator *catalogapp.Coordinator, metrics *observability.Metrics, logger *zap.Logger) *SQSHandler {
	return &SQSHandler{coordinator: coordinator, metrics: metrics, logger: logger}
}

// Handle returns an error only for outcomes worth redelivering. Batches in
// which no record was valid are acknowledged since a retry cannot fix them.
func (h *SQSHandler) Handle(ctx context.Context, event events.SQSEvent) error {
	defer func() {
		if err := h.metrics.Flush(ctx); err != nil {
			h.logger.Warn("Failed to flush metrics", zap.Error(err))
		}
	}()

	outcome := h.coordinator.HandleBatch(ctx, Messages(event))
	if outcome.Retryable() {
		return fmt.Errorf("%s: %w", outcome.Message, outcome.Err)
	}
	return nil
}

// Messages converts an SQS event into queue messages
func Messages(event events.SQSEvent) []ports.QueueMessage {
	messages := make([]ports.QueueMessage, 0, len(event.Records))
	for _, r := range event.Records {
		messages = append(messages, ports.QueueMessage{ID: r.MessageId, Body: []byte(r.Body)})
	}
	return messages
}

// AuthorizerHandler is an API Gateway token authorizer backed by Basic credentials
type AuthorizerHandler struct {
	checker *auth.BasicChecker
	logger  *zap.Logger
}

// NewAuthorizerHandler creates a token authorizer
func NewAuthorizerHandler(checker *auth.BasicChecker, logger *zap.Logger) *AuthorizerHandler {
	return &AuthorizerHandler{checker: checker, logger: logger}
}

// Handle always answers with a policy; denial is expressed as a Deny effect
func (h *AuthorizerHandler) Handle(ctx context.Context, req events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	if req.Type != "TOKEN" || req.AuthorizationToken == "" {
		h.logger.Warn("No authorization token provided or wrong type", zap.String("type", req.Type))
		return auth.GeneratePolicy(auth.EffectDeny, req.MethodArn), nil
	}

	user, err := h.checker.Check(req.AuthorizationToken)
	if err != nil {
		h.logger.Warn("Authorization denied", zap.Error(err))
		return auth.GeneratePolicy(auth.EffectDeny, req.MethodArn), nil
	}

	h.logger.Info("Authorization granted", zap.String("user", user))
	return auth.GeneratePolicy(auth.EffectAllow, req.MethodArn), nil
}
