// Package worker runs the batch coordinator outside Lambda, fed either by
// an asynq queue or by long-polling SQS.
package worker

import (
	"context"
	"fmt"

	catalogapp "shop-backend/application/catalog"
	"shop-backend/application/ports"
	sqsmq "shop-backend/infrastructure/messaging/sqs"

	"go.uber.org/zap"
)

// Runner is a queue consumer that blocks until ctx is cancelled
type Runner interface {
	Run(ctx context.Context) error
}

// BatchFunc adapts the coordinator to the queue consumers. Only retryable
// outcomes come back as errors, so rejected batches are acknowledged.
func BatchFunc(coordinator *catalogapp.Coordinator, logger *zap.Logger) func(ctx context.Context, messages []ports.QueueMessage) error {
	return func(ctx context.Context, messages []ports.QueueMessage) error {
		outcome := coordinator.HandleBatch(ctx, messages)
		if outcome.Retryable() {
			return fmt.Errorf("%s: %w", outcome.Message, outcome.Err)
		}
		if outcome.State == catalogapp.StateRejected {
			logger.Warn("Acknowledging batch with no valid records", zap.Int("received", outcome.Received))
		}
		return nil
	}
}

// PollerRunner drives an SQS poller as a Runner
type PollerRunner struct {
	poller *sqsmq.Poller
	handle sqsmq.BatchHandler
}

// NewPollerRunner binds handle to poller
func NewPollerRunner(poller *sqsmq.Poller, handle sqsmq.BatchHandler) *PollerRunner {
	return &PollerRunner{poller: poller, handle: handle}
}

// Run polls until ctx is cancelled
func (r *PollerRunner) Run(ctx context.Context) error {
	return r.poller.Run(ctx, r.handle)
}
