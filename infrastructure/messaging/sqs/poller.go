package sqs

import (
	"context"
	"time"

	"shop-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

// ReceiveAPI is the subset of the SQS client used by the long-poll worker
type ReceiveAPI interface {
	ReceiveMessage(ctx context.Context, params *awssqs.ReceiveMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.ReceiveMessageOutput, error)
	DeleteMessageBatch(ctx context.Context, params *awssqs.DeleteMessageBatchInput, optFns ...func(*awssqs.Options)) (*awssqs.DeleteMessageBatchOutput, error)
}

// BatchHandler processes one received batch. A non-nil error leaves the
// messages on the queue so they are delivered again.
type BatchHandler func(ctx context.Context, messages []ports.QueueMessage) error

// Poller drains an SQS queue outside Lambda
type Poller struct {
	client   ReceiveAPI
	queueURL string
	maxBatch int32
	wait     int32
	backoff  time.Duration
	logger   *zap.Logger
}

// NewPoller creates a poller that receives up to maxBatch messages per call
func NewPoller(client ReceiveAPI, queueURL string, maxBatch int, logger *zap.Logger) *Poller {
	if maxBatch < 1 || maxBatch > ports.MaxQueueBatch {
		maxBatch = ports.MaxQueueBatch
	}
	return &Poller{
		client:   client,
		queueURL: queueURL,
		maxBatch: int32(maxBatch),
		wait:     20,
		backoff:  time.Second,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled
func (p *Poller) Run(ctx context.Context, handle BatchHandler) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := p.PollOnce(ctx, handle); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Error("Poll failed", zap.Error(err))
			select {
			case <-time.After(p.backoff):
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// PollOnce receives one batch, hands it to handle and deletes it on success
func (p *Poller) PollOnce(ctx context.Context, handle BatchHandler) error {
	out, err := p.client.ReceiveMessage(ctx, &awssqs.ReceiveMessageInput{
		QueueUrl:            aws.String(p.queueURL),
		MaxNumberOfMessages: p.maxBatch,
		WaitTimeSeconds:     p.wait,
	})
	if err != nil {
		return err
	}
	if len(out.Messages) == 0 {
		return nil
	}

	messages := make([]ports.QueueMessage, 0, len(out.Messages))
	receipts := make([]types.DeleteMessageBatchRequestEntry, 0, len(out.Messages))
	for _, m := range out.Messages {
		messages = append(messages, ports.QueueMessage{
			ID:   aws.ToString(m.MessageId),
			Body: []byte(aws.ToString(m.Body)),
		})
		receipts = append(receipts, types.DeleteMessageBatchRequestEntry{
			Id:            m.MessageId,
			ReceiptHandle: m.ReceiptHandle,
		})
	}

	if err := handle(ctx, messages); err != nil {
		p.logger.Warn("Batch left for redelivery", zap.Int("count", len(messages)), zap.Error(err))
		return nil
	}

	del, err := p.client.DeleteMessageBatch(ctx, &awssqs.DeleteMessageBatchInput{
		QueueUrl: aws.String(p.queueURL),
		Entries:  receipts,
	})
	if err != nil {
		return err
	}
	for _, f := range del.Failed {
		p.logger.Warn("Failed to delete message", zap.String("id", aws.ToString(f.Id)), zap.String("code", aws.ToString(f.Code)))
	}
	return nil
}
