package sqs

import (
	"context"
	"fmt"
	"strconv"

	"shop-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

// SendAPI is the subset of the SQS client used by the producer side
type SendAPI interface {
	SendMessageBatch(ctx context.Context, params *awssqs.SendMessageBatchInput, optFns ...func(*awssqs.Options)) (*awssqs.SendMessageBatchOutput, error)
}

// BatchQueue implements ports.BatchQueue on an SQS queue
type BatchQueue struct {
	client   SendAPI
	queueURL string
	logger   *zap.Logger
}

// NewBatchQueue creates an SQS batch queue
func NewBatchQueue(client SendAPI, queueURL string, logger *zap.Logger) *BatchQueue {
	return &BatchQueue{
		client:   client,
		queueURL: queueURL,
		logger:   logger,
	}
}

// SendBatch sends every body as one entry of a single SendMessageBatch call.
// Any entry the queue reports as failed fails the whole call.
func (q *BatchQueue) SendBatch(ctx context.Context, bodies [][]byte) error {
	if len(bodies) == 0 {
		return nil
	}
	if len(bodies) > ports.MaxQueueBatch {
		return fmt.Errorf("batch of %d exceeds queue limit of %d", len(bodies), ports.MaxQueueBatch)
	}

	entries := make([]types.SendMessageBatchRequestEntry, 0, len(bodies))
	for i, body := range bodies {
		entries = append(entries, types.SendMessageBatchRequestEntry{
			Id:          aws.String("row-" + strconv.Itoa(i)),
			MessageBody: aws.String(string(body)),
		})
	}

	out, err := q.client.SendMessageBatch(ctx, &awssqs.SendMessageBatchInput{
		QueueUrl: aws.String(q.queueURL),
		Entries:  entries,
	})
	if err != nil {
		return fmt.Errorf("failed to send message batch: %w", err)
	}

	if len(out.Failed) > 0 {
		for _, f := range out.Failed {
			q.logger.Error("Queue entry rejected",
				zap.String("id", aws.ToString(f.Id)),
				zap.String("code", aws.ToString(f.Code)),
				zap.String("message", aws.ToString(f.Message)),
				zap.Bool("sender_fault", f.SenderFault),
			)
		}
		return fmt.Errorf("%d of %d messages failed to enqueue", len(out.Failed), len(bodies))
	}

	q.logger.Debug("Message batch sent", zap.Int("count", len(entries)))
	return nil
}
