package sns

import (
	"context"
	"fmt"

	"shop-backend/application/ports"
	"shop-backend/domain/catalog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
)

// PriceAttribute is the message attribute subscribers filter on
const PriceAttribute = "price"

// PublishAPI is the subset of the SNS client the notifier needs
type PublishAPI interface {
	PublishBatch(ctx context.Context, params *awssns.PublishBatchInput, optFns ...func(*awssns.Options)) (*awssns.PublishBatchOutput, error)
}

// Notifier implements ports.Notifier on an SNS topic
type Notifier struct {
	client   PublishAPI
	topicARN string
	logger   *zap.Logger
}

// NewNotifier creates an SNS notifier
func NewNotifier(client PublishAPI, topicARN string, logger *zap.Logger) *Notifier {
	return &Notifier{
		client:   client,
		topicARN: topicARN,
		logger:   logger,
	}
}

// PublishBatch sends the group as one PublishBatch call
func (n *Notifier) PublishBatch(ctx context.Context, notifications []catalog.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if len(notifications) > ports.MaxPublishBatch {
		return fmt.Errorf("batch of %d exceeds publish limit of %d", len(notifications), ports.MaxPublishBatch)
	}

	entries := make([]types.PublishBatchRequestEntry, 0, len(notifications))
	for _, note := range notifications {
		entries = append(entries, types.PublishBatchRequestEntry{
			Id:      aws.String(note.ID),
			Subject: aws.String(note.Subject),
			Message: aws.String(string(note.Payload)),
			MessageAttributes: map[string]types.MessageAttributeValue{
				PriceAttribute: {
					DataType:    aws.String("Number"),
					StringValue: aws.String(note.Price.String()),
				},
			},
		})
	}

	out, err := n.client.PublishBatch(ctx, &awssns.PublishBatchInput{
		TopicArn:                   aws.String(n.topicARN),
		PublishBatchRequestEntries: entries,
	})
	if err != nil {
		return fmt.Errorf("failed to publish notifications: %w", err)
	}

	if len(out.Failed) > 0 {
		for _, f := range out.Failed {
			n.logger.Error("Notification rejected",
				zap.String("product_id", aws.ToString(f.Id)),
				zap.String("code", aws.ToString(f.Code)),
				zap.String("message", aws.ToString(f.Message)),
			)
		}
		return fmt.Errorf("%d of %d notifications failed to publish", len(out.Failed), len(notifications))
	}

	n.logger.Debug("Notifications published", zap.Int("count", len(entries)), zap.String("topic", n.topicARN))
	return nil
}
