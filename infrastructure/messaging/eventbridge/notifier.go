package eventbridge

import (
	"context"
	"fmt"

	"shop-backend/application/ports"
	"shop-backend/domain/catalog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awseb "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

const (
	// Source identifies catalog events on the bus
	Source = "shop.catalog"
	// DetailTypeProductCreated is the detail-type of every published event
	DetailTypeProductCreated = "ProductCreated"
)

// PutEventsAPI is the subset of the EventBridge client the notifier needs
type PutEventsAPI interface {
	PutEvents(ctx context.Context, params *awseb.PutEventsInput, optFns ...func(*awseb.Options)) (*awseb.PutEventsOutput, error)
}

// Notifier implements ports.Notifier on an EventBridge bus. Rules filter on
// detail.price, which the notification payload carries as a number.
type Notifier struct {
	client       PutEventsAPI
	eventBusName string
	logger       *zap.Logger
}

// NewNotifier creates an EventBridge notifier
func NewNotifier(client PutEventsAPI, eventBusName string, logger *zap.Logger) *Notifier {
	return &Notifier{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// PublishBatch sends the group as one PutEvents call
func (n *Notifier) PublishBatch(ctx context.Context, notifications []catalog.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if len(notifications) > ports.MaxPublishBatch {
		return fmt.Errorf("batch of %d exceeds publish limit of %d", len(notifications), ports.MaxPublishBatch)
	}

	entries := make([]types.PutEventsRequestEntry, 0, len(notifications))
	for _, note := range notifications {
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(n.eventBusName),
			Source:       aws.String(Source),
			DetailType:   aws.String(DetailTypeProductCreated),
			Detail:       aws.String(string(note.Payload)),
			Resources:    []string{fmt.Sprintf("arn:aws:shop:::product/%s", note.ID)},
		})
	}

	result, err := n.client.PutEvents(ctx, &awseb.PutEventsInput{Entries: entries})
	if err != nil {
		return fmt.Errorf("failed to publish events to EventBridge: %w", err)
	}

	if result.FailedEntryCount > 0 {
		for i, entry := range result.Entries {
			if entry.ErrorCode != nil {
				n.logger.Error("Failed to publish event",
					zap.String("product_id", notifications[i].ID),
					zap.String("errorCode", *entry.ErrorCode),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return fmt.Errorf("%d events failed to publish", result.FailedEntryCount)
	}

	n.logger.Debug("Events published to EventBridge",
		zap.Int("count", len(entries)),
		zap.String("eventBus", n.eventBusName),
	)
	return nil
}
