package ports

import (
	"context"
	"io"
	"time"

	"shop-backend/domain/catalog"
)

const (
	// MaxQueueBatch is the most entries one SendBatch call may carry
	MaxQueueBatch = 10

	// MaxPublishBatch is the most notifications one PublishBatch call may carry
	MaxPublishBatch = 10
)

// BlobStore reads and relocates uploaded objects
type BlobStore interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Copy(ctx context.Context, bucket, srcKey, dstKey string) error
	Delete(ctx context.Context, bucket, key string) error
}

// UploadSigner issues time-limited upload URLs
type UploadSigner interface {
	PresignUpload(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// QueueMessage is one delivered queue entry
type QueueMessage struct {
	ID   string
	Body []byte
}

// BatchQueue hands row batches to the consumer side
type BatchQueue interface {
	// SendBatch enqueues 1..MaxQueueBatch bodies as one message group
	SendBatch(ctx context.Context, bodies [][]byte) error
}

// Notifier fans out product notifications
type Notifier interface {
	// PublishBatch publishes 1..MaxPublishBatch notifications in one call
	PublishBatch(ctx context.Context, notifications []catalog.Notification) error
}
