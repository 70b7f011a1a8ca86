package asynq

import (
	"context"
	"fmt"

	"shop-backend/application/ports"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultQueue is used when no queue name is configured
const DefaultQueue = "catalog"

// BatchQueue implements ports.BatchQueue on a Redis-backed asynq queue.
// One SendBatch call becomes one task.
type BatchQueue struct {
	client   *asynq.Client
	queue    string
	maxRetry int
	logger   *zap.Logger
}

// RedisClientOpt converts a redis:// URL into asynq connection options
func RedisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	if redisURL == "" {
		return asynq.RedisClientOpt{}, fmt.Errorf("redis url not configured")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

// NewBatchQueue connects to redisURL and enqueues onto queue
func NewBatchQueue(redisURL, queue string, maxRetry int, logger *zap.Logger) (*BatchQueue, error) {
	opt, err := RedisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}
	if queue == "" {
		queue = DefaultQueue
	}
	if maxRetry < 0 {
		maxRetry = 0
	}

	return &BatchQueue{
		client:   asynq.NewClient(opt),
		queue:    queue,
		maxRetry: maxRetry,
		logger:   logger,
	}, nil
}

// Close releases the Redis connection
func (q *BatchQueue) Close() error {
	if q == nil || q.client == nil {
		return nil
	}
	return q.client.Close()
}

// SendBatch enqueues bodies as one catalog.batch task
func (q *BatchQueue) SendBatch(ctx context.Context, bodies [][]byte) error {
	if len(bodies) == 0 {
		return nil
	}
	if len(bodies) > ports.MaxQueueBatch {
		return fmt.Errorf("batch of %d exceeds queue limit of %d", len(bodies), ports.MaxQueueBatch)
	}

	batchID := uuid.NewString()
	task, err := NewCatalogBatchTask(batchID, bodies)
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(q.queue),
		asynq.TaskID(batchID),
		asynq.MaxRetry(q.maxRetry),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue batch: %w", err)
	}

	q.logger.Debug("Batch enqueued",
		zap.String("task_id", info.ID),
		zap.String("queue", info.Queue),
		zap.Int("count", len(bodies)),
	)
	return nil
}
