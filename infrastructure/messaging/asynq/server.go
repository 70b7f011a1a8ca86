package asynq

import (
	"context"
	"fmt"

	"shop-backend/application/ports"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BatchHandler processes one delivered batch. A non-nil error makes asynq
// retry the task.
type BatchHandler func(ctx context.Context, messages []ports.QueueMessage) error

// Server consumes catalog.batch tasks
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// NewServer creates a consumer for queue with the given concurrency
func NewServer(redisURL, queue string, concurrency int, handle BatchHandler, logger *zap.Logger) (*Server, error) {
	opt, err := RedisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}
	if queue == "" {
		queue = DefaultQueue
	}
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queue: 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskCatalogBatch, TaskHandler(handle, logger))

	return &Server{server: server, mux: mux, logger: logger}, nil
}

// TaskHandler adapts a BatchHandler to asynq. Undecodable payloads are
// skipped since retrying them can never succeed.
func TaskHandler(handle BatchHandler, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		messages, err := ParseCatalogBatchPayload(task)
		if err != nil {
			logger.Error("Dropping malformed batch task", zap.Error(err))
			return fmt.Errorf("decode batch: %v: %w", err, asynq.SkipRetry)
		}
		return handle(ctx, messages)
	}
}

// Run starts the processors and blocks until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	if err := s.server.Start(s.mux); err != nil {
		s.logger.Error("Worker failed to start", zap.Error(err))
		return err
	}
	<-ctx.Done()
	s.server.Shutdown()
	return nil
}
