package catalog

import (
	"context"
	"net/http"
	"time"

	"shop-backend/application/batching"
	"shop-backend/application/ports"
	"shop-backend/domain/catalog"
	"shop-backend/domain/catalog/validators"
	"shop-backend/pkg/errors"
	"shop-backend/pkg/observability"

	"go.uber.org/zap"
)

// DefaultBatchTimeout bounds one HandleBatch invocation
const DefaultBatchTimeout = 5 * time.Second

const (
	MessageNoValidProducts = "No valid products to process"
	MessageBatchCreated    = "Products and stocks created successfully"
	MessageInternalError   = "Internal Server Error"
)

// State is a step of the batch state machine:
// RECEIVED -> VALIDATING -> REJECTED | COMMITTING -> PUBLISHING | FAILED -> DONE | FAILED
type State string

const (
	StateReceived   State = "RECEIVED"
	StateValidating State = "VALIDATING"
	StateRejected   State = "REJECTED"
	StateCommitting State = "COMMITTING"
	StatePublishing State = "PUBLISHING"
	StateDone       State = "DONE"
	StateFailed     State = "FAILED"
)

// Outcome reports how a batch ended
type Outcome struct {
	State      State
	StatusCode int
	Message    string
	Received   int
	Rejected   int
	Committed  int
	Published  int
	// Err is set for FAILED outcomes
	Err error
}

// Retryable reports whether the platform should redeliver the batch
func (o Outcome) Retryable() bool {
	return o.StatusCode >= http.StatusInternalServerError
}

// Coordinator drains one queue batch: validate every record, commit all
// survivors in a single transaction, then publish their notifications.
type Coordinator struct {
	store    ports.CatalogStore
	notifier ports.Notifier
	writer   *TransactionWriter
	timeout  time.Duration
	logger   *zap.Logger
	tracer   *observability.Tracer
	metrics  *observability.Metrics
}

// NewCoordinator creates a coordinator. A non-positive timeout uses DefaultBatchTimeout.
func NewCoordinator(
	store ports.CatalogStore,
	notifier ports.Notifier,
	writer *TransactionWriter,
	timeout time.Duration,
	logger *zap.Logger,
	tracer *observability.Tracer,
	metrics *observability.Metrics,
) *Coordinator {
	if writer == nil {
		writer = NewTransactionWriter()
	}
	if timeout <= 0 {
		timeout = DefaultBatchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		store:    store,
		notifier: notifier,
		writer:   writer,
		timeout:  timeout,
		logger:   logger,
		tracer:   tracer,
		metrics:  metrics,
	}
}

// HandleBatch runs one batch through the state machine under the configured deadline
func (c *Coordinator) HandleBatch(ctx context.Context, messages []ports.QueueMessage) Outcome {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	outcome := c.run(ctx, messages)
	c.metrics.RecordLatency("batch", time.Since(start))
	c.metrics.RecordBatchOutcome(string(outcome.State), outcome.Rejected, outcome.Committed, outcome.Published)

	fields := []zap.Field{
		zap.String("state", string(outcome.State)),
		zap.Int("status", outcome.StatusCode),
		zap.Int("received", outcome.Received),
		zap.Int("rejected", outcome.Rejected),
		zap.Int("committed", outcome.Committed),
		zap.Int("published", outcome.Published),
	}
	switch outcome.State {
	case StateFailed:
		c.logger.Error("Batch failed", append(fields, zap.Error(outcome.Err))...)
	case StateRejected:
		c.logger.Warn("Batch rejected", fields...)
	default:
		c.logger.Info("Batch processed", fields...)
	}
	return outcome
}

func (c *Coordinator) run(ctx context.Context, messages []ports.QueueMessage) Outcome {
	outcome := Outcome{State: StateReceived, Received: len(messages)}

	outcome.State = StateValidating
	prepared := make([]PreparedRecord, 0, len(messages))
	for _, msg := range messages {
		rec, err := validators.DecodeAndValidate(msg.Body)
		if err != nil {
			outcome.Rejected++
			fields := []zap.Field{zap.String("message_id", msg.ID), zap.Error(err)}
			if appErr := errors.GetAppError(err); appErr != nil && appErr.Details != nil {
				fields = append(fields, zap.Any("details", appErr.Details))
			}
			c.logger.Warn("Dropping invalid record", fields...)
			continue
		}

		p, err := c.writer.Prepare(rec)
		if err != nil {
			return failed(outcome, errors.Wrap(err, "prepare record"))
		}
		prepared = append(prepared, p)
	}

	if len(prepared) == 0 {
		outcome.State = StateRejected
		outcome.StatusCode = http.StatusBadRequest
		outcome.Message = MessageNoValidProducts
		return outcome
	}

	outcome.State = StateCommitting
	items := make([]catalog.WriteItem, 0, len(prepared)*2)
	notifications := make([]catalog.Notification, 0, len(prepared))
	for _, p := range prepared {
		items = append(items, p.Items[:]...)
		notifications = append(notifications, p.Notification)
	}

	commitStart := time.Now()
	err := c.tracer.TraceFunction(ctx, "store.Commit", func(ctx context.Context) error {
		return c.store.Commit(ctx, items)
	})
	c.metrics.RecordLatency("store.Commit", time.Since(commitStart))
	if err != nil {
		if errors.GetAppError(err) == nil {
			err = errors.NewStoreTransactionError(err)
		}
		return failed(outcome, err)
	}
	outcome.Committed = len(prepared)

	outcome.State = StatePublishing
	for i, group := range batching.Chunk(notifications, ports.MaxPublishBatch) {
		publishStart := time.Now()
		err := c.tracer.TraceFunction(ctx, "notifier.PublishBatch", func(ctx context.Context) error {
			return c.notifier.PublishBatch(ctx, group)
		})
		c.metrics.RecordLatency("notifier.PublishBatch", time.Since(publishStart))
		if err != nil {
			if errors.GetAppError(err) == nil {
				err = errors.NewTransportError("notifier", err)
			}
			c.logger.Error("Notification group failed after commit",
				zap.Int("group", i),
				zap.Int("group_size", len(group)),
				zap.Int("already_published", outcome.Published),
			)
			return failed(outcome, err)
		}
		outcome.Published += len(group)
	}

	outcome.State = StateDone
	outcome.StatusCode = http.StatusCreated
	outcome.Message = MessageBatchCreated
	return outcome
}

func failed(outcome Outcome, err error) Outcome {
	outcome.State = StateFailed
	outcome.StatusCode = http.StatusInternalServerError
	outcome.Message = MessageInternalError
	outcome.Err = err
	return outcome
}
