package ingest

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"shop-backend/application/batching"
	"shop-backend/application/ports"
	"shop-backend/pkg/errors"
	"shop-backend/pkg/observability"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	DefaultBatchSize       = 5
	DefaultIncomingPrefix  = "uploaded/"
	DefaultProcessedPrefix = "parsed/"
)

// Batch is an ordered group of raw row payloads sent as one queue call
type Batch [][]byte

// IngestResult summarises one pass over a source stream
type IngestResult struct {
	BatchesSent int
	RowsRead    int
	RowsSkipped int
	// Errors holds one entry per batch the queue refused
	Errors []error
}

// Err combines the per-batch send failures, or returns nil
func (r IngestResult) Err() error {
	return multierr.Combine(r.Errors...)
}

// ProducerConfig controls batching and object relocation
type ProducerConfig struct {
	BatchSize       int
	IncomingPrefix  string
	ProcessedPrefix string
}

// Producer streams uploaded CSV objects into the batch queue
type Producer struct {
	blobs   ports.BlobStore
	queue   ports.BatchQueue
	cfg     ProducerConfig
	logger  *zap.Logger
	tracer  *observability.Tracer
	metrics *observability.Metrics
}

// NewProducer creates a producer. Zero config values fall back to defaults.
func NewProducer(
	blobs ports.BlobStore,
	queue ports.BatchQueue,
	cfg ProducerConfig,
	logger *zap.Logger,
	tracer *observability.Tracer,
	metrics *observability.Metrics,
) (*Producer, error) {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchSize < 1 || cfg.BatchSize > ports.MaxQueueBatch {
		return nil, fmt.Errorf("batch size must be between 1 and %d, got %d", ports.MaxQueueBatch, cfg.BatchSize)
	}
	if cfg.IncomingPrefix == "" {
		cfg.IncomingPrefix = DefaultIncomingPrefix
	}
	if cfg.ProcessedPrefix == "" {
		cfg.ProcessedPrefix = DefaultProcessedPrefix
	}
	if cfg.IncomingPrefix == cfg.ProcessedPrefix {
		return nil, fmt.Errorf("incoming and processed prefixes must differ")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Producer{
		blobs:   blobs,
		queue:   queue,
		cfg:     cfg,
		logger:  logger,
		tracer:  tracer,
		metrics: metrics,
	}, nil
}

// Ingest reads source to the end, sending every full batch as soon as it
// fills and the trailing partial batch at end of stream. A refused batch is
// recorded and streaming continues. The returned error is set only when the
// stream itself could not be read.
func (p *Producer) Ingest(ctx context.Context, source io.Reader) (IngestResult, error) {
	var result IngestResult

	acc, err := batching.NewAccumulator[[]byte](p.cfg.BatchSize)
	if err != nil {
		return result, err
	}

	rows := NewRowReader(source)
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		row, err := rows.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var rowErr *RowError
			if stderrors.As(err, &rowErr) {
				result.RowsSkipped++
				p.logger.Warn("Skipping malformed row",
					zap.Int("line", rowErr.Line),
					zap.Error(rowErr.Err),
				)
				continue
			}
			return result, errors.Wrap(err, "read csv stream")
		}

		result.RowsRead++
		if batch, full := acc.Add(row); full {
			p.send(ctx, batch, &result)
		}
	}

	if batch := acc.Flush(); batch != nil {
		p.send(ctx, batch, &result)
	}

	p.metrics.RecordRows(result.RowsRead, result.RowsSkipped)
	return result, nil
}

func (p *Producer) send(ctx context.Context, batch Batch, result *IngestResult) {
	start := time.Now()
	err := p.tracer.TraceFunction(ctx, "queue.SendBatch", func(ctx context.Context) error {
		return p.queue.SendBatch(ctx, batch)
	})
	p.metrics.RecordLatency("queue.SendBatch", time.Since(start))
	p.metrics.RecordBatchSent(len(batch), err)

	if err != nil {
		if errors.GetAppError(err) == nil {
			err = errors.NewTransportError("queue", err)
		}
		result.Errors = append(result.Errors, err)
		p.logger.Error("Failed to send batch",
			zap.Int("batch_size", len(batch)),
			zap.Int("batch_index", result.BatchesSent+len(result.Errors)),
			zap.Error(err),
		)
		return
	}

	result.BatchesSent++
	p.logger.Debug("Batch sent", zap.Int("batch_size", len(batch)))
}

// ProcessedKey maps an incoming key to its processed location
func (p *Producer) ProcessedKey(key string) (string, bool) {
	if !strings.HasPrefix(key, p.cfg.IncomingPrefix) {
		return "", false
	}
	return p.cfg.ProcessedPrefix + strings.TrimPrefix(key, p.cfg.IncomingPrefix), true
}

// ProcessObject ingests one uploaded object and then relocates it from the
// incoming prefix to the processed prefix. Relocation runs once every batch
// has been dispatched, whether or not each send succeeded, and is a copy
// followed by a delete. The object is left in place when the stream could
// not be read to the end.
func (p *Producer) ProcessObject(ctx context.Context, bucket, key string) (IngestResult, error) {
	processedKey, ok := p.ProcessedKey(key)
	if !ok {
		return IngestResult{}, errors.NewValidationError(
			fmt.Sprintf("object key %q is outside prefix %q", key, p.cfg.IncomingPrefix))
	}

	logger := p.logger.With(zap.String("bucket", bucket), zap.String("key", key))
	logger.Info("Processing uploaded file")

	body, err := p.blobs.Get(ctx, bucket, key)
	if err != nil {
		return IngestResult{}, errors.Wrap(err, "get object")
	}

	result, readErr := p.Ingest(ctx, body)
	if cerr := body.Close(); cerr != nil {
		logger.Warn("Failed to close object body", zap.Error(cerr))
	}
	if readErr != nil {
		logger.Error("Import stream aborted",
			zap.Int("rows_read", result.RowsRead),
			zap.Int("batches_sent", result.BatchesSent),
			zap.Error(readErr),
		)
		return result, multierr.Append(readErr, result.Err())
	}

	relocateErr := p.relocate(ctx, bucket, key, processedKey)

	logger.Info("Finished processing uploaded file",
		zap.Int("rows_read", result.RowsRead),
		zap.Int("rows_skipped", result.RowsSkipped),
		zap.Int("batches_sent", result.BatchesSent),
		zap.Int("batches_failed", len(result.Errors)),
		zap.String("processed_key", processedKey),
	)

	return result, multierr.Append(result.Err(), relocateErr)
}

func (p *Producer) relocate(ctx context.Context, bucket, key, processedKey string) error {
	if err := p.blobs.Copy(ctx, bucket, key, processedKey); err != nil {
		return errors.Wrap(err, "copy object to processed prefix")
	}
	if err := p.blobs.Delete(ctx, bucket, key); err != nil {
		return errors.Wrap(err, "delete incoming object")
	}
	return nil
}
