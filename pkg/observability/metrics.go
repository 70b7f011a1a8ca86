package observability

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxDatumsPerPut is the CloudWatch limit on datums per PutMetricData call
const maxDatumsPerPut = 1000

// CloudWatchAPI is the subset of the CloudWatch client used here
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics records pipeline metrics into a Prometheus registry and buffers
// the same values for CloudWatch until Flush is called. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	namespace string
	client    CloudWatchAPI
	registry  *prometheus.Registry

	rows          *prometheus.CounterVec
	batches       *prometheus.CounterVec
	outcomes      *prometheus.CounterVec
	records       *prometheus.CounterVec
	notifications prometheus.Counter
	latency       *prometheus.HistogramVec

	mu      sync.Mutex
	pending []types.MetricDatum
}

// NewMetrics creates a new metrics instance. client may be nil, in which case
// only the Prometheus collectors are updated.
func NewMetrics(namespace string, client CloudWatchAPI) *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		namespace: namespace,
		client:    client,
		registry:  registry,
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "import_rows_total",
			Help:      "CSV rows read by the import producer",
		}, []string{"result"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "import_batches_total",
			Help:      "Row batches handed to the queue",
		}, []string{"status"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "batch_outcomes_total",
			Help:      "Consumer batch outcomes by final state",
		}, []string{"state"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "records_total",
			Help:      "Consumer records by result",
		}, []string{"result"}),
		notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "notifications_published_total",
			Help:      "Product notifications handed to the notifier",
		}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "catalog",
			Name:      "operation_duration_seconds",
			Help:      "Duration of pipeline operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	registry.MustRegister(m.rows, m.batches, m.outcomes, m.records, m.notifications, m.latency)
	return m
}

// Registry exposes the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRows records rows read and skipped by the producer
func (m *Metrics) RecordRows(read, skipped int) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues("read").Add(float64(read))
	m.rows.WithLabelValues("skipped").Add(float64(skipped))
	m.buffer("RowsRead", float64(read), types.StandardUnitCount, nil)
	m.buffer("RowsSkipped", float64(skipped), types.StandardUnitCount, nil)
}

// RecordBatchSent records one queue send attempt
func (m *Metrics) RecordBatchSent(size int, err error) {
	if m == nil {
		return
	}
	status := statusOf(err)
	m.batches.WithLabelValues(status).Inc()
	m.buffer("BatchesSent", 1, types.StandardUnitCount, map[string]string{"Status": status})
	if err == nil {
		m.buffer("BatchSize", float64(size), types.StandardUnitCount, nil)
	}
}

// RecordBatchOutcome records the final state of a consumer invocation
func (m *Metrics) RecordBatchOutcome(state string, rejected, committed, published int) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(state).Inc()
	m.records.WithLabelValues("rejected").Add(float64(rejected))
	m.records.WithLabelValues("committed").Add(float64(committed))
	m.notifications.Add(float64(published))

	m.buffer("BatchOutcome", 1, types.StandardUnitCount, map[string]string{"State": state})
	m.buffer("RecordsRejected", float64(rejected), types.StandardUnitCount, nil)
	m.buffer("RecordsCommitted", float64(committed), types.StandardUnitCount, nil)
	m.buffer("NotificationsPublished", float64(published), types.StandardUnitCount, nil)
}

// RecordLatency records latency for any operation
func (m *Metrics) RecordLatency(operation string, latency time.Duration) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(operation).Observe(latency.Seconds())
	m.buffer("OperationLatency", float64(latency.Milliseconds()), types.StandardUnitMilliseconds,
		map[string]string{"Operation": operation})
}

// Pending returns the number of datums waiting for Flush
func (m *Metrics) Pending() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Flush sends buffered datums to CloudWatch. The buffer is cleared even when
// the put fails; metrics are best effort.
func (m *Metrics) Flush(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	data := m.pending
	m.pending = nil
	m.mu.Unlock()

	if m.client == nil || len(data) == 0 {
		return nil
	}

	for start := 0; start < len(data); start += maxDatumsPerPut {
		end := start + maxDatumsPerPut
		if end > len(data) {
			end = len(data)
		}
		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: data[start:end],
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) buffer(name string, value float64, unit types.StandardUnit, dimensions map[string]string) {
	if m.client == nil {
		return
	}

	var cwDimensions []types.Dimension
	for k, v := range dimensions {
		cwDimensions = append(cwDimensions, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	m.mu.Lock()
	m.pending = append(m.pending, types.MetricDatum{
		MetricName: aws.String(name),
		Dimensions: cwDimensions,
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
	})
	m.mu.Unlock()
}

func statusOf(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
