package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestMetrics_FlushSendsBufferedData(t *testing.T) {
	cw := &fakeCloudWatch{}
	m := NewMetrics("Shop/test", cw)

	m.RecordRows(12, 1)
	m.RecordBatchSent(5, nil)
	m.RecordBatchOutcome("DONE", 1, 2, 2)
	m.RecordLatency("commit", 25*time.Millisecond)
	require.Greater(t, m.Pending(), 0)

	require.NoError(t, m.Flush(context.Background()))
	require.Len(t, cw.inputs, 1)
	assert.Equal(t, "Shop/test", *cw.inputs[0].Namespace)
	assert.Equal(t, 0, m.Pending())

	assert.Equal(t, float64(12), testutil.ToFloat64(m.rows.WithLabelValues("read")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.outcomes.WithLabelValues("DONE")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.notifications))
}

func TestMetrics_FlushErrorClearsBuffer(t *testing.T) {
	cw := &fakeCloudWatch{err: errors.New("throttled")}
	m := NewMetrics("Shop/test", cw)
	m.RecordBatchSent(3, errors.New("send failed"))

	assert.Error(t, m.Flush(context.Background()))
	assert.Equal(t, 0, m.Pending())
}

func TestMetrics_WithoutCloudWatch(t *testing.T) {
	m := NewMetrics("Shop/test", nil)
	m.RecordRows(3, 0)

	assert.Equal(t, 0, m.Pending())
	assert.NoError(t, m.Flush(context.Background()))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "catalog_import_rows_total")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRows(1, 1)
	m.RecordBatchOutcome("FAILED", 0, 0, 0)
	assert.NoError(t, m.Flush(context.Background()))
	assert.Equal(t, 0, m.Pending())
}

func TestTracer_DisabledRunsFunction(t *testing.T) {
	tracer := NewTracer("catalog", false)
	called := false
	err := tracer.TraceFunction(context.Background(), "commit", func(ctx context.Context) error {
		called = true
		return errors.New("boom")
	})

	assert.True(t, called)
	assert.EqualError(t, err, "boom")
}

func TestTracer_EnabledWithoutSegment(t *testing.T) {
	tracer := NewTracer("catalog", true)
	err := tracer.TraceFunction(context.Background(), "publish", func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}
