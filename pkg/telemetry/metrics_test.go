package telemetry_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen11/go-actor/pkg/telemetry"
)

func newMetrics(t *testing.T) (*telemetry.Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	m, err := telemetry.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)
	return m, reader
}

// counts sums every int64 counter point per metric name and result.
func counts(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				result, _ := dp.Attributes.Value(telemetry.AttrResult)
				out[m.Name] += dp.Value
				if result.Type() == attribute.STRING {
					out[m.Name+"/"+result.AsString()] += dp.Value
				}
			}
		}
	}
	return out
}

func TestMetrics_RecordCallAndRollback(t *testing.T) {
	t.Parallel()

	m, reader := newMetrics(t)
	m.RecordCall(t.Context(), "Increment", "completed", 5*time.Millisecond)
	m.RecordCall(t.Context(), "Increment", "failed", time.Millisecond)
	m.RecordRollback(t.Context(), "ReserveStock", "ok")

	got := counts(t, reader)
	assert.Equal(t, int64(2), got["actor.call.total"])
	assert.Equal(t, int64(1), got["actor.rollback.total/ok"])
}

func TestMetrics_RecordRequests(t *testing.T) {
	t.Parallel()

	m, reader := newMetrics(t)
	ctx := t.Context()
	m.RecordServerRequest(ctx, http.MethodPost, "/api/v1/actors/{name}/call", "Increment", http.StatusOK, time.Millisecond)
	m.RecordServerRequest(ctx, http.MethodPost, "/api/v1/actors/{name}/call", "Nope", http.StatusNotFound, time.Millisecond)
	m.RecordClientRequest(ctx, "payments-gateway", http.MethodPost, http.StatusBadGateway, time.Millisecond)
	m.RecordClientRequest(ctx, "payments-gateway", http.MethodPost, 0, time.Millisecond)

	got := counts(t, reader)
	assert.Equal(t, int64(1), got["http.server.request.total/success"])
	assert.Equal(t, int64(1), got["http.server.request.total/error"])
	assert.Equal(t, int64(2), got["http.client.request.total/error"])
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *telemetry.Metrics
	assert.NotPanics(t, func() {
		m.RecordCall(t.Context(), "Increment", "completed", time.Millisecond)
		m.RecordRollback(t.Context(), "Increment", "ok")
		m.RecordServerRequest(t.Context(), http.MethodGet, "unmatched", "", http.StatusNotFound, time.Millisecond)
		m.RecordClientRequest(t.Context(), "payments-gateway", http.MethodPost, 0, time.Millisecond)
	})
}

func TestMetricsFromContext(t *testing.T) {
	t.Parallel()

	assert.Nil(t, telemetry.MetricsFromContext(context.Background()))

	m := &telemetry.Metrics{}
	assert.Same(t, m, telemetry.MetricsFromContext(telemetry.WithMetrics(context.Background(), m)))
}
