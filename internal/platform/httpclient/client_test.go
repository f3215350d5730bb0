package httpclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen11/go-actor/internal/platform/config"
	"github.com/jsamuelsen11/go-actor/internal/platform/httpclient"
	"github.com/jsamuelsen11/go-actor/pkg/telemetry"
)

// newClient points a client at ts with three fast attempts and a breaker
// that opens after two failed calls.
func newClient(t *testing.T, ts *httptest.Server, metrics *telemetry.Metrics) *httpclient.Client {
	t.Helper()
	return httpclient.New(&config.ClientConfig{
		BaseURL: ts.URL,
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: time.Millisecond,
			MaxInterval:     2 * time.Millisecond,
			Multiplier:      2,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   2,
			Timeout:       50 * time.Millisecond,
			HalfOpenLimit: 1,
		},
	}, "payments-gateway", metrics, nil)
}

// callActor posts a body to the remote call endpoint, optionally with an
// idempotency key, and returns the status (0 when no response arrived).
func callActor(t *testing.T, ctx context.Context, c *httpclient.Client, key string) (int, error) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL()+"/api/v1/actors/ChargeCard/call", strings.NewReader(`{"amount_cents":500}`))
	require.NoError(t, err)
	if key != "" {
		req.Header.Set(httpclient.IdempotencyKeyHeader, key)
	}
	resp, err := c.Do(ctx, req)
	if resp == nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, err
}

func TestDo_PostRetriedOnlyWithIdempotencyKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		key        string
		wantHits   int32
		wantStatus int
		wantErr    bool
	}{
		{name: "with key", key: "order-42", wantHits: 3, wantStatus: http.StatusOK},
		{name: "without key", wantHits: 1, wantStatus: http.StatusServiceUnavailable, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var hits atomic.Int32
			var mu sync.Mutex
			var bodies []string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, _ := io.ReadAll(r.Body)
				mu.Lock()
				bodies = append(bodies, string(b))
				mu.Unlock()
				if hits.Add(1) < 3 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))
			t.Cleanup(ts.Close)

			status, err := callActor(t, context.Background(), newClient(t, ts, nil), tt.key)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantHits, hits.Load())
			mu.Lock()
			defer mu.Unlock()
			for _, b := range bodies {
				assert.JSONEq(t, `{"amount_cents":500}`, b, "body replayed on every attempt")
			}
		})
	}
}

func TestDo_ServerErrorsOpenTheBreaker(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(ts.Close)
	c := newClient(t, ts, nil)

	for range 2 {
		status, err := callActor(t, context.Background(), c, "")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, status)
	}

	status, err := callActor(t, context.Background(), c, "")

	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Zero(t, status)
	assert.Equal(t, int32(2), hits.Load(), "open breaker does not reach the server")
	assert.Equal(t, "open", c.BreakerState())
	require.ErrorContains(t, c.HealthCheck(context.Background()), "payments-gateway: unavailable")
}

func TestDo_ClientErrorsKeepTheBreakerClosed(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(ts.Close)
	c := newClient(t, ts, nil)

	for range 5 {
		status, err := callActor(t, context.Background(), c, "order-1")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, status)
	}

	assert.Equal(t, "closed", c.BreakerState())
	require.NoError(t, c.HealthCheck(context.Background()))
}

func TestDo_CanceledCallsKeepTheBreakerClosed(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)
	c := newClient(t, ts, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for range 3 {
		_, err := callActor(t, ctx, c, "order-1")
		require.ErrorIs(t, err, context.Canceled)
	}

	assert.Equal(t, "closed", c.BreakerState())
}

func TestDo_BreakerRecoversAfterTimeout(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	failing.Store(true)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)
	c := newClient(t, ts, nil)

	for range 2 {
		_, _ = callActor(t, context.Background(), c, "")
	}
	require.Equal(t, "open", c.BreakerState())

	failing.Store(false)
	require.Eventually(t, func() bool { return c.BreakerState() == "half-open" },
		time.Second, 5*time.Millisecond)
	require.ErrorContains(t, c.HealthCheck(context.Background()), "degraded")

	status, err := callActor(t, context.Background(), c, "")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "closed", c.BreakerState())
}

func TestDo_ForwardsInboundIDs(t *testing.T) {
	t.Parallel()

	got := make(chan http.Header, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)
	ctx := httpclient.WithForwarded(context.Background(), httpclient.Forwarded{
		RequestID:     "req-1",
		CorrelationID: "corr-1",
	})

	_, err := callActor(t, ctx, newClient(t, ts, nil), "")

	require.NoError(t, err)
	h := <-got
	assert.Equal(t, "req-1", h.Get(httpclient.HeaderRequestID))
	assert.Equal(t, "corr-1", h.Get(httpclient.HeaderCorrelationID))
	assert.Empty(t, httpclient.ForwardedFrom(context.Background()))
}

func TestDo_RecordsClientMetrics(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	t.Cleanup(ts.Close)
	reader := sdkmetric.NewManualReader()
	metrics, err := telemetry.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)

	_, err = callActor(t, context.Background(), newClient(t, ts, metrics), "")
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if m.Name != "http.client.request.total" || !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				peer, _ := dp.Attributes.Value(telemetry.AttrPeerService)
				result, _ := dp.Attributes.Value(telemetry.AttrResult)
				assert.Equal(t, "payments-gateway", peer.AsString())
				assert.Equal(t, "error", result.AsString())
				assert.Equal(t, int64(1), dp.Value)
				found = true
			}
		}
	}
	assert.True(t, found, "client request counter recorded")
}

func TestDo_RateLimiterWaitsWithinTheDeadline(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)
	c := httpclient.New(&config.ClientConfig{
		BaseURL:        ts.URL,
		Timeout:        time.Second,
		Retry:          config.RetryConfig{MaxAttempts: 1},
		CircuitBreaker: config.CircuitBreakerConfig{MaxFailures: 5, Timeout: time.Second},
		RateLimit:      config.RateLimitConfig{RequestsPerSecond: 0.1, BurstSize: 1},
	}, "payments-gateway", nil, nil)

	_, err := callActor(t, context.Background(), c, "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = callActor(t, ctx, c, "")

	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}
