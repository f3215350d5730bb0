package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsamuelsen11/go-actor/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-actor/internal/platform/httpclient"
	"github.com/jsamuelsen11/go-actor/pkg/logging"
)

func TestLogging_HandlerLoggerCarriesIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := middleware.RequestIDs()(middleware.Logging(jsonLogger(&buf))(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			logging.FromContext(r.Context()).InfoContext(r.Context(), "stock reserved")
		})))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/actors/ReserveStock/call", http.NoBody)
	req.Header.Set(httpclient.HeaderRequestID, "req-42")
	req.Header.Set(httpclient.HeaderCorrelationID, "order-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entry := logEntry(t, &buf, "stock reserved")
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "order-42", entry["correlation_id"])
}

func TestLogging_OmitsActorFieldsOffActorRoutes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := middleware.Logging(jsonLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))

	entry := logEntry(t, &buf, "request completed")
	assert.NotContains(t, entry, "actor")
	assert.NotContains(t, entry, "outcome")
	assert.Equal(t, "/health/ready", entry["path"])
	assert.Equal(t, "WARN", entry["level"])
}

func TestLogging_RedactsCredentialHeaders(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := middleware.Logging(jsonLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/actors/ChargeCard/call", http.NoBody)
	req.Header.Set("Authorization", "Bearer sk_live_abc")
	req.Header.Set(httpclient.IdempotencyKeyHeader, "charge-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	headers, ok := logEntry(t, &buf, "request headers")["headers"].(map[string]any)
	if assert.True(t, ok) {
		assert.Equal(t, "[REDACTED]", headers["Authorization"])
		assert.Equal(t, "charge-1", headers["Idempotency-Key"])
	}
	assert.NotContains(t, buf.String(), "sk_live_abc")
}
