package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jsamuelsen11/go-actor/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-actor/internal/platform/httpclient"
)

func TestRequestIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		requestID     string
		correlationID string
		wantRequestID string // empty means a fresh UUID
		wantCorrID    string // empty means the request ID
	}{
		{name: "both missing"},
		{name: "inbound request ID kept", requestID: "req-1", wantRequestID: "req-1"},
		{
			name: "both kept", requestID: "req-1", correlationID: "order-9",
			wantRequestID: "req-1", wantCorrID: "order-9",
		},
		{name: "oversized request ID replaced", requestID: strings.Repeat("a", 129)},
		{name: "request ID with spaces replaced", requestID: "req 1\r\nX-Evil: 1"},
		{name: "bad correlation ID falls back", requestID: "req-2", correlationID: "a b", wantRequestID: "req-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got httpclient.Forwarded
			h := middleware.RequestIDs()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = httpclient.ForwardedFrom(r.Context())
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/actors/Increment/call", http.NoBody)
			if tt.requestID != "" {
				req.Header.Set(httpclient.HeaderRequestID, tt.requestID)
			}
			if tt.correlationID != "" {
				req.Header.Set(httpclient.HeaderCorrelationID, tt.correlationID)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if tt.wantRequestID == "" {
				assert.NoError(t, uuid.Validate(got.RequestID))
			} else {
				assert.Equal(t, tt.wantRequestID, got.RequestID)
			}
			wantCorr := tt.wantCorrID
			if wantCorr == "" {
				wantCorr = got.RequestID
			}
			assert.Equal(t, wantCorr, got.CorrelationID)
			assert.Equal(t, got.RequestID, rec.Header().Get(httpclient.HeaderRequestID))
			assert.Equal(t, got.CorrelationID, rec.Header().Get(httpclient.HeaderCorrelationID))
		})
	}
}
