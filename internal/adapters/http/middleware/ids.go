package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-actor/internal/platform/httpclient"
)

const maxIDLength = 128

// RequestIDs takes X-Request-ID and X-Correlation-ID from the request. A
// missing or unusable request ID is replaced by a new UUID, and the
// correlation ID falls back to the request ID. Both are echoed on the
// response and stored with httpclient.WithForwarded, so the access log sees
// them and calls to remote gateways carry them on.
func RequestIDs() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ids := httpclient.Forwarded{
				RequestID:     r.Header.Get(httpclient.HeaderRequestID),
				CorrelationID: r.Header.Get(httpclient.HeaderCorrelationID),
			}
			if !usableID(ids.RequestID) {
				ids.RequestID = uuid.NewString()
			}
			if !usableID(ids.CorrelationID) {
				ids.CorrelationID = ids.RequestID
			}

			w.Header().Set(httpclient.HeaderRequestID, ids.RequestID)
			w.Header().Set(httpclient.HeaderCorrelationID, ids.CorrelationID)
			next.ServeHTTP(w, r.WithContext(httpclient.WithForwarded(r.Context(), ids)))
		})
	}
}

// usableID rejects empty, oversized and non-printable IDs, which would end
// up verbatim in logs and outbound headers.
func usableID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	return !strings.ContainsFunc(id, func(r rune) bool { return r < 0x21 || r > 0x7e })
}
