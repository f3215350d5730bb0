package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/go-actor/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-actor/pkg/actor"
	"github.com/jsamuelsen11/go-actor/pkg/logging"
)

// writeJSON writes v as the JSON body. Encoding failures go to the request
// logger; the status line is already out by then.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode response",
			slog.String("path", r.URL.Path), slog.Any("error", err))
	}
}

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

// decodeValues decodes the request body as actor values. The body is
// limited to maxJSONBodyBytes to prevent resource exhaustion. On failure,
// it writes a 400 error response and returns false.
func decodeValues(w http.ResponseWriter, r *http.Request) (actor.Values, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	values, err := dto.DecodeValues(r.Body)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return nil, false
	}
	return values, true
}
