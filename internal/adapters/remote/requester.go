package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/go-actor/internal/domain"
	"github.com/jsamuelsen11/go-actor/internal/platform/httpclient"
)

// requester runs JSON POSTs through the instrumented client: marshaling,
// status validation, error translation and body cleanup.
type requester struct {
	client *httpclient.Client
	logger *slog.Logger
}

// post sends body to path with the given headers. A response with
// wantStatus is handed to decode; any other status is translated.
func (r *requester) post(ctx context.Context, path string, header http.Header, body any, wantStatus int, decode func(io.Reader) error) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling POST body for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.client.BaseURL()+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating POST request for %s: %w", path, err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")

	return r.execute(req, wantStatus, decode)
}

func (r *requester) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		r.logger.WarnContext(ctx, "failed to close response body",
			slog.String("error", err.Error()),
		)
	}
}

// execute sends the request and always closes the response body.
func (r *requester) execute(req *http.Request, wantStatus int, decode func(io.Reader) error) error {
	resp, err := r.client.Do(req.Context(), req)
	if err != nil {
		// Retries exhausted on a retryable status still return the response.
		if resp != nil {
			defer r.closeBody(req.Context(), resp)
			if resp.StatusCode != wantStatus {
				return TranslateHTTPError(resp)
			}
		}
		r.logger.ErrorContext(req.Context(), "request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)
		return transportError(req, err)
	}
	defer r.closeBody(req.Context(), resp)

	if resp.StatusCode != wantStatus {
		r.logger.ErrorContext(req.Context(), "unexpected status",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Int("status", resp.StatusCode),
			slog.Int("want_status", wantStatus),
		)
		return TranslateHTTPError(resp)
	}

	if err := decode(resp.Body); err != nil {
		return fmt.Errorf("decoding response from %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// transportError reports a request that got no usable response. Cancellation
// and deadlines pass through; an open breaker, a rate limiter rejection or a
// network failure means the remote gateway is unavailable.
func transportError(req *http.Request, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	return fmt.Errorf("%s %s: %w: %w", req.Method, req.URL.Path, domain.ErrUnavailable, err)
}
