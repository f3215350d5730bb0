package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/jsamuelsen11/go-actor/internal/platform/config"
	"github.com/jsamuelsen11/go-actor/pkg/logging"
)

// retryPolicy is exponential backoff with ±25% jitter. The ceiling applies
// before the jitter.
type retryPolicy struct {
	attempts   int
	initial    time.Duration
	ceiling    time.Duration
	multiplier float64
}

func newRetryPolicy(cfg config.RetryConfig) retryPolicy {
	return retryPolicy{
		attempts:   max(cfg.MaxAttempts, 1),
		initial:    cfg.InitialInterval,
		ceiling:    cfg.MaxInterval,
		multiplier: cfg.Multiplier,
	}
}

// attemptsFor is 1 for a request that may not be resent.
func (p retryPolicy) attemptsFor(req *http.Request) int {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return p.attempts
	}
	if req.Header.Get(IdempotencyKeyHeader) != "" {
		return p.attempts
	}
	return 1
}

// delay is the wait before retry n, counting the first retry as 1.
func (p retryPolicy) delay(n int) time.Duration {
	d := float64(p.initial) * math.Pow(p.multiplier, float64(n-1))
	d = min(d, float64(p.ceiling))
	d += d * 0.25 * (2*rand.Float64() - 1) //nolint:gosec // jitter needs no secure source
	return time.Duration(max(d, 0))
}

// send runs the attempts for req. The body is read once and replayed.
func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		body = b
	}

	attempts := c.retry.attemptsFor(req)
	var lastErr error
	for n := range attempts {
		if n > 0 {
			if err := c.pause(ctx, req, n, lastErr); err != nil {
				return nil, err
			}
		}
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			req.ContentLength = int64(len(body))
		}

		resp, err := c.http.Do(req)
		switch {
		case err != nil:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			lastErr = err
		case !retryableStatus(resp.StatusCode):
			return resp, nil
		case n == attempts-1:
			return resp, fmt.Errorf("HTTP %d from %s", resp.StatusCode, c.service)
		default:
			lastErr = fmt.Errorf("HTTP %d from %s", resp.StatusCode, c.service)
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
	}
	return nil, lastErr
}

func (c *Client) pause(ctx context.Context, req *http.Request, n int, cause error) error {
	wait := c.retry.delay(n)
	logging.FromContext(ctx).WarnContext(ctx, "retrying remote actor call",
		slog.String("peer_service", c.service),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("attempt", n+1),
		slog.Int("max_attempts", c.retry.attempts),
		slog.Duration("backoff", wait),
		slog.Any("error", cause),
	)
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
