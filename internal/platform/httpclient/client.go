// Package httpclient is the outbound client the gateway uses to run actors
// hosted by another gateway. Every call passes through, in order:
//
//	breaker → rate limiter → forwarded headers → client span → retry → transport
//
// Actor calls are POSTs with side effects, so a call is only sent more than
// once when it carries an Idempotency-Key header. A 5xx or 429 that is still
// there after the last attempt counts against the breaker, like a
// transport error does.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/go-actor/internal/platform/config"
	"github.com/jsamuelsen11/go-actor/pkg/telemetry"
)

// IdempotencyKeyHeader marks a POST as safe to resend. The receiving
// gateway is expected to deduplicate on it.
const IdempotencyKeyHeader = "Idempotency-Key"

// Headers echoed from the inbound request onto every outbound call.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// Forwarded holds the inbound identifiers the client echoes on outbound
// calls.
type Forwarded struct {
	RequestID     string
	CorrelationID string
}

type forwardedKey struct{}

// WithForwarded stores f for every call made with the returned context.
func WithForwarded(ctx context.Context, f Forwarded) context.Context {
	return context.WithValue(ctx, forwardedKey{}, f)
}

// ForwardedFrom returns what WithForwarded stored, or the zero Forwarded.
func ForwardedFrom(ctx context.Context) Forwarded {
	f, _ := ctx.Value(forwardedKey{}).(Forwarded)
	return f
}

// Client calls one remote gateway.
type Client struct {
	service string
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	limiter *rate.Limiter
	retry   retryPolicy
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// New builds a Client for the gateway at cfg.BaseURL. service names it in
// spans, metrics, logs and health checks. metrics may be nil.
func New(cfg *config.ClientConfig, service string, metrics *telemetry.Metrics, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Client{
		service: service,
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		retry:   newRetryPolicy(cfg.Retry),
		metrics: metrics,
		logger:  logger.With(slog.String("peer_service", service)),
	}
	c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        service,
		MaxRequests: clampUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			c.logger.Warn("remote gateway breaker changed state",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	if rl := cfg.RateLimit; rl.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), max(rl.BurstSize, 1))
	}
	return c
}

// Do sends req. A response whose status is still retryable after the last
// attempt is returned together with an error; the caller closes its body
// in both cases. A rejected or failed call returns a nil response.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		forward(ctx, req)

		ctx, span := otel.Tracer("httpclient").Start(ctx, "HTTP "+req.Method+" "+c.service,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				telemetry.AttrHTTPMethod.String(req.Method),
				telemetry.AttrPeerService.String(c.service),
			),
		)
		defer span.End()
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

		resp, err := c.send(ctx, req.WithContext(ctx))
		if resp != nil {
			span.SetAttributes(telemetry.AttrHTTPStatus.Int(resp.StatusCode))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return resp, err
	})

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.metrics.RecordClientRequest(ctx, c.service, req.Method, status, time.Since(start))
	return resp, err
}

func forward(ctx context.Context, req *http.Request) {
	f := ForwardedFrom(ctx)
	if f.RequestID != "" {
		req.Header.Set(HeaderRequestID, f.RequestID)
	}
	if f.CorrelationID != "" {
		req.Header.Set(HeaderCorrelationID, f.CorrelationID)
	}
}

// BaseURL is the remote gateway root.
func (c *Client) BaseURL() string { return c.baseURL }

// Name is the service name given to New.
func (c *Client) Name() string { return c.service }

// BreakerState is "closed", "half-open" or "open".
func (c *Client) BreakerState() string { return c.breaker.State().String() }

// HealthCheck reports the breaker state without calling the remote
// gateway: closed is healthy, half-open and open are not.
func (c *Client) HealthCheck(context.Context) error {
	switch state := c.breaker.State(); state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded, breaker half-open", c.service)
	default:
		return fmt.Errorf("%s: unavailable, breaker %s", c.service, state)
	}
}

func clampUint32(v int) uint32 {
	switch {
	case v <= 0:
		return 0
	case uint64(v) > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(v)
}
