// Package remote lets actors play actors served by another gateway. A
// Gateway wraps the instrumented HTTP client; each Actor it hands out
// implements actor.Caller and can be played with actor.External.
//
// Calls go to POST /api/v1/actors/{name}/result, so a remote business
// failure arrives as a normal response with its failure flag set and is
// reported as an error wrapping actor.ErrFailure. Transport and status
// errors are mapped to domain errors by TranslateHTTPError.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-actor/internal/platform/httpclient"
	"github.com/jsamuelsen11/go-actor/internal/platform/jsonvalue"
	"github.com/jsamuelsen11/go-actor/internal/ports"
	"github.com/jsamuelsen11/go-actor/pkg/actor"
)

// Compile-time interface checks.
var (
	_ actor.Caller        = (*Actor)(nil)
	_ ports.HealthChecker = (*Gateway)(nil)
)

// Gateway is the outbound adapter for another actor gateway.
type Gateway struct {
	req  *requester
	name string
}

// NewGateway creates a Gateway that sends requests through client. The
// client's BaseURL should point at the remote gateway root and its name is
// used for health reporting.
func NewGateway(client *httpclient.Client, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gateway{
		req:  &requester{client: client, logger: logger},
		name: client.Name(),
	}
}

// Actor returns a Caller for the remote actor called name.
func (g *Gateway) Actor(name string) *Actor {
	return &Actor{gateway: g, name: name}
}

// Actor is one actor served by a remote gateway.
type Actor struct {
	gateway *Gateway
	name    string
}

// resultResponse mirrors the gateway's result body.
type resultResponse struct {
	ID      string          `json:"id"`
	Failure bool            `json:"failure"`
	Success bool            `json:"success"`
	Values  json.RawMessage `json:"values"`
}

// Call sends values to the remote actor and returns the remote result
// values. Every call carries a fresh Idempotency-Key so the client may
// retry it.
func (a *Actor) Call(ctx context.Context, values actor.Values) (actor.Values, error) {
	path := "/api/v1/actors/" + url.PathEscape(a.name) + "/result"
	header := http.Header{}
	header.Set(httpclient.IdempotencyKeyHeader, uuid.NewString())

	var resp resultResponse
	var out actor.Values
	err := a.gateway.req.post(ctx, path, header, values, http.StatusOK, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(&resp); err != nil {
			return err
		}
		decoded, err := jsonvalue.DecodeBytes(resp.Values)
		if err != nil {
			return err
		}
		out = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Failure {
		return out, fmt.Errorf("remote actor %s: %w", a.name, actor.ErrFailure)
	}
	return out, nil
}

// Name returns the identifier used when this component is registered with a
// [ports.HealthRegistry]. It matches the service name of the underlying
// [httpclient.Client] used for tracing and metrics.
func (g *Gateway) Name() string {
	return g.name
}

// HealthCheck reports the remote gateway's availability from the client's
// circuit breaker. No network call is made.
func (g *Gateway) HealthCheck(ctx context.Context) error {
	return g.req.client.HealthCheck(ctx)
}
