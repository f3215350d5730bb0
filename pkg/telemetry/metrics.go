package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/jsamuelsen11/go-actor"

// Attribute keys for span and metric labels.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPRoute   = attribute.Key("http.route")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrPeerService = attribute.Key("peer.service")
	AttrResult      = attribute.Key("result")
	AttrActor       = attribute.Key("actor.name")
	AttrCallID      = attribute.Key("actor.call_id")
	AttrOutcome     = attribute.Key("actor.outcome")
)

// Metrics holds the gateway's instruments. Every Record method is safe on
// a nil *Metrics.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	ClientRequestDuration metric.Float64Histogram
	ClientRequestTotal    metric.Int64Counter
	ActorCallDuration     metric.Float64Histogram
	ActorCallTotal        metric.Int64Counter
	ActorRollbackTotal    metric.Int64Counter
}

// NewMetrics registers the instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(instrumentationName)

	var errs []error
	seconds := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		return h
	}
	count := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		return c
	}

	m := &Metrics{
		ServerRequestDuration: seconds("http.server.request.duration", "Duration of gateway requests"),
		ServerRequestTotal:    count("http.server.request.total", "Gateway requests by route and status", "{request}"),
		ClientRequestDuration: seconds("http.client.request.duration", "Duration of calls to remote actor services"),
		ClientRequestTotal:    count("http.client.request.total", "Calls to remote actor services", "{request}"),
		ActorCallDuration:     seconds("actor.call.duration", "Duration of actor runs, nested runs included"),
		ActorCallTotal:        count("actor.call.total", "Actor runs by outcome", "{call}"),
		ActorRollbackTotal:    count("actor.rollback.total", "Rollback hooks run", "{rollback}"),
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

// RecordCall counts one actor run and records its duration.
func (m *Metrics) RecordCall(ctx context.Context, actor, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrActor.String(actor), AttrOutcome.String(outcome))
	m.ActorCallTotal.Add(ctx, 1, attrs)
	m.ActorCallDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordRollback counts one rollback hook run. status is "ok" or "error".
func (m *Metrics) RecordRollback(ctx context.Context, actor, status string) {
	if m == nil {
		return
	}
	m.ActorRollbackTotal.Add(ctx, 1,
		metric.WithAttributes(AttrActor.String(actor), AttrResult.String(status)))
}

// RecordServerRequest records one gateway request. route is the chi route
// pattern, so every actor shares one series per endpoint; actor is empty
// for routes that do not name one.
func (m *Metrics) RecordServerRequest(ctx context.Context, method, route, actor string, status int, d time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		AttrHTTPMethod.String(method),
		AttrHTTPRoute.String(route),
		AttrHTTPStatus.Int(status),
		AttrResult.String(statusResult(status)),
	}
	if actor != "" {
		attrs = append(attrs, AttrActor.String(actor))
	}
	opt := metric.WithAttributes(attrs...)
	m.ServerRequestTotal.Add(ctx, 1, opt)
	m.ServerRequestDuration.Record(ctx, d.Seconds(), opt)
}

// RecordClientRequest records one outbound call to service. status is 0
// when no response arrived.
func (m *Metrics) RecordClientRequest(ctx context.Context, service, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	result := statusResult(status)
	if status == 0 {
		result = "error"
	}
	opt := metric.WithAttributes(
		AttrPeerService.String(service),
		AttrHTTPMethod.String(method),
		AttrHTTPStatus.Int(status),
		AttrResult.String(result),
	)
	m.ClientRequestTotal.Add(ctx, 1, opt)
	m.ClientRequestDuration.Record(ctx, d.Seconds(), opt)
}

func statusResult(status int) string {
	if status >= http.StatusBadRequest {
		return "error"
	}
	return "success"
}
