// Package telemetry sets up OpenTelemetry for the actor gateway and holds
// the instruments every layer records into.
//
//	p, err := telemetry.Setup(ctx, telemetry.Config{ServiceName: "go-actor", Exporter: "stdout"})
//	defer p.Shutdown(ctx)
//	ctx = telemetry.WithMetrics(ctx, p.Metrics)
//
// Actor runs read the instruments back with MetricsFromContext.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Supported exporter names.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Errors returned by Setup.
var (
	ErrUnsupportedExporter = errors.New("unsupported exporter")
	ErrMissingEndpoint     = errors.New("otlp exporter requires an endpoint")
)

// Config selects where spans and metrics go. Endpoint is only read by the
// otlp exporter; an https URL turns TLS on.
type Config struct {
	ServiceName string
	Exporter    string
	Endpoint    string
}

// Providers owns the installed tracer and meter providers. The zero value
// stands for disabled telemetry: Metrics is nil and Shutdown does nothing.
type Providers struct {
	Metrics *Metrics

	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

// Setup builds both providers for cfg, installs them and the W3C trace
// context propagator as the otel globals, and registers the gateway's
// instruments on the meter.
func Setup(ctx context.Context, cfg Config) (*Providers, error) {
	exp, ok := exporterKinds[cfg.Exporter]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExporter, cfg.Exporter)
	}
	target, err := parseEndpoint(cfg.Exporter, cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	spans, err := exp.spans(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}
	readings, err := exp.metrics(ctx, target)
	if err != nil {
		_ = spans.Shutdown(ctx)
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	p := &Providers{
		tracer: sdktrace.NewTracerProvider(sdktrace.WithBatcher(spans), sdktrace.WithResource(res)),
		meter: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(readings)),
			sdkmetric.WithResource(res),
		),
	}
	if p.Metrics, err = NewMetrics(p.meter); err != nil {
		return nil, errors.Join(err, p.Shutdown(ctx))
	}

	otel.SetTracerProvider(p.tracer)
	otel.SetMeterProvider(p.meter)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return p, nil
}

// Shutdown flushes and stops both providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.tracer != nil {
		if err := p.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if p.meter != nil {
		if err := p.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// endpoint is where the otlp exporters send to.
type endpoint struct {
	hostPort string
	insecure bool
}

type exporterKind struct {
	spans   func(context.Context, endpoint) (sdktrace.SpanExporter, error)
	metrics func(context.Context, endpoint) (sdkmetric.Exporter, error)
}

var exporterKinds = map[string]exporterKind{
	ExporterStdout: {
		spans: func(context.Context, endpoint) (sdktrace.SpanExporter, error) {
			return stdouttrace.New(stdouttrace.WithPrettyPrint())
		},
		metrics: func(context.Context, endpoint) (sdkmetric.Exporter, error) {
			return stdoutmetric.New()
		},
	},
	ExporterOTLP: {
		spans: func(ctx context.Context, e endpoint) (sdktrace.SpanExporter, error) {
			opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(e.hostPort)}
			if e.insecure {
				opts = append(opts, otlptracehttp.WithInsecure())
			}
			return otlptracehttp.New(ctx, opts...)
		},
		metrics: func(ctx context.Context, e endpoint) (sdkmetric.Exporter, error) {
			opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(e.hostPort)}
			if e.insecure {
				opts = append(opts, otlpmetrichttp.WithInsecure())
			}
			return otlpmetrichttp.New(ctx, opts...)
		},
	},
}

// parseEndpoint accepts a collector URL ("http://otel-collector:4318") or a
// bare host:port, which is treated as plain HTTP.
func parseEndpoint(exporter, raw string) (endpoint, error) {
	if exporter != ExporterOTLP {
		return endpoint{}, nil
	}
	if raw == "" {
		return endpoint{}, ErrMissingEndpoint
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return endpoint{hostPort: raw, insecure: true}, nil
	}
	return endpoint{hostPort: u.Host, insecure: u.Scheme != "https"}, nil
}
