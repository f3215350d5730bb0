package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// problems collects every invalid setting so a bad deployment learns about
// all of them from one failed start.
type problems []error

func (p *problems) require(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Errorf(format, args...))
	}
}

// Validate reports every invalid setting, joined.
func (c *Config) Validate() error {
	var p problems
	c.Server.validate(&p)
	c.Log.validate(&p)
	c.Client.validate(&p)
	c.Telemetry.validate(&p)
	c.Catalog.validate(&p)
	return errors.Join(p...)
}

func (s *ServerConfig) validate(p *problems) {
	p.require(s.Port >= 1 && s.Port <= 65535, "server.port must be between 1 and 65535, got %d", s.Port)
	p.require(s.ReadTimeout > 0, "server.read_timeout must be positive")
	p.require(s.WriteTimeout > 0, "server.write_timeout must be positive")
	p.require(s.CallTimeout >= 0 && (s.CallTimeout == 0 || s.CallTimeout < s.WriteTimeout),
		"server.call_timeout must be below server.write_timeout (%s), got %s", s.WriteTimeout, s.CallTimeout)
	p.require(s.DrainTimeout > 0, "server.drain_timeout must be positive")
}

func (l *LogConfig) validate(p *problems) {
	p.require(slices.Contains([]string{"debug", "info", "warn", "error"}, l.Level),
		"log.level must be one of: debug, info, warn, error; got %q", l.Level)
	p.require(l.Format == "json" || l.Format == "text",
		"log.format must be one of: json, text; got %q", l.Format)
}

func (cl *ClientConfig) validate(p *problems) {
	p.require(cl.BaseURL != "", "client.base_url must not be empty")
	p.require(cl.Timeout > 0, "client.timeout must be positive")
	p.require(cl.Retry.MaxAttempts >= 1, "client.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts)
	p.require(cl.Retry.Multiplier > 0, "client.retry.multiplier must be positive, got %g", cl.Retry.Multiplier)
	p.require(cl.CircuitBreaker.MaxFailures >= 1,
		"client.circuit_breaker.max_failures must be >= 1, got %d", cl.CircuitBreaker.MaxFailures)

	rl := cl.RateLimit
	p.require(rl.RequestsPerSecond >= 0,
		"client.rate_limit.requests_per_second must not be negative, got %g", rl.RequestsPerSecond)
	p.require(rl.RequestsPerSecond == 0 || rl.BurstSize >= 1,
		"client.rate_limit.burst_size must be >= 1 when rate limiting, got %d", rl.BurstSize)
}

func (t *TelemetryConfig) validate(p *problems) {
	if !t.Enabled {
		return
	}
	p.require(t.Exporter == "stdout" || t.Exporter == "otlp",
		"telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter)
	p.require(t.Exporter != "otlp" || t.Endpoint != "",
		"telemetry.endpoint must not be empty when exporter is otlp")
}

func (c *CatalogConfig) validate(p *problems) {
	p.require(!c.RemotePayments || c.PaymentsActor != "",
		"catalog.payments_actor must not be empty when remote_payments is on")
	for _, sku := range slices.Sorted(maps.Keys(c.InitialStock)) {
		qty := c.InitialStock[sku]
		p.require(qty >= 0, "catalog.initial_stock.%s must not be negative, got %d", sku, qty)
	}
}
