// Package health runs the gateway's readiness checks: the in-memory
// inventory and, when remote payments are on, the remote actor gateway's
// circuit breaker.
package health

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jsamuelsen11/go-actor/internal/platform/fanout"
	"github.com/jsamuelsen11/go-actor/internal/ports"
)

// Defaults for New.
const (
	DefaultConcurrency  = 4
	DefaultCheckTimeout = 2 * time.Second
)

var _ ports.HealthRegistry = (*Registry)(nil)

// Registry holds checkers by name. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]ports.HealthChecker

	limit   int
	timeout time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

// WithConcurrency bounds how many checks run at once.
func WithConcurrency(n int) Option {
	return func(r *Registry) { r.limit = n }
}

// WithCheckTimeout bounds each check.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		checkers: make(map[string]ports.HealthChecker),
		limit:    DefaultConcurrency,
		timeout:  DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds checker, replacing any checker registered under its name.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// CheckAll runs every check concurrently and returns the errors keyed by
// checker name, nil for a healthy one. A check that has not answered
// within the check timeout reports an error wrapping
// context.DeadlineExceeded.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	names := slices.Sorted(maps.Keys(r.checkers))
	checkers := make([]ports.HealthChecker, len(names))
	for i, name := range names {
		checkers[i] = r.checkers[name]
	}
	r.mu.RUnlock()

	outcomes := fanout.Map(ctx, r.limit, checkers, r.check)

	results := make(map[string]error, len(names))
	for i, name := range names {
		results[name] = outcomes[i].Err
	}
	return results
}

func (r *Registry) check(ctx context.Context, c ports.HealthChecker) (struct{}, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	answer := make(chan error, 1)
	go func() { answer <- c.HealthCheck(ctx) }()

	select {
	case err := <-answer:
		return struct{}{}, err
	case <-ctx.Done():
		return struct{}{}, fmt.Errorf("%s: no answer within %s: %w", c.Name(), r.timeout, ctx.Err())
	}
}
