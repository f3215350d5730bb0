// Package app provides application services that orchestrate use cases by
// coordinating between the actor catalog and the inbound adapters through
// port interfaces.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/go-actor/internal/domain"
	"github.com/jsamuelsen11/go-actor/internal/ports"
	"github.com/jsamuelsen11/go-actor/pkg/actor"
	"github.com/jsamuelsen11/go-actor/pkg/logging"
)

// Compile-time check that ActorService implements ports.ActorService.
var _ ports.ActorService = (*ActorService)(nil)

// Directory finds actors by name. Implemented by *catalog.Catalog.
type Directory interface {
	Lookup(name string) (*actor.Class, bool)
	Classes() []*actor.Class
}

// ActorService implements ports.ActorService by resolving actors in a
// Directory and running them. It handles lookup, structured logging and
// error classification but contains no business logic.
type ActorService struct {
	actors Directory
	logger *slog.Logger
}

// NewActorService creates an ActorService. A nil logger discards output.
func NewActorService(actors Directory, logger *slog.Logger) *ActorService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ActorService{
		actors: actors,
		logger: logger,
	}
}

// List describes every actor in the directory, sorted by name.
func (s *ActorService) List(_ context.Context) []ports.ActorInfo {
	classes := s.actors.Classes()
	infos := make([]ports.ActorInfo, len(classes))
	for i, c := range classes {
		infos[i] = ports.ActorInfo{
			Name:    c.Name(),
			Inputs:  describe(c.Inputs()),
			Outputs: describe(c.Outputs()),
		}
	}
	return infos
}

// Call runs the named actor. Business failures come back as errors wrapping
// actor.ErrFailure.
func (s *ActorService) Call(ctx context.Context, name string, values actor.Values) (*actor.Result, error) {
	return s.run(ctx, "Call", name, values, (*actor.Class).Call)
}

// Result runs the named actor and reports business failures in the result.
func (s *ActorService) Result(ctx context.Context, name string, values actor.Values) (*actor.Result, error) {
	return s.run(ctx, "Result", name, values, (*actor.Class).Result)
}

type entrypoint func(c *actor.Class, ctx context.Context, seed actor.Seed, extra ...actor.Values) (*actor.Result, error)

func (s *ActorService) run(ctx context.Context, op, name string, values actor.Values, call entrypoint) (*actor.Result, error) {
	class, ok := s.actors.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("actor %q: %w", name, domain.ErrNotFound)
	}

	if !logging.HasLogger(ctx) {
		ctx = logging.WithLogger(ctx, s.logger)
	}
	s.logger.InfoContext(ctx, "running actor",
		slog.String("operation", op),
		slog.String("actor", name),
	)

	r, err := call(class, ctx, values)
	switch {
	case err == nil, errors.Is(err, actor.ErrFailure), errors.Is(err, actor.ErrArgument):
	default:
		s.logger.ErrorContext(ctx, "actor run failed",
			slog.String("operation", op),
			slog.String("actor", name),
			slog.Any("error", err),
		)
	}
	return r, err
}

func describe(attrs []*actor.Attribute) []ports.AttributeInfo {
	out := make([]ports.AttributeInfo, len(attrs))
	for i, a := range attrs {
		out[i] = ports.AttributeInfo{
			Name:       a.Name(),
			Types:      a.TypeNames(),
			Required:   a.Required(),
			HasDefault: a.HasDefault(),
			NilAllowed: a.NilAllowed(),
		}
	}
	return out
}
