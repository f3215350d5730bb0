package ports

import (
	"context"

	"github.com/jsamuelsen11/go-actor/pkg/actor"
)

// ActorService defines the service port for running catalog actors.
// Implemented by the application layer; called by inbound adapters (handlers).
type ActorService interface {
	// List describes every actor in the catalog, sorted by name.
	List(ctx context.Context) []ActorInfo

	// Call runs the named actor with the given values. A business failure is
	// returned as an error wrapping actor.ErrFailure together with the
	// failed result.
	// Returns domain.ErrNotFound if no actor has that name.
	Call(ctx context.Context, name string, values actor.Values) (*actor.Result, error)

	// Result runs the named actor like Call but reports a business failure
	// through the returned result instead of an error.
	// Returns domain.ErrNotFound if no actor has that name.
	Result(ctx context.Context, name string, values actor.Values) (*actor.Result, error)
}

// ActorInfo describes an actor's declared interface.
type ActorInfo struct {
	Name    string
	Inputs  []AttributeInfo
	Outputs []AttributeInfo
}

// AttributeInfo describes one declared input or output.
type AttributeInfo struct {
	Name       string
	Types      []string
	Required   bool
	HasDefault bool
	NilAllowed bool
}
