package catalog

import (
	"context"

	"github.com/jsamuelsen11/go-actor/pkg/actor"
)

var value = actor.NewKey[int]("value")

// Increment adds one to "value", which defaults to zero.
var Increment = actor.MustNew("Increment",
	actor.Input("value", actor.Type(actor.Integer), actor.Default(0)),
	actor.Output("value", actor.Type(actor.Integer)),
	actor.Perform(func(_ context.Context, a *actor.Actor) error {
		value.Set(a, value.Get(a)+1)
		return nil
	}),
)

// FailWithError always fails with the message "Ouch".
var FailWithError = actor.MustNew("FailWithError",
	actor.Perform(func(_ context.Context, a *actor.Actor) error {
		return a.Fail(actor.Values{"error": "Ouch"})
	}),
)

// Chain increments and then fails, leaving the incremented value in the
// failed result.
var Chain = actor.MustNew("Chain", actor.Play(Increment, FailWithError))
