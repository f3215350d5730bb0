// Package actor provides service objects: small units of business logic
// with declared inputs and outputs, composed into pipelines that roll back
// on failure.
//
// An actor is declared once as a *Class:
//
//	var value = actor.NewKey[int]("value")
//
//	var Increment = actor.MustNew("Increment",
//	    actor.Input("value", actor.Type(actor.Integer), actor.Default(0)),
//	    actor.Output("value", actor.Type(actor.Integer)),
//	    actor.Perform(func(ctx context.Context, a *actor.Actor) error {
//	        value.Set(a, value.Get(a)+1)
//	        return nil
//	    }),
//	)
//
// and called with a seed:
//
//	r, err := Increment.Call(ctx, actor.Values{"value": 1})
//
// Every call shares one *Result between the actor and everything it plays.
// Inputs are checked before the body runs and outputs after it returns.
// Checks run per attribute in a fixed order: default, type, nil, must,
// inclusion. All violations of one pass are returned together as an
// *ArgumentError.
//
// Actor code stops early by returning the signal produced by Fail or
// Succeed:
//
//	return a.Fail(actor.Values{"error": "out of stock"})
//
// Call returns failures as errors (errors.Is(err, actor.ErrFailure)) and
// treats Succeed as a normal return. Result also turns failures into a
// normal return so callers can branch on r.IsFailure().
//
// A class that plays other targets runs them in order on the same Result.
// When a step fails, every actor that already completed is rolled back,
// most recent first, through its OnRollback hook.
//
// Runs are traced with OpenTelemetry, logged through the logger found in
// the context (see pkg/logging) and counted when a *telemetry.Metrics is
// attached with telemetry.WithMetrics.
package actor
