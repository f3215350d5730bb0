package actor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-actor/pkg/logging"
	"github.com/jsamuelsen11/go-actor/pkg/telemetry"
)

// Target is something a class can play: another *Class, a Func, a Method,
// an AliasInput directive or an External caller.
type Target interface {
	playOn(ctx context.Context, parent *Actor) error
	describe() string
}

type step struct {
	target Target
	cond   func(*Result) bool
	negate bool
}

func (s step) enabled(r *Result) bool {
	if s.cond == nil {
		return true
	}
	return s.cond(r) != s.negate
}

// playOn runs c as a child of parent on the same Result. The child is
// recorded for rollback only when it completes.
func (c *Class) playOn(ctx context.Context, parent *Actor) error {
	child := c.newActor(parent.result)
	if err := c.run(ctx, child); err != nil {
		return err
	}
	parent.played = append(parent.played, child)
	return nil
}

func (c *Class) describe() string { return c.name }

// Func is a play step operating directly on the Result.
type Func func(ctx context.Context, r *Result) error

func (f Func) playOn(ctx context.Context, parent *Actor) error {
	return f(ctx, parent.result)
}

func (f Func) describe() string { return "func" }

type methodTarget string

// Method refers to a method registered on the playing class with Define.
func Method(name string) Target {
	return methodTarget(name)
}

func (m methodTarget) playOn(ctx context.Context, parent *Actor) error {
	return parent.Invoke(ctx, string(m))
}

func (m methodTarget) describe() string { return "method " + string(m) }

type aliasTarget map[string]string

// AliasInput moves values to new keys, mapping original names to aliases.
// Keys absent from the Result are left alone.
func AliasInput(aliases map[string]string) Target {
	return aliasTarget(aliases)
}

func (t aliasTarget) playOn(_ context.Context, parent *Actor) error {
	r := parent.result
	originals := make([]string, 0, len(t))
	for k := range t {
		originals = append(originals, k)
	}
	sort.Strings(originals)
	for _, orig := range originals {
		if r.Has(orig) {
			r.Set(t[orig], r.Delete(orig))
		}
	}
	return nil
}

func (t aliasTarget) describe() string { return "alias input" }

// Caller is an actor-like collaborator that is not built with this
// package, such as an actor served by another process.
type Caller interface {
	Call(ctx context.Context, values Values) (Values, error)
}

// CallerFunc adapts a function to Caller.
type CallerFunc func(ctx context.Context, values Values) (Values, error)

// Call implements Caller.
func (f CallerFunc) Call(ctx context.Context, values Values) (Values, error) {
	return f(ctx, values)
}

type externalTarget struct {
	caller Caller
	name   string
}

// External plays a Caller. It receives a copy of the Result values and
// whatever it returns is merged back, even alongside an error. An error
// wrapping ErrFailure fails the shared Result; any other error is returned
// as is.
func External(name string, c Caller) Target {
	return externalTarget{caller: c, name: name}
}

func (t externalTarget) playOn(ctx context.Context, parent *Actor) error {
	r := parent.result
	out, err := t.caller.Call(ctx, r.Values())
	r.Merge(out)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrFailure):
		if !r.Has("error") {
			r.Set("error", err.Error())
		}
		return r.Fail(nil)
	default:
		return fmt.Errorf("calling %s: %w", t.name, err)
	}
}

func (t externalTarget) describe() string { return t.name }

// outcome classifies how a run ended.
type outcome int

const (
	completed outcome = iota
	failed
	succeededEarly
	invalid
	errored
)

func (o outcome) String() string {
	switch o {
	case completed:
		return "completed"
	case failed:
		return "failed"
	case succeededEarly:
		return "succeeded_early"
	case invalid:
		return "invalid"
	default:
		return "error"
	}
}

func classify(err error) outcome {
	switch {
	case err == nil:
		return completed
	case errors.Is(err, ErrSuccess):
		return succeededEarly
	case errors.Is(err, ErrArgument):
		return invalid
	case errors.Is(err, ErrFailure):
		return failed
	default:
		return errored
	}
}

// core plays the class steps in order, then runs its body. When anything
// fails, the actors played so far are rolled back, most recent first.
// Success signals and argument errors skip rollback.
func core(ctx context.Context, a *Actor) error {
	err := playSteps(ctx, a)
	if err == nil && a.class.perform != nil {
		err = a.class.perform(ctx, a)
	}
	switch classify(err) {
	case failed, errored:
		// Rollback hooks still run after a cancellation.
		rollbackPlayed(context.WithoutCancel(ctx), a)
	}
	return err
}

func playSteps(ctx context.Context, a *Actor) error {
	for _, s := range a.class.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.enabled(a.result) {
			continue
		}
		if err := s.target.playOn(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// rollbackPlayed rolls back every actor a played, most recent first, and
// forgets them so a second rollback is a no-op.
func rollbackPlayed(ctx context.Context, a *Actor) {
	played := a.played
	a.played = nil
	for _, child := range slices.Backward(played) {
		rollback(ctx, child)
	}
}

// rollback undoes a completed actor: first what it played, then its own
// hook. Errors are logged and do not stop the remaining rollbacks.
func rollback(ctx context.Context, a *Actor) {
	rollbackPlayed(ctx, a)
	if a.class.rollback == nil {
		return
	}

	ctx, span := tracer().Start(ctx, "actor.rollback",
		trace.WithAttributes(
			telemetry.AttrActor.String(a.Name()),
			telemetry.AttrCallID.String(a.result.ID()),
		),
	)
	defer span.End()

	logger := logging.FromContext(ctx)
	logger.InfoContext(ctx, "rolling back actor",
		slog.String("operation", "actor.rollback"),
		slog.String("actor", a.Name()),
		slog.String("call_id", a.result.ID()),
	)

	err := safeRun(ctx, a, a.class.rollback)
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "rollback failed",
			slog.String("operation", "actor.rollback"),
			slog.String("actor", a.Name()),
			slog.String("call_id", a.result.ID()),
			slog.Any("error", err),
		)
	}
	if m := telemetry.MetricsFromContext(ctx); m != nil {
		m.RecordRollback(ctx, a.Name(), status)
	}
}

// safeRun turns a panicking rollback hook into an error.
func safeRun(ctx context.Context, a *Actor, fn PerformFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", a.Name(), r)
		}
	}()
	return fn(ctx, a)
}
