package actor

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-actor/pkg/logging"
	"github.com/jsamuelsen11/go-actor/pkg/telemetry"
)

const instrumentationName = "github.com/jsamuelsen11/go-actor/pkg/actor"

// runner executes one actor.
type runner func(ctx context.Context, a *Actor) error

// stage wraps a runner with one concern.
type stage func(next runner) runner

// chain composes stages; the first one is the outermost.
func chain(stages ...stage) stage {
	return func(next runner) runner {
		for i := len(stages) - 1; i >= 0; i-- {
			next = stages[i](next)
		}
		return next
	}
}

// compile builds the execution wrapper around body: inputs are checked
// before it runs and outputs after it returns without error.
func compile(body runner) runner {
	return chain(observe, checkInputs, checkOutputs)(body)
}

func checkInputs(next runner) runner {
	return func(ctx context.Context, a *Actor) error {
		if err := checkAttributes(a, OriginInput, a.class.inputs.list()); err != nil {
			return err
		}
		return next(ctx, a)
	}
}

func checkOutputs(next runner) runner {
	return func(ctx context.Context, a *Actor) error {
		if err := next(ctx, a); err != nil {
			return err
		}
		return checkAttributes(a, OriginOutput, a.class.outputs.list())
	}
}

func tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// observe opens a span per actor run, logs how it ended and records the
// call metrics when a *telemetry.Metrics is in the context.
func observe(next runner) runner {
	return func(ctx context.Context, a *Actor) error {
		ctx, span := tracer().Start(ctx, "actor.call",
			trace.WithAttributes(
				telemetry.AttrActor.String(a.Name()),
				telemetry.AttrCallID.String(a.result.ID()),
			),
		)
		defer span.End()

		logger := logging.FromContext(ctx).With(
			slog.String("actor", a.Name()),
			slog.String("call_id", a.result.ID()),
		)
		logger.DebugContext(ctx, "actor started")

		start := time.Now()
		err := next(ctx, a)
		elapsed := time.Since(start)
		oc := classify(err)

		span.SetAttributes(telemetry.AttrOutcome.String(oc.String()))
		switch oc {
		case completed, succeededEarly:
			logger.DebugContext(ctx, "actor completed",
				slog.String("outcome", oc.String()),
				slog.Duration("duration", elapsed),
			)
		case failed:
			span.SetStatus(codes.Error, a.result.ErrorValue())
			logger.InfoContext(ctx, "actor failed",
				slog.Duration("duration", elapsed),
				slog.Any("result", a.result),
			)
		case invalid:
			span.SetStatus(codes.Error, err.Error())
			logger.WarnContext(ctx, "actor arguments rejected",
				slog.Any("error", err),
			)
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "actor returned an error",
				slog.String("operation", "actor.call"),
				slog.Any("error", err),
			)
		}

		if m := telemetry.MetricsFromContext(ctx); m != nil {
			m.RecordCall(ctx, a.Name(), oc.String(), elapsed)
		}
		return err
	}
}
