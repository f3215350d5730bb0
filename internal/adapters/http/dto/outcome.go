package dto

import (
	"context"
	"errors"
	"net/http"

	"github.com/jsamuelsen11/go-actor/internal/domain"
	"github.com/jsamuelsen11/go-actor/pkg/actor"
)

// Response headers describing an actor run. The access log reads them back
// after the handler returns.
const (
	HeaderActorOutcome = "X-Actor-Outcome"
	HeaderActorCallID  = "X-Actor-Call-ID"
)

// Outcome names how a run ended: completed, failed, invalid, not_found,
// timeout, unavailable or error.
func Outcome(res *actor.Result, err error) string {
	switch {
	case err == nil && res != nil && res.IsFailure():
		return "failed"
	case err == nil:
		return "completed"
	case errors.Is(err, actor.ErrFailure):
		return "failed"
	case errors.Is(err, actor.ErrArgument):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// SetRunHeaders records the outcome of a run, and its call ID when the
// run got one, on h.
func SetRunHeaders(h http.Header, res *actor.Result, err error) {
	h.Set(HeaderActorOutcome, Outcome(res, err))
	if res != nil && res.ID() != "" {
		h.Set(HeaderActorCallID, res.ID())
	}
}
