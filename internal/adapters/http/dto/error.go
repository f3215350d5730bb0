package dto

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/jsamuelsen11/go-actor/internal/domain"
	"github.com/jsamuelsen11/go-actor/pkg/actor"
)

// ErrorResponse is the RFC 9457 problem body every gateway error is
// answered with. Actor names the actor whose arguments were rejected;
// Result is what a failed actor left behind.
type ErrorResponse struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Actor    string        `json:"actor,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
	Result   *actor.Result `json:"result,omitempty"`
}

// ErrorDetail is one rejected value. Location is "input.<key>" or
// "output.<key>" for actor arguments, "body" for an unreadable request
// body and "body.<field>" for other request problems.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

// NewErrorResponse builds the problem body for err on request r.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status := statusFor(err)
	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   err.Error(),
		Instance: r.RequestURI,
	}

	var (
		argErr  *actor.ArgumentError
		failure *actor.Failure
		verr    *domain.ValidationError
	)
	switch {
	case errors.As(err, &argErr):
		resp.Actor = argErr.Actor
		for _, v := range argErr.Violations {
			resp.Errors = append(resp.Errors, ErrorDetail{Location: string(v.Origin) + "." + v.Key, Message: v.Message})
		}
	case errors.As(err, &failure):
		resp.Result = failure.Result
	case errors.As(err, &verr):
		for _, field := range slices.Sorted(maps.Keys(verr.Fields)) {
			loc := "body"
			if field != "body" {
				loc += "." + field
			}
			resp.Errors = append(resp.Errors, ErrorDetail{Location: loc, Message: verr.Fields[field]})
		}
	}
	return resp
}

// WriteErrorResponse answers r with the problem body for err.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	writeProblem(w, r, NewErrorResponse(r, err))
}

// WriteProblem writes a problem response for a status no error maps to,
// such as 405 from the router.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeProblem(w, r, ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.RequestURI,
	})
}

func writeProblem(w http.ResponseWriter, r *http.Request, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode problem response",
			slog.String("path", r.URL.Path), slog.Any("error", err))
	}
}

// statusFor maps actor signals and domain sentinels to a status. Output
// violations are the actor's fault, not the caller's; a remote gateway
// that cannot be reached is a bad gateway.
func statusFor(err error) int {
	var argErr *actor.ArgumentError
	if errors.As(err, &argErr) {
		if argErr.Origin == actor.OriginOutput {
			return http.StatusInternalServerError
		}
		return http.StatusBadRequest
	}
	for _, m := range sentinelStatus {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// sentinelStatus is checked in order; the first match wins.
var sentinelStatus = []struct {
	err    error
	status int
}{
	{actor.ErrFailure, http.StatusUnprocessableEntity},
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrUnavailable, http.StatusBadGateway},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}
