package remote

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/go-actor/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-actor/internal/domain"
	"github.com/jsamuelsen11/go-actor/pkg/actor"
)

const maxProblemBytes = 64 << 10

// statusErrors maps the statuses a gateway answers caller mistakes with.
var statusErrors = map[int]error{
	http.StatusBadRequest:   domain.ErrValidation,
	http.StatusUnauthorized: domain.ErrForbidden,
	http.StatusForbidden:    domain.ErrForbidden,
	http.StatusNotFound:     domain.ErrNotFound,
	http.StatusConflict:     domain.ErrConflict,
}

// TranslateHTTPError maps an error answer from the remote gateway to the
// error the local run reports:
//
//   - 400 listing argument violations becomes a *domain.ValidationError
//     keyed by attribute name
//   - a remote run that timed out or failed, per its X-Actor-Outcome
//     header, wraps context.DeadlineExceeded or actor.ErrFailure
//   - other caller mistakes wrap the matching domain sentinel
//   - any 5xx wraps domain.ErrUnavailable
func TranslateHTTPError(resp *http.Response) error {
	p := readProblem(resp)
	detail := cmp.Or(p.Detail, http.StatusText(resp.StatusCode))

	switch resp.Header.Get(dto.HeaderActorOutcome) {
	case "timeout":
		return fmt.Errorf("remote run: %s: %w", detail, context.DeadlineExceeded)
	case "failed":
		return fmt.Errorf("remote run: %s: %w", detail, actor.ErrFailure)
	}

	if resp.StatusCode == http.StatusBadRequest && len(p.Errors) > 0 {
		return p.validationError()
	}
	if sentinel, ok := statusErrors[resp.StatusCode]; ok {
		return fmt.Errorf("%s: %w", detail, sentinel)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%s: %w", detail, domain.ErrUnavailable)
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
}

// problem is the part of a gateway's problem body the caller uses.
type problem struct {
	Detail string `json:"detail"`
	Errors []struct {
		Location string `json:"location"`
		Message  string `json:"message"`
	} `json:"errors"`
}

// readProblem decodes a problem+json body; anything else reads as empty.
func readProblem(resp *http.Response) problem {
	var p problem
	if resp.Body == nil {
		return p
	}
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err != nil || mt != "application/problem+json" {
		return p
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxProblemBytes)).Decode(&p); err != nil {
		return problem{}
	}
	return p
}

// validationError keys violations by attribute. Locations read
// "input.sku" or "output.amount_cents"; the first message per attribute
// wins.
func (p problem) validationError() *domain.ValidationError {
	fields := make(map[string]string, len(p.Errors))
	for _, e := range p.Errors {
		_, name, found := strings.Cut(e.Location, ".")
		if !found {
			name = e.Location
		}
		if _, seen := fields[name]; !seen {
			fields[name] = e.Message
		}
	}
	return &domain.ValidationError{Fields: fields}
}
