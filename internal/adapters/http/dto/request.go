package dto

import (
	"errors"
	"io"
	"net/http"

	"github.com/jsamuelsen11/go-actor/internal/domain"
	"github.com/jsamuelsen11/go-actor/internal/platform/jsonvalue"
	"github.com/jsamuelsen11/go-actor/pkg/actor"
)

const (
	msgInvalidJSON = "invalid JSON"
	msgNotObject   = "must be a JSON object"
	msgTooLarge    = "is too large"
)

// DecodeValues reads the body of an actor call: a JSON object whose keys
// seed the actor's result. An empty body means no values. Whole numbers
// decode as int.
// Returns a *domain.ValidationError if the body is not a JSON object.
func DecodeValues(body io.Reader) (actor.Values, error) {
	values, err := jsonvalue.Decode(body)
	if err == nil {
		return values, nil
	}

	var tooLarge *http.MaxBytesError
	msg := msgInvalidJSON
	switch {
	case errors.As(err, &tooLarge):
		msg = msgTooLarge
	case errors.Is(err, jsonvalue.ErrNotObject):
		msg = msgNotObject
	}
	return nil, &domain.ValidationError{Fields: map[string]string{"body": msg}}
}
