package actor

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	// ErrArgument marks a contract violation: a declared input or output is
	// missing, mistyped, nil when not allowed, or fails a check.
	ErrArgument = errors.New("actor: argument error")

	// ErrFailure marks a deliberate business failure raised with Fail.
	ErrFailure = errors.New("actor: failure")

	// ErrSuccess marks a deliberate early stop raised with Succeed.
	ErrSuccess = errors.New("actor: success")

	// ErrDefinition is returned by New when a class declaration is malformed.
	ErrDefinition = errors.New("actor: invalid definition")
)

// Origin tells whether an attribute is an input or an output.
type Origin string

// Attribute origins.
const (
	OriginInput  Origin = "input"
	OriginOutput Origin = "output"
)

// Violation is one failed check on one declared attribute.
type Violation struct {
	Origin  Origin
	Key     string
	Message string
}

// ArgumentError aggregates every violation found in one validation pass.
// Use errors.Is(err, ErrArgument) for simple checks, or errors.As to reach
// the individual violations.
type ArgumentError struct {
	Actor      string
	Origin     Origin
	Violations []Violation
}

func (e *ArgumentError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("%s: %s", ErrArgument.Error(), strings.Join(msgs, "; "))
}

func (e *ArgumentError) Unwrap() error {
	return ErrArgument
}

// Keys returns the offending attribute names in the order they were found.
func (e *ArgumentError) Keys() []string {
	keys := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		keys[i] = v.Key
	}
	return keys
}

// Failure is the signal returned by Result.Fail. It carries the Result with
// whatever keys were merged before failing.
type Failure struct {
	Result *Result
}

func (f *Failure) Error() string {
	if msg := f.Result.ErrorValue(); msg != "" {
		return fmt.Sprintf("%s: %s", ErrFailure.Error(), msg)
	}
	return ErrFailure.Error()
}

func (f *Failure) Unwrap() error {
	return ErrFailure
}

// Success is the signal returned by Result.Succeed.
type Success struct {
	Result *Result
}

func (s *Success) Error() string {
	return ErrSuccess.Error()
}

func (s *Success) Unwrap() error {
	return ErrSuccess
}

// ErrorClasses lets a class replace the concrete errors returned from Call
// and Result. Each converter receives the library error and must return an
// error that still unwraps to it, so that enclosing pipelines keep
// recognising failures. Nil converters leave the error unchanged.
type ErrorClasses struct {
	Argument func(*ArgumentError) error
	Failure  func(*Failure) error
}

func (c ErrorClasses) convert(err error) error {
	var argErr *ArgumentError
	if c.Argument != nil && errors.As(err, &argErr) {
		return c.Argument(argErr)
	}
	var failure *Failure
	if c.Failure != nil && errors.As(err, &failure) {
		return c.Failure(failure)
	}
	return err
}

func (c ErrorClasses) merge(override ErrorClasses) ErrorClasses {
	if override.Argument != nil {
		c.Argument = override.Argument
	}
	if override.Failure != nil {
		c.Failure = override.Failure
	}
	return c
}

// definitionError reports a malformed declaration found by New.
func definitionError(class, format string, args ...any) error {
	return fmt.Errorf("%w: %q: %s", ErrDefinition, class, fmt.Sprintf(format, args...))
}
