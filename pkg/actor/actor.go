package actor

import (
	"context"
	"fmt"
)

// Actor is one execution of a Class against a Result.
type Actor struct {
	class  *Class
	result *Result
	// played holds the actors this one played, in completion order.
	played []*Actor
}

// Name returns the name of the actor's class.
func (a *Actor) Name() string { return a.class.name }

// Class returns the class being executed.
func (a *Actor) Class() *Class { return a.class }

// Result returns the shared Result.
func (a *Actor) Result() *Result { return a.result }

// Input returns a declared input. It panics when name is not declared as an
// input, which is always a programming error.
func (a *Actor) Input(name string) any {
	a.mustDeclare(name, true, false)
	return a.result.Get(name)
}

// Output returns a declared output. It panics when name is not declared as
// an output.
func (a *Actor) Output(name string) any {
	a.mustDeclare(name, false, true)
	return a.result.Get(name)
}

// SetOutput stores a declared output. It panics when name is not declared
// as an output.
func (a *Actor) SetOutput(name string, v any) {
	a.mustDeclare(name, false, true)
	a.result.Set(name, v)
}

// Fail is a shorthand for a.Result().Fail(values).
func (a *Actor) Fail(values Values) error {
	return a.result.Fail(values)
}

// Succeed is a shorthand for a.Result().Succeed(values).
func (a *Actor) Succeed(values Values) error {
	return a.result.Succeed(values)
}

// Invoke runs a method registered with Define on this actor.
func (a *Actor) Invoke(ctx context.Context, name string) error {
	fn, ok := a.class.methods[name]
	if !ok {
		return fmt.Errorf("actor %q has no method %q", a.class.name, name)
	}
	return fn(ctx, a)
}

func (a *Actor) declared(name string) bool {
	_, in := a.class.inputs.get(name)
	_, out := a.class.outputs.get(name)
	return in || out
}

func (a *Actor) mustDeclare(name string, input, output bool) {
	if input {
		if _, ok := a.class.inputs.get(name); ok {
			return
		}
	}
	if output {
		if _, ok := a.class.outputs.get(name); ok {
			return
		}
	}
	kind := "input"
	if output {
		kind = "output"
	}
	panic(fmt.Sprintf("actor: %q has no %s named %q", a.class.name, kind, name))
}

// Key is a typed accessor for an attribute declared as an input or output.
//
//	var value = actor.NewKey[int]("value")
//
//	value.Set(a, value.Get(a)+1)
type Key[T any] struct {
	name string
}

// NewKey returns a Key for the attribute called name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the attribute name.
func (k Key[T]) Name() string { return k.name }

// Lookup returns the value and whether it is present and readable as T.
// Numbers of another kind are converted when they fit in T. It panics when
// the attribute is not declared on a's class.
func (k Key[T]) Lookup(a *Actor) (T, bool) {
	k.check(a)
	return Lookup[T](a.result, k.name)
}

// Get returns the value, or the zero T when it is absent or of another
// type. It panics when the attribute is not declared on a's class.
func (k Key[T]) Get(a *Actor) T {
	v, _ := k.Lookup(a)
	return v
}

// Set stores v. It panics when the attribute is not declared on a's class.
func (k Key[T]) Set(a *Actor, v T) {
	k.check(a)
	a.result.Set(k.name, v)
}

func (k Key[T]) check(a *Actor) {
	if !a.declared(k.name) {
		panic(fmt.Sprintf("actor: %q has no attribute named %q", a.class.name, k.name))
	}
}
