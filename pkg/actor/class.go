package actor

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// PerformFunc is the body of an actor, a named method or a rollback hook.
type PerformFunc func(ctx context.Context, a *Actor) error

// Class is an actor definition: its declared inputs and outputs, its body,
// its play steps and its rollback hook. A Class is immutable once built and
// may be called from any number of goroutines.
type Class struct {
	name     string
	inputs   attributeSet
	outputs  attributeSet
	perform  PerformFunc
	rollback PerformFunc
	steps    []step
	methods  map[string]PerformFunc
	errs     ErrorClasses

	run      runner
	problems []string
}

// Option configures a Class.
type Option func(c *Class)

// New builds a Class. It returns an error wrapping ErrDefinition when the
// declaration is malformed.
func New(name string, opts ...Option) (*Class, error) {
	c := &Class{name: name, methods: map[string]PerformFunc{}}
	return c.build(opts)
}

// MustNew is like New but panics on a malformed declaration. It is meant
// for package-level variables.
func MustNew(name string, opts ...Option) *Class {
	c, err := New(name, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Extend builds a Class starting from a copy of parent's declarations,
// steps, methods, hooks and error classes. Options then add to or override
// them; re-declaring an attribute replaces it in place.
func Extend(parent *Class, name string, opts ...Option) (*Class, error) {
	if parent == nil {
		return nil, definitionError(name, "parent class is nil")
	}
	c := &Class{
		name:     name,
		inputs:   parent.inputs.clone(),
		outputs:  parent.outputs.clone(),
		perform:  parent.perform,
		rollback: parent.rollback,
		steps:    slices.Clone(parent.steps),
		methods:  maps.Clone(parent.methods),
		errs:     parent.errs,
	}
	return c.build(opts)
}

func (c *Class) build(opts []Option) (*Class, error) {
	if strings.TrimSpace(c.name) == "" {
		c.problems = append(c.problems, "name is empty")
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, a := range c.inputs.list() {
		c.collect(OriginInput, a)
	}
	for _, a := range c.outputs.list() {
		c.collect(OriginOutput, a)
	}
	for _, s := range c.steps {
		if m, ok := s.target.(methodTarget); ok {
			if _, found := c.methods[string(m)]; !found {
				c.problems = append(c.problems, fmt.Sprintf("play refers to undefined method %q", string(m)))
			}
		}
	}
	if len(c.problems) > 0 {
		return nil, definitionError(c.name, "%s", strings.Join(c.problems, "; "))
	}
	c.run = compile(core)
	return c, nil
}

func (c *Class) collect(origin Origin, a *Attribute) {
	for _, p := range a.problems {
		c.problems = append(c.problems, fmt.Sprintf("%s %q: %s", origin, a.name, p))
	}
}

// Input declares an input attribute.
func Input(name string, opts ...AttrOption) Option {
	return func(c *Class) {
		if name == "" {
			c.problems = append(c.problems, "input name is empty")
			return
		}
		c.inputs.set(newAttribute(name, opts))
	}
}

// Output declares an output attribute.
func Output(name string, opts ...AttrOption) Option {
	return func(c *Class) {
		if name == "" {
			c.problems = append(c.problems, "output name is empty")
			return
		}
		c.outputs.set(newAttribute(name, opts))
	}
}

// Perform sets the actor body. For a class with play steps it runs after
// the last step.
func Perform(fn PerformFunc) Option {
	return func(c *Class) { c.perform = fn }
}

// OnRollback sets the hook run when a later step of an enclosing pipeline
// fails. It reads whatever it needs from the Result.
func OnRollback(fn PerformFunc) Option {
	return func(c *Class) { c.rollback = fn }
}

// Define registers a named method that play steps can refer to with
// Method(name).
func Define(name string, fn PerformFunc) Option {
	return func(c *Class) {
		if name == "" || fn == nil {
			c.problems = append(c.problems, fmt.Sprintf("method %q needs a name and a function", name))
			return
		}
		c.methods[name] = fn
	}
}

// Play appends unconditional steps.
func Play(targets ...Target) Option {
	return addSteps(nil, false, targets)
}

// PlayIf appends steps that only run when cond holds for the Result at the
// moment each step is reached.
func PlayIf(cond func(r *Result) bool, targets ...Target) Option {
	return addSteps(cond, false, targets)
}

// PlayUnless appends steps that are skipped when cond holds.
func PlayUnless(cond func(r *Result) bool, targets ...Target) Option {
	return addSteps(cond, true, targets)
}

func addSteps(cond func(*Result) bool, negate bool, targets []Target) Option {
	return func(c *Class) {
		if len(targets) == 0 {
			c.problems = append(c.problems, "play needs at least one target")
			return
		}
		for _, t := range targets {
			if t == nil {
				c.problems = append(c.problems, "play target is nil")
				continue
			}
			if t == Target(c) {
				c.problems = append(c.problems, "class cannot play itself")
				continue
			}
			c.steps = append(c.steps, step{target: t, cond: cond, negate: negate})
		}
	}
}

// WithErrors replaces the errors returned by Call and Result for this class
// and classes extending it.
func WithErrors(classes ErrorClasses) Option {
	return func(c *Class) { c.errs = c.errs.merge(classes) }
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Inputs returns the declared inputs in declaration order.
func (c *Class) Inputs() []*Attribute { return c.inputs.list() }

// Outputs returns the declared outputs in declaration order.
func (c *Class) Outputs() []*Attribute { return c.outputs.list() }

// Call runs the actor against seed, merged with extra. A Success signal is
// treated as a normal return. Failures and argument errors are returned
// alongside the Result.
func (c *Class) Call(ctx context.Context, seed Seed, extra ...Values) (*Result, error) {
	r := c.seed(seed, extra)
	err := c.run(ctx, c.newActor(r))
	if err == nil || errors.Is(err, ErrSuccess) {
		return r, nil
	}
	return r, c.errs.convert(err)
}

// Result is like Call but also treats a Failure as a normal return, so the
// caller can branch on IsFailure. Argument errors and other errors are
// still returned.
func (c *Class) Result(ctx context.Context, seed Seed, extra ...Values) (*Result, error) {
	r, err := c.Call(ctx, seed, extra...)
	if errors.Is(err, ErrFailure) {
		return r, nil
	}
	return r, err
}

func (c *Class) seed(seed Seed, extra []Values) *Result {
	var r *Result
	if seed == nil {
		r = NewResult(nil)
	} else {
		r = seed.toResult()
	}
	for _, v := range extra {
		r.Merge(v)
	}
	r.ensureID()
	return r
}

func (c *Class) newActor(r *Result) *Actor {
	return &Actor{class: c, result: r}
}

func (c *Class) String() string { return c.name }
