package actor

import (
	"fmt"
	"slices"
)

// Details is passed to a custom Message when a check fails.
type Details struct {
	Origin Origin
	Key    string
	Actor  string
	Value  any
	// Expected is the type list, must label or allowed values, depending on
	// the check that failed.
	Expected string
	// Actual is the type name of Value.
	Actual string
}

// Message builds a custom violation message.
type Message func(d Details) string

// Text returns a Message that always yields s.
func Text(s string) Message {
	return func(Details) string { return s }
}

// Attribute is the declaration of one input or output.
type Attribute struct {
	name string

	types   []TypeSpec
	typeMsg Message

	allowNil *bool
	nilMsg   Message

	hasDefault bool
	def        any
	defaultMsg Message

	musts []mustRule

	hasInclusion bool
	inclusion    []any
	inMsg        Message

	// problems found while applying options, reported by New.
	problems []string
}

type mustRule struct {
	label string
	pred  func(any) bool
	msg   Message
}

// AttrOption configures an Attribute.
type AttrOption func(a *Attribute)

// Name returns the attribute name.
func (a *Attribute) Name() string { return a.name }

// TypeNames returns the names of the declared types, in declaration order.
func (a *Attribute) TypeNames() []string {
	names := make([]string, len(a.types))
	for i, t := range a.types {
		names[i] = t.Name()
	}
	return names
}

// HasDefault reports whether a default is configured.
func (a *Attribute) HasDefault() bool { return a.hasDefault }

// NilAllowed reports whether a nil or absent value passes the nil check.
func (a *Attribute) NilAllowed() bool {
	if a.allowNil != nil {
		return *a.allowNil
	}
	if a.hasDefault && a.def == nil {
		return true
	}
	return len(a.types) == 0
}

// Required reports whether callers must supply the attribute.
func (a *Attribute) Required() bool {
	return !a.hasDefault && !a.NilAllowed()
}

func (a *Attribute) clone() *Attribute {
	c := *a
	c.types = slices.Clone(a.types)
	c.musts = slices.Clone(a.musts)
	c.inclusion = slices.Clone(a.inclusion)
	c.problems = slices.Clone(a.problems)
	return &c
}

func newAttribute(name string, opts []AttrOption) *Attribute {
	a := &Attribute{name: name}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type restricts the value to one of specs. Nil values are left to the nil
// check.
func Type(specs ...TypeSpec) AttrOption {
	return func(a *Attribute) {
		if len(specs) == 0 {
			a.problems = append(a.problems, "Type needs at least one type")
			return
		}
		a.types = append(a.types, specs...)
	}
}

// TypeMessage replaces the default type violation message.
func TypeMessage(msg Message) AttrOption {
	return func(a *Attribute) { a.typeMsg = msg }
}

// AllowNil sets explicitly whether nil (or absent) values are accepted.
func AllowNil(allow bool) AttrOption {
	return func(a *Attribute) { a.allowNil = &allow }
}

// NilMessage replaces the default nil violation message.
func NilMessage(msg Message) AttrOption {
	return func(a *Attribute) { a.nilMsg = msg }
}

// Default stores v when the key is absent. The value is shared between
// calls; use DefaultFunc for maps and slices.
func Default(v any) AttrOption {
	return func(a *Attribute) {
		a.hasDefault = true
		a.def = v
	}
}

// DefaultFunc computes the default on every call.
func DefaultFunc(fn func() any) AttrOption {
	return func(a *Attribute) {
		if fn == nil {
			a.problems = append(a.problems, "DefaultFunc needs a function")
			return
		}
		a.hasDefault = true
		a.def = fn
	}
}

// DefaultFrom computes the default from the running actor, so it can read
// inputs that were already checked.
func DefaultFrom(fn func(a *Actor) any) AttrOption {
	return func(a *Attribute) {
		if fn == nil {
			a.problems = append(a.problems, "DefaultFrom needs a function")
			return
		}
		a.hasDefault = true
		a.def = fn
	}
}

// DefaultMessage replaces the message reported when computing the default
// panics.
func DefaultMessage(msg Message) AttrOption {
	return func(a *Attribute) { a.defaultMsg = msg }
}

// Must adds a labelled predicate. Predicates run in declaration order.
func Must(label string, pred func(v any) bool) AttrOption {
	return MustMessage(label, pred, nil)
}

// MustMessage is Must with a custom message.
func MustMessage(label string, pred func(v any) bool, msg Message) AttrOption {
	return func(a *Attribute) {
		switch {
		case label == "":
			a.problems = append(a.problems, "Must needs a label")
		case pred == nil:
			a.problems = append(a.problems, fmt.Sprintf("Must %q needs a predicate", label))
		default:
			a.musts = append(a.musts, mustRule{label: label, pred: pred, msg: msg})
		}
	}
}

// MustBe is a typed Must. Numbers of another kind are converted to T when
// they fit; any other value that is not a T fails the predicate.
func MustBe[T any](label string, pred func(v T) bool) AttrOption {
	if pred == nil {
		return Must(label, nil)
	}
	return Must(label, func(v any) bool {
		t, ok := convert[T](v)
		return ok && pred(t)
	})
}

// In restricts the value to the given set.
func In(values ...any) AttrOption {
	return func(a *Attribute) {
		a.hasInclusion = true
		a.inclusion = append(a.inclusion, values...)
	}
}

// InMessage replaces the default inclusion violation message.
func InMessage(msg Message) AttrOption {
	return func(a *Attribute) { a.inMsg = msg }
}

// attributeSet keeps declarations in order. Declaring a name twice replaces
// the earlier declaration in place.
type attributeSet struct {
	order  []string
	byName map[string]*Attribute
}

func (s *attributeSet) set(a *Attribute) {
	if s.byName == nil {
		s.byName = make(map[string]*Attribute)
	}
	if _, ok := s.byName[a.name]; !ok {
		s.order = append(s.order, a.name)
	}
	s.byName[a.name] = a
}

func (s *attributeSet) get(name string) (*Attribute, bool) {
	a, ok := s.byName[name]
	return a, ok
}

func (s *attributeSet) list() []*Attribute {
	out := make([]*Attribute, len(s.order))
	for i, name := range s.order {
		out[i] = s.byName[name]
	}
	return out
}

func (s *attributeSet) names() []string {
	return slices.Clone(s.order)
}

func (s *attributeSet) clone() attributeSet {
	c := attributeSet{
		order:  slices.Clone(s.order),
		byName: make(map[string]*Attribute, len(s.byName)),
	}
	for k, a := range s.byName {
		c.byName[k] = a.clone()
	}
	return c
}
