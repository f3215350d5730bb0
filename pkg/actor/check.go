package actor

import (
	"fmt"
	"reflect"
	"strings"
)

// checkInput is the state of one attribute while it goes through the
// checkers. The default checker may fill in value.
type checkInput struct {
	origin  Origin
	attr    *Attribute
	actor   *Actor
	value   any
	present bool
}

func (in *checkInput) details(expected string) Details {
	return Details{
		Origin:   in.origin,
		Key:      in.attr.name,
		Actor:    in.actor.Name(),
		Value:    in.value,
		Expected: expected,
		Actual:   typeName(in.value),
	}
}

// message renders custom when set, else the formatted default.
func (in *checkInput) message(custom Message, expected, format string, args ...any) string {
	if custom != nil {
		return custom(in.details(expected))
	}
	return fmt.Sprintf(format, args...)
}

type checker interface {
	check(in *checkInput) []string
}

// checkers run in this order for every attribute; the first one reporting
// a problem ends the pass for that attribute.
var checkers = []checker{
	defaultChecker{},
	typeChecker{},
	nilChecker{},
	mustChecker{},
	inclusionChecker{},
}

// checkAttributes runs the checkers over attrs against a's Result and
// returns an *ArgumentError when anything was reported.
func checkAttributes(a *Actor, origin Origin, attrs []*Attribute) error {
	var violations []Violation
	for _, attr := range attrs {
		v, ok := a.result.Lookup(attr.name)
		in := &checkInput{origin: origin, attr: attr, actor: a, value: v, present: ok}
		for _, c := range checkers {
			msgs := c.check(in)
			for _, m := range msgs {
				violations = append(violations, Violation{Origin: origin, Key: attr.name, Message: m})
			}
			if len(msgs) > 0 {
				break
			}
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return &ArgumentError{Actor: a.Name(), Origin: origin, Violations: violations}
}

type defaultChecker struct{}

func (defaultChecker) check(in *checkInput) []string {
	if in.present {
		return nil
	}
	attr := in.attr
	if !attr.hasDefault {
		if attr.NilAllowed() {
			return nil
		}
		return []string{in.message(nil, "", `The "%s" %s on "%s" is missing`,
			attr.name, in.origin, in.actor.Name())}
	}

	v, err := computeDefault(attr.def, in.actor)
	if err != nil {
		return []string{in.message(attr.defaultMsg, "",
			`The "%s" %s on "%s" could not be defaulted. Error in code: %v`,
			attr.name, in.origin, in.actor.Name(), err)}
	}
	in.actor.result.Set(attr.name, v)
	in.value = v
	in.present = true
	return nil
}

func computeDefault(def any, a *Actor) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	switch fn := def.(type) {
	case func() any:
		return fn(), nil
	case func(*Actor) any:
		return fn(a), nil
	default:
		return def, nil
	}
}

type typeChecker struct{}

func (typeChecker) check(in *checkInput) []string {
	attr := in.attr
	if len(attr.types) == 0 || in.value == nil {
		return nil
	}
	var msgs []string
	for _, t := range attr.types {
		if d, ok := t.(deferredSpec); ok {
			if err := d.resolve(); err != nil {
				msgs = append(msgs, fmt.Sprintf(`The "%s" %s on "%s" has an unknown type: %v`,
					attr.name, in.origin, in.actor.Name(), err))
				continue
			}
		}
		if t.Match(in.value) {
			return nil
		}
	}
	if len(msgs) > 0 {
		return msgs
	}
	expected := strings.Join(attr.TypeNames(), ", ")
	return []string{in.message(attr.typeMsg, expected,
		`The "%s" %s on "%s" must be of type "%s" but was "%s"`,
		attr.name, in.origin, in.actor.Name(), expected, typeName(in.value))}
}

type nilChecker struct{}

func (nilChecker) check(in *checkInput) []string {
	if in.value != nil || in.attr.NilAllowed() {
		return nil
	}
	return []string{in.message(in.attr.nilMsg, "",
		`The "%s" %s on "%s" does not allow nil values.`,
		in.attr.name, in.origin, in.actor.Name())}
}

type mustChecker struct{}

func (mustChecker) check(in *checkInput) []string {
	attr := in.attr
	if len(attr.musts) == 0 || (in.value == nil && attr.NilAllowed()) {
		return nil
	}
	var msgs []string
	for _, rule := range attr.musts {
		ok, err := evalMust(rule.pred, in.value)
		switch {
		case err != nil:
			msgs = append(msgs, fmt.Sprintf(`The "%s" %s on "%s" could not be checked by "%s". Error in code: %v`,
				attr.name, in.origin, in.actor.Name(), rule.label, err))
		case !ok:
			msgs = append(msgs, in.message(rule.msg, rule.label,
				`The "%s" %s on "%s" must "%s" but was %s`,
				attr.name, in.origin, in.actor.Name(), rule.label, inspect(in.value)))
		}
	}
	return msgs
}

func evalMust(pred func(any) bool, v any) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return pred(v), nil
}

type inclusionChecker struct{}

func (inclusionChecker) check(in *checkInput) []string {
	attr := in.attr
	if !attr.hasInclusion {
		return nil
	}
	if in.value == nil && attr.allowNil != nil && *attr.allowNil {
		return nil
	}
	for _, allowed := range attr.inclusion {
		if equalValues(allowed, in.value) {
			return nil
		}
	}
	expected := inspectList(attr.inclusion)
	return []string{in.message(attr.inMsg, expected,
		`The "%s" %s must be included in %s on "%s" instead of %s`,
		attr.name, in.origin, expected, in.actor.Name(), inspect(in.value))}
}

// equalValues is reflect.DeepEqual, except that numbers of different kinds
// compare by value, so In(1, 2) accepts int64(1) and 1.0.
func equalValues(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	x, ok := toFloat(a)
	if !ok {
		return false
	}
	y, ok := toFloat(b)
	return ok && x == y
}

func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// inspect formats v for messages: strings quoted, nil as "nil".
func inspect(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func inspectList(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = inspect(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
