package actor

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"
)

// TypeSpec describes one acceptable type for a declared attribute.
type TypeSpec interface {
	// Name is the type name used in error messages.
	Name() string
	// Match reports whether v (never nil) is of this type.
	Match(v any) bool
}

type kindSpec struct {
	name  string
	kinds []reflect.Kind
}

func (s kindSpec) Name() string { return s.name }

func (s kindSpec) Match(v any) bool {
	k := reflect.TypeOf(v).Kind()
	for _, want := range s.kinds {
		if k == want {
			return true
		}
	}
	return false
}

// Built-in type specs. Integer covers every signed and unsigned integer
// kind; Map and Array cover any map, and any slice or array.
var (
	String  TypeSpec = kindSpec{name: "String", kinds: []reflect.Kind{reflect.String}}
	Integer TypeSpec = kindSpec{name: "Integer", kinds: []reflect.Kind{
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
	}}
	Float    TypeSpec = kindSpec{name: "Float", kinds: []reflect.Kind{reflect.Float32, reflect.Float64}}
	Boolean  TypeSpec = kindSpec{name: "Boolean", kinds: []reflect.Kind{reflect.Bool}}
	Map      TypeSpec = kindSpec{name: "Map", kinds: []reflect.Kind{reflect.Map}}
	Array    TypeSpec = kindSpec{name: "Array", kinds: []reflect.Kind{reflect.Slice, reflect.Array}}
	Function TypeSpec = kindSpec{name: "Function", kinds: []reflect.Kind{reflect.Func}}
	Time     TypeSpec = TypeOf[time.Time]()
)

var builtins = []TypeSpec{String, Integer, Float, Boolean, Map, Array, Function}

type reflectSpec struct {
	name string
	typ  reflect.Type
}

func (s reflectSpec) Name() string { return s.name }

func (s reflectSpec) Match(v any) bool {
	vt := reflect.TypeOf(v)
	if s.typ.Kind() == reflect.Interface {
		return vt.Implements(s.typ)
	}
	return vt == s.typ
}

// TypeOf returns a TypeSpec matching values of exactly T. When T is an
// interface type, any value implementing it matches.
func TypeOf[T any]() TypeSpec {
	t := reflect.TypeFor[T]()
	return reflectSpec{name: t.String(), typ: t}
}

// registry resolves type names declared with TypeNamed.
var registry = struct {
	mu    sync.RWMutex
	specs map[string]TypeSpec
}{specs: map[string]TypeSpec{}}

func init() {
	for _, s := range builtins {
		registry.specs[s.Name()] = s
	}
	registry.specs["Time"] = Time
}

// RegisterType makes spec resolvable by name from TypeNamed. Registering a
// name twice replaces the previous spec. Safe for concurrent use.
func RegisterType(name string, spec TypeSpec) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.specs[name] = spec
}

// Register is a shorthand for RegisterType(name, TypeOf[T]()).
func Register[T any](name string) {
	RegisterType(name, namedSpec{name: name, spec: TypeOf[T]()})
}

type namedSpec struct {
	name string
	spec TypeSpec
}

func (s namedSpec) Name() string     { return s.name }
func (s namedSpec) Match(v any) bool { return s.spec.Match(v) }

// deferredSpec is a type referenced by name and resolved at check time, so
// a declaration can mention a type registered later.
type deferredSpec struct {
	name string
}

func (s deferredSpec) Name() string { return s.name }

func (s deferredSpec) Match(v any) bool {
	spec, ok := lookupType(s.name)
	return ok && spec.Match(v)
}

func (s deferredSpec) resolve() error {
	if _, ok := lookupType(s.name); !ok {
		return fmt.Errorf("type %q is not registered", s.name)
	}
	return nil
}

// TypeNamed returns a TypeSpec resolved from the registry each time it is
// checked.
func TypeNamed(name string) TypeSpec {
	return deferredSpec{name: name}
}

func lookupType(name string) (TypeSpec, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	s, ok := registry.specs[name]
	return s, ok
}

// typeName names the type of v for error messages, preferring the built-in
// and registered names over the Go type string. When several registered
// names match, the first in sorted order wins.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	for _, s := range builtins {
		if s.Match(v) {
			return s.Name()
		}
	}
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	for _, name := range slices.Sorted(maps.Keys(registry.specs)) {
		if ns, ok := registry.specs[name].(namedSpec); ok && ns.Match(v) {
			return name
		}
	}
	return reflect.TypeOf(v).String()
}

// convert reads v as a T. Besides the plain type assertion it converts
// between numeric kinds when no information is lost, so a value accepted as
// Integer reads back through any integer T that can hold it.
func convert[T any](v any) (T, bool) {
	if t, ok := v.(T); ok {
		return t, true
	}
	var zero T
	from, ok := toFloat(v)
	if !ok {
		return zero, false
	}
	want := reflect.TypeFor[T]()
	if !numericKind(want.Kind()) {
		return zero, false
	}
	rv := reflect.ValueOf(v)
	cv := rv.Convert(want)
	if !cv.Convert(rv.Type()).Equal(rv) {
		return zero, false
	}
	if to, _ := toFloat(cv.Interface()); (from < 0) != (to < 0) {
		return zero, false
	}
	return cv.Interface().(T), true
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
