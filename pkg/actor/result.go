package actor

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Values is a plain key/value map used to seed a Result and to describe the
// keys merged into it by Fail, Succeed and Merge.
type Values map[string]any

// Seed is accepted by Call and Result. It is implemented by Values (copied
// into a fresh Result) and *Result (reused as-is).
type Seed interface {
	toResult() *Result
}

func (v Values) toResult() *Result {
	return NewResult(v)
}

func (r *Result) toResult() *Result {
	if r == nil {
		return NewResult(nil)
	}
	return r
}

// Result is the shared, mutable state threaded through an actor and every
// actor it plays. Keys keep their insertion order.
//
// A Result is owned by a single call chain and is not safe for concurrent
// use.
type Result struct {
	id      string
	data    *orderedmap.OrderedMap[string, any]
	failure bool
}

// NewResult creates a Result holding a copy of values. Keys are inserted in
// sorted order so that the iteration order does not depend on map ordering.
func NewResult(values Values) *Result {
	r := &Result{data: orderedmap.New[string, any]()}
	r.Merge(values)
	return r
}

// ID returns the call identifier assigned when the Result first entered a
// top-level call. It is empty for a Result that has not been called yet.
func (r *Result) ID() string {
	return r.id
}

func (r *Result) ensureID() {
	if r.id == "" {
		r.id = uuid.NewString()
	}
}

// Get returns the value stored under key, or nil when the key is absent.
func (r *Result) Get(key string) any {
	v, _ := r.data.Get(key)
	return v
}

// Lookup returns the value stored under key and whether the key is present.
// A key explicitly set to nil is present.
func (r *Result) Lookup(key string) (any, bool) {
	return r.data.Get(key)
}

// Has reports whether key is present, regardless of its value.
func (r *Result) Has(key string) bool {
	_, ok := r.data.Get(key)
	return ok
}

// Set stores value under key. A new key goes last; an existing key keeps
// its position.
func (r *Result) Set(key string, value any) {
	r.data.Set(key, value)
}

// Delete removes key and returns its previous value.
func (r *Result) Delete(key string) any {
	v, _ := r.data.Delete(key)
	return v
}

// Merge applies every key of values onto r and returns r. Keys absent from
// values are left untouched.
func (r *Result) Merge(values Values) *Result {
	for _, k := range slices.Sorted(maps.Keys(values)) {
		r.data.Set(k, values[k])
	}
	return r
}

// Fail merges values, marks r as failed and returns the *Failure signal
// carrying r. Actor code returns it to stop the current actor and every
// enclosing pipeline:
//
//	return a.Result().Fail(actor.Values{"error": "out of stock"})
func (r *Result) Fail(values Values) error {
	r.Merge(values)
	r.failure = true
	return &Failure{Result: r}
}

// Succeed merges values, clears the failure flag and returns the *Success
// signal carrying r. It stops the chain early without triggering rollback.
func (r *Result) Succeed(values Values) error {
	r.Merge(values)
	r.failure = false
	return &Success{Result: r}
}

// IsFailure reports whether a failure was signalled on r.
func (r *Result) IsFailure() bool {
	return r.failure
}

// IsSuccess is the negation of IsFailure.
func (r *Result) IsSuccess() bool {
	return !r.failure
}

// ErrorValue returns the conventional "error" key as a string. Non-string
// values are formatted with fmt-style %v semantics via inspect.
func (r *Result) ErrorValue() string {
	v := r.Get("error")
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return inspect(v)
}

// Keys returns the keys in insertion order.
func (r *Result) Keys() []string {
	keys := make([]string, 0, r.data.Len())
	for p := r.data.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Len returns the number of keys.
func (r *Result) Len() int {
	return r.data.Len()
}

// Values returns a shallow copy of the stored values.
func (r *Result) Values() Values {
	out := make(Values, r.data.Len())
	for p := r.data.Oldest(); p != nil; p = p.Next() {
		out[p.Key] = p.Value
	}
	return out
}

// Lookup returns the value under key read as T. The boolean is false when
// the key is absent or its value cannot be read as T; numbers of another
// kind are converted when they fit.
func Lookup[T any](r *Result, key string) (T, bool) {
	v, ok := r.data.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	return convert[T](v)
}

// MarshalJSON encodes the Result as a JSON object in key insertion order.
func (r *Result) MarshalJSON() ([]byte, error) {
	return r.data.MarshalJSON()
}

// LogValue renders the Result as a group so that handler-level redaction
// sees every key as its own attribute.
func (r *Result) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, r.data.Len())
	for p := r.data.Oldest(); p != nil; p = p.Next() {
		attrs = append(attrs, slog.Any(p.Key, p.Value))
	}
	return slog.GroupValue(attrs...)
}
