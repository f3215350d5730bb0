// Package jsonvalue decodes loosely typed JSON objects into actor values.
// Numbers are decoded with UseNumber and narrowed afterwards: integral
// numbers become int and the rest float64, so declared Integer attributes
// accept whole numbers sent over the wire.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// ErrNotObject is returned when the JSON document is not an object.
var ErrNotObject = errors.New("json value is not an object")

// Decode reads one JSON object from r. An empty body decodes to an empty
// map. Trailing data after the object is an error.
func Decode(r io.Reader) (map[string]any, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading json: %w", err)
	}
	return DecodeBytes(body)
}

// DecodeBytes is Decode for an in-memory document.
func DecodeBytes(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decoding json: unexpected data after object")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	normalizeMap(obj)
	return obj, nil
}

// Normalize narrows json.Number values anywhere inside v.
func Normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		return number(t)
	case map[string]any:
		normalizeMap(t)
		return t
	case []any:
		for i := range t {
			t[i] = Normalize(t[i])
		}
		return t
	default:
		return v
	}
}

func normalizeMap(m map[string]any) {
	for k, v := range m {
		m[k] = Normalize(v)
	}
}

func number(n json.Number) any {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil && i >= math.MinInt && i <= math.MaxInt {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 && !isFraction(n) {
			return int(f)
		}
		return f
	}
	return n.String()
}

// isFraction reports whether the literal was written with a fractional part,
// as in 2.0, which stays a float.
func isFraction(n json.Number) bool {
	return bytes.ContainsRune([]byte(n), '.')
}
