package jsonvalue_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/go-actor/internal/platform/jsonvalue"
)

func TestDecode_NarrowsNumbers(t *testing.T) {
	t.Parallel()

	got, err := jsonvalue.Decode(strings.NewReader(
		`{"qty": 3, "price": 2.5, "whole": 2.0, "sci": 1e3, "frac": 15e-1, "nested": {"n": [1, 2.5]}}`,
	))

	require.NoError(t, err)
	assert.Equal(t, 3, got["qty"])
	assert.InDelta(t, 2.5, got["price"], 1e-9)
	assert.IsType(t, float64(0), got["whole"])
	assert.Equal(t, 1000, got["sci"])
	assert.InDelta(t, 1.5, got["frac"], 1e-9)
	assert.Equal(t, map[string]any{"n": []any{1, 2.5}}, got["nested"])
}

func TestDecode_EmptyBody(t *testing.T) {
	t.Parallel()

	got, err := jsonvalue.Decode(strings.NewReader("  \n"))

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		is   error
	}{
		{name: "array", body: `[1, 2]`, is: jsonvalue.ErrNotObject},
		{name: "string", body: `"x"`, is: jsonvalue.ErrNotObject},
		{name: "malformed", body: `{"a":`},
		{name: "trailing", body: `{"a": 1} {"b": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := jsonvalue.Decode(strings.NewReader(tt.body))
			require.Error(t, err)
			if tt.is != nil {
				require.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestDecode_NullsAndBooleans(t *testing.T) {
	t.Parallel()

	got, err := jsonvalue.DecodeBytes([]byte(`{"a": null, "b": true}`))

	require.NoError(t, err)
	v, ok := got["a"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, true, got["b"])
}
