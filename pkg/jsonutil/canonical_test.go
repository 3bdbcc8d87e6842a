package jsonutil_test

import (
	"testing"
	"time"

	"github.com/mtt-project/mtt/pkg/jsonutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalMarshal_SortedKeys(t *testing.T) {
	input := map[string]any{
		"zebra": 1,
		"alpha": 2,
		"mid":   3,
	}
	out, err := jsonutil.CanonicalMarshal(input)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mid":3,"zebra":1}`, string(out))
}

func TestCanonicalMarshal_Nested(t *testing.T) {
	input := map[string]any{
		"b": map[string]any{"z": 1, "a": 2},
		"a": 0,
	}
	out, err := jsonutil.CanonicalMarshal(input)
	require.NoError(t, err)
	assert.Equal(t, `{"a":0,"b":{"a":2,"z":1}}`, string(out))
}

func TestCanonicalMarshal_StructSortsFields(t *testing.T) {
	type sample struct {
		Zebra int    `json:"zebra"`
		Alpha string `json:"alpha"`
	}
	out, err := jsonutil.CanonicalMarshal(sample{Zebra: 1, Alpha: "a"})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"a","zebra":1}`, string(out))
}

func TestCanonicalMarshal_NullsAndArrays(t *testing.T) {
	input := map[string]any{
		"arr":  []any{1, nil, "text", false},
		"null": nil,
	}
	out, err := jsonutil.CanonicalMarshal(input)
	require.NoError(t, err)
	assert.Equal(t, `{"arr":[1,null,"text",false],"null":null}`, string(out))
}

func TestCanonicalMarshal_LargeNumbers(t *testing.T) {
	input := map[string]any{
		"maxInt": int64(9007199254740993),
		"float":  3.141592653589793,
	}
	out, err := jsonutil.CanonicalMarshal(input)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"maxInt":9007199254740993`)
	assert.Contains(t, string(out), `"float":3.141592653589793`)
}

func TestCanonicalMarshal_Time(t *testing.T) {
	input := map[string]any{"at": time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	out, err := jsonutil.CanonicalMarshal(input)
	require.NoError(t, err)
	assert.Equal(t, `{"at":"2024-03-01T09:00:00Z"}`, string(out))
}

func TestCanonicalMarshal_Unmarshalable(t *testing.T) {
	_, err := jsonutil.CanonicalMarshal(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestCanonicalHash_Deterministic(t *testing.T) {
	a, err := jsonutil.CanonicalHash(map[string]any{"c": 3, "a": 1})
	require.NoError(t, err)
	b, err := jsonutil.CanonicalHash(map[string]any{"a": 1, "c": 3})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}
