package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputsWrapsPrimitive(t *testing.T) {
	got, err := Inputs(5)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"input": float64(5)}, got)
}

func TestInputsWrapsArray(t *testing.T) {
	got, err := Inputs([]int{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"input": []any{float64(1), float64(2), float64(3)}}, got)
}

func TestInputsKeepsObjectUnchanged(t *testing.T) {
	in := map[string]any{"question": "why"}

	got, err := Inputs(in)

	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestInputsConvertsStruct(t *testing.T) {
	type query struct {
		Question string `json:"question"`
		TopK     int    `json:"top_k"`
	}

	got, err := Inputs(query{Question: "why", TopK: 3})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"question": "why", "top_k": float64(3)}, got)
}

func TestOutputsWrapsPrimitive(t *testing.T) {
	got, err := Outputs("done")

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"output": "done"}, got)
}

func TestObjectCustomKey(t *testing.T) {
	got, err := Object(true, "flag")

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"flag": true}, got)
}

func TestObjectWrapsNil(t *testing.T) {
	got, err := Inputs(nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"input": nil}, got)
}

func TestObjectUnserializableValue(t *testing.T) {
	_, err := Inputs(make(chan int))

	assert.Error(t, err)
}
