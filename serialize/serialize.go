// Package serialize normalizes run payloads: the collector requires inputs
// and outputs to be JSON objects, so non-object values are wrapped under a
// default key before transmission.
package serialize

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Default wrapping keys for non-object payloads.
const (
	InputKey  = "input"
	OutputKey = "output"
)

// Object converts v to a JSON object. Values that already serialize to an
// object are returned as-is; primitives and arrays are wrapped under key.
// A value that cannot be serialized at all is a programming error in the
// caller's types and is surfaced as an error.
func Object(v any, key string) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}

	data, err := sonic.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}

	var decoded any
	if err := sonic.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}

	if m, ok := decoded.(map[string]any); ok {
		return m, nil
	}
	return map[string]any{key: decoded}, nil
}

// Inputs normalizes a run input payload.
func Inputs(v any) (map[string]any, error) { return Object(v, InputKey) }

// Outputs normalizes a run output payload.
func Outputs(v any) (map[string]any, error) { return Object(v, OutputKey) }
