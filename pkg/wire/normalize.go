package wire

import (
	"errors"
	"fmt"
)

// ErrNonStringKey is returned when a mapping has a key that is not a string.
var ErrNonStringKey = errors.New("mapping key is not a string")

// Normalize rewrites any map[any]any in v into map[string]any, recursing
// through mappings and sequences. It returns ErrNonStringKey for keys that
// are not strings.
func Normalize(v any) (any, error) {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for key, value := range n {
			nv, err := Normalize(value)
			if err != nil {
				return nil, err
			}
			out[key] = nv
		}
		return out, nil

	case map[any]any:
		out := make(map[string]any, len(n))
		for key, value := range n {
			s, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %v (%T)", ErrNonStringKey, key, key)
			}
			nv, err := Normalize(value)
			if err != nil {
				return nil, err
			}
			out[s] = nv
		}
		return out, nil

	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			nv, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil

	default:
		return v, nil
	}
}
