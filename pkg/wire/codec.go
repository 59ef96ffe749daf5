package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// encMode is the CBOR encoder mode for wire trees.
// Configured for deterministic encoding so equal trees encode identically.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for wire trees.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical, // Deterministic key ordering
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		// Mappings must have string keys; an any-typed target would
		// otherwise become map[interface{}]interface{}.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		// A repeated key makes the node shape ambiguous.
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthAllowed,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// Parse decodes data in the given format into a wire tree.
func Parse(format Format, data []byte) (any, error) {
	var tree any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to decode json wire tree: %w", err)
		}
		return tree, nil

	case FormatJSONC:
		if err := json.Unmarshal(jsonc.ToJSON(data), &tree); err != nil {
			return nil, fmt.Errorf("failed to decode jsonc wire tree: %w", err)
		}
		return tree, nil

	case FormatCBOR:
		if err := decMode.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to decode cbor wire tree: %w", err)
		}
		return tree, nil

	case FormatYAML:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to decode yaml wire tree: %w", err)
		}
		normalized, err := Normalize(tree)
		if err != nil {
			return nil, fmt.Errorf("failed to decode yaml wire tree: %w", err)
		}
		return normalized, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// ParseAuto detects the format of data and parses it.
func ParseAuto(path string, data []byte) (any, Format, error) {
	format := DetectFormat(path, data)
	tree, err := Parse(format, data)
	return tree, format, err
}

// ReadFile reads and parses a wire tree from disk. A FormatUnknown format
// is detected from the path and content.
func ReadFile(path string, format Format) (any, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, format, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if format == FormatUnknown {
		format = DetectFormat(path, data)
	}
	tree, err := Parse(format, data)
	if err != nil {
		return nil, format, fmt.Errorf("%s: %w", path, err)
	}
	return tree, format, nil
}

// Encode serializes v in the given format. JSON output is indented and
// newline-terminated; JSONC output is plain JSON.
func Encode(format Format, v any) ([]byte, error) {
	switch format {
	case FormatJSON, FormatJSONC:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return append(data, '\n'), nil

	case FormatCBOR:
		data, err := encMode.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode cbor: %w", err)
		}
		return data, nil

	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return data, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Convert re-encodes a wire document from one format to another.
func Convert(from, to Format, data []byte) ([]byte, error) {
	tree, err := Parse(from, data)
	if err != nil {
		return nil, err
	}
	return Encode(to, tree)
}

// Equal compares two wire trees by their deterministic CBOR encoding.
// Integral numbers are compared by value, so the float64 produced by
// encoding/json equals the uint64 produced by the CBOR decoder.
func Equal(a, b any) bool {
	dataA, errA := encMode.Marshal(canonical(a))
	dataB, errB := encMode.Marshal(canonical(b))
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(dataA, dataB)
}

func canonical(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for key, value := range n {
			out[key] = canonical(value)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = canonical(item)
		}
		return out
	case float64:
		if n == math.Trunc(n) && n >= math.MinInt64 && n < math.MaxInt64 {
			return int64(n)
		}
		return n
	case float32:
		return canonical(float64(n))
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n)
		}
		return n
	case uint32:
		return int64(n)
	default:
		return v
	}
}
