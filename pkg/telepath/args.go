package telepath

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrBadArgument is returned by the argument helpers when an argument is
// missing or has the wrong type.
var ErrBadArgument = errors.New("bad constructor argument")

// Arg returns args[i] as a T. Numeric arguments are converted between
// float64, int64 and int as long as no precision is lost, since parsers
// for different wire formats produce different numeric types.
func Arg[T any](args []any, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(args) {
		return zero, fmt.Errorf("%w: argument %d missing (got %d)", ErrBadArgument, i, len(args))
	}
	return convertArg[T](args[i], i)
}

// ArgOr returns args[i] as a T, or def when the argument is absent or null.
func ArgOr[T any](args []any, i int, def T) (T, error) {
	if i < 0 || i >= len(args) || args[i] == nil {
		return def, nil
	}
	return convertArg[T](args[i], i)
}

func convertArg[T any](raw any, i int) (T, error) {
	if v, ok := raw.(T); ok {
		return v, nil
	}

	var out T
	switch p := any(&out).(type) {
	case *float64:
		if f, ok := Number(raw); ok {
			*p = f
			return out, nil
		}
	case *int64:
		if n, ok := Int(raw); ok {
			*p = n
			return out, nil
		}
	case *int:
		if n, ok := Int(raw); ok && n >= math.MinInt && n <= math.MaxInt {
			*p = int(n)
			return out, nil
		}
	}
	return out, fmt.Errorf("%w: argument %d is %T, want %T", ErrBadArgument, i, raw, out)
}

// Number converts any numeric wire value to a float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Int converts an integral numeric wire value to an int64.
func Int(v any) (int64, bool) {
	id, ok := ParseID(v)
	if !ok || !id.IsNumber() {
		return 0, false
	}
	return id.num, true
}
