package inspect

import (
	"reflect"
	"time"
)

// Typed is implemented by decoded values that know the telepath type name
// they were constructed from. Generic records use it to report the type
// of a node the tool had no constructor for.
type Typed interface {
	TelepathType() string
}

// TypeName returns a display name for a decoded value: the telepath type
// for Typed values, the Go type name for structs, and a generic kind name
// for everything else.
func TypeName(v any) string {
	if t, ok := v.(Typed); ok {
		return t.TelepathType()
	}
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "map"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "bool"
	case time.Time:
		return "time"
	}

	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	switch rt.Kind() {
	case reflect.Struct:
		if rt.Name() != "" {
			return rt.Name()
		}
		return "struct"
	case reflect.Map:
		return "map"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	default:
		return rt.String()
	}
}
