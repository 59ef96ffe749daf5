package inspect

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Path errors.
var (
	ErrEmptyPath    = errors.New("empty path")
	ErrInvalidPath  = errors.New("invalid path format")
	ErrNotFound     = errors.New("path segment not found")
	ErrIndexRange   = errors.New("index out of range")
	ErrNotContainer = errors.New("value has no children")
)

// Path is a parsed lookup path into a decoded value graph.
// Format: segment/segment/... where a segment is a map key, a sequence
// index, or a struct field name. A leading slash is accepted and the
// JSON Pointer escapes ~0 (~) and ~1 (/) are honored, so error paths
// reported by the decoder can be pasted directly.
type Path struct {
	// Segments are the unescaped path segments. Empty selects the root.
	Segments []string

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path string into a Path struct.
//
// Supported formats:
//   - "items/0/label" - relative path
//   - "/items/0/label" - JSON Pointer form
//   - "/" - the root value
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}

	p := &Path{Raw: input}
	rest := strings.TrimPrefix(input, "/")
	if rest == "" {
		return p, nil
	}

	for _, part := range strings.Split(rest, "/") {
		if part == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, input)
		}
		if strings.Contains(strings.ReplaceAll(strings.ReplaceAll(part, "~0", ""), "~1", ""), "~") {
			return nil, fmt.Errorf("%w: bad escape in %q", ErrInvalidPath, part)
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		p.Segments = append(p.Segments, part)
	}
	return p, nil
}

// String returns the path in JSON Pointer form.
func (p *Path) String() string {
	if len(p.Segments) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, seg := range p.Segments {
		sb.WriteString("/")
		seg = strings.ReplaceAll(seg, "~", "~0")
		sb.WriteString(strings.ReplaceAll(seg, "/", "~1"))
	}
	return sb.String()
}

// Lookup walks p from root and returns the selected value.
func Lookup(root any, p *Path) (any, error) {
	cur := root
	for i, seg := range p.Segments {
		next, err := child(cur, seg)
		if err != nil {
			at := &Path{Segments: p.Segments[:i+1]}
			return nil, fmt.Errorf("%s: %w", at, err)
		}
		cur = next
	}
	return cur, nil
}

// child selects one segment below v.
func child(v any, seg string) (any, error) {
	switch c := v.(type) {
	case map[string]any:
		val, ok := c[seg]
		if !ok {
			return nil, fmt.Errorf("%w: key %q", ErrNotFound, seg)
		}
		return val, nil
	case []any:
		i, err := index(seg, len(c))
		if err != nil {
			return nil, err
		}
		return c[i], nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil value", ErrNotContainer)
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s", ErrNotContainer, rv.Type().Key())
		}
		val := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, fmt.Errorf("%w: key %q", ErrNotFound, seg)
		}
		return val.Interface(), nil
	case reflect.Slice, reflect.Array:
		i, err := index(seg, rv.Len())
		if err != nil {
			return nil, err
		}
		return rv.Index(i).Interface(), nil
	case reflect.Struct:
		field, ok := structField(rv, seg)
		if !ok {
			return nil, fmt.Errorf("%w: field %q of %s", ErrNotFound, seg, rv.Type().Name())
		}
		return field.Interface(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotContainer, v)
	}
}

func index(seg string, n int) (int, error) {
	i, err := strconv.Atoi(seg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an index", ErrInvalidPath, seg)
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %d (length %d)", ErrIndexRange, i, n)
	}
	return i, nil
}

// structField finds an exported field by json tag name or by
// case-insensitive field name.
func structField(rv reflect.Value, seg string) (reflect.Value, bool) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == seg || strings.EqualFold(f.Name, seg) {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}
