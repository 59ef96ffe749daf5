package inspect

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Formatter formats decoded value graphs for display.
type Formatter struct {
	// ShowShared marks values reached more than once: &N on first sight,
	// *N on every later occurrence.
	ShowShared bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowShared:  true,
		IndentWidth: 2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatValue formats a scalar value for display.
func (f *Formatter) FormatValue(value any) string {
	if value == nil {
		return "null"
	}

	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v)

	case string:
		return strconv.Quote(v)

	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)

	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)

	case []byte:
		return fmt.Sprintf("0x%x", v)

	case time.Time:
		return v.Format(time.RFC3339Nano)

	case fmt.Stringer:
		return v.String()

	default:
		return fmt.Sprintf("%v", v)
	}
}

// Format renders v as an indented tree, one value per line. Maps are
// listed in key order, sequences by index, and structs by exported field.
// Only reference values (maps, non-empty slices, pointers) can be
// recognized as shared.
func (f *Formatter) Format(v any) string {
	r := &renderer{
		f:      f,
		counts: make(map[identity]int),
		marks:  make(map[identity]int),
	}
	r.count(reflect.ValueOf(v))
	r.node(reflect.ValueOf(v), 0)
	return r.sb.String()
}

// identity distinguishes reference values. The type is part of the key
// so a pointer to a struct and a pointer to its first field differ.
type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

type renderer struct {
	f      *Formatter
	sb     strings.Builder
	counts map[identity]int
	marks  map[identity]int
	next   int
}

func identify(rv reflect.Value) (identity, bool) {
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer:
		if rv.IsNil() {
			return identity{}, false
		}
		return identity{typ: rv.Type(), ptr: rv.Pointer()}, true
	case reflect.Slice:
		if rv.Len() == 0 {
			return identity{}, false
		}
		return identity{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}, true
	}
	return identity{}, false
}

// isScalar reports whether rv renders on a single line.
func isScalar(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Map, reflect.Array, reflect.Interface:
		return false
	case reflect.Slice:
		return rv.Type().Elem().Kind() == reflect.Uint8
	case reflect.Struct, reflect.Pointer:
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return true
		}
		if !rv.CanInterface() {
			return true
		}
		switch rv.Interface().(type) {
		case fmt.Stringer, time.Time:
			return true
		}
		if rv.Kind() == reflect.Pointer {
			return isScalar(rv.Elem())
		}
		return false
	}
	return true
}

// count walks the graph once, recording how often each reference value
// is reached. A value seen before is not descended again, which also
// keeps cyclic graphs finite.
func (r *renderer) count(rv reflect.Value) {
	rv = unwrap(rv)
	if !rv.IsValid() || isScalar(rv) {
		return
	}
	if id, ok := identify(rv); ok {
		r.counts[id]++
		if r.counts[id] > 1 {
			return
		}
	}
	r.children(rv, func(_ string, c reflect.Value) { r.count(c) })
}

func (r *renderer) node(rv reflect.Value, depth int) {
	rv = unwrap(rv)
	if !rv.IsValid() {
		r.line("null")
		return
	}
	if isScalar(rv) {
		r.line(r.scalar(rv))
		return
	}

	marker := ""
	if id, ok := identify(rv); ok && r.f.ShowShared && r.counts[id] > 1 {
		if n, seen := r.marks[id]; seen {
			r.line(fmt.Sprintf("*%d", n))
			return
		}
		r.next++
		r.marks[id] = r.next
		marker = fmt.Sprintf(" &%d", r.next)
	}

	r.line(r.header(rv) + marker)
	r.children(rv, func(label string, c reflect.Value) {
		r.sb.WriteString(r.f.Indent(depth+1, label+": "))
		r.node(c, depth+1)
	})
}

func (r *renderer) line(s string) {
	r.sb.WriteString(s)
	r.sb.WriteByte('\n')
}

func (r *renderer) scalar(rv reflect.Value) string {
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "null"
		}
		if s, ok := rv.Interface().(fmt.Stringer); ok {
			return s.String()
		}
		rv = rv.Elem()
	}
	if !rv.CanInterface() {
		return rv.String()
	}
	return r.f.FormatValue(rv.Interface())
}

func (r *renderer) header(rv reflect.Value) string {
	el := deref(rv)
	switch el.Kind() {
	case reflect.Map:
		if el.Len() == 0 {
			return "{}"
		}
		return fmt.Sprintf("map (%d)", el.Len())
	case reflect.Slice, reflect.Array:
		if el.Len() == 0 {
			return "[]"
		}
		return fmt.Sprintf("list (%d)", el.Len())
	default:
		return TypeName(rv.Interface())
	}
}

// children calls fn for each child of a container in display order.
func (r *renderer) children(rv reflect.Value, fn func(label string, c reflect.Value)) {
	el := deref(rv)
	switch el.Kind() {
	case reflect.Map:
		type kv struct {
			key string
			val reflect.Value
		}
		entries := make([]kv, 0, el.Len())
		iter := el.MapRange()
		for iter.Next() {
			entries = append(entries, kv{key: fmt.Sprint(iter.Key().Interface()), val: iter.Value()})
		}
		slices.SortFunc(entries, func(a, b kv) int { return cmp.Compare(a.key, b.key) })
		for _, e := range entries {
			fn(formatKey(e.key), e.val)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < el.Len(); i++ {
			fn("["+strconv.Itoa(i)+"]", el.Index(i))
		}
	case reflect.Struct:
		t := el.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				fn(t.Field(i).Name, el.Field(i))
			}
		}
	}
}

func unwrap(rv reflect.Value) reflect.Value {
	for rv.IsValid() && rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func deref(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return unwrap(rv)
}

// formatKey quotes keys that would be ambiguous in the tree layout.
func formatKey(k string) string {
	if k == "" || strings.ContainsAny(k, ": \t\n\"") || strings.HasPrefix(k, "[") {
		return strconv.Quote(k)
	}
	return k
}
