package telepath

import (
	"encoding/json"
	"math"
	"strconv"
)

// ID identifies a node whose decoded value may be shared through references.
// Ids are either strings or integral numbers. Numeric ids compare by value
// regardless of the Go type the parser produced, so float64(5) from JSON
// and uint64(5) from CBOR name the same node. The string "5" is a
// different id from the number 5.
//
// The zero ID is not a valid id; it is used where no id applies.
type ID struct {
	str   string
	num   int64
	isNum bool
	valid bool
}

// StringID returns the id for a string token.
func StringID(s string) ID {
	return ID{str: s, valid: true}
}

// IntID returns the id for a numeric token.
func IntID(n int64) ID {
	return ID{num: n, isNum: true, valid: true}
}

// IsZero reports whether id is the zero ID.
func (id ID) IsZero() bool {
	return !id.valid
}

// IsNumber reports whether id is numeric.
func (id ID) IsNumber() bool {
	return id.isNum
}

// String returns the id as it would appear in a JSON document.
func (id ID) String() string {
	switch {
	case !id.valid:
		return "<none>"
	case id.isNum:
		return strconv.FormatInt(id.num, 10)
	default:
		return strconv.Quote(id.str)
	}
}

// ParseID converts a wire value found under _id or _ref into an ID.
// It reports false for values that cannot act as ids: non-integral or
// out-of-range numbers, booleans, null, and containers.
func ParseID(v any) (ID, bool) {
	switch n := v.(type) {
	case string:
		return StringID(n), true
	case float64:
		return floatID(n)
	case float32:
		return floatID(float64(n))
	case int:
		return IntID(int64(n)), true
	case int8:
		return IntID(int64(n)), true
	case int16:
		return IntID(int64(n)), true
	case int32:
		return IntID(int64(n)), true
	case int64:
		return IntID(n), true
	case uint:
		return uintID(uint64(n))
	case uint8:
		return IntID(int64(n)), true
	case uint16:
		return IntID(int64(n)), true
	case uint32:
		return IntID(int64(n)), true
	case uint64:
		return uintID(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return ID{}, false
		}
		return IntID(i), true
	default:
		return ID{}, false
	}
}

func floatID(f float64) (ID, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return ID{}, false
	}
	return IntID(int64(f)), true
}

func uintID(u uint64) (ID, bool) {
	if u > math.MaxInt64 {
		return ID{}, false
	}
	return IntID(int64(u)), true
}
