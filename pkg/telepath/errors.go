package telepath

import (
	"errors"
	"fmt"
	"strings"
)

// Decode errors. Every error returned by Unpack and Scan is a *DecodeError
// that matches exactly one of these with errors.Is.
var (
	ErrMalformedNode       = errors.New("malformed node")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrUnknownType         = errors.New("unknown type")
	ErrDuplicateID         = errors.New("duplicate id")
	ErrCyclicReference     = errors.New("cyclic reference")
	ErrConstructorFailed   = errors.New("constructor failed")
	ErrDepthExceeded       = errors.New("maximum nesting depth exceeded")
)

// Kind classifies a DecodeError.
type Kind uint8

const (
	KindMalformedNode Kind = iota + 1
	KindUnresolvedReference
	KindUnknownType
	KindDuplicateID
	KindCyclicReference
	KindConstructorFailed
	KindDepthExceeded
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMalformedNode:
		return "MalformedNode"
	case KindUnresolvedReference:
		return "UnresolvedReference"
	case KindUnknownType:
		return "UnknownType"
	case KindDuplicateID:
		return "DuplicateId"
	case KindCyclicReference:
		return "CyclicReference"
	case KindConstructorFailed:
		return "ConstructorFailed"
	case KindDepthExceeded:
		return "DepthExceeded"
	default:
		return "Unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindMalformedNode:
		return ErrMalformedNode
	case KindUnresolvedReference:
		return ErrUnresolvedReference
	case KindUnknownType:
		return ErrUnknownType
	case KindDuplicateID:
		return ErrDuplicateID
	case KindCyclicReference:
		return ErrCyclicReference
	case KindConstructorFailed:
		return ErrConstructorFailed
	case KindDepthExceeded:
		return ErrDepthExceeded
	default:
		return nil
	}
}

// DecodeError describes why a tree could not be decoded.
type DecodeError struct {
	// Kind classifies the failure.
	Kind Kind

	// ID is the offending id, if any.
	ID ID

	// Type is the offending type name, if any.
	Type string

	// Path locates the offending node, as a slash-separated list of keys
	// and indices from the root ("/" for the root itself).
	Path string

	// Detail says what was wrong with a malformed node.
	Detail string

	// Err is the error returned by a failing constructor.
	Err error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("telepath: ")
	b.WriteString(e.Kind.sentinel().Error())
	if e.Type != "" {
		fmt.Fprintf(&b, " %q", e.Type)
	}
	if !e.ID.IsZero() {
		fmt.Fprintf(&b, " (id %s)", e.ID)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is reports whether target is the sentinel for e's kind.
func (e *DecodeError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Unwrap returns the constructor error, if any.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the DecodeError in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
