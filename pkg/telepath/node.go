package telepath

import (
	"slices"
	"strings"
)

// Reserved keys recognized on mapping nodes.
const (
	KeyID   = "_id"
	KeyType = "_type"
	KeyArgs = "_args"
	KeyVal  = "_val"
	KeyList = "_list"
	KeyDict = "_dict"
	KeyRef  = "_ref"
)

// shape is the decode rule selected for a mapping node.
type shape uint8

const (
	shapePlain shape = iota
	shapeRef
	shapeValue
	shapeList
	shapeDict
	shapeTyped
)

// node is a mapping node with its shape resolved and its reserved
// payloads type-checked.
type node struct {
	raw   map[string]any
	shape shape
	id    ID // zero when the node carries no _id
	ref   ID
	items []any // _list elements or _args
	dict  map[string]any
	typ   string
}

// parseNode selects the decode rule for m. Reserved keys take precedence
// in the order _ref, _val, _list, _dict, _type; a mapping with none of
// them is plain. The returned error has no path set.
func parseNode(m map[string]any) (node, *DecodeError) {
	n := node{raw: m}

	if raw, ok := m[KeyID]; ok {
		id, ok := ParseID(raw)
		if !ok {
			return n, malformed("_id must be a string or an integer")
		}
		n.id = id
	}

	if raw, ok := m[KeyRef]; ok {
		if !n.id.IsZero() {
			return n, &DecodeError{Kind: KindMalformedNode, ID: n.id, Detail: "a reference cannot carry _id"}
		}
		ref, ok := ParseID(raw)
		if !ok {
			return n, malformed("_ref must be a string or an integer")
		}
		n.shape = shapeRef
		n.ref = ref
		return n, nil
	}

	if _, ok := m[KeyVal]; ok {
		n.shape = shapeValue
		return n, nil
	}

	if raw, ok := m[KeyList]; ok {
		items, ok := raw.([]any)
		if !ok {
			return n, malformed("_list must be a sequence")
		}
		n.shape = shapeList
		n.items = items
		return n, nil
	}

	if raw, ok := m[KeyDict]; ok {
		dict, ok := raw.(map[string]any)
		if !ok {
			return n, malformed("_dict must be a mapping")
		}
		n.shape = shapeDict
		n.dict = dict
		return n, nil
	}

	if raw, ok := m[KeyType]; ok {
		typ, ok := raw.(string)
		if !ok {
			return n, malformed("_type must be a string")
		}
		args, ok := m[KeyArgs].([]any)
		if !ok {
			return n, &DecodeError{Kind: KindMalformedNode, Type: typ, Detail: "_args must be a sequence"}
		}
		n.shape = shapeTyped
		n.typ = typ
		n.items = args
		return n, nil
	}

	if !n.id.IsZero() {
		return n, &DecodeError{Kind: KindMalformedNode, ID: n.id, Detail: "_id without _type, _val, _list or _dict"}
	}
	n.shape = shapePlain
	return n, nil
}

func malformed(detail string) *DecodeError {
	return &DecodeError{Kind: KindMalformedNode, Detail: detail}
}

// sortedKeys fixes the traversal order of mappings so that both passes,
// and therefore the reported errors, are deterministic.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

var pathEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// formatPath renders path segments as a JSON Pointer.
func formatPath(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(pathEscaper.Replace(s))
	}
	return b.String()
}
