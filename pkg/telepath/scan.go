package telepath

import (
	"slices"
	"strconv"
)

type entry struct {
	node node
	path []string
}

// Index is the result of the scan pass over one tree: every node carrying
// an _id, plus the references and type names encountered.
type Index struct {
	entries   map[ID]*entry
	ids       []ID
	refs      []ID
	types     map[string]int
	typeOrder []string
}

func newIndex() *Index {
	return &Index{
		entries: make(map[ID]*entry),
		types:   make(map[string]int),
	}
}

// Len returns the number of declared ids.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// IDs returns the declared ids in traversal order.
func (ix *Index) IDs() []ID {
	return slices.Clone(ix.ids)
}

// Refs returns every reference id in traversal order, including repeats.
func (ix *Index) Refs() []ID {
	return slices.Clone(ix.refs)
}

// Node returns the raw mapping declaring id.
func (ix *Index) Node(id ID) (map[string]any, bool) {
	e, ok := ix.entries[id]
	if !ok {
		return nil, false
	}
	return e.node.raw, true
}

// Path returns the location of the node declaring id.
func (ix *Index) Path(id ID) (string, bool) {
	e, ok := ix.entries[id]
	if !ok {
		return "", false
	}
	return formatPath(e.path), true
}

// Types returns the type names used by typed nodes, in first-seen order.
func (ix *Index) Types() []string {
	return slices.Clone(ix.typeOrder)
}

// TypeCount returns how many typed nodes use name.
func (ix *Index) TypeCount(name string) int {
	return ix.types[name]
}

// Unresolved returns the distinct reference ids with no declaring node,
// in first-seen order.
func (ix *Index) Unresolved() []ID {
	var missing []ID
	seen := make(map[ID]bool)
	for _, ref := range ix.refs {
		if _, ok := ix.entries[ref]; ok || seen[ref] {
			continue
		}
		seen[ref] = true
		missing = append(missing, ref)
	}
	return missing
}

// scanner walks a tree once, recording every _id before any value is built.
type scanner struct {
	index    *Index
	path     []string
	depth    int
	maxDepth int
}

func (s *scanner) scan(v any) error {
	switch n := v.(type) {
	case []any:
		if err := s.enter(); err != nil {
			return err
		}
		defer s.leave()
		return s.scanItems(n)
	case map[string]any:
		if err := s.enter(); err != nil {
			return err
		}
		defer s.leave()
		return s.scanMap(n)
	default:
		return nil
	}
}

func (s *scanner) enter() error {
	s.depth++
	if s.maxDepth > 0 && s.depth > s.maxDepth {
		return &DecodeError{Kind: KindDepthExceeded, Path: formatPath(s.path)}
	}
	return nil
}

func (s *scanner) leave() {
	s.depth--
}

func (s *scanner) scanItems(items []any) error {
	for i, item := range items {
		s.path = append(s.path, strconv.Itoa(i))
		err := s.scan(item)
		s.path = s.path[:len(s.path)-1]
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) scanEntries(m map[string]any) error {
	for _, key := range sortedKeys(m) {
		s.path = append(s.path, key)
		err := s.scan(m[key])
		s.path = s.path[:len(s.path)-1]
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) scanMap(m map[string]any) error {
	n, derr := parseNode(m)
	if derr != nil {
		derr.Path = formatPath(s.path)
		return derr
	}

	if !n.id.IsZero() {
		if prev, dup := s.index.entries[n.id]; dup {
			return &DecodeError{
				Kind:   KindDuplicateID,
				ID:     n.id,
				Path:   formatPath(s.path),
				Detail: "first declared at " + formatPath(prev.path),
			}
		}
		s.index.entries[n.id] = &entry{node: n, path: slices.Clone(s.path)}
		s.index.ids = append(s.index.ids, n.id)
	}

	switch n.shape {
	case shapeRef:
		s.index.refs = append(s.index.refs, n.ref)
		return nil
	case shapeValue:
		return nil
	case shapeList:
		return s.nested(KeyList, func() error { return s.scanItems(n.items) })
	case shapeDict:
		return s.nested(KeyDict, func() error { return s.scanEntries(n.dict) })
	case shapeTyped:
		if s.index.types[n.typ] == 0 {
			s.index.typeOrder = append(s.index.typeOrder, n.typ)
		}
		s.index.types[n.typ]++
		return s.nested(KeyArgs, func() error { return s.scanItems(n.items) })
	default:
		return s.scanEntries(m)
	}
}

func (s *scanner) nested(key string, fn func() error) error {
	s.path = append(s.path, key)
	err := fn()
	s.path = s.path[:len(s.path)-1]
	return err
}
