package telepath

import (
	"slices"
	"strconv"
)

// DefaultMaxDepth bounds container nesting in one tree. It matches the
// limit encoding/json applies when parsing.
const DefaultMaxDepth = 10000

// Codec decodes packed wire trees using the constructors of a Registry.
// A Codec holds no per-call state and is safe for concurrent use as long
// as its registry is not modified while decoding.
type Codec struct {
	registry *Registry
	maxDepth int
}

// Option configures a Codec.
type Option func(*Codec)

// WithMaxDepth limits container nesting to n levels. Zero or a negative n
// removes the limit.
func WithMaxDepth(n int) Option {
	return func(c *Codec) {
		c.maxDepth = n
	}
}

// NewCodec creates a codec that resolves typed nodes through registry.
// A nil registry behaves like an empty one.
func NewCodec(registry *Registry, opts ...Option) *Codec {
	if registry == nil {
		registry = NewRegistry()
	}
	c := &Codec{
		registry: registry,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry the codec reads constructors from.
func (c *Codec) Registry() *Registry {
	return c.registry
}

// Scan runs the scan pass alone and returns the id index of tree.
func (c *Codec) Scan(tree any) (*Index, error) {
	s := &scanner{index: newIndex(), maxDepth: c.maxDepth}
	if err := s.scan(tree); err != nil {
		return nil, err
	}
	return s.index, nil
}

// Unpack decodes tree into a value graph. Nodes sharing an id decode to
// the same value: the same map, slice backing array, or constructed
// instance. On error no value is returned.
func (c *Codec) Unpack(tree any) (any, error) {
	index, err := c.Scan(tree)
	if err != nil {
		return nil, err
	}
	d := &decoder{
		registry: c.registry,
		index:    index,
		values:   make(map[ID]any, index.Len()),
		active:   make(map[ID]bool),
		maxDepth: c.maxDepth,
	}
	v, err := d.decode(tree)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// decoder is the state of one reconstruct pass.
type decoder struct {
	registry *Registry
	index    *Index
	values   map[ID]any  // Materialized value per id
	active   map[ID]bool // Ids whose construction is in progress
	path     []string
	depth    int
	maxDepth int
}

func (d *decoder) decode(v any) (any, error) {
	switch n := v.(type) {
	case []any:
		if err := d.enter(); err != nil {
			return nil, err
		}
		defer d.leave()
		return d.decodeItems(n)
	case map[string]any:
		if err := d.enter(); err != nil {
			return nil, err
		}
		defer d.leave()
		parsed, derr := parseNode(n)
		if derr != nil {
			derr.Path = formatPath(d.path)
			return nil, derr
		}
		return d.decodeNode(parsed)
	default:
		return v, nil
	}
}

func (d *decoder) enter() error {
	d.depth++
	if d.maxDepth > 0 && d.depth > d.maxDepth {
		return &DecodeError{Kind: KindDepthExceeded, Path: formatPath(d.path)}
	}
	return nil
}

func (d *decoder) leave() {
	d.depth--
}

func (d *decoder) decodeNode(n node) (any, error) {
	if n.shape == shapeRef {
		return d.resolve(n.ref)
	}

	if n.id.IsZero() {
		return d.build(n)
	}

	// Reached directly after a forward reference already built it.
	if v, ok := d.values[n.id]; ok {
		return v, nil
	}
	if d.active[n.id] {
		return nil, &DecodeError{Kind: KindCyclicReference, ID: n.id, Path: formatPath(d.path)}
	}

	d.active[n.id] = true
	v, err := d.build(n)
	delete(d.active, n.id)
	if err != nil {
		return nil, err
	}
	d.values[n.id] = v
	return v, nil
}

// resolve returns the value for a reference, decoding the declaring node
// at its own location in the tree if it has not been built yet.
func (d *decoder) resolve(id ID) (any, error) {
	if v, ok := d.values[id]; ok {
		return v, nil
	}
	if d.active[id] {
		return nil, &DecodeError{Kind: KindCyclicReference, ID: id, Path: formatPath(d.path)}
	}
	e, ok := d.index.entries[id]
	if !ok {
		return nil, &DecodeError{Kind: KindUnresolvedReference, ID: id, Path: formatPath(d.path)}
	}

	saved := d.path
	d.path = slices.Clip(e.path)
	v, err := d.decodeNode(e.node)
	d.path = saved
	return v, err
}

func (d *decoder) build(n node) (any, error) {
	switch n.shape {
	case shapeValue:
		return n.raw[KeyVal], nil
	case shapeList:
		d.path = append(d.path, KeyList)
		defer d.pop()
		return d.decodeItems(n.items)
	case shapeDict:
		d.path = append(d.path, KeyDict)
		defer d.pop()
		return d.decodeEntries(n.dict)
	case shapeTyped:
		return d.construct(n)
	default:
		return d.decodeEntries(n.raw)
	}
}

func (d *decoder) construct(n node) (any, error) {
	d.path = append(d.path, KeyArgs)
	args, err := d.decodeItems(n.items)
	d.pop()
	if err != nil {
		return nil, err
	}

	ctor, ok := d.registry.Lookup(n.typ)
	if !ok {
		return nil, &DecodeError{Kind: KindUnknownType, Type: n.typ, ID: n.id, Path: formatPath(d.path)}
	}
	v, err := ctor(args)
	if err != nil {
		return nil, &DecodeError{Kind: KindConstructorFailed, Type: n.typ, ID: n.id, Path: formatPath(d.path), Err: err}
	}
	return v, nil
}

func (d *decoder) decodeItems(items []any) ([]any, error) {
	out := make([]any, len(items))
	for i, item := range items {
		d.path = append(d.path, strconv.Itoa(i))
		v, err := d.decode(item)
		d.pop()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *decoder) decodeEntries(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for _, key := range sortedKeys(m) {
		d.path = append(d.path, key)
		v, err := d.decode(m[key])
		d.pop()
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func (d *decoder) pop() {
	d.path = d.path[:len(d.path)-1]
}
