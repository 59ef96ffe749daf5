// Package telepath reconstructs typed, possibly-shared objects from packed
// wire trees.
//
// A producer serializes an object graph (widget definitions, rich content
// values) into a JSON-compatible tree. Shared sub-objects are emitted once
// with an _id and referenced elsewhere with _ref, so the tree stays a tree
// while the decoded result is a graph.
//
// # Wire Shapes
//
// Mapping nodes are recognized by their reserved keys:
//   - {"_val": V}: the value V, returned without further decoding
//   - {"_list": [...]}: an ordered sequence of decoded nodes
//   - {"_dict": {...}}: a mapping of decoded nodes, keys verbatim
//   - {"_type": T, "_args": [...]}: the result of the constructor
//     registered for T, called with the decoded arguments
//   - {"_ref": id}: the value already produced for the node with that _id
//   - anything else: a plain mapping with every value decoded
//
// Any shape except a reference may also carry "_id".
//
// # Decoding
//
// Unpack runs two passes over one tree. The scan pass indexes every node
// carrying _id so that references may point forward in document order.
// The reconstruct pass then walks the tree, constructing each id exactly
// once and returning the cached value for every later reference to it.
//
//	reg := telepath.NewRegistry()
//	reg.Register("Point", func(args []any) (any, error) {
//	    x, err := telepath.Arg[float64](args, 0)
//	    if err != nil {
//	        return nil, err
//	    }
//	    y, err := telepath.Arg[float64](args, 1)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &Point{X: x, Y: y}, nil
//	})
//
//	value, err := telepath.NewCodec(reg).Unpack(tree)
//
// Trees are the generic form produced by encoding/json when decoding into
// an any: map[string]any, []any and primitives. The wire package parses
// JSON, JSONC, CBOR and YAML documents into that form.
//
// # Errors
//
// Every failure is a *DecodeError that matches one of the sentinel errors
// with errors.Is. The codec never logs and never returns a partial value.
package telepath
