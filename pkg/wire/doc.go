// Package wire reads and writes telepath wire trees.
//
// A wire tree is a JSON-compatible document. Producers usually emit it as
// JSON embedded in server-rendered markup, but fixtures and captured
// traffic also arrive as JSONC, CBOR or YAML. This package parses all of
// them into the generic node form the telepath codec consumes:
//   - mappings become map[string]any
//   - sequences become []any
//   - everything else is a primitive
//
// # Formats
//
//   - json: RFC 8259, decoded with encoding/json (numbers are float64)
//   - jsonc: JSON with // and /* */ comments and trailing commas
//   - cbor: RFC 8949; integers decode to uint64/int64
//   - yaml: YAML 1.2; mappings with non-string keys are rejected
//
// # Keys
//
// Telepath reserved keys are strings, so every mapping must have string
// keys. CBOR maps with integer keys and YAML mappings with non-string
// keys fail to parse rather than being coerced.
package wire
