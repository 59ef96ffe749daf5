package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/jsonc"
)

// ErrUnknownFormat is returned for format names and documents that match
// none of the supported formats.
var ErrUnknownFormat = errors.New("unknown wire format")

// Format is a serialization of a wire tree.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatJSONC
	FormatCBOR
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatJSONC:
		return "jsonc"
	case FormatCBOR:
		return "cbor"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ParseFormat converts a format name to a Format. Matching ignores case;
// "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "jsonc":
		return FormatJSONC, nil
	case "cbor":
		return FormatCBOR, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q (supported: json, jsonc, cbor, yaml)", ErrUnknownFormat, s)
	}
}

// DetectFormat guesses the format of data, first from the file extension
// of path and then from the content. Binary content is taken to be CBOR;
// text is tried as JSON, then JSONC, then YAML.
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".jsonc":
		return FormatJSONC
	case ".cbor":
		return FormatCBOR
	case ".yaml", ".yml":
		return FormatYAML
	}

	if !utf8.Valid(data) {
		return FormatCBOR
	}
	if json.Valid(data) {
		return FormatJSON
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[' || trimmed[0] == '/') && json.Valid(jsonc.ToJSON(data)) {
		return FormatJSONC
	}
	return FormatYAML
}
