package log

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/mash-protocol/telepath-go/pkg/telepath"
)

// Event describes one decode of one wire tree.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when decoding started (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID groups the events of one tool invocation (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Source names where the tree came from (file path, "stdin", "shell").
	Source string `cbor:"3,keyasint,omitempty"`

	// Format is the wire format the tree was parsed from.
	Format string `cbor:"4,keyasint,omitempty"`

	// Digest is the BLAKE2b-256 hex digest of the raw document.
	Digest string `cbor:"5,keyasint,omitempty"`

	// Size is the raw document size in bytes.
	Size int `cbor:"6,keyasint,omitempty"`

	// Outcome reports whether decoding succeeded.
	Outcome Outcome `cbor:"7,keyasint"`

	// Duration of parsing and decoding.
	Duration time.Duration `cbor:"8,keyasint,omitempty"`

	// Scan summarizes the scan pass, when it completed.
	Scan *ScanStats `cbor:"9,keyasint,omitempty"`

	// Error describes the failure when Outcome is OutcomeError.
	Error *ErrorData `cbor:"10,keyasint,omitempty"`
}

// Outcome is the result of a decode.
type Outcome uint8

const (
	// OutcomeOK indicates the tree decoded successfully.
	OutcomeOK Outcome = 0
	// OutcomeError indicates parsing or decoding failed.
	OutcomeError Outcome = 1
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "OK"
	case OutcomeError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseOutcome converts an outcome name ("ok", "error") to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(s) {
	case "ok":
		return OutcomeOK, nil
	case "error":
		return OutcomeError, nil
	default:
		return 0, fmt.Errorf("invalid outcome: %s (use ok or error)", s)
	}
}

// ScanStats summarizes what the scan pass found.
type ScanStats struct {
	IDs        int            `cbor:"1,keyasint"`
	Refs       int            `cbor:"2,keyasint"`
	Unresolved int            `cbor:"3,keyasint,omitempty"`
	Types      map[string]int `cbor:"4,keyasint,omitempty"`
}

// NewScanStats summarizes a scan index.
func NewScanStats(index *telepath.Index) *ScanStats {
	stats := &ScanStats{
		IDs:        index.Len(),
		Refs:       len(index.Refs()),
		Unresolved: len(index.Unresolved()),
	}
	for _, name := range index.Types() {
		if stats.Types == nil {
			stats.Types = make(map[string]int)
		}
		stats.Types[name] = index.TypeCount(name)
	}
	return stats
}

// ErrorData describes a failed decode.
type ErrorData struct {
	// Kind is the telepath error kind, empty for parse errors.
	Kind string `cbor:"1,keyasint,omitempty"`

	// ID is the offending id, if any.
	ID string `cbor:"2,keyasint,omitempty"`

	// Type is the offending type name, if any.
	Type string `cbor:"3,keyasint,omitempty"`

	// Path locates the offending node.
	Path string `cbor:"4,keyasint,omitempty"`

	// Message is the full error text.
	Message string `cbor:"5,keyasint"`
}

// NewErrorData describes err, extracting telepath decode context when
// err carries a *telepath.DecodeError.
func NewErrorData(err error) *ErrorData {
	if err == nil {
		return nil
	}
	data := &ErrorData{Message: err.Error()}
	var de *telepath.DecodeError
	if errors.As(err, &de) {
		data.Kind = de.Kind.String()
		data.Type = de.Type
		data.Path = de.Path
		if !de.ID.IsZero() {
			data.ID = de.ID.String()
		}
	}
	return data
}

// Digest returns the BLAKE2b-256 hex digest of a raw document.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.New().String()
}
