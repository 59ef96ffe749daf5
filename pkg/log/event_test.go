package log

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mash-protocol/telepath-go/pkg/telepath"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 30, 45, 123456789, time.UTC)
	event := Event{
		Timestamp: ts,
		SessionID: "sess-1",
		Source:    "widgets.json",
		Format:    "json",
		Digest:    Digest([]byte("{}")),
		Size:      2,
		Outcome:   OutcomeError,
		Duration:  1500 * time.Microsecond,
		Scan:      &ScanStats{IDs: 2, Refs: 1, Types: map[string]int{"Point": 2}},
		Error:     &ErrorData{Kind: "UnknownType", Type: "Point", Path: "/0", Message: "boom"},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(ts) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, ts)
	}
	if decoded.SessionID != "sess-1" || decoded.Source != "widgets.json" {
		t.Errorf("identity fields: got %q/%q", decoded.SessionID, decoded.Source)
	}
	if decoded.Outcome != OutcomeError {
		t.Errorf("Outcome: got %v, want ERROR", decoded.Outcome)
	}
	if decoded.Duration != event.Duration {
		t.Errorf("Duration: got %v, want %v", decoded.Duration, event.Duration)
	}
	if decoded.Scan == nil || decoded.Scan.Types["Point"] != 2 {
		t.Errorf("Scan: got %+v", decoded.Scan)
	}
	if decoded.Error == nil || decoded.Error.Kind != "UnknownType" || decoded.Error.Path != "/0" {
		t.Errorf("Error: got %+v", decoded.Error)
	}
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeOK, "OK"},
		{OutcomeError, "ERROR"},
		{Outcome(9), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}

func TestParseOutcome(t *testing.T) {
	if o, err := ParseOutcome("OK"); err != nil || o != OutcomeOK {
		t.Errorf("ParseOutcome(OK) = %v, %v", o, err)
	}
	if o, err := ParseOutcome("error"); err != nil || o != OutcomeError {
		t.Errorf("ParseOutcome(error) = %v, %v", o, err)
	}
	if _, err := ParseOutcome("maybe"); err == nil {
		t.Error("expected error for invalid outcome")
	}
}

func TestNewScanStats(t *testing.T) {
	codec := telepath.NewCodec(nil)
	tree := []any{
		map[string]any{"_id": float64(1), "_type": "Point", "_args": []any{float64(1), float64(2)}},
		map[string]any{"_ref": float64(1)},
		map[string]any{"_ref": float64(7)},
		map[string]any{"_type": "Point", "_args": []any{}},
	}
	index, err := codec.Scan(tree)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	stats := NewScanStats(index)
	if stats.IDs != 1 {
		t.Errorf("IDs: got %d, want 1", stats.IDs)
	}
	if stats.Refs != 2 {
		t.Errorf("Refs: got %d, want 2", stats.Refs)
	}
	if stats.Unresolved != 1 {
		t.Errorf("Unresolved: got %d, want 1", stats.Unresolved)
	}
	if stats.Types["Point"] != 2 {
		t.Errorf("Types[Point]: got %d, want 2", stats.Types["Point"])
	}
}

func TestNewErrorDataExtractsDecodeContext(t *testing.T) {
	codec := telepath.NewCodec(telepath.NewRegistry())
	_, err := codec.Unpack([]any{map[string]any{"_id": "w", "_type": "Widget", "_args": []any{}}})
	if err == nil {
		t.Fatal("expected unknown type error")
	}

	data := NewErrorData(fmt.Errorf("failed to unpack: %w", err))
	if data.Kind != "UnknownType" {
		t.Errorf("Kind: got %q, want UnknownType", data.Kind)
	}
	if data.Type != "Widget" {
		t.Errorf("Type: got %q, want Widget", data.Type)
	}
	if data.Path != "/0" {
		t.Errorf("Path: got %q, want /0", data.Path)
	}
	if data.Message == "" {
		t.Error("Message is empty")
	}
}

func TestNewErrorDataPlainError(t *testing.T) {
	if NewErrorData(nil) != nil {
		t.Error("NewErrorData(nil) should be nil")
	}
	data := NewErrorData(errors.New("unexpected EOF"))
	if data.Kind != "" || data.Message != "unexpected EOF" {
		t.Errorf("got %+v", data)
	}
}

func TestDigest(t *testing.T) {
	a := Digest([]byte(`{"_val": 1}`))
	b := Digest([]byte(`{"_val": 2}`))
	if len(a) != 64 {
		t.Errorf("digest length: got %d, want 64", len(a))
	}
	if a == b {
		t.Error("different documents produced equal digests")
	}
	if a != Digest([]byte(`{"_val": 1}`)) {
		t.Error("digest is not stable")
	}
}

func TestNewSessionIDUnique(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	if a == b {
		t.Errorf("session ids collide: %s", a)
	}
	if len(a) != 36 {
		t.Errorf("session id length: got %d, want 36", len(a))
	}
}
