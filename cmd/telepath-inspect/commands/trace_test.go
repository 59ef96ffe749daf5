package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/telepath-go/pkg/log"
)

// recordTrace writes a trace with one successful and one failed decode.
func recordTrace(t *testing.T) (string, *Session) {
	t.Helper()
	tracePath := filepath.Join(t.TempDir(), "run.tlog")

	session, closeTrace, err := OpenSession(tracePath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	good := writeFile(t, "good.json", sharedPoints)
	bad := writeFile(t, "bad.json", `{"_type": "Nope", "_args": []}`)

	require.NoError(t, RunUnpack(UnpackOptions{Config: DefaultConfig(), Source: good}, nil, io.Discard, session))
	require.Error(t, RunUnpack(UnpackOptions{Config: DefaultConfig(), Source: bad}, nil, io.Discard, session))
	require.NoError(t, closeTrace())

	return tracePath, session
}

func TestFormatEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	event := log.Event{
		Timestamp: ts,
		SessionID: "abc12345-6789-0123-4567-890abcdef012",
		Source:    "widgets.json",
		Format:    "json",
		Size:      128,
		Digest:    strings.Repeat("ab", 32),
		Outcome:   log.OutcomeOK,
		Duration:  250 * time.Microsecond,
		Scan:      &log.ScanStats{IDs: 2, Refs: 3, Types: map[string]int{"Widget": 2, "Point": 1}},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "2026-01-28T10:15:32.123456Z [session:abc12345] OK    widgets.json\n") {
		t.Errorf("unexpected header, got: %s", output)
	}
	if !strings.Contains(output, "Input: json, 128 bytes, blake2b abababababababab\n") {
		t.Errorf("expected input details, got: %s", output)
	}
	if !strings.Contains(output, "Scan: 2 ids, 3 refs\n    Point: 1\n    Widget: 2\n") {
		t.Errorf("expected sorted scan details, got: %s", output)
	}
}

func TestFormatErrorEvent(t *testing.T) {
	event := log.Event{
		Timestamp: time.Now(),
		SessionID: "s",
		Outcome:   log.OutcomeError,
		Error:     &log.ErrorData{Kind: "CyclicReference", Path: "/0/_args/0", Message: "telepath: cyclic reference"},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{"[session:s] ERROR -", "Error: CyclicReference", "Path: /0/_args/0", "Message: telepath: cyclic reference"} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in: %s", want, output)
		}
	}
}

func TestRunTraceFiltersByOutcome(t *testing.T) {
	tracePath, _ := recordTrace(t)

	errOutcome := log.OutcomeError
	var buf bytes.Buffer
	require.NoError(t, RunTrace(tracePath, TraceFilter{Outcome: &errOutcome}, &buf))

	output := buf.String()
	assert.Equal(t, 1, strings.Count(output, "[session:"))
	assert.Contains(t, output, "bad.json")
	assert.Contains(t, output, "Error: UnknownType")
	assert.NotContains(t, output, "good.json")
}

func TestRunTraceBySession(t *testing.T) {
	tracePath, session := recordTrace(t)

	var buf bytes.Buffer
	require.NoError(t, RunTrace(tracePath, TraceFilter{SessionID: session.ID}, &buf))
	assert.Equal(t, 2, strings.Count(buf.String(), "[session:"))

	buf.Reset()
	require.NoError(t, RunTrace(tracePath, TraceFilter{SessionID: "other"}, &buf))
	assert.Empty(t, buf.String())
}

func TestRunExportCSV(t *testing.T) {
	tracePath, session := recordTrace(t)

	var buf bytes.Buffer
	require.NoError(t, RunExport(tracePath, "csv", TraceFilter{}, "", &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "session_id", rows[0][1])
	assert.Equal(t, session.ID, rows[1][1])
	assert.Equal(t, "OK", rows[1][5])
	assert.Equal(t, "1", rows[1][7])
	assert.Equal(t, "ERROR", rows[2][5])
	assert.Equal(t, "UnknownType", rows[2][9])
}

func TestRunExportJSONL(t *testing.T) {
	tracePath, _ := recordTrace(t)

	var buf bytes.Buffer
	require.NoError(t, RunExport(tracePath, "jsonl", TraceFilter{Kind: "UnknownType"}, "", &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var event log.Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
	assert.Equal(t, log.OutcomeError, event.Outcome)
}

func TestRunExportUnknownFormat(t *testing.T) {
	tracePath, _ := recordTrace(t)
	assert.Error(t, RunExport(tracePath, "xml", TraceFilter{}, "", &bytes.Buffer{}))
}

func TestRunStats(t *testing.T) {
	tracePath, _ := recordTrace(t)

	var buf bytes.Buffer
	require.NoError(t, RunStats(tracePath, &buf))
	output := buf.String()

	for _, want := range []string{
		"Total Decodes: 2\n",
		"Failures:      1\n",
		"UnknownType:",
		"Point:",
		"Sessions: 1\n",
		"2 decodes, 1 failed",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in:\n%s", want, output)
		}
	}
}

func TestRunTraceMissingFile(t *testing.T) {
	assert.Error(t, RunTrace(filepath.Join(t.TempDir(), "nope.tlog"), TraceFilter{}, io.Discard))
	assert.Error(t, RunStats(filepath.Join(t.TempDir(), "nope.tlog"), io.Discard))
}
