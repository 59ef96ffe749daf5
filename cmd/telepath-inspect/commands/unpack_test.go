package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/telepath-go/pkg/log"
	"github.com/mash-protocol/telepath-go/pkg/telepath"
	"github.com/mash-protocol/telepath-go/pkg/wire"
)

const sharedPoints = `[{"_id": 1, "_type": "Point", "_args": [1, 2]}, {"_ref": 1}]`

type stubLogger struct {
	mock.Mock
}

func (s *stubLogger) Log(event log.Event) {
	s.Called(event)
}

func TestRunUnpackTree(t *testing.T) {
	path := writeFile(t, "points.json", sharedPoints)

	var buf bytes.Buffer
	err := RunUnpack(UnpackOptions{Config: DefaultConfig(), Source: path}, nil, &buf, NewSession(nil))
	require.NoError(t, err)

	want := "list (2)\n" +
		"  [0]: Point &1\n" +
		"    X: 1\n" +
		"    Y: 2\n" +
		"  [1]: *1\n"
	assert.Equal(t, want, buf.String())
}

func TestRunUnpackJSON(t *testing.T) {
	path := writeFile(t, "points.json", sharedPoints)
	cfg := DefaultConfig()
	cfg.Format = "json"

	var buf bytes.Buffer
	require.NoError(t, RunUnpack(UnpackOptions{Config: cfg, Source: path}, nil, &buf, NewSession(nil)))
	assert.JSONEq(t, `[{"x": 1, "y": 2}, {"x": 1, "y": 2}]`, buf.String())
}

func TestRunUnpackPath(t *testing.T) {
	path := writeFile(t, "points.json", sharedPoints)

	var buf bytes.Buffer
	opts := UnpackOptions{Config: DefaultConfig(), Source: path, Path: "1/x"}
	require.NoError(t, RunUnpack(opts, nil, &buf, NewSession(nil)))
	assert.Equal(t, "1\n", buf.String())
}

func TestRunUnpackStdin(t *testing.T) {
	var buf bytes.Buffer
	stdin := strings.NewReader(`{"_val": {"_ref": 9}}`)
	require.NoError(t, RunUnpack(UnpackOptions{Config: DefaultConfig(), Source: "-"}, stdin, &buf, NewSession(nil)))
	assert.Equal(t, "map (1)\n  _ref: 9\n", buf.String())
}

func TestRunUnpackGeneric(t *testing.T) {
	path := writeFile(t, "point.json", `{"_type": "Point", "_args": [1, 2]}`)
	cfg := DefaultConfig()
	cfg.Examples = false
	cfg.Generic = true

	var buf bytes.Buffer
	require.NoError(t, RunUnpack(UnpackOptions{Config: cfg, Source: path}, nil, &buf, NewSession(nil)))

	want := "Point\n" +
		"  Type: \"Point\"\n" +
		"  Args: list (2)\n" +
		"    [0]: 1\n" +
		"    [1]: 2\n"
	assert.Equal(t, want, buf.String())
}

func TestRunUnpackUnknownType(t *testing.T) {
	path := writeFile(t, "point.json", `{"_type": "Point", "_args": [1, 2]}`)
	cfg := DefaultConfig()
	cfg.Examples = false

	var buf bytes.Buffer
	err := RunUnpack(UnpackOptions{Config: cfg, Source: path}, nil, &buf, NewSession(nil))
	assert.True(t, errors.Is(err, telepath.ErrUnknownType), "got %v", err)
	assert.Empty(t, buf.String())
}

func TestRunUnpackOutputFile(t *testing.T) {
	path := writeFile(t, "points.json", sharedPoints)
	out := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Format = "yaml"
	cfg.Output = out

	var buf bytes.Buffer
	require.NoError(t, RunUnpack(UnpackOptions{Config: cfg, Source: path}, nil, &buf, NewSession(nil)))
	assert.Empty(t, buf.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	got, err := wire.Parse(wire.FormatYAML, data)
	require.NoError(t, err)

	point := map[string]any{"x": 1, "y": 2}
	assert.True(t, wire.Equal([]any{point, point}, got), "got %v", got)
}

func TestRunUnpackMissingFile(t *testing.T) {
	err := RunUnpack(UnpackOptions{Config: DefaultConfig(), Source: filepath.Join(t.TempDir(), "nope.json")}, nil, &bytes.Buffer{}, NewSession(nil))
	assert.Error(t, err)
}

func TestRunUnpackTracesSuccess(t *testing.T) {
	path := writeFile(t, "points.json", sharedPoints)
	stub := &stubLogger{}
	session := NewSession(stub)

	stub.On("Log", mock.MatchedBy(func(e log.Event) bool {
		return e.SessionID == session.ID &&
			e.Source == path &&
			e.Format == "json" &&
			e.Outcome == log.OutcomeOK &&
			e.Size == len(sharedPoints) &&
			e.Digest == log.Digest([]byte(sharedPoints)) &&
			e.Scan != nil && e.Scan.IDs == 1 && e.Scan.Refs == 1 && e.Scan.Types["Point"] == 1 &&
			e.Error == nil
	})).Once()

	require.NoError(t, RunUnpack(UnpackOptions{Config: DefaultConfig(), Source: path}, nil, &bytes.Buffer{}, session))
	stub.AssertExpectations(t)
}

func TestRunUnpackTracesFailure(t *testing.T) {
	path := writeFile(t, "dangling.json", `{"_ref": "nowhere"}`)
	stub := &stubLogger{}

	stub.On("Log", mock.MatchedBy(func(e log.Event) bool {
		return e.Outcome == log.OutcomeError &&
			e.Error != nil &&
			e.Error.Kind == "UnresolvedReference" &&
			e.Error.ID == `"nowhere"`
	})).Once()

	err := RunUnpack(UnpackOptions{Config: DefaultConfig(), Source: path}, nil, &bytes.Buffer{}, NewSession(stub))
	assert.True(t, errors.Is(err, telepath.ErrUnresolvedReference), "got %v", err)
	stub.AssertExpectations(t)
}

func TestRunUnpackTracesParseFailure(t *testing.T) {
	path := writeFile(t, "broken.json", `[1, 2`)
	stub := &stubLogger{}

	stub.On("Log", mock.MatchedBy(func(e log.Event) bool {
		return e.Outcome == log.OutcomeError && e.Error != nil && e.Error.Kind == "" && e.Scan == nil
	})).Once()

	cfg := DefaultConfig()
	cfg.InFormat = "json"
	assert.Error(t, RunUnpack(UnpackOptions{Config: cfg, Source: path}, nil, &bytes.Buffer{}, NewSession(stub)))
	stub.AssertExpectations(t)
}

func TestSessionUnpackData(t *testing.T) {
	stub := &stubLogger{}
	stub.On("Log", mock.MatchedBy(func(e log.Event) bool {
		return e.Source == "shell" && e.Format == "cbor" && e.Outcome == log.OutcomeOK
	})).Once()

	data, err := wire.Encode(wire.FormatCBOR, map[string]any{"_list": []any{"a", "b"}})
	require.NoError(t, err)

	v, err := NewSession(stub).UnpackData(DefaultConfig(), "shell", wire.FormatCBOR, data, "")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, v)
	stub.AssertExpectations(t)
}
