package inspect

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/telepath-go/pkg/examples"
	"github.com/mash-protocol/telepath-go/pkg/telepath"
)

func newTestInspector() *Inspector {
	reg := telepath.NewRegistry()
	examples.RegisterAll(reg)
	return NewInspector(telepath.NewCodec(reg), nil)
}

func parseJSON(t *testing.T, s string) any {
	t.Helper()
	var tree any
	require.NoError(t, json.Unmarshal([]byte(s), &tree))
	return tree
}

func TestInspectorInspect(t *testing.T) {
	i := newTestInspector()
	tree := parseJSON(t, `{"p": {"_type": "Point", "_args": [3, 4]}}`)

	out, err := i.Inspect(tree, "p")
	require.NoError(t, err)
	assert.Equal(t, "Point\n  X: 3\n  Y: 4\n", out)

	out, err = i.Inspect(tree, "p/x")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestInspectorUnpackRoot(t *testing.T) {
	i := newTestInspector()
	v, err := i.Unpack(parseJSON(t, `[1, 2]`), "")
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, v)
}

func TestInspectorPropagatesDecodeErrors(t *testing.T) {
	i := newTestInspector()
	_, err := i.Inspect(parseJSON(t, `{"_type": "Nope", "_args": []}`), "")
	if !errors.Is(err, telepath.ErrUnknownType) {
		t.Errorf("got %v, want ErrUnknownType", err)
	}

	_, err = i.Inspect(parseJSON(t, `{"a": 1}`), "b")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestInspectorSummarize(t *testing.T) {
	i := newTestInspector()
	tree := parseJSON(t, `[
		{"_id": "a", "_type": "Point", "_args": [1, 2]},
		{"_ref": "a"},
		{"_ref": "zz"},
		{"_type": "Mystery", "_args": []}
	]`)

	s, err := i.Summarize(tree)
	require.NoError(t, err)

	assert.Equal(t, []DeclaredID{{ID: `"a"`, Path: "/0"}}, s.IDs)
	assert.Equal(t, 2, s.Refs)
	assert.Equal(t, []string{`"zz"`}, s.Unresolved)
	assert.Equal(t, []TypeUse{
		{Name: "Point", Count: 1, Known: true},
		{Name: "Mystery", Count: 1, Known: false},
	}, s.Types)

	want := "ids: 1\n" +
		"  \"a\" at /0\n" +
		"refs: 2\n" +
		"unresolved: \"zz\"\n" +
		"types:\n" +
		"  Point: 1\n" +
		"  Mystery: 1 (unregistered)\n"
	assert.Equal(t, want, i.FormatSummary(s))
}

func TestInspectorSummarizeEmpty(t *testing.T) {
	i := newTestInspector()
	s, err := i.Summarize(parseJSON(t, `{"plain": true}`))
	require.NoError(t, err)
	assert.Empty(t, s.IDs)
	assert.Equal(t, "ids: 0\nrefs: 0\ntypes: (none)\n", i.FormatSummary(s))
}

func TestInspectorSummarizeRejectsDuplicates(t *testing.T) {
	i := newTestInspector()
	_, err := i.Summarize(parseJSON(t, `[{"_id": 1, "_val": 1}, {"_id": 1, "_val": 2}]`))
	if !errors.Is(err, telepath.ErrDuplicateID) {
		t.Errorf("got %v, want ErrDuplicateID", err)
	}
}
