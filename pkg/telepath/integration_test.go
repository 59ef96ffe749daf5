package telepath_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/telepath-go/pkg/examples"
	"github.com/mash-protocol/telepath-go/pkg/telepath"
	"github.com/mash-protocol/telepath-go/pkg/wire"
)

// unpackFixture parses an embedded fixture in its own format and decodes
// it with the example types.
func unpackFixture(t *testing.T, name string) any {
	t.Helper()
	data, err := examples.Fixture(name)
	require.NoError(t, err)

	tree, _, err := wire.ParseAuto(name, data)
	require.NoError(t, err)

	reg := telepath.NewRegistry()
	examples.RegisterAll(reg)
	v, err := telepath.NewCodec(reg).Unpack(tree)
	require.NoError(t, err)
	return v
}

func TestFixtureWidgets(t *testing.T) {
	v := unpackFixture(t, "widgets.json")

	page, ok := v.(*examples.Widget)
	require.True(t, ok, "got %T", v)
	assert.Equal(t, "page", page.Name)
	assert.Equal(t, map[string]any{"title": "Dashboard"}, page.Attrs)
	require.Len(t, page.Children, 3)

	save := page.Children[0].(*examples.Widget)
	toolbar := page.Children[1].(*examples.Widget)
	label, _ := save.Attr("label")
	assert.Equal(t, "Save", label)

	// One button instance, reached three times
	assert.Same(t, save, page.Children[2])
	require.Len(t, toolbar.Children, 1)
	assert.Same(t, save, toolbar.Children[0])
}

func TestFixtureContentYAML(t *testing.T) {
	v := unpackFixture(t, "content.yaml")

	m, ok := v.(map[string]any)
	require.True(t, ok, "got %T", v)

	intro := m["intro"].(*examples.RichText)
	assert.Equal(t, "<p>Welcome</p>", intro.Source)
	assert.Equal(t, []string{"bold", "italic", "link"}, intro.Features)

	published := m["published"].(*examples.Date)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), published.Time)
	assert.Same(t, published, m["updated"])

	assert.Equal(t, &examples.Point{X: 0, Y: 0}, m["origin"])
}

func TestFixtureForwardJSONC(t *testing.T) {
	v := unpackFixture(t, "forward.jsonc")

	items, ok := v.([]any)
	require.True(t, ok, "got %T", v)
	require.Len(t, items, 3)

	target := items[2].(map[string]any)
	assert.Equal(t, map[string]any{"_type": "not a constructor", "count": float64(2)}, target)
	for i := 0; i < 2; i++ {
		assert.Equal(t, reflect.ValueOf(target).Pointer(), reflect.ValueOf(items[i]).Pointer(), "item %d", i)
	}
}

func TestFixtureDecodesSameInEveryFormat(t *testing.T) {
	data, err := examples.Fixture("widgets.json")
	require.NoError(t, err)

	reg := telepath.NewRegistry()
	examples.RegisterAll(reg)
	codec := telepath.NewCodec(reg)

	var results []any
	for _, format := range []wire.Format{wire.FormatJSON, wire.FormatCBOR, wire.FormatYAML} {
		converted, err := wire.Convert(wire.FormatJSON, format, data)
		require.NoError(t, err, format.String())

		tree, err := wire.Parse(format, converted)
		require.NoError(t, err, format.String())

		v, err := codec.Unpack(tree)
		require.NoError(t, err, format.String())
		results = append(results, v)
	}

	for i := 1; i < len(results); i++ {
		assert.Equal(t, results[0], results[i])
	}
}
