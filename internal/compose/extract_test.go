package compose

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juansaizh/quickscene/internal/host"
	"github.com/juansaizh/quickscene/internal/host/memhost"
	"github.com/juansaizh/quickscene/internal/host/scenefile"
)

func sceneDoc() *scenefile.Document {
	off := false
	return &scenefile.Document{
		Layers: []scenefile.Layer{
			{Name: "Props"},
			{Name: "Crates", Parent: "Props", Visible: &off},
		},
		Objects: []scenefile.Object{
			{Name: "Crate01", Layer: "Crates", Material: "Wood"},
			{Name: "Statue", Layer: "Props", Material: "Marble"},
			{Name: "Floor"},
		},
	}
}

func TestExtractStripsAndRestorePutsBack(t *testing.T) {
	h := memhost.New()
	root := mergeScene(t, h, "A", sceneDoc())
	CleanupMaterials(h)
	before := layerNames(h)

	ex, nodes, err := Extract(h, root, "A")
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	// Mid-extraction the subtree looks like the source file again.
	props, ok := h.FindLayer("Props")
	require.True(t, ok)
	_, ok = h.LayerParent(props)
	assert.False(t, ok, "direct children of the root are detached")
	crates, ok := h.FindLayer("Crates")
	require.True(t, ok)
	parent, ok := h.LayerParent(crates)
	require.True(t, ok)
	assert.Equal(t, props, parent)

	// The parked default-layer object is back on the real default layer.
	var floorLayer host.LayerID
	for _, obj := range h.Objects() {
		if h.ObjectName(obj) == "Floor" {
			floorLayer = h.ObjectLayer(obj)
		}
	}
	assert.Equal(t, h.DefaultLayer(), floorLayer)

	ex.Restore()
	assert.ElementsMatch(t, before, layerNames(h))

	propsA, ok := h.FindLayer("Props (A)")
	require.True(t, ok)
	parent, ok = h.LayerParent(propsA)
	require.True(t, ok)
	assert.Equal(t, root, parent)

	sub, ok := h.FindLayer("0 (A)")
	require.True(t, ok)
	for _, obj := range h.Objects() {
		if h.ObjectName(obj) == "Floor" {
			assert.Equal(t, sub, h.ObjectLayer(obj))
		}
	}
}

func TestExtractRestoresSelection(t *testing.T) {
	h := memhost.New()
	root := mergeScene(t, h, "A", sceneDoc())
	want := []host.ObjectID{h.Objects()[0]}
	h.SetSelection(want)

	ex, _, err := Extract(h, root, "A")
	require.NoError(t, err)
	assert.Empty(t, h.Selection(), "selection cleared during extraction")

	ex.Restore()
	assert.Equal(t, want, h.Selection())
}

func TestRestoreIsIdempotent(t *testing.T) {
	h := memhost.New()
	root := mergeScene(t, h, "A", sceneDoc())

	ex, _, err := Extract(h, root, "A")
	require.NoError(t, err)
	ex.Restore()
	before := layerNames(h)
	ex.Restore()
	assert.Equal(t, before, layerNames(h))
}

func TestExtractUnknownRoot(t *testing.T) {
	h := memhost.New()
	_, _, err := Extract(h, host.NoLayer, "A")
	assert.ErrorIs(t, err, host.ErrNotFound)
	_, _, err = Extract(h, 999, "A")
	assert.ErrorIs(t, err, host.ErrNotFound)
}

func TestSaveReloadRoundTrip(t *testing.T) {
	h := memhost.New()
	doc := sceneDoc()
	path := writeScene(t, "A.scene.yaml", doc)
	root, err := h.NewLayer("A")
	require.NoError(t, err)
	require.NoError(t, h.SetCurrentLayer(root))
	require.NoError(t, MergeOne(h, path, "A", root))
	CleanupMaterials(h)

	ex, nodes, err := Extract(h, root, "A")
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "out.scene.yaml")
	require.NoError(t, h.SaveObjects(nodes, out))
	ex.Restore()

	got, err := scenefile.Read(out)
	require.NoError(t, err)
	assert.ElementsMatch(t, doc.Layers, got.Layers)
	assert.ElementsMatch(t, doc.Objects, got.Objects)
}
