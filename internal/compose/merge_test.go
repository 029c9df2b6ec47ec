package compose

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juansaizh/quickscene/internal/host"
	"github.com/juansaizh/quickscene/internal/host/memhost"
	"github.com/juansaizh/quickscene/internal/host/scenefile"
	"github.com/juansaizh/quickscene/internal/namespace"
)

func writeScene(t *testing.T, name string, doc *scenefile.Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, scenefile.Write(path, doc))
	return path
}

func mergeScene(t *testing.T, h host.Host, display string, doc *scenefile.Document) host.LayerID {
	t.Helper()
	root, err := h.NewLayer(display)
	require.NoError(t, err)
	require.NoError(t, h.SetCurrentLayer(root))
	require.NoError(t, MergeOne(h, writeScene(t, display+".scene.yaml", doc), display, root))
	return root
}

func layerNames(h host.Host) []string {
	names := make([]string, 0, h.LayerCount())
	for i := 0; i < h.LayerCount(); i++ {
		names = append(names, h.LayerName(h.LayerAt(i)))
	}
	return names
}

func TestMergeOneNamespacesLayers(t *testing.T) {
	h := memhost.New()
	root := mergeScene(t, h, "A", &scenefile.Document{
		Layers: []scenefile.Layer{
			{Name: "Props"},
			{Name: "Crates", Parent: "Props"},
		},
		Objects: []scenefile.Object{{Name: "Crate01", Layer: "Crates"}},
	})

	props, ok := h.FindLayer("Props (A)")
	require.True(t, ok)
	crates, ok := h.FindLayer("Crates (A)")
	require.True(t, ok)

	parent, ok := h.LayerParent(props)
	require.True(t, ok)
	assert.Equal(t, root, parent, "top-level file layer hangs off the root")

	parent, ok = h.LayerParent(crates)
	require.True(t, ok)
	assert.Equal(t, props, parent, "nested file layer keeps its parent")
}

func TestMergeOneDefaultLayerObjects(t *testing.T) {
	h := memhost.New()
	root := mergeScene(t, h, "A", &scenefile.Document{
		Objects: []scenefile.Object{{Name: "Floor"}},
	})

	sub, ok := h.FindLayer("0 (A)")
	require.True(t, ok)
	parent, ok := h.LayerParent(sub)
	require.True(t, ok)
	assert.Equal(t, root, parent)

	var onDefault int
	for _, obj := range h.Objects() {
		if h.ObjectLayer(obj) == h.DefaultLayer() {
			onDefault++
		}
	}
	assert.Zero(t, onDefault, "the default layer ends up empty")
	assert.Equal(t, host.DefaultLayerName, h.LayerName(h.DefaultLayer()))
}

func TestMergeTwoScenesWithSameLayerName(t *testing.T) {
	h := memhost.New()
	docA := &scenefile.Document{
		Layers:  []scenefile.Layer{{Name: "Props"}},
		Objects: []scenefile.Object{{Name: "CrateA", Layer: "Props"}},
	}
	docB := &scenefile.Document{
		Layers:  []scenefile.Layer{{Name: "Props"}},
		Objects: []scenefile.Object{{Name: "CrateB", Layer: "Props"}},
	}

	rootA := mergeScene(t, h, "A", docA)
	rootB := mergeScene(t, h, "B", docB)

	propsA, ok := h.FindLayer("Props (A)")
	require.True(t, ok)
	propsB, ok := h.FindLayer("Props (B)")
	require.True(t, ok)

	parent, _ := h.LayerParent(propsA)
	assert.Equal(t, rootA, parent)
	parent, _ = h.LayerParent(propsB)
	assert.Equal(t, rootB, parent)

	_, exists := h.FindLayer("Props")
	assert.False(t, exists, "no un-namespaced Props layer survives")

	for _, obj := range h.Objects() {
		switch h.ObjectName(obj) {
		case "CrateA":
			assert.Equal(t, propsA, h.ObjectLayer(obj))
		case "CrateB":
			assert.Equal(t, propsB, h.ObjectLayer(obj))
		default:
			t.Fatalf("unexpected object %q", h.ObjectName(obj))
		}
	}
}

func TestMergeOneLayerNamedLikeOtherRoot(t *testing.T) {
	h := memhost.New()
	rootA := mergeScene(t, h, "A", &scenefile.Document{
		Objects: []scenefile.Object{{Name: "Floor"}},
	})
	// B brings a layer literally named "A": its objects must not leak
	// onto A's root layer.
	rootB := mergeScene(t, h, "B", &scenefile.Document{
		Layers:  []scenefile.Layer{{Name: "A"}},
		Objects: []scenefile.Object{{Name: "Intruder", Layer: "A"}},
	})

	twin, ok := h.FindLayer("A (B)")
	require.True(t, ok)
	parent, _ := h.LayerParent(twin)
	assert.Equal(t, rootB, parent)

	for _, obj := range h.Objects() {
		if h.ObjectName(obj) == "Intruder" {
			assert.Equal(t, twin, h.ObjectLayer(obj))
		}
	}
	for _, obj := range h.Objects() {
		assert.NotEqual(t, rootA, h.ObjectLayer(obj), "nothing lands on A's root")
	}
}

func TestMergeMaterialSuffixAndCleanup(t *testing.T) {
	h := memhost.New()
	doc := &scenefile.Document{Objects: []scenefile.Object{{Name: "Crate", Material: "Wood"}}}
	mergeScene(t, h, "A", doc)
	mergeScene(t, h, "B", doc)

	mats := h.Materials()
	require.Len(t, mats, 2)
	for _, mat := range mats {
		stripped, found := namespace.StripMaterial(h.MaterialName(mat))
		assert.True(t, found, "freshly merged materials carry the suffix")
		assert.Equal(t, "Wood", stripped)
	}
	assert.NotEqual(t, h.MaterialName(mats[0]), h.MaterialName(mats[1]))

	cleaned := CleanupMaterials(h)
	assert.Equal(t, 2, cleaned)
	for _, mat := range h.Materials() {
		assert.Equal(t, "Wood", h.MaterialName(mat))
	}
}

func TestSubtreeWalksLiveTree(t *testing.T) {
	h := memhost.New()
	root := mergeScene(t, h, "A", &scenefile.Document{
		Layers: []scenefile.Layer{
			{Name: "Props"},
			{Name: "Crates", Parent: "Props"},
		},
	})

	got := Subtree(h, root)
	assert.Len(t, got, 3)
	assert.Equal(t, root, got[0])

	// Reparent Crates out of the subtree; the next walk reflects it.
	crates, ok := h.FindLayer("Crates (A)")
	require.True(t, ok)
	require.NoError(t, h.SetLayerParent(crates, host.NoLayer))
	assert.Len(t, Subtree(h, root), 2)
}

func TestTeardownRemovesSubtreeOnly(t *testing.T) {
	h := memhost.New()
	docA := &scenefile.Document{
		Layers:  []scenefile.Layer{{Name: "Props"}},
		Objects: []scenefile.Object{{Name: "CrateA", Layer: "Props"}, {Name: "FloorA"}},
	}
	docB := &scenefile.Document{
		Layers:  []scenefile.Layer{{Name: "Props"}},
		Objects: []scenefile.Object{{Name: "CrateB", Layer: "Props"}},
	}
	rootA := mergeScene(t, h, "A", docA)
	mergeScene(t, h, "B", docB)

	require.NoError(t, Teardown(h, rootA))

	names := layerNames(h)
	assert.NotContains(t, names, "A")
	assert.NotContains(t, names, "Props (A)")
	assert.NotContains(t, names, "0 (A)")
	assert.Contains(t, names, "B")
	assert.Contains(t, names, "Props (B)")

	for _, obj := range h.Objects() {
		assert.Equal(t, "CrateB", h.ObjectName(obj))
	}
}
