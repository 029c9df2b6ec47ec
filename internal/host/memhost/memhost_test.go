package memhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juansaizh/quickscene/internal/host"
)

func TestNewHasDefaultLayer(t *testing.T) {
	h := New()

	assert.Equal(t, 1, h.LayerCount())
	def := h.DefaultLayer()
	assert.Equal(t, host.DefaultLayerName, h.LayerName(def))
	assert.Equal(t, def, h.CurrentLayer())
	assert.False(t, h.Dirty())
}

func TestNewLayerReusesExistingName(t *testing.T) {
	h := New()

	a, err := h.NewLayer("Props")
	require.NoError(t, err)
	b, err := h.NewLayer("Props")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 2, h.LayerCount())
}

func TestNewLayerRejectsEmptyName(t *testing.T) {
	h := New()
	_, err := h.NewLayer("")
	assert.Error(t, err)
}

func TestSetLayerNameEnforcesUniqueness(t *testing.T) {
	h := New()
	a, err := h.NewLayer("A")
	require.NoError(t, err)
	_, err = h.NewLayer("B")
	require.NoError(t, err)

	assert.Error(t, h.SetLayerName(a, "B"))
	assert.NoError(t, h.SetLayerName(a, "A")) // renaming to itself is fine
	assert.NoError(t, h.SetLayerName(a, "C"))
	assert.Equal(t, "C", h.LayerName(a))
}

func TestDefaultLayerIsImmutable(t *testing.T) {
	h := New()
	def := h.DefaultLayer()
	other, err := h.NewLayer("Props")
	require.NoError(t, err)

	assert.ErrorIs(t, h.SetLayerName(def, "renamed"), host.ErrImmutableLayer)
	assert.ErrorIs(t, h.SetLayerParent(def, other), host.ErrImmutableLayer)
	assert.ErrorIs(t, h.DeleteLayer(def), host.ErrImmutableLayer)
}

func TestDeleteLayerRequiresEmpty(t *testing.T) {
	h := New()
	parent, err := h.NewLayer("Parent")
	require.NoError(t, err)
	child, err := h.NewLayer("Child")
	require.NoError(t, err)
	require.NoError(t, h.SetLayerParent(child, parent))

	assert.Error(t, h.DeleteLayer(parent), "still has a child layer")
	require.NoError(t, h.DeleteLayer(child))
	require.NoError(t, h.DeleteLayer(parent))
	assert.Equal(t, 1, h.LayerCount())
}

func TestDeleteLayerResetsCurrent(t *testing.T) {
	h := New()
	lyr, err := h.NewLayer("Props")
	require.NoError(t, err)
	require.NoError(t, h.SetCurrentLayer(lyr))

	require.NoError(t, h.DeleteLayer(lyr))
	assert.Equal(t, h.DefaultLayer(), h.CurrentLayer())
}

func TestLayerParent(t *testing.T) {
	h := New()
	parent, err := h.NewLayer("Parent")
	require.NoError(t, err)
	child, err := h.NewLayer("Child")
	require.NoError(t, err)

	_, ok := h.LayerParent(child)
	assert.False(t, ok)

	require.NoError(t, h.SetLayerParent(child, parent))
	got, ok := h.LayerParent(child)
	assert.True(t, ok)
	assert.Equal(t, parent, got)

	require.NoError(t, h.SetLayerParent(child, host.NoLayer))
	_, ok = h.LayerParent(child)
	assert.False(t, ok)

	assert.Error(t, h.SetLayerParent(child, child))
}

func TestCloneObjectsLandOnCurrentLayer(t *testing.T) {
	h := New()
	src := h.addObject("Crate", h.DefaultLayer(), h.addMaterial("Wood").id)
	target, err := h.NewLayer("Target")
	require.NoError(t, err)
	require.NoError(t, h.SetCurrentLayer(target))

	clones, err := h.CloneObjects([]host.ObjectID{src.id})
	require.NoError(t, err)
	require.Len(t, clones, 1)

	assert.Equal(t, target, h.ObjectLayer(clones[0]))
	assert.Equal(t, "Crate.001", h.ObjectName(clones[0]))

	srcMat, ok := h.ObjectMaterial(src.id)
	require.True(t, ok)
	cloneMat, ok := h.ObjectMaterial(clones[0])
	require.True(t, ok)
	assert.Equal(t, srcMat, cloneMat, "clones share the source material instance")
}

func TestDeleteObjectsPrunesSelection(t *testing.T) {
	h := New()
	a := h.addObject("A", h.DefaultLayer(), 0)
	b := h.addObject("B", h.DefaultLayer(), 0)
	h.SetSelection([]host.ObjectID{a.id, b.id})

	require.NoError(t, h.DeleteObjects([]host.ObjectID{a.id}))

	assert.False(t, h.ObjectExists(a.id))
	assert.True(t, h.ObjectExists(b.id))
	assert.Equal(t, []host.ObjectID{b.id}, h.Selection())
}

func TestDuplicateMaterialNamesAllowed(t *testing.T) {
	h := New()
	a := h.addMaterial("Steel")
	b := h.addMaterial("Steel")

	assert.NotEqual(t, a.id, b.id)
	assert.Equal(t, "Steel", h.MaterialName(a.id))
	assert.Equal(t, "Steel", h.MaterialName(b.id))
	assert.NoError(t, h.SetMaterialName(b.id, "Steel"))
}

func TestResetRestoresEmptyScene(t *testing.T) {
	h := New()
	_, err := h.NewLayer("Props")
	require.NoError(t, err)
	h.addObject("Crate", h.DefaultLayer(), 0)
	h.SetDirty(true)

	h.Reset()

	assert.Equal(t, 1, h.LayerCount())
	assert.Empty(t, h.Objects())
	assert.Empty(t, h.Materials())
	assert.False(t, h.Dirty())
}

func TestDirtyTracksMutations(t *testing.T) {
	h := New()
	assert.False(t, h.Dirty())

	_, err := h.NewLayer("Props")
	require.NoError(t, err)
	assert.True(t, h.Dirty())

	h.SetDirty(false)
	assert.False(t, h.Dirty())
}

func TestSuppressNotificationsNests(t *testing.T) {
	h := New()
	outer := h.SuppressNotifications()
	inner := h.SuppressNotifications()
	assert.Equal(t, 2, h.suppressed)
	inner()
	outer()
	assert.Equal(t, 0, h.suppressed)
	outer() // extra restore must not underflow
	assert.Equal(t, 0, h.suppressed)
}
