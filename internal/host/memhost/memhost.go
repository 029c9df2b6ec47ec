// Package memhost is an in-memory scene host backed by scenefile
// documents on disk. It implements the full host capability set and is
// the binding used by the CLI, the TUI and the tests.
package memhost

import (
	"fmt"

	"github.com/juansaizh/quickscene/internal/host"
)

type layer struct {
	id      host.LayerID
	name    string
	parent  host.LayerID
	visible bool
}

type object struct {
	id       host.ObjectID
	name     string
	layer    host.LayerID
	material host.MaterialID // 0 when the object has no material
}

type material struct {
	id   host.MaterialID
	name string
}

// Host is the in-memory scene. Not safe for concurrent use; the
// workspace manager serializes access.
type Host struct {
	layers    []*layer
	objects   []*object
	materials []*material

	layerByID  map[host.LayerID]*layer
	objectByID map[host.ObjectID]*object
	matByID    map[host.MaterialID]*material

	nextLayer  host.LayerID
	nextObject host.ObjectID
	nextMat    host.MaterialID

	defaultLayer host.LayerID
	current      host.LayerID
	selection    []host.ObjectID
	dirty        bool
	suppressed   int
}

// New returns an empty scene containing only the default layer.
func New() *Host {
	h := &Host{}
	h.Reset()
	return h
}

// Reset discards the whole scene and recreates the default layer.
func (h *Host) Reset() {
	h.layers = nil
	h.objects = nil
	h.materials = nil
	h.layerByID = make(map[host.LayerID]*layer)
	h.objectByID = make(map[host.ObjectID]*object)
	h.matByID = make(map[host.MaterialID]*material)
	h.nextLayer = 0
	h.nextObject = 0
	h.nextMat = 0
	h.selection = nil
	h.dirty = false

	def := h.addLayer(host.DefaultLayerName, host.NoLayer, true)
	h.defaultLayer = def.id
	h.current = def.id
}

func (h *Host) addLayer(name string, parent host.LayerID, visible bool) *layer {
	h.nextLayer++
	l := &layer{id: h.nextLayer, name: name, parent: parent, visible: visible}
	h.layers = append(h.layers, l)
	h.layerByID[l.id] = l
	return l
}

func (h *Host) addObject(name string, lyr host.LayerID, mat host.MaterialID) *object {
	h.nextObject++
	o := &object{id: h.nextObject, name: name, layer: lyr, material: mat}
	h.objects = append(h.objects, o)
	h.objectByID[o.id] = o
	return o
}

func (h *Host) addMaterial(name string) *material {
	h.nextMat++
	m := &material{id: h.nextMat, name: name}
	h.materials = append(h.materials, m)
	h.matByID[m.id] = m
	return m
}

// NewLayer creates a layer, or returns the existing one of that name.
func (h *Host) NewLayer(name string) (host.LayerID, error) {
	if name == "" {
		return host.NoLayer, fmt.Errorf("empty layer name")
	}
	if id, ok := h.FindLayer(name); ok {
		return id, nil
	}
	l := h.addLayer(name, host.NoLayer, true)
	h.dirty = true
	return l.id, nil
}

// FindLayer looks a layer up by name.
func (h *Host) FindLayer(name string) (host.LayerID, bool) {
	for _, l := range h.layers {
		if l.name == name {
			return l.id, true
		}
	}
	return host.NoLayer, false
}

// DeleteLayer removes an empty layer. Layers still owning objects or
// child layers cannot be deleted, matching editor hosts.
func (h *Host) DeleteLayer(id host.LayerID) error {
	l, ok := h.layerByID[id]
	if !ok {
		return host.ErrNotFound
	}
	if id == h.defaultLayer {
		return host.ErrImmutableLayer
	}
	for _, o := range h.objects {
		if o.layer == id {
			return fmt.Errorf("layer %q still has objects", l.name)
		}
	}
	for _, c := range h.layers {
		if c.parent == id {
			return fmt.Errorf("layer %q still has child layers", l.name)
		}
	}
	for i, cand := range h.layers {
		if cand.id == id {
			h.layers = append(h.layers[:i], h.layers[i+1:]...)
			break
		}
	}
	delete(h.layerByID, id)
	if h.current == id {
		h.current = h.defaultLayer
	}
	h.dirty = true
	return nil
}

// LayerCount returns the number of layers in the scene.
func (h *Host) LayerCount() int { return len(h.layers) }

// LayerAt returns the layer at index i in creation order.
func (h *Host) LayerAt(i int) host.LayerID {
	if i < 0 || i >= len(h.layers) {
		return host.NoLayer
	}
	return h.layers[i].id
}

// LayerName returns the layer's name, or "" for an unknown id.
func (h *Host) LayerName(id host.LayerID) string {
	if l, ok := h.layerByID[id]; ok {
		return l.name
	}
	return ""
}

// SetLayerName renames a layer. The new name must be unique.
func (h *Host) SetLayerName(id host.LayerID, name string) error {
	l, ok := h.layerByID[id]
	if !ok {
		return host.ErrNotFound
	}
	if id == h.defaultLayer {
		return host.ErrImmutableLayer
	}
	if name == "" {
		return fmt.Errorf("empty layer name")
	}
	if other, exists := h.FindLayer(name); exists && other != id {
		return fmt.Errorf("layer %q already exists", name)
	}
	l.name = name
	h.dirty = true
	return nil
}

// LayerParent returns the layer's parent, if it has one.
func (h *Host) LayerParent(id host.LayerID) (host.LayerID, bool) {
	l, ok := h.layerByID[id]
	if !ok || l.parent == host.NoLayer {
		return host.NoLayer, false
	}
	if _, alive := h.layerByID[l.parent]; !alive {
		return host.NoLayer, false
	}
	return l.parent, true
}

// SetLayerParent reparents a layer; NoLayer detaches it.
func (h *Host) SetLayerParent(id, parent host.LayerID) error {
	l, ok := h.layerByID[id]
	if !ok {
		return host.ErrNotFound
	}
	if id == h.defaultLayer {
		return host.ErrImmutableLayer
	}
	if parent != host.NoLayer {
		if _, ok := h.layerByID[parent]; !ok {
			return host.ErrNotFound
		}
		if parent == id {
			return fmt.Errorf("layer cannot parent itself")
		}
	}
	l.parent = parent
	h.dirty = true
	return nil
}

// SetLayerVisible toggles a layer's visibility flag.
func (h *Host) SetLayerVisible(id host.LayerID, on bool) error {
	l, ok := h.layerByID[id]
	if !ok {
		return host.ErrNotFound
	}
	l.visible = on
	return nil
}

// LayerVisible reports the layer's visibility flag.
func (h *Host) LayerVisible(id host.LayerID) bool {
	if l, ok := h.layerByID[id]; ok {
		return l.visible
	}
	return false
}

// SetCurrentLayer marks a layer as the creation target.
func (h *Host) SetCurrentLayer(id host.LayerID) error {
	if _, ok := h.layerByID[id]; !ok {
		return host.ErrNotFound
	}
	h.current = id
	return nil
}

// CurrentLayer returns the current creation-target layer.
func (h *Host) CurrentLayer() host.LayerID { return h.current }

// DefaultLayer returns the permanent default layer.
func (h *Host) DefaultLayer() host.LayerID { return h.defaultLayer }

// Objects returns every object id in creation order.
func (h *Host) Objects() []host.ObjectID {
	out := make([]host.ObjectID, 0, len(h.objects))
	for _, o := range h.objects {
		out = append(out, o.id)
	}
	return out
}

// ObjectExists reports whether the object is still in the scene.
func (h *Host) ObjectExists(id host.ObjectID) bool {
	_, ok := h.objectByID[id]
	return ok
}

// ObjectName returns the object's name, or "" for an unknown id.
func (h *Host) ObjectName(id host.ObjectID) string {
	if o, ok := h.objectByID[id]; ok {
		return o.name
	}
	return ""
}

// SetObjectName renames an object. Object names need not be unique.
func (h *Host) SetObjectName(id host.ObjectID, name string) error {
	o, ok := h.objectByID[id]
	if !ok {
		return host.ErrNotFound
	}
	o.name = name
	h.dirty = true
	return nil
}

// ObjectLayer returns the layer owning the object.
func (h *Host) ObjectLayer(id host.ObjectID) host.LayerID {
	if o, ok := h.objectByID[id]; ok {
		return o.layer
	}
	return host.NoLayer
}

// MoveObject reassigns an object to another layer.
func (h *Host) MoveObject(id host.ObjectID, lyr host.LayerID) error {
	o, ok := h.objectByID[id]
	if !ok {
		return host.ErrNotFound
	}
	if _, ok := h.layerByID[lyr]; !ok {
		return host.ErrNotFound
	}
	o.layer = lyr
	h.dirty = true
	return nil
}

// ObjectMaterial returns the object's material instance, if any.
func (h *Host) ObjectMaterial(id host.ObjectID) (host.MaterialID, bool) {
	o, ok := h.objectByID[id]
	if !ok || o.material == 0 {
		return 0, false
	}
	return o.material, true
}

// DeleteObjects removes the given objects; unknown ids are ignored.
func (h *Host) DeleteObjects(ids []host.ObjectID) error {
	doomed := make(map[host.ObjectID]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}
	kept := h.objects[:0]
	for _, o := range h.objects {
		if doomed[o.id] {
			delete(h.objectByID, o.id)
			h.dirty = true
			continue
		}
		kept = append(kept, o)
	}
	h.objects = kept
	h.pruneSelection()
	return nil
}

// CloneObjects copies objects onto the current layer. Clones get a
// numbered name and share the source's material instance.
func (h *Host) CloneObjects(ids []host.ObjectID) ([]host.ObjectID, error) {
	clones := make([]host.ObjectID, 0, len(ids))
	for _, id := range ids {
		src, ok := h.objectByID[id]
		if !ok {
			return nil, fmt.Errorf("clone: %w", host.ErrNotFound)
		}
		c := h.addObject(h.uniqueObjectName(src.name), h.current, src.material)
		clones = append(clones, c.id)
	}
	h.dirty = true
	return clones, nil
}

// Materials returns every material instance in creation order.
func (h *Host) Materials() []host.MaterialID {
	out := make([]host.MaterialID, 0, len(h.materials))
	for _, m := range h.materials {
		out = append(out, m.id)
	}
	return out
}

// MaterialName returns the material's name, or "" for an unknown id.
func (h *Host) MaterialName(id host.MaterialID) string {
	if m, ok := h.matByID[id]; ok {
		return m.name
	}
	return ""
}

// SetMaterialName renames a material instance. Duplicate names are
// allowed, as in editor hosts.
func (h *Host) SetMaterialName(id host.MaterialID, name string) error {
	m, ok := h.matByID[id]
	if !ok {
		return host.ErrNotFound
	}
	m.name = name
	h.dirty = true
	return nil
}

// Selection returns a copy of the current selection.
func (h *Host) Selection() []host.ObjectID {
	out := make([]host.ObjectID, len(h.selection))
	copy(out, h.selection)
	return out
}

// SetSelection replaces the selection; unknown ids are dropped.
func (h *Host) SetSelection(ids []host.ObjectID) {
	h.selection = h.selection[:0]
	for _, id := range ids {
		if _, ok := h.objectByID[id]; ok {
			h.selection = append(h.selection, id)
		}
	}
}

// ClearSelection empties the selection.
func (h *Host) ClearSelection() { h.selection = nil }

func (h *Host) pruneSelection() {
	kept := h.selection[:0]
	for _, id := range h.selection {
		if _, ok := h.objectByID[id]; ok {
			kept = append(kept, id)
		}
	}
	h.selection = kept
}

// Dirty reports the needs-save flag.
func (h *Host) Dirty() bool { return h.dirty }

// SetDirty overrides the needs-save flag.
func (h *Host) SetDirty(dirty bool) { h.dirty = dirty }

// Settle is a no-op: the memory host applies every call synchronously.
func (h *Host) Settle() {}

// SuppressNotifications is nesting-safe; the memory host has no
// broadcast machinery, the counter only mirrors the protocol.
func (h *Host) SuppressNotifications() (restore func()) {
	h.suppressed++
	return func() {
		if h.suppressed > 0 {
			h.suppressed--
		}
	}
}

// Redraw is a no-op for the memory host.
func (h *Host) Redraw() {}

func (h *Host) objectNameExists(name string) bool {
	for _, o := range h.objects {
		if o.name == name {
			return true
		}
	}
	return false
}

func (h *Host) uniqueObjectName(base string) string {
	if !h.objectNameExists(base) {
		return base
	}
	for n := 1; ; n++ {
		cand := fmt.Sprintf("%s.%03d", base, n)
		if !h.objectNameExists(cand) {
			return cand
		}
	}
}
