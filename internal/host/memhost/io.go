package memhost

import (
	"github.com/juansaizh/quickscene/internal/host"
	"github.com/juansaizh/quickscene/internal/host/scenefile"
)

// MergeFile merges a scene document into the current scene. Layers are
// matched by name: a document layer whose name already exists in the
// scene lands on the existing layer, keeping its visibility and parent.
// Incoming materials always become fresh instances even when their name
// collides. With selectMerged the selection is replaced by exactly the
// objects this merge introduced.
func (h *Host) MergeFile(path string, policy host.DupPolicy, selectMerged bool) error {
	doc, err := scenefile.Read(path)
	if err != nil {
		return err
	}

	mats := make(map[string]host.MaterialID)
	for _, o := range doc.Objects {
		if o.Material == "" {
			continue
		}
		if _, ok := mats[o.Material]; !ok {
			mats[o.Material] = h.addMaterial(o.Material).id
		}
	}

	created := make(map[string]host.LayerID, len(doc.Layers))
	for _, dl := range doc.Layers {
		if _, ok := h.FindLayer(dl.Name); ok {
			continue
		}
		visible := dl.Visible == nil || *dl.Visible
		created[dl.Name] = h.addLayer(dl.Name, host.NoLayer, visible).id
	}
	for _, dl := range doc.Layers {
		id, fresh := created[dl.Name]
		if !fresh || dl.Parent == "" {
			continue
		}
		if parent, ok := h.FindLayer(dl.Parent); ok {
			h.layerByID[id].parent = parent
		}
	}

	var merged []host.ObjectID
	for _, do := range doc.Objects {
		name := do.Name
		if h.objectNameExists(name) {
			if policy == host.SkipDups {
				continue
			}
			name = h.uniqueObjectName(name)
		}
		lyr := h.defaultLayer
		if do.Layer != "" {
			if id, ok := h.FindLayer(do.Layer); ok {
				lyr = id
			}
		}
		merged = append(merged, h.addObject(name, lyr, mats[do.Material]).id)
	}

	if selectMerged {
		h.SetSelection(merged)
	}
	h.dirty = true
	return nil
}

// SaveObjects writes the given objects, their layers and their material
// references to path. Only layers owning saved objects are recorded, and
// a parent reference is kept only when the parent is itself recorded,
// mirroring node-set exports in editor hosts. Objects on the default
// layer are written without a layer reference.
func (h *Host) SaveObjects(ids []host.ObjectID, path string) error {
	included := make(map[host.LayerID]bool)
	for _, id := range ids {
		o, ok := h.objectByID[id]
		if !ok {
			return host.ErrNotFound
		}
		if o.layer != h.defaultLayer {
			included[o.layer] = true
		}
	}

	var doc scenefile.Document
	for _, l := range h.layers {
		if !included[l.id] {
			continue
		}
		dl := scenefile.Layer{Name: l.name}
		if l.parent != host.NoLayer && included[l.parent] {
			dl.Parent = h.layerByID[l.parent].name
		}
		if !l.visible {
			off := false
			dl.Visible = &off
		}
		doc.Layers = append(doc.Layers, dl)
	}

	saved := make(map[host.ObjectID]bool, len(ids))
	for _, id := range ids {
		saved[id] = true
	}
	for _, o := range h.objects {
		if !saved[o.id] {
			continue
		}
		do := scenefile.Object{Name: o.name}
		if o.layer != h.defaultLayer {
			do.Layer = h.layerByID[o.layer].name
		}
		if o.material != 0 {
			do.Material = h.matByID[o.material].name
		}
		doc.Objects = append(doc.Objects, do)
	}

	return scenefile.Write(path, &doc)
}
