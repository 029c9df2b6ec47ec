package compose

import (
	"fmt"

	"github.com/juansaizh/quickscene/internal/host"
	"github.com/juansaizh/quickscene/internal/log"
	"github.com/juansaizh/quickscene/internal/namespace"
)

type layerRecord struct {
	id     host.LayerID
	name   string
	parent host.LayerID // NoLayer when the layer was detached
}

type movedObject struct {
	id    host.ObjectID
	layer host.LayerID
}

// Extraction captures every mutation made while un-namespacing an
// origin's subtree for export, so Restore can undo them exactly, in
// reverse order, whether or not the export succeeded.
type Extraction struct {
	h         host.Host
	layers    []layerRecord
	moved     []movedObject
	selection []host.ObjectID
	restored  bool
}

// Extract transiently reshapes the origin's subtree to look exactly as
// it did inside its source file: suffixes stripped, direct children
// detached from the root, and objects that the merge parked on the root
// or on the synthetic default sublayer moved back onto the host's
// default layer. It returns the extraction record and the full object
// set to export.
//
// The caller must call Restore on the returned Extraction, also when
// the export fails.
func Extract(h host.Host, root host.LayerID, displayName string) (*Extraction, []host.ObjectID, error) {
	if root == host.NoLayer || h.LayerName(root) == "" {
		return nil, nil, fmt.Errorf("root layer: %w", host.ErrNotFound)
	}

	ex := &Extraction{h: h, selection: h.Selection()}
	h.ClearSelection()

	layers := Subtree(h, root)
	inSubtree := make(map[host.LayerID]bool, len(layers))
	for _, id := range layers {
		inSubtree[id] = true
	}

	var nodes []host.ObjectID
	for _, obj := range h.Objects() {
		if inSubtree[h.ObjectLayer(obj)] {
			nodes = append(nodes, obj)
		}
	}

	// Objects the merge parked on the root layer or on the "0 (<name>)"
	// sublayer really lived on the default layer in the source file.
	def := h.DefaultLayer()
	subName := namespace.DefaultSublayer(displayName)
	for _, obj := range nodes {
		lyr := h.ObjectLayer(obj)
		if lyr != root && h.LayerName(lyr) != subName {
			continue
		}
		ex.moved = append(ex.moved, movedObject{id: obj, layer: lyr})
		if err := h.MoveObject(obj, def); err != nil {
			log.Printf("extract %s: move object %d to default layer: %v", displayName, obj, err)
		}
	}

	for _, id := range layers {
		if id == root {
			continue
		}
		name := h.LayerName(id)
		parent, hasParent := h.LayerParent(id)
		rec := layerRecord{id: id, name: name}
		if hasParent {
			rec.parent = parent
		}
		ex.layers = append(ex.layers, rec)

		// The "0 (<name>)" form stays as is: stripping it would collide
		// with the unrenamable default layer.
		if native, found := namespace.Strip(name, displayName); found && native != host.DefaultLayerName {
			if err := h.SetLayerName(id, native); err != nil {
				log.Printf("extract %s: rename layer %q: %v", displayName, name, err)
			}
		}
		if hasParent && parent == root {
			if err := h.SetLayerParent(id, host.NoLayer); err != nil {
				log.Printf("extract %s: detach layer %q: %v", displayName, name, err)
			}
		}
	}

	return ex, nodes, nil
}

// Restore puts every recorded name, parent and object assignment back,
// in reverse order of mutation. Failures are swallowed per item: a
// partially restored scene with a logged diagnostic beats aborting the
// restoration halfway.
func (e *Extraction) Restore() {
	if e.restored {
		return
	}
	e.restored = true

	for i := len(e.layers) - 1; i >= 0; i-- {
		rec := e.layers[i]
		if err := e.h.SetLayerParent(rec.id, rec.parent); err != nil {
			log.Printf("restore: parent of layer %q: %v", rec.name, err)
		}
		if e.h.LayerName(rec.id) != rec.name {
			if err := e.h.SetLayerName(rec.id, rec.name); err != nil {
				log.Printf("restore: name of layer %q: %v", rec.name, err)
			}
		}
	}
	for i := len(e.moved) - 1; i >= 0; i-- {
		m := e.moved[i]
		if err := e.h.MoveObject(m.id, m.layer); err != nil {
			log.Printf("restore: object %d to layer %d: %v", m.id, m.layer, err)
		}
	}
	e.h.SetSelection(e.selection)
}
