// Package compose merges origin scene files into the working scene as
// single-rooted, collision-free layer subtrees, and reverses that
// mapping when an origin is torn down or exported back to its file.
package compose

import (
	"fmt"

	"github.com/juansaizh/quickscene/internal/host"
	"github.com/juansaizh/quickscene/internal/log"
	"github.com/juansaizh/quickscene/internal/namespace"
)

// MergeOne merges one origin file under its root layer. The root must
// already exist; displayName is the origin's base name and becomes the
// namespace for every layer the file brings in.
//
// The freshly merged selection is the only reliable signal for what the
// merge added, since object and layer names may collide with content
// already in the scene.
func MergeOne(h host.Host, path, displayName string, root host.LayerID) error {
	pre := make(map[string]host.LayerID, h.LayerCount())
	for i := 0; i < h.LayerCount(); i++ {
		id := h.LayerAt(i)
		pre[h.LayerName(id)] = id
	}

	if err := h.MergeFile(path, host.RenameDups, true); err != nil {
		return fmt.Errorf("merge %s: %w", path, err)
	}
	merged := h.Selection()

	suffixMaterials(h, merged)

	def := h.DefaultLayer()
	subName := namespace.DefaultSublayer(displayName)

	// Objects landing on the default layer move onto a synthetic
	// sublayer under the root; the default layer itself cannot be
	// renamed or reparented.
	var onDefault []host.ObjectID
	for _, obj := range merged {
		if h.ObjectLayer(obj) == def {
			onDefault = append(onDefault, obj)
		}
	}
	if len(onDefault) > 0 {
		sub, err := ensureLayerUnder(h, subName, root)
		if err != nil {
			return err
		}
		for _, obj := range onDefault {
			if err := h.MoveObject(obj, sub); err != nil {
				log.Printf("merge %s: move object %d to %q: %v", displayName, obj, subName, err)
			}
		}
	}

	// Layers the merge introduced get the origin suffix and a place in
	// the root's subtree. A new layer nested under another new layer
	// keeps its parent and is reparented transitively.
	fresh := make(map[host.LayerID]bool)
	for i := 0; i < h.LayerCount(); i++ {
		id := h.LayerAt(i)
		name := h.LayerName(id)
		if name == host.DefaultLayerName || name == displayName || name == subName {
			continue
		}
		if _, existed := pre[name]; !existed {
			fresh[id] = true
		}
	}
	for id := range fresh {
		if err := h.SetLayerName(id, namespace.Apply(h.LayerName(id), displayName)); err != nil {
			log.Printf("merge %s: rename layer %d: %v", displayName, id, err)
		}
		parent, hasParent := h.LayerParent(id)
		if hasParent && fresh[parent] {
			continue
		}
		if err := h.SetLayerParent(id, root); err != nil {
			log.Printf("merge %s: reparent layer %d: %v", displayName, id, err)
		}
	}

	// Merged objects that ended up on a pre-existing layer reused its
	// name; they move onto a namespaced twin under the root so the
	// pre-existing layer stays untouched.
	for name, preID := range pre {
		if name == host.DefaultLayerName {
			continue
		}
		var strays []host.ObjectID
		for _, obj := range merged {
			if h.ObjectLayer(obj) == preID {
				strays = append(strays, obj)
			}
		}
		if len(strays) == 0 {
			continue
		}
		twin, err := ensureLayerUnder(h, namespace.Apply(name, displayName), root)
		if err != nil {
			return err
		}
		for _, obj := range strays {
			if err := h.MoveObject(obj, twin); err != nil {
				log.Printf("merge %s: move object %d off %q: %v", displayName, obj, name, err)
			}
		}
	}

	return nil
}

// suffixMaterials gives every material referenced by the merged objects
// a unique suffix, so identically named materials from different
// origins never collide. The suffix is stripped again by
// CleanupMaterials once all merges are done.
func suffixMaterials(h host.Host, merged []host.ObjectID) {
	suffix := namespace.MaterialSuffix()
	seen := make(map[host.MaterialID]bool)
	for _, obj := range merged {
		mat, ok := h.ObjectMaterial(obj)
		if !ok || seen[mat] {
			continue
		}
		seen[mat] = true
		if err := h.SetMaterialName(mat, h.MaterialName(mat)+suffix); err != nil {
			log.Printf("suffix material %d: %v", mat, err)
		}
	}
}

// CleanupMaterials strips the duplicate suffix from every material in
// the scene. Best effort per material; one failure must not abort the
// rest. Returns the number of materials renamed.
func CleanupMaterials(h host.Host) int {
	cleaned := 0
	for _, mat := range h.Materials() {
		original, found := namespace.StripMaterial(h.MaterialName(mat))
		if !found {
			continue
		}
		if err := h.SetMaterialName(mat, original); err != nil {
			log.Printf("cleanup material %d: %v", mat, err)
			continue
		}
		cleaned++
	}
	return cleaned
}

func ensureLayerUnder(h host.Host, name string, parent host.LayerID) (host.LayerID, error) {
	if id, ok := h.FindLayer(name); ok {
		return id, nil
	}
	id, err := h.NewLayer(name)
	if err != nil {
		return host.NoLayer, fmt.Errorf("create layer %q: %w", name, err)
	}
	if err := h.SetLayerParent(id, parent); err != nil {
		return host.NoLayer, fmt.Errorf("parent layer %q: %w", name, err)
	}
	return id, nil
}
