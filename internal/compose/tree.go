package compose

import (
	"fmt"

	"github.com/juansaizh/quickscene/internal/host"
	"github.com/juansaizh/quickscene/internal/log"
)

// Subtree returns root and all its descendant layers in depth-first
// discovery order. It walks the live parent-pointer relation on every
// call, so the result always reflects current host state rather than a
// cached tree.
func Subtree(h host.Host, root host.LayerID) []host.LayerID {
	children := make(map[host.LayerID][]host.LayerID)
	for i := 0; i < h.LayerCount(); i++ {
		id := h.LayerAt(i)
		if parent, ok := h.LayerParent(id); ok {
			children[parent] = append(children[parent], id)
		}
	}

	var out []host.LayerID
	var walk func(id host.LayerID)
	walk = func(id host.LayerID) {
		out = append(out, id)
		for _, child := range children[id] {
			walk(child)
		}
	}
	walk(root)
	return out
}

// Teardown deletes every object on the subtree's layers, then the
// layers themselves deepest-first, so children are gone before their
// parents. Layer deletions are best effort; a failed one is logged and
// the teardown continues.
func Teardown(h host.Host, root host.LayerID) error {
	layers := Subtree(h, root)
	inSubtree := make(map[host.LayerID]bool, len(layers))
	for _, id := range layers {
		inSubtree[id] = true
	}

	var doomed []host.ObjectID
	for _, obj := range h.Objects() {
		if inSubtree[h.ObjectLayer(obj)] {
			doomed = append(doomed, obj)
		}
	}
	if len(doomed) > 0 {
		if err := h.DeleteObjects(doomed); err != nil {
			return fmt.Errorf("delete objects: %w", err)
		}
	}

	for i := len(layers) - 1; i >= 0; i-- {
		if err := h.DeleteLayer(layers[i]); err != nil {
			log.Printf("teardown: delete layer %q: %v", h.LayerName(layers[i]), err)
		}
	}
	return nil
}
