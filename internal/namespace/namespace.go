// Package namespace implements the reversible naming scheme that keeps
// layers and materials from different origin files apart in the merged
// scene. A layer coming from origin "A" is suffixed " (A)"; a material
// introduced by one merge gets a unique ".Duplicate.<8-hex>" suffix
// until the post-merge cleanup strips it again.
package namespace

import (
	"strings"

	"github.com/google/uuid"
	"github.com/juansaizh/quickscene/internal/host"
)

// MaterialDupMarker separates a material's native name from its
// per-merge disambiguation suffix.
const MaterialDupMarker = ".Duplicate."

// LayerSuffix returns the merge suffix for an origin's display name.
func LayerSuffix(displayName string) string {
	return " (" + displayName + ")"
}

// Apply namespaces a native layer name for the given origin.
func Apply(name, displayName string) string {
	return name + LayerSuffix(displayName)
}

// Strip undoes Apply. It reports false when the name does not carry the
// origin's suffix.
func Strip(name, displayName string) (string, bool) {
	suffix := LayerSuffix(displayName)
	if !strings.HasSuffix(name, suffix) {
		return name, false
	}
	return name[:len(name)-len(suffix)], true
}

// DefaultSublayer names the synthetic layer that stands in for the
// host's default layer inside an origin's subtree. The default layer
// itself cannot be renamed or reparented.
func DefaultSublayer(displayName string) string {
	return Apply(host.DefaultLayerName, displayName)
}

// MaterialSuffix generates a fresh unique material suffix.
func MaterialSuffix() string {
	return MaterialDupMarker + uuid.New().String()[:8]
}

// StripMaterial removes everything from the first duplicate marker
// onward. It reports false for names that carry no marker.
func StripMaterial(name string) (string, bool) {
	i := strings.Index(name, MaterialDupMarker)
	if i < 0 {
		return name, false
	}
	return name[:i], true
}
