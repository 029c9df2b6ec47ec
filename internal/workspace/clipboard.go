package workspace

import (
	"fmt"

	"github.com/juansaizh/quickscene/internal/log"
)

// CopySelection overwrites the clipboard slot with the current host
// selection and returns the number of objects copied.
func (m *Manager) CopySelection() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clipboard = m.host.Selection()
	return len(m.clipboard)
}

// Paste clones the clipboard objects onto the active origin's root
// layer (or the host's current layer when nothing is active), restores
// the originals' names onto the clones, and selects them. Objects
// deleted since the copy are dropped from the clipboard first.
func (m *Manager) Paste() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	valid := m.clipboard[:0]
	for _, id := range m.clipboard {
		if m.host.ObjectExists(id) {
			valid = append(valid, id)
		}
	}
	m.clipboard = valid
	if len(valid) == 0 {
		return 0, nil
	}

	target := m.host.CurrentLayer()
	if m.active >= 0 {
		if lyr, ok := m.host.FindLayer(m.entries[m.active].DisplayName); ok {
			target = lyr
		}
	}

	clones, err := m.host.CloneObjects(valid)
	if err != nil {
		return 0, fmt.Errorf("paste: %w", err)
	}
	for i, clone := range clones {
		if err := m.host.SetObjectName(clone, m.host.ObjectName(valid[i])); err != nil {
			log.Printf("paste: rename clone %d: %v", clone, err)
		}
		if err := m.host.MoveObject(clone, target); err != nil {
			return len(clones), fmt.Errorf("paste: move clone: %w", err)
		}
	}
	m.host.SetSelection(clones)
	m.host.Redraw()
	return len(clones), nil
}
