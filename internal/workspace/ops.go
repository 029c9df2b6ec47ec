package workspace

import (
	"errors"
	"fmt"

	"github.com/juansaizh/quickscene/internal/compose"
	"github.com/juansaizh/quickscene/internal/host"
	"github.com/juansaizh/quickscene/internal/log"
	"github.com/juansaizh/quickscene/internal/models"
)

// MergeAll resets the whole scene and composites the given files in
// order, one root layer per file. Only the first root starts visible,
// material suffixes are cleaned up scene-wide afterwards, and the first
// entry becomes active without any prompting. All previous entries are
// discarded.
func (m *Manager) MergeAll(paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suspendPoll()
	defer m.resumePoll()

	if len(paths) == 0 {
		return errors.New("no scene files to merge")
	}

	restore := m.host.SuppressNotifications()
	defer restore()

	m.host.Reset()
	m.host.SetDirty(false)
	m.entries = nil
	m.active = -1
	m.clipboard = nil

	for i, path := range paths {
		entry, err := m.mergeEntryLocked(path, i == 0)
		if err != nil {
			m.refreshSnapshot()
			return err
		}
		m.entries = append(m.entries, entry)
	}

	m.host.ClearSelection()
	m.host.Redraw()
	cleaned := compose.CleanupMaterials(m.host)
	log.Printf("merge all: %d files, %d duplicate material names cleaned", len(paths), cleaned)

	// The scene was just freshly loaded, so the first entry activates
	// without the unsaved-changes prompt.
	m.performSwitchLocked(0)
	m.forceCleanLocked(false)
	m.refreshSnapshot()
	m.publishState()
	return nil
}

func (m *Manager) mergeEntryLocked(path string, first bool) (*models.OriginEntry, error) {
	display := m.DisplayName(path)
	root, ok := m.host.FindLayer(display)
	if !ok {
		var err error
		root, err = m.host.NewLayer(display)
		if err != nil {
			return nil, fmt.Errorf("root layer %q: %w", display, err)
		}
	}
	if err := m.host.SetCurrentLayer(root); err != nil {
		return nil, err
	}
	if err := compose.MergeOne(m.host, path, display, root); err != nil {
		return nil, err
	}
	_ = m.host.SetLayerVisible(root, first)

	entry := &models.OriginEntry{FilePath: path, DisplayName: display, RootLayer: root}
	if t, ok := statMTime(path); ok {
		entry.LastKnown = t
	}
	return entry, nil
}

// SwitchActive makes entry i the single visible, editable origin. With
// pending edits and detection enabled the user decides first: save,
// discard, or cancel the switch entirely.
func (m *Manager) SwitchActive(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.entries) {
		return fmt.Errorf("entry %d: %w", i, host.ErrNotFound)
	}
	if i == m.active {
		return nil
	}
	m.suspendPoll()
	defer m.resumePoll()

	if !m.opts.DisableDetection && m.active >= 0 && m.host.Dirty() {
		switch m.prompter.UnsavedChanges(m.entries[m.active].FilePath) {
		case models.SaveChoiceSave:
			if err := m.saveActiveLocked(); err != nil {
				return err
			}
		case models.SaveChoiceDiscard:
			// The discarded edits stay only in the host's undo history.
			m.forceCleanLocked(true)
		case models.SaveChoiceCancel:
			return ErrCancelled
		}
	}

	m.performSwitchLocked(i)
	m.forceCleanLocked(false)
	m.refreshSnapshot()
	m.publishState()
	return nil
}

// performSwitchLocked flips visibility and the current flag without any
// prompting. Batch context implies intent.
func (m *Manager) performSwitchLocked(i int) {
	m.host.ClearSelection()
	for j, e := range m.entries {
		if lyr, ok := m.host.FindLayer(e.DisplayName); ok {
			_ = m.host.SetLayerVisible(lyr, j == i)
			if j == i {
				_ = m.host.SetCurrentLayer(lyr)
				e.RootLayer = lyr
			}
		}
		e.Active = j == i
		e.Dirty = false
	}
	m.active = i
	m.uiDirty = false
	m.host.Redraw()
}

// SaveActive exports the active origin's subtree back to its file.
func (m *Manager) SaveActive() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suspendPoll()
	defer m.resumePoll()

	err := m.saveActiveLocked()
	m.refreshSnapshot()
	return err
}

func (m *Manager) saveActiveLocked() error {
	if m.active < 0 {
		return errors.New("no active scene")
	}
	e := m.entries[m.active]

	root, ok := m.host.FindLayer(e.DisplayName)
	if !ok {
		return fmt.Errorf("root layer %q: %w", e.DisplayName, host.ErrNotFound)
	}
	e.RootLayer = root

	restore := m.host.SuppressNotifications()
	defer restore()

	ex, nodes, err := compose.Extract(m.host, root, e.DisplayName)
	if err != nil {
		return err
	}
	defer ex.Restore()

	if len(nodes) == 0 {
		return fmt.Errorf("nothing to save for %q", e.DisplayName)
	}
	if err := m.host.SaveObjects(nodes, e.FilePath); err != nil {
		return fmt.Errorf("save %s: %w", e.FilePath, err)
	}

	ex.Restore()
	if t, ok := statMTime(e.FilePath); ok {
		e.LastKnown = t
	}
	e.External = false
	m.host.Redraw()
	m.forceCleanLocked(true)
	return nil
}

// Reload tears down entry i's subtree and re-merges its file in place.
// Other entries are untouched.
func (m *Manager) Reload(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suspendPoll()
	defer m.resumePoll()

	err := m.reloadLocked(i)
	m.refreshSnapshot()
	return err
}

func (m *Manager) reloadLocked(i int) error {
	if i < 0 || i >= len(m.entries) {
		return fmt.Errorf("entry %d: %w", i, host.ErrNotFound)
	}
	e := m.entries[i]

	restore := m.host.SuppressNotifications()
	defer restore()

	if root, ok := m.host.FindLayer(e.DisplayName); ok {
		if err := compose.Teardown(m.host, root); err != nil {
			return fmt.Errorf("reload %s: %w", e.DisplayName, err)
		}
	}

	root, err := m.host.NewLayer(e.DisplayName)
	if err != nil {
		return fmt.Errorf("reload %s: %w", e.DisplayName, err)
	}
	if err := m.host.SetCurrentLayer(root); err != nil {
		return err
	}
	if err := compose.MergeOne(m.host, e.FilePath, e.DisplayName, root); err != nil {
		return err
	}
	// A single-file merge leaves its material suffixes behind; strip
	// them now so a later save does not export suffixed names.
	compose.CleanupMaterials(m.host)

	_ = m.host.SetLayerVisible(root, e.Active)
	e.RootLayer = root
	if t, ok := statMTime(e.FilePath); ok {
		e.LastKnown = t
	}
	e.External = false
	m.host.Redraw()
	return nil
}

// BatchSave saves every green-marked entry in list order, switching the
// active origin as it goes, and reports the number of successful saves.
// When marked entries also changed on disk, the user picks between
// reloading those (and not saving), overwriting them anyway, or
// cancelling the whole batch.
func (m *Manager) BatchSave() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suspendPoll()
	defer m.resumePoll()

	var marked, conflicting []int
	for i, e := range m.entries {
		if !e.MarkGreen {
			continue
		}
		marked = append(marked, i)
		if e.External {
			conflicting = append(conflicting, i)
		}
	}
	if len(marked) == 0 {
		return 0, nil
	}

	if len(conflicting) > 0 {
		names := make([]string, 0, len(conflicting))
		for _, i := range conflicting {
			names = append(names, m.entries[i].DisplayName)
		}
		switch m.prompter.BatchConflicts(names) {
		case models.ConflictCancel:
			return 0, ErrCancelled
		case models.ConflictReloadAll:
			for _, i := range conflicting {
				m.performSwitchLocked(i)
				if err := m.reloadLocked(i); err != nil {
					log.Printf("batch reload %s: %v", m.entries[i].DisplayName, err)
				}
			}
			m.refreshSnapshot()
			m.publishState()
			return 0, nil
		case models.ConflictOverwrite:
			// Deliberate data-loss path: the external edits are
			// overwritten without reconciliation. The prompt is the
			// only guard.
		}
	}

	saved := 0
	for _, i := range marked {
		m.performSwitchLocked(i)
		if err := m.saveActiveLocked(); err != nil {
			log.Printf("batch save %s: %v", m.entries[i].DisplayName, err)
			continue
		}
		saved++
	}
	m.prompter.Info(fmt.Sprintf("Saved %d scenes.", saved))
	m.refreshSnapshot()
	m.publishState()
	return saved, nil
}

// forceCleanLocked clears the host dirty flag after a structural
// operation, since merges and layer moves themselves set it. The heavy
// variant goes through a scratch-file save round trip first, which
// resets persistent host flags more reliably than the bare flag write;
// navigation switches use the light variant.
func (m *Manager) forceCleanLocked(heavy bool) {
	if m.opts.DisableDetection {
		heavy = false
	}
	m.host.Settle()
	if heavy {
		if err := m.host.SaveObjects(m.host.Objects(), m.opts.ScratchPath); err != nil {
			log.Printf("force clean: scratch save: %v", err)
		}
	}
	m.host.SetDirty(false)
	for _, e := range m.entries {
		e.Dirty = false
	}
	m.uiDirty = false
}
