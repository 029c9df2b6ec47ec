package workspace

import (
	"context"
	"time"

	"github.com/juansaizh/quickscene/internal/log"
	"github.com/juansaizh/quickscene/internal/models"
)

// PollTick runs one detection pass. Callers drive it on a fixed
// interval; a tick is a no-op while any operation holds the poller
// suspended. Each tick recomputes the active entry's dirty flag and
// checks its file's mtime; every SweepEvery-th tick also sweeps the
// inactive entries. Paths flagged by the filesystem watcher are checked
// on the very next tick regardless of the sweep counter.
func (m *Manager) PollTick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.suspended > 0 {
		return
	}
	m.tick++
	sweep := m.tick%m.opts.SweepEvery == 0
	pending := m.takePending()

	if m.active >= 0 {
		e := m.entries[m.active]

		dirty := false
		if !m.opts.DisableDetection {
			dirty = m.host.Dirty()
		}
		if dirty != e.Dirty {
			e.Dirty = dirty
			m.uiDirty = dirty
			m.refreshSnapshot()
		}

		// Opportunistic stat failures are ignored: a transient I/O
		// hiccup must not spam prompts. A zero LastKnown means the
		// merge-time stat failed; the first good one is adopted as the
		// baseline rather than treated as a change.
		if t, ok := statMTime(e.FilePath); ok && e.LastKnown.IsZero() {
			e.LastKnown = t
		} else if ok && t.After(e.LastKnown) {
			m.suspendPoll()
			choice := m.prompter.ExternalChange(e.DisplayName)
			if choice == models.ReloadChoiceReload {
				if err := m.reloadLocked(m.active); err != nil {
					log.Printf("reload after external change: %v", err)
				}
			} else {
				// Adopt the new mtime as known without reloading.
				e.LastKnown = t
				e.External = false
			}
			m.resumePoll()
			m.refreshSnapshot()
		}
	}

	if sweep || len(pending) > 0 {
		transitioned := false
		for i, e := range m.entries {
			if i == m.active {
				continue
			}
			if !sweep && !pending[e.FilePath] {
				continue
			}
			t, ok := statMTime(e.FilePath)
			if !ok {
				continue
			}
			if e.LastKnown.IsZero() {
				e.LastKnown = t
				continue
			}
			changed := t.After(e.LastKnown)
			// Update only on an actual transition to avoid redundant
			// redraw signaling.
			if changed != e.External {
				e.External = changed
				transitioned = true
			}
		}
		if transitioned {
			m.refreshSnapshot()
		}
	}
}

// NoteFileEvent flags a path for an immediate check on the next tick.
// Safe to call from the watcher goroutine.
func (m *Manager) NoteFileEvent(path string) {
	m.pendingMu.Lock()
	m.pendingPaths[path] = true
	m.pendingMu.Unlock()
}

func (m *Manager) takePending() map[string]bool {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	if len(m.pendingPaths) == 0 {
		return nil
	}
	taken := m.pendingPaths
	m.pendingPaths = make(map[string]bool)
	return taken
}

// Detector drives PollTick on a fixed interval for headless use; the
// TUI schedules its own ticks instead.
type Detector struct {
	mgr      *Manager
	interval time.Duration
}

// NewDetector returns a detector polling at the given interval.
func NewDetector(mgr *Manager, interval time.Duration) *Detector {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Detector{mgr: mgr, interval: interval}
}

// Run polls until the context is cancelled.
func (d *Detector) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.mgr.PollTick()
		}
	}
}
