// Package workspace orchestrates the merge-all / switch / save / reload
// workflows over a scene host, owns the tracked origin entries and
// their lifecycle states, and polls for dirtiness and external file
// changes.
package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/juansaizh/quickscene/internal/host"
	"github.com/juansaizh/quickscene/internal/models"
)

// ErrCancelled reports that the user answered a prompt with cancel. The
// operation aborted cleanly with no state committed.
var ErrCancelled = errors.New("cancelled by user")

// Options configures a Manager.
type Options struct {
	// Extensions are the scene file extensions, longest first wins when
	// deriving display names. Defaults to {".scene.yaml", ".scene.yml"}.
	Extensions []string
	// DisableDetection forces the dirty flag to false and skips the
	// unsaved-changes prompt and scratch-file resets.
	DisableDetection bool
	// SweepEvery is the tick divisor for the inactive-entry mtime sweep.
	SweepEvery int
	// ScratchPath receives the throwaway full-scene save used by the
	// heavyweight force-clean. Defaults to a file under os.TempDir.
	ScratchPath string
	// Publish receives the published state after every transition.
	Publish func(models.PublishedState)
}

// Manager owns the entry list, the clipboard slot and all host
// mutation. The presentation layer only ever goes through its methods.
type Manager struct {
	mu       sync.Mutex
	host     host.Host
	prompter Prompter
	opts     Options

	entries []*models.OriginEntry
	active  int // index into entries, -1 for none

	suspended int // poller suspension count
	tick      int
	uiDirty   bool

	clipboard []host.ObjectID

	pendingMu    sync.Mutex
	pendingPaths map[string]bool // fsnotify-flagged, checked next tick

	snapMu   sync.RWMutex
	snapshot []models.OriginEntry
}

// New creates a Manager over the given host.
func New(h host.Host, prompter Prompter, opts Options) *Manager {
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".scene.yaml", ".scene.yml"}
	}
	if opts.SweepEvery <= 0 {
		opts.SweepEvery = 10
	}
	if opts.ScratchPath == "" {
		opts.ScratchPath = filepath.Join(os.TempDir(), "quickscene-reset.scene.yaml")
	}
	if prompter == nil {
		prompter = SilentPrompter{}
	}
	return &Manager{
		host:         h,
		prompter:     prompter,
		opts:         opts,
		active:       -1,
		pendingPaths: make(map[string]bool),
	}
}

// SetDetectionDisabled toggles dirty detection at runtime.
func (m *Manager) SetDetectionDisabled(disabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts.DisableDetection = disabled
	if disabled {
		for _, e := range m.entries {
			e.Dirty = false
		}
		m.uiDirty = false
		m.refreshSnapshot()
	}
}

// Snapshot returns a copy of the entry list for rendering. Safe to call
// while an operation holds the manager lock.
func (m *Manager) Snapshot() []models.OriginEntry {
	m.snapMu.RLock()
	defer m.snapMu.RUnlock()
	out := make([]models.OriginEntry, len(m.snapshot))
	copy(out, m.snapshot)
	return out
}

// refreshSnapshot republishes the render snapshot. Callers hold m.mu.
func (m *Manager) refreshSnapshot() {
	snap := make([]models.OriginEntry, len(m.entries))
	for i, e := range m.entries {
		snap[i] = *e
	}
	m.snapMu.Lock()
	m.snapshot = snap
	m.snapMu.Unlock()
}

// publishState emits the published state. Callers hold m.mu.
func (m *Manager) publishState() {
	if m.opts.Publish == nil {
		return
	}
	var st models.PublishedState
	if m.active >= 0 {
		st.ActivePath = m.entries[m.active].FilePath
		st.ActiveLayer = m.entries[m.active].DisplayName
	}
	for _, e := range m.entries {
		if e.MarkCyan {
			st.CyanMarked = append(st.CyanMarked, models.MarkedScene{
				Layer: e.DisplayName,
				Path:  e.FilePath,
			})
		}
	}
	m.opts.Publish(st)
}

// suspendPoll stops PollTick from doing work until the matching resume.
// Callers hold m.mu.
func (m *Manager) suspendPoll() { m.suspended++ }

func (m *Manager) resumePoll() {
	if m.suspended > 0 {
		m.suspended--
	}
}

// ToggleCyan flips the cyan mark on one entry.
func (m *Manager) ToggleCyan(i int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.entries) {
		return
	}
	m.entries[i].MarkCyan = !m.entries[i].MarkCyan
	m.refreshSnapshot()
	m.publishState()
}

// ToggleGreen flips the green mark on one entry.
func (m *Manager) ToggleGreen(i int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.entries) {
		return
	}
	m.entries[i].MarkGreen = !m.entries[i].MarkGreen
	m.refreshSnapshot()
	m.publishState()
}

// SetAllCyan sets the cyan mark on every entry at once.
func (m *Manager) SetAllCyan(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		e.MarkCyan = on
	}
	m.refreshSnapshot()
	m.publishState()
}

// SetAllGreen sets the green mark on every entry at once.
func (m *Manager) SetAllGreen(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		e.MarkGreen = on
	}
	m.refreshSnapshot()
	m.publishState()
}

// ActiveIndex returns the active entry's index, or -1.
func (m *Manager) ActiveIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// DisplayName derives an origin's display name from its file path by
// stripping the longest matching scene extension.
func (m *Manager) DisplayName(path string) string {
	base := filepath.Base(path)
	best := ""
	for _, ext := range m.opts.Extensions {
		if strings.HasSuffix(base, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	if best == "" {
		best = filepath.Ext(base)
	}
	return strings.TrimSuffix(base, best)
}

// ScanDir lists the scene files in dir, sorted by name.
func (m *Manager) ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		for _, ext := range m.opts.Extensions {
			if strings.HasSuffix(strings.ToLower(name), ext) {
				paths = append(paths, filepath.Join(dir, name))
				break
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func statMTime(path string) (time.Time, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return fi.ModTime(), true
}
