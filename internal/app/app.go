// Package app implements the quickscene TUI: the origin list with its
// mark dots and dirty indicators, the modal prompts, and the key-driven
// workflows forwarded into the workspace manager.
package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/juansaizh/quickscene/internal/config"
	"github.com/juansaizh/quickscene/internal/models"
	"github.com/juansaizh/quickscene/internal/workspace"
)

// Message types for the Bubble Tea app
type (
	tickMsg     struct{}
	pollDoneMsg struct{}
	opDoneMsg   struct {
		status string
		err    error
	}
)

// Model is the main application model.
type Model struct {
	config *config.AppConfig
	mgr    *workspace.Manager

	entries []models.OriginEntry
	cursor  int

	prompt       *promptRequest
	promptCursor int

	dirInput    textinput.Model
	inputActive bool

	windowWidth  int
	windowHeight int
	status       string

	busy         bool // a manager operation is running
	pollInFlight bool
	quitting     bool
}

// NewModel creates the application model over a ready manager.
func NewModel(cfg *config.AppConfig, mgr *workspace.Manager) *Model {
	input := textinput.New()
	input.Placeholder = "Select scene folder..."
	input.CharLimit = 512
	return &Model{
		config:   cfg,
		mgr:      mgr,
		dirInput: input,
		status:   "Press R to merge the scene folder.",
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.scheduleTick(), m.mergeAllCmd())
}

func (m *Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.config.PollInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *Model) mergeAllCmd() tea.Cmd {
	m.busy = true
	dir := m.config.SceneDir
	return func() tea.Msg {
		paths, err := m.mgr.ScanDir(dir)
		if err != nil {
			return opDoneMsg{err: fmt.Errorf("scan %s: %w", dir, err)}
		}
		if err := m.mgr.MergeAll(paths); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{status: fmt.Sprintf("Merged %d scenes from %s", len(paths), dir)}
	}
}

func (m *Model) runOp(status string, op func() error) tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		if err := op(); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{status: status}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case tickMsg:
		m.entries = m.mgr.Snapshot()
		m.clampCursor()
		cmds := []tea.Cmd{m.scheduleTick()}
		if !m.pollInFlight && !m.busy {
			m.pollInFlight = true
			cmds = append(cmds, func() tea.Msg {
				m.mgr.PollTick()
				return pollDoneMsg{}
			})
		}
		return m, tea.Batch(cmds...)

	case pollDoneMsg:
		m.pollInFlight = false
		m.entries = m.mgr.Snapshot()
		return m, nil

	case opDoneMsg:
		m.busy = false
		m.entries = m.mgr.Snapshot()
		m.clampCursor()
		switch {
		case msg.err == nil:
			if msg.status != "" {
				m.status = msg.status
			}
		case errors.Is(msg.err, workspace.ErrCancelled):
			m.status = "Cancelled."
		default:
			m.status = "Error: " + msg.err.Error()
		}
		return m, nil

	case promptMsg:
		m.prompt = msg.req
		m.promptCursor = 0
		return m, nil

	case infoMsg:
		m.status = msg.text
		return m, nil

	case tea.KeyMsg:
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		if m.inputActive {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputActive = false
		m.dirInput.Blur()
		return m, nil
	case "enter":
		dir := strings.TrimSpace(m.dirInput.Value())
		m.inputActive = false
		m.dirInput.Blur()
		if dir == "" {
			return m, nil
		}
		m.config.SceneDir = dir
		return m, m.mergeAllCmd()
	}
	var cmd tea.Cmd
	m.dirInput, cmd = m.dirInput.Update(msg)
	return m, cmd
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	req := m.prompt
	switch msg.String() {
	case "left", "h", "shift+tab":
		if m.promptCursor > 0 {
			m.promptCursor--
		}
	case "right", "l", "tab":
		if m.promptCursor < len(req.options)-1 {
			m.promptCursor++
		}
	case "enter":
		m.answerPrompt(m.promptCursor)
	case "esc":
		m.answerPrompt(len(req.options) - 1)
	default:
		// Number keys select an option directly.
		for i := range req.options {
			if msg.String() == fmt.Sprintf("%d", i+1) {
				m.answerPrompt(i)
				break
			}
		}
	}
	return m, nil
}

func (m *Model) answerPrompt(idx int) {
	if m.prompt == nil {
		return
	}
	m.prompt.reply <- idx
	m.prompt = nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

	case "enter":
		if m.busy || m.cursor >= len(m.entries) {
			return m, nil
		}
		i := m.cursor
		name := m.entries[i].DisplayName
		return m, m.runOp("Switched to "+name, func() error { return m.mgr.SwitchActive(i) })

	case "s":
		if m.busy {
			return m, nil
		}
		return m, m.runOp("Scene saved.", m.mgr.SaveActive)

	case "S":
		if m.busy {
			return m, nil
		}
		return m, m.runOp("", func() error {
			_, err := m.mgr.BatchSave()
			return err
		})

	case "r":
		if m.busy {
			return m, nil
		}
		active := m.mgr.ActiveIndex()
		if active < 0 {
			return m, nil
		}
		return m, m.runOp("Scene reloaded.", func() error { return m.mgr.Reload(active) })

	case "R":
		if m.busy {
			return m, nil
		}
		return m, m.mergeAllCmd()

	// The handlers below call into the manager synchronously, so they
	// must not run while an operation or a poll holds the manager lock:
	// either could be parked in a blocking prompt whose answer only this
	// loop can deliver.
	case "c":
		if m.managerLocked() {
			return m, nil
		}
		m.mgr.ToggleCyan(m.cursor)
		m.entries = m.mgr.Snapshot()
	case "g":
		if m.managerLocked() {
			return m, nil
		}
		m.mgr.ToggleGreen(m.cursor)
		m.entries = m.mgr.Snapshot()

	case "C":
		if m.managerLocked() {
			return m, nil
		}
		m.mgr.SetAllCyan(!m.allMarked(func(e models.OriginEntry) bool { return e.MarkCyan }))
		m.entries = m.mgr.Snapshot()
	case "G":
		if m.managerLocked() {
			return m, nil
		}
		m.mgr.SetAllGreen(!m.allMarked(func(e models.OriginEntry) bool { return e.MarkGreen }))
		m.entries = m.mgr.Snapshot()

	case "y":
		if m.managerLocked() {
			return m, nil
		}
		n := m.mgr.CopySelection()
		m.status = fmt.Sprintf("Copied %d objects.", n)

	case "p":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg {
			n, err := m.mgr.Paste()
			if err != nil {
				return opDoneMsg{err: err}
			}
			return opDoneMsg{status: fmt.Sprintf("Pasted %d objects.", n)}
		}

	case "o":
		m.inputActive = true
		m.dirInput.SetValue(m.config.SceneDir)
		m.dirInput.Focus()
		return m, textinput.Blink

	case "d":
		if m.managerLocked() {
			return m, nil
		}
		m.config.DisableDetection = !m.config.DisableDetection
		m.mgr.SetDetectionDisabled(m.config.DisableDetection)
		if m.config.DisableDetection {
			m.status = "Change detection off."
		} else {
			m.status = "Change detection on."
		}
		m.entries = m.mgr.Snapshot()
	}
	return m, nil
}

// managerLocked reports whether a goroutine may currently be holding
// the manager lock on this loop's behalf.
func (m *Model) managerLocked() bool {
	return m.busy || m.pollInFlight
}

func (m *Model) allMarked(marked func(models.OriginEntry) bool) bool {
	if len(m.entries) == 0 {
		return false
	}
	for _, e := range m.entries {
		if !marked(e) {
			return false
		}
	}
	return true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
