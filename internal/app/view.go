package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const (
	minListWidth = 32
	dotCyan      = "●"
	dotGreen     = "●"
	dotExternal  = "●"
)

var (
	colorCyanMark  = lipgloss.Color("#0290ff")
	colorGreenMark = lipgloss.Color("#44ff44")
	colorExternal  = lipgloss.Color("#ffffff")
	colorAccent    = lipgloss.Color("#1e9bfd")
	colorMutedFg   = lipgloss.Color("250")
	colorErrorFg   = lipgloss.Color("196")

	titleStyle    = lipgloss.NewStyle().Bold(true)
	dirStyle      = lipgloss.NewStyle().Foreground(colorMutedFg)
	activeStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	cyanDotStyle  = lipgloss.NewStyle().Foreground(colorCyanMark)
	greenDotStyle = lipgloss.NewStyle().Foreground(colorGreenMark)
	whiteDotStyle = lipgloss.NewStyle().Foreground(colorExternal)
	statusStyle   = lipgloss.NewStyle().Foreground(colorMutedFg)
	errorStyle    = lipgloss.NewStyle().Foreground(colorErrorFg)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMutedFg)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
	buttonStyle = lipgloss.NewStyle().Padding(0, 2)
	buttonFocus = lipgloss.NewStyle().Padding(0, 2).
			Background(colorAccent).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true)
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Scene Switcher"))
	b.WriteString("\n")
	if m.config.SceneDir != "" {
		b.WriteString(dirStyle.Render(m.config.SceneDir))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString(dirStyle.Render("No scenes loaded."))
		b.WriteString("\n")
	}
	for i, e := range m.entries {
		name := e.DisplayName
		if e.Dirty {
			name += "*"
		}

		line := "  "
		if i == m.cursor {
			line = cursorStyle.Render("> ")
		}
		if e.Active {
			line += activeStyle.Render(name)
		} else {
			line += name
		}

		var dots []string
		if e.External {
			dots = append(dots, whiteDotStyle.Render(dotExternal))
		}
		if e.MarkGreen {
			dots = append(dots, greenDotStyle.Render(dotGreen))
		}
		if e.MarkCyan {
			dots = append(dots, cyanDotStyle.Render(dotCyan))
		}
		if len(dots) > 0 {
			line += "  " + strings.Join(dots, " ")
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.inputActive {
		b.WriteString("Scene folder: " + m.dirInput.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter merge · esc cancel"))
		return b.String()
	}
	if strings.HasPrefix(m.status, "Error: ") {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))

	view := b.String()
	if m.prompt != nil {
		return m.overlayPrompt(view)
	}
	return view
}

func (m *Model) helpLine() string {
	if m.busy {
		return "working..."
	}
	return "enter switch · s save · S save marked · r reload · R rescan · o folder · c/g mark · C/G mark all · y copy · p paste · d detection · q quit"
}

func (m *Model) overlayPrompt(background string) string {
	req := m.prompt

	width := m.windowWidth - 10
	if width > 60 {
		width = 60
	}
	if width < minListWidth {
		width = minListWidth
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(req.title))
	b.WriteString("\n\n")
	b.WriteString(wordwrap.String(req.message, width-6))
	b.WriteString("\n\n")

	var buttons []string
	for i, opt := range req.options {
		if i == m.promptCursor {
			buttons = append(buttons, buttonFocus.Render(opt))
		} else {
			buttons = append(buttons, buttonStyle.Render(opt))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, buttons...))

	modal := modalStyle.Width(width).Render(b.String())
	if m.windowWidth > 0 && m.windowHeight > 0 {
		return lipgloss.Place(m.windowWidth, m.windowHeight, lipgloss.Center, lipgloss.Center, modal)
	}
	return background + "\n" + modal
}
