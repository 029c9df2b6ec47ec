package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/juansaizh/quickscene/internal/models"
)

type promptKind int

const (
	promptUnsaved promptKind = iota
	promptExternal
	promptConflict
)

// promptRequest is one blocking question in flight between a manager
// goroutine and the Update loop. The manager side blocks on reply.
type promptRequest struct {
	kind    promptKind
	title   string
	message string
	options []string
	reply   chan int
}

type promptMsg struct{ req *promptRequest }

type infoMsg struct{ text string }

// Prompter bridges the manager's synchronous prompts into the TUI. The
// calling goroutine sends a request to the program and blocks until the
// user picks an option in the modal.
type Prompter struct {
	send func(tea.Msg)
}

// NewPrompter returns an unattached prompter; until Attach it answers
// every question with its cancel/ignore default.
func NewPrompter() *Prompter { return &Prompter{} }

// Attach wires the prompter to a running program.
func (p *Prompter) Attach(prog *tea.Program) {
	p.send = prog.Send
}

func (p *Prompter) ask(req *promptRequest) int {
	if p.send == nil {
		return len(req.options) - 1 // last option is the safe one
	}
	req.reply = make(chan int, 1)
	p.send(promptMsg{req: req})
	return <-req.reply
}

// UnsavedChanges implements workspace.Prompter.
func (p *Prompter) UnsavedChanges(path string) models.SaveChoice {
	idx := p.ask(&promptRequest{
		kind:    promptUnsaved,
		title:   "Scene has been modified",
		message: "Do you want to save the changes you made in the scene:\n\n" + path,
		options: []string{"Save", "Don't Save", "Cancel"},
	})
	switch idx {
	case 0:
		return models.SaveChoiceSave
	case 1:
		return models.SaveChoiceDiscard
	default:
		return models.SaveChoiceCancel
	}
}

// ExternalChange implements workspace.Prompter.
func (p *Prompter) ExternalChange(name string) models.ReloadChoice {
	idx := p.ask(&promptRequest{
		kind:    promptExternal,
		title:   "The scene has been modified externally",
		message: "The following scene has been changed:\n\n'" + name + "'\n\nDo you want to reload the scene?",
		options: []string{"Reload", "Ignore"},
	})
	if idx == 0 {
		return models.ReloadChoiceReload
	}
	return models.ReloadChoiceIgnore
}

// BatchConflicts implements workspace.Prompter.
func (p *Prompter) BatchConflicts(names []string) models.ConflictChoice {
	message := "The following scenes have been modified externally:\n"
	for _, n := range names {
		message += "\n- " + n
	}
	idx := p.ask(&promptRequest{
		kind:    promptConflict,
		title:   "External Modifications Detected",
		message: message,
		options: []string{"Reload All", "Overwrite", "Cancel"},
	})
	switch idx {
	case 0:
		return models.ConflictReloadAll
	case 1:
		return models.ConflictOverwrite
	default:
		return models.ConflictCancel
	}
}

// Info implements workspace.Prompter.
func (p *Prompter) Info(message string) {
	if p.send == nil {
		return
	}
	p.send(infoMsg{text: message})
}
