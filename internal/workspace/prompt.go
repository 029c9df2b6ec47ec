package workspace

import "github.com/juansaizh/quickscene/internal/models"

// Prompter answers the blocking questions the manager asks mid-workflow.
// Every call is synchronous: the operation does not proceed until the
// user has answered. The TUI bridges these over a reply channel; tests
// use canned answers.
type Prompter interface {
	// UnsavedChanges asks what to do with pending edits before leaving
	// the active origin.
	UnsavedChanges(path string) models.SaveChoice
	// ExternalChange reports that the active origin's file changed on
	// disk and asks whether to reload it.
	ExternalChange(name string) models.ReloadChoice
	// BatchConflicts lists green-marked origins whose files changed on
	// disk and asks how the batch save should handle them.
	BatchConflicts(names []string) models.ConflictChoice
	// Info shows a non-blocking notice ("Saved 2 scenes.").
	Info(message string)
}

// SilentPrompter answers every prompt with its safe default: discard
// nothing, reload nothing, cancel the batch. Used by headless commands.
type SilentPrompter struct{}

// UnsavedChanges always cancels.
func (SilentPrompter) UnsavedChanges(string) models.SaveChoice { return models.SaveChoiceCancel }

// ExternalChange always ignores.
func (SilentPrompter) ExternalChange(string) models.ReloadChoice { return models.ReloadChoiceIgnore }

// BatchConflicts always cancels.
func (SilentPrompter) BatchConflicts([]string) models.ConflictChoice { return models.ConflictCancel }

// Info drops the message.
func (SilentPrompter) Info(string) {}
