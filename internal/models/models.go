// Package models defines the data objects shared across quickscene packages.
package models

import (
	"time"

	"github.com/juansaizh/quickscene/internal/host"
)

// OriginEntry tracks one source scene file composited into the working scene.
type OriginEntry struct {
	FilePath    string       // absolute path to the authoritative scene file
	DisplayName string       // base name without extension; also the root layer name
	RootLayer   host.LayerID // composition root for this origin
	LastKnown   time.Time    // last on-disk mtime this tool produced or accepted
	Active      bool         // at most one entry is active at a time
	MarkCyan    bool
	MarkGreen   bool
	External    bool // on-disk mtime exceeds LastKnown
	Dirty       bool // host needs-save state; only meaningful for the active entry
}

// MarkedScene identifies a cyan-marked origin in the published state.
type MarkedScene struct {
	Layer string
	Path  string
}

// PublishedState is emitted by the workspace manager after every state
// transition. The binding decides whether to mirror it anywhere, such
// as an editor's scripting globals or a status line.
type PublishedState struct {
	ActivePath  string
	ActiveLayer string
	CyanMarked  []MarkedScene
}

// SaveChoice is the answer to the unsaved-changes prompt.
type SaveChoice int

const (
	SaveChoiceSave SaveChoice = iota
	SaveChoiceDiscard
	SaveChoiceCancel
)

// ReloadChoice is the answer to the external-change prompt.
type ReloadChoice int

const (
	ReloadChoiceReload ReloadChoice = iota
	ReloadChoiceIgnore
)

// ConflictChoice is the answer to the batch-save conflict prompt.
type ConflictChoice int

const (
	ConflictReloadAll ConflictChoice = iota
	ConflictOverwrite
	ConflictCancel
)
