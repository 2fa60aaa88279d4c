// internal/event/event.go
package event

import (
	"github.com/bethropolis/inkwell/internal/types"
	"github.com/gdamore/tcell/v2"
)

// Type identifies the kind of event.
type Type int

// Define specific event types.
const (
	TypeUnknown Type = iota

	// Editing core events
	TypeDocumentChanged  // Fired after an operation changed the document tree
	TypeSelectionChanged // Fired when the caret/selection or the context at the caret changes
	TypeHistoryChanged   // Fired when undo/redo availability changes

	// Host events
	TypeDocumentLoaded // Fired after a document is loaded from disk
	TypeDocumentSaved  // Fired after a document is written to disk
	TypeFileChanged    // Fired when the opened file is modified by another program

	// Input Events (potentially useful for plugins reacting to raw keys)
	TypeKeyPressed // Raw key press event forwarded

	// Application Lifecycle Events
	TypeAppReady // Fired when the application is fully initialized
	TypeAppQuit  // Fired just before application termination begins

	TypeThemeChanged // Fired when the theme is changed
)

func (t Type) String() string {
	switch t {
	case TypeDocumentChanged:
		return "DocumentChanged"
	case TypeSelectionChanged:
		return "SelectionChanged"
	case TypeHistoryChanged:
		return "HistoryChanged"
	case TypeDocumentLoaded:
		return "DocumentLoaded"
	case TypeDocumentSaved:
		return "DocumentSaved"
	case TypeFileChanged:
		return "FileChanged"
	case TypeKeyPressed:
		return "KeyPressed"
	case TypeAppReady:
		return "AppReady"
	case TypeAppQuit:
		return "AppQuit"
	case TypeThemeChanged:
		return "ThemeChanged"
	}
	return "Unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type        // The kind of event
	Data interface{} // Payload carrying event-specific data
}

// --- Specific Event Data Structures ---

// DocumentChangedData summarizes the document after a change. Handlers get
// everything they need here and must not assume the editor is idle.
type DocumentChangedData struct {
	NonEmpty   bool   // false shows the host's empty-document placeholder
	Words      int    // whitespace-separated tokens in the text content
	WordsLabel string // "1 word" / "N words"
	Characters int    // user-perceived characters, placeholders excluded
	HTML       string // serialized root content
}

// SelectionChangedData carries the new selection and formatting state at it.
type SelectionChangedData struct {
	Selection *types.Snapshot // nil when nothing is selected
	Context   string          // nearest block/list tag at the caret, "" for none
	Active    []string        // command tokens currently applied at the caret
}

// HistoryChangedData reports undo/redo availability.
type HistoryChangedData struct {
	CanUndo bool
	CanRedo bool
	Depth   int // batches above the initial state
}

// DocumentLoadedData contains info about the loaded document.
type DocumentLoadedData struct {
	FilePath string
}

// DocumentSavedData contains info about the saved document.
type DocumentSavedData struct {
	FilePath string
}

// FileChangedData describes an external change to the opened file.
type FileChangedData struct {
	FilePath string
	Op       string // "write" or "remove"
}

// ThemeChangedData names the theme that became active.
type ThemeChangedData struct {
	Name string
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
