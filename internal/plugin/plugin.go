// internal/plugin/plugin.go
package plugin

import (
	"github.com/bethropolis/inkwell/internal/event"
	"github.com/bethropolis/inkwell/internal/theme"
	"github.com/gdamore/tcell/v2"
)

// CommandFunc defines the signature for commands registered by plugins.
// It takes arguments (e.g., from user input) and returns an error.
type CommandFunc func(args []string) error

// EditorAPI is what plugins and built-in commands may do with the running
// editor. It is kept narrow so plugins cannot reach the document tree.
type EditorAPI interface {
	// --- Document ---
	DocumentText() string // text with block boundaries as newlines
	DocumentHTML() string
	FilePath() string
	IsModified() bool
	Save(path string) error // "" saves to the current path

	// --- Editing ---
	Exec(token string) error // a toolbar command token such as "bold" or "h2"
	Undo() (bool, error)
	Redo() (bool, error)
	Find(term string, forward bool) (bool, error)

	// --- Event Bus Interaction ---
	DispatchEvent(eventType event.Type, data interface{})
	SubscribeEvent(eventType event.Type, handler event.Handler) (unsubscribe func())

	// --- Command Registration ---
	RegisterCommand(name string, cmdFunc CommandFunc) error

	// --- Status Bar ---
	SetStatusMessage(format string, args ...interface{})
	SetWordsLabel(label string)

	// --- Theme Access ---
	GetThemeStyle(styleName string) tcell.Style
	SetTheme(name string) error
	GetTheme() *theme.Theme
	ListThemes() []string

	// --- Configuration ---
	GetPluginConfigValue(pluginName, key string) (interface{}, bool)

	RequestQuit(force bool)
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded. Plugins subscribe
	// to events and register commands here.
	Initialize(api EditorAPI) error

	// Shutdown is called once when the editor is closing.
	Shutdown() error
}
