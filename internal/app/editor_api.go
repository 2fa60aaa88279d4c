// internal/app/editor_api.go
package app

import (
	"fmt"

	"github.com/bethropolis/inkwell/internal/event"
	"github.com/bethropolis/inkwell/internal/plugin"
	"github.com/bethropolis/inkwell/internal/theme"
	"github.com/gdamore/tcell/v2"
)

// Ensure appEditorAPI implements the plugin.EditorAPI interface.
var _ plugin.EditorAPI = (*appEditorAPI)(nil)

// appEditorAPI provides the concrete implementation of the EditorAPI interface.
type appEditorAPI struct {
	app *App
}

func newEditorAPI(app *App) *appEditorAPI {
	return &appEditorAPI{app: app}
}

// --- Document ---

func (api *appEditorAPI) DocumentText() string { return api.app.DocumentText() }
func (api *appEditorAPI) DocumentHTML() string { return api.app.editor.HTML() }
func (api *appEditorAPI) FilePath() string { return api.app.FilePath() }
func (api *appEditorAPI) IsModified() bool { return api.app.IsModified() }

func (api *appEditorAPI) Save(path string) error {
	return api.app.Save(path)
}

// --- Editing ---

func (api *appEditorAPI) Exec(token string) error {
	err := api.app.editor.ExecToken(token)
	api.app.requestRedraw()
	return err
}

func (api *appEditorAPI) Undo() (bool, error) {
	return api.app.editor.Undo()
}

func (api *appEditorAPI) Redo() (bool, error) {
	return api.app.editor.Redo()
}

func (api *appEditorAPI) Find(term string, forward bool) (bool, error) {
	found, err := api.app.editor.Find(term, forward)
	api.app.requestRedraw()
	return found, err
}

// --- Event Bus Interaction ---

func (api *appEditorAPI) DispatchEvent(eventType event.Type, data interface{}) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *appEditorAPI) SubscribeEvent(eventType event.Type, handler event.Handler) func() {
	return api.app.eventManager.Subscribe(eventType, handler)
}

// --- Command Registration ---

func (api *appEditorAPI) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if api.app.modeHandler == nil {
		return fmt.Errorf("internal error: API cannot access command registration")
	}
	return api.app.modeHandler.RegisterCommand(name, cmdFunc)
}

// --- Status Bar ---

func (api *appEditorAPI) SetStatusMessage(format string, args ...interface{}) {
	api.app.statusBar.SetTemporaryMessage(format, args...)
	api.app.requestRedraw()
}

func (api *appEditorAPI) SetWordsLabel(label string) {
	api.app.statusBar.SetWordsLabel(label)
	api.app.requestRedraw()
}

// --- Theme Access ---

func (api *appEditorAPI) GetThemeStyle(styleName string) tcell.Style {
	return api.app.themeManager.Current().GetStyle(styleName)
}

func (api *appEditorAPI) SetTheme(name string) error {
	return api.app.SetTheme(name)
}

func (api *appEditorAPI) GetTheme() *theme.Theme {
	return api.app.themeManager.Current()
}

func (api *appEditorAPI) ListThemes() []string {
	return api.app.themeManager.ListThemes()
}

// --- Configuration ---

// GetPluginConfigValue maps plugin settings onto the [editor] table.
func (api *appEditorAPI) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	ed := api.app.cfg.Editor
	switch pluginName + "." + key {
	case "autosave.enabled":
		return ed.Autosave, true
	case "autosave.interval":
		return ed.AutosaveInterval, true
	}
	return nil, false
}

func (api *appEditorAPI) RequestQuit(force bool) {
	api.app.modeHandler.RequestQuit(force)
}
