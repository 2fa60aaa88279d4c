package app

import (
	"github.com/bethropolis/inkwell/internal/commands"
	"github.com/bethropolis/inkwell/internal/logger"
)

// registerAppCommands registers the built-in commands plus the ones that
// need the host itself.
func registerAppCommands(app *App) {
	api := app.editorAPI
	commands.RegisterAppCommands(api)

	reload := func(force bool) func(args []string) error {
		return func(args []string) error {
			if err := app.Reload(force); err != nil {
				return err
			}
			api.SetStatusMessage("Reloaded %s", app.FilePath())
			return nil
		}
	}
	if err := api.RegisterCommand("reload", reload(false)); err != nil {
		logger.Warnf("Failed to register ':reload' command: %v", err)
	}
	if err := api.RegisterCommand("reload!", reload(true)); err != nil {
		logger.Warnf("Failed to register ':reload!' command: %v", err)
	}
}
