package commands

import (
	"fmt"
	"strings"

	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/bethropolis/inkwell/internal/plugin"
)

// RegisterAppCommands registers the built-in ":" commands.
func RegisterAppCommands(api plugin.EditorAPI) {
	register(api, "w", saveCommand(api))
	register(api, "q", func(args []string) error {
		api.RequestQuit(false)
		return nil
	})
	register(api, "q!", func(args []string) error {
		api.RequestQuit(true)
		return nil
	})
	register(api, "wq", func(args []string) error {
		if err := saveCommand(api)(args); err != nil {
			return err
		}
		api.RequestQuit(false)
		return nil
	})
	register(api, "fmt", formatCommand(api))
	register(api, "undo", func(args []string) error {
		if ok, err := api.Undo(); err != nil {
			return err
		} else if !ok {
			api.SetStatusMessage("Nothing to undo")
		}
		return nil
	})
	register(api, "redo", func(args []string) error {
		if ok, err := api.Redo(); err != nil {
			return err
		} else if !ok {
			api.SetStatusMessage("Nothing to redo")
		}
		return nil
	})
	RegisterThemeCommands(api)
}

func register(api plugin.EditorAPI, name string, fn plugin.CommandFunc) {
	if err := api.RegisterCommand(name, fn); err != nil {
		logger.Warnf("Failed to register ':%s' command: %v", name, err)
	}
}

// saveCommand implements ":w [path]".
func saveCommand(api plugin.EditorAPI) plugin.CommandFunc {
	return func(args []string) error {
		path := strings.Join(args, " ")
		if path == "" && api.FilePath() == "" {
			return fmt.Errorf("no file name, use :w <path>")
		}
		if err := api.Save(path); err != nil {
			return err
		}
		api.SetStatusMessage("Saved %s", api.FilePath())
		return nil
	}
}

// formatCommand implements ":fmt <token>...", applying toolbar commands in
// order, e.g. ":fmt bold h2".
func formatCommand(api plugin.EditorAPI) plugin.CommandFunc {
	return func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: :fmt <command>...")
		}
		for _, token := range args {
			if err := api.Exec(token); err != nil {
				return err
			}
		}
		return nil
	}
}
