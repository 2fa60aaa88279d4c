package commands

import (
	"fmt"
	"strings"

	"github.com/bethropolis/inkwell/internal/plugin"
)

// RegisterThemeCommands registers only theme-related commands
func RegisterThemeCommands(api plugin.EditorAPI) {
	// --- Theme Command ---
	themeCmdFunc := func(args []string) error {
		if len(args) == 0 {
			api.SetStatusMessage("Current theme: %s", api.GetTheme().Name)
			return nil
		}

		themeName := strings.Join(args, " ") // Allow theme names with spaces
		if err := api.SetTheme(themeName); err != nil {
			themeList := strings.Join(api.ListThemes(), ", ")
			return fmt.Errorf("theme '%s' not found. Available: %s", themeName, themeList)
		}
		api.SetStatusMessage("Theme set to: %s", api.GetTheme().Name)
		return nil
	}

	// --- Theme List Command ---
	themeListCmdFunc := func(args []string) error {
		api.SetStatusMessage("Available themes: %s", strings.Join(api.ListThemes(), ", "))
		return nil
	}

	register(api, "theme", themeCmdFunc)
	register(api, "themes", themeListCmdFunc)
}
