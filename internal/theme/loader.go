// internal/theme/loader.go
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// TomlStyleDef represents a single style definition in the TOML file
type TomlStyleDef struct {
	Fg        *string `toml:"fg"` // Use pointers to detect missing values
	Bg        *string `toml:"bg"`
	Bold      *bool   `toml:"bold"`
	Italic    *bool   `toml:"italic"`
	Underline *bool   `toml:"underline"`
	Strike    *bool   `toml:"strike"`
	Dim       *bool   `toml:"dim"`
	Reverse   *bool   `toml:"reverse"`
}

// TomlTheme represents the structure of a theme file. [styles] holds UI
// styles, [tags] decorations for document elements.
type TomlTheme struct {
	Name   string                  `toml:"name"`
	IsDark bool                    `toml:"is_dark"`
	Styles map[string]TomlStyleDef `toml:"styles"`
	Tags   map[string]TomlStyleDef `toml:"tags"`
}

// LoadThemeFromFile parses a TOML file and converts it to a Theme object
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file '%s': %w", filePath, err)
	}

	var tomlTheme TomlTheme
	metadata, err := toml.Decode(string(data), &tomlTheme)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML theme file '%s': %w", filePath, err)
	}
	if len(metadata.Undecoded()) > 0 {
		logger.Warnf("Theme '%s': Unrecognized keys in file '%s': %v", tomlTheme.Name, filePath, metadata.Undecoded())
	}

	if tomlTheme.Name == "" {
		tomlTheme.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		logger.Debugf("Theme file '%s' missing 'name', using filename '%s'", filePath, tomlTheme.Name)
	}

	theme := &Theme{
		Name:   tomlTheme.Name,
		IsDark: tomlTheme.IsDark,
		Styles: make(map[string]tcell.Style),
		Tags:   make(map[string]Decoration),
	}

	// Every UI style inherits from the theme's Default.
	baseStyle := tcell.StyleDefault
	if def, ok := tomlTheme.Styles["Default"]; ok {
		d, err := convertTomlStyle(def)
		if err != nil {
			logger.Warnf("Theme '%s': Failed to parse 'Default' style, using tcell default as base: %v", theme.Name, err)
		} else {
			baseStyle = d.Apply(tcell.StyleDefault)
		}
	}
	theme.Styles["Default"] = baseStyle

	for name, tomlStyle := range tomlTheme.Styles {
		if name == "Default" {
			continue
		}
		d, err := convertTomlStyle(tomlStyle)
		if err != nil {
			logger.Warnf("Theme '%s': Failed to parse style '%s', skipping: %v", theme.Name, name, err)
			continue
		}
		theme.Styles[name] = d.Apply(baseStyle)
	}
	for tag, tomlStyle := range tomlTheme.Tags {
		d, err := convertTomlStyle(tomlStyle)
		if err != nil {
			logger.Warnf("Theme '%s': Failed to parse tag '%s', skipping: %v", theme.Name, tag, err)
			continue
		}
		theme.Tags[strings.ToLower(tag)] = d
	}

	logger.Debugf("Successfully loaded theme '%s' from '%s'", theme.Name, filePath)
	return theme, nil
}

// convertTomlStyle converts the TOML definition to a Decoration.
func convertTomlStyle(tomlStyle TomlStyleDef) (Decoration, error) {
	d := Decoration{
		Bold:      tomlStyle.Bold,
		Italic:    tomlStyle.Italic,
		Underline: tomlStyle.Underline,
		Strike:    tomlStyle.Strike,
		Dim:       tomlStyle.Dim,
		Reverse:   tomlStyle.Reverse,
	}
	if tomlStyle.Fg != nil {
		c, err := parseColorString(*tomlStyle.Fg)
		if err != nil {
			return d, fmt.Errorf("invalid foreground color '%s': %w", *tomlStyle.Fg, err)
		}
		d.Fg = &c
	}
	if tomlStyle.Bg != nil {
		c, err := parseColorString(*tomlStyle.Bg)
		if err != nil {
			return d, fmt.Errorf("invalid background color '%s': %w", *tomlStyle.Bg, err)
		}
		d.Bg = &c
	}
	return d, nil
}

// parseColorString converts #RRGGBB, "reset", "default" or a named color
// to a tcell.Color.
func parseColorString(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") {
		if len(s) != 7 {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color format '%s', must be #RRGGBB", s)
		}
		val, err := strconv.ParseInt(s[1:], 16, 32)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex value '%s': %w", s, err)
		}
		return tcell.NewHexColor(int32(val)), nil
	}

	switch s {
	case "reset":
		return tcell.ColorReset, nil
	case "default":
		return tcell.ColorDefault, nil
	}
	if c, ok := tcell.ColorNames[s]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color format or name '%s'", s)
}
