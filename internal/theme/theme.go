// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Decoration changes some properties of a style and leaves the rest. Nested
// markup stacks decorations, so <strong><em>x</em></strong> is bold italic.
type Decoration struct {
	Fg        *tcell.Color
	Bg        *tcell.Color
	Bold      *bool
	Italic    *bool
	Underline *bool
	Strike    *bool
	Dim       *bool
	Reverse   *bool
}

// Apply returns base with the decoration's set properties applied.
func (d Decoration) Apply(base tcell.Style) tcell.Style {
	s := base
	if d.Fg != nil {
		s = s.Foreground(*d.Fg)
	}
	if d.Bg != nil {
		s = s.Background(*d.Bg)
	}
	if d.Bold != nil {
		s = s.Bold(*d.Bold)
	}
	if d.Italic != nil {
		s = s.Italic(*d.Italic)
	}
	if d.Underline != nil {
		s = s.Underline(*d.Underline)
	}
	if d.Strike != nil {
		s = s.StrikeThrough(*d.Strike)
	}
	if d.Dim != nil {
		s = s.Dim(*d.Dim)
	}
	if d.Reverse != nil {
		s = s.Reverse(*d.Reverse)
	}
	return s
}

// Theme holds the UI styles and the per-tag decorations for document markup.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style // UI elements: Default, Selection, StatusBar...
	Tags   map[string]Decoration  // document elements by tag name: h1, strong, a...
}

// GetStyle returns the named UI style, falling back to the part before the
// first dot and then to Default.
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		baseName := name[:dotIndex]
		if style, ok := t.Styles[baseName]; ok {
			logger.Debugf("Theme '%s': Style '%s' not found, using base '%s'", t.Name, name, baseName)
			return style
		}
	}

	if defStyle, ok := t.Styles["Default"]; ok {
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// Decorate applies the decoration for tag (if the theme has one) to base.
func (t *Theme) Decorate(tag string, base tcell.Style) tcell.Style {
	if d, ok := t.Tags[tag]; ok {
		return d.Apply(base)
	}
	return base
}

func color(c tcell.Color) *tcell.Color { return &c }
func flag(b bool) *bool               { return &b }

// builtinTags is the markup decoration shared by the built-in themes;
// accent is used for headings and links.
func builtinTags(accent, quote, code tcell.Color) map[string]Decoration {
	heading := Decoration{Fg: color(accent), Bold: flag(true)}
	return map[string]Decoration{
		"h1":         {Fg: color(accent), Bold: flag(true), Underline: flag(true)},
		"h2":         heading,
		"h3":         heading,
		"h4":         {Fg: color(accent)},
		"h5":         {Fg: color(accent), Italic: flag(true)},
		"h6":         {Fg: color(accent), Dim: flag(true)},
		"strong":     {Bold: flag(true)},
		"b":          {Bold: flag(true)},
		"em":         {Italic: flag(true)},
		"i":          {Italic: flag(true)},
		"u":          {Underline: flag(true)},
		"s":          {Strike: flag(true)},
		"strike":     {Strike: flag(true)},
		"code":       {Fg: color(code)},
		"a":          {Fg: color(accent), Underline: flag(true)},
		"blockquote": {Fg: color(quote), Italic: flag(true)},
	}
}

// InkwellDark is the default theme.
var InkwellDark Theme

// InkwellLight is the built-in light theme.
var InkwellLight Theme

func init() {
	darkBg := tcell.NewHexColor(0x2a2f38)
	darkFg := tcell.NewHexColor(0xc5cdd9)
	darkMuted := tcell.NewHexColor(0x5c6370)
	darkBlue := tcell.NewHexColor(0x61afef)
	darkYellow := tcell.NewHexColor(0xe5c07b)
	darkGreen := tcell.NewHexColor(0x98c379)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(darkFg)
	InkwellDark = Theme{
		Name:   "Inkwell Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			"Default":           base,
			"Selection":         base.Reverse(true),
			"Placeholder":       base.Foreground(darkMuted).Italic(true),
			"Bullet":            base.Foreground(darkMuted),
			"StatusBar":         tcell.StyleDefault.Background(darkBg).Foreground(darkFg),
			"StatusBarModified": tcell.StyleDefault.Background(darkBg).Foreground(darkYellow),
			"StatusBarMessage":  tcell.StyleDefault.Background(darkBg).Foreground(darkFg).Bold(true),
			"StatusBarPrompt":   tcell.StyleDefault.Background(darkBg).Foreground(darkGreen).Bold(true),
			"StatusBarActive":   tcell.StyleDefault.Background(darkBg).Foreground(darkBlue).Bold(true),
		},
		Tags: builtinTags(darkBlue, darkMuted, darkGreen),
	}

	lightBg := tcell.NewHexColor(0xe6e6e6)
	lightFg := tcell.NewHexColor(0x2b2b2b)
	lightMuted := tcell.NewHexColor(0x8a8a8a)
	lightBlue := tcell.NewHexColor(0x1f5fbf)
	lightOrange := tcell.NewHexColor(0xb35c00)
	lightGreen := tcell.NewHexColor(0x2f7d32)

	lbase := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(lightFg)
	InkwellLight = Theme{
		Name: "Inkwell Light",
		Styles: map[string]tcell.Style{
			"Default":           lbase,
			"Selection":         lbase.Reverse(true),
			"Placeholder":       lbase.Foreground(lightMuted).Italic(true),
			"Bullet":            lbase.Foreground(lightMuted),
			"StatusBar":         tcell.StyleDefault.Background(lightBg).Foreground(lightFg),
			"StatusBarModified": tcell.StyleDefault.Background(lightBg).Foreground(lightOrange),
			"StatusBarMessage":  tcell.StyleDefault.Background(lightBg).Foreground(lightFg).Bold(true),
			"StatusBarPrompt":   tcell.StyleDefault.Background(lightBg).Foreground(lightGreen).Bold(true),
			"StatusBarActive":   tcell.StyleDefault.Background(lightBg).Foreground(lightBlue).Bold(true),
		},
		Tags: builtinTags(lightBlue, lightMuted, lightGreen),
	}
}
