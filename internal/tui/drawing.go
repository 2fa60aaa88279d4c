// internal/tui/drawing.go
package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// SetCell draws one grapheme cluster at (x, y), filling the extra columns
// of a wide cluster with blanks. It returns the column after the cluster.
func (t *TUI) SetCell(x, y int, runes []rune, width int, style tcell.Style) int {
	if len(runes) == 0 {
		return x
	}
	t.screen.SetContent(x, y, runes[0], runes[1:], style)
	for i := 1; i < width; i++ {
		t.screen.SetContent(x+i, y, ' ', nil, style)
	}
	return x + width
}

// DrawText draws text from column x, stopping before maxX. Clusters that
// would straddle maxX are dropped. It returns the column after the text.
func (t *TUI) DrawText(x, y, maxX int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		w := gr.Width()
		if x+w > maxX {
			break
		}
		x = t.SetCell(x, y, gr.Runes(), w, style)
	}
	return x
}

// FillLine paints row y from column x to the right edge.
func (t *TUI) FillLine(x, y int, style tcell.Style) {
	width, _ := t.screen.Size()
	for ; x < width; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}
}

// TextWidth returns the display width of text.
func TextWidth(text string) int {
	return uniseg.StringWidth(text)
}

// ShowCursor places the terminal cursor, hiding it when (x, y) is outside
// the area given by width and height.
func (t *TUI) ShowCursor(x, y, width, height int) {
	if x < 0 || y < 0 || x >= width || y >= height {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(x, y)
}
