package render

import (
	"github.com/bethropolis/inkwell/internal/theme"
	"github.com/bethropolis/inkwell/internal/tui"
)

// Viewport is the window of layout rows shown in the text area.
type Viewport struct {
	Top    int
	Height int
}

// Follow scrolls the viewport the least amount that brings row into view.
func (v *Viewport) Follow(row int) {
	if v.Height <= 0 {
		return
	}
	if row < v.Top {
		v.Top = row
	} else if row >= v.Top+v.Height {
		v.Top = row - v.Height + 1
	}
	v.Top = max(v.Top, 0)
}

// Span is a selected range of text offsets. A zero-length span selects
// nothing.
type Span struct {
	Start, End int
}

func (s Span) covers(c Cell) bool {
	return c.Offset >= 0 && s.Start <= c.Offset && c.Offset < s.End
}

// Document draws the visible rows of the layout, highlighting sel.
func Document(t *tui.TUI, l *Layout, v Viewport, sel Span, th *theme.Theme) {
	base := th.GetStyle("Default")
	selected := th.GetStyle("Selection")
	for y := 0; y < v.Height; y++ {
		t.FillLine(0, y, base)
		row := v.Top + y
		if row >= len(l.Lines) {
			continue
		}
		x := 0
		for _, c := range l.Lines[row].Cells {
			if x+c.Width > l.Width {
				break
			}
			style := c.Style
			if sel.covers(c) {
				style = selected
			}
			x = t.SetCell(x, y, c.Runes, c.Width, style)
		}
	}
}

// EmptyHint draws the hint shown while the document has no visible text.
func EmptyHint(t *tui.TUI, hint string, th *theme.Theme) {
	width, _ := t.Size()
	t.DrawText(0, 0, width, hint, th.GetStyle("Placeholder"))
}

// Caret shows the terminal cursor at a caret position.
func Caret(t *tui.TUI, l *Layout, v Viewport, offset int, next bool) {
	row, col := l.PositionOf(offset, next)
	t.ShowCursor(col, row-v.Top, l.Width, v.Height)
}
