package app

import (
	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/bethropolis/inkwell/internal/modehandler"
	"github.com/bethropolis/inkwell/internal/render"
	"golang.org/x/net/html"
)

const emptyHint = "Start writing..."

// viewHeight is the number of rows left for the document.
func (a *App) viewHeight() int {
	_, height := a.tuiManager.Size()
	return max(height-a.cfg.Editor.StatusBarHeight, 0)
}

// layout lays the document out for the current screen width and theme.
func (a *App) layout() *render.Layout {
	width, _ := a.tuiManager.Size()
	th := a.themeManager.Current()
	var l *render.Layout
	a.editor.View(func(root *html.Node, _ *dom.Range) {
		l = render.Build(root, width, th)
	})
	return l
}

// drawEditor clears screen and redraws all components.
func (a *App) drawEditor() {
	th := a.themeManager.Current()
	width, height := a.tuiManager.Size()
	l := a.layout()

	offset, next := a.editor.CaretPoint()
	row, _ := l.PositionOf(offset, next)
	a.mu.Lock()
	a.viewport.Height = a.viewHeight()
	a.viewport.Follow(row)
	v := a.viewport
	a.mu.Unlock()

	var sel render.Span
	if start, end, ok := a.editor.SelectionOffsets(); ok {
		sel = render.Span{Start: start, End: end}
	}

	logger.DebugTagf("draw", "drawEditor: screen %dx%d, %d rows, top %d, caret %d", width, height, len(l.Lines), v.Top, offset)

	a.tuiManager.Clear()
	render.Document(a.tuiManager, l, v, sel, th)
	if len(l.Lines) <= 1 && !a.editor.NonEmpty() {
		render.EmptyHint(a.tuiManager, emptyHint, th)
	}
	if a.modeHandler.GetCurrentMode() == modehandler.ModeNormal {
		render.Caret(a.tuiManager, l, v, offset, next)
	}
	a.statusBar.Draw(a.tuiManager, th)
	a.tuiManager.Show()
}
