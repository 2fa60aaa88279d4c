package render

import (
	"fmt"
	"strings"

	"github.com/bethropolis/inkwell/internal/core/format"
	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
	"golang.org/x/net/html"
)

// Cell is one grapheme cluster on screen.
type Cell struct {
	Runes  []rune
	Width  int
	Style  tcell.Style
	Offset int // text offset of the cluster, -1 for bullets, bars and padding
	Span   int // runes of document text the cluster covers
}

// Line is one screen row of the document.
type Line struct {
	Cells []Cell
	Start int // text offset of the first character
	End   int // text offset just past the last character
	// Break is set when the line starts a new block or follows a <br>,
	// rather than continuing a wrapped one.
	Break bool
}

// Width returns the display width of the line.
func (l *Line) Width() int {
	w := 0
	for _, c := range l.Cells {
		w += c.Width
	}
	return w
}

// Layout is a document laid out into screen rows of a fixed width.
type Layout struct {
	Lines []Line
	Width int
}

type frame struct {
	first string // prefix on the frame's first line
	rest  string // prefix on later lines
	used  bool
}

type builder struct {
	theme  *theme.Theme
	width  int
	lines  []Line
	cur    *Line
	offset int

	frames    []*frame
	prefixLen int // leading decoration cells on cur
	lastSpace int // index in cur.Cells just after the last space, 0 when none
	align     []format.Alignment
	broken    bool // the next line follows a block boundary or <br>
}

// Build lays out the tree under root for a screen width columns wide.
// Offsets in the result count runes of the root's text content, the same
// way the editor addresses caret positions.
func Build(root *html.Node, width int, th *theme.Theme) *Layout {
	if width < 1 {
		width = 1
	}
	b := &builder{theme: th, width: width}
	b.walk(root, th.GetStyle("Default"))
	b.closeLine()
	if len(b.lines) == 0 {
		b.lines = append(b.lines, Line{})
	}
	return &Layout{Lines: b.lines, Width: width}
}

func (b *builder) walk(n *html.Node, style tcell.Style) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			b.text(c, style)
		case dom.IsElement(c, "br"):
			b.openLine()
			b.closeLine()
			b.broken = true
			b.openLine()
		case dom.IsBlock(c):
			b.block(c, style)
		case c.Type == html.ElementNode:
			b.walk(c, b.theme.Decorate(dom.Tag(c), style))
		}
	}
}

func (b *builder) block(el *html.Node, style tcell.Style) {
	b.closeLine()
	b.broken = len(b.lines) > 0

	tag := dom.Tag(el)
	switch tag {
	case "li":
		bullet := "• "
		if dom.IsElement(el.Parent, "ol") {
			bullet = fmt.Sprintf("%d. ", listIndex(el))
		}
		b.frames = append(b.frames, &frame{first: bullet, rest: strings.Repeat(" ", uniseg.StringWidth(bullet))})
	case "blockquote":
		b.frames = append(b.frames, &frame{first: "│ ", rest: "│ "})
	}
	align := format.AlignmentOf(el)
	if align == "" && len(b.align) > 0 {
		align = b.align[len(b.align)-1]
	}
	b.align = append(b.align, align)

	lines := len(b.lines)
	b.walk(el, b.theme.Decorate(tag, style))
	if b.cur == nil && len(b.lines) == lines && !dom.HasBlockChild(el) {
		b.openLine()
	}
	b.closeLine()

	b.align = b.align[:len(b.align)-1]
	if tag == "li" || tag == "blockquote" {
		b.frames = b.frames[:len(b.frames)-1]
	}
	b.broken = true
}

// listIndex is the 1-based position of li among its list's items.
func listIndex(li *html.Node) int {
	i := 1
	for s := li.PrevSibling; s != nil; s = s.PrevSibling {
		if dom.IsElement(s, "li") {
			i++
		}
	}
	return i
}

func (b *builder) text(t *html.Node, style tcell.Style) {
	if dom.IsBlank(t.Data) && dom.HasBlockChild(t.Parent) {
		// Source formatting between blocks.
		b.offset += len([]rune(t.Data))
		return
	}
	gr := uniseg.NewGraphemes(t.Data)
	for gr.Next() {
		runes := gr.Runes()
		if dom.StripPlaceholders(string(runes)) == "" {
			b.openLine()
			b.offset += len(runes)
			b.cur.End = b.offset
			continue
		}
		width := gr.Width()
		display := runes
		if strings.ContainsAny(string(runes), "\n\t\r") {
			display, width = []rune{' '}, 1
		}
		b.add(Cell{Runes: display, Width: width, Style: style, Offset: b.offset, Span: len(runes)})
	}
}

func (b *builder) add(c Cell) {
	b.openLine()
	if c.Runes[0] != ' ' && b.cur.Width()+c.Width > b.width && len(b.cur.Cells) > b.prefixLen {
		b.wrap()
	}
	b.cur.Cells = append(b.cur.Cells, c)
	b.offset += c.Span
	b.cur.End = b.offset
	if c.Runes[0] == ' ' {
		b.lastSpace = len(b.cur.Cells)
	}
}

// wrap moves the word being typed onto a continuation line, or breaks
// mid-word when the line holds a single long word.
func (b *builder) wrap() {
	var carried []Cell
	if b.lastSpace > b.prefixLen && b.lastSpace < len(b.cur.Cells) {
		carried = append(carried, b.cur.Cells[b.lastSpace:]...)
		b.cur.Cells = b.cur.Cells[:b.lastSpace]
		b.cur.End = carried[0].Offset
	}
	b.closeLine()
	b.broken = false
	b.openLine()
	if len(carried) > 0 {
		b.cur.Start = carried[0].Offset
		b.cur.Cells = append(b.cur.Cells, carried...)
	}
}

func (b *builder) openLine() {
	if b.cur != nil {
		return
	}
	b.cur = &Line{Start: b.offset, End: b.offset, Break: b.broken}
	b.broken = false
	bullet := b.theme.GetStyle("Bullet")
	for _, f := range b.frames {
		p := f.rest
		if !f.used {
			p, f.used = f.first, true
		}
		gr := uniseg.NewGraphemes(p)
		for gr.Next() {
			b.cur.Cells = append(b.cur.Cells, Cell{Runes: gr.Runes(), Width: gr.Width(), Style: bullet, Offset: -1})
		}
	}
	b.prefixLen = len(b.cur.Cells)
	b.lastSpace = 0
}

func (b *builder) closeLine() {
	if b.cur == nil {
		return
	}
	var align format.Alignment
	if len(b.align) > 0 {
		align = b.align[len(b.align)-1]
	}
	pad := 0
	switch free := b.width - b.cur.Width(); align {
	case format.AlignCenter:
		pad = free / 2
	case format.AlignRight:
		pad = free
	}
	if pad > 0 {
		cells := make([]Cell, 0, len(b.cur.Cells)+pad)
		cells = append(cells, b.cur.Cells[:b.prefixLen]...)
		blank := b.theme.GetStyle("Default")
		for i := 0; i < pad; i++ {
			cells = append(cells, Cell{Runes: []rune{' '}, Width: 1, Style: blank, Offset: -1})
		}
		b.cur.Cells = append(cells, b.cur.Cells[b.prefixLen:]...)
	}
	b.lines = append(b.lines, *b.cur)
	b.cur = nil
}

// Row returns the line index holding offset. At a boundary shared by two
// lines, next picks the later one; a wrapped line's end always belongs to
// its continuation.
func (l *Layout) Row(offset int, next bool) int {
	row := 0
	for i := range l.Lines {
		if l.Lines[i].Start > offset {
			break
		}
		row = i
		if offset <= l.Lines[i].End {
			break
		}
	}
	for row+1 < len(l.Lines) {
		line, following := &l.Lines[row], &l.Lines[row+1]
		if offset != line.End || following.Start != offset || following.Break && !next {
			break
		}
		row++
	}
	return row
}

// PositionOf returns the screen row and column of a caret at offset.
func (l *Layout) PositionOf(offset int, next bool) (row, col int) {
	row = l.Row(offset, next)
	for _, c := range l.Lines[row].Cells {
		if c.Offset >= offset {
			break
		}
		col += c.Width
	}
	return row, col
}

// OffsetAt maps a screen row and column back to a caret position.
func (l *Layout) OffsetAt(row, col int) (offset int, next bool) {
	row = max(0, min(row, len(l.Lines)-1))
	line := &l.Lines[row]
	x := 0
	offset = line.Start
	for _, c := range line.Cells {
		if c.Offset < 0 {
			x += c.Width
			continue
		}
		if col < x+c.Width {
			return c.Offset, line.Break && c.Offset == line.Start
		}
		x += c.Width
		offset = c.Offset + c.Span
	}
	if row+1 < len(l.Lines) && !l.Lines[row+1].Break && l.Lines[row+1].Start == offset && len(line.Cells) > 0 {
		// Past the end of a wrapped line: stay before its last character.
		if last := line.Cells[len(line.Cells)-1]; last.Offset >= 0 {
			offset = last.Offset
		}
	}
	return offset, line.Break && offset == line.Start
}
