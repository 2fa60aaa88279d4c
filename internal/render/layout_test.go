package render

import (
	"strings"
	"testing"

	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/theme"
	"github.com/gdamore/tcell/v2"
)

func build(t *testing.T, markup string, width int) *Layout {
	t.Helper()
	doc, err := dom.Parse(markup)
	if err != nil {
		t.Fatal(err)
	}
	return Build(doc.Root(), width, &theme.InkwellDark)
}

func texts(l *Layout) []string {
	out := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		var sb strings.Builder
		for _, c := range line.Cells {
			sb.WriteString(string(c.Runes))
		}
		out[i] = sb.String()
	}
	return out
}

func TestBuildLines(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		width  int
		want   []string
	}{
		{"paragraphs", "<p>ab</p><p>cd</p>", 20, []string{"ab", "cd"}},
		{"source whitespace", "<p>a</p>\n<p>b</p>", 20, []string{"a", "b"}},
		{"bullets", "<ul><li>one</li><li>two</li></ul>", 20, []string{"• one", "• two"}},
		{"numbers", "<ol><li>one</li><li>two</li></ol>", 20, []string{"1. one", "2. two"}},
		{"nested list", "<ul><li>a<ul><li>b</li></ul></li></ul>", 20, []string{"• a", "  • b"}},
		{"quote", "<blockquote><p>q</p></blockquote>", 20, []string{"│ q"}},
		{"wrap at space", "<p>aaa bbb</p>", 5, []string{"aaa ", "bbb"}},
		{"wrap long word", "<p>abcdefg</p>", 4, []string{"abcd", "efg"}},
		{"wrapped item indent", "<ul><li>aa bb</li></ul>", 5, []string{"• aa ", "  bb"}},
		{"line break", "<h1>title<br></h1>", 20, []string{"title", ""}},
		{"empty document", "", 20, []string{""}},
		{"placeholder", "<p>a</p><p>\u200b</p>", 20, []string{"a", ""}},
		{"centered", `<p style="text-align: center;">ab</p>`, 6, []string{"  ab"}},
		{"right", `<p style="text-align: right;">ab</p>`, 6, []string{"    ab"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(build(t, tt.markup, tt.width))
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("lines: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPositionOfBlockBoundary(t *testing.T) {
	l := build(t, "<p>ab</p><p>cd</p>", 20)
	if row, col := l.PositionOf(2, false); row != 0 || col != 2 {
		t.Fatalf("end of first block: got (%d, %d), want (0, 2)", row, col)
	}
	if row, col := l.PositionOf(2, true); row != 1 || col != 0 {
		t.Fatalf("start of second block: got (%d, %d), want (1, 0)", row, col)
	}
	if row, col := l.PositionOf(3, false); row != 1 || col != 1 {
		t.Fatalf("inside second block: got (%d, %d), want (1, 1)", row, col)
	}
}

func TestPositionOfWrappedLine(t *testing.T) {
	l := build(t, "<p>aaa bbb</p>", 5)
	if l.Lines[1].Break {
		t.Fatal("continuation line marked as a break")
	}
	if row, col := l.PositionOf(4, false); row != 1 || col != 0 {
		t.Fatalf("got (%d, %d), want (1, 0)", row, col)
	}
}

func TestPositionOfAfterLineBreak(t *testing.T) {
	l := build(t, "<h1>title<br></h1>", 20)
	if row, col := l.PositionOf(5, true); row != 1 || col != 0 {
		t.Fatalf("after <br>: got (%d, %d), want (1, 0)", row, col)
	}
	if row, col := l.PositionOf(5, false); row != 0 || col != 5 {
		t.Fatalf("before <br>: got (%d, %d), want (0, 5)", row, col)
	}
}

func TestPositionOfSkipsDecoration(t *testing.T) {
	l := build(t, "<ul><li>one</li></ul>", 20)
	if row, col := l.PositionOf(0, false); row != 0 || col != 2 {
		t.Fatalf("got (%d, %d), want (0, 2)", row, col)
	}
	r := build(t, `<p style="text-align: right;">ab</p>`, 6)
	if _, col := r.PositionOf(1, false); col != 5 {
		t.Fatalf("aligned column: got %d, want 5", col)
	}
}

func TestOffsetAt(t *testing.T) {
	l := build(t, "<ul><li>ab</li><li>cd</li></ul><p>\u200b</p>", 20)
	tests := []struct {
		name     string
		row, col int
		offset   int
		next     bool
	}{
		{"on bullet", 0, 0, 0, false},
		{"inside", 0, 3, 1, false},
		{"past end", 0, 10, 2, false},
		{"start of second item", 1, 2, 2, true},
		{"placeholder block", 2, 4, 4, true},
		{"below document", 9, 0, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off, next := l.OffsetAt(tt.row, tt.col)
			if off != tt.offset || next != tt.next {
				t.Fatalf("got (%d, %v), want (%d, %v)", off, next, tt.offset, tt.next)
			}
		})
	}
}

func TestOffsetAtRoundTrips(t *testing.T) {
	l := build(t, "<p>one two three</p><p>four</p>", 8)
	for row := range l.Lines {
		for col := 0; col < l.Lines[row].Width(); col++ {
			off, next := l.OffsetAt(row, col)
			if r, _ := l.PositionOf(off, next); r != row {
				t.Fatalf("(%d, %d) -> offset %d lands on row %d", row, col, off, r)
			}
		}
	}
}

func TestInlineDecoration(t *testing.T) {
	l := build(t, "<p>a<strong>b<em>c</em></strong></p>", 20)
	cells := l.Lines[0].Cells
	attrs := make([]tcell.AttrMask, len(cells))
	for i, c := range cells {
		_, _, attrs[i] = c.Style.Decompose()
	}
	if attrs[0]&tcell.AttrBold != 0 {
		t.Fatal("plain text drawn bold")
	}
	if attrs[1]&tcell.AttrBold == 0 || attrs[1]&tcell.AttrItalic != 0 {
		t.Fatalf("strong text: got attrs %v", attrs[1])
	}
	if attrs[2]&tcell.AttrBold == 0 || attrs[2]&tcell.AttrItalic == 0 {
		t.Fatalf("nested em text: got attrs %v", attrs[2])
	}
}

func TestViewportFollow(t *testing.T) {
	v := Viewport{Top: 0, Height: 3}
	v.Follow(5)
	if v.Top != 3 {
		t.Fatalf("scroll down: got top %d, want 3", v.Top)
	}
	v.Follow(1)
	if v.Top != 1 {
		t.Fatalf("scroll up: got top %d, want 1", v.Top)
	}
}
