package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func mustParse(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := Parse(markup)
	if err != nil {
		t.Fatalf("parse %q: %v", markup, err)
	}
	return doc
}

// findText returns the first text node whose data equals s.
func findText(t *testing.T, n *html.Node, s string) *html.Node {
	t.Helper()
	for _, tn := range textNodesIn(n) {
		if tn.Data == s {
			return tn
		}
	}
	t.Fatalf("text node %q not found", s)
	return nil
}

func render(nodes []*html.Node) string {
	var parts []string
	for _, n := range nodes {
		parts = append(parts, OuterHTML(n))
	}
	return strings.Join(parts, "")
}

func TestExtractContents(t *testing.T) {
	tests := []struct {
		name        string
		markup      string
		start, end  string
		so, eo      int
		wantOut     string
		wantRemains string
	}{
		{
			name:   "inside one text node",
			markup: "<p>abcdef</p>",
			start:  "abcdef", so: 2,
			end: "abcdef", eo: 4,
			wantOut:     "cd",
			wantRemains: "<p>abef</p>",
		},
		{
			name:   "out of an inline element",
			markup: "<p><strong>abc</strong>def</p>",
			start:  "abc", so: 1,
			end: "def", eo: 2,
			wantOut:     "<strong>bc</strong>de",
			wantRemains: "<p><strong>a</strong>f</p>",
		},
		{
			name:   "across paragraphs",
			markup: "<p>abc</p><p>def</p>",
			start:  "abc", so: 1,
			end: "def", eo: 2,
			wantOut:     "<p>bc</p><p>de</p>",
			wantRemains: "<p>a</p><p>f</p>",
		},
		{
			name:   "whole text of a block",
			markup: "<p>abc</p><p>def</p>",
			start:  "abc", so: 0,
			end: "abc", eo: 3,
			wantOut:     "abc",
			wantRemains: "<p></p><p>def</p>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.markup)
			sc := findText(t, doc.Root(), tt.start)
			ec := sc
			if tt.end != tt.start {
				ec = findText(t, doc.Root(), tt.end)
			}
			r := NewRange(sc, tt.so, ec, tt.eo)
			out, err := doc.ExtractContents(r)
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if got := render(out); got != tt.wantOut {
				t.Fatalf("extracted: got %q, want %q", got, tt.wantOut)
			}
			if got := doc.InnerHTML(); got != tt.wantRemains {
				t.Fatalf("remaining: got %q, want %q", got, tt.wantRemains)
			}
			if !r.Collapsed() {
				t.Fatalf("range should collapse after extraction")
			}
		})
	}
}

func TestExtractContentsCollapsedIsNoop(t *testing.T) {
	doc := mustParse(t, "<p>abc</p>")
	tn := findText(t, doc.Root(), "abc")
	out, err := doc.ExtractContents(Caret(tn, 1))
	if err != nil || out != nil {
		t.Fatalf("collapsed extract: got %v, %v; want nil, nil", out, err)
	}
	if got := doc.InnerHTML(); got != "<p>abc</p>" {
		t.Fatalf("document changed: %q", got)
	}
}

func TestInsertNodeSplitsText(t *testing.T) {
	doc := mustParse(t, "<p>abcd</p>")
	tn := findText(t, doc.Root(), "abcd")
	r := Caret(tn, 2)
	br := NewElement("br")
	if err := doc.InsertNode(r, br); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got, want := doc.InnerHTML(), "<p>ab<br/>cd</p>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if r.StartContainer != br.Parent || r.StartOffset != 1 || r.EndOffset != 2 {
		t.Fatalf("range should cover the inserted node, got %+v", r)
	}
}

func TestSurroundContents(t *testing.T) {
	doc := mustParse(t, "<p>hello world</p>")
	tn := findText(t, doc.Root(), "hello world")
	r := NewRange(tn, 6, tn, 11)
	strong := NewElement("strong")
	if err := doc.SurroundContents(r, strong); err != nil {
		t.Fatalf("surround: %v", err)
	}
	if got, want := doc.InnerHTML(), "<p>hello <strong>world</strong></p>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestComparePoints(t *testing.T) {
	doc := mustParse(t, "<p>ab</p><p>cd</p>")
	p1 := doc.Root().FirstChild
	ab := p1.FirstChild
	cd := p1.NextSibling.FirstChild
	tests := []struct {
		name string
		a    *html.Node
		ao   int
		b    *html.Node
		bo   int
		want int
	}{
		{"same point", ab, 1, ab, 1, 0},
		{"earlier offset", ab, 0, ab, 2, -1},
		{"different blocks", cd, 0, ab, 2, 1},
		{"element before child", p1, 0, ab, 0, -1},
		{"element after child", p1, 1, ab, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComparePoints(tt.a, tt.ao, tt.b, tt.bo); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIntersectsNode(t *testing.T) {
	doc := mustParse(t, "<p>ab</p><p>cd</p><p>ef</p>")
	ab := findText(t, doc.Root(), "ab")
	cd := findText(t, doc.Root(), "cd")
	r := NewRange(ab, 1, cd, 1)
	blocks := Children(doc.Root())
	want := []bool{true, true, false}
	for i, b := range blocks {
		if got := r.IntersectsNode(b); got != want[i] {
			t.Fatalf("block %d: got %v, want %v", i, got, want[i])
		}
	}
	if !Caret(cd, 0).IntersectsNode(blocks[1]) {
		t.Fatalf("collapsed range should intersect its own block")
	}
}

func TestRangeText(t *testing.T) {
	doc := mustParse(t, "<p>one <em>two</em></p><p>three</p>")
	r := NewRange(findText(t, doc.Root(), "one "), 2, findText(t, doc.Root(), "three"), 3)
	if got, want := r.Text(), "e twothr"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRangeTextNodes(t *testing.T) {
	doc := mustParse(t, "<p>one <em>two</em></p><p>three</p>")
	root := doc.Root()
	r := NewRange(findText(t, root, "one "), 4, findText(t, root, "three"), 3)
	var got []string
	for _, n := range r.TextNodes() {
		got = append(got, n.Data)
	}
	if want := []string{"two", "three"}; strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTextOffsetRoundTrip(t *testing.T) {
	doc := mustParse(t, "<p>ab<strong>cd</strong>ef</p>")
	p := doc.Root().FirstChild
	cd := findText(t, p, "cd")
	if got := TextOffset(p, cd, 1); got != 3 {
		t.Fatalf("offset: got %d, want 3", got)
	}
	if got := TextOffset(p, p, 2); got != 4 {
		t.Fatalf("element offset: got %d, want 4", got)
	}

	n, off := PointAtTextOffset(p, 2, true)
	if n != cd || off != 0 {
		t.Fatalf("start preference: got (%q,%d), want (\"cd\",0)", n.Data, off)
	}
	n, off = PointAtTextOffset(p, 2, false)
	if n.Data != "ab" || off != 2 {
		t.Fatalf("end preference: got (%q,%d), want (\"ab\",2)", n.Data, off)
	}
	n, off = PointAtTextOffset(p, 99, false)
	if n.Data != "ef" || off != 2 {
		t.Fatalf("clamped: got (%q,%d), want (\"ef\",2)", n.Data, off)
	}
}
