package core

import (
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/inkwell/internal/core/path"
	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/bethropolis/inkwell/internal/types"
	"golang.org/x/net/html"
)

// Caret positions are exposed to hosts as rune offsets into the document's
// text content, which is what a renderer walks anyway.

// CaretOffset returns the text offset of the selection focus, or -1 when
// nothing is selected.
func (e *Editor) CaretOffset() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.caretOffset()
}

func (e *Editor) caretOffset() int {
	r := e.selection.Range()
	if r == nil {
		return -1
	}
	root := e.doc.Root()
	start := dom.TextOffset(root, r.StartContainer, r.StartOffset)
	end := dom.TextOffset(root, r.EndContainer, r.EndOffset)
	if e.anchor >= 0 && e.anchor == end {
		return start
	}
	return end
}

// SelectionOffsets returns the selected text span as offsets, start <= end.
// ok is false when nothing is selected.
func (e *Editor) SelectionOffsets() (start, end int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectionOffsetsLocked()
}

// CaretPoint is CaretOffset plus the side of a block or line boundary the
// caret sits on. Two blocks meet at one text offset; next is true when the
// caret is at the start of the later one.
func (e *Editor) CaretPoint() (offset int, next bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.caretPoint()
}

func (e *Editor) caretPoint() (int, bool) {
	off := e.caretOffset()
	r := e.selection.Range()
	if r == nil {
		return off, false
	}
	c, o := r.EndContainer, r.EndOffset
	if off == dom.TextOffset(e.doc.Root(), r.StartContainer, r.StartOffset) {
		c, o = r.StartContainer, r.StartOffset
	}
	before, bo := dom.PointAtTextOffset(e.doc.Root(), off, false)
	return off, dom.ComparePoints(c, o, before, bo) > 0
}

// SetCaretOffset moves the caret to a text offset. With extend the
// selection grows from where it was started instead of collapsing.
func (e *Editor) SetCaretOffset(offset int, extend bool) {
	_ = e.do("", func() error {
		e.setCaretOffset(offset, extend)
		return nil
	})
}

// PlaceCaret collapses the caret at a text offset, on the later side of a
// boundary when next is set.
func (e *Editor) PlaceCaret(offset int, next bool) {
	_ = e.do("", func() error {
		e.anchor = -1
		e.collapseAt(offset, next)
		return nil
	})
}

func (e *Editor) collapseAt(offset int, next bool) {
	root := e.doc.Root()
	total := utf8.RuneCountInString(dom.TextContent(root))
	offset = max(0, min(offset, total))
	n, off := dom.PointAtTextOffset(root, offset, next || offset == 0)
	e.selection.CollapseAt(n, off)
}

func (e *Editor) setCaretOffset(offset int, extend bool) {
	if !extend {
		e.anchor = -1
		e.collapseAt(offset, false)
		return
	}
	root := e.doc.Root()
	total := utf8.RuneCountInString(dom.TextContent(root))
	offset = max(0, min(offset, total))
	if e.anchor < 0 {
		if cur := e.caretOffset(); cur >= 0 {
			e.anchor = cur
		} else {
			e.anchor = offset
		}
	}
	from, to := min(e.anchor, offset), max(e.anchor, offset)
	sc, so := dom.PointAtTextOffset(root, from, true)
	ec, eo := dom.PointAtTextOffset(root, to, false)
	e.selection.Select(sc, so, ec, eo)
}

// MoveCaret moves the caret by delta characters, stepping over placeholder
// characters so they never cost a keypress. Crossing from one block into
// the next takes a step of its own.
func (e *Editor) MoveCaret(delta int, extend bool) {
	_ = e.do("", func() error {
		root := e.doc.Root()
		text := []rune(dom.TextContent(root))
		at, next := e.caretPoint()
		if at < 0 {
			at, next = 0, false
		}
		step := 1
		if delta < 0 {
			step, delta = -1, -delta
		}
		for ; delta > 0; delta-- {
			if !extend && e.blockBoundary(at) && (step > 0) != next {
				next = !next
				continue
			}
			onlyPlaceholders := true
			for {
				var crossed rune
				if step > 0 {
					if at >= len(text) {
						break
					}
					crossed = text[at]
					at++
				} else {
					if at <= 0 {
						break
					}
					at--
					crossed = text[at]
				}
				if !isPlaceholder(crossed) {
					onlyPlaceholders = false
					break
				}
				if e.blockBoundary(at) {
					break
				}
			}
			next = e.blockBoundary(at) && (step < 0 || onlyPlaceholders)
		}
		if extend {
			e.setCaretOffset(at, true)
			return nil
		}
		e.anchor = -1
		e.collapseAt(at, next)
		return nil
	})
}

// blockBoundary reports whether two different blocks meet at offset.
func (e *Editor) blockBoundary(offset int) bool {
	root := e.doc.Root()
	a, _ := dom.PointAtTextOffset(root, offset, false)
	b, _ := dom.PointAtTextOffset(root, offset, true)
	if a == b {
		return false
	}
	return dom.Closest(a, root, dom.IsBlock) != dom.Closest(b, root, dom.IsBlock)
}

func isPlaceholder(r rune) bool {
	return dom.StripPlaceholders(string(r)) == ""
}

// SelectAll selects the whole document text, from the first text position
// to the last, so commands act inside the blocks rather than around them.
func (e *Editor) SelectAll() {
	_ = e.do("", func() error {
		root := e.doc.Root()
		total := utf8.RuneCountInString(dom.TextContent(root))
		e.anchor = 0
		sc, so := dom.PointAtTextOffset(root, 0, true)
		ec, eo := dom.PointAtTextOffset(root, total, false)
		e.selection.Select(sc, so, ec, eo)
		return nil
	})
}

// ClearSelection drops the selection; commands become no-ops until a caret
// is placed again.
func (e *Editor) ClearSelection() {
	_ = e.do("", func() error {
		e.anchor = -1
		e.selection.Clear()
		return nil
	})
}

// Selection returns the current selection as root-relative paths, or nil.
func (e *Editor) Selection() *types.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.Capture()
}

// RestoreSelection makes a snapshot the live selection. Stale paths fall
// back to the start of the document.
func (e *Editor) RestoreSelection(s *types.Snapshot) {
	_ = e.do("", func() error {
		e.anchor = -1
		e.selection.Restore(s)
		return nil
	})
}

// HasSelection reports whether a non-collapsed selection exists.
func (e *Editor) HasSelection() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.HasSelection()
}

// SelectedText returns the selected text with block boundaries as newlines.
func (e *Editor) SelectedText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.selection.Range()
	if r == nil || r.Collapsed() {
		return ""
	}
	frag := dom.NewElement("div")
	for _, n := range e.cloneRange(r) {
		frag.AppendChild(n)
	}
	return strings.TrimSpace(dom.StripPlaceholders(dom.BlockText(frag)))
}

// cloneRange copies the content covered by r out of a scratch copy of the
// tree, leaving the live document alone.
func (e *Editor) cloneRange(r *dom.Range) []*html.Node {
	root := e.doc.Root()
	start, ok1 := path.PointOf(root, r.StartContainer, r.StartOffset)
	end, ok2 := path.PointOf(root, r.EndContainer, r.EndOffset)
	if !ok1 || !ok2 {
		return nil
	}
	copyRoot := dom.CloneDeep(root)
	scratch, err := dom.NewDocument(copyRoot)
	if err != nil {
		return nil
	}
	sc, so := path.ResolvePoint(copyRoot, start)
	ec, eo := path.ResolvePoint(copyRoot, end)
	nodes, err := scratch.ExtractContents(dom.NewRange(sc, so, ec, eo))
	if err != nil {
		logger.WarnTagf("editor", "Copying selection: %v", err)
		return nil
	}
	return nodes
}
