package core

import (
	"unicode/utf8"

	"github.com/bethropolis/inkwell/internal/core/format"
	"github.com/bethropolis/inkwell/internal/core/paste"
	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/logger"
	"golang.org/x/net/html"
)

// Exec applies a formatting command to the selection. It is a silent no-op
// without a selection inside the document; each applied command becomes its
// own undo entry.
func (e *Editor) Exec(cmd format.Command) error {
	return e.do(cmd.Token(), func() error {
		applied, err := e.formatter.Apply(cmd)
		if err != nil {
			return err
		}
		if applied {
			e.anchor = -1
			e.history.SaveState()
		}
		return nil
	})
}

// ExecToken parses a toolbar token and runs it.
func (e *Editor) ExecToken(token string) error {
	cmd, err := format.ParseCommand(token)
	if err != nil {
		return err
	}
	return e.Exec(cmd)
}

// Enter runs the Enter-key behaviour at the caret.
func (e *Editor) Enter() error {
	return e.do("enter", func() error {
		e.anchor = -1
		_, err := e.enter.Handle()
		return err
	})
}

// Paste replaces the selection with the payload's plain text.
func (e *Editor) Paste(p paste.Payload) error {
	return e.do("paste", func() error {
		e.anchor = -1
		_, err := e.paster.Paste(p)
		return err
	})
}

// PasteText is Paste for a plain-text payload.
func (e *Editor) PasteText(s string) error {
	return e.Paste(paste.Payload{Text: s})
}

// Undo reverts the latest undo entry.
func (e *Editor) Undo() (bool, error) {
	var ok bool
	err := e.do("", func() error {
		e.anchor = -1
		var err error
		ok, err = e.history.Undo()
		return err
	})
	return ok, err
}

// Redo replays the latest undone entry.
func (e *Editor) Redo() (bool, error) {
	var ok bool
	err := e.do("", func() error {
		e.anchor = -1
		var err error
		ok, err = e.history.Redo()
		return err
	})
	return ok, err
}

// SaveState turns pending edits into an undo entry now.
func (e *Editor) SaveState() bool {
	var ok bool
	_ = e.do("", func() error {
		ok = e.history.SaveState()
		return nil
	})
	return ok
}

// InsertText types s at the caret, replacing any selection. Consecutive
// typing is grouped into one undo entry by the debounce window.
func (e *Editor) InsertText(s string) error {
	if s == "" {
		return nil
	}
	return e.do("", func() error {
		r := e.selection.Range()
		if r == nil {
			return nil
		}
		e.anchor = -1
		if !r.Collapsed() {
			if err := e.deleteSelection(r); err != nil {
				return err
			}
			if r = e.selection.Range(); r == nil {
				return nil
			}
		}
		e.history.Label("typing")

		n, off := e.textTarget(r.StartContainer, r.StartOffset)
		if n == nil {
			t := dom.NewText(s)
			if err := e.doc.InsertNode(r, t); err != nil {
				return err
			}
			e.selection.CollapseAt(t, dom.Length(t))
			return nil
		}
		if data := n.Data; data != "" && dom.StripPlaceholders(data) == "" {
			// typing into an empty block replaces its placeholder
			e.doc.SetText(n, s)
			e.selection.CollapseAt(n, utf8.RuneCountInString(s))
			return nil
		}
		runes := []rune(n.Data)
		e.doc.SetText(n, string(runes[:off])+s+string(runes[off:]))
		e.selection.CollapseAt(n, off+utf8.RuneCountInString(s))
		return nil
	})
}

// deleteSelection removes the selected content and collapses the caret
// where it was. When the selection starts and ends in different blocks the
// two are joined, the way a single Backspace joins neighbouring blocks.
func (e *Editor) deleteSelection(r *dom.Range) error {
	root := e.doc.Root()
	sc, so, ec, eo := r.StartContainer, r.StartOffset, r.EndContainer, r.EndOffset
	first := dom.Closest(sc, root, dom.IsBlock)
	last := dom.Closest(ec, root, dom.IsBlock)
	if first == nil || last == nil || dom.Contains(first, last) || dom.Contains(last, first) {
		if err := e.doc.DeleteContents(r); err != nil {
			return err
		}
		e.selection.CollapseAt(r.StartContainer, r.StartOffset)
		return nil
	}

	// back to front, so earlier points stay valid
	for _, part := range []*dom.Range{
		dom.NewRange(last, 0, ec, eo),
		dom.NewRange(first.Parent, dom.Index(first)+1, last.Parent, dom.Index(last)),
		dom.NewRange(sc, so, first, dom.ChildCount(first)),
	} {
		if err := e.doc.DeleteContents(part); err != nil {
			return err
		}
	}
	return e.joinBlocks(first, last)
}

// textTarget finds the text node to type into at (c, off): the container
// itself, or a text neighbour of an element position.
func (e *Editor) textTarget(c *html.Node, off int) (*html.Node, int) {
	if dom.IsText(c) {
		return c, off
	}
	if prev := dom.ChildAt(c, off-1); off > 0 && dom.IsText(prev) {
		return prev, dom.Length(prev)
	}
	if next := dom.ChildAt(c, off); dom.IsText(next) {
		return next, 0
	}
	return nil, 0
}

// DeleteBackward removes the selection, or the character before the caret.
// At the start of a block the block is merged into the previous one.
func (e *Editor) DeleteBackward() error {
	return e.do("", func() error {
		r := e.selection.Range()
		if r == nil {
			return nil
		}
		e.anchor = -1
		e.history.Label("delete")
		if !r.Collapsed() {
			return e.deleteSelection(r)
		}
		return e.deleteBefore(r.StartContainer, r.StartOffset)
	})
}

// DeleteForward removes the selection, or the character after the caret.
// At the end of a block the next block is merged into it.
func (e *Editor) DeleteForward() error {
	return e.do("", func() error {
		r := e.selection.Range()
		if r == nil {
			return nil
		}
		e.anchor = -1
		e.history.Label("delete")
		if !r.Collapsed() {
			return e.deleteSelection(r)
		}

		root := e.doc.Root()
		c, off := r.StartContainer, r.StartOffset
		if block := dom.Closest(c, root, dom.IsBlock); block != nil && dom.IsBlank(textAfter(block, c, off)) {
			if next := nextBlock(block); next != nil {
				n, o := dom.FirstPoint(next)
				return e.deleteBefore(n, o)
			}
			return nil
		}
		at := dom.TextOffset(root, c, off)
		if at >= utf8.RuneCountInString(dom.TextContent(root)) {
			return nil
		}
		t, k := dom.PointAtTextOffset(root, at, true)
		e.removeRune(t, k)
		return nil
	})
}

func (e *Editor) deleteBefore(c *html.Node, off int) error {
	root := e.doc.Root()

	// a line break right before the caret
	var before *html.Node
	if dom.IsText(c) && off == 0 {
		before = c.PrevSibling
	} else if !dom.IsText(c) && off > 0 {
		before = dom.ChildAt(c, off-1)
	}
	if dom.IsElement(before, "br") {
		parent, idx := before.Parent, dom.Index(before)
		if err := e.doc.Remove(before); err != nil {
			return err
		}
		e.selection.CollapseAt(parent, idx)
		return nil
	}

	block := dom.Closest(c, root, dom.IsBlock)
	at := dom.TextOffset(root, c, off)
	if block != nil && dom.IsBlank(textBefore(block, c, off)) {
		return e.mergeBlock(block)
	}
	if at == 0 {
		return nil
	}

	t, k := dom.PointAtTextOffset(root, at-1, true)
	e.removeRune(t, k)
	return nil
}

// removeRune deletes the k-th rune of t and leaves the caret there. A block
// left without text gets a placeholder.
func (e *Editor) removeRune(t *html.Node, k int) {
	runes := []rune(t.Data)
	if !dom.IsText(t) || k < 0 || k >= len(runes) {
		return
	}
	e.doc.SetText(t, string(runes[:k])+string(runes[k+1:]))
	root := e.doc.Root()
	if block := dom.Closest(t, root, dom.IsBlock); t.Data == "" && block != nil && dom.IsBlank(dom.TextContent(block)) {
		e.doc.SetText(t, e.placeholder)
	}
	e.selection.CollapseAt(t, k)
}

// nextBlock returns the block that follows block in reading order, or nil.
func nextBlock(block *html.Node) *html.Node {
	for x := block; x != nil; x = x.Parent {
		next := x.NextSibling
		for next != nil && dom.IsText(next) && dom.IsBlank(next.Data) {
			next = next.NextSibling
		}
		if next != nil {
			if !dom.IsBlock(next) {
				return nil
			}
			for dom.HasBlockChild(next) {
				next = next.FirstChild
			}
			return next
		}
		if !dom.IsElement(x, "li") {
			return nil
		}
	}
	return nil
}

// mergeBlock joins block onto the end of the block before it.
func (e *Editor) mergeBlock(block *html.Node) error {
	prev := block.PrevSibling
	for prev != nil && dom.IsText(prev) && dom.IsBlank(prev.Data) {
		prev = prev.PrevSibling
	}
	if prev == nil && dom.IsElement(block, "li") && block.Parent != nil {
		// first item of a list: merge into whatever precedes the list
		return e.mergeBlock(block.Parent)
	}
	if !dom.IsBlock(prev) {
		return nil
	}
	target := prev
	for dom.HasBlockChild(target) {
		target = target.LastChild
	}
	if !dom.IsBlock(target) {
		return nil
	}

	return e.joinBlocks(target, block)
}

// joinBlocks moves block's content onto the end of target and removes block,
// along with any ancestors that leaves empty. The caret goes to the seam. A
// list block gives up only its first item.
func (e *Editor) joinBlocks(target, block *html.Node) error {
	root := e.doc.Root()
	src := block
	if dom.IsElement(block, "ul", "ol") && block.FirstChild != nil {
		src = block.FirstChild
	}

	// drop placeholder-only text on both sides of the join
	for _, side := range []*html.Node{target, src} {
		for _, c := range dom.Children(side) {
			if dom.IsText(c) && c.Data != "" && dom.StripPlaceholders(c.Data) == "" {
				if err := e.doc.Remove(c); err != nil {
					return err
				}
			}
		}
	}

	joinNode, joinOff := dom.LastPoint(target)
	if joinNode == target {
		joinOff = dom.ChildCount(target)
	}
	parent := src.Parent
	if err := e.doc.MoveChildren(src, target); err != nil {
		return err
	}
	if err := e.doc.Remove(src); err != nil {
		return err
	}
	for p := parent; p != nil && p != root && p.FirstChild == nil && dom.IsBlock(p); {
		up := p.Parent
		if err := e.doc.Remove(p); err != nil {
			return err
		}
		p = up
	}
	if target.FirstChild == nil {
		ph := dom.NewText(e.placeholder)
		if err := e.doc.AppendChild(target, ph); err != nil {
			return err
		}
		joinNode, joinOff = ph, 0
	}
	e.selection.CollapseAt(joinNode, joinOff)
	logger.DebugTagf("editor", "Merged <%s> into <%s>", block.Data, target.Data)
	return nil
}

func textBefore(block, c *html.Node, off int) string {
	runes := []rune(dom.TextContent(block))
	return string(runes[:min(dom.TextOffset(block, c, off), len(runes))])
}

func textAfter(block, c *html.Node, off int) string {
	runes := []rune(dom.TextContent(block))
	return string(runes[min(dom.TextOffset(block, c, off), len(runes)):])
}
