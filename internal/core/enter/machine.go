// Package enter decides what the Enter key does at the caret: continue or
// leave a list, open a paragraph before or after the current one, or fall
// back to a line break.
package enter

import (
	"unicode/utf8"

	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/logger"
	"golang.org/x/net/html"
)

// State is the Enter context derived from the caret's ancestry.
type State int

const (
	Other State = iota
	InList
	InParagraph
)

func (s State) String() string {
	switch s {
	case InList:
		return "InList"
	case InParagraph:
		return "InParagraph"
	}
	return "Other"
}

// Selection is the part of the selection service the machine needs.
type Selection interface {
	Range() *dom.Range
	CollapseAt(n *html.Node, offset int)
	CollapseAfter(n *html.Node)
}

// Checkpointer commits the current document as an undo entry.
type Checkpointer interface {
	SaveState() bool
}

// Machine handles Enter key presses for one document.
type Machine struct {
	doc         *dom.Document
	sel         Selection
	cp          Checkpointer
	placeholder string
}

// NewMachine creates an Enter handler. cp may be nil.
func NewMachine(doc *dom.Document, sel Selection, cp Checkpointer, placeholder string) *Machine {
	if placeholder == "" {
		placeholder = dom.Placeholder
	}
	return &Machine{doc: doc, sel: sel, cp: cp, placeholder: placeholder}
}

// StateAt classifies the caret position n. It returns the list or paragraph
// element that decided the state (nil for Other).
func (m *Machine) StateAt(n *html.Node) (State, *html.Node) {
	root := m.doc.Root()
	for x := n; x != nil && x != root; x = x.Parent {
		switch {
		case dom.IsElement(x, "ul", "ol"):
			return InList, x
		case dom.IsElement(x, "p"):
			return InParagraph, x
		}
	}
	return Other, nil
}

// Handle runs one Enter press. It reports false when there is no caret in
// the document.
func (m *Machine) Handle() (bool, error) {
	r := m.sel.Range()
	if r == nil {
		logger.DebugTagf("enter", "Ignored: no selection inside the editor")
		return false, nil
	}
	if !r.Collapsed() {
		if err := m.doc.DeleteContents(r); err != nil {
			return false, err
		}
		m.sel.CollapseAt(r.StartContainer, r.StartOffset)
	}

	state, el := m.StateAt(r.StartContainer)
	logger.DebugTagf("enter", "State %s at <%s>", state, dom.Tag(dom.ElementOf(r.StartContainer)))

	var err error
	switch state {
	case InList:
		err = m.inList(r, el)
	case InParagraph:
		err = m.inParagraph(r, el)
	default:
		err = m.lineBreak(r)
	}
	if err != nil {
		return false, err
	}
	if m.cp != nil {
		m.cp.SaveState()
	}
	return true, nil
}

func (m *Machine) inList(r *dom.Range, list *html.Node) error {
	item := dom.ClosestTag(r.StartContainer, list, "li")
	if item == nil {
		return m.lineBreak(r)
	}

	if dom.IsBlank(dom.TextContent(item)) {
		if countItems(list) <= 1 {
			parent, idx := list.Parent, dom.Index(list)
			if err := m.doc.Remove(list); err != nil {
				return err
			}
			m.sel.CollapseAt(parent, idx)
			logger.DebugTagf("enter", "Removed single empty list item and its list")
			return nil
		}
		if err := m.doc.Remove(item); err != nil {
			return err
		}
		p, text := m.emptyBlock("p")
		if err := m.doc.InsertAfter(p, list); err != nil {
			return err
		}
		m.sel.CollapseAt(text, 0)
		return nil
	}

	_, after := split(item, r)
	if dom.IsBlank(after) {
		li, text := m.emptyBlock("li")
		if err := m.doc.InsertAfter(li, item); err != nil {
			return err
		}
		m.sel.CollapseAt(text, 0)
		return nil
	}

	tail := dom.NewRange(r.StartContainer, r.StartOffset, item, dom.ChildCount(item))
	nodes, err := m.doc.ExtractContents(tail)
	if err != nil {
		return err
	}
	li := dom.NewElement("li")
	for _, n := range nodes {
		li.AppendChild(n)
	}
	if dom.IsBlank(dom.TextContent(item)) {
		if err := m.doc.AppendChild(item, dom.NewText(m.placeholder)); err != nil {
			return err
		}
	}
	if err := m.doc.InsertAfter(li, item); err != nil {
		return err
	}
	n, off := dom.FirstPoint(li)
	m.sel.CollapseAt(n, off)
	return nil
}

func (m *Machine) inParagraph(r *dom.Range, p *html.Node) error {
	before, after := split(p, r)
	switch {
	case dom.IsBlank(after):
		np, text := m.emptyBlock("p")
		if err := m.doc.InsertAfter(np, p); err != nil {
			return err
		}
		m.sel.CollapseAt(text, 0)
	case dom.IsBlank(before):
		np, text := m.emptyBlock("p")
		if err := m.doc.InsertBefore(p.Parent, np, p); err != nil {
			return err
		}
		m.sel.CollapseAt(text, 0)
	default:
		return m.lineBreak(r)
	}
	return nil
}

func (m *Machine) lineBreak(r *dom.Range) error {
	br := dom.NewElement("br")
	if err := m.doc.InsertNode(r, br); err != nil {
		return err
	}
	m.sel.CollapseAfter(br)
	return nil
}

func (m *Machine) emptyBlock(tag string) (*html.Node, *html.Node) {
	el := dom.NewElement(tag)
	text := dom.NewText(m.placeholder)
	el.AppendChild(text)
	return el, text
}

// split returns the text of block before and after the caret.
func split(block *html.Node, r *dom.Range) (before, after string) {
	text := dom.TextContent(block)
	at := dom.TextOffset(block, r.StartContainer, r.StartOffset)
	i := 0
	for n := 0; n < at && i < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return text[:i], text[i:]
}

func countItems(list *html.Node) int {
	n := 0
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if dom.IsElement(c, "li") {
			n++
		}
	}
	return n
}
