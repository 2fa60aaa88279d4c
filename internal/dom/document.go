package dom

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNotChild is returned when a mutation names a child of the wrong parent.
var ErrNotChild = errors.New("node is not a child of the given parent")

// ChildListMutation describes nodes added to or removed from Target.
// Index is the child position Added now occupy, or Removed used to occupy.
type ChildListMutation struct {
	Target  *html.Node
	Index   int
	Added   []*html.Node
	Removed []*html.Node
}

// AttributeMutation describes a change to one attribute of Target.
type AttributeMutation struct {
	Target   *html.Node
	Name     string
	OldValue string
	HadOld   bool
}

// CharacterDataMutation describes a change to a text node's data.
type CharacterDataMutation struct {
	Target   *html.Node
	OldValue string
}

// Observer receives every mutation made inside a Document's root, after the
// tree has changed.
type Observer interface {
	OnChildList(m ChildListMutation)
	OnAttribute(m AttributeMutation)
	OnCharacterData(m CharacterDataMutation)
}

// Document is the editable root plus the observers watching it. Mutations on
// nodes outside the root are applied silently.
type Document struct {
	root      *html.Node
	observers []Observer
}

// NewDocument wraps an existing element as the editable root.
func NewDocument(root *html.Node) (*Document, error) {
	if root == nil || root.Type != html.ElementNode {
		return nil, errors.New("document root must be an element")
	}
	return &Document{root: root}, nil
}

// Parse builds a detached contenteditable root holding the given HTML.
func Parse(markup string) (*Document, error) {
	root := NewElement("div")
	root.Attr = []html.Attribute{{Key: "contenteditable", Val: "true"}}
	doc := &Document{root: root}
	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return doc, nil
}

// ParseFragment parses markup as the body of a div and returns the detached
// top-level nodes.
func ParseFragment(markup string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	return nodes, nil
}

// Root returns the editable root element.
func (d *Document) Root() *html.Node { return d.root }

// Observe registers an observer. It returns a function that detaches it.
func (d *Document) Observe(o Observer) func() {
	d.observers = append(d.observers, o)
	return func() {
		for i, x := range d.observers {
			if x == o {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

// Owns reports whether n is the root or lives under it.
func (d *Document) Owns(n *html.Node) bool {
	return n != nil && Contains(d.root, n)
}

// InnerHTML serializes the root's children.
func (d *Document) InnerHTML() string {
	return InnerHTML(d.root)
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&sb, c)
	}
	return sb.String()
}

// OuterHTML serializes n itself.
func OuterHTML(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

// SetInnerHTML replaces the root's children with parsed markup. The change is
// observable like any other mutation.
func (d *Document) SetInnerHTML(markup string) error {
	nodes, err := ParseFragment(markup)
	if err != nil {
		return err
	}
	for c := d.root.FirstChild; c != nil; c = d.root.FirstChild {
		if err := d.RemoveChild(d.root, c); err != nil {
			return err
		}
	}
	for _, n := range nodes {
		if err := d.AppendChild(d.root, n); err != nil {
			return err
		}
	}
	return nil
}

// InsertBefore inserts child into parent before ref (append when ref is nil).
// A child that is already attached somewhere is moved.
func (d *Document) InsertBefore(parent, child, ref *html.Node) error {
	if ref != nil && ref.Parent != parent {
		return ErrNotChild
	}
	if child == ref {
		return nil
	}
	if child.Parent != nil {
		if err := d.RemoveChild(child.Parent, child); err != nil {
			return err
		}
	}
	parent.InsertBefore(child, ref)
	if d.Owns(parent) {
		d.notifyChildList(ChildListMutation{Target: parent, Index: Index(child), Added: []*html.Node{child}})
	}
	return nil
}

// AppendChild appends child as the last child of parent.
func (d *Document) AppendChild(parent, child *html.Node) error {
	return d.InsertBefore(parent, child, nil)
}

// RemoveChild detaches child from parent.
func (d *Document) RemoveChild(parent, child *html.Node) error {
	if child == nil || child.Parent != parent {
		return ErrNotChild
	}
	idx := Index(child)
	parent.RemoveChild(child)
	if d.Owns(parent) {
		d.notifyChildList(ChildListMutation{Target: parent, Index: idx, Removed: []*html.Node{child}})
	}
	return nil
}

// Remove detaches n from its parent, if any.
func (d *Document) Remove(n *html.Node) error {
	if n == nil || n.Parent == nil {
		return nil
	}
	return d.RemoveChild(n.Parent, n)
}

// ReplaceWith puts replacement where old is and detaches old.
func (d *Document) ReplaceWith(old, replacement *html.Node) error {
	parent := old.Parent
	if parent == nil {
		return ErrNotChild
	}
	if err := d.InsertBefore(parent, replacement, old); err != nil {
		return err
	}
	return d.RemoveChild(parent, old)
}

// InsertAfter inserts child right after ref.
func (d *Document) InsertAfter(child, ref *html.Node) error {
	if ref.Parent == nil {
		return ErrNotChild
	}
	return d.InsertBefore(ref.Parent, child, ref.NextSibling)
}

// MoveChildren moves every child of from to the end of to.
func (d *Document) MoveChildren(from, to *html.Node) error {
	for c := from.FirstChild; c != nil; c = from.FirstChild {
		if err := d.AppendChild(to, c); err != nil {
			return err
		}
	}
	return nil
}

// MoveChildrenBefore moves every child of from to just before ref.
func (d *Document) MoveChildrenBefore(from, ref *html.Node) error {
	for c := from.FirstChild; c != nil; c = from.FirstChild {
		if err := d.InsertBefore(ref.Parent, c, ref); err != nil {
			return err
		}
	}
	return nil
}

// Unwrap replaces el with its children and returns them.
func (d *Document) Unwrap(el *html.Node) ([]*html.Node, error) {
	parent := el.Parent
	if parent == nil {
		return nil, ErrNotChild
	}
	children := Children(el)
	for _, c := range children {
		if err := d.InsertBefore(parent, c, el); err != nil {
			return nil, err
		}
	}
	return children, d.RemoveChild(parent, el)
}

// Wrap puts el where n is and moves n inside it.
func (d *Document) Wrap(n, el *html.Node) error {
	if n.Parent == nil {
		return ErrNotChild
	}
	if err := d.InsertBefore(n.Parent, el, n); err != nil {
		return err
	}
	return d.AppendChild(el, n)
}

// Retag replaces el with a new element of the given tag that keeps el's
// attributes and children.
func (d *Document) Retag(el *html.Node, tag string) (*html.Node, error) {
	if el.Data == tag {
		return el, nil
	}
	repl := NewElement(tag)
	repl.Attr = append([]html.Attribute(nil), el.Attr...)
	if el.Parent == nil {
		return nil, ErrNotChild
	}
	if err := d.InsertBefore(el.Parent, repl, el); err != nil {
		return nil, err
	}
	if err := d.MoveChildren(el, repl); err != nil {
		return nil, err
	}
	return repl, d.RemoveChild(repl.Parent, el)
}

// SetText replaces a text node's data.
func (d *Document) SetText(n *html.Node, data string) {
	if n.Data == data {
		return
	}
	old := n.Data
	n.Data = data
	if d.Owns(n) {
		d.notifyCharacterData(CharacterDataMutation{Target: n, OldValue: old})
	}
}

// SplitText cuts t at rune offset and inserts the tail as a new text node
// right after it. The new node is returned.
func (d *Document) SplitText(t *html.Node, offset int) (*html.Node, error) {
	runes := []rune(t.Data)
	if offset < 0 || offset > len(runes) {
		return nil, fmt.Errorf("split offset %d out of range [0,%d]", offset, len(runes))
	}
	tail := NewText(string(runes[offset:]))
	d.SetText(t, string(runes[:offset]))
	if t.Parent != nil {
		if err := d.InsertAfter(tail, t); err != nil {
			return nil, err
		}
	}
	return tail, nil
}

// SetAttr sets an attribute on el.
func (d *Document) SetAttr(el *html.Node, key, val string) {
	for i, a := range el.Attr {
		if a.Namespace == "" && a.Key == key {
			if a.Val == val {
				return
			}
			el.Attr[i].Val = val
			if d.Owns(el) {
				d.notifyAttribute(AttributeMutation{Target: el, Name: key, OldValue: a.Val, HadOld: true})
			}
			return
		}
	}
	el.Attr = append(el.Attr, html.Attribute{Key: key, Val: val})
	if d.Owns(el) {
		d.notifyAttribute(AttributeMutation{Target: el, Name: key})
	}
}

// RemoveAttr removes an attribute from el.
func (d *Document) RemoveAttr(el *html.Node, key string) {
	for i, a := range el.Attr {
		if a.Namespace == "" && a.Key == key {
			el.Attr = append(el.Attr[:i], el.Attr[i+1:]...)
			if d.Owns(el) {
				d.notifyAttribute(AttributeMutation{Target: el, Name: key, OldValue: a.Val, HadOld: true})
			}
			return
		}
	}
}

func (d *Document) notifyChildList(m ChildListMutation) {
	for _, o := range d.observers {
		o.OnChildList(m)
	}
}

func (d *Document) notifyAttribute(m AttributeMutation) {
	for _, o := range d.observers {
		o.OnAttribute(m)
	}
}

func (d *Document) notifyCharacterData(m CharacterDataMutation) {
	for _, o := range d.observers {
		o.OnCharacterData(m)
	}
}
