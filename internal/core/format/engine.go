package format

import (
	"strings"

	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/logger"
	"golang.org/x/net/html"
)

// Selection is the part of the selection service the engine drives.
type Selection interface {
	Range() *dom.Range
	Select(sc *html.Node, so int, ec *html.Node, eo int)
	CollapseAt(n *html.Node, offset int)
	CollapseAfter(n *html.Node)
}

// Prompter asks the user for a link target. ok is false when cancelled.
type Prompter interface {
	PromptURL(initial string) (url string, ok bool)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(initial string) (string, bool)

// PromptURL implements Prompter.
func (f PromptFunc) PromptURL(initial string) (string, bool) { return f(initial) }

// Engine applies formatting commands. It keeps no state between calls;
// everything is derived from the selection and the tree around it.
type Engine struct {
	doc         *dom.Document
	sel         Selection
	prompt      Prompter
	placeholder string
}

// NewEngine creates a formatting engine. prompt may be nil, which makes
// CreateLink a no-op.
func NewEngine(doc *dom.Document, sel Selection, prompt Prompter, placeholder string) *Engine {
	if placeholder == "" {
		placeholder = dom.Placeholder
	}
	return &Engine{doc: doc, sel: sel, prompt: prompt, placeholder: placeholder}
}

// Apply runs cmd against the current selection. It reports false when the
// command was a no-op (no selection, cancelled prompt).
func (e *Engine) Apply(cmd Command) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}
	if e.sel.Range() == nil {
		logger.DebugTagf("format", "%s ignored: no selection inside the editor", cmd)
		return false, nil
	}
	logger.DebugTagf("format", "Applying %s", cmd)
	switch cmd.Kind {
	case Bold, Italic, Underline, Strike, Code:
		return true, e.ToggleInline(cmd.Tag())
	case Heading, Quote:
		return true, e.ToggleBlock(cmd.Tag())
	case OrderedList, UnorderedList:
		return true, e.ToggleList(cmd.Tag())
	case Align:
		return true, e.SetAlignment(cmd.Align)
	case Link:
		return e.CreateLink()
	}
	return false, nil
}

// IsApplied reports whether r sits inside an element with the given tag,
// or every character it covers does.
func (e *Engine) IsApplied(tag string, r *dom.Range) bool {
	return e.applied(tag, r) != nil || (r != nil && !r.Collapsed() && e.covered(tag, r))
}

func (e *Engine) applied(tag string, r *dom.Range) *html.Node {
	if r == nil {
		return nil
	}
	return dom.ClosestTag(r.CommonAncestor(), e.doc.Root(), tag)
}

// covered reports whether every non-blank text node in r sits inside a tag
// element. A selection styled block by block has no single styled ancestor.
func (e *Engine) covered(tag string, r *dom.Range) bool {
	root := e.doc.Root()
	found := false
	for _, t := range r.TextNodes() {
		if dom.IsBlank(t.Data) {
			continue
		}
		if dom.ClosestTag(t, root, tag) == nil {
			return false
		}
		found = true
	}
	return found
}

// ToggleInline turns an inline style on or off for the selection.
func (e *Engine) ToggleInline(tag string) error {
	r := e.sel.Range()
	if r == nil {
		return nil
	}
	if r.Collapsed() {
		return e.toggleAtCaret(tag, r)
	}

	m := e.mark(r)
	if el := e.applied(tag, r); el != nil {
		if _, err := e.doc.Unwrap(el); err != nil {
			return err
		}
		e.restore(m)
		return nil
	}

	styled := e.covered(tag, r)
	if err := e.strip(tag, r); err != nil {
		return err
	}
	e.restore(m)
	if styled {
		return nil
	}
	if err := e.wrap(tag, e.sel.Range()); err != nil {
		return err
	}
	e.restore(m)
	return nil
}

// toggleAtCaret inserts an empty styled element to type into, or removes
// the one the caret is in.
func (e *Engine) toggleAtCaret(tag string, r *dom.Range) error {
	if el := dom.ClosestTag(r.StartContainer, e.doc.Root(), tag); el != nil {
		if dom.IsBlank(dom.TextContent(el)) {
			parent, idx := el.Parent, dom.Index(el)
			if err := e.doc.Remove(el); err != nil {
				return err
			}
			e.sel.CollapseAt(parent, idx)
			return nil
		}
		m := e.mark(r)
		if _, err := e.doc.Unwrap(el); err != nil {
			return err
		}
		e.restore(m)
		return nil
	}

	el := dom.NewElement(tag)
	text := dom.NewText(e.placeholder)
	el.AppendChild(text)
	if err := e.doc.InsertNode(r, el); err != nil {
		return err
	}
	e.sel.CollapseAt(text, dom.Length(text))
	return nil
}

// strip unwraps every tag element under the common ancestor that
// intersects r.
func (e *Engine) strip(tag string, r *dom.Range) error {
	ca := dom.ElementOf(r.CommonAncestor())
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if dom.IsElement(c, tag) && r.IntersectsNode(c) {
				found = append(found, c)
			}
			walk(c)
		}
	}
	walk(ca)
	for _, el := range found {
		if _, err := e.doc.Unwrap(el); err != nil {
			return err
		}
	}
	if len(found) > 0 {
		logger.DebugTagf("format", "Stripped %d <%s> element(s) before wrapping", len(found), tag)
	}
	return nil
}

// wrap puts the range in one fresh element, or one per block when the range
// crosses block boundaries.
func (e *Engine) wrap(tag string, r *dom.Range) error {
	if r == nil || r.Collapsed() {
		return nil
	}
	root := e.doc.Root()
	block := dom.Closest(r.StartContainer, root, dom.IsBlock)
	if block != nil && block == dom.Closest(r.EndContainer, root, dom.IsBlock) {
		return e.doc.SurroundContents(r, dom.NewElement(tag))
	}
	blocks := leafBlocks(dom.ElementOf(r.CommonAncestor()), r)
	if len(blocks) == 0 {
		return e.doc.SurroundContents(r, dom.NewElement(tag))
	}

	var subs []*dom.Range
	for _, b := range blocks {
		sub := &dom.Range{}
		sub.SelectNodeContents(b)
		if dom.Contains(b, r.StartContainer) {
			sub.StartContainer, sub.StartOffset = r.StartContainer, r.StartOffset
		}
		if dom.Contains(b, r.EndContainer) {
			sub.EndContainer, sub.EndOffset = r.EndContainer, r.EndOffset
		}
		if !sub.Collapsed() && !dom.IsBlank(sub.Text()) {
			subs = append(subs, sub)
		}
	}
	for i := len(subs) - 1; i >= 0; i-- {
		if err := e.doc.SurroundContents(subs[i], dom.NewElement(tag)); err != nil {
			return err
		}
	}
	return nil
}

// leafBlocks lists the blocks under n that intersect r and hold no blocks
// themselves.
func leafBlocks(n *html.Node, r *dom.Range) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(x *html.Node) {
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			if !dom.IsBlock(c) || !r.IntersectsNode(c) {
				continue
			}
			if dom.HasBlockChild(c) {
				walk(c)
				continue
			}
			out = append(out, c)
		}
	}
	walk(n)
	return out
}

// ToggleBlock applies or removes a heading or blockquote on the block
// around the selection.
func (e *Engine) ToggleBlock(tag string) error {
	r := e.sel.Range()
	if r == nil {
		return nil
	}
	root := e.doc.Root()
	m := e.mark(r)
	ca := dom.ElementOf(r.CommonAncestor())

	if match := dom.ClosestTag(ca, root, tag); match != nil {
		if holdsParagraph(match, root) {
			if _, err := e.doc.Retag(match, "p"); err != nil {
				return err
			}
		} else if _, err := e.doc.Unwrap(match); err != nil {
			return err
		}
		e.restore(m)
		return nil
	}

	blk := dom.Closest(ca, root, dom.IsBlock)
	if blk != nil && (blk.Data == "p" || blk.Data == "blockquote" || dom.IsHeading(blk.Data)) {
		if _, err := e.doc.Retag(blk, tag); err != nil {
			return err
		}
		e.restore(m)
		return nil
	}

	target := r
	if r.Collapsed() {
		target = inlineRun(r, blk, root)
	}
	if target == nil {
		return e.insertEmptyBlock(r, tag)
	}
	if err := e.doc.SurroundContents(target, dom.NewElement(tag)); err != nil {
		return err
	}
	e.restore(m)
	return nil
}

// holdsParagraph reports whether el stands where a paragraph would: it has
// only inline content and no enclosing block other than blockquotes. Turning
// such an element off leaves a paragraph rather than bare text.
func holdsParagraph(el, root *html.Node) bool {
	if dom.HasBlockChild(el) {
		return false
	}
	outer := dom.Closest(el.Parent, root, func(n *html.Node) bool {
		return dom.IsBlock(n) && !dom.IsElement(n, "blockquote")
	})
	return outer == nil
}

// insertEmptyBlock puts a new placeholder block at the caret.
func (e *Engine) insertEmptyBlock(r *dom.Range, tag string) error {
	el := dom.NewElement(tag)
	text := dom.NewText(e.placeholder)
	el.AppendChild(text)
	if err := e.doc.InsertNode(r, el); err != nil {
		return err
	}
	e.sel.CollapseAt(text, 0)
	return nil
}

// inlineRun returns a range over the maximal run of inline siblings around
// the caret inside its block (or the root), or nil if there is none.
func inlineRun(r *dom.Range, blk, root *html.Node) *dom.Range {
	container := blk
	if container == nil {
		container = root
	}
	var c *html.Node
	if r.StartContainer == container {
		c = dom.ChildAt(container, r.StartOffset)
		if c == nil || dom.IsBlock(c) {
			c = dom.ChildAt(container, r.StartOffset-1)
		}
	} else {
		for c = r.StartContainer; c != nil && c.Parent != container; c = c.Parent {
		}
	}
	if c == nil || dom.IsBlock(c) {
		return nil
	}
	first, last := c, c
	for first.PrevSibling != nil && !dom.IsBlock(first.PrevSibling) {
		first = first.PrevSibling
	}
	for last.NextSibling != nil && !dom.IsBlock(last.NextSibling) {
		last = last.NextSibling
	}
	return &dom.Range{
		StartContainer: container, StartOffset: dom.Index(first),
		EndContainer: container, EndOffset: dom.Index(last) + 1,
	}
}

// ToggleList converts the selection's block(s) to a list, switches the
// list type, or turns the list back into paragraphs.
func (e *Engine) ToggleList(tag string) error {
	r := e.sel.Range()
	if r == nil {
		return nil
	}
	root := e.doc.Root()
	ca := dom.ElementOf(r.CommonAncestor())

	if list := dom.ClosestTag(ca, root, "ul", "ol"); list != nil {
		m := e.mark(r)
		var err error
		if list.Data == tag {
			err = e.unlist(list)
		} else {
			_, err = e.doc.Retag(list, tag)
		}
		if err != nil {
			return err
		}
		e.restore(m)
		return nil
	}

	var targets []*html.Node
	blk := dom.Closest(ca, root, dom.IsBlock)
	switch {
	case blk != nil && (blk.Parent == root || blk.Data == "p" || dom.IsHeading(blk.Data)):
		targets = []*html.Node{blk}
	case blk == nil:
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			if dom.IsBlock(c) && r.IntersectsNode(c) {
				targets = append(targets, c)
			}
		}
	}

	list := dom.NewElement(tag)
	if len(targets) > 0 {
		for _, b := range targets {
			li := dom.NewElement("li")
			list.AppendChild(li)
			if err := e.doc.MoveChildren(b, li); err != nil {
				return err
			}
			e.fillEmpty(li)
		}
		if err := e.doc.InsertBefore(targets[0].Parent, list, targets[0]); err != nil {
			return err
		}
		for _, b := range targets {
			if err := e.doc.Remove(b); err != nil {
				return err
			}
		}
	} else {
		li := dom.NewElement("li")
		list.AppendChild(li)
		target := r
		if r.Collapsed() {
			target = inlineRun(r, blk, root)
		}
		at := r
		if target != nil {
			nodes, err := e.doc.ExtractContents(target)
			if err != nil {
				return err
			}
			for _, n := range nodes {
				li.AppendChild(n)
			}
			at = target
		}
		e.fillEmpty(li)
		if err := e.doc.InsertNode(at, list); err != nil {
			return err
		}
	}

	n, off := dom.LastPoint(list)
	e.sel.CollapseAt(n, off)
	return nil
}

// unlist replaces a list with one paragraph per item.
func (e *Engine) unlist(list *html.Node) error {
	parent := list.Parent
	for _, c := range dom.Children(list) {
		if !dom.IsElement(c, "li") {
			if err := e.doc.InsertBefore(parent, c, list); err != nil {
				return err
			}
			continue
		}
		if dom.HasBlockChild(c) {
			if err := e.doc.MoveChildrenBefore(c, list); err != nil {
				return err
			}
			continue
		}
		p := dom.NewElement("p")
		if err := e.doc.MoveChildren(c, p); err != nil {
			return err
		}
		e.fillEmpty(p)
		if err := e.doc.InsertBefore(parent, p, list); err != nil {
			return err
		}
	}
	return e.doc.Remove(list)
}

// fillEmpty gives a detached, childless block a placeholder.
func (e *Engine) fillEmpty(n *html.Node) {
	if n.FirstChild == nil {
		n.AppendChild(dom.NewText(e.placeholder))
	}
}

// SetAlignment overwrites text-align on the block(s) holding the selection.
func (e *Engine) SetAlignment(a Alignment) error {
	r := e.sel.Range()
	if r == nil {
		return nil
	}
	root := e.doc.Root()
	m := e.mark(r)
	ca := dom.ElementOf(r.CommonAncestor())

	var blocks []*html.Node
	if blk := dom.Closest(ca, root, dom.IsBlock); blk != nil {
		blocks = append(blocks, blk)
	} else {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			if dom.IsBlock(c) && r.IntersectsNode(c) {
				blocks = append(blocks, c)
			}
		}
	}

	if len(blocks) == 0 {
		p := dom.NewElement("p")
		if run := inlineRun(dom.Caret(r.StartContainer, r.StartOffset), nil, root); run != nil {
			if err := e.doc.SurroundContents(run, p); err != nil {
				return err
			}
		} else {
			e.fillEmpty(p)
			if err := e.doc.InsertNode(r, p); err != nil {
				return err
			}
		}
		blocks = append(blocks, p)
	}

	for _, b := range blocks {
		e.setStyle(b, "text-align", string(a))
	}
	e.restore(m)
	return nil
}

func (e *Engine) setStyle(el *html.Node, prop, value string) {
	current, _ := dom.Attr(el, "style")
	e.doc.SetAttr(el, "style", parseStyle(current).set(prop, value).String())
}

// CreateLink asks for a URL and links the selection to it. An existing link
// around the selection gets its target replaced instead.
func (e *Engine) CreateLink() (bool, error) {
	r := e.sel.Range()
	if r == nil {
		return false, nil
	}
	if e.prompt == nil {
		logger.WarnTagf("format", "Link requested but no prompter is configured")
		return false, nil
	}
	existing := e.applied("a", r)
	initial := ""
	if existing != nil {
		initial, _ = dom.Attr(existing, "href")
	}

	url, ok := e.prompt.PromptURL(initial)
	if !ok || strings.TrimSpace(url) == "" {
		return false, nil
	}
	if existing != nil {
		e.doc.SetAttr(existing, "href", url)
		return true, nil
	}

	a := dom.NewElement("a")
	a.Attr = []html.Attribute{{Key: "href", Val: url}}
	if r.Collapsed() {
		a.AppendChild(dom.NewText(url))
		if err := e.doc.InsertNode(r, a); err != nil {
			return false, err
		}
		e.sel.CollapseAfter(a)
		return true, nil
	}
	m := e.mark(r)
	if err := e.doc.SurroundContents(r, a); err != nil {
		return false, err
	}
	e.restore(m)
	return true, nil
}

// ActiveFormats lists the commands in effect at the selection, for toolbar
// highlighting.
func (e *Engine) ActiveFormats() []Command {
	r := e.sel.Range()
	if r == nil {
		return nil
	}
	root := e.doc.Root()
	ca := r.CommonAncestor()

	var out []Command
	for _, k := range []Kind{Bold, Italic, Underline, Strike, Code, Link} {
		if dom.ClosestTag(ca, root, inlineTags[k]) != nil {
			out = append(out, Command{Kind: k})
		}
	}
	seen := map[Kind]bool{}
	for x := dom.ElementOf(ca); x != nil && x != root; x = x.Parent {
		var c Command
		switch {
		case dom.IsHeading(x.Data):
			c = Command{Kind: Heading, Level: int(x.Data[1] - '0')}
		case x.Data == "blockquote":
			c = Command{Kind: Quote}
		case x.Data == "ol":
			c = Command{Kind: OrderedList}
		case x.Data == "ul":
			c = Command{Kind: UnorderedList}
		default:
			continue
		}
		if !seen[c.Kind] {
			seen[c.Kind] = true
			out = append(out, c)
		}
	}
	if blk := dom.Closest(ca, root, dom.IsBlock); blk != nil {
		st, _ := dom.Attr(blk, "style")
		if v, ok := parseStyle(st).get("text-align"); ok {
			out = append(out, Command{Kind: Align, Align: Alignment(v)})
		}
	}
	return out
}

// textMark is a selection saved as rune offsets into the root's text, which
// survive unwrapping and retagging.
type textMark struct {
	start, end int
	collapsed  bool
	forward    bool // caret sat at the start of its node
}

func (e *Engine) mark(r *dom.Range) textMark {
	root := e.doc.Root()
	return textMark{
		start:     dom.TextOffset(root, r.StartContainer, r.StartOffset),
		end:       dom.TextOffset(root, r.EndContainer, r.EndOffset),
		collapsed: r.Collapsed(),
		forward:   r.StartOffset == 0 || !dom.IsText(r.StartContainer),
	}
}

func (e *Engine) restore(m textMark) {
	root := e.doc.Root()
	if m.collapsed {
		n, off := dom.PointAtTextOffset(root, m.start, m.forward)
		e.sel.CollapseAt(n, off)
		return
	}
	sc, so := dom.PointAtTextOffset(root, m.start, true)
	ec, eo := dom.PointAtTextOffset(root, m.end, false)
	e.sel.Select(sc, so, ec, eo)
}
