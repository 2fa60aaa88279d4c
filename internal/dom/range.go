package dom

import (
	"golang.org/x/net/html"
)

// Range is a pair of boundary points. A boundary inside a text node counts
// runes; inside an element it counts children.
type Range struct {
	StartContainer *html.Node
	StartOffset    int
	EndContainer   *html.Node
	EndOffset      int
}

// NewRange builds a range, swapping the points if they are out of order.
func NewRange(sc *html.Node, so int, ec *html.Node, eo int) *Range {
	if ComparePoints(sc, so, ec, eo) > 0 {
		sc, so, ec, eo = ec, eo, sc, so
	}
	return &Range{StartContainer: sc, StartOffset: so, EndContainer: ec, EndOffset: eo}
}

// Caret builds a collapsed range.
func Caret(n *html.Node, offset int) *Range {
	return &Range{StartContainer: n, StartOffset: offset, EndContainer: n, EndOffset: offset}
}

// Clone returns a copy of r.
func (r *Range) Clone() *Range {
	c := *r
	return &c
}

// Collapsed reports whether both boundaries are the same point.
func (r *Range) Collapsed() bool {
	return r.StartContainer == r.EndContainer && r.StartOffset == r.EndOffset
}

// Collapse moves both boundaries to the start (or end) point.
func (r *Range) Collapse(toStart bool) {
	if toStart {
		r.EndContainer, r.EndOffset = r.StartContainer, r.StartOffset
	} else {
		r.StartContainer, r.StartOffset = r.EndContainer, r.EndOffset
	}
}

// SetStart moves the start boundary, dragging the end along if needed.
func (r *Range) SetStart(n *html.Node, offset int) {
	r.StartContainer, r.StartOffset = n, offset
	if ComparePoints(n, offset, r.EndContainer, r.EndOffset) > 0 {
		r.EndContainer, r.EndOffset = n, offset
	}
}

// SetEnd moves the end boundary, dragging the start along if needed.
func (r *Range) SetEnd(n *html.Node, offset int) {
	r.EndContainer, r.EndOffset = n, offset
	if ComparePoints(r.StartContainer, r.StartOffset, n, offset) > 0 {
		r.StartContainer, r.StartOffset = n, offset
	}
}

// SetStartBefore puts the start boundary right before n.
func (r *Range) SetStartBefore(n *html.Node) { r.SetStart(n.Parent, Index(n)) }

// SetStartAfter puts the start boundary right after n.
func (r *Range) SetStartAfter(n *html.Node) { r.SetStart(n.Parent, Index(n)+1) }

// SetEndBefore puts the end boundary right before n.
func (r *Range) SetEndBefore(n *html.Node) { r.SetEnd(n.Parent, Index(n)) }

// SetEndAfter puts the end boundary right after n.
func (r *Range) SetEndAfter(n *html.Node) { r.SetEnd(n.Parent, Index(n)+1) }

// SelectNode makes the range cover n itself.
func (r *Range) SelectNode(n *html.Node) {
	idx := Index(n)
	r.StartContainer, r.StartOffset = n.Parent, idx
	r.EndContainer, r.EndOffset = n.Parent, idx+1
}

// SelectNodeContents makes the range cover the children (or text) of n.
func (r *Range) SelectNodeContents(n *html.Node) {
	r.StartContainer, r.StartOffset = n, 0
	r.EndContainer, r.EndOffset = n, Length(n)
}

// CommonAncestor returns the deepest node containing both boundaries.
func (r *Range) CommonAncestor() *html.Node {
	return CommonAncestor(r.StartContainer, r.EndContainer)
}

// IntersectsNode reports whether any part of n lies within the range. A
// collapsed range intersects the node it sits in.
func (r *Range) IntersectsNode(n *html.Node) bool {
	parent := n.Parent
	if parent == nil {
		return Contains(n, r.StartContainer)
	}
	off := Index(n)
	return ComparePoints(parent, off, r.EndContainer, r.EndOffset) < 0 &&
		ComparePoints(parent, off+1, r.StartContainer, r.StartOffset) > 0
}

// Text returns the text covered by the range.
func (r *Range) Text() string {
	ca := r.CommonAncestor()
	if ca == nil {
		return ""
	}
	if r.StartContainer == r.EndContainer && IsText(r.StartContainer) {
		runes := []rune(r.StartContainer.Data)
		return string(runes[clamp(r.StartOffset, len(runes)):clamp(r.EndOffset, len(runes))])
	}
	var out []rune
	for _, n := range textNodesIn(ca) {
		runes := []rune(n.Data)
		from, to := 0, len(runes)
		if ComparePoints(n, len(runes), r.StartContainer, r.StartOffset) <= 0 ||
			ComparePoints(n, 0, r.EndContainer, r.EndOffset) >= 0 {
			continue
		}
		if n == r.StartContainer {
			from = clamp(r.StartOffset, len(runes))
		}
		if n == r.EndContainer {
			to = clamp(r.EndOffset, len(runes))
		}
		out = append(out, runes[from:to]...)
	}
	return string(out)
}

// ComparePoints orders two boundary points in document order: -1, 0 or 1.
func ComparePoints(a *html.Node, aOff int, b *html.Node, bOff int) int {
	ka := pointKey(a, aOff)
	kb := pointKey(b, bOff)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		switch {
		case ka[i] < kb[i]:
			return -1
		case ka[i] > kb[i]:
			return 1
		}
	}
	switch {
	case len(ka) < len(kb):
		return -1
	case len(ka) > len(kb):
		return 1
	}
	return 0
}

// pointKey is the child-index path from the top of n's tree with the offset
// appended; a shorter key that is a prefix of a longer one sorts first.
func pointKey(n *html.Node, off int) []int {
	var key []int
	for x := n; x != nil && x.Parent != nil; x = x.Parent {
		key = append(key, Index(x))
	}
	for i, j := 0, len(key)-1; i < j; i, j = i+1, j-1 {
		key[i], key[j] = key[j], key[i]
	}
	return append(key, off)
}

// boundary is a point expressed as "inside parent, right before node".
// A nil before means the end of parent.
type boundary struct {
	parent *html.Node
	before *html.Node
}

// elementBoundary converts an element-container point without mutating.
func elementBoundary(n *html.Node, off int) boundary {
	return boundary{parent: n, before: ChildAt(n, off)}
}

// textBoundary converts a text point, splitting the text node if the point
// falls strictly inside it.
func (d *Document) textBoundary(t *html.Node, off int) (boundary, error) {
	if t.Parent == nil {
		return boundary{parent: t}, nil
	}
	switch {
	case off <= 0:
		return boundary{parent: t.Parent, before: t}, nil
	case off >= Length(t):
		return boundary{parent: t.Parent, before: t.NextSibling}, nil
	}
	tail, err := d.SplitText(t, off)
	if err != nil {
		return boundary{}, err
	}
	return boundary{parent: t.Parent, before: tail}, nil
}

// boundaries converts both range points, splitting end before start so the
// start's text node keeps its identity.
func (d *Document) boundaries(r *Range) (start, end boundary, err error) {
	startText := IsText(r.StartContainer)
	endText := IsText(r.EndContainer)
	if !startText {
		start = elementBoundary(r.StartContainer, r.StartOffset)
	}
	if !endText {
		end = elementBoundary(r.EndContainer, r.EndOffset)
	}
	if endText {
		if end, err = d.textBoundary(r.EndContainer, r.EndOffset); err != nil {
			return
		}
	}
	if startText {
		if start, err = d.textBoundary(r.StartContainer, r.StartOffset); err != nil {
			return
		}
	}
	return
}

// lift raises b until its parent is ca, splitting every intermediate
// ancestor at the boundary.
func (d *Document) lift(b boundary, ca *html.Node, isEnd bool) (boundary, error) {
	for b.parent != ca && b.parent != nil && b.parent.Parent != nil {
		p := b.parent
		first := b.before == p.FirstChild
		last := b.before == nil
		switch {
		case isEnd && last:
			b = boundary{parent: p.Parent, before: p.NextSibling}
		case first:
			b = boundary{parent: p.Parent, before: p}
		case last:
			b = boundary{parent: p.Parent, before: p.NextSibling}
		default:
			clone := ShallowClone(p)
			for c := b.before; c != nil; {
				next := c.NextSibling
				if err := d.RemoveChild(p, c); err != nil {
					return b, err
				}
				clone.AppendChild(c)
				c = next
			}
			if err := d.InsertAfter(clone, p); err != nil {
				return b, err
			}
			b = boundary{parent: p.Parent, before: clone}
		}
	}
	return b, nil
}

// ExtractContents removes everything inside the range and returns it as a
// list of detached top-level nodes. Ancestors cut by a boundary are split so
// that the returned nodes hold only the covered part; empty shells may be
// left behind and the range collapses to where the content was.
func (d *Document) ExtractContents(r *Range) ([]*html.Node, error) {
	if r.Collapsed() {
		return nil, nil
	}
	start, end, err := d.boundaries(r)
	if err != nil {
		return nil, err
	}
	ca := CommonAncestor(start.parent, end.parent)
	if ca == nil {
		return nil, ErrNotChild
	}
	if end, err = d.lift(end, ca, true); err != nil {
		return nil, err
	}
	if start, err = d.lift(start, ca, false); err != nil {
		return nil, err
	}

	var out []*html.Node
	for c := start.before; c != nil && c != end.before; {
		next := c.NextSibling
		if err := d.RemoveChild(ca, c); err != nil {
			return out, err
		}
		out = append(out, c)
		c = next
	}
	off := ChildCount(ca)
	if end.before != nil && end.before.Parent == ca {
		off = Index(end.before)
	}
	*r = *Caret(ca, off)
	return out, nil
}

// DeleteContents removes everything inside the range.
func (d *Document) DeleteContents(r *Range) error {
	_, err := d.ExtractContents(r)
	return err
}

// InsertNode inserts n at the start of the range, splitting a text container
// if needed. Afterwards the range covers exactly n.
func (d *Document) InsertNode(r *Range, n *html.Node) error {
	var b boundary
	var err error
	if IsText(r.StartContainer) {
		if b, err = d.textBoundary(r.StartContainer, r.StartOffset); err != nil {
			return err
		}
	} else {
		b = elementBoundary(r.StartContainer, r.StartOffset)
	}
	if err := d.InsertBefore(b.parent, n, b.before); err != nil {
		return err
	}
	r.SelectNode(n)
	return nil
}

// SurroundContents moves the range's contents into el and puts el where the
// contents were. Afterwards the range covers el.
func (d *Document) SurroundContents(r *Range, el *html.Node) error {
	nodes, err := d.ExtractContents(r)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if err := d.AppendChild(el, n); err != nil {
			return err
		}
	}
	return d.InsertNode(r, el)
}

// TextNodes lists the text nodes the range covers at least one character of.
func (r *Range) TextNodes() []*html.Node {
	ca := r.CommonAncestor()
	if ca == nil {
		return nil
	}
	var out []*html.Node
	for _, n := range textNodesIn(ca) {
		if ComparePoints(n, Length(n), r.StartContainer, r.StartOffset) <= 0 ||
			ComparePoints(n, 0, r.EndContainer, r.EndOffset) >= 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}

// textNodesIn lists the text nodes under n in document order.
func textNodesIn(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(x *html.Node) {
		if x.Type == html.TextNode {
			out = append(out, x)
			return
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func clamp(v, hi int) int {
	switch {
	case v < 0:
		return 0
	case v > hi:
		return hi
	}
	return v
}
