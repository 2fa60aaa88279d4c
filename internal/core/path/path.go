// Package path converts between live nodes and index paths relative to the
// editable root, so positions survive being stored across mutations.
package path

import (
	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/types"
	"golang.org/x/net/html"
)

// Of returns the child-index path from root down to n. ok is false when n is
// not root or one of its descendants.
func Of(root, n *html.Node) (p types.Path, ok bool) {
	if root == nil || n == nil {
		return nil, false
	}
	for x := n; x != root; x = x.Parent {
		if x == nil {
			return nil, false
		}
		p = append(p, dom.Index(x))
	}
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
	if p == nil {
		p = types.Path{}
	}
	return p, true
}

// PointOf is Of plus an offset.
func PointOf(root, n *html.Node, offset int) (types.Point, bool) {
	p, ok := Of(root, n)
	if !ok {
		return types.Point{}, false
	}
	return types.Point{Path: p, Offset: offset}, true
}

// Resolve walks p down from root. Any out-of-range index yields (root, false).
func Resolve(root *html.Node, p types.Path) (*html.Node, bool) {
	n := root
	for _, idx := range p {
		c := dom.ChildAt(n, idx)
		if c == nil {
			return root, false
		}
		n = c
	}
	return n, true
}

// ResolvePoint resolves pt and clamps its offset into [0, length]. Invalid
// paths fall back to (root, 0).
func ResolvePoint(root *html.Node, pt types.Point) (*html.Node, int) {
	n, ok := Resolve(root, pt.Path)
	if !ok {
		return root, 0
	}
	return n, Clamp(n, pt.Offset)
}

// Clamp limits offset to the boundary-point length of n.
func Clamp(n *html.Node, offset int) int {
	if offset < 0 {
		return 0
	}
	if l := dom.Length(n); offset > l {
		return l
	}
	return offset
}
