// Package dom wraps a golang.org/x/net/html node tree as an editable
// document: every mutation goes through a Document so that observers can
// capture it, and Range implements the boundary-point operations the editing
// core needs (extract, insert, surround).
package dom

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Placeholder is the invisible character used to keep empty blocks focusable.
const Placeholder = "\u200b"

// placeholderRunes are stripped by emptiness checks.
const placeholderRunes = "\u200b\u200c\ufeff\u00a0"

// contextTags are the blocks reported as the formatting context at the caret.
var contextTags = []string{"p", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li"}

var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Blockquote: true, atom.Ul: true,
	atom.Ol: true, atom.Li: true, atom.Div: true, atom.Pre: true,
}

// NewElement creates a detached element for the given (lowercase) tag name.
func NewElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// NewText creates a detached text node.
func NewText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// IsText reports whether n is a text node.
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// IsElement reports whether n is an element, optionally one of the given tags.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// IsBlock reports whether n is a block-level element.
func IsBlock(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && blockTags[n.DataAtom]
}

// IsHeading reports whether tag is h1..h6.
func IsHeading(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

// Tag returns the element's tag name, or "" for non-elements.
func Tag(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return n.Data
}

// Index returns n's position among its parent's children (0 when detached).
func Index(n *html.Node) int {
	i := 0
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		i++
	}
	return i
}

// ChildAt returns the i-th child of n, or nil when out of range.
func ChildAt(n *html.Node, i int) *html.Node {
	if i < 0 {
		return nil
	}
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// ChildCount returns the number of children of n.
func ChildCount(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// Children returns a snapshot slice of n's children.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Length is the boundary-point length of n: runes for text, children otherwise.
func Length(n *html.Node) int {
	if n == nil {
		return 0
	}
	if n.Type == html.TextNode {
		return utf8.RuneCountInString(n.Data)
	}
	return ChildCount(n)
}

// TextContent concatenates all descendant text.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(x *html.Node) {
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			} else {
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

// BlockText is TextContent with a newline at every block boundary and <br>,
// so words in adjacent blocks stay apart.
func BlockText(n *html.Node) string {
	var sb strings.Builder
	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}
	var walk func(*html.Node)
	walk = func(x *html.Node) {
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				sb.WriteString(c.Data)
			case IsElement(c, "br"):
				sb.WriteByte('\n')
			case IsBlock(c):
				newline()
				walk(c)
				newline()
			default:
				walk(c)
			}
		}
	}
	if n != nil {
		walk(n)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// StripPlaceholders removes placeholder characters from s.
func StripPlaceholders(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(placeholderRunes, r) {
			return -1
		}
		return r
	}, s)
}

// IsBlank reports whether s holds nothing but whitespace and placeholders.
func IsBlank(s string) bool {
	return strings.TrimSpace(StripPlaceholders(s)) == ""
}

// Contains reports whether n is ancestor or equal to other.
func Contains(n, other *html.Node) bool {
	for x := other; x != nil; x = x.Parent {
		if x == n {
			return true
		}
	}
	return false
}

// Closest walks from n (inclusive) towards stop (exclusive) and returns the
// first node matching pred.
func Closest(n, stop *html.Node, pred func(*html.Node) bool) *html.Node {
	for x := n; x != nil && x != stop; x = x.Parent {
		if pred(x) {
			return x
		}
	}
	return nil
}

// ClosestTag is Closest for an element with one of the given tags.
func ClosestTag(n, stop *html.Node, tags ...string) *html.Node {
	return Closest(n, stop, func(x *html.Node) bool { return IsElement(x, tags...) })
}

// ContextOf returns the tag of the nearest context block around n (below
// stop), or "" when there is none.
func ContextOf(n, stop *html.Node) string {
	return Tag(ClosestTag(n, stop, contextTags...))
}

// HasBlockChild reports whether any direct child of n is a block.
func HasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if IsBlock(c) {
			return true
		}
	}
	return false
}

// ElementOf returns n when it is an element, otherwise its parent.
func ElementOf(n *html.Node) *html.Node {
	if n != nil && n.Type != html.ElementNode {
		return n.Parent
	}
	return n
}

// CommonAncestor returns the deepest node containing both a and b.
func CommonAncestor(a, b *html.Node) *html.Node {
	seen := make(map[*html.Node]bool)
	for x := a; x != nil; x = x.Parent {
		seen[x] = true
	}
	for x := b; x != nil; x = x.Parent {
		if seen[x] {
			return x
		}
	}
	return nil
}

// ShallowClone copies a node without its children or tree links.
func ShallowClone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	return c
}

// CloneDeep copies a node and its whole subtree, detached.
func CloneDeep(n *html.Node) *html.Node {
	c := ShallowClone(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(CloneDeep(child))
	}
	return c
}

// Attr returns the value of an attribute and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// LastPoint returns the deepest last position inside n, preferring the end
// of its last text node.
func LastPoint(n *html.Node) (*html.Node, int) {
	for x := n; x != nil; x = x.LastChild {
		if x.Type == html.TextNode {
			return x, Length(x)
		}
		if x.LastChild == nil {
			return x, Length(x)
		}
	}
	return n, Length(n)
}

// FirstPoint returns the deepest first position inside n.
func FirstPoint(n *html.Node) (*html.Node, int) {
	for x := n; x != nil; x = x.FirstChild {
		if x.Type == html.TextNode || x.FirstChild == nil {
			return x, 0
		}
	}
	return n, 0
}
