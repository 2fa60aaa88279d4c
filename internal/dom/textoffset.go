package dom

import (
	"unicode/utf8"

	"golang.org/x/net/html"
)

// TextOffset returns how many runes of text inside scope precede the
// boundary point (container, offset). Points outside scope yield 0.
func TextOffset(scope, container *html.Node, offset int) int {
	if !Contains(scope, container) {
		return 0
	}
	total := 0
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n == container {
			if n.Type == html.TextNode {
				total += clamp(offset, utf8.RuneCountInString(n.Data))
				return true
			}
			i := 0
			for c := n.FirstChild; c != nil && i < offset; c = c.NextSibling {
				total += utf8.RuneCountInString(TextContent(c))
				i++
			}
			return true
		}
		if n.Type == html.TextNode {
			total += utf8.RuneCountInString(n.Data)
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(scope)
	return total
}

// PointAtTextOffset maps a rune offset inside scope back to a boundary
// point. When the offset sits between two text nodes, preferNext picks the
// start of the following one (useful for range starts).
func PointAtTextOffset(scope *html.Node, target int, preferNext bool) (*html.Node, int) {
	texts := textNodesIn(scope)
	if len(texts) == 0 {
		return scope, 0
	}
	if target < 0 {
		target = 0
	}
	total := 0
	for _, t := range texts {
		n := utf8.RuneCountInString(t.Data)
		if target < total+n || (!preferNext && target == total+n) {
			return t, target - total
		}
		total += n
	}
	last := texts[len(texts)-1]
	return last, Length(last)
}
