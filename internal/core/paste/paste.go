// Package paste inserts clipboard content as plain text, choosing between a
// bare text node and a new paragraph from the block context at the caret.
package paste

import (
	"io"
	"strings"

	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/logger"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Payload is what the host read from the clipboard.
type Payload struct {
	Text string // text/plain
	HTML string // text/html, used only when Text is empty
}

// PlainText returns the payload as text with normalized line endings. Rich
// content is reduced to its text.
func (p Payload) PlainText() string {
	s := p.Text
	if s == "" && p.HTML != "" {
		s = TextFromHTML(p.HTML)
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Selection is the part of the selection service the normalizer needs.
type Selection interface {
	Range() *dom.Range
	CollapseAt(n *html.Node, offset int)
	CollapseAfter(n *html.Node)
}

// Checkpointer commits the current document as an undo entry.
type Checkpointer interface {
	SaveState() bool
}

// Normalizer performs pastes into one document.
type Normalizer struct {
	doc *dom.Document
	sel Selection
	cp  Checkpointer
}

// NewNormalizer creates a paste handler. cp may be nil.
func NewNormalizer(doc *dom.Document, sel Selection, cp Checkpointer) *Normalizer {
	return &Normalizer{doc: doc, sel: sel, cp: cp}
}

// Paste replaces the selection with the payload's text. Outside any
// recognised block the text gets its own paragraph. It reports false when
// there is no caret in the document.
func (n *Normalizer) Paste(p Payload) (bool, error) {
	r := n.sel.Range()
	if r == nil {
		logger.DebugTagf("paste", "Ignored: no selection inside the editor")
		return false, nil
	}
	text := p.PlainText()
	ctx := dom.ContextOf(r.CommonAncestor(), n.doc.Root())

	if !r.Collapsed() {
		if err := n.doc.DeleteContents(r); err != nil {
			return false, err
		}
	}

	if ctx == "" {
		para := dom.NewElement("p")
		para.AppendChild(dom.NewText(text))
		if err := n.doc.InsertNode(r, para); err != nil {
			return false, err
		}
		n.sel.CollapseAfter(para)
	} else {
		t := dom.NewText(text)
		if err := n.doc.InsertNode(r, t); err != nil {
			return false, err
		}
		if text != "" {
			// pasted text takes the place of an empty block's placeholder
			for _, s := range []*html.Node{t.PrevSibling, t.NextSibling} {
				if dom.IsText(s) && s.Data != "" && dom.StripPlaceholders(s.Data) == "" {
					if err := n.doc.Remove(s); err != nil {
						return false, err
					}
				}
			}
		}
		n.sel.CollapseAt(t, dom.Length(t))
	}
	logger.DebugTagf("paste", "Inserted %d rune(s) in context %q", len([]rune(text)), ctx)

	if n.cp != nil {
		n.cp.SaveState()
	}
	return true, nil
}

// TextFromHTML extracts the text of an HTML fragment. Block boundaries and
// <br> become newlines; script and style content is dropped.
func TextFromHTML(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var sb strings.Builder
	skip := 0
	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				logger.WarnTagf("paste", "Tokenizing pasted HTML: %v", z.Err())
			}
			return strings.TrimRight(sb.String(), "\n")
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Script || a == atom.Style:
				if tt == html.StartTagToken {
					skip++
				} else if tt == html.EndTagToken && skip > 0 {
					skip--
				}
			case a == atom.Br:
				sb.WriteByte('\n')
			case dom.IsBlock(&html.Node{Type: html.ElementNode, DataAtom: a}):
				newline()
			}
		}
	}
}
