package core

import (
	"fmt"
	"strings"

	"github.com/bethropolis/inkwell/internal/core/format"
	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/rivo/uniseg"
)

// NonEmpty reports whether the document holds any visible text. Hosts show
// their empty-document placeholder when it is false.
func (e *Editor) NonEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nonEmpty()
}

func (e *Editor) nonEmpty() bool {
	return !dom.IsBlank(dom.TextContent(e.doc.Root()))
}

// WordCount counts whitespace-separated words in the document.
func (e *Editor) WordCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wordCount()
}

func (e *Editor) wordCount() int {
	return CountWords(dom.BlockText(e.doc.Root()))
}

// WordCountLabel is the status text for the current word count.
func (e *Editor) WordCountLabel() string {
	return WordCountLabel(e.WordCount())
}

// CountWords collapses whitespace in text and counts the remaining tokens.
// Placeholder characters are not words.
func CountWords(text string) int {
	return len(strings.Fields(dom.StripPlaceholders(text)))
}

// WordCountLabel formats a word count: "1 word", "N words".
func WordCountLabel(n int) string {
	if n == 1 {
		return "1 word"
	}
	return fmt.Sprintf("%d words", n)
}

// Characters counts user-perceived characters (grapheme clusters) in the
// document text, placeholders and line breaks excluded.
func (e *Editor) Characters() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.characters()
}

func (e *Editor) characters() int {
	text := dom.StripPlaceholders(dom.TextContent(e.doc.Root()))
	return uniseg.GraphemeClusterCount(text)
}

// Context returns the nearest paragraph, heading, list or list-item tag
// around the selection, or "" when there is none.
func (e *Editor) Context() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.context()
}

func (e *Editor) context() string {
	r := e.selection.Range()
	if r == nil {
		return ""
	}
	return dom.ContextOf(r.CommonAncestor(), e.doc.Root())
}

// ActiveFormats lists the commands applied at the selection, for toolbar
// highlighting.
func (e *Editor) ActiveFormats() []format.Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.formatter.ActiveFormats()
}

func (e *Editor) activeTokens() []string {
	cmds := e.formatter.ActiveFormats()
	if len(cmds) == 0 {
		return nil
	}
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Token())
	}
	return out
}

// CanUndo reports whether Undo would do something.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo reports whether Redo would do something.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}
