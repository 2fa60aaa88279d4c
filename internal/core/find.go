package core

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/logger"
)

// Find selects the next match of the regular expression term after the
// caret (or the previous one before it), wrapping around the document. It
// reports whether anything matched.
func (e *Editor) Find(term string, forward bool) (bool, error) {
	if term == "" {
		return false, nil
	}
	re, err := regexp.Compile(term)
	if err != nil {
		return false, fmt.Errorf("invalid search pattern %q: %w", term, err)
	}

	found := false
	err = e.do("", func() error {
		text := dom.TextContent(e.doc.Root())
		from := 0
		if start, end, ok := e.selectionOffsetsLocked(); ok {
			from = end
			if !forward {
				from = start
			}
		}
		matches := re.FindAllStringIndex(text, -1)
		if len(matches) == 0 {
			return nil
		}

		pick := -1
		if forward {
			for i, m := range matches {
				if runeIndex(text, m[0]) >= from && m[1] > m[0] {
					pick = i
					break
				}
			}
			if pick < 0 {
				pick = 0
			}
		} else {
			for i := len(matches) - 1; i >= 0; i-- {
				if runeIndex(text, matches[i][1]) <= from && matches[i][1] > matches[i][0] {
					pick = i
					break
				}
			}
			if pick < 0 {
				pick = len(matches) - 1
			}
		}

		m := matches[pick]
		e.anchor = -1
		e.setCaretOffset(runeIndex(text, m[0]), false)
		e.setCaretOffset(runeIndex(text, m[1]), true)
		found = true
		logger.DebugTagf("editor", "Find %q matched at rune %d", term, runeIndex(text, m[0]))
		return nil
	})
	return found, err
}

func (e *Editor) selectionOffsetsLocked() (int, int, bool) {
	r := e.selection.Range()
	if r == nil {
		return 0, 0, false
	}
	root := e.doc.Root()
	return dom.TextOffset(root, r.StartContainer, r.StartOffset),
		dom.TextOffset(root, r.EndContainer, r.EndOffset), true
}

// runeIndex converts a byte offset in s to a rune offset.
func runeIndex(s string, byteOffset int) int {
	return utf8.RuneCountInString(s[:byteOffset])
}
