package core

import (
	"unicode"

	"github.com/bethropolis/inkwell/internal/core/format"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// KeyResult tells the host what happened to a key event. PreventDefault
// means the host must not apply its own handling (typing the key, moving
// the caret).
type KeyResult struct {
	Handled        bool
	PreventDefault bool
}

// shortcut is an editor keyboard shortcut, bound to a letter pressed with
// Ctrl (or Meta/Alt, the terminal's stand-in for Cmd).
type shortcut int

const (
	shortcutNone shortcut = iota
	shortcutBold
	shortcutItalic
	shortcutUnderline
	shortcutUndo
	shortcutRedo
)

var shortcutLetters = map[rune]shortcut{
	'b': shortcutBold,
	'i': shortcutItalic,
	'u': shortcutUnderline,
	'z': shortcutUndo,
	'y': shortcutRedo,
}

var ctrlKeys = map[tcell.Key]rune{
	tcell.KeyCtrlB: 'b',
	tcell.KeyCtrlI: 'i',
	tcell.KeyCtrlU: 'u',
	tcell.KeyCtrlZ: 'z',
	tcell.KeyCtrlY: 'y',
}

// shortcutFor maps a key event to a shortcut. Tab and Ctrl+I share a key
// code in terminals, so Ctrl+I only counts with the Ctrl modifier set.
func shortcutFor(ev *tcell.EventKey) shortcut {
	mod := ev.Modifiers()
	if letter, ok := ctrlKeys[ev.Key()]; ok {
		if ev.Key() == tcell.KeyCtrlI && mod&tcell.ModCtrl == 0 {
			return shortcutNone
		}
		return shortcutLetters[letter]
	}
	if ev.Key() == tcell.KeyRune && mod&(tcell.ModCtrl|tcell.ModMeta|tcell.ModAlt) != 0 {
		return shortcutLetters[unicode.ToLower(ev.Rune())]
	}
	return shortcutNone
}

// HandleKey applies the editor's own keyboard behaviour: the formatting and
// history shortcuts and Enter. Every key it handles must not reach the
// host's default handling. Other keys are left to the host.
func (e *Editor) HandleKey(ev *tcell.EventKey) (KeyResult, error) {
	if ev.Key() == tcell.KeyEnter && ev.Modifiers()&tcell.ModShift == 0 {
		return KeyResult{Handled: true, PreventDefault: true}, e.Enter()
	}

	var err error
	switch shortcutFor(ev) {
	case shortcutBold:
		err = e.Exec(format.Command{Kind: format.Bold})
	case shortcutItalic:
		err = e.Exec(format.Command{Kind: format.Italic})
	case shortcutUnderline:
		err = e.Exec(format.Command{Kind: format.Underline})
	case shortcutUndo:
		_, err = e.Undo()
	case shortcutRedo:
		_, err = e.Redo()
	default:
		return KeyResult{}, nil
	}
	if err != nil {
		logger.Warnf("Editor: shortcut %s failed: %v", ev.Name(), err)
	}
	return KeyResult{Handled: true, PreventDefault: true}, err
}
