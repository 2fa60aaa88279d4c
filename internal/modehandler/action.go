package modehandler

import (
	"math"

	"github.com/bethropolis/inkwell/internal/input"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// executeAction handles actions when in ModeNormal. It reports whether a
// redraw is needed.
func (mh *ModeHandler) executeAction(actionEvent input.ActionEvent, ev *tcell.EventKey) bool {
	isShift := ev != nil && ev.Modifiers()&tcell.ModShift != 0

	if actionEvent.Action != input.ActionMoveUp && actionEvent.Action != input.ActionMoveDown &&
		actionEvent.Action != input.ActionMovePageUp && actionEvent.Action != input.ActionMovePageDown {
		mh.goalCol = -1
	}
	if actionEvent.Action != input.ActionQuit && actionEvent.Action != input.ActionUnknown {
		mh.forceQuitPending = false
	}

	var err error
	switch actionEvent.Action {
	// Mode Switching
	case input.ActionEnterCommandMode:
		mh.openPrompt(ModeCommand, "")
	case input.ActionEnterFindMode:
		mh.openPrompt(ModeFind, "")
	case input.ActionFindNext:
		mh.executeFind(true)
	case input.ActionFindPrevious:
		mh.executeFind(false)

	// Quit/Save actions
	case input.ActionQuit:
		if mh.editor.HasSelection() {
			mh.collapseSelection()
			return true
		}
		mh.RequestQuit(false)
	case input.ActionForceQuit:
		mh.RequestQuit(true)
	case input.ActionSave:
		if mh.save == nil {
			return false
		}
		if err := mh.save(); err != nil {
			mh.statusBar.SetTemporaryMessage("Save FAILED: %v", err)
		}

	// Movement
	case input.ActionMoveLeft:
		if !isShift && mh.editor.HasSelection() {
			start, _, _ := mh.editor.SelectionOffsets()
			mh.editor.PlaceCaret(start, false)
			break
		}
		mh.editor.MoveCaret(-1, isShift)
	case input.ActionMoveRight:
		if !isShift && mh.editor.HasSelection() {
			_, end, _ := mh.editor.SelectionOffsets()
			mh.editor.PlaceCaret(end, false)
			break
		}
		mh.editor.MoveCaret(1, isShift)
	case input.ActionMoveUp:
		mh.moveVertical(-1, isShift)
	case input.ActionMoveDown:
		mh.moveVertical(1, isShift)
	case input.ActionMovePageUp:
		mh.moveVertical(-mh.pageSize(), isShift)
	case input.ActionMovePageDown:
		mh.moveVertical(mh.pageSize(), isShift)
	case input.ActionMoveHome:
		mh.moveInLine(0, isShift)
	case input.ActionMoveEnd:
		mh.moveInLine(math.MaxInt32, isShift)
	case input.ActionSelectAll:
		mh.editor.SelectAll()

	// Clipboard
	case input.ActionCopy:
		mh.copySelection(false)
	case input.ActionCut:
		mh.copySelection(true)
	case input.ActionPaste:
		err = mh.paste()

	// Text Modification
	case input.ActionInsertRune:
		err = mh.editor.InsertText(string(actionEvent.Rune))
	case input.ActionInsertNewLine:
		err = mh.editor.Enter()
	case input.ActionDeleteCharBackward:
		err = mh.editor.DeleteBackward()
	case input.ActionDeleteCharForward:
		err = mh.editor.DeleteForward()

	// Toolbar
	case input.ActionFormat:
		if actionEvent.Token == "link" {
			mh.startLink()
			break
		}
		err = mh.editor.ExecToken(actionEvent.Token)

	default:
		return false
	}

	if err != nil {
		logger.Debugf("ModeHandler: action %v failed: %v", actionEvent.Action, err)
		mh.statusBar.SetTemporaryMessage("Error: %v", err)
	}
	return true
}

// collapseSelection puts the caret at the selection's focus.
func (mh *ModeHandler) collapseSelection() {
	off, next := mh.editor.CaretPoint()
	mh.editor.PlaceCaret(off, next)
}

// moveVertical moves the caret rows screen lines, keeping the column it
// started from across consecutive moves.
func (mh *ModeHandler) moveVertical(rows int, extend bool) {
	layout := mh.layout()
	off, next := mh.editor.CaretPoint()
	if off < 0 {
		off, next = 0, false
	}
	row, col := layout.PositionOf(off, next)
	if mh.goalCol < 0 {
		mh.goalCol = col
	}
	target := max(0, min(row+rows, len(layout.Lines)-1))
	if target == row {
		// Already on the first or last line: go to its start or end.
		if rows < 0 {
			mh.moveInLine(0, extend)
		} else {
			mh.moveInLine(math.MaxInt32, extend)
		}
		return
	}
	off, next = layout.OffsetAt(target, mh.goalCol)
	mh.place(off, next, extend)
}

// moveInLine moves the caret to a column of its current screen line.
func (mh *ModeHandler) moveInLine(col int, extend bool) {
	layout := mh.layout()
	off, next := mh.editor.CaretPoint()
	if off < 0 {
		off, next = 0, false
	}
	row, _ := layout.PositionOf(off, next)
	off, next = layout.OffsetAt(row, col)
	mh.place(off, next, extend)
}

func (mh *ModeHandler) place(offset int, next, extend bool) {
	if extend {
		mh.editor.SetCaretOffset(offset, true)
		return
	}
	mh.editor.PlaceCaret(offset, next)
}

func (mh *ModeHandler) copySelection(cut bool) {
	text := mh.editor.SelectedText()
	if text == "" {
		mh.statusBar.SetTemporaryMessage("Nothing selected")
		return
	}
	if mh.clipboard == nil {
		mh.statusBar.SetTemporaryMessage("No clipboard available")
		return
	}
	if err := mh.clipboard.WriteAll(text); err != nil {
		mh.statusBar.SetTemporaryMessage("Copy failed: %v", err)
		return
	}
	if cut {
		if err := mh.editor.DeleteBackward(); err != nil {
			mh.statusBar.SetTemporaryMessage("Cut failed: %v", err)
		}
		return
	}
	mh.statusBar.SetTemporaryMessage("Copied %d characters", len([]rune(text)))
}

func (mh *ModeHandler) paste() error {
	if mh.clipboard == nil {
		mh.statusBar.SetTemporaryMessage("No clipboard available")
		return nil
	}
	text, err := mh.clipboard.ReadAll()
	if err != nil {
		return err
	}
	if text == "" {
		mh.statusBar.SetTemporaryMessage("Clipboard empty")
		return nil
	}
	return mh.editor.PasteText(text)
}
