package modehandler

import (
	"strings"

	"github.com/bethropolis/inkwell/internal/input"
	"github.com/bethropolis/inkwell/internal/logger"
)

var promptPrefix = map[InputMode]string{
	ModeCommand: ":",
	ModeFind:    "/",
	ModeLink:    "URL: ",
}

func (mh *ModeHandler) openPrompt(mode InputMode, initial string) {
	mh.currentMode = mode
	mh.prompt = []rune(initial)
	mh.statusBar.SetEditorMode(mode.String())
	mh.showPrompt()
	logger.Debugf("ModeHandler: Entering %v mode", mode)
}

func (mh *ModeHandler) closePrompt() {
	mh.currentMode = ModeNormal
	mh.prompt = nil
	mh.statusBar.SetEditorMode("")
	mh.statusBar.SetPrompt("")
}

func (mh *ModeHandler) showPrompt() {
	mh.statusBar.SetPrompt(promptPrefix[mh.currentMode] + string(mh.prompt))
}

// handlePrompt edits the open prompt; Enter submits it and Esc cancels.
func (mh *ModeHandler) handlePrompt(actionEvent input.ActionEvent) bool {
	switch actionEvent.Action {
	case input.ActionInsertRune:
		mh.prompt = append(mh.prompt, actionEvent.Rune)
		mh.showPrompt()

	case input.ActionDeleteCharBackward:
		if len(mh.prompt) == 0 {
			mh.cancelPrompt()
			break
		}
		mh.prompt = mh.prompt[:len(mh.prompt)-1]
		mh.showPrompt()

	case input.ActionInsertNewLine:
		mode, text := mh.currentMode, string(mh.prompt)
		mh.closePrompt()
		switch mode {
		case ModeCommand:
			mh.executeCommand(text)
		case ModeFind:
			mh.submitFind(text)
		case ModeLink:
			mh.submitLink(text)
		}

	case input.ActionQuit:
		mh.cancelPrompt()

	default:
		return false
	}
	return true
}

func (mh *ModeHandler) cancelPrompt() {
	logger.Debugf("ModeHandler: Canceled %v mode", mh.currentMode)
	mh.closePrompt()
}

// executeCommand parses and runs a ":" command line.
func (mh *ModeHandler) executeCommand(line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}
	cmdName, args := parts[0], parts[1:]

	cmdFunc, exists := mh.commands[cmdName]
	if !exists {
		mh.statusBar.SetTemporaryMessage("Unknown command: %s", cmdName)
		return
	}
	logger.Debugf("ModeHandler: Executing command ':%s' with args %v", cmdName, args)
	if err := cmdFunc(args); err != nil {
		mh.statusBar.SetTemporaryMessage("Error executing command '%s': %v", cmdName, err)
	}
}
