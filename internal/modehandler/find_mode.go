package modehandler

import (
	"github.com/bethropolis/inkwell/internal/logger"
)

func (mh *ModeHandler) submitFind(term string) {
	if term == "" {
		return
	}
	mh.lastSearchTerm = term
	mh.executeFind(true)
}

// executeFind selects the next (or previous) match of the last search term.
func (mh *ModeHandler) executeFind(forward bool) {
	if mh.lastSearchTerm == "" {
		mh.statusBar.SetTemporaryMessage("No search term")
		return
	}
	found, err := mh.editor.Find(mh.lastSearchTerm, forward)
	switch {
	case err != nil:
		mh.statusBar.SetTemporaryMessage("Invalid pattern: %v", err)
	case found:
		mh.statusBar.SetTemporaryMessage("Found: '%s'", mh.lastSearchTerm)
	default:
		mh.statusBar.SetTemporaryMessage("Pattern not found: %s", mh.lastSearchTerm)
		logger.Debugf("ModeHandler: Pattern not found: '%s'", mh.lastSearchTerm)
	}
}
