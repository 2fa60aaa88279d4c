package modehandler

import (
	"strings"
	"sync"
)

// LinkPrompter answers the editor's link URL prompt. The editor asks
// synchronously while applying the link command, so the URL is collected
// first in a status bar prompt and handed over on a second run.
type LinkPrompter struct {
	mu      sync.Mutex
	answer  string
	ready   bool
	initial string
	asked   bool
}

// PromptURL implements format.Prompter.
func (p *LinkPrompter) PromptURL(initial string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initial, p.asked = initial, true
	if !p.ready {
		return "", false
	}
	p.ready = false
	return p.answer, true
}

func (p *LinkPrompter) probe() (initial string, asked bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	initial, asked = p.initial, p.asked
	p.initial, p.asked = "", false
	return initial, asked
}

func (p *LinkPrompter) set(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.answer, p.ready = url, true
}

func (p *LinkPrompter) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.answer, p.ready = "", false
}

// startLink runs the link command without an answer to learn whether the
// editor wants a URL and the current target, then opens the URL prompt.
func (mh *ModeHandler) startLink() {
	mh.links.reset()
	if err := mh.editor.ExecToken("link"); err != nil {
		mh.statusBar.SetTemporaryMessage("Error: %v", err)
		return
	}
	initial, asked := mh.links.probe()
	if !asked {
		mh.statusBar.SetTemporaryMessage("Place the caret in the document first")
		return
	}
	mh.openPrompt(ModeLink, initial)
}

func (mh *ModeHandler) submitLink(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	mh.links.set(url)
	defer mh.links.reset()
	if err := mh.editor.ExecToken("link"); err != nil {
		mh.statusBar.SetTemporaryMessage("Error: %v", err)
	}
}
