package app

import (
	"sync"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/bethropolis/inkwell/internal/modehandler"
)

// memoryClipboard keeps copied text inside the editor.
type memoryClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *memoryClipboard) ReadAll() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *memoryClipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

// systemClipboard uses the desktop clipboard and falls back to memory when
// the platform helper fails, for example over ssh without a display.
type systemClipboard struct {
	fallback memoryClipboard
}

func (c *systemClipboard) ReadAll() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		logger.Debugf("Clipboard: system read failed, using local copy: %v", err)
		return c.fallback.ReadAll()
	}
	return text, nil
}

func (c *systemClipboard) WriteAll(text string) error {
	_ = c.fallback.WriteAll(text)
	if err := clipboard.WriteAll(text); err != nil {
		logger.Debugf("Clipboard: system write failed, kept local copy: %v", err)
	}
	return nil
}

func newClipboard(useSystem bool) modehandler.Clipboard {
	if useSystem && !clipboard.Unsupported {
		return &systemClipboard{}
	}
	return &memoryClipboard{}
}
