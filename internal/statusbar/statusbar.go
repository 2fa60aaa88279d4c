// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bethropolis/inkwell/internal/theme"
	"github.com/bethropolis/inkwell/internal/tui"
)

// StatusBar is the bottom line: file, block context, counts and history
// on the left, active formats on the right. A temporary message or an
// open prompt replaces the whole line.
type StatusBar struct {
	mu      sync.RWMutex
	timeout time.Duration
	now     func() time.Time

	filePath   string
	isModified bool
	context    string
	wordsLabel string
	canUndo    bool
	canRedo    bool
	formats    []string
	mode       string

	tempMessage     string
	tempMessageTime time.Time
	prompt          string
}

// New creates a StatusBar whose temporary messages last timeout.
func New(timeout time.Duration) *StatusBar {
	return &StatusBar{timeout: timeout, now: time.Now}
}

// SetFileInfo updates the file path and modified flag.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

// SetModified updates just the modified flag.
func (sb *StatusBar) SetModified(modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.isModified = modified
}

// SetSelectionInfo updates the block context and the active formats.
func (sb *StatusBar) SetSelectionInfo(context string, formats []string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.context = context
	sb.formats = formats
}

// SetWordsLabel sets the word count text, such as "3 words".
func (sb *StatusBar) SetWordsLabel(label string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.wordsLabel = label
}

// SetHistoryInfo updates the undo and redo indicators.
func (sb *StatusBar) SetHistoryInfo(canUndo, canRedo bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.canUndo = canUndo
	sb.canRedo = canRedo
}

// SetEditorMode updates the displayed input mode.
func (sb *StatusBar) SetEditorMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.mode = mode
}

// SetTemporaryMessage displays a message until the timeout passes.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
}

// ResetTemporaryMessage clears any temporary message being displayed.
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// SetPrompt shows an input prompt such as ":theme dark"; "" closes it.
func (sb *StatusBar) SetPrompt(text string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.prompt = text
}

// Prompt returns the prompt being shown, if any.
func (sb *StatusBar) Prompt() string {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.prompt
}

// Message returns the temporary message if it has not expired.
func (sb *StatusBar) Message() string {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	if sb.tempMessageTime.IsZero() || sb.now().Sub(sb.tempMessageTime) > sb.timeout {
		return ""
	}
	return sb.tempMessage
}

// Text returns the left and right parts of the default status line.
func (sb *StatusBar) Text() (left, right string) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	name := "[No Name]"
	if sb.filePath != "" {
		name = filepath.Base(sb.filePath)
	}
	parts := []string{name}
	if sb.isModified {
		parts[0] += " [+]"
	}
	if sb.mode != "" {
		parts = append(parts, sb.mode)
	}
	if sb.context != "" {
		parts = append(parts, "<"+sb.context+">")
	}
	if sb.wordsLabel != "" {
		parts = append(parts, sb.wordsLabel)
	}
	var hist string
	if sb.canUndo {
		hist += "u"
	}
	if sb.canRedo {
		hist += "r"
	}
	if hist != "" {
		parts = append(parts, "["+hist+"]")
	}
	return " " + strings.Join(parts, " | "), strings.Join(sb.formats, " ") + " "
}

// Draw renders the status bar on the screen's last row.
func (sb *StatusBar) Draw(t *tui.TUI, th *theme.Theme) {
	width, height := t.Size()
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	if prompt := sb.Prompt(); prompt != "" {
		style := th.GetStyle("StatusBarPrompt")
		t.FillLine(0, y, style)
		end := t.DrawText(0, y, width, prompt, style)
		t.ShowCursor(end, y, width, height)
		return
	}
	if msg := sb.Message(); msg != "" {
		style := th.GetStyle("StatusBarMessage")
		t.FillLine(0, y, style)
		t.DrawText(0, y, width, " "+msg, style)
		return
	}

	style := th.GetStyle("StatusBar")
	if sb.modified() {
		style = th.GetStyle("StatusBarModified")
	}
	t.FillLine(0, y, style)
	left, right := sb.Text()
	end := t.DrawText(0, y, width, left, style)
	if w := tui.TextWidth(right); width-w > end {
		t.DrawText(width-w, y, width, right, th.GetStyle("StatusBarActive"))
	}
}

func (sb *StatusBar) modified() bool {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.isModified
}
