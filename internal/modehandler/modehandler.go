// internal/modehandler/modehandler.go
package modehandler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bethropolis/inkwell/internal/core"
	"github.com/bethropolis/inkwell/internal/event"
	"github.com/bethropolis/inkwell/internal/input"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/bethropolis/inkwell/internal/plugin"
	"github.com/bethropolis/inkwell/internal/render"
	"github.com/bethropolis/inkwell/internal/statusbar"
	"github.com/gdamore/tcell/v2"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal  InputMode = iota
	ModeCommand           // ":" prompt
	ModeFind              // "/" prompt
	ModeLink              // link URL prompt
)

func (m InputMode) String() string {
	switch m {
	case ModeCommand:
		return "COMMAND"
	case ModeFind:
		return "FIND"
	case ModeLink:
		return "LINK"
	}
	return ""
}

// Clipboard is where copy, cut and paste go.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// ModeHandler turns key events into editor operations for the current
// input mode, and runs ":" commands.
type ModeHandler struct {
	editor         *core.Editor
	inputProcessor *input.InputProcessor
	eventManager   *event.Manager
	statusBar      *statusbar.StatusBar
	clipboard      Clipboard
	layout         func() *render.Layout
	pageSize       func() int
	save           func() error
	isModified     func() bool
	quitSignal     chan<- struct{}
	links          *LinkPrompter

	currentMode      InputMode
	prompt           []rune // text typed into the open prompt
	commands         map[string]plugin.CommandFunc
	forceQuitPending bool
	quitting         bool
	goalCol          int // column kept across vertical moves, -1 when unset

	lastSearchTerm string
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	Editor         *core.Editor
	InputProcessor *input.InputProcessor
	EventManager   *event.Manager
	StatusBar      *statusbar.StatusBar
	Clipboard      Clipboard
	Layout         func() *render.Layout // current layout, for vertical movement
	PageSize       func() int
	Save           func() error
	IsModified     func() bool
	QuitSignal     chan<- struct{} // closed to signal quit
	Links          *LinkPrompter   // the prompter the editor was created with
}

// New creates a new ModeHandler.
func New(cfg Config) (*ModeHandler, error) {
	if cfg.Editor == nil || cfg.InputProcessor == nil || cfg.EventManager == nil ||
		cfg.StatusBar == nil || cfg.QuitSignal == nil || cfg.Layout == nil {
		return nil, fmt.Errorf("modehandler: missing required dependencies in Config")
	}
	mh := &ModeHandler{
		editor:         cfg.Editor,
		inputProcessor: cfg.InputProcessor,
		eventManager:   cfg.EventManager,
		statusBar:      cfg.StatusBar,
		clipboard:      cfg.Clipboard,
		layout:         cfg.Layout,
		pageSize:       cfg.PageSize,
		save:           cfg.Save,
		isModified:     cfg.IsModified,
		quitSignal:     cfg.QuitSignal,
		links:          cfg.Links,
		commands:       make(map[string]plugin.CommandFunc),
		goalCol:        -1,
	}
	if mh.pageSize == nil {
		mh.pageSize = func() int { return 10 }
	}
	if mh.isModified == nil {
		mh.isModified = func() bool { return false }
	}
	if mh.links == nil {
		mh.links = &LinkPrompter{}
	}
	return mh, nil
}

// HandleKeyEvent decides what to do based on current mode and key event.
// Returns true if the event resulted in an action requiring redraw.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	mh.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev})

	if mh.currentMode == ModeNormal {
		res, err := mh.editor.HandleKey(ev)
		if res.Handled {
			if err != nil {
				mh.statusBar.SetTemporaryMessage("%s failed: %v", ev.Name(), err)
			}
			mh.goalCol = -1
			mh.forceQuitPending = false
			return true
		}
	}

	actionEvent := mh.inputProcessor.ProcessEvent(ev)
	switch mh.currentMode {
	case ModeNormal:
		return mh.executeAction(actionEvent, ev)
	case ModeCommand, ModeFind, ModeLink:
		return mh.handlePrompt(actionEvent)
	default:
		logger.Debugf("Warning: Unknown input mode: %v", mh.currentMode)
		return false
	}
}

// HandlePaste inserts text from a bracketed terminal paste.
func (mh *ModeHandler) HandlePaste(text string) bool {
	if text == "" {
		return false
	}
	if mh.currentMode != ModeNormal {
		// Paste into the prompt, one line only.
		line, _, _ := strings.Cut(text, "\n")
		mh.prompt = append(mh.prompt, []rune(line)...)
		mh.showPrompt()
		return true
	}
	if err := mh.editor.PasteText(text); err != nil {
		mh.statusBar.SetTemporaryMessage("Paste failed: %v", err)
	}
	return true
}

// HandleClick moves the caret to a layout cell, extending the selection
// when extend is set. Clicks are ignored while a prompt is open.
func (mh *ModeHandler) HandleClick(row, col int, extend bool) bool {
	if mh.currentMode != ModeNormal {
		return false
	}
	off, next := mh.layout().OffsetAt(row, col)
	mh.goalCol = -1
	mh.forceQuitPending = false
	mh.place(off, next, extend)
	return true
}

// RegisterCommand adds a command to the registry. Called via EditorAPI.
func (mh *ModeHandler) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if _, exists := mh.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	mh.commands[name] = cmdFunc
	logger.Debugf("ModeHandler: Registered command ':%s'", name)
	return nil
}

// Commands lists the registered command names, sorted.
func (mh *ModeHandler) Commands() []string {
	names := make([]string, 0, len(mh.commands))
	for name := range mh.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetCurrentMode returns the current input mode.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	return mh.currentMode
}

// RequestQuit asks to quit, checking for unsaved changes unless force is set.
func (mh *ModeHandler) RequestQuit(force bool) {
	if !force && mh.isModified() && !mh.forceQuitPending {
		mh.statusBar.SetTemporaryMessage("Unsaved changes! Press ESC again or Ctrl+Q to force quit.")
		mh.forceQuitPending = true
		return
	}
	if !mh.quitting {
		mh.quitting = true
		close(mh.quitSignal)
	}
}
