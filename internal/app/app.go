// internal/app/app.go
package app

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bethropolis/inkwell/internal/config"
	"github.com/bethropolis/inkwell/internal/core"
	"github.com/bethropolis/inkwell/internal/event"
	"github.com/bethropolis/inkwell/internal/input"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/bethropolis/inkwell/internal/modehandler"
	"github.com/bethropolis/inkwell/internal/plugin"
	"github.com/bethropolis/inkwell/internal/render"
	"github.com/bethropolis/inkwell/internal/statusbar"
	"github.com/bethropolis/inkwell/internal/theme"
	"github.com/bethropolis/inkwell/internal/tui"
	"github.com/gdamore/tcell/v2"
)

// App encapsulates the core components and main loop of the editor.
type App struct {
	cfg           *config.Config
	tuiManager    *tui.TUI
	editor        *core.Editor
	statusBar     *statusbar.StatusBar
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	modeHandler   *modehandler.ModeHandler
	themeManager  *theme.Manager
	editorAPI     plugin.EditorAPI
	clipboard     modehandler.Clipboard
	watcher       *fileWatcher

	mu        sync.Mutex
	filePath  string
	savedHTML string // content as last loaded or saved
	modified  bool
	viewport  render.Viewport

	// bracketed paste collects keys between the start and end markers
	pasting  bool
	pasteBuf strings.Builder

	// Channels managed by the App
	quit          chan struct{}
	redrawRequest chan struct{}
	closeOnce     sync.Once
}

// NewApp opens filePath (which need not exist) in a new editor. A nil
// screen means the real terminal.
func NewApp(cfg *config.Config, filePath string, screen tcell.Screen) (*App, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	// --- Theme ---
	themeManager := theme.NewManager(theme.DefaultThemesDir())
	if cfg.Editor.Theme != "" {
		if err := themeManager.SetTheme(cfg.Editor.Theme); err != nil {
			logger.Warnf("App: %v, keeping '%s'", err, themeManager.Current().Name)
		}
	}
	baseStyle := themeManager.Current().GetStyle("Default")

	// --- Document ---
	markup, exists, err := readDocument(filePath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(markup) == "" {
		markup = "<p>" + cfg.Editor.Placeholder + "</p>"
	}

	// --- Create Core Components ---
	var tuiManager *tui.TUI
	if screen == nil {
		tuiManager, err = tui.New(baseStyle)
	} else {
		tuiManager, err = tui.NewWithScreen(screen, baseStyle)
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	eventManager := event.NewManager()
	links := &modehandler.LinkPrompter{}
	editor, err := core.Parse(markup,
		core.WithEventManager(eventManager),
		core.WithPrompter(links),
		core.WithDebounce(cfg.Editor.Debounce),
		core.WithHistoryLimit(cfg.Editor.HistoryLimit),
		core.WithPlaceholder(cfg.Editor.Placeholder),
	)
	if err != nil {
		tuiManager.Close()
		return nil, fmt.Errorf("cannot open '%s': %w", filePath, err)
	}

	a := &App{
		cfg:           cfg,
		tuiManager:    tuiManager,
		editor:        editor,
		statusBar:     statusbar.New(config.MessageTimeout),
		eventManager:  eventManager,
		pluginManager: plugin.NewManager(),
		themeManager:  themeManager,
		clipboard:     newClipboard(cfg.Editor.SystemClipboard),
		filePath:      filePath,
		savedHTML:     editor.HTML(),
		quit:          make(chan struct{}),
		redrawRequest: make(chan struct{}, 1),
	}

	// --- Create Mode Handler ---
	a.modeHandler, err = modehandler.New(modehandler.Config{
		Editor:         editor,
		InputProcessor: input.NewInputProcessor(),
		EventManager:   eventManager,
		StatusBar:      a.statusBar,
		Clipboard:      a.clipboard,
		Layout:         a.layout,
		PageSize:       a.viewHeight,
		Save:           func() error { return a.Save("") },
		IsModified:     a.IsModified,
		QuitSignal:     a.quit,
		Links:          links,
	})
	if err != nil {
		editor.Close()
		tuiManager.Close()
		return nil, err
	}
	a.editorAPI = newEditorAPI(a)

	// --- Subscribe Core Components (App level wiring) ---
	a.subscribeEvents()

	// --- Commands and plugins ---
	registerAppCommands(a)
	if err := registerPlugins(a.pluginManager); err != nil {
		logger.Warnf("App: %v", err)
	}
	a.pluginManager.InitializePlugins(a.editorAPI)

	// --- External changes ---
	if a.watcher, err = newFileWatcher(watchDebounce, a.checkExternalChange); err != nil {
		logger.Warnf("App: file watching disabled: %v", err)
	} else if exists {
		if err := a.watcher.Watch(filePath); err != nil {
			logger.Warnf("App: cannot watch '%s': %v", filePath, err)
		}
	}

	// --- Final Setup ---
	a.statusBar.SetFileInfo(filePath, false)
	a.statusBar.SetHistoryInfo(false, false)
	editor.PlaceCaret(0, false)
	if exists {
		a.eventManager.Dispatch(event.TypeDocumentLoaded, event.DocumentLoadedData{FilePath: filePath})
	}
	logger.Infof("App: opened '%s' (exists: %v)", filePath, exists)
	return a, nil
}

// Run starts the application's main event and drawing loops.
func (a *App) Run() error {
	defer a.Close()

	go a.eventLoop()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("Inkwell - Ctrl+S Save | Ctrl+K Command | Esc Quit")
	a.requestRedraw()

	// --- Main Drawing Loop ---
	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			if a.IsModified() {
				logger.Warnf("App: exited with unsaved changes")
			}
			logger.Infof("App: exiting")
			return nil
		case <-a.redrawRequest:
			a.drawEditor()
		}
	}
}

// Close shuts down plugins, the watcher, the editing session and the
// screen. It is safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.pluginManager.ShutdownPlugins()
		if a.watcher != nil {
			if err := a.watcher.Close(); err != nil {
				logger.Warnf("App: closing watcher: %v", err)
			}
		}
		a.editor.Close()
		a.tuiManager.Close()
	})
}

// eventLoop handles TUI events until the screen is closed.
func (a *App) eventLoop() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		if a.handleEvent(ev) {
			a.requestRedraw()
		}
	}
}

// handleEvent processes one terminal event and reports whether the screen
// needs redrawing.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.Sync()
		return true

	case *tcell.EventPaste:
		if ev.Start() {
			a.pasting = true
			a.pasteBuf.Reset()
			return false
		}
		a.pasting = false
		text := a.pasteBuf.String()
		a.pasteBuf.Reset()
		return a.modeHandler.HandlePaste(text)

	case *tcell.EventKey:
		if a.pasting {
			switch ev.Key() {
			case tcell.KeyRune:
				a.pasteBuf.WriteRune(ev.Rune())
			case tcell.KeyEnter, tcell.KeyLF:
				a.pasteBuf.WriteByte('\n')
			case tcell.KeyTab:
				a.pasteBuf.WriteByte('\t')
			}
			return false
		}
		redraw := a.modeHandler.HandleKeyEvent(ev)
		a.statusBar.SetEditorMode(a.modeHandler.GetCurrentMode().String())
		return redraw

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			return false
		}
		x, y := ev.Position()
		if y >= a.viewHeight() {
			return false
		}
		a.mu.Lock()
		row := a.viewport.Top + y
		a.mu.Unlock()
		return a.modeHandler.HandleClick(row, x, ev.Modifiers()&tcell.ModShift != 0)
	}
	return false
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // Don't block if a redraw is already pending
	}
}

// FilePath is where the document is saved, "" for an unnamed document.
func (a *App) FilePath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filePath
}

// IsModified reports whether the document differs from what was last
// loaded or saved.
func (a *App) IsModified() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.modified
}

// Editor exposes the editing session.
func (a *App) Editor() *core.Editor {
	return a.editor
}

// SetTheme changes the active theme and redraws.
func (a *App) SetTheme(nameOrPath string) error {
	if err := a.themeManager.SetTheme(nameOrPath); err != nil {
		return err
	}
	current := a.themeManager.Current()
	a.tuiManager.SetStyle(current.GetStyle("Default"))
	a.eventManager.Dispatch(event.TypeThemeChanged, event.ThemeChangedData{Name: current.Name})
	a.requestRedraw()
	return nil
}
