// Package plugintest provides an in-memory plugin.EditorAPI for tests.
package plugintest

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/inkwell/internal/event"
	"github.com/bethropolis/inkwell/internal/plugin"
	"github.com/bethropolis/inkwell/internal/theme"
	"github.com/gdamore/tcell/v2"
)

// API records what plugins do with it. Fields may be set before use.
type API struct {
	mu sync.Mutex

	Events   *event.Manager
	Text     string
	HTML     string
	Path     string
	Modified bool
	Config   map[string]interface{} // "plugin.key" -> value
	SaveErr  error

	Commands   map[string]plugin.CommandFunc
	Messages   []string
	WordsLabel string
	Saves      []string
	Execs      []string
	Undos      int
	Redos      int
	Quit       bool
	ForceQuit  bool
	Theme      *theme.Theme
	Themes     map[string]*theme.Theme
}

// New returns an API over an empty, unmodified document.
func New() *API {
	return &API{
		Events:   event.NewManager(),
		Config:   map[string]interface{}{},
		Commands: map[string]plugin.CommandFunc{},
		Theme:    &theme.InkwellDark,
		Themes: map[string]*theme.Theme{
			"inkwell dark":  &theme.InkwellDark,
			"inkwell light": &theme.InkwellLight,
		},
	}
}

var _ plugin.EditorAPI = (*API)(nil)

func (a *API) DocumentText() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Text
}

func (a *API) DocumentHTML() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.HTML
}

func (a *API) FilePath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Path
}

func (a *API) IsModified() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Modified
}

// SetModified flips the modified flag from a test goroutine.
func (a *API) SetModified(m bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Modified = m
}

func (a *API) Save(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.SaveErr != nil {
		return a.SaveErr
	}
	if path == "" {
		path = a.Path
	}
	if path == "" {
		return fmt.Errorf("no file name")
	}
	a.Path = path
	a.Modified = false
	a.Saves = append(a.Saves, path)
	return nil
}

// SaveCount returns how many saves succeeded.
func (a *API) SaveCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Saves)
}

func (a *API) Exec(token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Execs = append(a.Execs, token)
	return nil
}

func (a *API) Undo() (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Undos++
	return true, nil
}

func (a *API) Redo() (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Redos++
	return true, nil
}

func (a *API) Find(term string, forward bool) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return strings.Contains(a.Text, term), nil
}

func (a *API) DispatchEvent(t event.Type, data interface{}) {
	a.Events.Dispatch(t, data)
}

func (a *API) SubscribeEvent(t event.Type, h event.Handler) func() {
	return a.Events.Subscribe(t, h)
}

func (a *API) RegisterCommand(name string, fn plugin.CommandFunc) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.Commands[name]; ok {
		return fmt.Errorf("command '%s' already registered", name)
	}
	a.Commands[name] = fn
	return nil
}

// Run invokes a registered command.
func (a *API) Run(name string, args ...string) error {
	a.mu.Lock()
	fn, ok := a.Commands[name]
	a.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}
	return fn(args)
}

func (a *API) SetStatusMessage(format string, args ...interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Messages = append(a.Messages, fmt.Sprintf(format, args...))
}

// LastMessage returns the latest status message, or "".
func (a *API) LastMessage() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.Messages) == 0 {
		return ""
	}
	return a.Messages[len(a.Messages)-1]
}

func (a *API) SetWordsLabel(label string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.WordsLabel = label
}

func (a *API) GetThemeStyle(name string) tcell.Style {
	return a.GetTheme().GetStyle(name)
}

func (a *API) SetTheme(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.Themes[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("theme '%s' not found", name)
	}
	a.Theme = t
	return nil
}

func (a *API) GetTheme() *theme.Theme {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Theme
}

func (a *API) ListThemes() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]string, 0, len(a.Themes))
	for _, t := range a.Themes {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

func (a *API) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.Config[pluginName+"."+key]
	return v, ok
}

func (a *API) RequestQuit(force bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Quit = true
	a.ForceQuit = force
}
