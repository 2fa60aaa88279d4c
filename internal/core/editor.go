// internal/core/editor.go
package core

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bethropolis/inkwell/internal/core/enter"
	"github.com/bethropolis/inkwell/internal/core/format"
	"github.com/bethropolis/inkwell/internal/core/history"
	"github.com/bethropolis/inkwell/internal/core/paste"
	"github.com/bethropolis/inkwell/internal/core/selection"
	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/event"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// ErrInvalidRoot is returned by New when the editable root is unusable.
var ErrInvalidRoot = errors.New("invalid editable root")

// Option configures an Editor.
type Option func(*Editor)

// WithEventManager makes the editor publish its events on mgr.
func WithEventManager(mgr *event.Manager) Option {
	return func(e *Editor) { e.eventManager = mgr }
}

// WithPrompter sets where link URLs are asked for.
func WithPrompter(p format.Prompter) Option {
	return func(e *Editor) { e.prompter = p }
}

// WithScheduler replaces the debounce timer source (tests use a manual one).
func WithScheduler(s history.Scheduler) Option {
	return func(e *Editor) { e.histOpts.Scheduler = s }
}

// WithDebounce sets the quiet window after which edits become one undo entry.
func WithDebounce(d time.Duration) Option {
	return func(e *Editor) { e.histOpts.Debounce = d }
}

// WithHistoryLimit caps the number of undo entries.
func WithHistoryLimit(n int) Option {
	return func(e *Editor) { e.histOpts.MaxHistory = n }
}

// WithPlaceholder sets the character that keeps empty blocks focusable.
func WithPlaceholder(s string) Option {
	return func(e *Editor) { e.placeholder = s }
}

// Editor is one editing session over an editable root. All methods are safe
// to call from multiple goroutines; they serialize on one lock, which the
// history debounce timer takes as well. Events are dispatched after the lock
// is released, so handlers may call back into the editor.
type Editor struct {
	mu sync.Mutex
	id string

	doc       *dom.Document
	selection *selection.Manager
	history   *history.Manager
	formatter *format.Engine
	enter     *enter.Machine
	paster    *paste.Normalizer

	eventManager *event.Manager
	prompter     format.Prompter
	histOpts     history.Options
	placeholder  string

	anchor   int  // text offset the selection was started from, -1 when none
	dirty    bool // tree changed since events were last collected
	lastSel  string
	lastHist event.HistoryChangedData
	detach   func()
	closed   bool
}

// New starts an editing session on root, which must be an element. The
// current content becomes the initial undo state.
func New(root *html.Node, opts ...Option) (*Editor, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: root is nil", ErrInvalidRoot)
	}
	if root.Type != html.ElementNode {
		return nil, fmt.Errorf("%w: root is not an element", ErrInvalidRoot)
	}
	doc, err := dom.NewDocument(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}

	e := &Editor{
		id:          uuid.NewString(),
		doc:         doc,
		placeholder: dom.Placeholder,
		anchor:      -1,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.selection = selection.NewManager(doc)
	e.histOpts.Guard = e.guard
	e.history = history.NewManager(doc, e.selection, e.histOpts)
	e.formatter = format.NewEngine(doc, e.selection, e.prompter, e.placeholder)
	e.enter = enter.NewMachine(doc, e.selection, e.history, e.placeholder)
	e.paster = paste.NewNormalizer(doc, e.selection, e.history)

	e.detach = doc.Observe(changeWatcher{e})
	e.history.Init()
	e.lastHist = e.historyState()
	logger.Infof("Editor: session %s started", e.id)
	return e, nil
}

// Parse starts a session on a fresh contenteditable root holding markup.
func Parse(markup string, opts ...Option) (*Editor, error) {
	doc, err := dom.Parse(markup)
	if err != nil {
		return nil, err
	}
	return New(doc.Root(), opts...)
}

// ID identifies the session in logs.
func (e *Editor) ID() string { return e.id }

// Close stops the debounce timer and detaches from the tree.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.history.Close()
	if e.detach != nil {
		e.detach()
	}
	logger.Infof("Editor: session %s closed", e.id)
}

// changeWatcher marks the session dirty on any tree mutation.
type changeWatcher struct{ e *Editor }

func (w changeWatcher) OnChildList(dom.ChildListMutation)         { w.e.dirty = true }
func (w changeWatcher) OnAttribute(dom.AttributeMutation)         { w.e.dirty = true }
func (w changeWatcher) OnCharacterData(dom.CharacterDataMutation) { w.e.dirty = true }

// guard runs the debounce callback under the session lock.
func (e *Editor) guard(f func()) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	f()
	events := e.collect()
	e.mu.Unlock()
	e.dispatch(events)
}

// do runs an operation under the lock and publishes what changed. A labelled
// operation is a discrete command: earlier typing is sealed first so the
// command gets an undo entry of its own.
func (e *Editor) do(label string, f func() error) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	if label != "" {
		e.history.SaveState()
		e.history.NoteSelection(e.selection.Capture())
		e.history.Label(label)
	} else {
		e.history.NoteSelection(e.selection.Capture())
	}
	err := f()
	events := e.collect()
	e.mu.Unlock()
	e.dispatch(events)
	return err
}

// collect builds the events for everything that changed since the last
// call. The caller holds the lock.
func (e *Editor) collect() []event.Event {
	var out []event.Event
	if e.dirty {
		e.dirty = false
		out = append(out, event.Event{Type: event.TypeDocumentChanged, Data: e.documentState()})
	}
	snap := e.selection.Capture()
	if key := snap.String() + "|" + e.context(); key != e.lastSel || len(out) > 0 {
		e.lastSel = key
		out = append(out, event.Event{Type: event.TypeSelectionChanged, Data: event.SelectionChangedData{
			Selection: snap,
			Context:   e.context(),
			Active:    e.activeTokens(),
		}})
	}
	if h := e.historyState(); h != e.lastHist {
		e.lastHist = h
		out = append(out, event.Event{Type: event.TypeHistoryChanged, Data: h})
	}
	return out
}

func (e *Editor) dispatch(events []event.Event) {
	if e.eventManager == nil {
		return
	}
	for _, ev := range events {
		e.eventManager.Dispatch(ev.Type, ev.Data)
	}
}

func (e *Editor) historyState() event.HistoryChangedData {
	return event.HistoryChangedData{
		CanUndo: e.history.CanUndo(),
		CanRedo: e.history.CanRedo(),
		Depth:   e.history.Len() - 1,
	}
}

func (e *Editor) documentState() event.DocumentChangedData {
	words := e.wordCount()
	return event.DocumentChangedData{
		NonEmpty:   e.nonEmpty(),
		Words:      words,
		WordsLabel: WordCountLabel(words),
		Characters: e.characters(),
		HTML:       e.doc.InnerHTML(),
	}
}

// View calls f with the tree and the live selection (nil when there is
// none) while holding the session lock. f must not modify either.
func (e *Editor) View(f func(root *html.Node, sel *dom.Range)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f(e.doc.Root(), e.selection.Range())
}

// HTML serializes the document content.
func (e *Editor) HTML() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.InnerHTML()
}

// SetHTML replaces the whole document, puts the caret at its start and
// resets the undo history to the new content.
func (e *Editor) SetHTML(markup string) error {
	e.mu.Lock()
	if err := e.doc.SetInnerHTML(markup); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("set document: %w", err)
	}
	n, off := dom.FirstPoint(e.doc.Root())
	e.selection.CollapseAt(n, off)
	e.anchor = -1
	e.history.Init()
	events := e.collect()
	e.mu.Unlock()
	e.dispatch(events)
	return nil
}
