package history

import (
	"time"

	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/bethropolis/inkwell/internal/types"
	"github.com/google/uuid"
)

const (
	DefaultMaxHistory = 100
	DefaultDebounce   = 100 * time.Millisecond
)

// SelectionSource is what the history manager needs from the selection.
type SelectionSource interface {
	Capture() *types.Snapshot
	Restore(*types.Snapshot)
}

// Options configure a Manager. Zero values pick the defaults.
type Options struct {
	Debounce   time.Duration
	MaxHistory int
	Scheduler  Scheduler
	// Guard wraps the debounce callback, which runs on a timer goroutine.
	// The editor passes a function that takes its session lock.
	Guard func(func())
}

// Manager handles the undo/redo stacks. It is not safe for concurrent use;
// the owner serializes calls and the debounce callback through Guard.
type Manager struct {
	doc  *dom.Document
	sel  SelectionSource
	opts Options

	undone []*Batch // undone[0] is the initial state and is never popped
	redone []*Batch

	pending       []Record
	pendingBefore *types.Snapshot
	pendingLabel  string
	idle          *types.Snapshot

	timer     Timer
	timerGen  uint64
	replaying bool
	detach    func()
}

// NewManager creates a history manager for doc. Call Init to start capturing.
func NewManager(doc *dom.Document, sel SelectionSource, opts Options) *Manager {
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = DefaultMaxHistory
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Scheduler == nil {
		opts.Scheduler = SystemScheduler{}
	}
	if opts.Guard == nil {
		opts.Guard = func(f func()) { f() }
	}
	return &Manager{doc: doc, sel: sel, opts: opts}
}

// Init captures the current state as the bottom of the undo stack and
// starts observing the document. Calling it again resets the history.
func (m *Manager) Init() {
	m.Clear()
	if m.detach == nil {
		m.detach = m.doc.Observe(&recorder{m: m})
	}
	logger.DebugTagf("history", "Initialized with base batch %s", m.undone[0].ID)
}

// Close stops the debounce timer and detaches from the document. Pending
// records are discarded.
func (m *Manager) Close() {
	m.stopTimer()
	m.pending = nil
	if m.detach != nil {
		m.detach()
		m.detach = nil
	}
}

// Clear resets the history to a single initial state: the current document.
func (m *Manager) Clear() {
	m.stopTimer()
	m.pending = nil
	m.pendingBefore = nil
	m.pendingLabel = ""
	snap := m.sel.Capture()
	m.undone = []*Batch{{ID: uuid.NewString(), Label: "initial", Before: snap, After: snap.Clone()}}
	m.redone = nil
	m.idle = snap.Clone()
	logger.DebugTagf("history", "Cleared")
}

// NoteSelection records where the selection rests between operations; it
// becomes the Before selection of the next batch.
func (m *Manager) NoteSelection(s *types.Snapshot) {
	if len(m.pending) == 0 {
		m.idle = s.Clone()
	}
}

// Label names the batch currently being collected.
func (m *Manager) Label(label string) {
	m.pendingLabel = label
}

// add appends a captured record and (re)arms the debounce timer.
func (m *Manager) add(r Record) {
	if len(m.pending) == 0 {
		m.pendingBefore = m.idle.Clone()
	}
	m.pending = append(m.pending, r)
	m.armTimer()
}

func (m *Manager) armTimer() {
	m.stopTimer()
	m.timerGen++
	gen := m.timerGen
	m.timer = m.opts.Scheduler.AfterFunc(m.opts.Debounce, func() {
		m.opts.Guard(func() {
			if gen != m.timerGen {
				return // superseded by a later record or an explicit seal
			}
			m.timer = nil
			if m.seal() {
				logger.DebugTagf("history", "Debounced batch sealed")
			}
		})
	})
}

func (m *Manager) stopTimer() {
	m.timerGen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// seal turns pending records into a batch on the undo stack. It reports
// whether a batch was pushed.
func (m *Manager) seal() bool {
	m.stopTimer()
	if len(m.pending) == 0 {
		return false
	}
	b := &Batch{
		ID:      uuid.NewString(),
		Label:   m.pendingLabel,
		Records: m.pending,
		Before:  m.pendingBefore,
		After:   m.sel.Capture(),
	}
	if b.Label == "" {
		b.Label = "edit"
	}
	m.pending = nil
	m.pendingBefore = nil
	m.pendingLabel = ""
	m.idle = b.After.Clone()
	m.push(b)
	return true
}

// push adds b, clears the redo stack and enforces the history limit.
func (m *Manager) push(b *Batch) {
	m.undone = append(m.undone, b)
	if len(m.redone) > 0 {
		logger.DebugTagf("history", "Redo history invalidated (%d batches)", len(m.redone))
	}
	m.redone = nil
	if extra := len(m.undone) - 1 - m.opts.MaxHistory; extra > 0 {
		// keep the base entry, drop the oldest edits above it
		m.undone = append(m.undone[:1], m.undone[1+extra:]...)
	}
	logger.DebugTagf("history", "Pushed batch %s %q with %d record(s). Depth: %d",
		b.ID, b.Label, len(b.Records), len(m.undone)-1)
}

// SaveState seals any pending records into a history entry right away. It
// reports whether an entry was pushed.
func (m *Manager) SaveState() bool {
	return m.seal()
}

// Undo reverts the latest batch and restores the selection that preceded
// it. It is a no-op when only the initial state remains.
func (m *Manager) Undo() (bool, error) {
	m.seal()
	if len(m.undone) <= 1 {
		logger.DebugTagf("history", "Nothing to undo")
		return false, nil
	}
	b := m.undone[len(m.undone)-1]

	if err := m.apply(b.revert); err != nil {
		logger.Errorf("History: undo of %s failed: %v", b.ID, err)
		return false, err
	}
	m.undone = m.undone[:len(m.undone)-1]
	m.redone = append(m.redone, b)

	restore := b.Before
	if restore == nil {
		restore = m.undone[len(m.undone)-1].After
	}
	m.sel.Restore(restore)
	m.idle = restore.Clone()
	logger.DebugTagf("history", "Undid batch %s %q", b.ID, b.Label)
	return true, nil
}

// Redo replays the most recently undone batch and restores the selection
// that followed it. It is a no-op when the redo stack is empty.
func (m *Manager) Redo() (bool, error) {
	m.seal()
	if len(m.redone) == 0 {
		logger.DebugTagf("history", "Nothing to redo")
		return false, nil
	}
	b := m.redone[len(m.redone)-1]

	if err := m.apply(b.replay); err != nil {
		logger.Errorf("History: redo of %s failed: %v", b.ID, err)
		return false, err
	}
	m.redone = m.redone[:len(m.redone)-1]
	m.undone = append(m.undone, b)

	m.sel.Restore(b.After)
	m.idle = b.After.Clone()
	logger.DebugTagf("history", "Redid batch %s %q", b.ID, b.Label)
	return true, nil
}

// apply runs a replay with capture suppressed.
func (m *Manager) apply(f func(*dom.Document) error) error {
	m.replaying = true
	defer func() { m.replaying = false }()
	return f(m.doc)
}

// CanUndo returns true if there are changes that can be undone, including
// records not yet sealed.
func (m *Manager) CanUndo() bool {
	return len(m.undone) > 1 || len(m.pending) > 0
}

// CanRedo returns true if there are changes that can be redone.
func (m *Manager) CanRedo() bool {
	return len(m.redone) > 0 && len(m.pending) == 0
}

// Len returns the number of entries on the undo stack, base state included.
func (m *Manager) Len() int {
	return len(m.undone)
}

// RedoLen returns the number of entries on the redo stack.
func (m *Manager) RedoLen() int {
	return len(m.redone)
}

// Pending reports how many records wait for the debounce timer.
func (m *Manager) Pending() int {
	return len(m.pending)
}

// Top returns the most recent batch (the initial one when nothing was
// recorded yet).
func (m *Manager) Top() *Batch {
	if len(m.undone) == 0 {
		return nil
	}
	return m.undone[len(m.undone)-1]
}
