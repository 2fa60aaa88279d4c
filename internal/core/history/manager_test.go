package history

import (
	"errors"
	"testing"

	"github.com/bethropolis/inkwell/internal/core/selection"
	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/types"
)

type fixture struct {
	doc   *dom.Document
	sel   *selection.Manager
	clock *ManualScheduler
	hist  *Manager
}

func newFixture(t *testing.T, markup string, opts Options) *fixture {
	t.Helper()
	doc, err := dom.Parse(markup)
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{doc: doc, sel: selection.NewManager(doc), clock: &ManualScheduler{}}
	opts.Scheduler = f.clock
	f.hist = NewManager(doc, f.sel, opts)
	f.hist.Init()
	t.Cleanup(f.hist.Close)
	return f
}

func (f *fixture) html() string { return f.doc.InnerHTML() }

func TestUndoRedoRoundTrip(t *testing.T) {
	f := newFixture(t, "<p>abc</p>", Options{})
	root := f.doc.Root()
	states := []string{f.html()}

	// text edit
	f.doc.SetText(root.FirstChild.FirstChild, "abcd")
	f.hist.SaveState()
	states = append(states, f.html())

	// structural edit through a range split
	tn := root.FirstChild.FirstChild
	r := dom.NewRange(tn, 1, tn, 3)
	if err := f.doc.SurroundContents(r, dom.NewElement("strong")); err != nil {
		t.Fatal(err)
	}
	f.hist.SaveState()
	states = append(states, f.html())

	// attribute edit plus a new block
	f.doc.SetAttr(root.FirstChild, "style", "text-align: center;")
	p := dom.NewElement("p")
	p.AppendChild(dom.NewText("next"))
	if err := f.doc.AppendChild(root, p); err != nil {
		t.Fatal(err)
	}
	f.hist.SaveState()
	states = append(states, f.html())

	if got, want := f.hist.Len(), 4; got != want {
		t.Fatalf("undo depth: got %d, want %d", got, want)
	}

	for i := len(states) - 2; i >= 0; i-- {
		ok, err := f.hist.Undo()
		if !ok || err != nil {
			t.Fatalf("undo to state %d: ok=%v err=%v", i, ok, err)
		}
		if got := f.html(); got != states[i] {
			t.Fatalf("after undo to state %d: got %q, want %q", i, got, states[i])
		}
	}
	for i := 1; i < len(states); i++ {
		ok, err := f.hist.Redo()
		if !ok || err != nil {
			t.Fatalf("redo to state %d: ok=%v err=%v", i, ok, err)
		}
		if got := f.html(); got != states[i] {
			t.Fatalf("after redo to state %d: got %q, want %q", i, got, states[i])
		}
	}
}

func TestUndoFloor(t *testing.T) {
	f := newFixture(t, "<p>x</p>", Options{})
	ok, err := f.hist.Undo()
	if ok || err != nil {
		t.Fatalf("undo on initial state: ok=%v err=%v", ok, err)
	}
	if f.hist.Len() != 1 {
		t.Fatalf("base entry was popped")
	}
	if f.hist.CanUndo() {
		t.Fatalf("CanUndo on initial state")
	}
}

func TestRedoInvalidatedByNewEdit(t *testing.T) {
	f := newFixture(t, "<p>x</p>", Options{})
	text := f.doc.Root().FirstChild.FirstChild

	f.doc.SetText(text, "xy")
	f.hist.SaveState()
	if _, err := f.hist.Undo(); err != nil {
		t.Fatal(err)
	}
	if !f.hist.CanRedo() {
		t.Fatalf("expected redo after undo")
	}

	f.doc.SetText(text, "xz")
	f.hist.SaveState()
	ok, err := f.hist.Redo()
	if ok || err != nil {
		t.Fatalf("redo after new edit: ok=%v err=%v, want no-op", ok, err)
	}
	if got := f.html(); got != "<p>xz</p>" {
		t.Fatalf("document changed by redo: %q", got)
	}
}

func TestDebounceCoalescesBurst(t *testing.T) {
	f := newFixture(t, "<p>a</p>", Options{})
	text := f.doc.Root().FirstChild.FirstChild
	for _, s := range []string{"ab", "abc", "abcd"} {
		f.doc.SetText(text, s)
	}
	if got := f.hist.Pending(); got != 3 {
		t.Fatalf("pending records: got %d, want 3", got)
	}
	if got := f.clock.Pending(); got != 1 {
		t.Fatalf("live timers: got %d, want 1 (timer must be reset, not duplicated)", got)
	}
	if fired := f.clock.Fire(); fired != 1 {
		t.Fatalf("fired: got %d, want 1", fired)
	}
	if got := f.hist.Len(); got != 2 {
		t.Fatalf("burst produced %d entries, want 1", got-1)
	}
	if _, err := f.hist.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := f.html(); got != "<p>a</p>" {
		t.Fatalf("undo of burst: got %q", got)
	}
}

func TestSaveStateCancelsTimer(t *testing.T) {
	f := newFixture(t, "<p>a</p>", Options{})
	f.doc.SetText(f.doc.Root().FirstChild.FirstChild, "b")
	if !f.hist.SaveState() {
		t.Fatalf("SaveState with pending records should push")
	}
	if f.clock.Fire() != 0 {
		t.Fatalf("timer still armed after explicit save")
	}
	if f.hist.SaveState() {
		t.Fatalf("SaveState with nothing pending should not push")
	}
}

func TestReplayIsNotCaptured(t *testing.T) {
	f := newFixture(t, "<p>a</p>", Options{})
	f.doc.SetText(f.doc.Root().FirstChild.FirstChild, "b")
	f.hist.SaveState()
	if _, err := f.hist.Undo(); err != nil {
		t.Fatal(err)
	}
	if f.hist.Pending() != 0 || f.clock.Pending() != 0 {
		t.Fatalf("undo replay was captured as a new edit")
	}
	if f.hist.RedoLen() != 1 {
		t.Fatalf("redo stack: got %d, want 1", f.hist.RedoLen())
	}
}

func TestUndoRestoresSelection(t *testing.T) {
	f := newFixture(t, "<p>hello</p>", Options{})
	text := f.doc.Root().FirstChild.FirstChild
	f.sel.CollapseAt(text, 5)
	f.hist.NoteSelection(f.sel.Capture())

	f.doc.SetText(text, "hello!")
	f.sel.CollapseAt(text, 6)
	f.hist.SaveState()

	if _, err := f.hist.Undo(); err != nil {
		t.Fatal(err)
	}
	if got, want := f.sel.Capture().String(), "/0/0:5-/0/0:5"; got != want {
		t.Fatalf("selection after undo: got %s, want %s", got, want)
	}
	if _, err := f.hist.Redo(); err != nil {
		t.Fatal(err)
	}
	if got, want := f.sel.Capture().String(), "/0/0:6-/0/0:6"; got != want {
		t.Fatalf("selection after redo: got %s, want %s", got, want)
	}
}

func TestCapturedNodesAreFrozen(t *testing.T) {
	f := newFixture(t, "", Options{})
	root := f.doc.Root()

	p := dom.NewElement("p")
	p.AppendChild(dom.NewText("one"))
	if err := f.doc.AppendChild(root, p); err != nil {
		t.Fatal(err)
	}
	f.hist.SaveState()
	f.doc.SetText(p.FirstChild, "two")
	f.hist.SaveState()

	for i := 0; i < 2; i++ {
		if _, err := f.hist.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	if got := f.html(); got != "" {
		t.Fatalf("after undo: got %q", got)
	}
	for i := 0; i < 2; i++ {
		if _, err := f.hist.Redo(); err != nil {
			t.Fatal(err)
		}
	}
	if got, want := f.html(), "<p>two</p>"; got != want {
		t.Fatalf("after redo: got %q, want %q", got, want)
	}
}

func TestHistoryLimitKeepsBase(t *testing.T) {
	f := newFixture(t, "<p>0</p>", Options{MaxHistory: 2})
	text := f.doc.Root().FirstChild.FirstChild
	for _, s := range []string{"1", "2", "3"} {
		f.doc.SetText(text, s)
		f.hist.SaveState()
	}
	if got := f.hist.Len(); got != 3 {
		t.Fatalf("depth: got %d, want 3", got)
	}
	f.hist.Undo()
	f.hist.Undo()
	if ok, _ := f.hist.Undo(); ok {
		t.Fatalf("undo past the limit should be a no-op")
	}
	if got := f.html(); got != "<p>1</p>" {
		t.Fatalf("oldest reachable state: got %q", got)
	}
}

func TestCorruptRecordReportsReplayError(t *testing.T) {
	f := newFixture(t, "<p>a</p>", Options{})
	f.hist.push(&Batch{ID: "broken", Records: []Record{
		&TextChange{Target: types.Path{7, 7}, OldText: "x", NewText: "y"},
	}})
	ok, err := f.hist.Undo()
	if ok || !errors.Is(err, ErrReplay) {
		t.Fatalf("got ok=%v err=%v, want ErrReplay", ok, err)
	}
	if f.hist.Len() != 2 {
		t.Fatalf("stacks must be left untouched on replay failure")
	}
}
