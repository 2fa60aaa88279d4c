package core

import (
	"errors"
	"testing"

	"github.com/bethropolis/inkwell/internal/core/format"
	"github.com/bethropolis/inkwell/internal/core/history"
	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/event"
	"github.com/gdamore/tcell/v2"
)

func newEditor(t *testing.T, markup string, opts ...Option) (*Editor, *history.ManualScheduler) {
	t.Helper()
	sched := &history.ManualScheduler{}
	ed, err := Parse(markup, append([]Option{WithScheduler(sched)}, opts...)...)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	t.Cleanup(ed.Close)
	return ed, sched
}

func TestNewRejectsInvalidRoot(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrInvalidRoot) {
		t.Fatalf("nil root: got %v, want ErrInvalidRoot", err)
	}
	if _, err := New(dom.NewText("x")); !errors.Is(err, ErrInvalidRoot) {
		t.Fatalf("text root: got %v, want ErrInvalidRoot", err)
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		text  string
		words int
		label string
	}{
		{"  one   two  three ", 3, "3 words"},
		{"", 0, "0 words"},
		{"single", 1, "1 word"},
		{"\u200b \u200b", 0, "0 words"},
		{"tab\tand\nnewline", 3, "3 words"},
	}
	for _, tt := range tests {
		got := CountWords(tt.text)
		if got != tt.words {
			t.Fatalf("CountWords(%q): got %d, want %d", tt.text, got, tt.words)
		}
		if label := WordCountLabel(got); label != tt.label {
			t.Fatalf("WordCountLabel(%d): got %q, want %q", got, label, tt.label)
		}
	}
}

func TestDocumentStats(t *testing.T) {
	ed, _ := newEditor(t, "<p>one</p><p>two e\u0301</p>")
	if got := ed.WordCount(); got != 3 {
		t.Fatalf("words across paragraphs: got %d, want 3", got)
	}
	if got := ed.WordCountLabel(); got != "3 words" {
		t.Fatalf("label: got %q", got)
	}
	if got := ed.Characters(); got != 8 {
		t.Fatalf("characters: got %d, want 8", got)
	}
	if !ed.NonEmpty() {
		t.Fatalf("document with text reported empty")
	}

	empty, _ := newEditor(t, "<p>\u200b</p>")
	if empty.NonEmpty() {
		t.Fatalf("placeholder-only document reported non-empty")
	}
}

func TestUndoRedoRoundTripAcrossOperations(t *testing.T) {
	ed, _ := newEditor(t, "<p>hello world</p>")
	states := []string{ed.HTML()}

	ed.SetCaretOffset(6, false)
	ed.SetCaretOffset(11, true)
	if err := ed.ExecToken("bold"); err != nil {
		t.Fatal(err)
	}
	states = append(states, ed.HTML())

	ed.SetCaretOffset(11, false)
	if err := ed.Enter(); err != nil {
		t.Fatal(err)
	}
	states = append(states, ed.HTML())

	if err := ed.PasteText("more"); err != nil {
		t.Fatal(err)
	}
	states = append(states, ed.HTML())

	want := []string{
		"<p>hello world</p>",
		"<p>hello <strong>world</strong></p>",
		"<p>hello <strong>world</strong></p><p>\u200b</p>",
		"<p>hello <strong>world</strong></p><p>more</p>",
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("state %d: got %q, want %q", i, states[i], want[i])
		}
	}

	for i := len(states) - 2; i >= 0; i-- {
		if ok, err := ed.Undo(); !ok || err != nil {
			t.Fatalf("undo to state %d: ok=%v err=%v", i, ok, err)
		}
		if got := ed.HTML(); got != states[i] {
			t.Fatalf("after undo: got %q, want %q", got, states[i])
		}
	}
	if ok, _ := ed.Undo(); ok {
		t.Fatalf("undo below the initial state should be a no-op")
	}

	for i := 1; i < len(states); i++ {
		if ok, err := ed.Redo(); !ok || err != nil {
			t.Fatalf("redo to state %d: ok=%v err=%v", i, ok, err)
		}
		if got := ed.HTML(); got != states[i] {
			t.Fatalf("after redo: got %q, want %q", got, states[i])
		}
	}
}

func TestRedoClearedByNewEdit(t *testing.T) {
	ed, _ := newEditor(t, "<p>ab</p>")
	ed.SetCaretOffset(0, false)
	ed.SetCaretOffset(2, true)
	if err := ed.ExecToken("italic"); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.Undo(); err != nil {
		t.Fatal(err)
	}
	if !ed.CanRedo() {
		t.Fatalf("redo should be available after undo")
	}
	ed.SetCaretOffset(1, false)
	if err := ed.Enter(); err != nil {
		t.Fatal(err)
	}
	if ed.CanRedo() {
		t.Fatalf("a new edit must clear the redo stack")
	}
	if ok, _ := ed.Redo(); ok {
		t.Fatalf("redo after a new edit should be a no-op")
	}
}

func TestTypingIsDebounced(t *testing.T) {
	ed, sched := newEditor(t, "<p>ab</p>")
	ed.SetCaretOffset(2, false)
	for _, s := range []string{"c", "d"} {
		if err := ed.InsertText(s); err != nil {
			t.Fatal(err)
		}
	}
	if got := ed.HTML(); got != "<p>abcd</p>" {
		t.Fatalf("typed: got %q", got)
	}
	if n := sched.Pending(); n != 1 {
		t.Fatalf("pending timers: got %d, want 1", n)
	}
	sched.Fire()

	if ok, err := ed.Undo(); !ok || err != nil {
		t.Fatalf("undo: ok=%v err=%v", ok, err)
	}
	if got := ed.HTML(); got != "<p>ab</p>" {
		t.Fatalf("one undo should revert the whole burst, got %q", got)
	}
	if ed.CanUndo() {
		t.Fatalf("nothing should be left to undo")
	}
}

func TestTypingReplacesPlaceholder(t *testing.T) {
	ed, _ := newEditor(t, "<p>hello</p>")
	ed.SetCaretOffset(5, false)
	if err := ed.Enter(); err != nil {
		t.Fatal(err)
	}
	if err := ed.InsertText("x"); err != nil {
		t.Fatal(err)
	}
	if got, want := ed.HTML(), "<p>hello</p><p>x</p>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		caret   int
		forward bool
		want    string
	}{
		{"backward in text", "<p>ab</p><p>cd</p>", 2, false, "<p>a</p><p>cd</p>"},
		{"forward joins blocks", "<p>ab</p><p>cd</p>", 2, true, "<p>abcd</p>"},
		{"forward in text", "<p>abc</p>", 1, true, "<p>ac</p>"},
		{"backward at start", "<p>ab</p>", 0, false, "<p>ab</p>"},
		{"last character leaves placeholder", "<p>a</p>", 1, false, "<p>\u200b</p>"},
		{"forward pulls list item up", "<p>ab</p><ul><li>cd</li></ul>", 2, true, "<p>abcd</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed, _ := newEditor(t, tt.markup)
			ed.SetCaretOffset(tt.caret, false)
			var err error
			if tt.forward {
				err = ed.DeleteForward()
			} else {
				err = ed.DeleteBackward()
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := ed.HTML(); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandsWithoutSelectionAreNoops(t *testing.T) {
	ed, _ := newEditor(t, "<p>x</p>")
	for _, tok := range []string{"bold", "h2", "unordered", "justify"} {
		if err := ed.ExecToken(tok); err != nil {
			t.Fatalf("%s: %v", tok, err)
		}
	}
	if err := ed.Enter(); err != nil {
		t.Fatal(err)
	}
	if got := ed.HTML(); got != "<p>x</p>" {
		t.Fatalf("document changed without a selection: %q", got)
	}
	if ed.CanUndo() {
		t.Fatalf("no history expected")
	}
	if err := ed.ExecToken("blink"); !errors.Is(err, format.ErrUnknownCommand) {
		t.Fatalf("unknown token: got %v", err)
	}
}

func TestHandleKey(t *testing.T) {
	ed, _ := newEditor(t, "<p>ab</p>")
	ed.SetCaretOffset(0, false)
	ed.SetCaretOffset(2, true)

	res, err := ed.HandleKey(tcell.NewEventKey(tcell.KeyCtrlB, 0, tcell.ModCtrl))
	if err != nil || !res.Handled || !res.PreventDefault {
		t.Fatalf("Ctrl+B: res=%+v err=%v", res, err)
	}
	if got := ed.HTML(); got != "<p><strong>ab</strong></p>" {
		t.Fatalf("after Ctrl+B: %q", got)
	}

	res, _ = ed.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModAlt))
	if !res.PreventDefault {
		t.Fatalf("Alt+Z should be handled")
	}
	if got := ed.HTML(); got != "<p>ab</p>" {
		t.Fatalf("after undo: %q", got)
	}

	res, _ = ed.HandleKey(tcell.NewEventKey(tcell.KeyCtrlY, 0, tcell.ModCtrl))
	if !res.Handled {
		t.Fatalf("Ctrl+Y should be handled")
	}
	if got := ed.HTML(); got != "<p><strong>ab</strong></p>" {
		t.Fatalf("after redo: %q", got)
	}

	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone),
	} {
		if res, _ := ed.HandleKey(ev); res.Handled {
			t.Fatalf("%s should be left to the host", ev.Name())
		}
	}
}

func TestEventsFollowChanges(t *testing.T) {
	events := event.NewManager()
	var docs []event.DocumentChangedData
	var hist []event.HistoryChangedData
	var sels []event.SelectionChangedData
	events.Subscribe(event.TypeDocumentChanged, func(e event.Event) bool {
		docs = append(docs, e.Data.(event.DocumentChangedData))
		return false
	})
	events.Subscribe(event.TypeHistoryChanged, func(e event.Event) bool {
		hist = append(hist, e.Data.(event.HistoryChangedData))
		return false
	})
	events.Subscribe(event.TypeSelectionChanged, func(e event.Event) bool {
		sels = append(sels, e.Data.(event.SelectionChangedData))
		return false
	})

	ed, _ := newEditor(t, "<ul><li>one</li></ul>", WithEventManager(events))
	ed.SetCaretOffset(3, false)
	if len(sels) != 1 || sels[0].Context != "li" {
		t.Fatalf("selection events: %+v", sels)
	}
	if err := ed.PasteText(" two"); err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Words != 2 || docs[0].WordsLabel != "2 words" || !docs[0].NonEmpty {
		t.Fatalf("document events: %+v", docs)
	}
	if len(hist) != 1 || !hist[0].CanUndo || hist[0].Depth != 1 {
		t.Fatalf("history events: %+v", hist)
	}
}

func TestFind(t *testing.T) {
	ed, _ := newEditor(t, "<p>one two</p><p>one</p>")
	for _, want := range [][2]int{{0, 3}, {7, 10}, {0, 3}} {
		found, err := ed.Find("one", true)
		if err != nil || !found {
			t.Fatalf("Find: found=%v err=%v", found, err)
		}
		start, end, _ := ed.SelectionOffsets()
		if start != want[0] || end != want[1] {
			t.Fatalf("match: got [%d,%d), want [%d,%d)", start, end, want[0], want[1])
		}
		if got := ed.SelectedText(); got != "one" {
			t.Fatalf("selected text: got %q", got)
		}
	}
	if _, err := ed.Find("(", true); err == nil {
		t.Fatalf("invalid pattern should be reported")
	}
}

func TestDeleteSelectionJoinsBlocks(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		from, to int
		edit     func(*Editor) error
		want     string
		caret    int
	}{
		{
			name:   "typing",
			markup: "<p>hello world</p><p>second line</p>",
			from:   3,
			to:     17,
			edit:   func(ed *Editor) error { return ed.InsertText("q") },
			want:   "<p>helq line</p>",
			caret:  4,
		},
		{
			name:   "backspace",
			markup: "<p>hello world</p><p>second line</p>",
			from:   3,
			to:     17,
			edit:   (*Editor).DeleteBackward,
			want:   "<p>hel line</p>",
			caret:  3,
		},
		{
			name:   "delete into a list",
			markup: "<p>ab</p><ul><li>cd</li><li>ef</li></ul>",
			from:   1,
			to:     3,
			edit:   (*Editor).DeleteForward,
			want:   "<p>ad</p><ul><li>ef</li></ul>",
			caret:  1,
		},
		{
			name:   "everything",
			markup: "<p>ab</p><p>cd</p>",
			from:   0,
			to:     4,
			edit:   func(ed *Editor) error { return ed.InsertText("x") },
			want:   "<p>x</p>",
			caret:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed, _ := newEditor(t, tt.markup)
			ed.SetCaretOffset(tt.from, false)
			ed.SetCaretOffset(tt.to, true)
			if err := tt.edit(ed); err != nil {
				t.Fatal(err)
			}
			if got := ed.HTML(); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			if got := ed.CaretOffset(); got != tt.caret {
				t.Fatalf("caret: got %d, want %d", got, tt.caret)
			}
			if ok, err := ed.Undo(); !ok || err != nil {
				t.Fatalf("undo: ok=%v err=%v", ok, err)
			}
			if got := ed.HTML(); got != tt.markup {
				t.Fatalf("after undo: got %q, want %q", got, tt.markup)
			}
		})
	}
}

func TestHeadingToggledOffKeepsParagraph(t *testing.T) {
	ed, _ := newEditor(t, "<p>abc</p>")
	ed.SetCaretOffset(3, false)
	for _, tok := range []string{"h1", "h1"} {
		if err := ed.ExecToken(tok); err != nil {
			t.Fatal(err)
		}
	}
	if got, want := ed.HTML(), "<p>abc</p>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if err := ed.Enter(); err != nil {
		t.Fatal(err)
	}
	if got, want := ed.HTML(), "<p>abc</p><p>\u200b</p>"; got != want {
		t.Fatalf("after enter: got %q, want %q", got, want)
	}
}

func TestSelectedTextAcrossBlocks(t *testing.T) {
	ed, _ := newEditor(t, "<p>ab</p><ul><li>cd</li></ul>")
	ed.SelectAll()
	if got := ed.SelectedText(); got != "ab\ncd" {
		t.Fatalf("got %q", got)
	}
	if got := ed.HTML(); got != "<p>ab</p><ul><li>cd</li></ul>" {
		t.Fatalf("copying must not change the document: %q", got)
	}
}

func TestSetHTMLResetsHistory(t *testing.T) {
	ed, _ := newEditor(t, "<p>a</p>")
	ed.SetCaretOffset(1, false)
	if err := ed.Enter(); err != nil {
		t.Fatal(err)
	}
	if err := ed.SetHTML("<h1>new</h1>"); err != nil {
		t.Fatal(err)
	}
	if ed.CanUndo() {
		t.Fatalf("loading a document must reset the history")
	}
	if got := ed.Context(); got != "h1" {
		t.Fatalf("context after load: got %q", got)
	}
}

func TestCaretCrossesBlockBoundary(t *testing.T) {
	ed, _ := newEditor(t, "<p>ab</p><p>cd</p>")
	ed.PlaceCaret(2, false)
	if off, next := ed.CaretPoint(); off != 2 || next {
		t.Fatalf("end of first block: got (%d, %v)", off, next)
	}
	ed.MoveCaret(1, false)
	if off, next := ed.CaretPoint(); off != 2 || !next {
		t.Fatalf("start of second block: got (%d, %v)", off, next)
	}
	if err := ed.InsertText("x"); err != nil {
		t.Fatal(err)
	}
	if got, want := ed.HTML(), "<p>ab</p><p>xcd</p>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	ed.MoveCaret(-1, false)
	if off, next := ed.CaretPoint(); off != 2 || !next {
		t.Fatalf("back before x: got (%d, %v)", off, next)
	}
	ed.MoveCaret(-1, false)
	if off, next := ed.CaretPoint(); off != 2 || next {
		t.Fatalf("back across the boundary: got (%d, %v)", off, next)
	}
}

func TestCaretAfterLineBreakIsOnNextLine(t *testing.T) {
	ed, _ := newEditor(t, "<h1>title</h1>")
	ed.PlaceCaret(5, false)
	if err := ed.Enter(); err != nil {
		t.Fatal(err)
	}
	if off, next := ed.CaretPoint(); off != 5 || !next {
		t.Fatalf("caret after <br>: got (%d, %v)", off, next)
	}
}
