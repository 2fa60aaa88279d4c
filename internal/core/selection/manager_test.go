package selection

import (
	"testing"

	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/types"
)

func setup(t *testing.T, markup string) (*dom.Document, *Manager) {
	t.Helper()
	doc, err := dom.Parse(markup)
	if err != nil {
		t.Fatal(err)
	}
	return doc, NewManager(doc)
}

func TestCaptureRestoreRoundTrip(t *testing.T) {
	doc, m := setup(t, "<p>hello</p><p>world</p>")
	if m.Capture() != nil {
		t.Fatalf("capture without selection should be nil")
	}

	hello := doc.Root().FirstChild.FirstChild
	world := doc.Root().LastChild.FirstChild
	m.Select(world, 2, hello, 1) // reversed on purpose

	snap := m.Capture()
	if got, want := snap.String(), "/0/0:1-/1/0:2"; got != want {
		t.Fatalf("snapshot: got %s, want %s", got, want)
	}

	m.Clear()
	m.Restore(snap)
	r := m.Range()
	if r == nil || r.StartContainer != hello || r.StartOffset != 1 || r.EndContainer != world || r.EndOffset != 2 {
		t.Fatalf("restore: got %+v", r)
	}
	if got := m.Text(); got != "ellowo" {
		t.Fatalf("selected text: got %q", got)
	}
}

func TestRestoreStaleSnapshotFallsBack(t *testing.T) {
	doc, m := setup(t, "<p>abc</p>")
	m.Restore(&types.Snapshot{StartPath: types.Path{5, 2}, StartOffset: 3, EndPath: types.Path{0, 0}, EndOffset: 99})
	r := m.Range()
	if r.StartContainer != doc.Root() || r.StartOffset != 0 {
		t.Fatalf("stale start should fall back to (root, 0), got %+v", r)
	}
	if r.EndOffset != 3 {
		t.Fatalf("end offset should clamp to 3, got %d", r.EndOffset)
	}

	m.Restore(nil)
	if m.Range() == nil {
		t.Fatalf("restoring nil must not clear the selection")
	}
}

func TestSelectionOutsideRoot(t *testing.T) {
	_, m := setup(t, "<p>abc</p>")
	outside := dom.NewText("toolbar")
	m.CollapseAt(outside, 1)
	if m.Contains() || m.Range() != nil || m.Capture() != nil {
		t.Fatalf("selection outside the root must read as no selection")
	}
}

func TestCollapseAfter(t *testing.T) {
	doc, m := setup(t, "<p>a</p><p>b</p>")
	m.CollapseAfter(doc.Root().FirstChild)
	r := m.Range()
	if r.StartContainer != doc.Root() || r.StartOffset != 1 || !r.Collapsed() {
		t.Fatalf("got %+v", r)
	}
	if m.HasSelection() {
		t.Fatalf("collapsed caret is not a selection")
	}
}
