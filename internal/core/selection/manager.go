package selection

import (
	"github.com/bethropolis/inkwell/internal/core/path"
	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/bethropolis/inkwell/internal/types"
	"golang.org/x/net/html"
)

// Manager owns the live selection of one document.
type Manager struct {
	doc *dom.Document

	// --- State owned by Selection Manager ---
	live *dom.Range // nil means nothing is selected
}

// NewManager creates a selection manager with no selection.
func NewManager(doc *dom.Document) *Manager {
	return &Manager{doc: doc}
}

// Range returns the live selection when it lies inside the root, with its
// offsets clamped, or nil. Callers may adjust the returned range and hand it
// back through Set.
func (m *Manager) Range() *dom.Range {
	if !m.Contains() {
		return nil
	}
	r := m.live
	r.StartOffset = path.Clamp(r.StartContainer, r.StartOffset)
	r.EndOffset = path.Clamp(r.EndContainer, r.EndOffset)
	return r
}

// Contains reports whether a selection exists and both of its boundaries
// are inside the editable root.
func (m *Manager) Contains() bool {
	return m.live != nil &&
		m.doc.Owns(m.live.StartContainer) &&
		m.doc.Owns(m.live.EndContainer)
}

// HasSelection reports whether a non-collapsed selection is active.
func (m *Manager) HasSelection() bool {
	return m.Contains() && !m.live.Collapsed()
}

// Set replaces the live selection.
func (m *Manager) Set(r *dom.Range) {
	if r == nil {
		m.Clear()
		return
	}
	m.live = dom.NewRange(r.StartContainer, r.StartOffset, r.EndContainer, r.EndOffset)
}

// Select sets a selection from two boundary points, in either order.
func (m *Manager) Select(sc *html.Node, so int, ec *html.Node, eo int) {
	m.live = dom.NewRange(sc, so, ec, eo)
}

// CollapseAt places a collapsed caret at (n, offset).
func (m *Manager) CollapseAt(n *html.Node, offset int) {
	m.live = dom.Caret(n, path.Clamp(n, offset))
}

// CollapseAfter places a collapsed caret immediately after n.
func (m *Manager) CollapseAfter(n *html.Node) {
	if n.Parent == nil {
		logger.WarnTagf("selection", "CollapseAfter on a detached node, keeping selection")
		return
	}
	m.live = dom.Caret(n.Parent, dom.Index(n)+1)
}

// CollapseBefore places a collapsed caret immediately before n.
func (m *Manager) CollapseBefore(n *html.Node) {
	if n.Parent == nil {
		return
	}
	m.live = dom.Caret(n.Parent, dom.Index(n))
}

// SelectContents selects everything inside n.
func (m *Manager) SelectContents(n *html.Node) {
	r := &dom.Range{}
	r.SelectNodeContents(n)
	m.live = r
}

// Clear resets the selection state.
func (m *Manager) Clear() {
	if m.live != nil {
		logger.DebugTagf("selection", "Cleared")
	}
	m.live = nil
}

// Capture serializes the live selection as root-relative paths. It returns
// nil when nothing is selected or the selection is outside the root.
func (m *Manager) Capture() *types.Snapshot {
	r := m.Range()
	if r == nil {
		return nil
	}
	root := m.doc.Root()
	start, ok := path.PointOf(root, r.StartContainer, r.StartOffset)
	if !ok {
		return nil
	}
	end, ok := path.PointOf(root, r.EndContainer, r.EndOffset)
	if !ok {
		return nil
	}
	return types.NewSnapshot(start, end)
}

// Restore resolves a snapshot against the current tree and makes it the live
// selection. Stale paths fall back to (root, 0); nil is a no-op.
func (m *Manager) Restore(s *types.Snapshot) {
	if s == nil {
		return
	}
	root := m.doc.Root()
	sc, so := path.ResolvePoint(root, s.Start())
	ec, eo := path.ResolvePoint(root, s.End())
	m.live = dom.NewRange(sc, so, ec, eo)
	logger.DebugTagf("selection", "Restored %s", s)
}

// Text returns the selected text, or "" with no selection.
func (m *Manager) Text() string {
	r := m.Range()
	if r == nil {
		return ""
	}
	return r.Text()
}
