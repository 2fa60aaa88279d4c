package history

import (
	"github.com/bethropolis/inkwell/internal/core/path"
	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/bethropolis/inkwell/internal/types"
	"golang.org/x/net/html"
)

// recorder turns document notifications into records for its manager.
type recorder struct {
	m *Manager
}

var _ dom.Observer = (*recorder)(nil)

// target addresses n, or reports false while replaying.
func (r *recorder) target(n *html.Node) (types.Path, bool) {
	if r.m.replaying {
		return nil, false
	}
	tp, ok := path.Of(r.m.doc.Root(), n)
	if !ok {
		logger.WarnTagf("history", "Mutation outside the root ignored")
	}
	return tp, ok
}

func (r *recorder) OnChildList(mu dom.ChildListMutation) {
	tp, ok := r.target(mu.Target)
	if !ok {
		return
	}
	r.m.add(&TreeChange{
		Target:  tp,
		Index:   mu.Index,
		Removed: freeze(mu.Removed),
		Added:   freeze(mu.Added),
		Sel:     r.m.sel.Capture(),
	})
}

func (r *recorder) OnAttribute(mu dom.AttributeMutation) {
	tp, ok := r.target(mu.Target)
	if !ok {
		return
	}
	val, has := dom.Attr(mu.Target, mu.Name)
	r.m.add(&AttributeChange{
		Target:   tp,
		Name:     mu.Name,
		OldValue: mu.OldValue,
		HadOld:   mu.HadOld,
		NewValue: val,
		HasNew:   has,
		Sel:      r.m.sel.Capture(),
	})
}

func (r *recorder) OnCharacterData(mu dom.CharacterDataMutation) {
	tp, ok := r.target(mu.Target)
	if !ok {
		return
	}
	r.m.add(&TextChange{
		Target:  tp,
		OldText: mu.OldValue,
		NewText: mu.Target.Data,
		Sel:     r.m.sel.Capture(),
	})
}

// freeze deep-copies nodes so later edits cannot reach captured history.
func freeze(nodes []*html.Node) []*html.Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*html.Node, len(nodes))
	for i, n := range nodes {
		out[i] = dom.CloneDeep(n)
	}
	return out
}
