// Package history provides undo/redo by capturing every document mutation as
// a path-addressed record and replaying batches of them.
package history

import (
	"errors"
	"fmt"

	"github.com/bethropolis/inkwell/internal/core/path"
	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/types"
	"golang.org/x/net/html"
)

// ErrReplay is returned when a record no longer matches the tree it is
// applied to.
var ErrReplay = errors.New("history replay failed")

// Record is one captured mutation. Revert undoes it against a tree in the
// state right after the mutation; Replay redoes it against a tree in the
// state right before.
type Record interface {
	Revert(doc *dom.Document) error
	Replay(doc *dom.Document) error

	// Selection is the selection current when the record was captured.
	Selection() *types.Snapshot
	Description() string
}

// TextChange is a change to a text node's data.
type TextChange struct {
	Target  types.Path
	OldText string
	NewText string
	Sel     *types.Snapshot
}

// TreeChange is a set of children removed from and/or added to Target at
// child position Index. Nodes are frozen deep clones.
type TreeChange struct {
	Target  types.Path
	Index   int
	Removed []*html.Node
	Added   []*html.Node
	Sel     *types.Snapshot
}

// AttributeChange is a change to one attribute.
type AttributeChange struct {
	Target   types.Path
	Name     string
	OldValue string
	HadOld   bool
	NewValue string
	HasNew   bool
	Sel      *types.Snapshot
}

func resolve(doc *dom.Document, p types.Path) (*html.Node, error) {
	n, ok := path.Resolve(doc.Root(), p)
	if !ok {
		return nil, fmt.Errorf("%w: no node at %s", ErrReplay, p)
	}
	return n, nil
}

func (c *TextChange) apply(doc *dom.Document, data string) error {
	n, err := resolve(doc, c.Target)
	if err != nil {
		return err
	}
	if !dom.IsText(n) {
		return fmt.Errorf("%w: %s is not a text node", ErrReplay, c.Target)
	}
	doc.SetText(n, data)
	return nil
}

func (c *TextChange) Revert(doc *dom.Document) error { return c.apply(doc, c.OldText) }
func (c *TextChange) Replay(doc *dom.Document) error { return c.apply(doc, c.NewText) }
func (c *TextChange) Selection() *types.Snapshot    { return c.Sel }
func (c *TextChange) Description() string {
	return fmt.Sprintf("text %s %q -> %q", c.Target, c.OldText, c.NewText)
}

// swap removes len(out) children at Index, checking they look like out, then
// inserts fresh clones of in at the same position.
func (c *TreeChange) swap(doc *dom.Document, out, in []*html.Node) error {
	parent, err := resolve(doc, c.Target)
	if err != nil {
		return err
	}
	for _, want := range out {
		got := dom.ChildAt(parent, c.Index)
		if got == nil || got.Type != want.Type || (got.Type == html.ElementNode && got.Data != want.Data) {
			return fmt.Errorf("%w: child %d of %s does not match", ErrReplay, c.Index, c.Target)
		}
		if err := doc.RemoveChild(parent, got); err != nil {
			return fmt.Errorf("%w: %v", ErrReplay, err)
		}
	}
	before := dom.ChildAt(parent, c.Index)
	if before == nil && c.Index > dom.ChildCount(parent) {
		return fmt.Errorf("%w: index %d beyond children of %s", ErrReplay, c.Index, c.Target)
	}
	for _, n := range in {
		if err := doc.InsertBefore(parent, dom.CloneDeep(n), before); err != nil {
			return fmt.Errorf("%w: %v", ErrReplay, err)
		}
	}
	return nil
}

func (c *TreeChange) Revert(doc *dom.Document) error { return c.swap(doc, c.Added, c.Removed) }
func (c *TreeChange) Replay(doc *dom.Document) error { return c.swap(doc, c.Removed, c.Added) }
func (c *TreeChange) Selection() *types.Snapshot    { return c.Sel }
func (c *TreeChange) Description() string {
	return fmt.Sprintf("tree %s@%d -%d +%d", c.Target, c.Index, len(c.Removed), len(c.Added))
}

func (c *AttributeChange) apply(doc *dom.Document, val string, present bool) error {
	n, err := resolve(doc, c.Target)
	if err != nil {
		return err
	}
	if !dom.IsElement(n) {
		return fmt.Errorf("%w: %s is not an element", ErrReplay, c.Target)
	}
	if present {
		doc.SetAttr(n, c.Name, val)
	} else {
		doc.RemoveAttr(n, c.Name)
	}
	return nil
}

func (c *AttributeChange) Revert(doc *dom.Document) error {
	return c.apply(doc, c.OldValue, c.HadOld)
}
func (c *AttributeChange) Replay(doc *dom.Document) error {
	return c.apply(doc, c.NewValue, c.HasNew)
}
func (c *AttributeChange) Selection() *types.Snapshot { return c.Sel }
func (c *AttributeChange) Description() string {
	return fmt.Sprintf("attr %s[%s]", c.Target, c.Name)
}

// Batch is the records of one coalesced burst of mutations.
type Batch struct {
	ID      string
	Label   string
	Records []Record
	Before  *types.Snapshot // selection before the first record
	After   *types.Snapshot // selection when the batch was sealed
}

// revert applies the records in reverse. On failure the records already
// reverted are replayed again so the tree is left as it was.
func (b *Batch) revert(doc *dom.Document) error {
	for i := len(b.Records) - 1; i >= 0; i-- {
		if err := b.Records[i].Revert(doc); err != nil {
			for j := i + 1; j < len(b.Records); j++ {
				_ = b.Records[j].Replay(doc)
			}
			return fmt.Errorf("revert batch %s record %d (%s): %w", b.ID, i, b.Records[i].Description(), err)
		}
	}
	return nil
}

// replay applies the records in order, rolling back on failure.
func (b *Batch) replay(doc *dom.Document) error {
	for i, r := range b.Records {
		if err := r.Replay(doc); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = b.Records[j].Revert(doc)
			}
			return fmt.Errorf("replay batch %s record %d (%s): %w", b.ID, i, r.Description(), err)
		}
	}
	return nil
}
