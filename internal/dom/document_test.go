package dom

import (
	"testing"
)

type recordingObserver struct {
	childList []ChildListMutation
	attrs     []AttributeMutation
	texts     []CharacterDataMutation
}

func (o *recordingObserver) OnChildList(m ChildListMutation)         { o.childList = append(o.childList, m) }
func (o *recordingObserver) OnAttribute(m AttributeMutation)         { o.attrs = append(o.attrs, m) }
func (o *recordingObserver) OnCharacterData(m CharacterDataMutation) { o.texts = append(o.texts, m) }

func TestObserverSeesAttachedMutations(t *testing.T) {
	doc := mustParse(t, "<p>abc</p>")
	obs := &recordingObserver{}
	stop := doc.Observe(obs)

	p := doc.Root().FirstChild
	doc.SetText(p.FirstChild, "abcd")
	doc.SetAttr(p, "style", "text-align: center;")
	em := NewElement("em")
	if err := doc.AppendChild(em, NewText("detached")); err != nil {
		t.Fatalf("append to detached: %v", err)
	}
	if err := doc.AppendChild(p, em); err != nil {
		t.Fatalf("append: %v", err)
	}

	if got := len(obs.texts); got != 1 || obs.texts[0].OldValue != "abc" {
		t.Fatalf("character data records: got %+v", obs.texts)
	}
	if got := len(obs.attrs); got != 1 || obs.attrs[0].HadOld {
		t.Fatalf("attribute records: got %+v", obs.attrs)
	}
	if got := len(obs.childList); got != 1 {
		t.Fatalf("child list records: got %d, want 1 (detached edits are silent)", got)
	}
	if m := obs.childList[0]; m.Target != p || m.Index != 1 || len(m.Added) != 1 {
		t.Fatalf("child list record: got %+v", m)
	}

	stop()
	doc.SetText(p.FirstChild, "x")
	if len(obs.texts) != 1 {
		t.Fatalf("observer still notified after stop")
	}
}

func TestRemoveChildReportsIndex(t *testing.T) {
	doc := mustParse(t, "<p>a</p><p>b</p><p>c</p>")
	obs := &recordingObserver{}
	doc.Observe(obs)
	mid := ChildAt(doc.Root(), 1)
	if err := doc.Remove(mid); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if m := obs.childList[0]; m.Index != 1 || len(m.Removed) != 1 || m.Removed[0] != mid {
		t.Fatalf("got %+v", m)
	}
	if err := doc.RemoveChild(doc.Root(), mid); err != ErrNotChild {
		t.Fatalf("second removal: got %v, want ErrNotChild", err)
	}
}

func TestUnwrapAndRetag(t *testing.T) {
	doc := mustParse(t, "<p>a<strong>b<em>c</em></strong>d</p>")
	strong := ClosestTag(findText(t, doc.Root(), "b"), doc.Root(), "strong")
	if _, err := doc.Unwrap(strong); err != nil {
		t.Fatalf("unwrap: %v", err)
	}
	if got, want := doc.InnerHTML(), "<p>ab<em>c</em>d</p>"; got != want {
		t.Fatalf("unwrap: got %q, want %q", got, want)
	}

	h2, err := doc.Retag(doc.Root().FirstChild, "h2")
	if err != nil {
		t.Fatalf("retag: %v", err)
	}
	if h2.Parent != doc.Root() {
		t.Fatalf("retagged element is not attached")
	}
	if got, want := doc.InnerHTML(), "<h2>ab<em>c</em>d</h2>"; got != want {
		t.Fatalf("retag: got %q, want %q", got, want)
	}
}

func TestSetInnerHTMLAndBlank(t *testing.T) {
	doc := mustParse(t, "")
	if err := doc.SetInnerHTML("<ul><li>x</li></ul>"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := doc.InnerHTML(); got != "<ul><li>x</li></ul>" {
		t.Fatalf("got %q", got)
	}

	blanks := []string{"", " ", Placeholder, "\u00a0\u200c", "\ufeff \n"}
	for _, s := range blanks {
		if !IsBlank(s) {
			t.Fatalf("IsBlank(%q) = false, want true", s)
		}
	}
	if IsBlank("a" + Placeholder) {
		t.Fatalf("text with content reported blank")
	}
}

func TestBlockText(t *testing.T) {
	tests := []struct {
		markup string
		want   string
	}{
		{"<p>one</p><p>two</p>", "one\ntwo"},
		{"lead<ul><li>a</li><li>b</li></ul>tail", "lead\na\nb\ntail"},
		{"<h1>x<br>y</h1>", "x\ny"},
		{"<p>in<strong>line</strong></p>", "inline"},
	}
	for _, tt := range tests {
		doc := mustParse(t, tt.markup)
		if got := BlockText(doc.Root()); got != tt.want {
			t.Fatalf("BlockText(%q): got %q, want %q", tt.markup, got, tt.want)
		}
	}
}
