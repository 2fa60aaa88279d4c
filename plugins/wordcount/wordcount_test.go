package wordcount

import (
	"testing"

	"github.com/bethropolis/inkwell/internal/event"
	"github.com/bethropolis/inkwell/internal/plugin/plugintest"
)

func TestLabelFollowsDocument(t *testing.T) {
	api := plugintest.New()
	api.Text = "one two"
	p := New()
	if err := p.Initialize(api); err != nil {
		t.Fatal(err)
	}
	if api.WordsLabel != "2 words" {
		t.Fatalf("initial label: got %q, want %q", api.WordsLabel, "2 words")
	}

	api.DispatchEvent(event.TypeDocumentChanged, event.DocumentChangedData{Words: 1, WordsLabel: "1 word"})
	if api.WordsLabel != "1 word" {
		t.Fatalf("after change: got %q, want %q", api.WordsLabel, "1 word")
	}

	if err := p.Shutdown(); err != nil {
		t.Fatal(err)
	}
	api.DispatchEvent(event.TypeDocumentChanged, event.DocumentChangedData{WordsLabel: "9 words"})
	if api.WordsLabel != "1 word" {
		t.Fatalf("label changed after shutdown: %q", api.WordsLabel)
	}
}

func TestWordCountCommand(t *testing.T) {
	api := plugintest.New()
	api.Text = "Title\nsome body text"
	if err := New().Initialize(api); err != nil {
		t.Fatal(err)
	}
	if err := api.Run("wc"); err != nil {
		t.Fatal(err)
	}
	want := "Blocks: 2, Words: 4, Characters: 20"
	if got := api.LastMessage(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
