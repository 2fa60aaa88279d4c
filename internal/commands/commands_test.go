package commands

import (
	"reflect"
	"strings"
	"testing"

	"github.com/bethropolis/inkwell/internal/plugin/plugintest"
)

func TestSave(t *testing.T) {
	api := plugintest.New()
	RegisterAppCommands(api)

	if err := api.Run("w"); err == nil {
		t.Fatal(":w without a file name succeeded")
	}
	if err := api.Run("w", "notes.html"); err != nil {
		t.Fatal(err)
	}
	if got := api.LastMessage(); got != "Saved notes.html" {
		t.Fatalf("message: got %q", got)
	}
	if err := api.Run("wq"); err != nil {
		t.Fatal(err)
	}
	if !api.Quit || api.ForceQuit {
		t.Fatalf(":wq quit=%v force=%v", api.Quit, api.ForceQuit)
	}
	if want := []string{"notes.html", "notes.html"}; !reflect.DeepEqual(api.Saves, want) {
		t.Fatalf("saves: got %v, want %v", api.Saves, want)
	}
}

func TestQuit(t *testing.T) {
	api := plugintest.New()
	RegisterAppCommands(api)
	if err := api.Run("q!"); err != nil {
		t.Fatal(err)
	}
	if !api.Quit || !api.ForceQuit {
		t.Fatal(":q! did not force quit")
	}
}

func TestFormat(t *testing.T) {
	api := plugintest.New()
	RegisterAppCommands(api)
	if err := api.Run("fmt"); err == nil {
		t.Fatal(":fmt without tokens succeeded")
	}
	if err := api.Run("fmt", "bold", "h2"); err != nil {
		t.Fatal(err)
	}
	if want := []string{"bold", "h2"}; !reflect.DeepEqual(api.Execs, want) {
		t.Fatalf("execs: got %v, want %v", api.Execs, want)
	}
	if err := api.Run("undo"); err != nil || api.Undos != 1 {
		t.Fatalf(":undo: %v, undos %d", err, api.Undos)
	}
	if err := api.Run("redo"); err != nil || api.Redos != 1 {
		t.Fatalf(":redo: %v, redos %d", err, api.Redos)
	}
}

func TestTheme(t *testing.T) {
	api := plugintest.New()
	RegisterAppCommands(api)

	if err := api.Run("theme", "Inkwell", "Light"); err != nil {
		t.Fatal(err)
	}
	if got := api.LastMessage(); got != "Theme set to: Inkwell Light" {
		t.Fatalf("message: got %q", got)
	}
	err := api.Run("theme", "missing")
	if err == nil || !strings.Contains(err.Error(), "Available: Inkwell Dark, Inkwell Light") {
		t.Fatalf(":theme missing: got %v", err)
	}
	if err := api.Run("theme"); err != nil || api.LastMessage() != "Current theme: Inkwell Light" {
		t.Fatalf(":theme: %v, %q", err, api.LastMessage())
	}
	if err := api.Run("themes"); err != nil || api.LastMessage() != "Available themes: Inkwell Dark, Inkwell Light" {
		t.Fatalf(":themes: %v, %q", err, api.LastMessage())
	}
}
