package plugin_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/bethropolis/inkwell/internal/plugin"
	"github.com/bethropolis/inkwell/internal/plugin/plugintest"
)

type recorder struct {
	name    string
	initErr error
	log     *[]string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Initialize(plugin.EditorAPI) error {
	*r.log = append(*r.log, "init "+r.name)
	return r.initErr
}

func (r *recorder) Shutdown() error {
	*r.log = append(*r.log, "shutdown "+r.name)
	return nil
}

func TestManagerLifecycle(t *testing.T) {
	var log []string
	m := plugin.NewManager()
	for _, p := range []*recorder{
		{name: "a", log: &log},
		{name: "b", log: &log, initErr: errors.New("boom")},
		{name: "c", log: &log},
	} {
		if err := m.Register(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Register(&recorder{name: "a", log: &log}); err == nil {
		t.Fatal("duplicate name accepted")
	}
	if err := m.Register(&recorder{log: &log}); err == nil {
		t.Fatal("empty name accepted")
	}

	if n := m.InitializePlugins(plugintest.New()); n != 2 {
		t.Fatalf("initialized: got %d, want 2", n)
	}
	m.ShutdownPlugins()

	want := []string{"init a", "init b", "init c", "shutdown c", "shutdown b", "shutdown a"}
	if !reflect.DeepEqual(log, want) {
		t.Fatalf("calls: got %v, want %v", log, want)
	}
	if _, ok := m.GetPlugin("b"); !ok {
		t.Fatal("GetPlugin lost a registered plugin")
	}
}
