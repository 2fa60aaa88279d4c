package autosave

import (
	"testing"
	"time"

	"github.com/bethropolis/inkwell/internal/plugin/plugintest"
)

// manualTicks replaces the ticker so tests decide when a tick happens.
func manualTicks(p *AutoSave) chan time.Time {
	ch := make(chan time.Time)
	p.tick = func(time.Duration) (<-chan time.Time, func()) { return ch, func() {} }
	return ch
}

func waitForSaves(t *testing.T, api *plugintest.API, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for api.SaveCount() < want {
		if time.Now().After(deadline) {
			t.Fatalf("saves: got %d, want %d", api.SaveCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSavesOnlyWhenModified(t *testing.T) {
	api := plugintest.New()
	api.Path = "/tmp/doc.html"
	api.Config["autosave.enabled"] = true
	p := New()
	ticks := manualTicks(p)
	if err := p.Initialize(api); err != nil {
		t.Fatal(err)
	}
	defer p.Shutdown()

	ticks <- time.Now()
	api.SetModified(true)
	ticks <- time.Now()
	waitForSaves(t, api, 1)
	ticks <- time.Now()
	// The unbuffered send returns once the loop took the tick; one more
	// makes sure the previous one has been handled.
	ticks <- time.Now()
	if got := api.SaveCount(); got != 1 {
		t.Fatalf("saves: got %d, want 1", got)
	}
}

func TestSkipsUnnamedDocument(t *testing.T) {
	api := plugintest.New()
	api.Modified = true
	api.Config["autosave.enabled"] = true
	p := New()
	ticks := manualTicks(p)
	if err := p.Initialize(api); err != nil {
		t.Fatal(err)
	}
	ticks <- time.Now()
	ticks <- time.Now()
	if err := p.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if api.SaveCount() != 0 {
		t.Fatalf("saved an unnamed document")
	}
}

func TestConfig(t *testing.T) {
	tests := []struct {
		name     string
		config   map[string]interface{}
		enabled  bool
		interval time.Duration
	}{
		{"defaults", nil, false, 30 * time.Second},
		{"duration", map[string]interface{}{"autosave.enabled": true, "autosave.interval": 5 * time.Second}, true, 5 * time.Second},
		{"string", map[string]interface{}{"autosave.interval": "2m"}, false, 2 * time.Minute},
		{"too short", map[string]interface{}{"autosave.interval": 10 * time.Millisecond}, false, 30 * time.Second},
		{"wrong type", map[string]interface{}{"autosave.enabled": "yes"}, false, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := plugintest.New()
			for k, v := range tt.config {
				api.Config[k] = v
			}
			p := New()
			manualTicks(p)
			if err := p.Initialize(api); err != nil {
				t.Fatal(err)
			}
			defer p.Shutdown()
			if p.enabled != tt.enabled || p.interval != tt.interval {
				t.Fatalf("got (%v, %v), want (%v, %v)", p.enabled, p.interval, tt.enabled, tt.interval)
			}
		})
	}
}
