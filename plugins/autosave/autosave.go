package autosave

import (
	"sync"
	"time"

	"github.com/bethropolis/inkwell/internal/config"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/bethropolis/inkwell/internal/plugin"
)

// Ensure AutoSave implements plugin.Plugin
var _ plugin.Plugin = (*AutoSave)(nil)

// AutoSave writes the document back to its file every interval while it
// has unsaved changes. Unnamed documents are left alone.
type AutoSave struct {
	api plugin.EditorAPI

	mutex    sync.RWMutex
	enabled  bool
	interval time.Duration
	tick     func(time.Duration) (<-chan time.Time, func())

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a new instance of the AutoSave plugin.
func New() *AutoSave {
	return &AutoSave{
		interval: config.DefaultAutosaveInterval,
		tick: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Name returns the unique name of the plugin.
func (p *AutoSave) Name() string {
	return "autosave"
}

// Initialize reads "enabled" and "interval" from the plugin configuration
// and starts the save loop when enabled.
func (p *AutoSave) Initialize(api plugin.EditorAPI) error {
	p.api = api
	name := p.Name()

	p.mutex.Lock()
	if v, ok := api.GetPluginConfigValue(name, "enabled"); ok {
		if b, isBool := v.(bool); isBool {
			p.enabled = b
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", name, v, p.enabled)
		}
	}
	if v, ok := api.GetPluginConfigValue(name, "interval"); ok {
		switch d := v.(type) {
		case time.Duration:
			if d >= config.MinAutosaveInterval {
				p.interval = d
			} else {
				logger.Warnf("%s: 'interval' %v is below %v, using default (%v)", name, d, config.MinAutosaveInterval, p.interval)
			}
		case string:
			parsed, err := time.ParseDuration(d)
			if err != nil || parsed < config.MinAutosaveInterval {
				logger.Warnf("%s: Invalid 'interval' config ('%s'), using default (%v)", name, d, p.interval)
			} else {
				p.interval = parsed
			}
		default:
			logger.Warnf("%s: Invalid type for 'interval' config (%T), using default (%v)", name, v, p.interval)
		}
	}
	enabled, interval := p.enabled, p.interval
	p.mutex.Unlock()

	logger.Infof("%s initialized. Enabled: %v, Interval: %v", name, enabled, interval)
	if enabled {
		p.stopChan = make(chan struct{})
		ticks, stop := p.tick(interval)
		p.wg.Add(1)
		go p.saverLoop(ticks, stop)
	}
	return nil
}

// Shutdown stops the save loop and waits for it.
func (p *AutoSave) Shutdown() error {
	if p.stopChan != nil {
		close(p.stopChan)
		p.wg.Wait()
		p.stopChan = nil
		logger.Debugf("%s: Saver goroutine stopped.", p.Name())
	}
	return nil
}

func (p *AutoSave) saverLoop(ticks <-chan time.Time, stop func()) {
	defer p.wg.Done()
	defer stop()
	for {
		select {
		case <-ticks:
			p.saveIfModified()
		case <-p.stopChan:
			return
		}
	}
}

func (p *AutoSave) saveIfModified() {
	if !p.api.IsModified() {
		return
	}
	path := p.api.FilePath()
	if path == "" {
		logger.Debugf("%s: Document is modified but has no name, skipping auto-save.", p.Name())
		return
	}
	if err := p.api.Save(""); err != nil {
		logger.Errorf("%s: Auto-save failed for '%s': %v", p.Name(), path, err)
		p.api.SetStatusMessage("Auto-save failed: %v", err)
		return
	}
	logger.Debugf("%s: Auto-saved '%s'", p.Name(), path)
}
