// plugins/wordcount/wordcount.go
package wordcount

import (
	"fmt"
	"sync"

	"github.com/bethropolis/inkwell/internal/core"
	"github.com/bethropolis/inkwell/internal/event"
	"github.com/bethropolis/inkwell/internal/plugin"
	"github.com/rivo/uniseg"
)

// Ensure WordCount implements plugin.Plugin
var _ plugin.Plugin = (*WordCount)(nil)

// WordCount keeps the status bar's word count current and adds :wc for a
// fuller summary.
type WordCount struct {
	api         plugin.EditorAPI
	mu          sync.Mutex
	unsubscribe []func()
}

// New creates a new instance of the WordCount plugin.
func New() *WordCount {
	return &WordCount{}
}

// Name returns the unique name of the plugin.
func (p *WordCount) Name() string {
	return "wordcount"
}

// Initialize subscribes to document changes and registers :wc.
func (p *WordCount) Initialize(api plugin.EditorAPI) error {
	p.api = api
	if err := api.RegisterCommand("wc", p.executeWordCount); err != nil {
		return fmt.Errorf("failed to register 'wc' command: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.unsubscribe = append(p.unsubscribe,
		api.SubscribeEvent(event.TypeDocumentChanged, p.onDocumentChanged),
		api.SubscribeEvent(event.TypeDocumentLoaded, p.onDocumentLoaded),
	)
	api.SetWordsLabel(core.WordCountLabel(core.CountWords(api.DocumentText())))
	return nil
}

// Shutdown drops the event subscriptions.
func (p *WordCount) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, u := range p.unsubscribe {
		u()
	}
	p.unsubscribe = nil
	return nil
}

func (p *WordCount) onDocumentChanged(e event.Event) bool {
	if data, ok := e.Data.(event.DocumentChangedData); ok {
		p.api.SetWordsLabel(data.WordsLabel)
	}
	return false
}

func (p *WordCount) onDocumentLoaded(event.Event) bool {
	p.api.SetWordsLabel(core.WordCountLabel(core.CountWords(p.api.DocumentText())))
	return false
}

// executeWordCount is the function called when the :wc command runs.
func (p *WordCount) executeWordCount(args []string) error {
	if p.api == nil {
		return fmt.Errorf("wordcount plugin not initialized with API")
	}
	text := p.api.DocumentText()
	words := core.CountWords(text)
	chars := uniseg.GraphemeClusterCount(text)
	lines := 0
	if text != "" {
		lines = 1
		for _, r := range text {
			if r == '\n' {
				lines++
			}
		}
	}
	p.api.SetStatusMessage("Blocks: %d, Words: %d, Characters: %d", lines, words, chars)
	return nil
}
