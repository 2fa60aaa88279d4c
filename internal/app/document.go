package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bethropolis/inkwell/internal/dom"
	"github.com/bethropolis/inkwell/internal/event"
	"github.com/bethropolis/inkwell/internal/logger"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// readDocument loads the markup stored at path. A missing file is a new,
// empty document. Full HTML documents contribute their body only.
func readDocument(path string) (markup string, exists bool, err error) {
	if path == "" {
		return "", false, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cannot read '%s': %w", path, err)
	}
	return bodyContent(string(data)), true, nil
}

// bodyContent returns the inner HTML of <body> when markup is a complete
// document, and markup unchanged otherwise.
func bodyContent(markup string) string {
	head := strings.ToLower(strings.TrimSpace(markup))
	if len(head) > 512 {
		head = head[:512]
	}
	if !strings.HasPrefix(head, "<!doctype") && !strings.Contains(head, "<html") {
		return markup
	}
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return markup
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return markup
	}
	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return markup
		}
	}
	return strings.TrimSpace(b.String())
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// Save writes the document content to path, or to the current file when
// path is "". Saving under a new name makes it the current file.
func (a *App) Save(path string) error {
	a.mu.Lock()
	current := a.filePath
	a.mu.Unlock()
	if path == "" {
		path = current
	}
	if path == "" {
		return errors.New("no file name")
	}

	markup := a.editor.HTML()
	if err := os.WriteFile(path, []byte(markup), 0o644); err != nil {
		return fmt.Errorf("cannot write '%s': %w", path, err)
	}

	a.mu.Lock()
	a.filePath = path
	a.savedHTML = markup
	a.modified = false
	a.mu.Unlock()

	if path != current && a.watcher != nil {
		if err := a.watcher.Watch(path); err != nil {
			logger.Warnf("App: cannot watch '%s': %v", path, err)
		}
	}
	logger.Infof("App: saved '%s' (%d bytes)", path, len(markup))
	a.eventManager.Dispatch(event.TypeDocumentSaved, event.DocumentSavedData{FilePath: path})
	return nil
}

// Reload replaces the document with the file on disk and starts a fresh
// undo history. Unsaved changes are kept unless force is set.
func (a *App) Reload(force bool) error {
	path := a.FilePath()
	if path == "" {
		return errors.New("no file name")
	}
	if a.IsModified() && !force {
		return errors.New("unsaved changes, use :reload! to discard them")
	}
	markup, exists, err := readDocument(path)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("'%s' no longer exists", path)
	}
	if strings.TrimSpace(markup) == "" {
		markup = "<p>" + a.cfg.Editor.Placeholder + "</p>"
	}
	if err := a.editor.SetHTML(markup); err != nil {
		return err
	}

	a.mu.Lock()
	a.savedHTML = a.editor.HTML()
	a.modified = false
	a.mu.Unlock()
	a.statusBar.SetModified(false)

	a.eventManager.Dispatch(event.TypeDocumentLoaded, event.DocumentLoadedData{FilePath: path})
	a.requestRedraw()
	return nil
}

// DocumentText is the document text with block boundaries as newlines.
func (a *App) DocumentText() string {
	var text string
	a.editor.View(func(root *html.Node, _ *dom.Range) {
		text = dom.StripPlaceholders(dom.BlockText(root))
	})
	return text
}
