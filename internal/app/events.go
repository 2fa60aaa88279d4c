package app

import (
	"github.com/bethropolis/inkwell/internal/event"
	"github.com/bethropolis/inkwell/internal/logger"
)

// subscribeEvents keeps the status bar and the modified flag in step with
// the editor. Handlers may run on the editor's debounce goroutine.
func (a *App) subscribeEvents() {
	a.eventManager.Subscribe(event.TypeDocumentChanged, a.handleDocumentChanged)
	a.eventManager.Subscribe(event.TypeSelectionChanged, a.handleSelectionChanged)
	a.eventManager.Subscribe(event.TypeHistoryChanged, a.handleHistoryChanged)
	a.eventManager.Subscribe(event.TypeDocumentSaved, a.handleDocumentSaved)
	a.eventManager.Subscribe(event.TypeDocumentLoaded, a.handleDocumentLoaded)
	a.eventManager.Subscribe(event.TypeFileChanged, a.handleFileChanged)
}

func (a *App) handleDocumentChanged(e event.Event) bool {
	data, ok := e.Data.(event.DocumentChangedData)
	if !ok {
		logger.Warnf("App: DocumentChanged with unexpected data type: %T", e.Data)
		return false
	}
	a.mu.Lock()
	a.modified = data.HTML != a.savedHTML
	modified := a.modified
	a.mu.Unlock()
	a.statusBar.SetModified(modified)
	a.requestRedraw()
	return false
}

func (a *App) handleSelectionChanged(e event.Event) bool {
	if data, ok := e.Data.(event.SelectionChangedData); ok {
		a.statusBar.SetSelectionInfo(data.Context, data.Active)
		a.requestRedraw()
	}
	return false
}

func (a *App) handleHistoryChanged(e event.Event) bool {
	if data, ok := e.Data.(event.HistoryChangedData); ok {
		a.statusBar.SetHistoryInfo(data.CanUndo, data.CanRedo)
		a.requestRedraw()
	}
	return false
}

func (a *App) handleDocumentSaved(e event.Event) bool {
	if data, ok := e.Data.(event.DocumentSavedData); ok {
		a.statusBar.SetFileInfo(data.FilePath, false)
		a.requestRedraw()
	}
	return false
}

func (a *App) handleDocumentLoaded(e event.Event) bool {
	if data, ok := e.Data.(event.DocumentLoadedData); ok {
		a.statusBar.SetFileInfo(data.FilePath, a.IsModified())
		a.requestRedraw()
	}
	return false
}

func (a *App) handleFileChanged(e event.Event) bool {
	data, ok := e.Data.(event.FileChangedData)
	if !ok {
		return false
	}
	if data.Op == "remove" {
		a.statusBar.SetTemporaryMessage("%s was moved or deleted on disk", data.FilePath)
	} else {
		a.statusBar.SetTemporaryMessage("%s changed on disk, :reload to load it", data.FilePath)
	}
	a.requestRedraw()
	return false
}
