package app

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/bethropolis/inkwell/internal/event"
	"github.com/bethropolis/inkwell/internal/logger"
	"github.com/bethropolis/inkwell/internal/utils"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// fileWatcher reports changes to a single file. It watches the file's
// directory so that editors which save by renaming are still seen.
type fileWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	path     string
	debounce time.Duration
	onChange func(path string, op fsnotify.Op)

	pending utils.Debouncer
	lastOp  fsnotify.Op
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

func newFileWatcher(debounce time.Duration, onChange func(path string, op fsnotify.Op)) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &fileWatcher{
		watcher:  w,
		debounce: debounce,
		onChange: onChange,
		closeCh:  make(chan struct{}),
	}
	fw.wg.Add(1)
	go fw.processLoop()
	return fw, nil
}

// Watch switches the watcher to path.
func (fw *fileWatcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.closed {
		return errors.New("watcher closed")
	}
	if dir != fw.dir {
		if fw.dir != "" {
			_ = fw.watcher.Remove(fw.dir)
		}
		if err := fw.watcher.Add(dir); err != nil {
			fw.dir = ""
			return err
		}
		fw.dir = dir
	}
	fw.path = abs
	return nil
}

// Close stops watching and waits for the event loop to finish.
func (fw *fileWatcher) Close() error {
	fw.mu.Lock()
	if fw.closed {
		fw.mu.Unlock()
		return nil
	}
	fw.closed = true
	fw.pending.Stop()
	close(fw.closeCh)
	fw.mu.Unlock()

	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}

func (fw *fileWatcher) processLoop() {
	defer fw.wg.Done()
	for {
		select {
		case <-fw.closeCh:
			return
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(ev)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("Watcher: %v", err)
		}
	}
}

// handle coalesces bursts of events for the watched file into one
// callback after the debounce window.
func (fw *fileWatcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.closed || filepath.Clean(ev.Name) != fw.path {
		return
	}
	fw.lastOp = ev.Op
	path := fw.path
	fw.pending.Debounce(fw.debounce, func() {
		fw.mu.Lock()
		op, closed := fw.lastOp, fw.closed
		fw.mu.Unlock()
		if !closed {
			fw.onChange(path, op)
		}
	})
}

// checkExternalChange reports a change to the opened file unless the file
// still holds what was last loaded or saved.
func (a *App) checkExternalChange(path string, op fsnotify.Op) {
	kind := "write"
	if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
		kind = "remove"
	} else {
		markup, exists, err := readDocument(path)
		if err != nil {
			logger.Warnf("App: %v", err)
			return
		}
		a.mu.Lock()
		same := exists && markup == a.savedHTML
		a.mu.Unlock()
		if same {
			return
		}
	}
	logger.Infof("App: '%s' changed on disk (%s)", path, op)
	a.eventManager.Dispatch(event.TypeFileChanged, event.FileChangedData{FilePath: path, Op: kind})
}
