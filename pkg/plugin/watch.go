package plugin

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

func parentDir(path string) string { return filepath.Dir(path) }

// Watcher rescans a set of plugin directories whenever the filesystem
// reports a bundle being added, removed, or rewritten, instead of
// relying on the caller to poll ScanDirectory on a timer.
type Watcher struct {
	scanner *Scanner
	fsw     *fsnotify.Watcher
	logger  *log.Logger

	onChange func(dir string, descriptors []Descriptor)
	stop     chan struct{}
}

// NewWatcher creates a watcher over scanner, invoking onChange with the
// refreshed descriptor list for a directory whenever it changes.
func NewWatcher(scanner *Scanner, logger *log.Logger, onChange func(dir string, descriptors []Descriptor)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{scanner: scanner, fsw: fsw, logger: logger, onChange: onChange, stop: make(chan struct{})}, nil
}

// AddDirectory starts watching dir (non-recursive, matching ScanDirectory)
// and performs an initial scan.
func (w *Watcher) AddDirectory(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	descs, err := w.scanner.ScanDirectory(dir)
	if err != nil {
		return err
	}
	if w.onChange != nil {
		w.onChange(dir, descs)
	}
	return nil
}

// Run processes filesystem events until Stop is called. Intended to run
// on its own goroutine.
func (w *Watcher) Run() {
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("plugin directory watch error", "err", err)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	dir := parentDir(ev.Name)
	descs, err := w.scanner.ScanDirectory(dir)
	if err != nil {
		w.logger.Warn("rescan after fs event failed", "dir", dir, "err", err)
		return
	}
	if w.onChange != nil {
		w.onChange(dir, descs)
	}
}

// Stop terminates Run and releases the underlying OS watch handles.
func (w *Watcher) Stop() error {
	close(w.stop)
	return w.fsw.Close()
}
