package workspace

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change reports a refreshed or removed file. File is nil on removal.
type Change struct {
	Path string
	File *File
}

func (c Change) Removed() bool {
	return c.File == nil
}

type ChangeFunc func(Change)

// DefaultDebounce is how long a path must stay quiet before it is
// re-extracted. Editors tend to write a file several times per save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher keeps a Workspace current with the file system and reports
// every entry it refreshes.
type Watcher struct {
	ws       *Workspace
	fsw      *fsnotify.Watcher
	onChange ChangeFunc
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time

	closeOnce sync.Once
}

type WatcherOption func(*Watcher)

func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

func NewWatcher(ws *Workspace, onChange ChangeFunc, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		ws:       ws,
		fsw:      fsw,
		onChange: onChange,
		debounce: DefaultDebounce,
		pending:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.addTree(ws.Root()); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes file system events until ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(max(w.debounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch: %s", err)
		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() { err = w.fsw.Close() })
	return err
}

// addTree watches dir and every non-hidden directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return err
		}
		log.Debugf("watching %s", path)
		return nil
	})
}

func (w *Watcher) handle(event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if isHidden(info.Name()) {
				return
			}
			if err := w.addTree(event.Name); err != nil {
				log.Warningf("watch %s: %s", event.Name, err)
			}
			w.queueTree(event.Name)
			return
		}
		w.queue(event.Name)
	case event.Has(fsnotify.Write):
		w.queue(event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.mu.Lock()
		delete(w.pending, event.Name)
		w.mu.Unlock()
		if w.ws.RemoveFile(event.Name) {
			w.notify(Change{Path: event.Name})
		}
	}
}

// queueTree picks up files that were created together with a new
// directory before it was watched.
func (w *Watcher) queueTree(dir string) {
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			w.queue(path)
		}
		return nil
	})
}

func (w *Watcher) queue(path string) {
	if !w.ws.Selected(path) {
		return
	}
	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// flush re-extracts every pending path that has been quiet for the
// debounce interval.
func (w *Watcher) flush(now time.Time) {
	var ready []string
	w.mu.Lock()
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		f, changed, err := w.ws.ScanFile(path)
		if err != nil {
			if w.ws.RemoveFile(path) {
				w.notify(Change{Path: path})
			}
			log.Debugf("skipping %s: %s", path, err)
			continue
		}
		if changed {
			w.notify(Change{Path: path, File: f})
		}
	}
}

func (w *Watcher) notify(c Change) {
	if w.onChange != nil {
		w.onChange(c)
	}
}
