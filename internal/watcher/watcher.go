// # internal/watcher/watcher.go
package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"golang.org/x/time/rate"

	"modgraph/internal/observability"
)

// Watcher observes an analysis database on disk and fires a callback when
// it changes, so long-running sessions can rebuild the in-memory graph
// without restarting. It watches the database's directory rather than the
// file itself: SQLite rewrites the main file, its -wal and its -journal
// siblings, and inotify handles on replaced files go stale.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	dbPath     string
	dbBase     string
	debounce   time.Duration
	exclude    []glob.Glob
	limiter    *rate.Limiter
	onChange   func()
	callbackMu sync.Mutex

	dirty   bool
	dirtyMu sync.Mutex
	timer   *time.Timer
}

// NewWatcher prepares a watcher for the database at dbPath. excludeFiles
// are glob patterns matched against base names; "*-shm" should almost
// always be in the list since the shared-memory file churns on every read.
func NewWatcher(dbPath string, debounce time.Duration, excludeFiles []string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		dbPath:    abs,
		dbBase:    filepath.Base(abs),
		debounce:  debounce,
		onChange:  onChange,
		// One rebuild per debounce window at most, with a small burst for
		// the initial event.
		limiter: rate.NewLimiter(rate.Every(debounce), 1),
	}

	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pattern, err)
		}
		w.exclude = append(w.exclude, g)
	}

	return w, nil
}

func (w *Watcher) Watch() error {
	if err := w.fsWatcher.Add(filepath.Dir(w.dbPath)); err != nil {
		return err
	}

	go w.run()
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.relevant(event.Name) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				observability.WatcherEventsTotal.Inc()
				w.scheduleChange()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

// relevant reports whether an event path belongs to the watched database.
// The -wal and -journal siblings count: a WAL append is a committed write
// that the main file may not reflect until checkpoint.
func (w *Watcher) relevant(path string) bool {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, w.dbBase) {
		return false
	}
	for _, g := range w.exclude {
		if g.Match(base) {
			return false
		}
	}
	return true
}

func (w *Watcher) scheduleChange() {
	w.dirtyMu.Lock()
	defer w.dirtyMu.Unlock()

	w.dirty = true

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.flush()
	})
}

func (w *Watcher) flush() {
	w.dirtyMu.Lock()
	dirty := w.dirty
	w.dirty = false
	w.dirtyMu.Unlock()

	if !dirty {
		return
	}

	if !w.limiter.Allow() {
		// A rebuild just ran; fold this change into the next window.
		w.scheduleChange()
		return
	}

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.onChange()
}

func (w *Watcher) Close() error {
	if w.timer != nil {
		w.timer.Stop()
	}
	return w.fsWatcher.Close()
}
