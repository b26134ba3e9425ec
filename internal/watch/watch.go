// Package watch signals when any of a set of files changes. It watches the
// parent directories with fsnotify, so editors that save by renaming a
// temp file over the original are caught, and falls back to polling
// modification times when fsnotify is unavailable.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultPollInterval = time.Second

type Watcher struct {
	files  map[string]bool
	events chan struct{}
	done   chan struct{}
	once   sync.Once
	fsw    *fsnotify.Watcher

	pollInterval time.Duration
}

// New watches paths. Events delivers one signal per burst of changes;
// back-to-back writes coalesce.
func New(paths ...string) (*Watcher, error) {
	return newWatcher(DefaultPollInterval, false, paths)
}

// NewPolling is New without fsnotify.
func NewPolling(interval time.Duration, paths ...string) (*Watcher, error) {
	return newWatcher(interval, true, paths)
}

func newWatcher(interval time.Duration, poll bool, paths []string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	w := &Watcher{
		files:        make(map[string]bool, len(paths)),
		events:       make(chan struct{}, 1),
		done:         make(chan struct{}),
		pollInterval: interval,
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	if poll {
		go w.poll()
		return w, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Info("fsnotify unavailable, polling instead", "error", err)
		go w.poll()
		return w, nil
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			slog.Info("cannot watch directory, polling instead", "dir", dir, "error", err)
			fsw.Close()
			go w.poll()
			return w, nil
		}
	}
	w.fsw = fsw
	go w.watch()
	return w, nil
}

func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if w.files[filepath.Clean(ev.Name)] {
				w.notify()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) poll() {
	last := w.modTimes()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			cur := w.modTimes()
			for path, mod := range cur {
				if !mod.Equal(last[path]) {
					w.notify()
					break
				}
			}
			last = cur
		}
	}
}

func (w *Watcher) modTimes() map[string]time.Time {
	out := make(map[string]time.Time, len(w.files))
	for path := range w.files {
		if info, err := os.Stat(path); err == nil {
			out[path] = info.ModTime()
		}
	}
	return out
}

func (w *Watcher) notify() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}

func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		if w.fsw != nil {
			err = w.fsw.Close()
		}
	})
	return err
}
