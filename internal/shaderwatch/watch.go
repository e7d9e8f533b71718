// Package shaderwatch reports edits to shader source files so programs can be rebuilt live.
package shaderwatch

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher publishes the path of every watched file that changes on disk.
// Directories are watched rather than files so editors that save by rename are seen too.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]string // cleaned path -> path as given
	changes chan string
	done    chan struct{}
	log     *slog.Logger
}

// New starts watching paths. Changes are delivered on Changes without blocking the
// watcher. While the consumer falls behind, changed paths wait in order and repeated
// changes to a path that is already waiting are merged into one notification.
func New(logger *slog.Logger, paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader watcher: %w", err)
	}

	w := &Watcher{
		watcher: fw,
		files:   make(map[string]string),
		changes: make(chan string, 16),
		done:    make(chan struct{}),
		log:     logger,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		w.files[filepath.Clean(p)] = p
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go w.loop()
	return w, nil
}

// Changes returns the channel of changed paths. It is closed by Close.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

func (w *Watcher) loop() {
	defer close(w.changes)

	var pending []string
	waiting := make(map[string]bool)
	for {
		// Sending on a nil channel blocks, so the send case is only live with work queued
		var out chan string
		var next string
		if len(pending) > 0 {
			out, next = w.changes, pending[0]
		}

		select {
		case <-w.done:
			return
		case out <- next:
			pending = pending[1:]
			delete(waiting, next)
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path, watched := w.files[filepath.Clean(event.Name)]
			if !watched || waiting[path] {
				continue
			}
			waiting[path] = true
			pending = append(pending, path)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("shader watcher error", "err", err)
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
