// Package notify provides a filesystem watcher adapter backed by
// fsnotify. Raw notifications are mapped to index-level events: create
// and write become upserts, remove and rename become deletes, chmod is
// ignored.
package notify

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// eventBuffer sizes the outgoing channel. A full buffer blocks the
// fsnotify loop rather than dropping events.
const eventBuffer = 256

// Watcher converts fsnotify notifications into domain file events.
// fsnotify does not watch recursively, so every subdirectory is added
// explicitly, including directories created while watching.
type Watcher struct {
	w      *fsnotify.Watcher
	events chan domain.FileEvent

	mu     sync.Mutex
	closed bool
	quit   chan struct{}
	done   chan struct{}
}

// NewWatcher creates a watcher. The event loop runs until Close.
func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		w:      fsw,
		events: make(chan domain.FileEvent, eventBuffer),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Add starts watching a directory tree. Hidden and unreadable
// subdirectories are skipped.
func (w *Watcher) Add(path string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return domain.ErrWatcherClosed
	}
	w.mu.Unlock()

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("watch walk %s: %v", p, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && isHidden(p) {
			return filepath.SkipDir
		}
		if err := w.w.Add(p); err != nil {
			logger.Warn("watching %s: %v", p, err)
		}
		return nil
	})
}

// Events returns the event channel.
func (w *Watcher) Events() <-chan domain.FileEvent {
	return w.events
}

// Close stops watching and closes the event channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.quit)
	err := w.w.Close()
	<-w.done
	close(w.events)
	return err
}

// loop drains fsnotify until its channels close.
func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// handle maps one fsnotify event to at most one domain event.
func (w *Watcher) handle(ev fsnotify.Event) {
	switch {
	case ev.Op.Has(fsnotify.Create):
		// New directories must be added to keep the watch recursive.
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if !isHidden(ev.Name) {
				if err := w.w.Add(ev.Name); err != nil {
					logger.Warn("watching new dir %s: %v", ev.Name, err)
				}
			}
			return
		}
		w.emit(domain.FileEvent{Path: ev.Name, Op: domain.OpUpsert})
	case ev.Op.Has(fsnotify.Write):
		w.emit(domain.FileEvent{Path: ev.Name, Op: domain.OpUpsert})
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		w.emit(domain.FileEvent{Path: ev.Name, Op: domain.OpDelete})
	}
	// Chmod carries no content change; ignored.
}

func (w *Watcher) emit(ev domain.FileEvent) {
	if isHidden(ev.Path) {
		return
	}
	// Deletes must not be lost, so a full buffer blocks until the
	// consumer catches up. Close unblocks a pending send.
	select {
	case w.events <- ev:
	case <-w.quit:
	}
}

// isHidden reports whether any path element starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && part[0] == '.' {
			return true
		}
	}
	return false
}
