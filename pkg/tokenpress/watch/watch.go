// Package watch invalidates cached token extractions when template files
// change on disk.
//
// A Watcher wraps fsnotify and an extract.Extractor: whenever a watched
// template is written, created, renamed, or removed, its cache entry is
// dropped so the next extraction re-reads the file.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/avaldez/tokenpress/pkg/tokenpress/extract"
	"github.com/avaldez/tokenpress/pkg/tokenpress/observability"
)

// ErrWatcherClosed is returned by operations on a closed watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// Watcher invalidates extraction cache entries on file change events.
type Watcher struct {
	fsw    *fsnotify.Watcher
	ext    *extract.Extractor
	logger *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger for cache invalidation events.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a Watcher that invalidates entries in ext's cache.
func New(ext *extract.Extractor, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw: fsw,
		ext: ext,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches a file or directory for changes.
func (w *Watcher) Add(path string) error {
	return w.fsw.Add(path)
}

// Remove stops watching a file or directory.
func (w *Watcher) Remove(path string) error {
	return w.fsw.Remove(path)
}

// Run processes file events until the context is cancelled or the
// watcher is closed. Errors from the underlying watcher are logged,
// not returned. Returns the context's error when cancelled, or nil
// once the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context must be non-nil")
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if w.logger != nil {
				w.logger.Error("watch error", slog.String("error", err.Error()))
			}
		}
	}
}

// handleEvent invalidates the cache entry for the changed path.
func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Rename) &&
		!ev.Op.Has(fsnotify.Remove) {
		return
	}

	path, err := filepath.Abs(ev.Name)
	if err != nil {
		path = ev.Name
	}
	if err := w.ext.Invalidate(path); err != nil {
		if w.logger != nil {
			w.logger.Error("cache invalidation failed",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return
	}
	observability.LogCacheInvalidated(w.logger, path)
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
