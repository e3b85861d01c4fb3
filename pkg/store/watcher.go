package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spaolacci/murmur3"
)

// Watch reloads the store whenever another process rewrites the backing
// file, until ctx is cancelled. Writes made by this engine are
// recognized by content fingerprint and skipped.
//
// Watch blocks; run it in its own goroutine. onReload, if non-nil, is
// called after each successful reload.
func (e *Engine) Watch(ctx context.Context, onReload func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory, not the file, to catch vim-style renames
	dir := filepath.Dir(e.path)
	if err := w.Add(dir); err != nil {
		e.logger.Error("failed to watch directory", "path", dir, "error", err)
		return err
	}
	e.logger.Debug("watching backing file for changes",
		"path", dir,
		"file", filepath.Base(e.path),
	)

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Name != e.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if e.ownWrite() {
				continue
			}
			e.logger.Debug("backing file changed externally",
				"file", event.Name,
				"op", event.Op.String(),
			)
			if err := e.Load(ctx); err != nil {
				e.logger.Error("reload after external change failed", "error", err)
				continue
			}
			if onReload != nil {
				onReload()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("file watcher error", "error", err)
		case <-ctx.Done():
			e.logger.Debug("file watcher stopped")
			return ctx.Err()
		}
	}
}

// ownWrite reports whether the backing file's current content matches
// the fingerprint of our last write or load.
func (e *Engine) ownWrite() bool {
	data, err := os.ReadFile(e.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			e.logger.Error("fingerprint read failed", "error", err)
		}
		return true
	}
	return murmur3.Sum64(data) == e.lastSum.Load()
}
