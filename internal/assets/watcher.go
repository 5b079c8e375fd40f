package assets

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch keeps the cache in step with the directory until ctx is cancelled.
// New directories created at runtime are added to the watch list and their
// files loaded.
func (d *Dir) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, d.root); err != nil {
		return err
	}

	d.logger.Info("assets: watching", slog.String("root", d.root))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("assets: watcher stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			d.handle(w, ev)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			d.logger.Error("assets: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

func (d *Dir) handle(w *fsnotify.Watcher, ev fsnotify.Event) {
	p := ev.Name
	if _, ok := d.rel(p); !ok {
		return
	}

	switch {
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		info, err := os.Stat(p)
		if err != nil {
			// Gone again before we got to it.
			d.forget(p)
			return
		}
		if info.IsDir() {
			if err := addDirsRecursive(w, p); err != nil {
				d.logger.Warn("assets: add new dir failed",
					slog.String("path", p),
					slog.String("error", err.Error()))
			}
			if err := d.loadTree(p); err != nil {
				d.logger.Warn("assets: load new dir failed",
					slog.String("path", p),
					slog.String("error", err.Error()))
			}
			return
		}
		if err := d.loadFile(p); err != nil {
			d.logger.Warn("assets: reload failed",
				slog.String("path", p),
				slog.String("error", err.Error()))
			return
		}
		d.logger.Debug("assets: reloaded", slog.String("path", p))

	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// Rename fires on the old path; the new one arrives as Create.
		d.forget(p)
		d.logger.Debug("assets: dropped", slog.String("path", p))
	}
}

// addDirsRecursive adds root and all its visible subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !e.IsDir() {
			return nil
		}
		if p != root && hidden(e.Name()) {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}
