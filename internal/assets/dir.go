// Package assets serves a page bundle from an on-disk directory, kept in
// memory and refreshed by a file watcher.
package assets

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/starford/jotpad/internal/checksum"
)

type file struct {
	data    []byte
	etag    string
	modTime time.Time
}

// Dir is an in-memory snapshot of an asset directory. Hidden files (leading
// dot) are skipped, matching what the embedded bundle would contain.
type Dir struct {
	root   string
	logger *slog.Logger

	mu    sync.RWMutex
	files map[string]file // keyed by slash-separated path relative to root
}

// Load reads every file under root into memory.
func Load(root string, logger *slog.Logger) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("assets: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("assets: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets: root is not a directory: %s", abs)
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dir{root: abs, logger: logger, files: make(map[string]file)}
	if err := d.loadTree(abs); err != nil {
		return nil, err
	}
	return d, nil
}

// Root returns the absolute asset directory.
func (d *Dir) Root() string {
	return d.root
}

// Len returns the number of cached files.
func (d *Dir) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.files)
}

// loadTree caches every visible file under dir.
func (d *Dir) loadTree(dir string) error {
	err := filepath.WalkDir(dir, func(p string, e fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p != dir && hidden(e.Name()) {
			if e.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if e.IsDir() {
			return nil
		}
		return d.loadFile(p)
	})
	if err != nil {
		return fmt.Errorf("assets: load %s: %w", dir, err)
	}
	return nil
}

// loadFile reads one absolute path into the cache.
func (d *Dir) loadFile(abs string) error {
	rel, ok := d.rel(abs)
	if !ok {
		return nil
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.files[rel] = file{data: data, etag: checksum.ETag(data), modTime: info.ModTime()}
	d.mu.Unlock()
	return nil
}

// forget drops abs, and everything below it when it was a directory.
func (d *Dir) forget(abs string) {
	rel, ok := d.rel(abs)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, rel)
	prefix := rel + "/"
	for k := range d.files {
		if strings.HasPrefix(k, prefix) {
			delete(d.files, k)
		}
	}
}

// rel maps an absolute path to its cache key, rejecting hidden files and
// paths outside root.
func (d *Dir) rel(abs string) (string, bool) {
	r, err := filepath.Rel(d.root, abs)
	if err != nil || r == "." || strings.HasPrefix(r, "..") {
		return "", false
	}
	r = filepath.ToSlash(r)
	for _, part := range strings.Split(r, "/") {
		if hidden(part) {
			return "", false
		}
	}
	return r, true
}

func (d *Dir) lookup(name string) (file, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	f, ok := d.files[name]
	return f, ok
}

// ServeHTTP serves a cached file. Directory paths resolve to their
// index.html; anything not cached is a 404.
func (d *Dir) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" || strings.HasSuffix(r.URL.Path, "/") {
		name = path.Join(name, "index.html")
	}

	f, ok := d.lookup(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("ETag", f.etag)
	http.ServeContent(w, r, name, f.modTime, bytes.NewReader(f.data))
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
