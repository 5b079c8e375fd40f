// Package server exposes the page bundle over HTTP.
package server

import (
	"bytes"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter serves static under "/" for GET and HEAD. There are no other
// routes: unknown paths and other methods are 404s.
func NewRouter(static http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	r.NotFound(http.NotFound)
	r.MethodNotAllowed(http.NotFound)

	r.Get("/*", static.ServeHTTP)

	return r
}

// FSHandler serves the regular files of an fs.FS such as the embedded
// bundle. A path ending in "/" serves that directory's index.html. Anything
// else that is not a file, directories included, is a 404; nothing is listed
// and nothing is redirected.
func FSHandler(fsys fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if strings.HasSuffix(r.URL.Path, "/") {
			name = path.Join(name, "index.html")
		}
		if name == "" || !fs.ValidPath(name) {
			http.NotFound(w, r)
			return
		}

		info, err := fs.Stat(fsys, name)
		if err != nil || !info.Mode().IsRegular() {
			http.NotFound(w, r)
			return
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		// Embedded files carry a zero mod time, which ServeContent ignores.
		http.ServeContent(w, r, path.Base(name), info.ModTime(), bytes.NewReader(data))
	})
}
