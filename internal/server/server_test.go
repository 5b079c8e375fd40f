package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/starford/jotpad/web"
)

func testRouter() http.Handler {
	fsys := fstest.MapFS{
		"index.html":    {Data: []byte("<title>Notes</title>")},
		"writer.html":   {Data: []byte("<title>Writer</title>")},
		"reader.html":   {Data: []byte("<title>Reader</title>")},
		"css/style.css": {Data: []byte("body{}")},
	}
	return NewRouter(FSHandler(fsys))
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServesBundle(t *testing.T) {
	h := testRouter()

	cases := map[string]string{
		"/":              "Notes",
		"/writer.html":   "Writer",
		"/reader.html":   "Reader",
		"/css/style.css": "body{}",
	}
	for target, want := range cases {
		w := do(h, http.MethodGet, target)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", target, w.Code)
			continue
		}
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("GET %s body = %q", target, w.Body.String())
		}
	}
}

func TestNotFound(t *testing.T) {
	h := testRouter()
	if w := do(h, http.MethodGet, "/api/notes"); w.Code != http.StatusNotFound {
		t.Errorf("GET unknown = %d, want 404", w.Code)
	}
	if w := do(h, http.MethodPost, "/writer.html"); w.Code != http.StatusNotFound {
		t.Errorf("POST = %d, want 404", w.Code)
	}
}

func TestNoListingsOrRedirects(t *testing.T) {
	h := testRouter()
	for _, target := range []string{"/css/", "/css", "/css/../css/", "/missing/"} {
		if w := do(h, http.MethodGet, target); w.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", target, w.Code)
		}
	}

	w := do(h, http.MethodGet, "/index.html")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /index.html = %d, want 200", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "" {
		t.Errorf("unexpected redirect to %q", loc)
	}
	if !strings.Contains(w.Body.String(), "Notes") {
		t.Errorf("GET /index.html body = %q", w.Body.String())
	}
}

func TestHead(t *testing.T) {
	w := do(testRouter(), http.MethodHead, "/reader.html")
	if w.Code != http.StatusOK {
		t.Errorf("HEAD = %d", w.Code)
	}
}

func TestEmbeddedBundle(t *testing.T) {
	h := NewRouter(FSHandler(web.Root()))
	for _, target := range []string{"/", "/writer.html", "/reader.html", "/css/style.css", "/js/app.js"} {
		if w := do(h, http.MethodGet, target); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", target, w.Code)
		}
	}
	for _, target := range []string{"/css/", "/js/", "/css", "/js"} {
		if w := do(h, http.MethodGet, target); w.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", target, w.Code)
		}
	}
	w := do(h, http.MethodGet, "/writer.html")
	body := w.Body.String()
	for _, marker := range []string{"<title>Writer</title>", `class="note-container"`, `class="save-time"`, `class="add-note"`} {
		if !strings.Contains(body, marker) {
			t.Errorf("writer.html missing %s", marker)
		}
	}
	w = do(h, http.MethodGet, "/reader.html")
	body = w.Body.String()
	for _, marker := range []string{"<title>Reader</title>", `class="note-display"`, `class="retrieval-time"`} {
		if !strings.Contains(body, marker) {
			t.Errorf("reader.html missing %s", marker)
		}
	}
}
