// Package web provides the embedded Writer/Reader page bundle.
//
// The bundle is served by the server package at "/". The WebAssembly
// widget (js/widget.wasm) and the Go runtime shim (js/wasm_exec.js) are
// produced by `make wasm` and picked up by the embed directive when present.
package web

import (
	"embed"
	"io/fs"
)

// Assets holds the page bundle under the assets/ prefix.
//
//	assets/
//	  index.html       - links to both pages
//	  writer.html      - editable notes
//	  reader.html      - read-only notes
//	  css/style.css
//	  js/app.js        - loads and runs widget.wasm
//
//go:embed assets
var Assets embed.FS

// Root returns the bundle with the assets/ prefix stripped.
func Root() fs.FS {
	sub, err := fs.Sub(Assets, "assets")
	if err != nil {
		// fs.Sub only fails on an invalid path, and "assets" is valid.
		panic(err)
	}
	return sub
}
