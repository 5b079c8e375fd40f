//go:build js && wasm

// Command widget is the notes page logic compiled to WebAssembly. It picks
// the Writer or Reader mode from the document title.
package main

import (
	"context"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/starford/jotpad/internal/browser"
	"github.com/starford/jotpad/internal/notes"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := context.Background()

	window := js.Global()
	doc := window.Get("document")

	mode, err := notes.ParseMode(doc.Get("title").String())
	if err != nil {
		logger.Info("not a notes page", slog.String("error", err.Error()))
		return
	}

	view, err := browser.NewDOMView(doc, mode)
	if err != nil {
		logger.Error("page markup", slog.String("error", err.Error()))
		return
	}
	ls, err := browser.NewLocalStorage(window)
	if err != nil {
		logger.Error("storage", slog.String("error", err.Error()))
		return
	}

	ctrl, err := notes.New(ctx, mode, notes.NewStore(ls), view, notes.WithLogger(logger))
	if err != nil {
		logger.Error("load notes", slog.String("error", err.Error()))
		return
	}
	view.Bind(ctrl)
	ctrl.Start(ctx)

	// Polling runs for the lifetime of the page.
	select {}
}
