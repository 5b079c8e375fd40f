// Package termview renders a note list to a terminal stream.
package termview

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/starford/jotpad/internal/notes"
)

// View writes reader output to w. A display is printed only when its
// content differs from the previous one, followed by the retrieval label;
// unchanged polls print nothing.
type View struct {
	mu      sync.Mutex
	w       io.Writer
	last    []string
	printed bool
	pending bool
}

// New creates a View writing to w.
func New(w io.Writer) *View {
	return &View{w: w}
}

// RenderDisplay implements notes.View.
func (v *View) RenderDisplay(items []string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.printed && slices.Equal(items, v.last) {
		return
	}
	v.last = append([]string{}, items...)
	v.printed = true
	v.pending = true

	fmt.Fprintf(v.w, "--- %d note(s) ---\n", len(items))
	writeNumbered(v.w, items)
}

// SetRetrievalTime implements notes.View.
func (v *View) SetRetrievalTime(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.pending {
		return
	}
	v.pending = false
	fmt.Fprintln(v.w, label)
}

// RenderEditor implements notes.View by listing the entries.
func (v *View) RenderEditor(entries []notes.Entry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	writeNumbered(v.w, texts)
}

// SetSaveTime implements notes.View.
func (v *View) SetSaveTime(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.w, label)
}

// List prints items numbered from 1.
func List(w io.Writer, items []string) {
	writeNumbered(w, items)
}

func writeNumbered(w io.Writer, items []string) {
	for i, s := range items {
		fmt.Fprintf(w, "%d. %s\n", i+1, s)
	}
}

// Verify *View satisfies notes.View at compile time.
var _ notes.View = (*View)(nil)
