//go:build js && wasm

package browser

import (
	"fmt"
	"syscall/js"

	"github.com/starford/jotpad/internal/notes"
)

// Page markers.
const (
	NoteContainerSelector = ".note-container"
	NoteDisplaySelector   = ".note-display"
	SaveTimeSelector      = ".save-time"
	RetrievalTimeSelector = ".retrieval-time"
	AddNoteSelector       = ".add-note"
)

// Actions is what the DOM forwards user input to.
type Actions interface {
	AddNote() (notes.EntryID, error)
	EditNote(id notes.EntryID, text string) error
	RemoveNote(id notes.EntryID) error
}

type fieldElems struct {
	area    js.Value
	remove  js.Value
	onInput js.Func
	onClick js.Func
}

// DOMView renders the controller model into the document.
type DOMView struct {
	doc       js.Value
	container js.Value
	display   js.Value
	saveTime  js.Value
	retrieval js.Value

	actions Actions
	fields  map[notes.EntryID]*fieldElems
	order   []notes.EntryID
	onAdd   js.Func
}

// NewDOMView looks up the markers the given mode needs and fails when any is
// missing from the document.
func NewDOMView(doc js.Value, mode notes.Mode) (*DOMView, error) {
	v := &DOMView{doc: doc, fields: make(map[notes.EntryID]*fieldElems)}

	var err error
	switch mode {
	case notes.ModeWriter:
		if v.container, err = v.query(NoteContainerSelector); err != nil {
			return nil, err
		}
		if v.saveTime, err = v.query(SaveTimeSelector); err != nil {
			return nil, err
		}
	case notes.ModeReader:
		if v.display, err = v.query(NoteDisplaySelector); err != nil {
			return nil, err
		}
		if v.retrieval, err = v.query(RetrievalTimeSelector); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("browser: invalid mode %s", mode)
	}
	return v, nil
}

func (v *DOMView) query(selector string) (js.Value, error) {
	el := v.doc.Call("querySelector", selector)
	if el.IsNull() {
		return js.Value{}, fmt.Errorf("browser: element %s not found", selector)
	}
	return el, nil
}

// Bind forwards field input and remove clicks to a, and wires the add-note
// trigger when the page has one. Call it before the first render.
func (v *DOMView) Bind(a Actions) {
	v.actions = a

	add := v.doc.Call("querySelector", AddNoteSelector)
	if add.IsNull() {
		return
	}
	v.onAdd = js.FuncOf(func(js.Value, []js.Value) any {
		go func() { _, _ = a.AddNote() }()
		return nil
	})
	add.Call("addEventListener", "click", v.onAdd)
}

// RenderEditor implements notes.View. Existing textareas are kept in place
// (so typing is not interrupted), new ones created, missing ones removed.
func (v *DOMView) RenderEditor(entries []notes.Entry) {
	stale, moves := arrange(v.order, entries)

	for _, id := range stale {
		f := v.fields[id]
		v.container.Call("removeChild", f.area)
		v.container.Call("removeChild", f.remove)
		f.onInput.Release()
		f.onClick.Release()
		delete(v.fields, id)
	}

	text := make(map[notes.EntryID]string, len(entries))
	for _, e := range entries {
		text[e.ID] = e.Text
	}
	for _, m := range moves {
		f, ok := v.fields[m.id]
		if !ok {
			f = v.newField(notes.Entry{ID: m.id, Text: text[m.id]})
			v.fields[m.id] = f
		}
		ref := js.Null()
		if m.before != 0 {
			ref = v.fields[m.before].area
		}
		v.container.Call("insertBefore", f.area, ref)
		v.container.Call("insertBefore", f.remove, ref)
	}

	v.order = v.order[:0]
	for _, e := range entries {
		v.order = append(v.order, e.ID)
	}
}

func (v *DOMView) newField(e notes.Entry) *fieldElems {
	id := e.ID
	area := v.doc.Call("createElement", "textarea")
	area.Set("value", e.Text)
	remove := v.doc.Call("createElement", "button")
	remove.Set("type", "button")
	remove.Set("textContent", "Remove")

	f := &fieldElems{area: area, remove: remove}
	f.onInput = js.FuncOf(func(js.Value, []js.Value) any {
		text := area.Get("value").String()
		if a := v.actions; a != nil {
			go func() { _ = a.EditNote(id, text) }()
		}
		return nil
	})
	f.onClick = js.FuncOf(func(js.Value, []js.Value) any {
		if a := v.actions; a != nil {
			go func() { _ = a.RemoveNote(id) }()
		}
		return nil
	})
	area.Call("addEventListener", "input", f.onInput)
	remove.Call("addEventListener", "click", f.onClick)
	return f
}

// RenderDisplay implements notes.View.
func (v *DOMView) RenderDisplay(items []string) {
	v.display.Set("innerHTML", "")
	for _, text := range items {
		p := v.doc.Call("createElement", "p")
		p.Set("textContent", text)
		v.display.Call("appendChild", p)
	}
}

// SetSaveTime implements notes.View.
func (v *DOMView) SetSaveTime(label string) {
	v.saveTime.Set("textContent", label)
}

// SetRetrievalTime implements notes.View.
func (v *DOMView) SetRetrievalTime(label string) {
	v.retrieval.Set("textContent", label)
}

var _ notes.View = (*DOMView)(nil)
