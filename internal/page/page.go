// Package page is an in-memory model of the Writer and Reader documents.
//
// It implements notes.View the way the browser view does: editable fields
// are kept in step with the controller's entries by ID, the display area is
// replaced wholesale, and user actions (typing, clicking add or remove) are
// forwarded to the bound controller. It has no rendering of its own and is
// used to drive the controller without a browser.
package page

import (
	"errors"
	"fmt"
	"sync"

	"github.com/starford/jotpad/internal/notes"
)

// Actions is the subset of the controller a page forwards user input to.
type Actions interface {
	AddNote() (notes.EntryID, error)
	EditNote(id notes.EntryID, text string) error
	RemoveNote(id notes.EntryID) error
}

// ErrUnbound is returned by user actions on a page without a controller.
var ErrUnbound = errors.New("page: no controller bound")

type field struct {
	id    notes.EntryID
	value string
}

// Page is a headless Writer or Reader document.
type Page struct {
	title string

	mu            sync.Mutex
	fields        []field
	display       []string
	saveTime      string
	retrievalTime string
	actions       Actions
}

// New creates an empty page with the given document title.
func New(title string) *Page {
	return &Page{title: title}
}

// Title returns the document title.
func (p *Page) Title() string {
	return p.title
}

// Bind wires user actions to a controller.
func (p *Page) Bind(a Actions) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = a
}

// RenderEditor implements notes.View. Fields whose ID survives keep their
// current value; new IDs get the entry text.
func (p *Page) RenderEditor(entries []notes.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := make(map[notes.EntryID]string, len(p.fields))
	for _, f := range p.fields {
		current[f.id] = f.value
	}
	next := make([]field, 0, len(entries))
	for _, e := range entries {
		v, ok := current[e.ID]
		if !ok {
			v = e.Text
		}
		next = append(next, field{id: e.ID, value: v})
	}
	p.fields = next
}

// RenderDisplay implements notes.View.
func (p *Page) RenderDisplay(items []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.display = append([]string{}, items...)
}

// SetSaveTime implements notes.View.
func (p *Page) SetSaveTime(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saveTime = label
}

// SetRetrievalTime implements notes.View.
func (p *Page) SetRetrievalTime(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retrievalTime = label
}

// Values returns the editable field values in document order.
func (p *Page) Values() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.fields))
	for i, f := range p.fields {
		out[i] = f.value
	}
	return out
}

// Display returns the read-only display entries in document order.
func (p *Page) Display() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.display...)
}

// SaveTime returns the "last saved" label text.
func (p *Page) SaveTime() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saveTime
}

// RetrievalTime returns the "last retrieved" label text.
func (p *Page) RetrievalTime() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.retrievalTime
}

// Type replaces the value of the i-th field, as a user typing would, and
// reports the input to the controller.
func (p *Page) Type(i int, text string) error {
	p.mu.Lock()
	if i < 0 || i >= len(p.fields) {
		p.mu.Unlock()
		return fmt.Errorf("page: no field %d", i)
	}
	p.fields[i].value = text
	id, a := p.fields[i].id, p.actions
	p.mu.Unlock()

	if a == nil {
		return ErrUnbound
	}
	return a.EditNote(id, text)
}

// ClickAdd presses the "add note" trigger.
func (p *Page) ClickAdd() error {
	p.mu.Lock()
	a := p.actions
	p.mu.Unlock()

	if a == nil {
		return ErrUnbound
	}
	_, err := a.AddNote()
	return err
}

// ClickRemove presses the remove control next to the i-th field.
func (p *Page) ClickRemove(i int) error {
	p.mu.Lock()
	if i < 0 || i >= len(p.fields) {
		p.mu.Unlock()
		return fmt.Errorf("page: no field %d", i)
	}
	id, a := p.fields[i].id, p.actions
	p.mu.Unlock()

	if a == nil {
		return ErrUnbound
	}
	return a.RemoveNote(id)
}

// Verify *Page satisfies notes.View at compile time.
var _ notes.View = (*Page)(nil)
