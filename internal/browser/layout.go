// Package browser binds the notes controller to a live page: the DOM as its
// view and window.localStorage as its key-value slot.
package browser

import (
	"slices"

	"github.com/starford/jotpad/internal/notes"
)

// placement moves (or inserts) the field of id directly before the field of
// before. A zero before appends to the container.
type placement struct {
	id     notes.EntryID
	before notes.EntryID
}

// arrange plans the container edits that turn the fields currently shown, in
// order, into one field per entry in entries order. It returns the fields to
// drop and the placements to apply in sequence. Fields already in position
// are not touched, so a field being typed into keeps its focus.
func arrange(current []notes.EntryID, entries []notes.Entry) (stale []notes.EntryID, moves []placement) {
	keep := make(map[notes.EntryID]bool, len(entries))
	for _, e := range entries {
		keep[e.ID] = true
	}

	order := make([]notes.EntryID, 0, len(current))
	for _, id := range current {
		if keep[id] {
			order = append(order, id)
		} else {
			stale = append(stale, id)
		}
	}

	for i, e := range entries {
		if i < len(order) && order[i] == e.ID {
			continue
		}
		p := placement{id: e.ID}
		if i < len(order) {
			p.before = order[i]
		}
		moves = append(moves, p)

		if j := slices.Index(order, e.ID); j >= 0 {
			order = slices.Delete(order, j, j+1)
		}
		order = slices.Insert(order, i, e.ID)
	}
	return stale, moves
}
