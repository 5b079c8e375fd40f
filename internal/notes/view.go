package notes

import (
	"fmt"
	"time"
)

// Label prefixes shown next to the timestamps.
const (
	SavedPrefix     = "Last saved at "
	RetrievedPrefix = "Last retrieved at "
)

// EntryID identifies one editable field for the lifetime of a controller.
// IDs are never persisted.
type EntryID uint64

// Entry is one editable note on the writer page.
type Entry struct {
	ID   EntryID
	Text string
}

// View is the page a controller renders into. It is a derived projection of
// the controller's model and forwards user input back through AddNote,
// EditNote and RemoveNote.
type View interface {
	// RenderEditor brings the editable fields in line with entries. Fields are
	// matched by ID: existing ones are kept, new ones inserted, missing ones
	// removed.
	RenderEditor(entries []Entry)
	// RenderDisplay replaces the read-only display with one element per note.
	RenderDisplay(notes []string)
	SetSaveTime(label string)
	SetRetrievalTime(label string)
}

// Timestamp formats t as H:M:S without zero padding.
func Timestamp(t time.Time) string {
	return fmt.Sprintf("%d:%d:%d", t.Hour(), t.Minute(), t.Second())
}
