package notes

import "fmt"

// Mode selects which page a controller drives.
type Mode int

const (
	ModeWriter Mode = iota + 1
	ModeReader
)

// Page titles that identify each mode.
const (
	WriterTitle = "Writer"
	ReaderTitle = "Reader"
)

func (m Mode) String() string {
	switch m {
	case ModeWriter:
		return "writer"
	case ModeReader:
		return "reader"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a page title to its mode.
func ParseMode(title string) (Mode, error) {
	switch title {
	case WriterTitle:
		return ModeWriter, nil
	case ReaderTitle:
		return ModeReader, nil
	default:
		return 0, fmt.Errorf("notes: unknown page title %q", title)
	}
}
