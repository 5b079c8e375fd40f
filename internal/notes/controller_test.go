package notes_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/starford/jotpad/internal/apperr"
	"github.com/starford/jotpad/internal/notes"
	"github.com/starford/jotpad/internal/page"
	"github.com/starford/jotpad/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type harness struct {
	kv    *storage.Memory
	store *notes.Store
	clock *clockwork.FakeClock
}

func newHarness(t *testing.T, initial string) *harness {
	t.Helper()
	kv := storage.NewMemory()
	if initial != "" {
		if err := kv.Set(context.Background(), notes.Key, []byte(initial)); err != nil {
			t.Fatal(err)
		}
	}
	return &harness{
		kv:    kv,
		store: notes.NewStore(kv),
		clock: clockwork.NewFakeClockAt(time.Date(2026, 3, 4, 9, 5, 7, 0, time.Local)),
	}
}

// open builds and starts a controller bound to a fresh headless page.
func (h *harness) open(t *testing.T, mode notes.Mode) (*notes.Controller, *page.Page) {
	t.Helper()
	title := notes.WriterTitle
	if mode == notes.ModeReader {
		title = notes.ReaderTitle
	}
	p := page.New(title)
	c, err := notes.New(context.Background(), mode, h.store, p,
		notes.WithClock(h.clock), notes.WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Bind(c)
	c.Start(context.Background())
	t.Cleanup(c.Stop)
	return c, p
}

func (h *harness) stored(t *testing.T) string {
	t.Helper()
	data, err := h.kv.Get(context.Background(), notes.Key)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ""
		}
		t.Fatal(err)
	}
	return string(data)
}

// advance moves the clock one interval and waits for the tick to land,
// detected through the label the tick stamps.
func (h *harness) advance(t *testing.T, prefix string, label func() string) {
	t.Helper()
	h.clock.Advance(notes.DefaultInterval)
	stamp := prefix + notes.Timestamp(h.clock.Now())
	eventually(t, 2*time.Second, 5*time.Millisecond, func() bool {
		return label() == stamp
	}, "tick did not land, want label "+stamp)
}

func TestWriterInitFromStoredList(t *testing.T) {
	h := newHarness(t, `["alpha","beta"]`)
	_, p := h.open(t, notes.ModeWriter)

	if got, want := p.Values(), []string{"alpha", "beta"}; !reflect.DeepEqual(got, want) {
		t.Errorf("fields = %q, want %q", got, want)
	}
}

func TestWriterInitEmptyGetsOneField(t *testing.T) {
	h := newHarness(t, "")
	_, p := h.open(t, notes.ModeWriter)

	if got := p.Values(); !reflect.DeepEqual(got, []string{""}) {
		t.Errorf("fields = %q, want one empty field", got)
	}
	if h.stored(t) != "" {
		t.Error("initialization must not write to storage")
	}
}

func TestWriterTickPersistsFieldValues(t *testing.T) {
	h := newHarness(t, `["alpha"]`)
	_, p := h.open(t, notes.ModeWriter)

	if err := p.ClickAdd(); err != nil {
		t.Fatalf("ClickAdd: %v", err)
	}
	if err := p.Type(1, "beta"); err != nil {
		t.Fatalf("Type: %v", err)
	}
	if err := p.ClickAdd(); err != nil {
		t.Fatal(err)
	}
	if err := p.Type(2, "gamma"); err != nil {
		t.Fatal(err)
	}
	if err := p.Type(0, "ALPHA"); err != nil {
		t.Fatal(err)
	}
	if err := p.ClickRemove(1); err != nil {
		t.Fatal(err)
	}

	// Nothing is written before the tick.
	if got := h.stored(t); got != `["alpha"]` {
		t.Errorf("stored before tick = %s", got)
	}

	h.advance(t, notes.SavedPrefix, p.SaveTime)

	if got, want := h.stored(t), `["ALPHA","gamma"]`; got != want {
		t.Errorf("stored = %s, want %s", got, want)
	}
	if got := p.Values(); !reflect.DeepEqual(got, []string{"ALPHA", "gamma"}) {
		t.Errorf("fields = %q", got)
	}
}

func TestRemoveOnlyFieldPersistsEmptyList(t *testing.T) {
	h := newHarness(t, `["only"]`)
	_, p := h.open(t, notes.ModeWriter)

	if err := p.ClickRemove(0); err != nil {
		t.Fatalf("ClickRemove: %v", err)
	}
	if len(p.Values()) != 0 {
		t.Fatalf("fields = %q, want none", p.Values())
	}
	// Removal waits for the save tick like add and edit.
	if got := h.stored(t); got != `["only"]` {
		t.Errorf("stored before tick = %s, want [\"only\"]", got)
	}
	h.advance(t, notes.SavedPrefix, p.SaveTime)

	if got := h.stored(t); got != `[]` {
		t.Errorf("stored = %s, want []", got)
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	h := newHarness(t, `["a","b"]`)
	c, _ := h.open(t, notes.ModeWriter)
	ctx := context.Background()

	if err := c.SaveCurrentNotes(ctx); err != nil {
		t.Fatal(err)
	}
	first := h.stored(t)
	if err := c.SaveCurrentNotes(ctx); err != nil {
		t.Fatal(err)
	}
	if second := h.stored(t); second != first {
		t.Errorf("second save = %s, first = %s", second, first)
	}
	if first != `["a","b"]` {
		t.Errorf("stored = %s", first)
	}
}

func TestSaveLabelFormat(t *testing.T) {
	h := newHarness(t, "")
	c, p := h.open(t, notes.ModeWriter)

	if err := c.SaveCurrentNotes(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := p.SaveTime(); got != "Last saved at 9:5:7" {
		t.Errorf("SaveTime = %q", got)
	}
}

func TestReaderEmptyStore(t *testing.T) {
	h := newHarness(t, "")
	_, p := h.open(t, notes.ModeReader)

	if got := p.Display(); len(got) != 0 {
		t.Errorf("display = %q, want empty", got)
	}
	if got := p.RetrievalTime(); got != "Last retrieved at 9:5:7" {
		t.Errorf("RetrievalTime = %q", got)
	}
}

func TestReaderFollowsWriter(t *testing.T) {
	h := newHarness(t, `["first"]`)
	_, wp := h.open(t, notes.ModeWriter)
	_, rp := h.open(t, notes.ModeReader)

	if got := rp.Display(); !reflect.DeepEqual(got, []string{"first"}) {
		t.Fatalf("initial display = %q", got)
	}

	if err := wp.Type(0, "edited"); err != nil {
		t.Fatal(err)
	}
	if err := wp.ClickAdd(); err != nil {
		t.Fatal(err)
	}
	if err := wp.Type(1, "second"); err != nil {
		t.Fatal(err)
	}

	// One interval: the writer saves; the reader may tick before or after it.
	h.clock.Advance(notes.DefaultInterval)
	eventually(t, 2*time.Second, 5*time.Millisecond, func() bool {
		return h.stored(t) == `["edited","second"]`
	}, "writer did not save")

	// A second interval bounds the reader's latency.
	h.clock.Advance(notes.DefaultInterval)
	want := []string{"edited", "second"}
	eventually(t, 2*time.Second, 5*time.Millisecond, func() bool {
		return reflect.DeepEqual(rp.Display(), want)
	}, "reader did not pick up writer change")

	// No further writer change: the display is stable across polls.
	h.advance(t, notes.RetrievedPrefix, rp.RetrievalTime)
	if got := rp.Display(); !reflect.DeepEqual(got, want) {
		t.Errorf("display changed without writer change: %q", got)
	}
}

func TestNewCorruptStoreFails(t *testing.T) {
	h := newHarness(t, `not json`)
	_, err := notes.New(context.Background(), notes.ModeReader, h.store, page.New(notes.ReaderTitle))
	if !errors.Is(err, apperr.ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
}

func TestNewRejectsInvalidArguments(t *testing.T) {
	h := newHarness(t, "")
	if _, err := notes.New(context.Background(), notes.Mode(0), h.store, page.New("")); err == nil {
		t.Error("expected error for zero mode")
	}
	if _, err := notes.New(context.Background(), notes.ModeWriter, h.store, nil); err == nil {
		t.Error("expected error for nil view")
	}
}

func TestWrongModeOperations(t *testing.T) {
	h := newHarness(t, "")
	reader, _ := h.open(t, notes.ModeReader)
	writer, _ := h.open(t, notes.ModeWriter)
	ctx := context.Background()

	if _, err := reader.AddNote(); !errors.Is(err, apperr.ErrWrongMode) {
		t.Errorf("reader AddNote err = %v", err)
	}
	if err := reader.SaveCurrentNotes(ctx); !errors.Is(err, apperr.ErrWrongMode) {
		t.Errorf("reader SaveCurrentNotes err = %v", err)
	}
	if err := writer.DisplayNotes(); !errors.Is(err, apperr.ErrWrongMode) {
		t.Errorf("writer DisplayNotes err = %v", err)
	}
	if err := writer.Reload(ctx); !errors.Is(err, apperr.ErrWrongMode) {
		t.Errorf("writer Reload err = %v", err)
	}
}

func TestUnknownEntry(t *testing.T) {
	h := newHarness(t, "")
	c, _ := h.open(t, notes.ModeWriter)
	if err := c.RemoveNote(999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("RemoveNote err = %v", err)
	}
	if err := c.EditNote(999, "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("EditNote err = %v", err)
	}
}

// failingKV rejects every write.
type failingKV struct {
	*storage.Memory
}

func (failingKV) Set(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func TestSaveFailureLeavesLabelStale(t *testing.T) {
	kv := failingKV{storage.NewMemory()}
	clock := clockwork.NewFakeClock()
	p := page.New(notes.WriterTitle)
	c, err := notes.New(context.Background(), notes.ModeWriter, notes.NewStore(kv), p,
		notes.WithClock(clock), notes.WithLogger(testLogger()))
	if err != nil {
		t.Fatal(err)
	}
	c.Start(context.Background())
	defer c.Stop()

	if err := c.SaveCurrentNotes(context.Background()); err == nil {
		t.Fatal("expected save error")
	}
	if p.SaveTime() != "" {
		t.Errorf("label updated despite failure: %q", p.SaveTime())
	}
}

func TestLifecycle(t *testing.T) {
	t.Run("stop before start", func(t *testing.T) {
		h := newHarness(t, "")
		p := page.New(notes.WriterTitle)
		c, err := notes.New(context.Background(), notes.ModeWriter, h.store, p, notes.WithClock(h.clock))
		if err != nil {
			t.Fatal(err)
		}
		c.Stop()
		c.Start(context.Background())
		if len(p.Values()) != 0 {
			t.Error("Start after Stop must not initialize the page")
		}
	})

	t.Run("stop twice", func(t *testing.T) {
		h := newHarness(t, "")
		c, _ := h.open(t, notes.ModeReader)
		c.Stop()
		c.Stop()
	})

	t.Run("stopped loop no longer ticks", func(t *testing.T) {
		h := newHarness(t, `["x"]`)
		c, p := h.open(t, notes.ModeWriter)
		c.Stop()
		h.clock.Advance(notes.DefaultInterval)
		time.Sleep(20 * time.Millisecond)
		if p.SaveTime() != "" || h.stored(t) != `["x"]` {
			t.Error("tick ran after Stop")
		}
	})

	t.Run("start is idempotent", func(t *testing.T) {
		h := newHarness(t, `["a"]`)
		c, p := h.open(t, notes.ModeWriter)
		c.Start(context.Background())
		if got := p.Values(); !reflect.DeepEqual(got, []string{"a"}) {
			t.Errorf("fields = %q after second Start", got)
		}
	})
}

func TestCustomInterval(t *testing.T) {
	h := newHarness(t, "")
	p := page.New(notes.WriterTitle)
	c, err := notes.New(context.Background(), notes.ModeWriter, h.store, p,
		notes.WithClock(h.clock), notes.WithInterval(5*time.Second), notes.WithLogger(testLogger()))
	if err != nil {
		t.Fatal(err)
	}
	c.Start(context.Background())
	defer c.Stop()

	h.clock.Advance(2 * time.Second)
	time.Sleep(20 * time.Millisecond)
	if p.SaveTime() != "" {
		t.Fatal("saved before the custom interval elapsed")
	}
	h.clock.Advance(3 * time.Second)
	eventually(t, 2*time.Second, 5*time.Millisecond, func() bool {
		return h.stored(t) == `[""]`
	}, "no save after custom interval")
}

func TestParseMode(t *testing.T) {
	if m, err := notes.ParseMode("Writer"); err != nil || m != notes.ModeWriter {
		t.Errorf("ParseMode(Writer) = %v, %v", m, err)
	}
	if m, err := notes.ParseMode("Reader"); err != nil || m != notes.ModeReader {
		t.Errorf("ParseMode(Reader) = %v, %v", m, err)
	}
	if _, err := notes.ParseMode("writer"); err == nil {
		t.Error("title match is case sensitive")
	}
}

func TestTimestampNoPadding(t *testing.T) {
	ts := time.Date(2026, 1, 1, 7, 3, 0, 0, time.UTC)
	if got := notes.Timestamp(ts); got != "7:3:0" {
		t.Errorf("Timestamp = %q", got)
	}
	ts = time.Date(2026, 1, 1, 23, 59, 58, 0, time.UTC)
	if got := notes.Timestamp(ts); got != "23:59:58" {
		t.Errorf("Timestamp = %q", got)
	}
}
