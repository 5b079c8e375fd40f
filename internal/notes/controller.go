package notes

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/starford/jotpad/internal/apperr"
)

// Controller owns the in-memory note list of one page and keeps its view and
// the store in sync on a fixed interval.
//
// The note list (and, for writers, the entry list) is the source of truth;
// the view is rendered from it. A single mutex serializes ticks and user
// operations so the controller behaves like a single-threaded page.
//
// Lifecycle methods (Start, Stop) are safe for concurrent use.
type Controller struct {
	id       string
	mode     Mode
	store    *Store
	view     View
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger

	mu      sync.Mutex
	notes   []string
	entries []Entry
	nextID  EntryID

	lifeMu  sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a controller for the given page mode and loads the note list
// once. A load failure (including a corrupt stored value) is returned as is;
// there is no fallback to an empty list.
func New(ctx context.Context, mode Mode, store *Store, view View, opts ...Option) (*Controller, error) {
	if mode != ModeWriter && mode != ModeReader {
		return nil, fmt.Errorf("notes: invalid mode %s", mode)
	}
	if store == nil || view == nil {
		return nil, fmt.Errorf("notes: store and view are required")
	}

	c := &Controller{
		id:       uuid.NewString(),
		mode:     mode,
		store:    store,
		view:     view,
		interval: DefaultInterval,
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("controller", c.id), slog.String("mode", mode.String()))

	loaded, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.notes = loaded
	return c, nil
}

// Mode returns the page mode the controller was created for.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Notes returns a copy of the current note list: the last loaded list for a
// reader, the last saved list for a writer.
func (c *Controller) Notes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.notes...)
}

// Entries returns a copy of the writer's editable entries.
func (c *Controller) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry{}, c.entries...)
}

// Start initializes the page and begins the polling loop.
//
// A writer gets one editable entry per loaded note (or a single empty entry
// when there are none) and then saves every interval. A reader displays the
// loaded notes immediately and then reloads and redisplays every interval.
//
// Start is non-blocking and idempotent. If Stop was called first, Start is a
// no-op.
func (c *Controller) Start(ctx context.Context) {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()
	if c.started || c.stopped {
		return
	}
	c.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	switch c.mode {
	case ModeWriter:
		c.initializeWriter()
	case ModeReader:
		c.initializeReader()
	}

	// Created before returning so a fake clock sees the ticker immediately.
	ticker := c.clock.NewTicker(c.interval)
	c.wg.Add(1)
	go c.loop(loopCtx, ticker)

	c.logger.Debug("notes: polling started", slog.Duration("interval", c.interval))
}

// Stop halts the polling loop and waits for an in-flight tick to finish.
// Stop is idempotent and safe to call before Start.
func (c *Controller) Stop() {
	c.lifeMu.Lock()
	if !c.stopped {
		c.stopped = true
		if c.cancel != nil {
			c.cancel()
		}
	}
	c.lifeMu.Unlock()

	c.wg.Wait()
}

func (c *Controller) initializeWriter() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = c.entries[:0]
	for _, text := range c.notes {
		c.entries = append(c.entries, c.newEntry(text))
	}
	if len(c.entries) == 0 {
		c.entries = append(c.entries, c.newEntry(""))
	}
	c.view.RenderEditor(c.entriesCopy())
}

func (c *Controller) initializeReader() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.displayLocked()
}

func (c *Controller) loop(ctx context.Context, ticker clockwork.Ticker) {
	defer c.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("notes: polling stopped")
			return
		case <-ticker.Chan():
			c.tick(ctx)
		}
	}
}

// tick runs one save (writer) or reload+display (reader) pass. Failures are
// logged and leave the timestamps stale; the loop keeps running.
func (c *Controller) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			c.logger.Error("notes: tick panic",
				slog.String("correlation_id", correlationID),
				slog.String("panic", fmt.Sprintf("%v", r)),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	switch c.mode {
	case ModeWriter:
		if err := c.SaveCurrentNotes(ctx); err != nil {
			c.logger.Warn("notes: save failed", slog.String("error", err.Error()))
		}
	case ModeReader:
		if err := c.Reload(ctx); err != nil {
			c.logger.Warn("notes: reload failed", slog.String("error", err.Error()))
			return
		}
		if err := c.DisplayNotes(); err != nil {
			c.logger.Warn("notes: display failed", slog.String("error", err.Error()))
		}
	}
}

// AddNote appends an empty editable entry. It is persisted on the next save.
func (c *Controller) AddNote() (EntryID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeWriter {
		return 0, apperr.ErrWrongMode
	}

	e := c.newEntry("")
	c.entries = append(c.entries, e)
	c.view.RenderEditor(c.entriesCopy())
	return e.ID, nil
}

// EditNote records new text for an entry. It is persisted on the next save.
func (c *Controller) EditNote(id EntryID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeWriter {
		return apperr.ErrWrongMode
	}

	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("notes: entry %d: %w", id, apperr.ErrNotFound)
	}
	c.entries[i].Text = text
	return nil
}

// RemoveNote drops an entry and its field. Like add and edit, the removal is
// persisted on the next save.
func (c *Controller) RemoveNote(id EntryID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeWriter {
		return apperr.ErrWrongMode
	}

	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("notes: entry %d: %w", id, apperr.ErrNotFound)
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	c.view.RenderEditor(c.entriesCopy())
	return nil
}

// SaveCurrentNotes writes the entry texts, in order, over the stored list
// without diffing and stamps the save label. On failure the label is left
// unchanged.
func (c *Controller) SaveCurrentNotes(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeWriter {
		return apperr.ErrWrongMode
	}

	snapshot := make([]string, len(c.entries))
	for i, e := range c.entries {
		snapshot[i] = e.Text
	}
	if err := c.store.Save(ctx, snapshot); err != nil {
		return err
	}
	c.notes = snapshot
	c.view.SetSaveTime(SavedPrefix + Timestamp(c.clock.Now()))
	return nil
}

// Reload re-reads the stored list into memory.
func (c *Controller) Reload(ctx context.Context) error {
	if c.mode != ModeReader {
		return apperr.ErrWrongMode
	}
	loaded, err := c.store.Load(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.notes = loaded
	c.mu.Unlock()
	return nil
}

// DisplayNotes re-renders the read-only display from the in-memory list and
// stamps the retrieval label.
func (c *Controller) DisplayNotes() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeReader {
		return apperr.ErrWrongMode
	}
	c.displayLocked()
	return nil
}

func (c *Controller) displayLocked() {
	c.view.RenderDisplay(append([]string{}, c.notes...))
	c.view.SetRetrievalTime(RetrievedPrefix + Timestamp(c.clock.Now()))
}

func (c *Controller) newEntry(text string) Entry {
	c.nextID++
	return Entry{ID: c.nextID, Text: text}
}

func (c *Controller) indexOf(id EntryID) int {
	for i, e := range c.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) entriesCopy() []Entry {
	return append([]Entry{}, c.entries...)
}
