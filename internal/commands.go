package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/starford/jotpad/internal/mcpserver"
	"github.com/starford/jotpad/internal/notes"
	"github.com/starford/jotpad/internal/storage"
	"github.com/starford/jotpad/internal/termview"
)

// session bundles what the note commands share: logger, backend and store.
// Logs go to stderr so command output stays clean.
type session struct {
	app      *application
	logger   *slog.Logger
	kv       storage.Provider
	store    *notes.Store
	closeLog func() error
}

func openSession(opts []Option) (*session, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := newLogger(app.config.App, app.stderr)
	if err != nil {
		return nil, err
	}
	kv, err := openStorage(app.config.Storage)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return &session{
		app:      app,
		logger:   logger,
		kv:       kv,
		store:    notes.NewStore(kv),
		closeLog: closeLog,
	}, nil
}

func (s *session) Close() {
	if err := s.kv.Close(); err != nil {
		s.logger.Warn("close storage failed", slog.String("error", err.Error()))
	}
	_ = s.closeLog()
}

// ListNotes prints the stored notes, numbered from 1.
func ListNotes(ctx context.Context, opts ...Option) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	list, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	termview.List(s.app.stdout, list)
	return nil
}

// AddNote appends text to the stored list.
func AddNote(ctx context.Context, text string, opts ...Option) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	list, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	list = append(list, text)
	if err := s.store.Save(ctx, list); err != nil {
		return err
	}
	s.logger.Debug("note added", slog.Int("count", len(list)))
	return nil
}

// RemoveNote deletes the note at the 1-based position index.
func RemoveNote(ctx context.Context, index int, opts ...Option) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	list, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if index < 1 || index > len(list) {
		return fmt.Errorf("no note %d (have %d)", index, len(list))
	}
	list = append(list[:index-1], list[index:]...)
	if err := s.store.Save(ctx, list); err != nil {
		return err
	}
	s.logger.Debug("note removed", slog.Int("index", index), slog.Int("count", len(list)))
	return nil
}

// ReadNotes runs a reader page against the configured backend, printing the
// notes whenever they change until interrupted. With once set it prints the
// current notes and returns.
func ReadNotes(ctx context.Context, once bool, opts ...Option) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	ctrl, err := notes.New(ctx, notes.ModeReader, s.store, termview.New(s.app.stdout),
		notes.WithInterval(s.app.config.Notes.Interval),
		notes.WithLogger(s.logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl.Start(ctx)
	defer ctrl.Stop()

	if once {
		return nil
	}
	<-ctx.Done()
	return nil
}

// ServeMCP serves the note list over MCP on stdin/stdout.
func ServeMCP(ctx context.Context, opts ...Option) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	s.logger.Info("MCP server starting", slog.String("storage", s.app.config.Storage.Driver))
	return mcpserver.New(s.store).ServeStdio(ctx)
}
