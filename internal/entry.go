// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/jotpad/internal/assets"
	"github.com/starford/jotpad/internal/server"
	"github.com/starford/jotpad/web"
)

// Run starts the static page server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger, closeLog, err := newLogger(cfg.App, app.stdout)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("assets_dir", cfg.Assets.Dir),
		slog.Bool("assets_watch", cfg.Assets.Watch),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Pick the bundle: embedded, or a directory held in memory.
	var static http.Handler
	var dir *assets.Dir
	if cfg.Assets.Dir == "" {
		static = server.FSHandler(web.Root())
	} else {
		dir, err = assets.Load(cfg.Assets.Dir, logger)
		if err != nil {
			return fmt.Errorf("init assets: %w", err)
		}
		logger.Info("Assets loaded", slog.String("root", dir.Root()), slog.Int("files", dir.Len()))
		static = dir
	}

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: server.NewRouter(static),
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Keep the in-memory bundle in step with the directory.
	if dir != nil && cfg.Assets.Watch {
		g.Go(func() error {
			if err := dir.Watch(gCtx); err != nil {
				logger.Warn("asset watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Server started", slog.String("url", "http://localhost"+cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group once the server has been shut down, so the
// watcher exits on a signal as well as on context cancellation.
var errShutdown = errors.New("shutdown")
