package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/vk/shapec/internal/compiler"
	"github.com/vk/shapec/internal/ctxlog"
)

// ErrCompileFailed is returned by Run when at least one document did not
// compile. Its diagnostics have already been written by then.
var ErrCompileFailed = errors.New("compilation failed")

// Streams are the process streams an App talks to.
type Streams struct {
	In  io.Reader // source text when reading from stdin
	Out io.Writer // compiled SVG in single mode without an output path
	Err io.Writer // logs and diagnostics
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	streams  Streams
	logger   *slog.Logger
	config   *Config
	compiler *compiler.Compiler

	// errMu serializes diagnostic output from concurrent documents.
	errMu sync.Mutex

	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger and a compiler with the configured libraries
// loaded. Build files may add more libraries when Run starts.
func NewApp(streams Streams, cfg *Config) (*App, error) {
	if streams.Err == nil {
		streams.Err = io.Discard
	}
	if streams.Out == nil {
		streams.Out = io.Discard
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, streams.Err)
	logger.Debug("Logger configured successfully.", "mode", cfg.mode())

	a := &App{
		streams:  streams,
		logger:   logger,
		config:   cfg,
		compiler: compiler.New(),
	}

	if len(cfg.LibraryPaths) > 0 {
		ctx := ctxlog.WithLogger(context.Background(), logger)
		if err := a.loadLibraries(ctx, cfg.LibraryPaths); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Compiler returns the application's compiler. This is primarily for testing.
func (a *App) Compiler() *compiler.Compiler {
	return a.compiler
}
