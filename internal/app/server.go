package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vk/shapec/internal/ctxlog"
)

const (
	// maxSourceBytes bounds the request body of /compile.
	maxSourceBytes = 1 << 20

	shutdownTimeout = 5 * time.Second
)

type compileRequest struct {
	Source string `json:"source"`
}

// healthHandler reports that the server is up.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// compileHandler compiles the posted source and answers with the host
// boundary result. Compile errors are part of a 200 response; only malformed
// requests are rejected.
func (a *App) compileHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req compileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSourceBytes))
	if err := dec.Decode(&req); err != nil {
		a.logger.Debug("Rejected compile request.", "remote_addr", r.RemoteAddr, "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx := ctxlog.WithLogger(r.Context(), a.logger)
	res := a.compiler.Result(ctx, req.Source)
	a.logger.Debug("Compile request served.", "remote_addr", r.RemoteAddr, "failed", res.Error != nil)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		a.logger.Error("Failed to write compile response.", "error", err)
	}
}

// Handler returns the HTTP routes of serve mode.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/compile", a.compileHandler)
	return mux
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (a *App) serve(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	addr := fmt.Sprintf(":%d", a.config.ServePort)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	a.httpServer = &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Compile server starting", "address", fmt.Sprintf("http://localhost%s/compile", addr))
		// Serve returns http.ErrServerClosed on graceful shutdown.
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("compile server failed: %w", err)
	case <-ctx.Done():
	}

	return a.closeServer(ctx)
}

func (a *App) closeServer(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Closing compile server...")

	if a.httpServer == nil {
		logger.Debug("Compile server was not running.")
		return nil
	}

	// The parent context is already cancelled, so the shutdown gets its own.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down compile server...")
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Compile server shutdown failed", "error", err)
		return err
	}

	logger.Debug("Compile server shut down gracefully.")
	return nil
}
