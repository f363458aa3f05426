// Package server serves built spreads over HTTP.
//
// The server exposes the output of `spread build` the way a deployed site
// does, so other projects can install from it by URL or point their
// registry_url at it:
//
//	GET /spread/registry.json                 built registry document
//	GET /spread/<name>@<version>.json         built descriptors
//	GET /api/github?action=getRawRegistry     registry document, central format
//	GET /healthz                              liveness probe
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/spread/pkg/spread"
)

// DefaultAddr matches the default homepage used by build.
const DefaultAddr = "localhost:3000"

// ShutdownTimeout bounds graceful shutdown after the context ends.
const ShutdownTimeout = 5 * time.Second

// Server serves the public/spread directory of a project.
type Server struct {
	dir    string
	logger *log.Logger
}

// New returns a server for the project in dir.
func New(dir string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{dir: dir, logger: logger}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/github", s.handleRegistryAPI)

	files := http.StripPrefix("/spread/", http.FileServer(http.Dir(filepath.Join(s.dir, spread.OutputDir))))
	r.Get("/spread/*", func(w http.ResponseWriter, r *http.Request) {
		if filepath.Ext(r.URL.Path) == ".json" {
			w.Header().Set("Content-Type", "application/json")
		}
		files.ServeHTTP(w, r)
	})
	return r
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving spreads", "addr", ln.Addr().String(), "dir", filepath.Join(s.dir, spread.OutputDir))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRegistryAPI answers the centralized registry's raw document action
// from the locally built registry.
func (s *Server) handleRegistryAPI(w http.ResponseWriter, r *http.Request) {
	if action := r.URL.Query().Get("action"); action != "getRawRegistry" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported action " + action})
		return
	}
	reg, err := spread.LoadRegistry(s.dir)
	if err != nil {
		s.logger.Error("failed to load registry", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load registry"})
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
