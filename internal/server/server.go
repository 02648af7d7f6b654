// Package server provides the HTTP side of posejump: health, live game
// state, the completion log, an MJPEG feed of the annotated webcam and a
// websocket of pose lines.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ayusman/posejump/internal/game"
	"github.com/ayusman/posejump/internal/pose"
	"github.com/ayusman/posejump/internal/server/api"
	"github.com/ayusman/posejump/internal/store"
)

// Config holds the server configuration. Every field is optional; routes
// whose source is missing are not registered.
type Config struct {
	StaticDir string
	Store     *store.Store
	SessionID string
	Poses     *pose.Handoff
	Status    func() game.Status
	// FrameInterval is the poll period of the stream and landmark feeds.
	FrameInterval time.Duration
}

// DefaultFrameInterval polls the handoff at about 15 FPS.
const DefaultFrameInterval = 66 * time.Millisecond

// Server is the HTTP server for the game.
type Server struct {
	config    Config
	mux       *http.ServeMux
	start     time.Time
	landmarks *LandmarksHandler
	http      *http.Server
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultFrameInterval
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Status != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
	}

	if s.config.Store != nil {
		completions := api.NewCompletionsHandler(s.config.Store, s.config.SessionID)
		s.mux.Handle("/api/completions", completions)
		s.mux.Handle("/api/completions/", completions)
	}

	if s.config.Poses != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Poses, s.config.FrameInterval))
		s.landmarks = NewLandmarksHandler(s.config.Poses, s.config.FrameInterval)
		s.mux.Handle("/api/landmarks", s.landmarks)
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// handleState returns the latest game.Status published by the game loop.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(s.config.Status()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s}
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the listener and the landmark broadcaster.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.landmarks != nil {
		s.landmarks.Close()
	}
	if s.http == nil {
		return nil
	}
	if err := s.http.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
		return err
	}
	return nil
}
