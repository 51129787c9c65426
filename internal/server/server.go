// Package server provides the HTTP server for the gesture-controlled Pong
// application.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/spock74/ping-pong/internal/capture"
	"github.com/spock74/ping-pong/internal/server/api"
	"github.com/spock74/ping-pong/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir  string
	Store      *store.Store
	Camera     capture.Camera
	Controller api.Controller
}

// Server represents the HTTP server for the application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register game endpoints if a Controller is configured
	if s.config.Controller != nil {
		s.mux.HandleFunc("/api/snapshot", s.handleSnapshot)
		s.mux.Handle("/api/control", api.NewControlHandler(s.config.Controller))
		s.mux.Handle("/api/settings", api.NewSettingsHandler(s.config.Controller))

		stateHandler := NewStateHandler(s.config.Controller)
		s.mux.Handle("/api/state", stateHandler)
	}

	// Register match history endpoints if Store is configured
	if s.config.Store != nil {
		matchesHandler := api.NewMatchesHandler(s.config.Store)
		s.mux.Handle("/api/matches", matchesHandler)
		s.mux.Handle("/api/matches/", matchesHandler)
	}

	// Register camera preview endpoint if Camera is configured
	if s.config.Camera != nil {
		streamHandler := NewStreamHandler(s.config.Camera)
		s.mux.Handle("/api/stream", streamHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleSnapshot handles GET requests to /api/snapshot. It serves the same
// view the WebSocket feed broadcasts, for clients that prefer polling.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.config.Controller.Snapshot()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
