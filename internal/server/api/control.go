// Package api provides the HTTP API handlers for the game server.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/spock74/ping-pong/internal/game"
)

// Controller is the surface the API needs from the running game. The
// application wires its game instance in; tests substitute a stub.
type Controller interface {
	Snapshot() game.Snapshot
	Start() bool
	TogglePause() bool
	Reset() bool
	Calibrate() bool
	Restart() bool
	Settings() game.Settings
	UpdateSettings(game.Settings) error
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ControlHandler handles game control requests from the UI. Every action
// a transition gesture can trigger is also reachable here, so the game
// stays playable when hand tracking is unavailable.
type ControlHandler struct {
	controller Controller
}

// NewControlHandler creates a new ControlHandler with the given controller.
func NewControlHandler(c Controller) *ControlHandler {
	return &ControlHandler{controller: c}
}

type controlRequest struct {
	Action string `json:"action"`
}

type controlResponse struct {
	Accepted bool        `json:"accepted"`
	Status   game.Status `json:"status"`
}

// ServeHTTP handles POST /api/control.
func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var accepted bool
	switch req.Action {
	case "start":
		accepted = h.controller.Start()
	case "pause":
		accepted = h.controller.TogglePause()
	case "reset":
		accepted = h.controller.Reset()
	case "calibrate":
		accepted = h.controller.Calibrate()
	case "restart":
		accepted = h.controller.Restart()
	default:
		writeError(w, http.StatusBadRequest, "Unknown action")
		return
	}

	writeJSON(w, http.StatusOK, controlResponse{
		Accepted: accepted,
		Status:   h.controller.Snapshot().Status,
	})
}
