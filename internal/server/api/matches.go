package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/spock74/ping-pong/internal/store"
)

// MatchesHandler handles HTTP requests for the match history.
type MatchesHandler struct {
	store *store.Store
}

// NewMatchesHandler creates a new MatchesHandler with the given store.
func NewMatchesHandler(s *store.Store) *MatchesHandler {
	return &MatchesHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *MatchesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/matches or /api/matches/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/matches")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/matches
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/matches/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type matchResponse struct {
	ID            string `json:"id"`
	PlayerScore   int    `json:"player_score"`
	ComputerScore int    `json:"computer_score"`
	Winner        string `json:"winner"`
	Difficulty    string `json:"difficulty"`
	CreatedAt     string `json:"created_at"`
}

type listMatchesResponse struct {
	Matches []matchResponse `json:"matches"`
}

// toMatchResponse converts a store.Match to a matchResponse.
func toMatchResponse(m *store.Match) matchResponse {
	return matchResponse{
		ID:            m.ID,
		PlayerScore:   m.PlayerScore,
		ComputerScore: m.ComputerScore,
		Winner:        m.Winner,
		Difficulty:    m.Difficulty,
		CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// list handles GET /api/matches and returns recent matches, newest first.
// An optional limit query parameter caps the result size.
func (h *MatchesHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	matches, err := h.store.Matches().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list matches")
		return
	}

	response := listMatchesResponse{
		Matches: make([]matchResponse, 0, len(matches)),
	}

	for _, m := range matches {
		response.Matches = append(response.Matches, toMatchResponse(m))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/matches/{id} and returns a single match.
func (h *MatchesHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	match, err := h.store.Matches().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Match not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get match")
		return
	}

	writeJSON(w, http.StatusOK, toMatchResponse(match))
}

// delete handles DELETE /api/matches/{id} and removes a match from the
// history.
func (h *MatchesHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Matches().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Match not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete match")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
