package api

import (
	"encoding/json"
	"net/http"
)

// SettingsHandler handles reads and writes of the player settings.
type SettingsHandler struct {
	controller Controller
}

// NewSettingsHandler creates a new SettingsHandler with the given
// controller.
func NewSettingsHandler(c Controller) *SettingsHandler {
	return &SettingsHandler{controller: c}
}

// ServeHTTP handles GET and PUT /api/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.controller.Settings())
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// update applies a full settings document. Partial updates start from the
// current settings, so omitted fields keep their values.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	settings := h.controller.Settings()
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.controller.UpdateSettings(settings); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.controller.Settings())
}
