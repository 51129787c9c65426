package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spock74/ping-pong/internal/game"
	"github.com/spock74/ping-pong/internal/gesture"
)

func TestSettingsHandler_Get(t *testing.T) {
	stub := &stubController{settings: game.DefaultSettings()}
	h := NewSettingsHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var got game.Settings
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got != game.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", got)
	}
}

func TestSettingsHandler_PartialUpdateKeepsOmittedFields(t *testing.T) {
	stub := &stubController{settings: game.DefaultSettings()}
	h := NewSettingsHandler(stub)

	req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{"difficulty":"hard"}`))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if stub.settings.Difficulty != game.DifficultyHard {
		t.Errorf("difficulty = %q, want hard", stub.settings.Difficulty)
	}
	if stub.settings.ControlGesture != gesture.Fist {
		t.Errorf("control gesture = %q, omitted field should keep its value", stub.settings.ControlGesture)
	}
}

func TestSettingsHandler_RejectsInvalidSettings(t *testing.T) {
	stub := &stubController{
		settings:  game.DefaultSettings(),
		updateErr: errors.New("unknown difficulty"),
	}
	h := NewSettingsHandler(stub)

	req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{"difficulty":"impossible"}`))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestSettingsHandler_RejectsInvalidJSON(t *testing.T) {
	h := NewSettingsHandler(&stubController{settings: game.DefaultSettings()})

	req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestSettingsHandler_OnlyAllowsGetAndPut(t *testing.T) {
	h := NewSettingsHandler(&stubController{})

	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/settings", nil)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}
