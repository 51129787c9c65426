// Package game implements the Pong simulation core: calibration, paddle
// position mapping and smoothing, ball physics, and the match state
// machine. All state in this package is mutated only from the owner's
// tick callbacks.
package game

import (
	"fmt"

	"github.com/spock74/ping-pong/internal/gesture"
)

// Difficulty selects the AI paddle speed and the initial ball speed.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyParams are the tunables a difficulty level resolves to,
// in pixels per second.
type DifficultyParams struct {
	AISpeed   float64
	BallSpeed float64
}

// Params returns the tuning for the difficulty level. Unrecognized values
// fall back to medium.
func (d Difficulty) Params() DifficultyParams {
	switch d {
	case DifficultyEasy:
		return DifficultyParams{AISpeed: 220, BallSpeed: 300}
	case DifficultyHard:
		return DifficultyParams{AISpeed: 440, BallSpeed: 470}
	default:
		return DifficultyParams{AISpeed: 320, BallSpeed: 380}
	}
}

// Valid reports whether d names a known difficulty level.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Settings are the player-facing options recognized by the core.
// SoundEnabled has no effect on simulation logic; it is carried through
// snapshots for the audio collaborator only.
type Settings struct {
	Difficulty     Difficulty   `json:"difficulty"`
	ControlGesture gesture.Kind `json:"controlGesture"`
	SoundEnabled   bool         `json:"soundEnabled"`
}

// DefaultSettings returns the settings used before the player changes
// anything.
func DefaultSettings() Settings {
	return Settings{
		Difficulty:     DifficultyMedium,
		ControlGesture: gesture.Fist,
		SoundEnabled:   true,
	}
}

// Validate checks that every option names a recognized value.
func (s Settings) Validate() error {
	if !s.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", s.Difficulty)
	}
	if s.ControlGesture != gesture.Fist && s.ControlGesture != gesture.Pointer {
		return fmt.Errorf("unsupported control gesture %q", s.ControlGesture)
	}
	return nil
}
