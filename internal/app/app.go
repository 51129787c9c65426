// Package app wires the capture, detection, game and persistence layers
// into the running application.
package app

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/spock74/ping-pong/internal/banter"
	"github.com/spock74/ping-pong/internal/capture"
	"github.com/spock74/ping-pong/internal/detector"
	"github.com/spock74/ping-pong/internal/game"
	"github.com/spock74/ping-pong/internal/gesture"
	"github.com/spock74/ping-pong/internal/server/api"
	"github.com/spock74/ping-pong/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the inference rate while the scene is still and no match
	// is in progress.
	IdleFPS = 5
	// ActiveFPS is the inference rate during gameplay or detected motion.
	ActiveFPS = 15
	// IdleTimeoutMs is how long after the last motion the pipeline drops
	// back to the idle rate.
	IdleTimeoutMs = 2000
	// SimulationHz is the physics tick rate.
	SimulationHz = 60
)

// Settings keys in the store.
const (
	settingDifficulty     = "difficulty"
	settingControlGesture = "control_gesture"
	settingSoundEnabled   = "sound_enabled"
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	BanterURL    string
}

// App orchestrates the two pipelines: camera frames into the game core,
// and the fixed-rate simulation tick.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	game     *game.Game
	banter   *banter.Client

	mu     sync.Mutex
	stopCh chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config: config,
		camera: capture.NewCamera(config.CameraID),
		motion: capture.NewMotionDetector(motionThreshold),
		banter: banter.New(banter.Config{BaseURL: config.BanterURL}, nil),
	}

	a.game = game.New(a.loadSettings(), nil)
	a.seedCalibration()
	a.wireHooks()

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// loadSettings builds the game settings from the store, falling back to
// defaults for missing or invalid values.
func (a *App) loadSettings() game.Settings {
	settings := game.DefaultSettings()
	if a.config.Store == nil {
		return settings
	}

	repo := a.config.Store.Settings()
	if v, err := repo.Get(settingDifficulty); err == nil {
		settings.Difficulty = game.Difficulty(v)
	}
	if v, err := repo.Get(settingControlGesture); err == nil {
		settings.ControlGesture = gesture.Kind(v)
	}
	if v, err := repo.Get(settingSoundEnabled); err == nil {
		if b, err := strconv.ParseBool(v); err == nil {
			settings.SoundEnabled = b
		}
	}

	if err := settings.Validate(); err != nil {
		log.Printf("Stored settings invalid (%v), using defaults", err)
		return game.DefaultSettings()
	}
	return settings
}

// seedCalibration loads the most recent persisted calibration into the
// game's history.
func (a *App) seedCalibration() {
	if a.config.Store == nil {
		return
	}

	c, err := a.config.Store.Calibrations().Latest()
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Failed to load calibration: %v", err)
		}
		return
	}

	a.game.SeedCalibration(game.Range{Min: c.Min, Max: c.Max})
	log.Printf("Loaded calibration range [%.3f, %.3f]", c.Min, c.Max)
}

// wireHooks connects game events to persistence and commentary. The score
// and calibration hooks fire with the game lock held, so anything that
// touches the game or does I/O is pushed to a goroutine; the game-over
// hook fires after the tick releases the lock and may read state directly.
func (a *App) wireHooks() {
	a.game.SetOnScore(func(scorer game.Side, score game.Score) {
		go func() {
			line := a.banter.Line(context.Background(), string(scorer), score.Player, score.Computer)
			a.game.SetBanter(line, time.Now())
		}()
	})

	a.game.SetOnGameOver(func(winner game.Side) {
		snap := a.game.Snapshot(time.Now())
		settings := a.game.Settings()
		go a.recordMatch(winner, snap.Score, settings.Difficulty)
	})

	a.game.SetOnCalibrated(func(r game.Range) {
		go a.recordCalibration(r)
	})
}

func (a *App) recordMatch(winner game.Side, score game.Score, difficulty game.Difficulty) {
	if a.config.Store == nil {
		return
	}

	m := &store.Match{
		PlayerScore:   score.Player,
		ComputerScore: score.Computer,
		Winner:        string(winner),
		Difficulty:    string(difficulty),
	}
	if err := a.config.Store.Matches().Create(m); err != nil {
		log.Printf("Failed to record match: %v", err)
		return
	}
	log.Printf("Match recorded: %d-%d, %s wins", score.Player, score.Computer, winner)
}

func (a *App) recordCalibration(r game.Range) {
	if a.config.Store == nil {
		return
	}

	c := &store.Calibration{Min: r.Min, Max: r.Max}
	if err := a.config.Store.Calibrations().Create(c); err != nil {
		log.Printf("Failed to record calibration: %v", err)
	}
}

// SetCamera replaces the camera implementation; call before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetDetector replaces the hand detector implementation; call before Start.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Start opens the camera and begins the detection and simulation loops.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runDetection(a.stopCh)
	go a.runSimulation(a.stopCh)

	log.Println("Pipelines started")
	return nil
}

// Stop halts both loops and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Pipelines stopped")
}

// Game returns the simulation core.
func (a *App) Game() *game.Game {
	return a.game
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.camera
}

// Controller adapts the app to the HTTP API's control surface. The
// adapter exists because the app's Start starts the pipelines, while the
// API's Start starts a match.
func (a *App) Controller() api.Controller {
	return controller{app: a}
}

type controller struct {
	app *App
}

func (c controller) Snapshot() game.Snapshot              { return c.app.Snapshot() }
func (c controller) Start() bool                          { return c.app.StartMatch() }
func (c controller) TogglePause() bool                    { return c.app.TogglePause() }
func (c controller) Reset() bool                          { return c.app.Reset() }
func (c controller) Calibrate() bool                      { return c.app.Calibrate() }
func (c controller) Restart() bool                        { return c.app.Restart() }
func (c controller) Settings() game.Settings              { return c.app.Settings() }
func (c controller) UpdateSettings(s game.Settings) error { return c.app.UpdateSettings(s) }

// Snapshot returns the current render view.
func (a *App) Snapshot() game.Snapshot {
	return a.game.Snapshot(time.Now())
}

// StartMatch begins a match, if the game is idle and landmarks are
// flowing.
func (a *App) StartMatch() bool {
	return a.game.RequestStart(time.Now())
}

// TogglePause flips between running and paused.
func (a *App) TogglePause() bool {
	return a.game.RequestPauseToggle(time.Now())
}

// Reset abandons the match and forgets the stored calibration.
func (a *App) Reset() bool {
	if !a.game.RequestReset(time.Now()) {
		return false
	}
	if a.config.Store != nil {
		if err := a.config.Store.Calibrations().DeleteAll(); err != nil {
			log.Printf("Failed to clear calibrations: %v", err)
		}
	}
	return true
}

// Calibrate enters the calibration flow.
func (a *App) Calibrate() bool {
	return a.game.RequestCalibration(time.Now())
}

// Restart leaves the game-over screen.
func (a *App) Restart() bool {
	return a.game.RequestRestart(time.Now())
}

// Settings returns the current player settings.
func (a *App) Settings() game.Settings {
	return a.game.Settings()
}

// UpdateSettings applies and persists new player settings.
func (a *App) UpdateSettings(s game.Settings) error {
	if err := a.game.UpdateSettings(s); err != nil {
		return err
	}

	if a.config.Store != nil {
		repo := a.config.Store.Settings()
		pairs := map[string]string{
			settingDifficulty:     string(s.Difficulty),
			settingControlGesture: string(s.ControlGesture),
			settingSoundEnabled:   strconv.FormatBool(s.SoundEnabled),
		}
		for key, value := range pairs {
			if err := repo.Set(key, value); err != nil {
				log.Printf("Failed to persist setting %s: %v", key, err)
			}
		}
	}

	return nil
}
