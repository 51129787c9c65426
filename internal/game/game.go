package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/spock74/ping-pong/internal/detector"
	"github.com/spock74/ping-pong/internal/gesture"
)

// BanterWindow bounds how long a commentary line stays in snapshots.
const BanterWindow = 5 * time.Second

// CalibrationView is the read-only calibration state exposed to the
// renderer.
type CalibrationView struct {
	Step    CalibStep `json:"step"`
	Success bool      `json:"success"`
	Range   Range     `json:"range"`
	Valid   bool      `json:"valid"`
}

// Snapshot is the read-only view of the simulation handed to the
// renderer each tick. The renderer is a passive consumer and never
// mutates core state.
type Snapshot struct {
	Status       Status          `json:"status"`
	Ball         Ball            `json:"ball"`
	PlayerY      float64         `json:"playerY"`
	ComputerY    float64         `json:"computerY"`
	Score        Score           `json:"score"`
	Winner       Side            `json:"winner,omitempty"`
	Gesture      gesture.Kind    `json:"gesture"`
	Calibration  CalibrationView `json:"calibration"`
	Banter       string          `json:"banter,omitempty"`
	SoundEnabled bool            `json:"soundEnabled"`
}

// Game owns the whole simulation core. Landmark callbacks only stage
// target values; physics state is mutated exclusively from Step, so the
// two asynchronous inputs never race on the same field.
type Game struct {
	mu sync.Mutex

	settings Settings
	machine  *Machine
	calib    *Calibrator
	smoother *Smoother
	physics  *Physics

	sourceReady bool
	lastGesture gesture.Kind

	banterLine  string
	banterUntil time.Time

	// now is the timestamp of the tick in progress, visible to physics
	// callbacks fired from within Step.
	now time.Time

	onScore      func(scorer Side, score Score)
	onGameOver   func(winner Side)
	onCalibrated func(r Range)
}

// New creates a game with the given settings. A nil rng gets a
// time-seeded source.
func New(settings Settings, rng *rand.Rand) *Game {
	if err := settings.Validate(); err != nil {
		settings = DefaultSettings()
	}

	g := &Game{
		settings:    settings,
		machine:     NewMachine(),
		calib:       NewCalibrator(),
		smoother:    NewSmoother(),
		lastGesture: gesture.Unknown,
	}
	g.physics = NewPhysics(settings.Difficulty.Params(), rng)
	g.physics.OnScore = func(scorer Side, score Score) {
		if g.onScore != nil {
			g.onScore(scorer, score)
		}
	}
	g.physics.OnWin = func(winner Side) {
		g.machine.ScheduleOver(winner, g.now)
	}

	return g
}

// SetOnScore registers the score-change hook (persistence, banter).
func (g *Game) SetOnScore(fn func(scorer Side, score Score)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onScore = fn
}

// SetOnGameOver registers the match-end hook; it fires exactly once per
// match, after the tick releases the game lock, so it may call back into
// Snapshot or Settings.
func (g *Game) SetOnGameOver(fn func(winner Side)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onGameOver = fn
}

// SetOnCalibrated registers the hook fired after a successful
// calibration, with the refined active range.
func (g *Game) SetOnCalibrated(fn func(r Range)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onCalibrated = fn
}

// SetSourceReady records whether the landmark source is operational;
// starting a match requires it.
func (g *Game) SetSourceReady(ready bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sourceReady = ready
}

// HandleFrame consumes one landmark inference frame. A nil or malformed
// frame classifies as unknown and stages no position update, which keeps
// the design correct when inference frames are dropped under load.
func (g *Game) HandleFrame(points []detector.Point3D, now time.Time) gesture.Kind {
	g.mu.Lock()
	defer g.mu.Unlock()

	kind := gesture.Classify(points)
	g.lastGesture = kind

	ev := g.machine.Apply(kind, g.sourceReady, now)
	g.applyEvent(ev, now)

	if kind == gesture.Unknown {
		return kind
	}

	rawY := points[detector.MiddleMCP].Y

	switch g.machine.Status() {
	case StatusCalibrating:
		done, ok := g.calib.Observe(rawY, now)
		if done {
			g.machine.CalibrationDone(now)
			if ok && g.onCalibrated != nil {
				g.onCalibrated(g.calib.Range())
			}
		}
	case StatusRunning, StatusPaused:
		if kind == g.settings.ControlGesture {
			if y, mapped := MapToPaddleY(rawY, g.calib.Range()); mapped {
				g.smoother.SetTarget(y)
			}
		}
	}

	return kind
}

// Step advances the simulation by dt seconds of wall-clock time. Called
// once per rendered frame.
func (g *Game) Step(dt float64, now time.Time) {
	g.mu.Lock()

	g.now = now

	var gameOver func(winner Side)
	var winner Side
	if ev := g.machine.Tick(now); ev == EventOver && g.onGameOver != nil {
		gameOver = g.onGameOver
		winner = g.machine.Winner()
	}

	switch g.machine.Status() {
	case StatusRunning:
		y := g.smoother.Step(dt)
		g.physics.Step(dt, y, now)
	case StatusPaused, StatusCalibrating:
		g.smoother.Step(dt)
	default:
		g.smoother.Reset()
	}

	if !g.banterUntil.IsZero() && now.After(g.banterUntil) {
		g.banterLine = ""
		g.banterUntil = time.Time{}
	}

	g.mu.Unlock()

	// The game-over hook runs outside the lock: consumers read the final
	// score back through Snapshot, which takes the lock again.
	if gameOver != nil {
		gameOver(winner)
	}
}

// applyEvent performs the side effects a state transition demands.
// Caller holds the lock.
func (g *Game) applyEvent(ev Event, now time.Time) {
	switch ev {
	case EventStarted:
		g.physics.ResetMatch(now)
	case EventCalibrationStarted:
		g.calib.Start()
	case EventReset:
		g.physics.Halt()
		g.calib.ClearHistory()
		g.smoother.Reset()
	case EventRestarted:
		g.physics.Halt()
	}
}

// RequestStart handles an explicit start request from the UI.
func (g *Game) RequestStart(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	ev := g.machine.RequestStart(g.sourceReady, now)
	g.applyEvent(ev, now)
	return ev != EventNone
}

// RequestCalibration handles an explicit calibration request.
func (g *Game) RequestCalibration(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	ev := g.machine.RequestCalibration(now)
	g.applyEvent(ev, now)
	return ev != EventNone
}

// RequestPauseToggle handles an explicit pause/resume request.
func (g *Game) RequestPauseToggle(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	ev := g.machine.RequestPauseToggle(now)
	g.applyEvent(ev, now)
	return ev != EventNone
}

// RequestReset handles an explicit full-reset request.
func (g *Game) RequestReset(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	ev := g.machine.RequestReset(now)
	g.applyEvent(ev, now)
	return ev != EventNone
}

// RequestRestart leaves the game-over screen.
func (g *Game) RequestRestart(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	ev := g.machine.RequestRestart(now)
	g.applyEvent(ev, now)
	return ev != EventNone
}

// SetBanter installs a commentary line that expires after BanterWindow.
func (g *Game) SetBanter(line string, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.banterLine = line
	g.banterUntil = now.Add(BanterWindow)
}

// SeedCalibration loads a persisted range into the calibration history.
func (g *Game) SeedCalibration(r Range) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calib.Seed(r)
}

// Settings returns the current settings.
func (g *Game) Settings() Settings {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.settings
}

// UpdateSettings applies validated settings; difficulty changes reach the
// physics engine immediately.
func (g *Game) UpdateSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.settings = s
	g.physics.SetParams(s.Difficulty.Params())
	return nil
}

// Status returns the current game mode.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.machine.Status()
}

// Snapshot captures the read-only view of the simulation for rendering.
func (g *Game) Snapshot(now time.Time) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, valid := g.calib.Active()

	snap := Snapshot{
		Status:    g.machine.Status(),
		Ball:      g.physics.Ball(),
		PlayerY:   g.smoother.Current(),
		ComputerY: g.physics.AIY(),
		Score:     g.physics.Score(),
		Gesture:   g.lastGesture,
		Calibration: CalibrationView{
			Step:    g.calib.Step(now),
			Success: g.calib.SuccessVisible(now),
			Range:   r,
			Valid:   valid,
		},
		Banter:       g.banterLine,
		SoundEnabled: g.settings.SoundEnabled,
	}
	if snap.Status == StatusOver {
		snap.Winner = g.machine.Winner()
	}

	return snap
}
