package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/spock74/ping-pong/internal/detector"
	"github.com/spock74/ping-pong/internal/gesture"
)

var gameEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestGame() *Game {
	g := New(DefaultSettings(), rand.New(rand.NewSource(1)))
	g.SetSourceReady(true)
	return g
}

// handAtY returns a control-gesture frame with the tracked landmark moved
// to the given normalized height.
func handAtY(y float64) []detector.Point3D {
	h := detector.FistHand()
	h.Points[detector.MiddleMCP].Y = y
	return h.Landmarks()
}

func TestGame_StartRequiresReadySource(t *testing.T) {
	g := New(DefaultSettings(), rand.New(rand.NewSource(1)))

	g.HandleFrame(detector.ThumbsUpHand().Landmarks(), gameEpoch)
	if g.Status() != StatusIdle {
		t.Fatalf("status = %q without a ready source, want idle", g.Status())
	}

	g.SetSourceReady(true)
	if kind := g.HandleFrame(detector.ThumbsUpHand().Landmarks(), gameEpoch.Add(2*time.Second)); kind != gesture.ThumbsUp {
		t.Fatalf("classified %q, want thumbs_up", kind)
	}
	if g.Status() != StatusRunning {
		t.Fatalf("status = %q, want running", g.Status())
	}

	snap := g.Snapshot(gameEpoch.Add(2 * time.Second))
	if snap.Score != (Score{}) {
		t.Fatalf("score = %+v at match start, want zero", snap.Score)
	}
}

func TestGame_OnlyControlGestureMovesPaddle(t *testing.T) {
	g := newTestGame()
	now := gameEpoch

	g.HandleFrame(detector.ThumbsUpHand().Landmarks(), now)

	// A pointer frame is not the default control gesture; the paddle must
	// hold its position.
	now = now.Add(100 * time.Millisecond)
	g.HandleFrame(detector.PointerHand().Landmarks(), now)
	for i := 0; i < 10; i++ {
		now = now.Add(time.Second / 60)
		g.Step(1.0/60, now)
	}
	if y := g.Snapshot(now).PlayerY; y != FieldHeight/2 {
		t.Fatalf("non-control gesture moved the paddle to %f", y)
	}

	// A fist at the top of the frame stages a new target.
	g.HandleFrame(handAtY(0.0), now)
	for i := 0; i < 10; i++ {
		now = now.Add(time.Second / 60)
		g.Step(1.0/60, now)
	}
	if y := g.Snapshot(now).PlayerY; y >= FieldHeight/2 {
		t.Fatalf("control gesture did not move the paddle: %f", y)
	}
}

func TestGame_ControlGestureSettingSwaps(t *testing.T) {
	g := newTestGame()
	now := gameEpoch

	s := g.Settings()
	s.ControlGesture = gesture.Pointer
	if err := g.UpdateSettings(s); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	g.HandleFrame(detector.ThumbsUpHand().Landmarks(), now)

	now = now.Add(100 * time.Millisecond)
	g.HandleFrame(detector.PointerHand().Landmarks(), now)
	for i := 0; i < 10; i++ {
		now = now.Add(time.Second / 60)
		g.Step(1.0/60, now)
	}
	if y := g.Snapshot(now).PlayerY; y == FieldHeight/2 {
		t.Fatal("pointer did not move the paddle after being made the control gesture")
	}
}

func TestGame_InvalidSettingsRejected(t *testing.T) {
	g := newTestGame()

	s := g.Settings()
	s.Difficulty = "impossible"
	if err := g.UpdateSettings(s); err == nil {
		t.Fatal("unknown difficulty accepted")
	}
	if g.Settings().Difficulty != DifficultyMedium {
		t.Fatalf("settings changed despite validation failure: %+v", g.Settings())
	}

	s = g.Settings()
	s.ControlGesture = gesture.Victory
	if err := g.UpdateSettings(s); err == nil {
		t.Fatal("reserved transition gesture accepted as control gesture")
	}
}

func TestGame_MatchPointToGameOver(t *testing.T) {
	g := newTestGame()
	now := gameEpoch

	g.HandleFrame(detector.ThumbsUpHand().Landmarks(), now)

	var scoreCalls, overCalls int
	var winner Side
	g.SetOnScore(func(scorer Side, score Score) { scoreCalls++ })
	g.SetOnGameOver(func(w Side) {
		overCalls++
		winner = w
	})

	// Rig a match point: 4-2 with the ball about to exit on the computer
	// side, past the AI paddle's reach.
	g.physics.score = Score{Player: 4, Computer: 2}
	g.physics.waitingServe = false
	g.physics.ball = Ball{X: 1200, Y: 100, VX: 1000, VY: 0}

	now = now.Add(2 * time.Second)
	g.Step(0.1, now)

	snap := g.Snapshot(now)
	if snap.Score != (Score{Player: 5, Computer: 2}) {
		t.Fatalf("score = %+v, want 5-2", snap.Score)
	}
	if scoreCalls != 1 {
		t.Fatalf("OnScore fired %d times, want 1", scoreCalls)
	}
	if snap.Status != StatusRunning {
		t.Fatalf("status = %q immediately after match point, want running for the delay", snap.Status)
	}
	if overCalls != 0 {
		t.Fatal("game-over hook fired before the delay elapsed")
	}

	now = now.Add(OverDelay)
	g.Step(1.0/60, now)

	snap = g.Snapshot(now)
	if snap.Status != StatusOver {
		t.Fatalf("status = %q, want over", snap.Status)
	}
	if snap.Winner != SidePlayer {
		t.Fatalf("winner = %q, want player", snap.Winner)
	}
	if overCalls != 1 || winner != SidePlayer {
		t.Fatalf("game-over hook calls=%d winner=%q, want exactly one player win", overCalls, winner)
	}

	// Subsequent frames must not re-fire the hook.
	for i := 0; i < 10; i++ {
		now = now.Add(time.Second / 60)
		g.Step(1.0/60, now)
	}
	if overCalls != 1 {
		t.Fatalf("game-over hook fired %d times", overCalls)
	}

	// Thumbs up on the over screen returns to idle with a clean slate.
	now = now.Add(2 * time.Second)
	g.HandleFrame(detector.ThumbsUpHand().Landmarks(), now)
	if g.Status() != StatusIdle {
		t.Fatalf("status = %q after restart, want idle", g.Status())
	}
	if s := g.Snapshot(now).Score; s != (Score{}) {
		t.Fatalf("score = %+v after restart, want zero", s)
	}
}

func TestGame_GameOverHookMayReadState(t *testing.T) {
	g := newTestGame()
	now := gameEpoch

	g.HandleFrame(detector.ThumbsUpHand().Landmarks(), now)

	// The hook mirrors a consumer recording the finished match: it reads
	// the snapshot and settings synchronously from inside the callback.
	var over time.Time
	var calls int
	var finalSnap Snapshot
	var finalSettings Settings
	g.SetOnGameOver(func(w Side) {
		calls++
		finalSnap = g.Snapshot(over)
		finalSettings = g.Settings()
	})

	g.physics.score = Score{Player: 4, Computer: 2}
	g.physics.waitingServe = false
	g.physics.ball = Ball{X: 1200, Y: 100, VX: 1000, VY: 0}

	now = now.Add(2 * time.Second)
	g.Step(0.1, now)

	over = now.Add(OverDelay)
	done := make(chan struct{})
	go func() {
		g.Step(1.0/60, over)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Step blocked while the game-over hook read game state")
	}

	if calls != 1 {
		t.Fatalf("game-over hook fired %d times, want 1", calls)
	}
	if finalSnap.Status != StatusOver || finalSnap.Winner != SidePlayer {
		t.Fatalf("hook snapshot = status %q winner %q, want the finished match", finalSnap.Status, finalSnap.Winner)
	}
	if finalSnap.Score != (Score{Player: 5, Computer: 2}) {
		t.Fatalf("hook snapshot score = %+v, want 5-2", finalSnap.Score)
	}
	if finalSettings != DefaultSettings() {
		t.Fatalf("hook settings = %+v, want the defaults", finalSettings)
	}
}

func TestGame_CalibrationFlow(t *testing.T) {
	g := newTestGame()
	now := gameEpoch

	var got Range
	var calls int
	g.SetOnCalibrated(func(r Range) {
		calls++
		got = r
	})

	g.HandleFrame(detector.VictoryHand().Landmarks(), now)
	if g.Status() != StatusCalibrating {
		t.Fatalf("status = %q after victory gesture, want calibrating", g.Status())
	}

	// Hold at the top edge, then the bottom edge, past the dwell time.
	for i := 0; i < 17; i++ {
		now = now.Add(100 * time.Millisecond)
		g.HandleFrame(handAtY(0.0), now)
	}
	for i := 0; i < 17; i++ {
		now = now.Add(100 * time.Millisecond)
		g.HandleFrame(handAtY(1.0), now)
	}

	if g.Status() != StatusIdle {
		t.Fatalf("status = %q after calibration, want idle", g.Status())
	}
	if calls != 1 {
		t.Fatalf("calibration hook fired %d times, want 1", calls)
	}
	if !got.Valid() {
		t.Fatalf("calibrated range invalid: %+v", got)
	}

	snap := g.Snapshot(now)
	if !snap.Calibration.Valid || !snap.Calibration.Success {
		t.Fatalf("snapshot calibration = %+v, want valid with success visible", snap.Calibration)
	}
}

func TestGame_ResetClearsCalibration(t *testing.T) {
	g := newTestGame()
	now := gameEpoch

	g.SeedCalibration(Range{Min: 0.2, Max: 0.8})
	g.HandleFrame(detector.ThumbsUpHand().Landmarks(), now)

	now = now.Add(2 * time.Second)
	g.HandleFrame(detector.ThumbsDownHand().Landmarks(), now)

	if g.Status() != StatusIdle {
		t.Fatalf("status = %q after reset, want idle", g.Status())
	}
	snap := g.Snapshot(now)
	if snap.Calibration.Valid {
		t.Fatalf("calibration survived the reset: %+v", snap.Calibration)
	}
	if snap.Score != (Score{}) {
		t.Fatalf("score = %+v after reset, want zero", snap.Score)
	}
}

func TestGame_MalformedFrameKeepsLastTarget(t *testing.T) {
	g := newTestGame()
	now := gameEpoch

	g.HandleFrame(detector.ThumbsUpHand().Landmarks(), now)

	now = now.Add(100 * time.Millisecond)
	g.HandleFrame(handAtY(0.0), now)

	// A dropped inference frame classifies as unknown and must not move
	// the staged target.
	if kind := g.HandleFrame(nil, now.Add(50*time.Millisecond)); kind != gesture.Unknown {
		t.Fatalf("nil frame classified as %q, want unknown", kind)
	}

	for i := 0; i < 100; i++ {
		now = now.Add(time.Second / 60)
		g.Step(1.0/60, now)
	}
	if y := g.Snapshot(now).PlayerY; y != PaddleHeight/2 {
		t.Fatalf("paddle settled at %f, want the staged top target %f", y, PaddleHeight/2)
	}
}

func TestGame_BanterExpires(t *testing.T) {
	g := newTestGame()

	g.SetBanter("nice rally", gameEpoch)
	if b := g.Snapshot(gameEpoch.Add(time.Second)).Banter; b != "nice rally" {
		t.Fatalf("banter = %q, want the installed line", b)
	}

	g.Step(1.0/60, gameEpoch.Add(BanterWindow+time.Second))
	if b := g.Snapshot(gameEpoch.Add(BanterWindow+time.Second)).Banter; b != "" {
		t.Fatalf("banter = %q after the window, want empty", b)
	}
}

func TestGame_PauseFreezesBall(t *testing.T) {
	g := newTestGame()
	now := gameEpoch

	g.HandleFrame(detector.ThumbsUpHand().Landmarks(), now)

	// Let the opening serve happen.
	for i := 0; i < 120; i++ {
		now = now.Add(time.Second / 60)
		g.Step(1.0/60, now)
	}
	if g.Snapshot(now).Ball.VX == 0 {
		t.Fatal("ball never served")
	}

	now = now.Add(2 * time.Second)
	g.HandleFrame(detector.SpreadHand().Landmarks(), now)
	if g.Status() != StatusPaused {
		t.Fatalf("status = %q after spread, want paused", g.Status())
	}

	frozen := g.Snapshot(now).Ball
	for i := 0; i < 60; i++ {
		now = now.Add(time.Second / 60)
		g.Step(1.0/60, now)
	}
	if g.Snapshot(now).Ball != frozen {
		t.Fatalf("ball moved while paused: %+v", g.Snapshot(now).Ball)
	}

	now = now.Add(2 * time.Second)
	g.HandleFrame(detector.SpreadHand().Landmarks(), now)
	if g.Status() != StatusRunning {
		t.Fatalf("status = %q after second spread, want running", g.Status())
	}
}
