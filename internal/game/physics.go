package game

import (
	"math"
	"math/rand"
	"time"
)

// Field geometry and tuning, in pixels and pixels per second.
const (
	FieldWidth   = 1280.0
	FieldHeight  = 720.0
	PaddleWidth  = 16.0
	PaddleHeight = 120.0
	PaddleInset  = 30.0
	BallRadius   = 10.0

	WinningScore       = 5
	MaxSpeedMultiplier = 2.5
	SpeedUpFactor      = 1.05
	BounceConstant     = 420.0
	AIDeadZone         = 20.0

	// MaxStep clamps a single physics step so a stalled frame (tab in
	// background, GC pause) cannot destabilize the simulation.
	MaxStep = 0.1 // seconds

	ServeDelay = 900 * time.Millisecond
	ServeVYMin = 60.0
	ServeVYMax = 240.0
)

// Side identifies a participant.
type Side string

const (
	SidePlayer   Side = "player"
	SideComputer Side = "computer"
)

// Score is the running match score. Both counts are monotonically
// non-decreasing within a match.
type Score struct {
	Player   int `json:"player"`
	Computer int `json:"computer"`
}

// Ball is the ball's position and velocity.
type Ball struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// Physics advances the ball, drives the AI paddle and keeps score. It
// runs only while the match is live; the caller feeds it the smoothed
// player paddle position once per rendered frame.
type Physics struct {
	ball  Ball
	aiY   float64
	score Score

	params        DifficultyParams
	initialSpeedX float64

	waitingServe bool
	serveDue     time.Time
	serveTo      Side
	gameOver     bool

	rng *rand.Rand

	// OnScore fires after each point, OnWin exactly once when a side
	// reaches the winning score.
	OnScore func(scorer Side, score Score)
	OnWin   func(winner Side)
}

// NewPhysics creates a physics engine for the given difficulty.
func NewPhysics(params DifficultyParams, rng *rand.Rand) *Physics {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Physics{
		ball:          Ball{X: FieldWidth / 2, Y: FieldHeight / 2},
		aiY:           FieldHeight / 2,
		params:        params,
		initialSpeedX: params.BallSpeed,
		rng:           rng,
	}
}

// SetParams applies a difficulty change. The AI speed takes effect
// immediately; the ball speed applies from the next serve.
func (p *Physics) SetParams(params DifficultyParams) {
	p.params = params
	p.initialSpeedX = params.BallSpeed
}

// ResetMatch zeroes the score and schedules the opening serve in a random
// direction.
func (p *Physics) ResetMatch(now time.Time) {
	p.score = Score{}
	p.gameOver = false
	p.ball = Ball{X: FieldWidth / 2, Y: FieldHeight / 2}
	p.aiY = FieldHeight / 2
	p.waitingServe = true
	p.serveDue = now.Add(ServeDelay)
	if p.rng.Intn(2) == 0 {
		p.serveTo = SidePlayer
	} else {
		p.serveTo = SideComputer
	}
}

// Halt zeroes everything and parks the ball; used when the match returns
// to idle.
func (p *Physics) Halt() {
	p.score = Score{}
	p.gameOver = false
	p.ball = Ball{X: FieldWidth / 2, Y: FieldHeight / 2}
	p.aiY = FieldHeight / 2
	p.waitingServe = false
}

// Step advances the simulation by dt seconds against the given player
// paddle center. A step that would produce a non-finite state is
// discarded wholesale, keeping the previous valid state.
func (p *Physics) Step(dt float64, playerY float64, now time.Time) {
	if dt <= 0 || p.gameOver {
		return
	}
	if dt > MaxStep {
		dt = MaxStep
	}

	p.moveAI(dt)

	if p.waitingServe {
		if now.Before(p.serveDue) {
			return
		}
		p.serve()
	}

	prev := p.ball
	next := prev
	next.X += next.VX * dt
	next.Y += next.VY * dt

	// Wall collision: clamp to the bound and reflect.
	if next.Y-BallRadius < 0 {
		next.Y = BallRadius
		next.VY = -next.VY
	} else if next.Y+BallRadius > FieldHeight {
		next.Y = FieldHeight - BallRadius
		next.VY = -next.VY
	}

	// Paddle collision is continuous: the frame's motion is a segment,
	// and a hit is a sign change across the collision plane, so a fast
	// ball cannot tunnel through a paddle between samples.
	playerPlane := PaddleInset + PaddleWidth + BallRadius
	if prev.VX < 0 && prev.X > playerPlane && next.X <= playerPlane {
		t := (playerPlane - prev.X) / (next.X - prev.X)
		yAt := prev.Y + (next.Y-prev.Y)*t
		if math.Abs(yAt-playerY) <= PaddleHeight/2+BallRadius {
			next.X = playerPlane
			next.Y = yAt
			// Linear paddle-angle response: off-center impacts steer
			// the ball away from the paddle center.
			next.VY = -((playerY - yAt) / (PaddleHeight / 2)) * BounceConstant
			next.VX = p.reboundVX(prev.VX)
		}
	}

	aiPlane := FieldWidth - PaddleInset - PaddleWidth - BallRadius
	if prev.VX > 0 && prev.X < aiPlane && next.X >= aiPlane {
		t := (aiPlane - prev.X) / (next.X - prev.X)
		yAt := prev.Y + (next.Y-prev.Y)*t
		if math.Abs(yAt-p.aiY) <= PaddleHeight/2+BallRadius {
			next.X = aiPlane
			next.Y = yAt
			next.VX = p.reboundVX(prev.VX)
		}
	}

	if !finiteBall(next) {
		return
	}
	p.ball = next

	// Scoring. Serving state doubles as the lock that prevents a point
	// from being counted twice in the same out-of-bounds frame.
	if next.X < 0 {
		p.scorePoint(SideComputer, now)
	} else if next.X > FieldWidth {
		p.scorePoint(SidePlayer, now)
	}
}

// reboundVX reverses and scales the horizontal speed, capped at the
// initial speed times the configured multiplier.
func (p *Physics) reboundVX(vx float64) float64 {
	out := -vx * SpeedUpFactor
	max := p.initialSpeedX * MaxSpeedMultiplier
	if out > max {
		out = max
	} else if out < -max {
		out = -max
	}
	return out
}

// moveAI is a proportional controller with a dead zone: the paddle tracks
// the ball only when it is meaningfully off target, which produces
// human-like imperfection instead of perfect tracking.
func (p *Physics) moveAI(dt float64) {
	diff := p.ball.Y - p.aiY
	if math.Abs(diff) <= AIDeadZone {
		return
	}

	step := p.params.AISpeed * dt
	if step > math.Abs(diff) {
		step = math.Abs(diff)
	}
	if diff < 0 {
		step = -step
	}

	p.aiY = clampPaddleY(p.aiY + step)
}

// scorePoint records a point, ends the match at the winning score, and
// otherwise schedules the next serve toward the side that conceded.
func (p *Physics) scorePoint(scorer Side, now time.Time) {
	conceded := SidePlayer
	if scorer == SidePlayer {
		p.score.Player++
		conceded = SideComputer
	} else {
		p.score.Computer++
	}

	// Park the ball at center during the serve delay.
	p.ball = Ball{X: FieldWidth / 2, Y: FieldHeight / 2}

	if p.OnScore != nil {
		p.OnScore(scorer, p.score)
	}

	if p.score.Player >= WinningScore || p.score.Computer >= WinningScore {
		p.gameOver = true
		if p.OnWin != nil {
			p.OnWin(scorer)
		}
		return
	}

	p.waitingServe = true
	p.serveDue = now.Add(ServeDelay)
	p.serveTo = conceded
}

// serve launches the ball from center toward the side that just conceded,
// with a random vertical component within the configured band.
func (p *Physics) serve() {
	p.waitingServe = false

	vy := ServeVYMin + p.rng.Float64()*(ServeVYMax-ServeVYMin)
	if p.rng.Intn(2) == 0 {
		vy = -vy
	}

	vx := p.initialSpeedX
	if p.serveTo == SidePlayer {
		vx = -vx
	}

	p.ball = Ball{X: FieldWidth / 2, Y: FieldHeight / 2, VX: vx, VY: vy}
}

func finiteBall(b Ball) bool {
	for _, v := range []float64{b.X, b.Y, b.VX, b.VY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Ball returns the current ball state.
func (p *Physics) Ball() Ball {
	return p.ball
}

// AIY returns the computer paddle center.
func (p *Physics) AIY() float64 {
	return p.aiY
}

// Score returns the current score.
func (p *Physics) Score() Score {
	return p.score
}
