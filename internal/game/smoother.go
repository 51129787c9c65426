package game

import "math"

// Smoothing constants. SmoothingBase is the per-frame approach fraction at
// a 60 FPS reference; the update rule rescales it by the real dt so the
// motion feel is frame-rate independent.
const (
	SmoothingBase = 0.2
	SnapDistance  = 0.5 // px
)

// Smoother converges the rendered paddle position toward its target with
// an exponential approach, snapping once within SnapDistance to terminate
// micro-oscillation.
type Smoother struct {
	current float64
	target  float64
}

// NewSmoother returns a smoother with both position and target at the
// vertical center of paddle travel.
func NewSmoother() *Smoother {
	center := FieldHeight / 2
	return &Smoother{current: center, target: center}
}

// SetTarget updates the position the paddle converges toward. Non-finite
// targets are ignored.
func (s *Smoother) SetTarget(y float64) {
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return
	}
	s.target = clampPaddleY(y)
}

// Step advances the smoothing by dt seconds and returns the new position.
func (s *Smoother) Step(dt float64) float64 {
	diff := s.target - s.current
	if math.Abs(diff) < SnapDistance {
		s.current = s.target
		return s.current
	}

	rate := SmoothingBase * dt * 60
	if rate > 1 {
		rate = 1
	}
	s.current += diff * rate

	return s.current
}

// Reset recenters both position and target, for states where paddle
// control is not meaningful.
func (s *Smoother) Reset() {
	center := FieldHeight / 2
	s.current = center
	s.target = center
}

// Current returns the last computed position.
func (s *Smoother) Current() float64 {
	return s.current
}

// Target returns the position currently converged toward.
func (s *Smoother) Target() float64 {
	return s.target
}
