package game

import (
	"log"
	"time"
)

// Calibration constants.
const (
	// MinSpan is the smallest normalized-y span a calibration may cover;
	// anything tighter is discarded as noise.
	MinSpan = 0.1
	// EdgeTolerance is how close (px) the paddle edge must sit to a
	// screen edge for dwell time to accumulate.
	EdgeTolerance = 5.0
	// HoldDuration is the continuous dwell needed to commit a boundary.
	HoldDuration = 1500 * time.Millisecond
	// SuccessFlash is how long the success flag stays visible.
	SuccessFlash = 4 * time.Second
)

// Range is a player's vertical hand-motion span in normalized landmark
// space. The zero value is invalid.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Valid reports whether the range covers enough vertical space to map
// onto paddle travel.
func (r Range) Valid() bool {
	return r.Max-r.Min > MinSpan
}

// CalibStep identifies where the calibration state machine currently is.
type CalibStep string

const (
	StepIdle   CalibStep = "idle"
	StepTop    CalibStep = "setting_top"
	StepBottom CalibStep = "setting_bottom"
	StepDone   CalibStep = "finished"
)

// Calibrator learns the normalized-y span the player comfortably sweeps.
// The player holds their hand at the top screen edge until the dwell
// timer elapses, then at the bottom edge; each committed boundary is the
// extremum of positions observed during the dwell, not the last sample.
// Accepted ranges accumulate in a history and the active range is the
// mean of historical bounds, so repeated calibrations refine rather than
// replace.
type Calibrator struct {
	step       CalibStep
	holding    bool
	holdStart  time.Time
	extreme    float64
	pendingMin float64

	history      []Range
	active       Range
	successUntil time.Time
}

// NewCalibrator returns an idle calibrator with no learned range.
func NewCalibrator() *Calibrator {
	return &Calibrator{step: StepIdle}
}

// Start begins a calibration pass. No-op while a pass is in progress.
func (c *Calibrator) Start() {
	if c.step == StepTop || c.step == StepBottom {
		return
	}
	c.step = StepTop
	c.holding = false
}

// Cancel aborts an in-progress pass without touching the active range.
// Safe to call repeatedly.
func (c *Calibrator) Cancel() {
	c.step = StepIdle
	c.holding = false
}

// Observe feeds one tracked landmark y into the state machine. It returns
// done=true when the pass finished on this call, with success reporting
// whether a valid range was committed.
func (c *Calibrator) Observe(rawY float64, now time.Time) (done, success bool) {
	switch c.step {
	case StepTop:
		if c.dwell(rawY, now, true) {
			c.pendingMin = c.extreme
			c.step = StepBottom
			c.holding = false
		}
	case StepBottom:
		if c.dwell(rawY, now, false) {
			c.holding = false
			ok := c.commit(Range{Min: c.pendingMin, Max: c.extreme}, now)
			if ok {
				c.step = StepDone
			} else {
				c.step = StepIdle
			}
			return true, ok
		}
	}
	return false, false
}

// dwell accumulates continuous hold time against the top or bottom screen
// edge, tracking the extremum of raw positions seen while in the zone.
// Leaving the zone resets the accumulator: no partial credit.
func (c *Calibrator) dwell(rawY float64, now time.Time, top bool) bool {
	y, ok := MapToPaddleY(rawY, c.active)
	if !ok {
		return false
	}

	var inZone bool
	if top {
		inZone = y-PaddleHeight/2 <= EdgeTolerance
	} else {
		inZone = FieldHeight-(y+PaddleHeight/2) <= EdgeTolerance
	}

	if !inZone {
		c.holding = false
		return false
	}

	if !c.holding {
		c.holding = true
		c.holdStart = now
		c.extreme = rawY
		return false
	}

	if top && rawY < c.extreme {
		c.extreme = rawY
	} else if !top && rawY > c.extreme {
		c.extreme = rawY
	}

	return now.Sub(c.holdStart) >= HoldDuration
}

// commit validates a finished pass. Valid ranges join the history and
// refine the active range; invalid ones are logged and discarded, leaving
// the active range untouched.
func (c *Calibrator) commit(r Range, now time.Time) bool {
	if !r.Valid() {
		log.Printf("calibration discarded: span %.3f below minimum %.2f", r.Max-r.Min, MinSpan)
		return false
	}

	c.history = append(c.history, r)
	c.recompute()
	c.successUntil = now.Add(SuccessFlash)
	return true
}

// recompute sets the active range to the arithmetic mean of historical
// bounds.
func (c *Calibrator) recompute() {
	if len(c.history) == 0 {
		c.active = Range{}
		return
	}

	var minSum, maxSum float64
	for _, r := range c.history {
		minSum += r.Min
		maxSum += r.Max
	}
	n := float64(len(c.history))
	c.active = Range{Min: minSum / n, Max: maxSum / n}
}

// Step returns the calibrator's state as of now. The finished state is
// shown only while the success flag is visible, then reads as idle.
func (c *Calibrator) Step(now time.Time) CalibStep {
	if c.step == StepDone && !now.Before(c.successUntil) {
		return StepIdle
	}
	return c.step
}

// Active returns the refined range and whether one exists.
func (c *Calibrator) Active() (Range, bool) {
	return c.active, c.active.Valid()
}

// Range returns the active range; the zero value when none is learned.
func (c *Calibrator) Range() Range {
	return c.active
}

// SuccessVisible reports whether the post-calibration success flag should
// still be shown.
func (c *Calibrator) SuccessVisible(now time.Time) bool {
	return now.Before(c.successUntil)
}

// Seed appends a previously persisted range to the history, typically at
// startup. Invalid ranges are ignored.
func (c *Calibrator) Seed(r Range) {
	if !r.Valid() {
		return
	}
	c.history = append(c.history, r)
	c.recompute()
}

// ClearHistory forgets everything learned, returning to the full-frame
// fallback mapping.
func (c *Calibrator) ClearHistory() {
	c.history = nil
	c.active = Range{}
	c.successUntil = time.Time{}
	c.Cancel()
}
