package game

import (
	"math"
	"testing"
	"time"
)

var calibEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// runPass drives a full hold-at-top then hold-at-bottom sequence and
// returns the calibrator's final state.
func runPass(t *testing.T, c *Calibrator, topY, bottomY float64, start time.Time) (done, ok bool) {
	t.Helper()

	now := start
	c.Start()
	if c.Step(now) != StepTop {
		t.Fatalf("after Start, step = %q, want %q", c.Step(now), StepTop)
	}

	// Dwell at the top edge until the boundary commits.
	for i := 0; i < 40; i++ {
		now = now.Add(100 * time.Millisecond)
		if d, _ := c.Observe(topY, now); d {
			t.Fatal("pass finished during the top step")
		}
		if c.Step(now) == StepBottom {
			break
		}
	}
	if c.Step(now) != StepBottom {
		t.Fatalf("top boundary never committed, step = %q", c.Step(now))
	}

	// Dwell at the bottom edge.
	for i := 0; i < 40; i++ {
		now = now.Add(100 * time.Millisecond)
		done, ok = c.Observe(bottomY, now)
		if done {
			return done, ok
		}
	}
	t.Fatal("bottom boundary never committed")
	return false, false
}

func TestCalibrator_RoundTrip(t *testing.T) {
	c := NewCalibrator()

	done, ok := runPass(t, c, 0.0, 1.0, calibEpoch)
	if !done || !ok {
		t.Fatalf("pass result done=%v ok=%v, want both true", done, ok)
	}

	r, valid := c.Active()
	if !valid {
		t.Fatal("no active range after successful pass")
	}
	if r.Min >= r.Max {
		t.Errorf("range not ordered: min=%f max=%f", r.Min, r.Max)
	}
	if r.Max-r.Min <= MinSpan {
		t.Errorf("range span %f not above minimum %f", r.Max-r.Min, MinSpan)
	}
	// The finished state shows while the success flag is visible, then
	// reads as idle again.
	commit := c.successUntil.Add(-SuccessFlash)
	if got := c.Step(commit.Add(time.Second)); got != StepDone {
		t.Errorf("step after pass = %q, want %q during the flash", got, StepDone)
	}
	if got := c.Step(commit.Add(SuccessFlash + time.Second)); got != StepIdle {
		t.Errorf("step after the flash = %q, want %q", got, StepIdle)
	}
}

func TestCalibrator_SuccessFlagExpires(t *testing.T) {
	c := NewCalibrator()
	runPass(t, c, 0.0, 1.0, calibEpoch)

	// The pass above takes a few seconds of simulated time; anchor the
	// visibility checks to the commit moment instead.
	commit := c.successUntil.Add(-SuccessFlash)

	if !c.SuccessVisible(commit.Add(time.Second)) {
		t.Error("success flag should be visible shortly after commit")
	}
	if c.SuccessVisible(commit.Add(SuccessFlash + time.Second)) {
		t.Error("success flag should expire after the flash window")
	}
}

func TestCalibrator_InterruptedDwellCommitsNothing(t *testing.T) {
	c := NewCalibrator()
	now := calibEpoch
	c.Start()

	// Dwell 1.2s, leave the zone, dwell 1.2s again: the accumulator must
	// reset with no partial credit.
	for i := 0; i < 12; i++ {
		now = now.Add(100 * time.Millisecond)
		c.Observe(0.0, now)
	}
	now = now.Add(100 * time.Millisecond)
	c.Observe(0.5, now) // well away from the edge

	for i := 0; i < 12; i++ {
		now = now.Add(100 * time.Millisecond)
		c.Observe(0.0, now)
	}

	if c.Step(now) != StepTop {
		t.Errorf("step = %q after interrupted dwells, want %q", c.Step(now), StepTop)
	}
	if _, valid := c.Active(); valid {
		t.Error("interrupted calibration must not produce a range")
	}
}

func TestCalibrator_InvalidSpanDiscarded(t *testing.T) {
	c := NewCalibrator()
	c.Seed(Range{Min: 0.2, Max: 0.8})
	before := c.Range()

	if got := c.commit(Range{Min: 0.50, Max: 0.55}, calibEpoch); got {
		t.Error("narrow range passed validation")
	}

	if c.Range() != before {
		t.Errorf("active range changed after discarded commit: %+v", c.Range())
	}
	if len(c.history) != 1 {
		t.Errorf("history length = %d, want the seed entry only", len(c.history))
	}
	if c.SuccessVisible(calibEpoch.Add(time.Second)) {
		t.Error("discarded commit must not raise the success flag")
	}
}

func TestCalibrator_HistoryMeansRefine(t *testing.T) {
	c := NewCalibrator()
	c.Seed(Range{Min: 0.2, Max: 0.8})

	// Second pass sweeps the full frame: with the active range {0.2,0.8},
	// raw 0.0 clamps to the top edge and raw 1.0 to the bottom edge.
	_, ok := runPass(t, c, 0.0, 1.0, calibEpoch)
	if !ok {
		t.Fatal("second pass failed")
	}

	r := c.Range()
	if math.Abs(r.Min-0.1) > 1e-9 || math.Abs(r.Max-0.9) > 1e-9 {
		t.Errorf("refined range = {%f, %f}, want {0.1, 0.9}", r.Min, r.Max)
	}
}

func TestCalibrator_CommittedBoundaryIsExtremum(t *testing.T) {
	c := NewCalibrator()
	now := calibEpoch
	c.Start()

	// Jitter within the top zone: the committed min must be the lowest
	// raw y observed during the dwell, not the final sample.
	samples := []float64{0.004, 0.000, 0.006, 0.005, 0.007, 0.006, 0.005,
		0.006, 0.007, 0.006, 0.005, 0.006, 0.007, 0.006, 0.005, 0.006}
	for _, y := range samples {
		now = now.Add(100 * time.Millisecond)
		c.Observe(y, now)
	}
	if c.Step(now) != StepBottom {
		t.Fatalf("top boundary not committed, step = %q", c.Step(now))
	}
	if c.pendingMin != 0.0 {
		t.Errorf("committed min = %f, want the extremum 0.0", c.pendingMin)
	}
}

func TestCalibrator_ClearHistory(t *testing.T) {
	c := NewCalibrator()
	c.Seed(Range{Min: 0.2, Max: 0.8})
	c.ClearHistory()

	if _, valid := c.Active(); valid {
		t.Error("active range survived ClearHistory")
	}
	if c.Step(calibEpoch) != StepIdle {
		t.Errorf("step = %q after ClearHistory, want %q", c.Step(calibEpoch), StepIdle)
	}
}

func TestCalibrator_CancelIdempotent(t *testing.T) {
	c := NewCalibrator()
	c.Start()
	c.Cancel()
	c.Cancel()

	if c.Step(calibEpoch) != StepIdle {
		t.Errorf("step = %q after Cancel, want %q", c.Step(calibEpoch), StepIdle)
	}
}
