package game

import (
	"time"

	"github.com/spock74/ping-pong/internal/gesture"
)

// Status is the overall game mode.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusCalibrating Status = "calibrating"
	StatusRunning     Status = "running"
	StatusPaused      Status = "paused"
	StatusOver        Status = "over"
)

// Event reports which transition a machine call performed.
type Event int

const (
	EventNone Event = iota
	EventStarted
	EventCalibrationStarted
	EventPaused
	EventResumed
	EventReset
	EventOver
	EventRestarted
)

// Transition timing. Cooldowns are expiring timestamps checked each tick,
// never timer callbacks, so reset and cancellation are trivial.
const (
	// GestureCooldown suppresses re-triggering while a transition
	// gesture is still held.
	GestureCooldown = 1000 * time.Millisecond
	// ResetCooldown is the longer lock after a full reset.
	ResetCooldown = 2000 * time.Millisecond
	// OverDelay keeps the final score on screen briefly before the
	// game-over transition lands.
	OverDelay = 500 * time.Millisecond
)

// Machine arbitrates the game mode from gesture events, UI requests and
// physics outcomes. All locks are wall-clock based: holding a gesture
// does not retrigger until the lock expires.
type Machine struct {
	status      Status
	lockedUntil time.Time

	overPending bool
	overAt      time.Time
	winner      Side
}

// NewMachine returns a machine in the idle state.
func NewMachine() *Machine {
	return &Machine{status: StatusIdle}
}

// Status returns the current game mode.
func (m *Machine) Status() Status {
	return m.status
}

// Winner returns the side that won the match, meaningful once the
// machine reaches StatusOver.
func (m *Machine) Winner() Side {
	return m.winner
}

func (m *Machine) locked(now time.Time) bool {
	return now.Before(m.lockedUntil)
}

func (m *Machine) lock(now time.Time, d time.Duration) {
	m.lockedUntil = now.Add(d)
}

// Apply feeds the latest classified gesture into the machine and returns
// the transition it caused, if any.
func (m *Machine) Apply(g gesture.Kind, sourceReady bool, now time.Time) Event {
	switch m.status {
	case StatusIdle:
		switch g {
		case gesture.ThumbsUp:
			return m.RequestStart(sourceReady, now)
		case gesture.Victory:
			return m.RequestCalibration(now)
		}
	case StatusRunning, StatusPaused:
		switch g {
		case gesture.Spread:
			return m.RequestPauseToggle(now)
		case gesture.ThumbsDown:
			return m.RequestReset(now)
		}
	case StatusOver:
		if g == gesture.ThumbsUp {
			return m.RequestRestart(now)
		}
	}
	return EventNone
}

// RequestStart moves idle to running, but only when the landmark source
// is ready.
func (m *Machine) RequestStart(sourceReady bool, now time.Time) Event {
	if m.status != StatusIdle || !sourceReady || m.locked(now) {
		return EventNone
	}
	m.status = StatusRunning
	m.lock(now, GestureCooldown)
	return EventStarted
}

// RequestCalibration moves idle to calibrating.
func (m *Machine) RequestCalibration(now time.Time) Event {
	if m.status != StatusIdle || m.locked(now) {
		return EventNone
	}
	m.status = StatusCalibrating
	m.lock(now, GestureCooldown)
	return EventCalibrationStarted
}

// RequestPauseToggle flips between running and paused.
func (m *Machine) RequestPauseToggle(now time.Time) Event {
	if m.locked(now) {
		return EventNone
	}
	switch m.status {
	case StatusRunning:
		m.status = StatusPaused
		m.lock(now, GestureCooldown)
		return EventPaused
	case StatusPaused:
		m.status = StatusRunning
		m.lock(now, GestureCooldown)
		return EventResumed
	}
	return EventNone
}

// RequestReset forces a full reset from running or paused back to idle.
func (m *Machine) RequestReset(now time.Time) Event {
	if m.locked(now) {
		return EventNone
	}
	if m.status != StatusRunning && m.status != StatusPaused {
		return EventNone
	}
	m.status = StatusIdle
	m.overPending = false
	m.lock(now, ResetCooldown)
	return EventReset
}

// RequestRestart leaves the game-over screen.
func (m *Machine) RequestRestart(now time.Time) Event {
	if m.status != StatusOver || m.locked(now) {
		return EventNone
	}
	m.status = StatusIdle
	m.lock(now, GestureCooldown)
	return EventRestarted
}

// CalibrationDone returns the machine to idle once the calibration engine
// finishes, successfully or not.
func (m *Machine) CalibrationDone(now time.Time) {
	if m.status != StatusCalibrating {
		return
	}
	m.status = StatusIdle
	m.lock(now, GestureCooldown)
}

// ScheduleOver arms the delayed running-to-over transition after the
// physics engine reports a winning score.
func (m *Machine) ScheduleOver(winner Side, now time.Time) {
	if m.status != StatusRunning || m.overPending {
		return
	}
	m.overPending = true
	m.overAt = now.Add(OverDelay)
	m.winner = winner
}

// Tick applies any pending delayed transition. Called once per rendered
// frame.
func (m *Machine) Tick(now time.Time) Event {
	if m.overPending && m.status == StatusRunning && !now.Before(m.overAt) {
		m.overPending = false
		m.status = StatusOver
		return EventOver
	}
	return EventNone
}
