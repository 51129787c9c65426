// Package detector provides hand landmark detection for paddle control.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a normalized camera-space coordinate in [0,1] on each axis.
// Frames are mirrored horizontally (selfie convention), so increasing x
// moves toward the viewer's right.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Finite reports whether every coordinate of the point is a finite number.
func (p Point3D) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// Hand is one detected hand: 21 landmarks indexed by the schema above.
// A Hand is valid for a single inference frame only and is never retained
// beyond gesture and position extraction.
type Hand struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Landmarks returns the landmark points as a slice. The value receiver
// keeps the method callable on fixture results and map entries.
func (h Hand) Landmarks() []Point3D {
	return h.Points[:]
}

// PalmSpan returns the Euclidean distance from the wrist to the middle
// finger MCP. It serves as a hand-size reference that normalizes for
// distance from the camera.
func (h Hand) PalmSpan() float64 {
	return distance3D(h.Points[Wrist], h.Points[MiddleMCP])
}

// ShiftY returns a copy of the hand with every landmark translated
// vertically by dy. Used by tests to sweep a fixture through the frame.
func (h Hand) ShiftY(dy float64) Hand {
	for i := range h.Points {
		h.Points[i].Y += dy
	}
	return h
}

// distance3D calculates the Euclidean distance between two 3D points.
func distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
