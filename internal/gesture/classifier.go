// Package gesture classifies a single frame of hand landmarks into a
// discrete pose. Classification is purely geometric and frame-local; any
// jitter is absorbed downstream by cooldowns and hold-to-confirm logic,
// never here.
package gesture

import (
	"math"

	"github.com/spock74/ping-pong/internal/detector"
)

// Kind is a discrete hand pose derived from one frame of landmarks.
type Kind string

const (
	Fist       Kind = "fist"
	Pointer    Kind = "pointer"
	Spread     Kind = "spread"
	ThumbsUp   Kind = "thumbs_up"
	ThumbsDown Kind = "thumbs_down"
	Victory    Kind = "victory"
	Open       Kind = "open"
	Unknown    Kind = "unknown"
)

// spreadRatio is how far apart index and pinky tips must be, relative to
// palm height (wrist to middle MCP), for an open hand to count as spread.
const spreadRatio = 1.1

// required is the subset of landmarks the rules read. A non-finite
// coordinate in any of them makes the whole frame unusable.
var required = []int{
	detector.Wrist,
	detector.ThumbIP, detector.ThumbTip,
	detector.IndexPIP, detector.IndexTip,
	detector.MiddleMCP, detector.MiddlePIP, detector.MiddleTip,
	detector.RingPIP, detector.RingTip,
	detector.PinkyPIP, detector.PinkyTip,
}

// Classify maps one frame of landmarks to a pose. It returns Unknown when
// the input is nil, shorter than 21 points, or has a non-finite coordinate
// in a required landmark. Rules are ordered most restrictive first; the
// first match wins.
func Classify(points []detector.Point3D) Kind {
	if len(points) < detector.NumLandmarks {
		return Unknown
	}
	for _, i := range required {
		if !points[i].Finite() {
			return Unknown
		}
	}

	// A finger is extended when its tip sits above its PIP joint on
	// screen (top-origin coordinates). The thumb extends sideways: under
	// mirrored capture its tip moves to lower x than the IP joint.
	indexExt := points[detector.IndexTip].Y < points[detector.IndexPIP].Y
	middleExt := points[detector.MiddleTip].Y < points[detector.MiddlePIP].Y
	ringExt := points[detector.RingTip].Y < points[detector.RingPIP].Y
	pinkyExt := points[detector.PinkyTip].Y < points[detector.PinkyPIP].Y
	thumbExt := points[detector.ThumbTip].X < points[detector.ThumbIP].X

	allCurled := !indexExt && !middleExt && !ringExt && !pinkyExt
	thumbUp := points[detector.ThumbTip].Y < points[detector.IndexPIP].Y
	thumbDown := points[detector.ThumbTip].Y > points[detector.ThumbIP].Y &&
		points[detector.ThumbTip].Y > points[detector.MiddleMCP].Y

	switch {
	case thumbUp && allCurled:
		return ThumbsUp
	case thumbDown && allCurled:
		return ThumbsDown
	case indexExt && middleExt && !ringExt && !pinkyExt:
		return Victory
	case indexExt && !middleExt && !ringExt && !pinkyExt:
		return Pointer
	case allCurled && !thumbUp:
		return Fist
	case indexExt && middleExt && ringExt && pinkyExt && thumbExt &&
		tipSpread(points) > spreadRatio*palmHeight(points):
		return Spread
	}

	// Hand visible, no specific pose.
	return Open
}

// tipSpread is the Euclidean distance between the index and pinky tips.
func tipSpread(points []detector.Point3D) float64 {
	return planarDistance(points[detector.IndexTip], points[detector.PinkyTip])
}

// palmHeight is the wrist to middle-MCP distance, a hand-size reference
// that normalizes for distance from the camera.
func palmHeight(points []detector.Point3D) float64 {
	return planarDistance(points[detector.Wrist], points[detector.MiddleMCP])
}

func planarDistance(a, b detector.Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
