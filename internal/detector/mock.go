package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []Hand
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []Hand) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Fixture hands below cover every pose the classifier recognizes. All of
// them follow the selfie-mirrored, top-origin coordinate convention: a
// curled finger has its tip below (greater y than) its PIP joint, and an
// extended thumb has its tip at lower x than its IP joint.

// FistHand returns a hand with all four fingers curled and the thumb
// tucked alongside the palm.
func FistHand() Hand {
	h := Hand{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.74}
	h.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.68}
	h.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.62}
	h.Points[ThumbTip] = Point3D{X: 0.55, Y: 0.60}

	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.62}
	h.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.58}
	h.Points[IndexDIP] = Point3D{X: 0.54, Y: 0.62}
	h.Points[IndexTip] = Point3D{X: 0.53, Y: 0.66}

	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.61}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.57}
	h.Points[MiddleDIP] = Point3D{X: 0.49, Y: 0.61}
	h.Points[MiddleTip] = Point3D{X: 0.48, Y: 0.65}

	h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.62}
	h.Points[RingPIP] = Point3D{X: 0.45, Y: 0.58}
	h.Points[RingDIP] = Point3D{X: 0.44, Y: 0.62}
	h.Points[RingTip] = Point3D{X: 0.43, Y: 0.66}

	h.Points[PinkyMCP] = Point3D{X: 0.41, Y: 0.64}
	h.Points[PinkyPIP] = Point3D{X: 0.41, Y: 0.60}
	h.Points[PinkyDIP] = Point3D{X: 0.40, Y: 0.63}
	h.Points[PinkyTip] = Point3D{X: 0.39, Y: 0.67}

	return h
}

// PointerHand returns a fist with the index finger extended.
func PointerHand() Hand {
	h := FistHand()

	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.60}
	h.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.52}
	h.Points[IndexDIP] = Point3D{X: 0.56, Y: 0.45}
	h.Points[IndexTip] = Point3D{X: 0.56, Y: 0.38}

	return h
}

// VictoryHand returns a hand with index and middle fingers extended and
// ring and pinky curled.
func VictoryHand() Hand {
	h := PointerHand()

	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.60}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.50}
	h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.42}
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.34}

	return h
}

// ThumbsUpHand returns a hand with the thumb extended upward and all
// other fingers curled.
func ThumbsUpHand() Hand {
	h := Hand{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	h.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.65}
	h.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.50}
	h.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.35}

	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70}
	h.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.68}
	h.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.70}
	h.Points[IndexTip] = Point3D{X: 0.50, Y: 0.72}

	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66}
	h.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.68}
	h.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.70}

	h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70}
	h.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68}
	h.Points[RingDIP] = Point3D{X: 0.42, Y: 0.70}
	h.Points[RingTip] = Point3D{X: 0.40, Y: 0.72}

	h.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72}
	h.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70}
	h.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.72}
	h.Points[PinkyTip] = Point3D{X: 0.35, Y: 0.74}

	return h
}

// ThumbsDownHand returns a hand with the thumb pointing below the curled
// fingers.
func ThumbsDownHand() Hand {
	h := Hand{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.70}

	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.76}
	h.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.82}
	h.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.88}
	h.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.94}

	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.66}
	h.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.62}
	h.Points[IndexDIP] = Point3D{X: 0.54, Y: 0.66}
	h.Points[IndexTip] = Point3D{X: 0.53, Y: 0.70}

	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.65}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.61}
	h.Points[MiddleDIP] = Point3D{X: 0.49, Y: 0.65}
	h.Points[MiddleTip] = Point3D{X: 0.48, Y: 0.69}

	h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.66}
	h.Points[RingPIP] = Point3D{X: 0.45, Y: 0.62}
	h.Points[RingDIP] = Point3D{X: 0.44, Y: 0.66}
	h.Points[RingTip] = Point3D{X: 0.43, Y: 0.70}

	h.Points[PinkyMCP] = Point3D{X: 0.41, Y: 0.68}
	h.Points[PinkyPIP] = Point3D{X: 0.41, Y: 0.64}
	h.Points[PinkyDIP] = Point3D{X: 0.40, Y: 0.67}
	h.Points[PinkyTip] = Point3D{X: 0.39, Y: 0.71}

	return h
}

// SpreadHand returns a wide-open hand: every finger and the thumb
// extended, with the fingertips fanned far apart relative to palm size.
func SpreadHand() Hand {
	h := Hand{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.85}

	h.Points[ThumbCMC] = Point3D{X: 0.42, Y: 0.78}
	h.Points[ThumbMCP] = Point3D{X: 0.36, Y: 0.72}
	h.Points[ThumbIP] = Point3D{X: 0.30, Y: 0.66}
	h.Points[ThumbTip] = Point3D{X: 0.24, Y: 0.62}

	h.Points[IndexMCP] = Point3D{X: 0.40, Y: 0.64}
	h.Points[IndexPIP] = Point3D{X: 0.38, Y: 0.52}
	h.Points[IndexDIP] = Point3D{X: 0.36, Y: 0.44}
	h.Points[IndexTip] = Point3D{X: 0.34, Y: 0.38}

	h.Points[MiddleMCP] = Point3D{X: 0.48, Y: 0.62}
	h.Points[MiddlePIP] = Point3D{X: 0.48, Y: 0.50}
	h.Points[MiddleDIP] = Point3D{X: 0.48, Y: 0.40}
	h.Points[MiddleTip] = Point3D{X: 0.48, Y: 0.30}

	h.Points[RingMCP] = Point3D{X: 0.54, Y: 0.63}
	h.Points[RingPIP] = Point3D{X: 0.55, Y: 0.52}
	h.Points[RingDIP] = Point3D{X: 0.56, Y: 0.43}
	h.Points[RingTip] = Point3D{X: 0.56, Y: 0.36}

	h.Points[PinkyMCP] = Point3D{X: 0.60, Y: 0.66}
	h.Points[PinkyPIP] = Point3D{X: 0.62, Y: 0.58}
	h.Points[PinkyDIP] = Point3D{X: 0.63, Y: 0.50}
	h.Points[PinkyTip] = Point3D{X: 0.64, Y: 0.44}

	return h
}

// OpenHand returns a relaxed open palm: all four fingers extended but the
// thumb resting against the palm, so no specific pose is recognized.
func OpenHand() Hand {
	h := Hand{Handedness: "Right", Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70}
	h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65}
	h.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60}

	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	h.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55}
	h.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45}
	h.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35}

	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52}
	h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40}
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28}

	h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68}
	h.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55}
	h.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45}
	h.Points[RingTip] = Point3D{X: 0.42, Y: 0.35}

	h.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70}
	h.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60}
	h.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50}
	h.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42}

	return h
}
