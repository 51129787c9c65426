package game

import "math"

// MapToPaddleY maps a raw normalized landmark y to a paddle center in
// field pixels. With a valid calibration range the player's personal span
// covers full paddle travel; otherwise the whole camera frame does.
// ok is false when the result would be non-finite, in which case the
// caller must keep its previous target rather than propagate NaN.
func MapToPaddleY(rawY float64, r Range) (float64, bool) {
	if math.IsNaN(rawY) || math.IsInf(rawY, 0) {
		return 0, false
	}

	var normalized float64
	if r.Valid() {
		normalized = clamp((rawY-r.Min)/(r.Max-r.Min), 0, 1)
	} else {
		normalized = clamp(rawY, 0, 1)
	}

	result := normalized*(FieldHeight-PaddleHeight) + PaddleHeight/2
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, false
	}

	return clampPaddleY(result), true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampPaddleY constrains a paddle center to its travel bounds.
func clampPaddleY(y float64) float64 {
	return clamp(y, PaddleHeight/2, FieldHeight-PaddleHeight/2)
}
