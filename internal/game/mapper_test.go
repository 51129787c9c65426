package game

import (
	"math"
	"testing"
)

func TestMapToPaddleY_ValidRange(t *testing.T) {
	r := Range{Min: 0.2, Max: 0.8}

	tests := []struct {
		name string
		rawY float64
		want float64
	}{
		{"at min", 0.2, PaddleHeight / 2},
		{"at max", 0.8, FieldHeight - PaddleHeight/2},
		{"midpoint", 0.5, FieldHeight / 2},
		{"below min clamps", 0.0, PaddleHeight / 2},
		{"above max clamps", 1.0, FieldHeight - PaddleHeight/2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MapToPaddleY(tt.rawY, r)
			if !ok {
				t.Fatal("mapping unexpectedly failed")
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MapToPaddleY(%f) = %f, want %f", tt.rawY, got, tt.want)
			}
		})
	}
}

func TestMapToPaddleY_FullFrameFallback(t *testing.T) {
	// An invalid range falls back to mapping the whole camera frame.
	invalid := Range{Min: 0.5, Max: 0.55}

	got, ok := MapToPaddleY(0.5, invalid)
	if !ok {
		t.Fatal("mapping unexpectedly failed")
	}
	want := 0.5*(FieldHeight-PaddleHeight) + PaddleHeight/2
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("fallback mapping = %f, want %f", got, want)
	}
}

func TestMapToPaddleY_Monotonic(t *testing.T) {
	r := Range{Min: 0.1, Max: 0.9}

	prev := math.Inf(-1)
	for rawY := -0.5; rawY <= 1.5; rawY += 0.01 {
		got, ok := MapToPaddleY(rawY, r)
		if !ok {
			t.Fatalf("mapping failed at rawY=%f", rawY)
		}
		if got < prev {
			t.Fatalf("mapping decreased at rawY=%f: %f < %f", rawY, got, prev)
		}
		if got < PaddleHeight/2 || got > FieldHeight-PaddleHeight/2 {
			t.Fatalf("mapping out of paddle travel at rawY=%f: %f", rawY, got)
		}
		prev = got
	}
}

func TestMapToPaddleY_NonFinite(t *testing.T) {
	r := Range{Min: 0.2, Max: 0.8}

	for _, rawY := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, ok := MapToPaddleY(rawY, r); ok {
			t.Errorf("MapToPaddleY(%f) should fail", rawY)
		}
	}

	// A degenerate range must not divide into NaN either.
	if _, ok := MapToPaddleY(math.NaN(), Range{}); ok {
		t.Error("NaN input with zero range should fail")
	}
}
