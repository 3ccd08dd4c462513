package easing

import (
	"math"
	"testing"
)

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.15625},
		{0.5, 0.5},
		{0.75, 0.84375},
		{1, 1},
		{2, 1},
	}

	for _, tt := range tests {
		got := Smoothstep(tt.in)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Smoothstep(%.2f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestSmoothstepIsMonotonic(t *testing.T) {
	prev := Smoothstep(0)
	for i := 1; i <= 100; i++ {
		cur := Smoothstep(float64(i) / 100)
		if cur < prev {
			t.Fatalf("Smoothstep decreased at %d: %f < %f", i, cur, prev)
		}
		prev = cur
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp above range = %f, want 3", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Errorf("Clamp below range = %f, want 0", got)
	}
	if got := Clamp(4, 6, 2); got != 4 {
		t.Errorf("Clamp inverted range = %f, want midpoint 4", got)
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(1, 3, 0.5); got != 2 {
		t.Errorf("Lerp(1, 3, 0.5) = %f, want 2", got)
	}
}
