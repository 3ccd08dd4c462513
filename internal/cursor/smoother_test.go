package cursor

import (
	"math"
	"testing"
)

func TestSmoothRepeatedPointsAreExact(t *testing.T) {
	samples := []Sample{
		{Timestamp: 0.0, X: 640, Y: 360},
		{Timestamp: 0.37, X: 640, Y: 360},
		{Timestamp: 1.9, X: 640, Y: 360},
	}

	traj := Smooth(samples, 60)
	if traj.Len() != int(math.Floor(1.9*60))+1 {
		t.Fatalf("Expected %d points, got %d", int(math.Floor(1.9*60))+1, traj.Len())
	}

	for _, p := range traj.Points() {
		if p.X != 640 || p.Y != 360 {
			t.Fatalf("At %.3fs got (%v, %v), want exactly (640, 360)", p.Timestamp, p.X, p.Y)
		}
	}
}

func TestSmoothPassesThroughSamples(t *testing.T) {
	samples := []Sample{
		{Timestamp: 0, X: 0, Y: 0},
		{Timestamp: 0.5, X: 100, Y: 50},
		{Timestamp: 1.0, X: 150, Y: 200},
		{Timestamp: 1.5, X: 400, Y: 220},
	}

	traj := Smooth(samples, 10)
	points := traj.Points()

	// frames at 0, 0.5, 1.0 and 1.5 land on the input samples
	for _, idx := range []int{0, 5, 10, 15} {
		want := samples[idx/5]
		got := points[idx]
		if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 {
			t.Errorf("Frame %d = (%f, %f), want (%f, %f)", idx, got.X, got.Y, want.X, want.Y)
		}
	}
}

func TestSmoothEvenSpacing(t *testing.T) {
	samples := []Sample{
		{Timestamp: 0.013, X: 0, Y: 0},
		{Timestamp: 0.4, X: 10, Y: 10},
		{Timestamp: 0.41, X: 12, Y: 11},
		{Timestamp: 2.0, X: 300, Y: 40},
	}

	traj := Smooth(samples, 30)
	points := traj.Points()

	for i, p := range points {
		if math.Abs(p.Timestamp-float64(i)/30) > 1e-12 {
			t.Fatalf("Point %d at %f, want %f", i, p.Timestamp, float64(i)/30)
		}
	}
	if last := points[len(points)-1].Timestamp; last > 2.0 {
		t.Errorf("Trajectory should stop at the last sample, ended at %f", last)
	}
	// before the first sample the position holds the first sample
	if points[0].X != 0 || points[0].Y != 0 {
		t.Errorf("First point = (%f, %f), want (0, 0)", points[0].X, points[0].Y)
	}
}

func TestSmoothNoOvershootOnIrregularSpacing(t *testing.T) {
	// a burst of close samples followed by a long jump: uniform Catmull-Rom
	// overshoots here, centripetal should stay within the hull of the samples
	samples := []Sample{
		{Timestamp: 0, X: 0, Y: 0},
		{Timestamp: 0.1, X: 1, Y: 0},
		{Timestamp: 0.2, X: 2, Y: 0},
		{Timestamp: 1.2, X: 500, Y: 0},
		{Timestamp: 1.3, X: 501, Y: 0},
	}

	traj := Smooth(samples, 120)
	for _, p := range traj.Points() {
		if p.X < -1e-6 || p.X > 501+1e-6 {
			t.Errorf("Overshoot at %.3fs: x=%f", p.Timestamp, p.X)
		}
		if math.Abs(p.Y) > 1e-9 {
			t.Errorf("Collinear samples left the line at %.3fs: y=%f", p.Timestamp, p.Y)
		}
	}
}

func TestSmoothUnsortedInput(t *testing.T) {
	sorted := Smooth([]Sample{{0, 0, 0}, {1, 10, 0}, {2, 20, 5}}, 20)
	shuffled := Smooth([]Sample{{2, 20, 5}, {0, 0, 0}, {1, 10, 0}}, 20)

	a, b := sorted.Points(), shuffled.Points()
	if len(a) != len(b) {
		t.Fatalf("Length mismatch %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Point %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSmoothDegenerateInputs(t *testing.T) {
	if traj := Smooth(nil, 60); traj.Len() != 0 {
		t.Errorf("Empty input should give empty trajectory, got %d", traj.Len())
	}

	traj := Smooth([]Sample{{Timestamp: 1, X: 7, Y: 9}}, 4)
	if traj.Len() != 5 {
		t.Fatalf("Expected 5 points over [0, 1] at 4 fps, got %d", traj.Len())
	}
	for _, p := range traj.Points() {
		if p.X != 7 || p.Y != 9 {
			t.Errorf("Single sample should repeat, got %+v", p)
		}
	}
}
