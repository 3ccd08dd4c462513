package director

import (
	"math"
	"testing"

	"github.com/ivlev/screencut/internal/config"
)

func mediumProfile(t *testing.T) config.Profile {
	t.Helper()
	p, err := config.ProfileFor(config.SensitivityMedium)
	if err != nil {
		t.Fatalf("ProfileFor failed: %v", err)
	}
	return p
}

func TestSingleClusterProducesOneRegion(t *testing.T) {
	profile := mediumProfile(t)
	d := NewDirector(1920, 1080, profile, 2.0)

	regions := d.Synthesize([]Interaction{
		{Timestamp: 3.0, X: 800, Y: 400},
		{Timestamp: 3.4, X: 820, Y: 420},
		{Timestamp: 4.1, X: 840, Y: 440},
	})

	if len(regions) != 1 {
		t.Fatalf("Expected 1 region, got %d", len(regions))
	}

	r := regions[0]
	if math.Abs(r.Start-2.7) > 1e-9 {
		t.Errorf("Start = %f, want 2.7 (lead time)", r.Start)
	}
	if math.Abs(r.End-(4.1+profile.HoldDuration)) > 1e-9 {
		t.Errorf("End = %f, want %f", r.End, 4.1+profile.HoldDuration)
	}
	if math.Abs(r.FocusX-820) > 1e-9 || math.Abs(r.FocusY-420) > 1e-9 {
		t.Errorf("Focus = (%f, %f), want (820, 420)", r.FocusX, r.FocusY)
	}
	if !r.Enabled || r.ZoomLevel != 2.0 || r.ID == "" {
		t.Errorf("Unexpected region: %+v", r)
	}

	t.Logf("Region: %+v", r)
}

func TestSeparatedClustersProduceTwoRegions(t *testing.T) {
	profile := mediumProfile(t)
	d := NewDirector(1920, 1080, profile, 2.0)

	gap := profile.ClusterWindow + MergeWindow + 0.01
	regions := d.Synthesize([]Interaction{
		{Timestamp: 1.0, X: 500, Y: 500},
		{Timestamp: 1.5, X: 500, Y: 500},
		{Timestamp: 1.5 + gap, X: 1200, Y: 600},
		{Timestamp: 2.0 + gap, X: 1200, Y: 600},
	})

	if len(regions) != 2 {
		t.Fatalf("Expected 2 regions, got %d: %+v", len(regions), regions)
	}
	if regions[0].Start >= regions[1].Start {
		t.Errorf("Regions should be ordered by start time")
	}
}

func TestNearbyClustersMerge(t *testing.T) {
	profile := mediumProfile(t)
	d := NewDirector(1920, 1080, profile, 2.0)

	// second burst is outside the cluster window but its region starts
	// within the merge window of the first region's end
	second := 1.5 + profile.ClusterWindow + 0.1
	regions := d.Synthesize([]Interaction{
		{Timestamp: 1.0, X: 600, Y: 400},
		{Timestamp: 1.5, X: 600, Y: 400},
		{Timestamp: second, X: 1000, Y: 600},
		{Timestamp: second + 0.2, X: 1000, Y: 600},
	})

	if len(regions) != 1 {
		t.Fatalf("Expected merged region, got %d", len(regions))
	}
	r := regions[0]
	if math.Abs(r.FocusX-800) > 1e-9 || math.Abs(r.FocusY-500) > 1e-9 {
		t.Errorf("Merged focus = (%f, %f), want (800, 500)", r.FocusX, r.FocusY)
	}
	if math.Abs(r.End-(second+0.2+profile.HoldDuration)) > 1e-9 {
		t.Errorf("Merged end = %f", r.End)
	}
}

func TestSmallClustersDropped(t *testing.T) {
	low, err := config.ProfileFor(config.SensitivityLow)
	if err != nil {
		t.Fatal(err)
	}
	d := NewDirector(1920, 1080, low, 2.0)

	regions := d.Synthesize([]Interaction{
		{Timestamp: 1, X: 10, Y: 10},
		{Timestamp: 1.5, X: 10, Y: 10},
		{Timestamp: 20, X: 10, Y: 10},
	})

	if len(regions) != 0 {
		t.Errorf("Clusters below the minimum size should be dropped, got %d", len(regions))
	}
}

func TestFocusStaysInsideFrame(t *testing.T) {
	high, err := config.ProfileFor(config.SensitivityHigh)
	if err != nil {
		t.Fatal(err)
	}

	const w, h = 1920, 1080
	for _, zoom := range []float64{1.1, 2.0, 4.0} {
		d := NewDirector(w, h, high, zoom)
		regions := d.Synthesize([]Interaction{
			{Timestamp: 0.1, X: 0, Y: 0},
			{Timestamp: 10, X: w, Y: h},
			{Timestamp: 20, X: -50, Y: h + 70},
			{Timestamp: 30, X: w / 2, Y: 5},
		})

		if len(regions) != 4 {
			t.Fatalf("zoom %.1f: expected 4 regions, got %d", zoom, len(regions))
		}

		minX, maxX := w/(2*zoom), w-w/(2*zoom)
		minY, maxY := h/(2*zoom), h-h/(2*zoom)
		for _, r := range regions {
			if r.FocusX < minX-1e-9 || r.FocusX > maxX+1e-9 || r.FocusY < minY-1e-9 || r.FocusY > maxY+1e-9 {
				t.Errorf("zoom %.1f: focus (%f, %f) outside [%f..%f]x[%f..%f]", zoom, r.FocusX, r.FocusY, minX, maxX, minY, maxY)
			}
		}
		if regions[0].Start != 0 {
			t.Errorf("Lead time must not go below zero, got %f", regions[0].Start)
		}
	}
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	d := NewDirector(1280, 720, mediumProfile(t), 1.8)
	input := []Interaction{
		{Timestamp: 5, X: 300, Y: 200},
		{Timestamp: 2, X: 100, Y: 100},
		{Timestamp: 2.5, X: 120, Y: 90},
		{Timestamp: 5.5, X: 310, Y: 220},
	}

	a := d.Synthesize(input)
	b := d.Synthesize(input)
	if len(a) != len(b) {
		t.Fatalf("Length mismatch")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Region %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestZoomLevelClamped(t *testing.T) {
	if d := NewDirector(100, 100, mediumProfile(t), 9); d.ZoomLevel != 4.0 {
		t.Errorf("ZoomLevel = %f, want 4.0", d.ZoomLevel)
	}
	if d := NewDirector(100, 100, mediumProfile(t), 1.0); d.ZoomLevel != 1.1 {
		t.Errorf("ZoomLevel = %f, want 1.1", d.ZoomLevel)
	}
}

func TestEmptyInteractions(t *testing.T) {
	if regions := NewDirector(100, 100, mediumProfile(t), 2).Synthesize(nil); len(regions) != 0 {
		t.Errorf("Expected no regions, got %d", len(regions))
	}
}
