package timeline

import (
	"fmt"
	"math"
)

// Placement is an export segment positioned on the composition track.
type Placement struct {
	Segment          ExportSegment `json:"segment"`
	CompositionStart float64       `json:"composition_start"`
	Duration         float64       `json:"duration"` // Composition duration after scaling
}

// CompositionEnd returns where the placement ends on the track
func (p Placement) CompositionEnd() float64 {
	return p.CompositionStart + p.Duration
}

// Track is a composition track addressed in composition time. Scaling a
// range shifts every later placement, the same way editing a real track does.
type Track struct {
	placements []Placement
}

// Insert appends a source range at its native duration and returns its
// composition start.
func (t *Track) Insert(seg ExportSegment) float64 {
	start := t.Duration()
	t.placements = append(t.placements, Placement{
		Segment:          seg,
		CompositionStart: start,
		Duration:         seg.SourceDuration(),
	})
	return start
}

// ScaleTimeRange rescales the placement occupying [start, start+duration) to
// newDuration and shifts everything after it.
func (t *Track) ScaleTimeRange(start, duration, newDuration float64) error {
	const eps = 1e-9
	for i := range t.placements {
		p := &t.placements[i]
		if math.Abs(p.CompositionStart-start) > eps || math.Abs(p.Duration-duration) > eps {
			continue
		}
		delta := newDuration - p.Duration
		p.Duration = newDuration
		for j := i + 1; j < len(t.placements); j++ {
			t.placements[j].CompositionStart += delta
		}
		return nil
	}
	return fmt.Errorf("no placement at %.6f+%.6f", start, duration)
}

// Duration returns the composition length of the track
func (t *Track) Duration() float64 {
	if len(t.placements) == 0 {
		return 0
	}
	return t.placements[len(t.placements)-1].CompositionEnd()
}

// Placements returns a copy of the current placements
func (t *Track) Placements() []Placement {
	out := make([]Placement, len(t.placements))
	copy(out, t.placements)
	return out
}

// Place inserts every export segment sequentially at native duration, then
// applies the 1/speed scale in reverse placement order so the recorded start
// offsets of earlier placements stay valid while later ones are scaled.
func Place(segs []ExportSegment) ([]Placement, error) {
	track := &Track{}
	starts := make([]float64, len(segs))
	for i, s := range segs {
		starts[i] = track.Insert(s)
	}

	for i := len(segs) - 1; i >= 0; i-- {
		s := segs[i]
		if s.Speed == 1 {
			continue
		}
		if err := track.ScaleTimeRange(starts[i], s.SourceDuration(), s.CompositionDuration()); err != nil {
			return nil, fmt.Errorf("scale placement %d: %w", i, err)
		}
	}

	return track.Placements(), nil
}
