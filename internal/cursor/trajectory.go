package cursor

import (
	"sort"

	"github.com/ivlev/screencut/internal/easing"
)

// Trajectory is a dense, evenly spaced cursor path
type Trajectory struct {
	points []Point
}

// NewTrajectory wraps already smoothed points, which must be sorted by time
func NewTrajectory(points []Point) *Trajectory {
	return &Trajectory{points: points}
}

// Len returns the number of points
func (t *Trajectory) Len() int {
	return len(t.points)
}

// Points returns a copy of the smoothed points
func (t *Trajectory) Points() []Point {
	out := make([]Point, len(t.points))
	copy(out, t.points)
	return out
}

// LookupPosition returns the interpolated position at ts, clamped to the
// first and last points. ok is false only for an empty trajectory.
func (t *Trajectory) LookupPosition(ts float64) (Point, bool) {
	n := len(t.points)
	if n == 0 {
		return Point{}, false
	}
	if ts <= t.points[0].Timestamp {
		p := t.points[0]
		p.Timestamp = ts
		return p, true
	}
	if ts >= t.points[n-1].Timestamp {
		p := t.points[n-1]
		p.Timestamp = ts
		return p, true
	}

	i := sort.Search(n, func(k int) bool {
		return t.points[k].Timestamp > ts
	})
	prev, next := t.points[i-1], t.points[i]

	span := next.Timestamp - prev.Timestamp
	if span <= 0 {
		return Point{Timestamp: ts, X: prev.X, Y: prev.Y}, true
	}
	u := (ts - prev.Timestamp) / span
	return Point{
		Timestamp: ts,
		X:         easing.Lerp(prev.X, next.X, u),
		Y:         easing.Lerp(prev.Y, next.Y, u),
	}, true
}
