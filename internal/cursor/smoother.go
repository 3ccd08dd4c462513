// Package cursor turns sparse, irregularly timed pointer samples into an
// evenly spaced, spline-smoothed trajectory.
package cursor

import (
	"math"
	"sort"
)

// Alpha selects the centripetal Catmull-Rom parameterization
const Alpha = 0.5

// Sample is a raw pointer position in source pixels
type Sample struct {
	Timestamp float64
	X         float64
	Y         float64
}

// Point is a smoothed pointer position in source pixels (top-left origin)
type Point struct {
	Timestamp float64 `json:"timestamp"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// Smooth resamples samples at fps over [0, last timestamp] along a
// centripetal Catmull-Rom spline. Samples do not need to be sorted.
func Smooth(samples []Sample, fps float64) *Trajectory {
	if len(samples) == 0 || !(fps > 0) {
		return NewTrajectory(nil)
	}

	pts := make([]Sample, len(samples))
	copy(pts, samples)
	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].Timestamp < pts[j].Timestamp
	})

	last := pts[len(pts)-1].Timestamp
	frames := int(math.Floor(last*fps+1e-9)) + 1

	out := make([]Point, 0, frames)
	seg := 0
	for f := 0; f < frames; f++ {
		t := float64(f) / fps

		// advance to the last sample at or before t
		for seg+1 < len(pts) && pts[seg+1].Timestamp <= t {
			seg++
		}

		x, y := evaluate(pts, seg, t)
		out = append(out, Point{Timestamp: t, X: x, Y: y})
	}

	return NewTrajectory(out)
}

// evaluate returns the spline position at t for the span starting at pts[i]
func evaluate(pts []Sample, i int, t float64) (float64, float64) {
	if t <= pts[0].Timestamp {
		return pts[0].X, pts[0].Y
	}
	if i >= len(pts)-1 {
		p := pts[len(pts)-1]
		return p.X, p.Y
	}

	p1, p2 := pts[i], pts[i+1]
	if p1.X == p2.X && p1.Y == p2.Y {
		return p1.X, p1.Y
	}

	p0 := p1
	if i > 0 {
		p0 = pts[i-1]
	}
	p3 := p2
	if i+2 < len(pts) {
		p3 = pts[i+2]
	}

	span := p2.Timestamp - p1.Timestamp
	u := 1.0
	if span > 0 {
		u = (t - p1.Timestamp) / span
	}
	u = math.Max(0, math.Min(1, u))

	b1x, b1y, b2x, b2y := controlPoints(p0, p1, p2, p3)
	return bezier(p1.X, b1x, b2x, p2.X, u), bezier(p1.Y, b1y, b2y, p2.Y, u)
}

// controlPoints converts a centripetal Catmull-Rom span p1→p2 into the two
// inner control points of the equivalent cubic Bézier.
func controlPoints(p0, p1, p2, p3 Sample) (b1x, b1y, b2x, b2y float64) {
	d1 := math.Pow(dist(p0, p1), Alpha)
	d2 := math.Pow(dist(p1, p2), Alpha)
	d3 := math.Pow(dist(p2, p3), Alpha)

	const eps = 1e-9

	if d1 < eps {
		b1x, b1y = p1.X, p1.Y
	} else {
		a := d1 * d1
		b := d2 * d2
		c := 2*a + 3*d1*d2 + b
		n := 3 * d1 * (d1 + d2)
		b1x = (a*p2.X - b*p0.X + c*p1.X) / n
		b1y = (a*p2.Y - b*p0.Y + c*p1.Y) / n
	}

	if d3 < eps {
		b2x, b2y = p2.X, p2.Y
	} else {
		a := d3 * d3
		b := d2 * d2
		c := 2*a + 3*d3*d2 + b
		n := 3 * d3 * (d3 + d2)
		b2x = (a*p1.X - b*p3.X + c*p2.X) / n
		b2y = (a*p1.Y - b*p3.Y + c*p2.Y) / n
	}

	return b1x, b1y, b2x, b2y
}

func bezier(p0, p1, p2, p3, u float64) float64 {
	v := 1 - u
	return v*v*v*p0 + 3*v*v*u*p1 + 3*v*u*u*p2 + u*u*u*p3
}

func dist(a, b Sample) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
