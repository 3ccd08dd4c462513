package timeline

import (
	"math"

	"github.com/ivlev/screencut/internal/easing"
)

const (
	// DefaultHalfRamp is the ramp length on each side of a speed change
	DefaultHalfRamp = 0.15

	// RampSteps is the number of micro-segments per half ramp
	RampSteps = 5

	// speedDeltaThreshold below which two speeds count as equal
	speedDeltaThreshold = 0.01

	// minMainDuration below which a main portion is not emitted
	minMainDuration = 0.001
)

// rampZone straddles the boundary between enabled segments boundary and boundary+1.
type rampZone struct {
	boundary     int
	preRampStart float64
	postRampEnd  float64
	fromSpeed    float64
	toSpeed      float64
}

// speedAt evaluates the eased speed at source time t inside the zone
func (z rampZone) speedAt(t float64) float64 {
	width := z.postRampEnd - z.preRampStart
	u := 0.0
	if width > 0 {
		u = (t - z.preRampStart) / width
	}
	return easing.Lerp(z.fromSpeed, z.toSpeed, easing.Smoothstep(u))
}

// Compile expands segments into ramp-smoothed export segments. Disabled
// segments are dropped; zero or one enabled segment passes through unchanged.
func Compile(segs []Segment, halfRamp float64) []ExportSegment {
	enabled := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}

	if len(enabled) <= 1 || halfRamp <= 0 {
		return passthrough(enabled)
	}

	// zones[i] is the ramp at the boundary between enabled[i] and enabled[i+1]
	zones := make([]*rampZone, len(enabled)-1)
	for i := 0; i < len(enabled)-1; i++ {
		a, b := enabled[i], enabled[i+1]
		if math.Abs(a.Speed-b.Speed) <= speedDeltaThreshold {
			continue
		}
		pre := math.Min(halfRamp, a.Duration()/2)
		post := math.Min(halfRamp, b.Duration()/2)
		zones[i] = &rampZone{
			boundary:     i,
			preRampStart: a.End - pre,
			postRampEnd:  b.Start + post,
			fromSpeed:    a.Speed,
			toSpeed:      b.Speed,
		}
	}

	out := make([]ExportSegment, 0, len(enabled)*(1+2*RampSteps))
	for i, s := range enabled {
		var incoming, outgoing *rampZone
		if i > 0 {
			incoming = zones[i-1]
		}
		if i < len(zones) {
			outgoing = zones[i]
		}

		mainStart, mainEnd := s.Start, s.End

		if incoming != nil {
			mainStart = incoming.postRampEnd
			out = appendRampSteps(out, *incoming, s.Start, incoming.postRampEnd)
		}
		if outgoing != nil {
			mainEnd = outgoing.preRampStart
		}

		if mainEnd-mainStart > minMainDuration {
			out = append(out, ExportSegment{SourceStart: mainStart, SourceEnd: mainEnd, Speed: s.Speed})
		}

		if outgoing != nil {
			out = appendRampSteps(out, *outgoing, outgoing.preRampStart, s.End)
		}
	}

	return out
}

// appendRampSteps splits [from, to] into RampSteps uniform micro-segments,
// each at the eased speed of its midpoint.
func appendRampSteps(out []ExportSegment, z rampZone, from, to float64) []ExportSegment {
	span := to - from
	if span <= 0 {
		return out
	}
	step := span / RampSteps
	for k := 0; k < RampSteps; k++ {
		start := from + float64(k)*step
		end := start + step
		if k == RampSteps-1 {
			end = to
		}
		out = append(out, ExportSegment{
			SourceStart: start,
			SourceEnd:   end,
			Speed:       z.speedAt((start + end) / 2),
		})
	}
	return out
}

func passthrough(segs []Segment) []ExportSegment {
	out := make([]ExportSegment, 0, len(segs))
	for _, s := range segs {
		out = append(out, ExportSegment{SourceStart: s.Start, SourceEnd: s.End, Speed: s.Speed})
	}
	return out
}
