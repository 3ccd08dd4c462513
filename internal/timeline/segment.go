// Package timeline expands speed-edited clip segments into the micro-segment
// plan used for export and for the time remap table.
package timeline

import (
	"errors"
	"fmt"
)

// ErrInvalidSegments is returned by Validate for malformed segment lists.
var ErrInvalidSegments = errors.New("invalid segments")

// Segment is a user-edited span of the source recording played at Speed.
type Segment struct {
	ID      string  `yaml:"id"`
	Start   float64 `yaml:"start"` // Source time in seconds
	End     float64 `yaml:"end"`
	Speed   float64 `yaml:"speed"` // 1.0 = native, 2.0 = twice as fast
	Enabled bool    `yaml:"enabled"`
}

// Duration returns the source duration of the segment
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// ExportSegment is one entry of the compiled plan: a source range played at a
// constant speed.
type ExportSegment struct {
	SourceStart float64 `json:"source_start"`
	SourceEnd   float64 `json:"source_end"`
	Speed       float64 `json:"speed"`
}

// SourceDuration returns the length of the range in source time
func (e ExportSegment) SourceDuration() float64 {
	return e.SourceEnd - e.SourceStart
}

// CompositionDuration returns the length of the range once played at Speed
func (e ExportSegment) CompositionDuration() float64 {
	if e.Speed <= 0 {
		return e.SourceDuration()
	}
	return e.SourceDuration() / e.Speed
}

// TotalCompositionDuration sums the composition duration of a plan
func TotalCompositionDuration(segs []ExportSegment) float64 {
	total := 0.0
	for _, s := range segs {
		total += s.CompositionDuration()
	}
	return total
}

// Validate checks ordering, positive speeds and non-overlap.
func Validate(segs []Segment) error {
	for i, s := range segs {
		if s.Speed <= 0 {
			return fmt.Errorf("%w: segment %d (%s) has non-positive speed %.3f", ErrInvalidSegments, i, s.ID, s.Speed)
		}
		if s.End < s.Start {
			return fmt.Errorf("%w: segment %d (%s) ends before it starts", ErrInvalidSegments, i, s.ID)
		}
		if s.Start < 0 {
			return fmt.Errorf("%w: segment %d (%s) starts before zero", ErrInvalidSegments, i, s.ID)
		}
		if i > 0 && s.Start < segs[i-1].End-1e-9 {
			return fmt.Errorf("%w: segment %d (%s) overlaps its predecessor", ErrInvalidSegments, i, s.ID)
		}
	}
	return nil
}
