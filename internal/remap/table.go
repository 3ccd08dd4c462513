// Package remap maps between source time (the original recording) and
// composition time (the speed-adjusted output).
package remap

import (
	"math"
	"sort"

	"github.com/ivlev/screencut/internal/easing"
	"github.com/ivlev/screencut/internal/timeline"
)

const (
	// SamplesPerSecond is the table density in composition time
	SamplesPerSecond = 60

	// ReverseTolerance is the largest source-time distance a reverse lookup
	// accepts before reporting no mapping
	ReverseTolerance = 1.0

	// abutEpsilon decides whether two segments touch in source time
	abutEpsilon = 1e-9
)

// Entry pairs a composition timestamp with the source timestamp it shows.
type Entry struct {
	CompositionTime float64 `json:"composition_time"`
	SourceTime      float64 `json:"source_time"`
}

// Table is an ordered remap table, non-decreasing in both fields.
type Table struct {
	entries      []Entry
	sourceSorted bool
}

// Build walks the compiled plan and samples it in composition time.
func Build(segs []timeline.ExportSegment) *Table {
	t := &Table{}
	comp := 0.0

	for i, seg := range segs {
		srcDur := seg.SourceDuration()
		compDur := seg.CompositionDuration()

		samples := int(math.Ceil(compDur * SamplesPerSecond))
		if samples < 1 {
			samples = 1
		}
		for j := 0; j < samples; j++ {
			frac := float64(j) / float64(samples)
			t.entries = append(t.entries, Entry{
				CompositionTime: comp + frac*compDur,
				SourceTime:      seg.SourceStart + frac*srcDur,
			})
		}

		comp += compDur

		// Close the segment explicitly when the next one does not continue it,
		// so forward lookups never interpolate across a trimmed span.
		last := i == len(segs)-1
		if last || math.Abs(segs[i+1].SourceStart-seg.SourceEnd) > abutEpsilon {
			t.entries = append(t.entries, Entry{CompositionTime: comp, SourceTime: seg.SourceEnd})
		}
	}

	t.sourceSorted = sort.SliceIsSorted(t.entries, func(i, j int) bool {
		return t.entries[i].SourceTime < t.entries[j].SourceTime
	})

	return t
}

// Len returns the number of entries
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the table entries
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Duration returns the composition length covered by the table
func (t *Table) Duration() float64 {
	if len(t.entries) == 0 {
		return 0
	}
	return t.entries[len(t.entries)-1].CompositionTime
}

// SourceTime maps a composition timestamp to source time. This runs once per
// rendered frame. Out-of-range queries clamp; an empty table is the identity.
func (t *Table) SourceTime(c float64) float64 {
	n := len(t.entries)
	if n == 0 {
		return c
	}
	if c <= t.entries[0].CompositionTime {
		return t.entries[0].SourceTime
	}
	if c >= t.entries[n-1].CompositionTime {
		return t.entries[n-1].SourceTime
	}

	// first entry strictly after c; entries[i-1] <= c < entries[i]
	i := sort.Search(n, func(k int) bool {
		return t.entries[k].CompositionTime > c
	})
	prev, next := t.entries[i-1], t.entries[i]

	span := next.CompositionTime - prev.CompositionTime
	if span <= 0 {
		return prev.SourceTime
	}
	return easing.Lerp(prev.SourceTime, next.SourceTime, (c-prev.CompositionTime)/span)
}

// CompositionTime maps a source timestamp to composition time using the
// nearest entry. ok is false when every entry is more than ReverseTolerance
// away, which means the timestamp sits in a disabled or trimmed span.
func (t *Table) CompositionTime(s float64) (c float64, ok bool) {
	if len(t.entries) == 0 {
		return 0, false
	}

	best := t.nearest(s)
	if math.Abs(t.entries[best].SourceTime-s) > ReverseTolerance {
		return 0, false
	}
	return t.entries[best].CompositionTime, true
}

// nearest returns the index of the entry closest to s in source time
func (t *Table) nearest(s float64) int {
	if !t.sourceSorted {
		best := 0
		bestDist := math.Inf(1)
		for i, e := range t.entries {
			if d := math.Abs(e.SourceTime - s); d < bestDist {
				best, bestDist = i, d
			}
		}
		return best
	}

	n := len(t.entries)
	i := sort.Search(n, func(k int) bool {
		return t.entries[k].SourceTime >= s
	})
	switch {
	case i == 0:
		return 0
	case i == n:
		return n - 1
	}
	if s-t.entries[i-1].SourceTime <= t.entries[i].SourceTime-s {
		return i - 1
	}
	return i
}
