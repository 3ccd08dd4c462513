// Package director synthesizes camera zoom regions from interaction activity
// and manages the user-editable region set.
package director

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Region is a user-editable zoom span. It is the one persisted, hand-edited
// entity of the pipeline; everything else is recomputed from it.
type Region struct {
	ID        string  `yaml:"id"`
	Start     float64 `yaml:"start"` // Source time in seconds
	End       float64 `yaml:"end"`
	ZoomLevel float64 `yaml:"zoom"` // 1.1 - 4.0
	FocusX    float64 `yaml:"focus_x"`
	FocusY    float64 `yaml:"focus_y"`
	Enabled   bool    `yaml:"enabled"`
}

// Duration returns the length of the region
func (r Region) Duration() float64 {
	return r.End - r.Start
}

// RegionSet is the persisted collection of regions for one recording
type RegionSet struct {
	Version      string   `yaml:"version"`
	SourceWidth  int      `yaml:"source_width"`
	SourceHeight int      `yaml:"source_height"`
	Regions      []Region `yaml:"regions"`
}

// NewRegionSet wraps synthesized regions for persistence
func NewRegionSet(width, height int, regions []Region) *RegionSet {
	return &RegionSet{
		Version:      "1.0",
		SourceWidth:  width,
		SourceHeight: height,
		Regions:      regions,
	}
}

// Enabled returns the enabled regions sorted by start time
func (s *RegionSet) Enabled() []Region {
	var out []Region
	for _, r := range s.Regions {
		if r.Enabled {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

// Find returns the index of the region with the given ID, or -1
func (s *RegionSet) Find(id string) int {
	for i, r := range s.Regions {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Add inserts a manual region. Zoom and focus are clamped to the frame.
func (s *RegionSet) Add(start, end, zoom, fx, fy float64) (Region, error) {
	if end <= start || start < 0 {
		return Region{}, fmt.Errorf("invalid region span [%.3f, %.3f]", start, end)
	}
	zoom = ClampZoom(zoom)
	fx, fy = ClampFocus(fx, fy, zoom, s.SourceWidth, s.SourceHeight)

	r := Region{
		ID:        uuid.NewString(),
		Start:     start,
		End:       end,
		ZoomLevel: zoom,
		FocusX:    fx,
		FocusY:    fy,
		Enabled:   true,
	}
	s.Regions = append(s.Regions, r)
	s.sort()
	return r, nil
}

// Move shifts a region in time by delta seconds, keeping its length
func (s *RegionSet) Move(id string, delta float64) error {
	i := s.Find(id)
	if i < 0 {
		return fmt.Errorf("region %s not found", id)
	}
	r := &s.Regions[i]
	if r.Start+delta < 0 {
		delta = -r.Start
	}
	r.Start += delta
	r.End += delta
	s.sort()
	return nil
}

// Resize sets new bounds for a region
func (s *RegionSet) Resize(id string, start, end float64) error {
	i := s.Find(id)
	if i < 0 {
		return fmt.Errorf("region %s not found", id)
	}
	if end <= start || start < 0 {
		return fmt.Errorf("invalid region span [%.3f, %.3f]", start, end)
	}
	s.Regions[i].Start = start
	s.Regions[i].End = end
	s.sort()
	return nil
}

// SetFocus moves the focus point, clamped to the frame
func (s *RegionSet) SetFocus(id string, fx, fy float64) error {
	i := s.Find(id)
	if i < 0 {
		return fmt.Errorf("region %s not found", id)
	}
	r := &s.Regions[i]
	r.FocusX, r.FocusY = ClampFocus(fx, fy, r.ZoomLevel, s.SourceWidth, s.SourceHeight)
	return nil
}

// SetEnabled toggles a region
func (s *RegionSet) SetEnabled(id string, enabled bool) error {
	i := s.Find(id)
	if i < 0 {
		return fmt.Errorf("region %s not found", id)
	}
	s.Regions[i].Enabled = enabled
	return nil
}

// Delete removes a region
func (s *RegionSet) Delete(id string) error {
	i := s.Find(id)
	if i < 0 {
		return fmt.Errorf("region %s not found", id)
	}
	s.Regions = append(s.Regions[:i], s.Regions[i+1:]...)
	return nil
}

func (s *RegionSet) sort() {
	sort.SliceStable(s.Regions, func(i, j int) bool {
		return s.Regions[i].Start < s.Regions[j].Start
	})
}
