// Package renderer turns zoom regions into keyframes and evaluates the camera
// (zoom level, focus point, crop rectangle) at any instant.
package renderer

import (
	"math"
	"sort"

	"github.com/ivlev/screencut/internal/config"
	"github.com/ivlev/screencut/internal/director"
)

// Keyframe is a camera control point. EasingDuration is the time taken to
// reach this keyframe from the previous one; zero means a hold.
type Keyframe struct {
	Timestamp      float64 `json:"timestamp"`
	Zoom           float64 `json:"zoom"`
	FocusX         float64 `json:"focus_x"`
	FocusY         float64 `json:"focus_y"`
	EasingDuration float64 `json:"easing_duration"`
}

// BuildKeyframes expands enabled regions into zoom-in, hold and zoom-out
// keyframes, anchored by a full-frame keyframe at t=0.
func BuildKeyframes(regions []director.Region, profile config.Profile, width, height int) []Keyframe {
	enabled := make([]director.Region, 0, len(regions))
	for _, r := range regions {
		if r.Enabled {
			enabled = append(enabled, r)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Start < enabled[j].Start
	})

	keyframes := make([]Keyframe, 0, 1+4*len(enabled))
	keyframes = append(keyframes, Keyframe{
		Timestamp: 0,
		Zoom:      1.0,
		FocusX:    float64(width) / 2,
		FocusY:    float64(height) / 2,
	})

	for _, r := range enabled {
		keyframes = append(keyframes,
			// hold at full frame until the zoom-in starts
			Keyframe{
				Timestamp: math.Max(0.01, r.Start-profile.ZoomInDuration),
				Zoom:      1.0,
				FocusX:    r.FocusX,
				FocusY:    r.FocusY,
			},
			Keyframe{
				Timestamp:      r.Start,
				Zoom:           r.ZoomLevel,
				FocusX:         r.FocusX,
				FocusY:         r.FocusY,
				EasingDuration: profile.ZoomInDuration,
			},
			// hold at peak until the zoom-out starts
			Keyframe{
				Timestamp: math.Max(r.Start+0.01, r.End-profile.ZoomOutDuration),
				Zoom:      r.ZoomLevel,
				FocusX:    r.FocusX,
				FocusY:    r.FocusY,
			},
			Keyframe{
				Timestamp:      r.End,
				Zoom:           1.0,
				FocusX:         r.FocusX,
				FocusY:         r.FocusY,
				EasingDuration: profile.ZoomOutDuration,
			},
		)
	}

	sort.SliceStable(keyframes, func(i, j int) bool {
		return keyframes[i].Timestamp < keyframes[j].Timestamp
	})

	return keyframes
}

// TimeMapper maps source timestamps into composition time; ok is false when
// the timestamp was trimmed away.
type TimeMapper interface {
	CompositionTime(source float64) (float64, bool)
}

// RemapKeyframes moves keyframes from source time into composition time.
// Keyframes without a mapping are dropped; the leading anchor stays at 0.
// Easing durations are rescaled to the composition gap they now cover and
// never exceed the gap to the previous kept keyframe.
func RemapKeyframes(keyframes []Keyframe, m TimeMapper) []Keyframe {
	type mapped struct {
		kf     Keyframe
		source float64
	}

	kept := make([]mapped, 0, len(keyframes))
	for i, kf := range keyframes {
		src := kf.Timestamp
		if i == 0 && kf.Timestamp == 0 {
			kept = append(kept, mapped{kf, src})
			continue
		}
		c, ok := m.CompositionTime(kf.Timestamp)
		if !ok {
			continue
		}
		kf.Timestamp = c
		kept = append(kept, mapped{kf, src})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].kf.Timestamp < kept[j].kf.Timestamp
	})

	out := make([]Keyframe, len(kept))
	for i, k := range kept {
		kf := k.kf
		if i > 0 && kf.EasingDuration > 0 {
			prev := kept[i-1]
			gapC := kf.Timestamp - prev.kf.Timestamp
			if gapS := k.source - prev.source; gapS > 0 {
				kf.EasingDuration *= gapC / gapS
			}
			kf.EasingDuration = math.Max(0, math.Min(kf.EasingDuration, gapC))
		}
		out[i] = kf
	}
	return out
}
