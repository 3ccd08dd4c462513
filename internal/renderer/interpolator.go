package renderer

import (
	"sort"

	"github.com/ivlev/screencut/internal/easing"
)

// ZoomState is the camera at a specific moment
type ZoomState struct {
	Zoom   float64 `json:"zoom"` // 1.0 = full frame
	FocusX float64 `json:"focus_x"`
	FocusY float64 `json:"focus_y"`
}

func stateOf(kf Keyframe) ZoomState {
	return ZoomState{Zoom: kf.Zoom, FocusX: kf.FocusX, FocusY: kf.FocusY}
}

// InterpolateZoom evaluates the camera at t. Before the first and after the
// last keyframe the nearest keyframe holds. A target keyframe with no easing
// is returned exactly so long holds never drift. No keyframes is the identity.
func InterpolateZoom(keyframes []Keyframe, t float64) ZoomState {
	n := len(keyframes)
	if n == 0 {
		return ZoomState{Zoom: 1.0}
	}

	if t <= keyframes[0].Timestamp {
		return stateOf(keyframes[0])
	}
	if t >= keyframes[n-1].Timestamp {
		return stateOf(keyframes[n-1])
	}

	// first keyframe after t; prev <= t < next
	i := sort.Search(n, func(k int) bool {
		return keyframes[k].Timestamp > t
	})
	prev, next := keyframes[i-1], keyframes[i]

	if easing.NearlyZero(next.EasingDuration) {
		return stateOf(next)
	}

	progress := easing.Clamp((t-prev.Timestamp)/next.EasingDuration, 0, 1)
	e := easing.Smoothstep(progress)

	return ZoomState{
		Zoom:   easing.Lerp(prev.Zoom, next.Zoom, e),
		FocusX: easing.Lerp(prev.FocusX, next.FocusX, e),
		FocusY: easing.Lerp(prev.FocusY, next.FocusY, e),
	}
}
