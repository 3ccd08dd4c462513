package renderer

import (
	"image"
	"math"

	"github.com/ivlev/screencut/internal/easing"
)

// passthroughZoom is the level at or below which no crop is applied
const passthroughZoom = 1.001

// Rect is a crop rectangle in source pixels. Unless noted otherwise the
// origin is the top-left corner of the frame, matching cursor and focus
// coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// CropRect derives the crop for a camera state. The rect is frame size /
// zoom centered on the focus and clamped inside the frame. ok is false for
// zoom levels that need no crop, in which case the full frame is returned.
func CropRect(s ZoomState, width, height int) (Rect, bool) {
	w, h := float64(width), float64(height)
	if s.Zoom <= passthroughZoom {
		return Rect{X: 0, Y: 0, W: w, H: h}, false
	}

	cw, ch := w/s.Zoom, h/s.Zoom
	return Rect{
		X: easing.Clamp(s.FocusX-cw/2, 0, w-cw),
		Y: easing.Clamp(s.FocusY-ch/2, 0, h-ch),
		W: cw,
		H: ch,
	}, true
}

// FlipVertical converts between top-left and bottom-left origin conventions.
// Compositors that address frames from the bottom-left corner must receive
// the rect through this call; everything in this module is top-left.
func (r Rect) FlipVertical(frameHeight int) Rect {
	r.Y = float64(frameHeight) - r.Y - r.H
	return r
}

// Image returns the rect as integer pixel bounds
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)),
		int(math.Round(r.Y+r.H)),
	)
}
