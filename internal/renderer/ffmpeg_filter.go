package renderer

import (
	"fmt"
	"math"

	"github.com/ivlev/screencut/internal/easing"
)

// GenerateZoomFilter creates an FFmpeg zoompan filter reproducing
// InterpolateZoom for keyframes given in output (composition) time.
func GenerateZoomFilter(keyframes []Keyframe, fps float64, width, height int) string {
	if len(keyframes) == 0 {
		return ""
	}

	// output timestamp of the current frame
	t := fmt.Sprintf("(on/%.6f)", fps)

	zoomExpr := buildKeyframeExpression(keyframes, t, func(kf Keyframe) float64 { return kf.Zoom })
	focusX := buildKeyframeExpression(keyframes, t, func(kf Keyframe) float64 { return kf.FocusX })
	focusY := buildKeyframeExpression(keyframes, t, func(kf Keyframe) float64 { return kf.FocusY })

	// zoompan positions the crop by its top-left corner
	xExpr := fmt.Sprintf("clip(%s-iw/zoom/2,0,iw-iw/zoom)", focusX)
	yExpr := fmt.Sprintf("clip(%s-ih/zoom/2,0,ih-ih/zoom)", focusY)

	return fmt.Sprintf("zoompan=z='%s':x='%s':y='%s':d=1:s=%dx%d:fps=%s",
		zoomExpr, xExpr, yExpr, width, height, formatFPS(fps))
}

// buildKeyframeExpression creates a piecewise expression of t that holds
// or smoothstep-blends one keyframe field the same way InterpolateZoom does
func buildKeyframeExpression(keyframes []Keyframe, t string, field func(Keyframe) float64) string {
	if len(keyframes) == 1 {
		return fmt.Sprintf("%.6f", field(keyframes[0]))
	}

	expr := ""
	for i := 0; i < len(keyframes)-1; i++ {
		prev, next := keyframes[i], keyframes[i+1]

		if i > 0 {
			expr += ","
		}

		// if(lt(t,next),segment,...)
		expr += fmt.Sprintf("if(lt(%s,%.6f),%s", t, next.Timestamp, segmentExpression(prev, next, t, field))
	}

	// Final value after the last keyframe, then close all if statements
	expr += fmt.Sprintf(",%.6f", field(keyframes[len(keyframes)-1]))
	for i := 0; i < len(keyframes)-1; i++ {
		expr += ")"
	}

	return expr
}

// segmentExpression is the value between prev and next
func segmentExpression(prev, next Keyframe, t string, field func(Keyframe) float64) string {
	from, to := field(prev), field(next)
	if easing.NearlyZero(next.EasingDuration) || from == to {
		return fmt.Sprintf("%.6f", to)
	}

	p := fmt.Sprintf("clip((%s-%.6f)/%.6f,0,1)", t, prev.Timestamp, next.EasingDuration)
	return fmt.Sprintf("%.6f+(%.6f)*%s*%s*(3-2*%s)", from, to-from, p, p, p)
}

func formatFPS(fps float64) string {
	if fps == math.Trunc(fps) {
		return fmt.Sprintf("%d", int(fps))
	}
	return fmt.Sprintf("%.3f", fps)
}
