package renderer

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/ivlev/screencut/internal/cursor"
	"github.com/ivlev/screencut/internal/system"
)

const cursorRadius = 6

var (
	cursorFill    = color.RGBA{R: 255, G: 214, B: 0, A: 220}
	cursorOutline = color.RGBA{R: 20, G: 20, B: 20, A: 255}
)

// RenderPreview crops src to crop, scales the result to outW x outH and marks
// the cursor when one is given. The returned image comes from the shared pool;
// hand it back with system.PutImage once encoded.
func RenderPreview(src image.Image, crop Rect, pointer *cursor.Point, outW, outH int) *image.RGBA {
	dst := system.GetImage(image.Rect(0, 0, outW, outH))

	sr := crop.Image().Add(src.Bounds().Min).Intersect(src.Bounds())
	if sr.Empty() {
		draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sr, draw.Src, nil)

	if pointer != nil && crop.W > 0 && crop.H > 0 {
		px := (pointer.X - crop.X) * float64(outW) / crop.W
		py := (pointer.Y - crop.Y) * float64(outH) / crop.H
		drawMarker(dst, int(px), int(py))
	}

	return dst
}

// drawMarker paints a filled disc with a one pixel outline
func drawMarker(img *image.RGBA, cx, cy int) {
	b := img.Bounds()
	outer := (cursorRadius + 1) * (cursorRadius + 1)
	inner := cursorRadius * cursorRadius

	for y := cy - cursorRadius - 1; y <= cy+cursorRadius+1; y++ {
		for x := cx - cursorRadius - 1; x <= cx+cursorRadius+1; x++ {
			if !(image.Point{X: x, Y: y}).In(b) {
				continue
			}
			d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
			switch {
			case d <= inner:
				img.SetRGBA(x, y, cursorFill)
			case d <= outer:
				img.SetRGBA(x, y, cursorOutline)
			}
		}
	}
}
