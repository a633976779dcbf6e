package filter

import (
	"image"

	"github.com/gogpu/sketch/internal/raster"
)

// Color is a straight RGBA color with components in [0,1].
type Color = raster.RGBA

// UV returns the texture coordinate of the center of pixel (x, y) of an
// image with size w x h (rows top-down, v up).
func UV(x, y, w, h int) (u, v float64) {
	return (float64(x) + 0.5) / float64(w), 1 - (float64(y)+0.5)/float64(h)
}

// Sample filters src bilinearly at texture coordinate (u, v), clamping to
// the edge.
func Sample(src *image.NRGBA, u, v float64) Color {
	w, h := float64(src.Rect.Dx()), float64(src.Rect.Dy())
	return raster.SampleBilinear(src, float64(src.Rect.Min.X)+u*w, float64(src.Rect.Min.Y)+(1-v)*h)
}

// Texel returns the pixel at (x, y) clamped to the edge of src.
func Texel(src *image.NRGBA, x, y int) Color {
	b := src.Rect
	x = min(max(x, b.Min.X), b.Max.X-1)
	y = min(max(y, b.Min.Y), b.Max.Y-1)
	return raster.At(src, x, y)
}

// Program computes the output color of the pixel centered at (u, v).
type Program func(u, v float64) Color

// Run evaluates p for every pixel of dst, overwriting it.
func Run(dst *image.NRGBA, p Program) {
	b := dst.Rect
	w, h := b.Dx(), b.Dy()
	for y := range h {
		for x := range w {
			u, v := UV(x, y, w, h)
			raster.Set(dst, b.Min.X+x, b.Min.Y+y, p(u, v))
		}
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func sameSize(dst, src *image.NRGBA) bool {
	return dst.Rect.Dx() == src.Rect.Dx() && dst.Rect.Dy() == src.Rect.Dy()
}
