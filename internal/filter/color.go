package filter

import (
	"image"
	"math"

	"github.com/gogpu/sketch/internal/blend"
)

// Invert replaces every color component c with 1-c, keeping alpha. It
// works on bytes, so it is its own inverse.
func Invert(dst, src *image.NRGBA) {
	if !sameSize(dst, src) {
		return
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := range h {
		s := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		d := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
		for range w {
			dst.Pix[d+0] = 255 - src.Pix[s+0]
			dst.Pix[d+1] = 255 - src.Pix[s+1]
			dst.Pix[d+2] = 255 - src.Pix[s+2]
			dst.Pix[d+3] = src.Pix[s+3]
			s += 4
			d += 4
		}
	}
}

// InvertColor is the per-fragment form of Invert.
func InvertColor(c Color) Color {
	return Color{R: 1 - c.R, G: 1 - c.G, B: 1 - c.B, A: c.A}
}

// Colorize multiplies every pixel by color and adds bias.
func Colorize(dst, src *image.NRGBA, color, bias Color) {
	Run(dst, func(u, v float64) Color {
		return ColorizeColor(Sample(src, u, v), color, bias)
	})
}

// ColorizeColor is the per-fragment form of Colorize.
func ColorizeColor(c, color, bias Color) Color {
	return Color{
		R: clamp01(c.R*color.R + bias.R),
		G: clamp01(c.G*color.G + bias.G),
		B: clamp01(c.B*color.B + bias.B),
		A: clamp01(c.A*color.A + bias.A),
	}
}

// DesaturateColor mixes c toward its luminance by amount in [0,1].
func DesaturateColor(c Color, amount float64) Color {
	l := blend.Lum(c.R, c.G, c.B)
	return Color{
		R: c.R + (l-c.R)*amount,
		G: c.G + (l-c.G)*amount,
		B: c.B + (l-c.B)*amount,
		A: c.A,
	}
}

// Desaturate is the eager form of DesaturateColor.
func Desaturate(dst, src *image.NRGBA, amount float64) {
	Run(dst, func(u, v float64) Color {
		return DesaturateColor(Sample(src, u, v), amount)
	})
}

// GradientKind selects the gradient geometry.
type GradientKind int

// Gradient kinds.
const (
	Linear GradientKind = iota
	Radial
)

// Gradient fills dst with a gradient from c1 to c2. Linear gradients run
// along angle degrees (0 is left to right, counter-clockwise); radial
// gradients run from the center to the corners. spread in [0,1) shortens
// the transition band symmetrically.
func Gradient(dst *image.NRGBA, c1, c2 Color, kind GradientKind, angle, spread float64) {
	rad := angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	// Projection range of the unit square onto the direction.
	lo := math.Min(0, cos) + math.Min(0, sin)
	hi := math.Max(0, cos) + math.Max(0, sin)
	w, h := float64(dst.Rect.Dx()), float64(dst.Rect.Dy())
	maxR := math.Hypot(0.5, 0.5*h/math.Max(w, 1))
	Run(dst, func(u, v float64) Color {
		var t float64
		if kind == Radial {
			t = math.Hypot(u-0.5, (v-0.5)*h/math.Max(w, 1)) / maxR
		} else if hi > lo {
			t = (u*cos + v*sin - lo) / (hi - lo)
		}
		if spread > 0 && spread < 1 {
			t = (t - spread/2) / (1 - spread)
		}
		t = clamp01(t)
		return Color{
			R: c1.R + (c2.R-c1.R)*t,
			G: c1.G + (c2.G-c1.G)*t,
			B: c1.B + (c2.B-c1.B)*t,
			A: c1.A + (c2.A-c1.A)*t,
		}
	})
}
