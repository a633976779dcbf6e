package filter

import (
	"image"

	"github.com/gogpu/sketch/internal/blend"
)

// OffsetSample reads the second input shifted by (dx, dy) pixels in canvas
// orientation. (u, v) is in the space of a w x h base image, anchored at
// the bottom-left corner. Outside the shifted image it is transparent.
func OffsetSample(src *image.NRGBA, u, v, dx, dy, w, h float64) Color {
	su := (u*w - dx) / float64(src.Rect.Dx())
	sv := (v*h - dy) / float64(src.Rect.Dy())
	if su < 0 || su > 1 || sv < 0 || sv > 1 {
		return Color{}
	}
	return Sample(src, su, sv)
}

// MaskColor scales the alpha of c by the luminance times alpha of m,
// mixed in by amount.
func MaskColor(c, m Color, amount float64) Color {
	k := blend.Lum(m.R, m.G, m.B) * m.A
	c.A *= 1 - amount + amount*k
	return c
}

// Mask uses the luminance of mask, offset by (dx, dy) pixels, as the alpha
// channel of src.
func Mask(dst, src, mask *image.NRGBA, amount, dx, dy float64) {
	w, h := float64(src.Rect.Dx()), float64(src.Rect.Dy())
	Run(dst, func(u, v float64) Color {
		return MaskColor(Sample(src, u, v), OffsetSample(mask, u, v, dx, dy, w, h), amount)
	})
}

// BlendColor mixes top onto base with mode m.
func BlendColor(m blend.Mode, base, top Color, opacity float64) Color {
	c := blend.Mix(m, blend.Color(base), blend.Color(top), opacity)
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// Blend mixes top, offset by (dx, dy) pixels, onto base with mode m.
func Blend(dst, base, top *image.NRGBA, m blend.Mode, opacity, dx, dy float64) {
	w, h := float64(base.Rect.Dx()), float64(base.Rect.Dy())
	Run(dst, func(u, v float64) Color {
		return BlendColor(m, Sample(base, u, v), OffsetSample(top, u, v, dx, dy, w, h), opacity)
	})
}

// Bloom adds a blurred copy of src to itself, scaled by intensity.
func Bloom(dst, src *image.NRGBA, intensity, radius float64) {
	glow := image.NewNRGBA(src.Rect)
	Blur(glow, src, radius)
	Run(dst, func(u, v float64) Color {
		c := Sample(src, u, v)
		g := Sample(glow, u, v)
		k := g.A * intensity
		return Color{
			R: clamp01(c.R + g.R*k),
			G: clamp01(c.G + g.G*k),
			B: clamp01(c.B + g.B*k),
			A: clamp01(c.A + g.A*intensity*(1-c.A)),
		}
	})
}

// DropShadow composites src over a black shadow of its alpha channel,
// blurred by radius, scaled by alpha and offset by (dx, dy) pixels.
func DropShadow(dst, src *image.NRGBA, alpha, radius, dx, dy float64) {
	shadow := image.NewNRGBA(src.Rect)
	Blur(shadow, src, radius)
	w, h := float64(src.Rect.Dx()), float64(src.Rect.Dy())
	Run(dst, func(u, v float64) Color {
		c := Sample(src, u, v)
		s := OffsetSample(shadow, u, v, dx, dy, w, h)
		sa := s.A * alpha
		oa := c.A + sa*(1-c.A)
		if oa <= 0 {
			return Color{}
		}
		// Shadow color is black, so it only contributes alpha.
		k := c.A / oa
		return Color{R: c.R * k, G: c.G * k, B: c.B * k, A: oa}
	})
}
