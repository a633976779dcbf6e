package filter

import (
	"image"
	"math"

	"github.com/gogpu/sketch/internal/raster"
)

// Mirror reflects src about the vertical axis at dx*w (horizontal) and/or
// the horizontal axis at dy*h (vertical), wrapping around the edges. It
// moves whole pixels, so applying it twice restores src exactly.
func Mirror(dst, src *image.NRGBA, dx, dy float64, horizontal, vertical bool) {
	if !sameSize(dst, src) {
		return
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	ax := int(math.Round(dx * float64(w)))
	ay := int(math.Round(dy * float64(h)))
	for y := range h {
		sy := y
		if vertical {
			up := h - 1 - y
			sy = h - 1 - mod(2*ay-up-1, h)
		}
		for x := range w {
			sx := x
			if horizontal {
				sx = mod(2*ax-x-1, w)
			}
			s := src.PixOffset(src.Rect.Min.X+sx, src.Rect.Min.Y+sy)
			d := dst.PixOffset(dst.Rect.Min.X+x, dst.Rect.Min.Y+y)
			copy(dst.Pix[d:d+4], src.Pix[s:s+4])
		}
	}
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

// LensKind selects a radial warp.
type LensKind int

// Radial warps.
const (
	LensBump LensKind = iota
	LensDent
	LensStretch
	LensTwirl
)

// lens describes a radial warp centered at (dx, dy) with a radius relative
// to the smaller image side.
type lens struct {
	w, h   float64
	cx, cy float64
	r      float64
	fn     func(ox, oy, f float64) (float64, float64)
}

func newLens(kind LensKind, w, h, dx, dy, radius, amount float64) lens {
	l := lens{w: w, h: h, cx: dx * w, cy: dy * h, r: radius * math.Min(w, h)}
	switch kind {
	case LensDent:
		l.fn = func(ox, oy, f float64) (float64, float64) {
			s := 1 + amount*(1-f)*(1-f)
			return ox * s, oy * s
		}
	case LensStretch:
		l.fn = func(ox, oy, f float64) (float64, float64) {
			s := 1 - amount*(1-f)
			return ox * s, oy * s
		}
	case LensTwirl:
		rad := amount * math.Pi / 180
		l.fn = func(ox, oy, f float64) (float64, float64) {
			sin, cos := math.Sincos(rad * (1 - f) * (1 - f))
			return ox*cos - oy*sin, ox*sin + oy*cos
		}
	default:
		l.fn = func(ox, oy, f float64) (float64, float64) {
			s := 1 - amount*(1-f)*(1-f)
			return ox * s, oy * s
		}
	}
	return l
}

// uv maps the output coordinate (u, v) to the source coordinate.
func (l lens) uv(u, v float64) (float64, float64) {
	ox, oy := u*l.w-l.cx, v*l.h-l.cy
	d := math.Hypot(ox, oy)
	if l.r <= 0 || d >= l.r {
		return u, v
	}
	nx, ny := l.fn(ox, oy, d/l.r)
	return (l.cx + nx) / l.w, (l.cy + ny) / l.h
}

func warp(dst, src *image.NRGBA, kind LensKind, dx, dy, radius, amount float64) {
	l := newLens(kind, float64(src.Rect.Dx()), float64(src.Rect.Dy()), dx, dy, radius, amount)
	Run(dst, func(u, v float64) Color {
		su, sv := l.uv(u, v)
		return Sample(src, su, sv)
	})
}

// LensColor evaluates the warp kind at (u, v) of src. It is the per
// fragment form of Bump, Dent, Stretch and Twirl.
func LensColor(src *image.NRGBA, kind LensKind, u, v, dx, dy, radius, amount float64) Color {
	l := newLens(kind, float64(src.Rect.Dx()), float64(src.Rect.Dy()), dx, dy, radius, amount)
	su, sv := l.uv(u, v)
	return Sample(src, su, sv)
}

// Bump magnifies the region around (dx, dy). zoom in [0,1].
func Bump(dst, src *image.NRGBA, dx, dy, radius, zoom float64) {
	warp(dst, src, LensBump, dx, dy, radius, zoom)
}

// Dent pinches the region around (dx, dy) inward. zoom in [0,1].
func Dent(dst, src *image.NRGBA, dx, dy, radius, zoom float64) {
	warp(dst, src, LensDent, dx, dy, radius, zoom)
}

// Stretch magnifies linearly toward the center, producing a cone-shaped
// lens. zoom in [0,1].
func Stretch(dst, src *image.NRGBA, dx, dy, radius, zoom float64) {
	warp(dst, src, LensStretch, dx, dy, radius, zoom)
}

// Twirl rotates pixels around (dx, dy) by angle degrees at the center,
// fading to no rotation at the radius.
func Twirl(dst, src *image.NRGBA, dx, dy, radius, angle float64) {
	warp(dst, src, LensTwirl, dx, dy, radius, angle)
}

// Quad holds pixel offsets of the four corners in canvas orientation:
// bottom-left, bottom-right, top-right, top-left.
type Quad [8]float64

// IsZero reports whether q leaves every corner in place.
func (q Quad) IsZero() bool { return q == Quad{} }

// Distort draws src into dst with its corners displaced by q. Pixels not
// covered by the quad become transparent.
func Distort(dst, src *image.NRGBA, q Quad) {
	clear(dst.Pix)
	w, h := float64(dst.Rect.Dx()), float64(dst.Rect.Dy())
	ox, oy := float64(dst.Rect.Min.X), float64(dst.Rect.Min.Y)
	corner := func(x, y, dx, dy, u, v float64) raster.Vertex {
		// Offsets are y-up; dst rows are y-down.
		return raster.Vertex{X: ox + x + dx, Y: oy + h - (y + dy), U: u, V: v}
	}
	vs := [4]raster.Vertex{
		corner(0, 0, q[0], q[1], 0, 0),
		corner(w, 0, q[2], q[3], 1, 0),
		corner(w, h, q[4], q[5], 1, 1),
		corner(0, h, q[6], q[7], 0, 1),
	}
	raster.Quad(dst, vs, func(u, v float64) Color { return Sample(src, u, v) }, 1, raster.Clip{})
}
