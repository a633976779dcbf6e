// Package raster provides scanline rasterization for 2D paths and textured
// triangles onto straight-alpha RGBA8 surfaces.
package raster

import (
	"image"
	"math"
)

// FillRule specifies how to determine which areas are inside a path.
type FillRule int

const (
	// FillRuleNonZero uses the non-zero winding rule.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// RGBA is a straight (non-premultiplied) color with components in [0,1].
type RGBA struct {
	R, G, B, A float64
}

// Clip restricts the rectangle of dst that may be written. A zero Clip
// means the whole surface.
type Clip = image.Rectangle

func clipRect(dst *image.NRGBA, clip Clip) image.Rectangle {
	b := dst.Bounds()
	if clip.Empty() {
		return b
	}
	return b.Intersect(clip)
}

// BlendOver composites c with coverage alpha a over the pixel at (x, y)
// using source-over on straight alpha. Out-of-bounds writes are ignored.
func BlendOver(dst *image.NRGBA, x, y int, c RGBA, a float64) {
	if !(image.Point{X: x, Y: y}.In(dst.Rect)) {
		return
	}
	sa := c.A * a
	if sa <= 0 {
		return
	}
	i := dst.PixOffset(x, y)
	px := dst.Pix[i : i+4 : i+4]
	if sa >= 1 {
		px[0], px[1], px[2], px[3] = to8(c.R), to8(c.G), to8(c.B), 255
		return
	}
	da := float64(px[3]) / 255
	oa := sa + da*(1-sa)
	if oa <= 0 {
		px[0], px[1], px[2], px[3] = 0, 0, 0, 0
		return
	}
	k := da * (1 - sa)
	px[0] = to8((c.R*sa + float64(px[0])/255*k) / oa)
	px[1] = to8((c.G*sa + float64(px[1])/255*k) / oa)
	px[2] = to8((c.B*sa + float64(px[2])/255*k) / oa)
	px[3] = to8(oa)
}

// Set overwrites the pixel at (x, y).
func Set(dst *image.NRGBA, x, y int, c RGBA) {
	if !(image.Point{X: x, Y: y}.In(dst.Rect)) {
		return
	}
	i := dst.PixOffset(x, y)
	dst.Pix[i+0] = to8(c.R)
	dst.Pix[i+1] = to8(c.G)
	dst.Pix[i+2] = to8(c.B)
	dst.Pix[i+3] = to8(c.A)
}

// Fill overwrites every pixel of r (clipped to dst) with c.
func Fill(dst *image.NRGBA, r image.Rectangle, c RGBA) {
	r = r.Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	px := [4]uint8{to8(c.R), to8(c.G), to8(c.B), to8(c.A)}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			copy(dst.Pix[i:i+4], px[:])
			i += 4
		}
	}
}

// At returns the straight color at (x, y), or transparent outside dst.
func At(src *image.NRGBA, x, y int) RGBA {
	if !(image.Point{X: x, Y: y}.In(src.Rect)) {
		return RGBA{}
	}
	i := src.PixOffset(x, y)
	p := src.Pix[i : i+4 : i+4]
	return RGBA{
		R: float64(p[0]) / 255,
		G: float64(p[1]) / 255,
		B: float64(p[2]) / 255,
		A: float64(p[3]) / 255,
	}
}

func to8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(math.Round(v * 255))
}
