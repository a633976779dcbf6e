package raster

import (
	"image"
	"math"
)

// Vertex is a device-space position with texture coordinates.
type Vertex struct {
	X, Y float64
	U, V float64
}

// Shader returns the straight color of a fragment at texture coordinate
// (u, v). Returning a zero alpha discards the fragment.
type Shader func(u, v float64) RGBA

// Triangle composites the fragments of the triangle whose pixel centers lie
// inside it. Edges shared by two triangles are owned by exactly one of
// them, so a quad split along its diagonal covers every pixel once.
func Triangle(dst *image.NRGBA, v0, v1, v2 Vertex, shade Shader, opacity float64, clip Clip) {
	area := edgeFn(v0, v1, v2.X, v2.Y)
	if area == 0 || opacity <= 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	r := image.Rect(
		int(math.Floor(min(v0.X, v1.X, v2.X))), int(math.Floor(min(v0.Y, v1.Y, v2.Y))),
		int(math.Ceil(max(v0.X, v1.X, v2.X))), int(math.Ceil(max(v0.Y, v1.Y, v2.Y))),
	).Intersect(clipRect(dst, clip))

	o0, o1, o2 := owns(v1, v2), owns(v2, v0), owns(v0, v1)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		py := float64(y) + 0.5
		for x := r.Min.X; x < r.Max.X; x++ {
			px := float64(x) + 0.5
			w0 := edgeFn(v1, v2, px, py)
			w1 := edgeFn(v2, v0, px, py)
			w2 := edgeFn(v0, v1, px, py)
			if !inside(w0, o0) || !inside(w1, o1) || !inside(w2, o2) {
				continue
			}
			u := (w0*v0.U + w1*v1.U + w2*v2.U) / area
			v := (w0*v0.V + w1*v1.V + w2*v2.V) / area
			c := shade(u, v)
			if c.A <= 0 {
				continue
			}
			BlendOver(dst, x, y, c, opacity)
		}
	}
}

// Quad draws the convex quad v0..v3 as two triangles split along v0-v2.
func Quad(dst *image.NRGBA, v [4]Vertex, shade Shader, opacity float64, clip Clip) {
	Triangle(dst, v[0], v[1], v[2], shade, opacity, clip)
	Triangle(dst, v[0], v[2], v[3], shade, opacity, clip)
}

func edgeFn(a, b Vertex, x, y float64) float64 {
	return (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
}

// owns reports whether pixel centers exactly on edge a-b belong to the
// triangle. The predicate is antisymmetric in the edge direction.
func owns(a, b Vertex) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	return dy > 0 || (dy == 0 && dx < 0)
}

func inside(w float64, owned bool) bool {
	return w > 0 || (w == 0 && owned)
}

// SampleNearest returns the texel containing pixel-space position (fx, fy),
// clamped to the edge.
func SampleNearest(src *image.NRGBA, fx, fy float64) RGBA {
	b := src.Rect
	x := clampInt(int(math.Floor(fx)), b.Min.X, b.Max.X-1)
	y := clampInt(int(math.Floor(fy)), b.Min.Y, b.Max.Y-1)
	return At(src, x, y)
}

// SampleBilinear filters the four texels around pixel-space position
// (fx, fy), clamped to the edge. Colors are weighted by alpha so that
// transparent texels do not bleed their RGB.
func SampleBilinear(src *image.NRGBA, fx, fy float64) RGBA {
	b := src.Rect
	if b.Empty() {
		return RGBA{}
	}
	gx, gy := fx-0.5, fy-0.5
	x0, y0 := int(math.Floor(gx)), int(math.Floor(gy))
	tx, ty := gx-float64(x0), gy-float64(y0)

	var out RGBA
	acc := func(x, y int, w float64) {
		if w == 0 {
			return
		}
		c := At(src, clampInt(x, b.Min.X, b.Max.X-1), clampInt(y, b.Min.Y, b.Max.Y-1))
		out.R += c.R * c.A * w
		out.G += c.G * c.A * w
		out.B += c.B * c.A * w
		out.A += c.A * w
	}
	acc(x0, y0, (1-tx)*(1-ty))
	acc(x0+1, y0, tx*(1-ty))
	acc(x0, y0+1, (1-tx)*ty)
	acc(x0+1, y0+1, tx*ty)
	if out.A <= 0 {
		return RGBA{}
	}
	out.R /= out.A
	out.G /= out.A
	out.B /= out.A
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
