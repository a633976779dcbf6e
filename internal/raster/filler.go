package raster

import (
	"image"
	"math"
	"slices"

	"github.com/gogpu/sketch/internal/tess"
)

// SupersampleShift controls vertical supersampling: 2 means 4 sub-scanlines
// per pixel row. Horizontal coverage is computed exactly.
const SupersampleShift = 2

// SupersampleScale is the number of sub-scanlines per pixel.
const SupersampleScale = 1 << SupersampleShift

type edge struct {
	x0, y0 float64
	x1, y1 float64
	dir    int
}

type crossing struct {
	x   float64
	dir int
}

// Filler is an anti-aliased scanline polygon filler. It keeps its scratch
// buffers between calls; a Filler is not safe for concurrent use.
type Filler struct {
	edges []edge
	xs    []crossing
	cov   []float32
}

// NewFiller returns an empty filler.
func NewFiller() *Filler {
	return &Filler{}
}

// Coverage calls row for every pixel row touched by the contours. cov[i] is
// the coverage of pixel x0+i in [0,1]. Contours are in device pixels; they
// are treated as closed.
func (f *Filler) Coverage(cs []tess.Contour, rule FillRule, bounds image.Rectangle, row func(y, x0 int, cov []float32)) {
	f.buildEdges(cs)
	if len(f.edges) == 0 || bounds.Empty() {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, e := range f.edges {
		minX = math.Min(minX, math.Min(e.x0, e.x1))
		maxX = math.Max(maxX, math.Max(e.x0, e.x1))
		minY = math.Min(minY, e.y0)
		maxY = math.Max(maxY, e.y1)
	}
	r := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(bounds)
	if r.Empty() {
		return
	}

	w := r.Dx()
	if cap(f.cov) < w {
		f.cov = make([]float32, w)
	}
	cov := f.cov[:w]
	const weight = 1.0 / SupersampleScale

	for y := r.Min.Y; y < r.Max.Y; y++ {
		clear(cov)
		touched := false
		for s := range SupersampleScale {
			sy := float64(y) + (float64(s)+0.5)*weight
			f.collect(sy)
			if len(f.xs) < 2 {
				continue
			}
			touched = true
			f.spans(rule, func(xa, xb float64) {
				accumulate(cov, xa-float64(r.Min.X), xb-float64(r.Min.X), weight)
			})
		}
		if touched {
			row(y, r.Min.X, cov)
		}
	}
}

// Fill composites c over dst wherever the contours cover it.
func (f *Filler) Fill(dst *image.NRGBA, cs []tess.Contour, rule FillRule, c RGBA, clip Clip) {
	f.Coverage(cs, rule, clipRect(dst, clip), func(y, x0 int, cov []float32) {
		for i, a := range cov {
			if a > 0 {
				BlendOver(dst, x0+i, y, c, math.Min(float64(a), 1))
			}
		}
	})
}

func (f *Filler) buildEdges(cs []tess.Contour) {
	f.edges = f.edges[:0]
	for _, c := range cs {
		n := len(c.Points)
		if n < 2 {
			continue
		}
		for i := range n {
			a, b := c.Points[i], c.Points[(i+1)%n]
			if a.Y == b.Y {
				continue
			}
			if a.Y < b.Y {
				f.edges = append(f.edges, edge{a.X, a.Y, b.X, b.Y, 1})
			} else {
				f.edges = append(f.edges, edge{b.X, b.Y, a.X, a.Y, -1})
			}
		}
	}
}

func (f *Filler) collect(y float64) {
	f.xs = f.xs[:0]
	for _, e := range f.edges {
		if y < e.y0 || y >= e.y1 {
			continue
		}
		t := (y - e.y0) / (e.y1 - e.y0)
		f.xs = append(f.xs, crossing{x: e.x0 + (e.x1-e.x0)*t, dir: e.dir})
	}
	slices.SortFunc(f.xs, func(a, b crossing) int {
		switch {
		case a.x < b.x:
			return -1
		case a.x > b.x:
			return 1
		}
		return 0
	})
}

func (f *Filler) spans(rule FillRule, emit func(xa, xb float64)) {
	if rule == FillRuleEvenOdd {
		for i := 0; i+1 < len(f.xs); i += 2 {
			emit(f.xs[i].x, f.xs[i+1].x)
		}
		return
	}
	winding := 0
	var start float64
	for _, c := range f.xs {
		if winding == 0 {
			start = c.x
		}
		winding += c.dir
		if winding == 0 {
			emit(start, c.x)
		}
	}
}

// accumulate adds weight times the horizontal overlap of [xa, xb) with each
// pixel of cov.
func accumulate(cov []float32, xa, xb, weight float64) {
	w := float64(len(cov))
	xa = math.Max(xa, 0)
	xb = math.Min(xb, w)
	if xb <= xa {
		return
	}
	ia, ib := int(xa), int(xb)
	if ia == ib {
		cov[ia] += float32((xb - xa) * weight)
		return
	}
	cov[ia] += float32((float64(ia+1) - xa) * weight)
	for i := ia + 1; i < ib; i++ {
		cov[i] += float32(weight)
	}
	if ib < len(cov) {
		cov[ib] += float32((xb - float64(ib)) * weight)
	}
}
