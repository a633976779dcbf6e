package sketch

import (
	"fmt"
	"math"

	"github.com/gogpu/sketch/internal/filter"
	"github.com/gogpu/sketch/internal/raster"
	"github.com/gogpu/sketch/internal/stroke"
	"github.com/gogpu/sketch/internal/tess"
)

// deviceTransform maps canvas coordinates to pixels of the current target.
func (c *Canvas) deviceTransform() Transform {
	return c.target().projection().Multiply(c.CurrentTransform())
}

func transformContours(cs []tess.Contour, m Transform) []tess.Contour {
	out := make([]tess.Contour, len(cs))
	for i, ct := range cs {
		pts := make([]tess.Point, len(ct.Points))
		for j, q := range ct.Points {
			x, y := m.ApplyXY(q.X, q.Y)
			pts[j] = tess.Point{X: x, Y: y}
		}
		out[i] = tess.Contour{Points: pts, Closed: ct.Closed}
	}
	return out
}

// paint composites a style color with the state alpha.
func paint(col Color, alpha float64) raster.RGBA {
	col = col.clamped()
	col.A *= clamp01(alpha)
	return col.raster()
}

// drawPath fills then strokes p under the current transform. Contours are
// flattened in path coordinates at the path tolerance divided by the
// device scale, so cached tessellations survive changing transforms.
func (c *Canvas) drawPath(p *Path, o drawOptions) error {
	if err := c.checkDrawing(); err != nil {
		return err
	}
	if p == nil || p.Empty() {
		return nil
	}
	r := c.resolve(p, o)
	if r.alpha <= 0 {
		return nil
	}
	dev := c.deviceTransform()
	scale := dev.ScaleFactor()
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil
	}
	tol := p.Tolerance() / scale
	dst := c.target().pix
	if r.fill != nil && r.fill.A > 0 {
		cs := transformContours(p.contours(tol), dev)
		c.filler.Fill(dst, cs, raster.FillRuleNonZero, paint(*r.fill, r.alpha), raster.Clip{})
	}
	if r.stroke != nil && r.stroke.A > 0 && r.strokeWidth > 0 {
		style := stroke.DefaultStroke()
		style.Width = r.strokeWidth
		cs := transformContours(p.strokeContours(tol, style), dev)
		c.filler.Fill(dst, cs, raster.FillRuleNonZero, paint(*r.stroke, r.alpha), raster.Clip{})
	}
	return nil
}

// DrawPath draws p with the current state, the style overrides of p, and
// opts, in that order of precedence from lowest to highest.
func (c *Canvas) DrawPath(p *Path, opts ...DrawOption) error {
	return c.drawPath(p, collectDrawOptions(opts))
}

// Background sets the color the framebuffer is cleared to and fills the
// current target with it.
func (c *Canvas) Background(col Color) error {
	if err := c.checkDrawing(); err != nil {
		return err
	}
	c.background = col.clamped()
	raster.Fill(c.target().pix, c.target().pix.Rect, c.background.raster())
	return nil
}

// Clear fills the current target with the background color, or with
// transparent pixels when an offscreen buffer is bound.
func (c *Canvas) Clear() error {
	if err := c.checkDrawing(); err != nil {
		return err
	}
	t := c.target()
	if t.buf != nil {
		clear(t.pix.Pix)
		return nil
	}
	raster.Fill(t.pix, t.pix.Rect, c.background.raster())
	return nil
}

// Rect draws a rectangle with its bottom-left corner at (x, y). Use
// WithRoundness for rounded corners.
func (c *Canvas) Rect(x, y, w, h float64, opts ...DrawOption) error {
	o := collectDrawOptions(opts)
	return c.drawPath(NewPath().Rect(x, y, w, h, o.roundness), o)
}

// Ellipse draws an ellipse of size w x h centered on (x, y).
func (c *Canvas) Ellipse(x, y, w, h float64, opts ...DrawOption) error {
	return c.drawPath(NewPath().Ellipse(x, y, w, h), collectDrawOptions(opts))
}

// Oval is an alias of Ellipse.
func (c *Canvas) Oval(x, y, w, h float64, opts ...DrawOption) error {
	return c.Ellipse(x, y, w, h, opts...)
}

// Line strokes the segment from (x0, y0) to (x1, y1). Lines are never
// filled; without a stroke color the fill color is used.
func (c *Canvas) Line(x0, y0, x1, y1 float64, opts ...DrawOption) error {
	return c.drawPath(NewPath().Line(x0, y0, x1, y1), c.lineOptions(opts))
}

// lineOptions turns the fill into the stroke for primitives with no
// interior.
func (c *Canvas) lineOptions(opts []DrawOption) drawOptions {
	o := collectDrawOptions(opts)
	if o.stroke == nil && !o.noStroke && c.stacks.state().NoStroke {
		f := c.stacks.state().Fill
		if o.fill != nil {
			f = *o.fill
		}
		o.stroke = &f
	}
	o.noFill = true
	o.fill = nil
	return o
}

// Triangle draws the triangle with the given corners.
func (c *Canvas) Triangle(x1, y1, x2, y2, x3, y3 float64, opts ...DrawOption) error {
	return c.drawPath(NewPath().Triangle(x1, y1, x2, y2, x3, y3), collectDrawOptions(opts))
}

// Arc strokes the circular arc centered on (cx, cy) from angle1 to angle2
// in degrees.
func (c *Canvas) Arc(cx, cy, r, angle1, angle2 float64, opts ...DrawOption) error {
	return c.drawPath(NewPath().Arc(cx, cy, r, angle1, angle2), c.lineOptions(opts))
}

// Star draws a star with the given number of points centered on (x, y).
func (c *Canvas) Star(x, y float64, points int, outer, inner float64, opts ...DrawOption) error {
	return c.drawPath(NewPath().Star(x, y, points, outer, inner), collectDrawOptions(opts))
}

// Point draws a single-pixel dot at (x, y) in the fill color.
func (c *Canvas) Point(x, y float64, opts ...DrawOption) error {
	o := collectDrawOptions(opts)
	o.noStroke = true
	return c.drawPath(NewPath().Rect(x-0.5, y-0.5, 1, 1), o)
}

// Image draws img with its bottom-left corner at (x, y), distorted by
// img.Quad. WithImageSize scales it; a single axis keeps the aspect
// ratio. WithColor modulates RGB and WithAlpha multiplies alpha, unless
// an inline filter is attached with WithFilter.
//
// A broken image draws its placeholder and reports once.
func (c *Canvas) Image(img *Image, x, y float64, opts ...DrawOption) error {
	if err := c.checkDrawing(); err != nil {
		return err
	}
	if img == nil {
		return nil
	}
	tex, err := img.texture()
	if err != nil {
		warnOnce(fmt.Sprintf("texture:%d", img.id), "sketch: drawing released image", "image", img.id, "err", err)
		return err
	}
	if img.broken {
		warnOnce(fmt.Sprintf("broken:%d", img.id), "sketch: drawing broken image placeholder", "image", img.id, "err", img.err)
	}
	o := collectDrawOptions(opts)
	w, h := float64(img.width), float64(img.height)
	switch {
	case o.width != nil && o.height != nil:
		w, h = *o.width, *o.height
	case o.width != nil:
		h *= *o.width / w
		w = *o.width
	case o.height != nil:
		w *= *o.height / h
		h = *o.height
	}

	alpha := c.stacks.state().Alpha
	var shade raster.Shader
	if o.filter != nil {
		fn, err := o.filter.prepare(tex)
		if err != nil {
			c.report(err)
			return err
		}
		shade = raster.Shader(fn)
	} else {
		if o.alpha != nil {
			alpha *= clamp01(*o.alpha)
		}
		mod := o.color
		shade = func(u, v float64) raster.RGBA {
			col := filter.Sample(tex, u, v)
			if mod != nil {
				col.R *= mod.R
				col.G *= mod.G
				col.B *= mod.B
			}
			return col
		}
	}
	if alpha <= 0 {
		return nil
	}

	q := img.Quad
	corners := [4]Point{
		{X: x + q.DX1, Y: y + q.DY1},
		{X: x + w + q.DX2, Y: y + q.DY2},
		{X: x + w + q.DX3, Y: y + h + q.DY3},
		{X: x + q.DX4, Y: y + h + q.DY4},
	}
	uvs := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	dev := c.deviceTransform()
	var vs [4]raster.Vertex
	for i, p := range corners {
		d := dev.Apply(p)
		vs[i] = raster.Vertex{X: d.X, Y: d.Y, U: uvs[i][0], V: uvs[i][1]}
	}
	raster.Quad(c.target().pix, vs, shade, alpha, raster.Clip{})
	return nil
}
