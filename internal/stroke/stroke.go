package stroke

import (
	"math"

	"github.com/gogpu/sketch/internal/tess"
)

// Point is a 2D point.
type Point = tess.Point

// Vec2 represents a 2D vector.
type Vec2 struct {
	X, Y float64
}

func vec(p, q Point) Vec2 { return Vec2{X: q.X - p.X, Y: q.Y - p.Y} }

// Scale returns the vector scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{X: v.X + w.X, Y: v.Y + w.Y} }

// Dot returns the dot product of two vectors.
func (v Vec2) Dot(w Vec2) float64 { return v.X*w.X + v.Y*w.Y }

// Cross returns the 2D cross product (z-component of 3D cross).
func (v Vec2) Cross(w Vec2) float64 { return v.X*w.Y - v.Y*w.X }

// Length returns the length of the vector.
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns a unit vector in the same direction.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l < 1e-12 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Perp returns the perpendicular vector (rotated 90 degrees counter-clockwise).
func (v Vec2) Perp() Vec2 { return Vec2{X: -v.Y, Y: v.X} }

func offset(p Point, v Vec2) Point { return Point{X: p.X + v.X, Y: p.Y + v.Y} }

// LineCap specifies the shape of line endpoints.
type LineCap int

const (
	// LineCapButt specifies a flat line cap.
	LineCapButt LineCap = iota
	// LineCapRound specifies a rounded line cap.
	LineCapRound
	// LineCapSquare specifies a square line cap.
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin int

const (
	// LineJoinMiter specifies a sharp (mitered) join.
	LineJoinMiter LineJoin = iota
	// LineJoinRound specifies a rounded join.
	LineJoinRound
	// LineJoinBevel specifies a beveled join.
	LineJoinBevel
)

// DefaultMiterLimit is the ratio of miter length to stroke width past
// which a miter join falls back to a bevel.
const DefaultMiterLimit = 10

// Stroke defines the style for stroke expansion.
type Stroke struct {
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
	// Tolerance bounds the chord error of round caps and joins.
	Tolerance float64
}

// DefaultStroke returns a 1px butt-capped, miter-joined stroke.
func DefaultStroke() Stroke {
	return Stroke{
		Width:      1,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: DefaultMiterLimit,
		Tolerance:  tess.DefaultTolerance,
	}
}

type expander struct {
	style Stroke
	hw    float64
	out   []tess.Contour
}

// Expand returns counter-clockwise convex polygons whose nonzero union is
// the stroke of cs.
func Expand(cs []tess.Contour, style Stroke) []tess.Contour {
	if style.Width <= 0 {
		return nil
	}
	if style.MiterLimit < 1 {
		style.MiterLimit = DefaultMiterLimit
	}
	if style.Tolerance <= 0 {
		style.Tolerance = tess.DefaultTolerance
	}
	e := &expander{style: style, hw: style.Width / 2}
	for _, c := range cs {
		e.contour(c)
	}
	return e.out
}

func (e *expander) contour(c tess.Contour) {
	pts := dedupe(c.Points)
	if c.Closed && len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	n := len(pts)
	switch {
	case n == 0:
		return
	case n == 1:
		e.dot(pts[0])
		return
	}

	closed := c.Closed && n > 2
	segs := n - 1
	if closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		e.segment(pts[i], pts[(i+1)%n])
	}
	if closed {
		for i := 0; i < n; i++ {
			e.join(pts[(i+n-1)%n], pts[i], pts[(i+1)%n])
		}
		return
	}
	for i := 1; i < n-1; i++ {
		e.join(pts[i-1], pts[i], pts[i+1])
	}
	e.cap(pts[0], pts[1])
	e.cap(pts[n-1], pts[n-2])
}

func (e *expander) segment(a, b Point) {
	n := vec(a, b).Normalize().Perp().Scale(e.hw)
	e.emit(offset(a, n), offset(b, n), offset(b, n.Scale(-1)), offset(a, n.Scale(-1)))
}

func (e *expander) join(prev, p, next Point) {
	d0 := vec(prev, p).Normalize()
	d1 := vec(p, next).Normalize()
	cross := d0.Cross(d1)
	dot := d0.Dot(d1)
	if math.Abs(cross) < 1e-12 && dot > 0 {
		return
	}
	if e.style.Join == LineJoinRound {
		e.circle(p)
		return
	}

	// The outer side of a left turn is the right-hand offset.
	sgn := 1.0
	if cross > 0 {
		sgn = -1
	}
	n0 := d0.Perp().Scale(e.hw * sgn)
	n1 := d1.Perp().Scale(e.hw * sgn)
	a, b := offset(p, n0), offset(p, n1)

	if e.style.Join == LineJoinMiter {
		cosHalf := math.Sqrt(math.Max(0, (1+dot)/2))
		if cosHalf > 1e-12 {
			ratio := 1 / cosHalf
			if ratio <= e.style.MiterLimit {
				m := offset(p, n0.Add(n1).Normalize().Scale(e.hw*ratio))
				e.emit(p, a, m, b)
				return
			}
		}
	}
	e.emit(p, a, b)
}

func (e *expander) cap(end, inner Point) {
	d := vec(inner, end).Normalize()
	switch e.style.Cap {
	case LineCapRound:
		e.circle(end)
	case LineCapSquare:
		n := d.Perp().Scale(e.hw)
		ext := d.Scale(e.hw)
		e.emit(offset(end, n), offset(offset(end, n), ext),
			offset(offset(end, n.Scale(-1)), ext), offset(end, n.Scale(-1)))
	}
}

// dot strokes a zero-length subpath. Butt caps draw nothing.
func (e *expander) dot(p Point) {
	switch e.style.Cap {
	case LineCapRound:
		e.circle(p)
	case LineCapSquare:
		h := e.hw
		e.emit(Point{X: p.X - h, Y: p.Y - h}, Point{X: p.X + h, Y: p.Y - h},
			Point{X: p.X + h, Y: p.Y + h}, Point{X: p.X - h, Y: p.Y + h})
	}
}

func (e *expander) circle(c Point) {
	n := arcSegments(e.hw, e.style.Tolerance)
	pts := make([]Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{X: c.X + e.hw*math.Cos(a), Y: c.Y + e.hw*math.Sin(a)}
	}
	e.emit(pts...)
}

// arcSegments returns the number of chords for a full circle of radius r
// whose sagitta stays below tol.
func arcSegments(r, tol float64) int {
	if r <= tol {
		return 8
	}
	step := 2 * math.Acos(1-tol/r)
	n := int(math.Ceil(2 * math.Pi / step))
	return min(max(n, 8), 256)
}

func (e *expander) emit(pts ...Point) {
	var area float64
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		area += a.X*b.Y - b.X*a.Y
	}
	if math.Abs(area) < 1e-12 {
		return
	}
	poly := make([]Point, len(pts))
	copy(poly, pts)
	if area < 0 {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}
	e.out = append(e.out, tess.Contour{Points: poly, Closed: true})
}

func dedupe(pts []Point) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].Distance(p) < 1e-9 {
			continue
		}
		out = append(out, p)
	}
	return out
}
