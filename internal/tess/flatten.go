// Package tess flattens Bézier paths into polylines, fan-triangulates the
// resulting contours and builds the arc-length tables used for sampling.
//
// The package works on a flat list of Segments. Close segments carry the
// start point of their subpath in P, so every segment after the first
// MoveTo of a subpath is a line or a cubic from the previous endpoint.
package tess

import "math"

// DefaultTolerance is the maximum distance, in pixels at identity scale,
// between a cubic and its polyline approximation.
const DefaultTolerance = 0.25

// maxDepth bounds the midpoint recursion for degenerate control polygons.
const maxDepth = 16

// Point is a 2D point (copy of the root type to avoid an import cycle).
type Point struct {
	X, Y float64
}

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Cmd is a segment command.
type Cmd uint8

// Segment commands.
const (
	MoveTo Cmd = iota
	LineTo
	CurveTo
	Close
)

// Segment is one path element. For CurveTo, C1 and C2 are the control
// handles; for the other commands they are ignored.
type Segment struct {
	Cmd    Cmd
	P      Point
	C1, C2 Point
}

// Contour is one flattened subpath.
type Contour struct {
	Points []Point
	Closed bool
}

// Flatten converts segments into contours of line segments. Curves are
// subdivided at their midpoint until both control points lie within tol of
// the chord. tol <= 0 selects DefaultTolerance.
func Flatten(segs []Segment, tol float64) []Contour {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	var (
		out []Contour
		cur *Contour
		pen Point
	)
	flush := func() {
		if cur != nil && len(cur.Points) > 0 {
			out = append(out, *cur)
		}
		cur = nil
	}
	for _, s := range segs {
		switch s.Cmd {
		case MoveTo:
			flush()
			cur = &Contour{Points: []Point{s.P}}
			pen = s.P
		case LineTo:
			if cur == nil {
				cur = &Contour{Points: []Point{pen}}
			}
			cur.Points = append(cur.Points, s.P)
			pen = s.P
		case CurveTo:
			if cur == nil {
				cur = &Contour{Points: []Point{pen}}
			}
			cur.Points = flattenCubic(cur.Points, pen, s.C1, s.C2, s.P, tol, 0)
			pen = s.P
		case Close:
			if cur != nil {
				cur.Closed = true
				pen = cur.Points[0]
				flush()
			}
		}
	}
	flush()
	return out
}

func flattenCubic(dst []Point, p0, p1, p2, p3 Point, tol float64, depth int) []Point {
	if depth >= maxDepth || math.Max(distanceToSegment(p1, p0, p3), distanceToSegment(p2, p0, p3)) < tol {
		return append(dst, p3)
	}
	l, r := Split(p0, p1, p2, p3, 0.5)
	dst = flattenCubic(dst, l[0], l[1], l[2], l[3], tol, depth+1)
	return flattenCubic(dst, r[0], r[1], r[2], r[3], tol, depth+1)
}

func distanceToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 < 1e-20 {
		return p.Distance(a)
	}
	ap := p.Sub(a)
	t := (ap.X*ab.X + ap.Y*ab.Y) / l2
	switch {
	case t < 0:
		return p.Distance(a)
	case t > 1:
		return p.Distance(b)
	}
	return p.Distance(a.Lerp(b, t))
}

// Bounds returns the axis-aligned bounds of all contour points.
func Bounds(cs []Contour) (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, c := range cs {
		for _, p := range c.Points {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
			ok = true
		}
	}
	if !ok {
		return 0, 0, 0, 0, false
	}
	return minX, minY, maxX, maxY, true
}

// EvenOdd reports whether (x, y) lies inside the contours under the
// even-odd rule. Open contours are treated as implicitly closed.
func EvenOdd(cs []Contour, x, y float64) bool {
	inside := false
	for _, c := range cs {
		pts := c.Points
		n := len(pts)
		if n < 3 {
			continue
		}
		j := n - 1
		for i := 0; i < n; i++ {
			a, b := pts[i], pts[j]
			if (a.Y > y) != (b.Y > y) {
				xi := a.X + (y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
				if x < xi {
					inside = !inside
				}
			}
			j = i
		}
	}
	return inside
}

// Winding returns the nonzero winding number of the contours around (x, y).
func Winding(cs []Contour, x, y float64) int {
	w := 0
	for _, c := range cs {
		pts := c.Points
		n := len(pts)
		if n < 3 {
			continue
		}
		for i := 0; i < n; i++ {
			a, b := pts[i], pts[(i+1)%n]
			if a.Y <= y {
				if b.Y > y && cross(a, b, Point{x, y}) > 0 {
					w++
				}
			} else if b.Y <= y && cross(a, b, Point{x, y}) < 0 {
				w--
			}
		}
	}
	return w
}
