package sketch

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/gogpu/sketch/internal/tess"
)

// PathCmd is the command of a PathElement.
type PathCmd uint8

// Path commands.
const (
	CmdMoveTo PathCmd = iota
	CmdLineTo
	CmdCurveTo
	CmdClose
)

// String returns the command name.
func (c PathCmd) String() string {
	switch c {
	case CmdMoveTo:
		return "moveto"
	case CmdLineTo:
		return "lineto"
	case CmdCurveTo:
		return "curveto"
	case CmdClose:
		return "close"
	}
	return "unknown"
}

// PathElement is one command of a Path. For elements other than CmdCurveTo
// the handles equal the endpoint. A CmdClose element holds the start point
// of the subpath it closes.
type PathElement struct {
	Cmd          PathCmd
	X, Y         float64
	Ctrl1, Ctrl2 Point
}

// Point returns the endpoint of the element.
func (e PathElement) Point() Point { return Point{X: e.X, Y: e.Y} }

// kappa is the handle length of a quarter circle cubic approximation.
const kappa = 0.5522847498307936

// DefaultTolerance is the default flattening tolerance in pixels.
const DefaultTolerance = tess.DefaultTolerance

// Path is a vector path made of move, line, curve and close commands.
// A Path may carry its own fill, stroke and stroke width, which take
// precedence over the graphics state when the path is drawn.
//
// Derived data (flattened contours, triangles, arc-length tables) is
// computed lazily and discarded on any mutation.
type Path struct {
	elements []PathElement
	start    Point

	fill        *Color
	stroke      *Color
	strokeWidth *float64
	tolerance   float64

	fp      uint64
	fpValid bool
	arc     *tess.ArcTable
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{elements: make([]PathElement, 0, 16), tolerance: DefaultTolerance}
}

func (p *Path) changed() {
	p.fpValid = false
	p.arc = nil
}

func (p *Path) ensureStarted() {
	if len(p.elements) == 0 {
		p.MoveTo(0, 0)
	}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) *Path {
	p.elements = append(p.elements, PathElement{Cmd: CmdMoveTo, X: x, Y: y, Ctrl1: Pt(x, y), Ctrl2: Pt(x, y)})
	p.start = Pt(x, y)
	p.changed()
	return p
}

// LineTo adds a straight line to (x, y). On an empty path it first moves
// to the origin.
func (p *Path) LineTo(x, y float64) *Path {
	p.ensureStarted()
	p.elements = append(p.elements, PathElement{Cmd: CmdLineTo, X: x, Y: y, Ctrl1: Pt(x, y), Ctrl2: Pt(x, y)})
	p.changed()
	return p
}

// CurveTo adds a cubic Bézier curve to (x, y) with handles (x1, y1) and
// (x2, y2).
func (p *Path) CurveTo(x1, y1, x2, y2, x, y float64) *Path {
	p.ensureStarted()
	p.elements = append(p.elements, PathElement{Cmd: CmdCurveTo, X: x, Y: y, Ctrl1: Pt(x1, y1), Ctrl2: Pt(x2, y2)})
	p.changed()
	return p
}

// Close closes the current subpath with a line back to its start.
func (p *Path) Close() *Path {
	if len(p.elements) == 0 {
		return p
	}
	s := p.start
	p.elements = append(p.elements, PathElement{Cmd: CmdClose, X: s.X, Y: s.Y, Ctrl1: s, Ctrl2: s})
	p.changed()
	return p
}

// Clear removes every element.
func (p *Path) Clear() {
	p.elements = p.elements[:0]
	p.start = Point{}
	p.changed()
}

// Append adds the elements of other to p.
func (p *Path) Append(other *Path) *Path {
	if other == nil || len(other.elements) == 0 {
		return p
	}
	p.elements = append(p.elements, other.elements...)
	p.start = other.start
	p.changed()
	return p
}

// Elements returns a copy of the elements.
func (p *Path) Elements() []PathElement {
	out := make([]PathElement, len(p.elements))
	copy(out, p.elements)
	return out
}

// Len returns the number of elements.
func (p *Path) Len() int { return len(p.elements) }

// Empty reports whether the path has no elements.
func (p *Path) Empty() bool { return len(p.elements) == 0 }

// Closed reports whether the last subpath ends with a close command.
func (p *Path) Closed() bool {
	return len(p.elements) > 0 && p.elements[len(p.elements)-1].Cmd == CmdClose
}

// CurrentPoint returns the endpoint of the last element.
func (p *Path) CurrentPoint() Point {
	if len(p.elements) == 0 {
		return Point{}
	}
	return p.elements[len(p.elements)-1].Point()
}

// SetFill sets the fill color used when drawing this path.
func (p *Path) SetFill(c Color) { c = c.clamped(); p.fill = &c }

// SetStroke sets the stroke color used when drawing this path.
func (p *Path) SetStroke(c Color) { c = c.clamped(); p.stroke = &c }

// SetStrokeWidth sets the stroke width used when drawing this path.
func (p *Path) SetStrokeWidth(w float64) { p.strokeWidth = &w }

// Fill returns the fill override of the path.
func (p *Path) Fill() (Color, bool) {
	if p.fill == nil {
		return Color{}, false
	}
	return *p.fill, true
}

// Stroke returns the stroke override of the path.
func (p *Path) Stroke() (Color, bool) {
	if p.stroke == nil {
		return Color{}, false
	}
	return *p.stroke, true
}

// StrokeWidth returns the stroke width override of the path.
func (p *Path) StrokeWidth() (float64, bool) {
	if p.strokeWidth == nil {
		return 0, false
	}
	return *p.strokeWidth, true
}

// SetTolerance sets the maximum distance in pixels between a curve and
// its flattened polyline. Values <= 0 restore DefaultTolerance.
func (p *Path) SetTolerance(tol float64) {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	p.tolerance = tol
	p.changed()
}

// Tolerance returns the flattening tolerance.
func (p *Path) Tolerance() float64 {
	if p.tolerance <= 0 {
		return DefaultTolerance
	}
	return p.tolerance
}

// Rect adds a rectangle with its bottom-left corner at (x, y). roundness in
// [0,1] rounds the corners; 1 gives a radius of half the shorter side.
func (p *Path) Rect(x, y, w, h float64, roundness ...float64) *Path {
	var r float64
	if len(roundness) > 0 {
		r = clamp01(roundness[0]) * math.Min(math.Abs(w), math.Abs(h)) / 2
	}
	if r <= 0 {
		p.MoveTo(x, y)
		p.LineTo(x+w, y)
		p.LineTo(x+w, y+h)
		p.LineTo(x, y+h)
		return p.Close()
	}
	k := r * (1 - kappa)
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.CurveTo(x+w-k, y, x+w, y+k, x+w, y+r)
	p.LineTo(x+w, y+h-r)
	p.CurveTo(x+w, y+h-k, x+w-k, y+h, x+w-r, y+h)
	p.LineTo(x+r, y+h)
	p.CurveTo(x+k, y+h, x, y+h-k, x, y+h-r)
	p.LineTo(x, y+r)
	p.CurveTo(x, y+k, x+k, y, x+r, y)
	return p.Close()
}

// Ellipse adds an ellipse centered at (x, y) with the given width and
// height.
func (p *Path) Ellipse(x, y, w, h float64) *Path {
	rx, ry := w/2, h/2
	ox, oy := rx*kappa, ry*kappa
	p.MoveTo(x+rx, y)
	p.CurveTo(x+rx, y+oy, x+ox, y+ry, x, y+ry)
	p.CurveTo(x-ox, y+ry, x-rx, y+oy, x-rx, y)
	p.CurveTo(x-rx, y-oy, x-ox, y-ry, x, y-ry)
	p.CurveTo(x+ox, y-ry, x+rx, y-oy, x+rx, y)
	return p.Close()
}

// Triangle adds a closed triangle.
func (p *Path) Triangle(x1, y1, x2, y2, x3, y3 float64) *Path {
	p.MoveTo(x1, y1)
	p.LineTo(x2, y2)
	p.LineTo(x3, y3)
	return p.Close()
}

// Line adds an open line segment.
func (p *Path) Line(x0, y0, x1, y1 float64) *Path {
	p.MoveTo(x0, y0)
	return p.LineTo(x1, y1)
}

// Arc adds a circular arc around (cx, cy) from angle1 to angle2 in
// degrees, counterclockwise. If the path has a current point the arc is
// joined to it with a line.
func (p *Path) Arc(cx, cy, r, angle1, angle2 float64) *Path {
	a1, a2 := Radians(angle1), Radians(angle2)
	for a2 < a1 {
		a2 += 2 * math.Pi
	}
	sx, sy := cx+r*math.Cos(a1), cy+r*math.Sin(a1)
	if len(p.elements) == 0 {
		p.MoveTo(sx, sy)
	} else if cur := p.CurrentPoint(); cur.Distance(Pt(sx, sy)) > 1e-9 {
		p.LineTo(sx, sy)
	}
	if a2 == a1 {
		return p
	}
	// At most 90 degrees per cubic.
	n := int(math.Ceil((a2 - a1) / (math.Pi / 2)))
	step := (a2 - a1) / float64(n)
	for i := range n {
		p.arcSegment(cx, cy, r, a1+float64(i)*step, a1+float64(i+1)*step)
	}
	return p
}

func (p *Path) arcSegment(cx, cy, r, a1, a2 float64) {
	alpha := 4.0 / 3.0 * math.Tan((a2-a1)/4)
	sin1, cos1 := math.Sincos(a1)
	sin2, cos2 := math.Sincos(a2)
	x1, y1 := cx+r*cos1, cy+r*sin1
	x2, y2 := cx+r*cos2, cy+r*sin2
	p.CurveTo(x1-alpha*r*sin1, y1+alpha*r*cos1, x2+alpha*r*sin2, y2-alpha*r*cos2, x2, y2)
}

// Star adds a closed star centered at (x, y) with points tips alternating
// between the outer and inner radius. The first tip points up.
func (p *Path) Star(x, y float64, points int, outer, inner float64) *Path {
	if points < 2 {
		points = 2
	}
	for i := range points * 2 {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := math.Pi/2 + float64(i)*math.Pi/float64(points)
		px, py := x+r*math.Cos(a), y+r*math.Sin(a)
		if i == 0 {
			p.MoveTo(px, py)
		} else {
			p.LineTo(px, py)
		}
	}
	return p.Close()
}

// Copy returns a deep copy of the path including its style overrides.
func (p *Path) Copy() *Path {
	q := &Path{
		elements:  make([]PathElement, len(p.elements)),
		start:     p.start,
		tolerance: p.tolerance,
		fp:        p.fp,
		fpValid:   p.fpValid,
	}
	copy(q.elements, p.elements)
	if p.fill != nil {
		c := *p.fill
		q.fill = &c
	}
	if p.stroke != nil {
		c := *p.stroke
		q.stroke = &c
	}
	if p.strokeWidth != nil {
		w := *p.strokeWidth
		q.strokeWidth = &w
	}
	return q
}

// Transformed returns a copy of the path with every point mapped by m.
func (p *Path) Transformed(m Transform) *Path {
	q := p.Copy()
	for i, e := range q.elements {
		pt := m.Apply(e.Point())
		e.X, e.Y = pt.X, pt.Y
		e.Ctrl1 = m.Apply(e.Ctrl1)
		e.Ctrl2 = m.Apply(e.Ctrl2)
		q.elements[i] = e
	}
	q.start = m.Apply(p.start)
	q.changed()
	return q
}

// Bounds returns the bounding box of every point and handle of the path.
// It contains the curve but may be larger than it.
func (p *Path) Bounds() Rect {
	if len(p.elements) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	add := func(q Point) {
		minX, minY = math.Min(minX, q.X), math.Min(minY, q.Y)
		maxX, maxY = math.Max(maxX, q.X), math.Max(maxY, q.Y)
	}
	for _, e := range p.elements {
		add(e.Point())
		if e.Cmd == CmdCurveTo {
			add(e.Ctrl1)
			add(e.Ctrl2)
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Contains reports whether (x, y) is inside the path using the even-odd
// rule on its flattened contours.
func (p *Path) Contains(x, y float64) bool {
	if len(p.elements) == 0 {
		return false
	}
	return tess.EvenOdd(p.contours(p.Tolerance()), x, y)
}

// Fingerprint returns a structural hash of the path: element kinds and
// coordinates quantized to 1e-6, plus the tolerance. Paths with equal
// fingerprints share cached tessellations.
func (p *Path) Fingerprint() uint64 {
	if p.fpValid {
		return p.fp
	}
	h := fnv.New64a()
	var buf [8]byte
	put := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(math.Round(v*1e6))))
		h.Write(buf[:])
	}
	for _, e := range p.elements {
		h.Write([]byte{byte(e.Cmd)})
		put(e.X)
		put(e.Y)
		if e.Cmd == CmdCurveTo {
			put(e.Ctrl1.X)
			put(e.Ctrl1.Y)
			put(e.Ctrl2.X)
			put(e.Ctrl2.Y)
		}
	}
	put(p.Tolerance())
	p.fp = h.Sum64()
	p.fpValid = true
	return p.fp
}

func (p *Path) segments() []tess.Segment {
	segs := make([]tess.Segment, len(p.elements))
	for i, e := range p.elements {
		segs[i] = tess.Segment{Cmd: tess.Cmd(e.Cmd), P: tess.Point{X: e.X, Y: e.Y}, C1: tp(e.Ctrl1), C2: tp(e.Ctrl2)}
	}
	return segs
}
