package sketch

import (
	"iter"
	"math"

	"github.com/gogpu/sketch/internal/tess"
)

func (p *Path) arcTable() *tess.ArcTable {
	if p.arc == nil {
		p.arc = tess.NewArcTable(p.segments(), tess.DefaultCurveSteps)
	}
	return p.arc
}

// Length returns the arc length of the path.
func (p *Path) Length() float64 {
	return p.arcTable().Total()
}

// locate maps a fraction of the arc length to a segment and parameter.
func (p *Path) locate(t float64) (seg int, u float64, ok bool) {
	a := p.arcTable()
	return a.Locate(t * a.Total())
}

// Point returns the point at fraction t of the arc length, t in [0,1].
// Closed paths wrap around, so t outside [0,1] is taken modulo 1.
func (p *Path) Point(t float64) Point {
	a := p.arcTable()
	if a.Empty() {
		return Point{}
	}
	t = p.wrap(t)
	seg, u, ok := p.locate(t)
	if !ok {
		return fromTess(a.First())
	}
	return fromTess(a.PointAt(seg, u))
}

// Angle returns the direction of the tangent at fraction t of the arc
// length, in degrees.
func (p *Path) Angle(t float64) float64 {
	t = p.wrap(t)
	seg, u, ok := p.locate(t)
	if !ok {
		return 0
	}
	d := p.arcTable().TangentAt(seg, u)
	return Degrees(math.Atan2(d.Y, d.X))
}

func (p *Path) wrap(t float64) float64 {
	if p.Closed() {
		t -= math.Floor(t)
		return t
	}
	return clamp01(t)
}

// fractions yields the n arc-length fractions sampled over [start, end].
// Closed paths are sampled cyclically so the start is not repeated.
func (p *Path) fractions(n int, start, end float64) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if n <= 0 {
			return
		}
		if n == 1 {
			yield(start)
			return
		}
		div := float64(n - 1)
		if p.Closed() && start == 0 && end == 1 {
			div = float64(n)
		}
		for i := range n {
			if !yield(start + (end-start)*float64(i)/div) {
				return
			}
		}
	}
}

// Points returns n points evenly spaced in arc length over the fraction
// range [start, end] of the path. On a closed path sampled over [0, 1] the
// last point is not a repeat of the first. A path of zero length yields
// n copies of its first point.
func (p *Path) Points(n int, start, end float64) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		a := p.arcTable()
		if a.Empty() {
			return
		}
		zero := a.Total() <= 0
		for t := range p.fractions(n, start, end) {
			pt := fromTess(a.First())
			if !zero {
				pt = p.Point(t)
			}
			if !yield(pt) {
				return
			}
		}
	}
}

// Directed returns n points as Points does, each paired with the angle
// in degrees of the path tangent at that point.
func (p *Path) Directed(n int, start, end float64) iter.Seq2[float64, Point] {
	return func(yield func(float64, Point) bool) {
		a := p.arcTable()
		if a.Empty() {
			return
		}
		zero := a.Total() <= 0
		for t := range p.fractions(n, start, end) {
			if zero {
				if !yield(0, fromTess(a.First())) {
					return
				}
				continue
			}
			if !yield(p.Angle(t), p.Point(t)) {
				return
			}
		}
	}
}

// Directed pairs each point of a sequence with the angle in degrees of the
// chord to the next point. The last point repeats the previous angle.
func Directed(points iter.Seq[Point]) iter.Seq2[float64, Point] {
	return func(yield func(float64, Point) bool) {
		var (
			prev    Point
			angle   float64
			started bool
		)
		for pt := range points {
			if started {
				angle = Angle(prev.X, prev.Y, pt.X, pt.Y)
				if !yield(angle, prev) {
					return
				}
			}
			prev, started = pt, true
		}
		if started {
			yield(angle, prev)
		}
	}
}
