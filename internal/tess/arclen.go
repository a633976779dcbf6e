package tess

import "sort"

// DefaultCurveSteps is the number of chords per cubic in an arc table.
const DefaultCurveSteps = 64

// ArcTable maps arc length to (segment, t) along a path. It stores one
// sample per chord end with the cumulative length up to that sample.
type ArcTable struct {
	segs   []Segment
	starts []Point

	cum []float64
	seg []int
	t   []float64

	total float64
	first Point
	empty bool
}

// NewArcTable measures segs. Lines contribute one chord, cubics steps chords.
func NewArcTable(segs []Segment, steps int) *ArcTable {
	if steps < 1 {
		steps = DefaultCurveSteps
	}
	a := &ArcTable{
		segs:   segs,
		starts: make([]Point, len(segs)),
		empty:  true,
	}
	var pen Point
	var length float64
	for i, s := range segs {
		a.starts[i] = pen
		switch s.Cmd {
		case MoveTo:
			if a.empty {
				a.first = s.P
				a.empty = false
			}
		case LineTo, Close:
			if a.empty {
				a.first = pen
				a.empty = false
			}
			a.push(length, i, 0)
			length += pen.Distance(s.P)
			a.push(length, i, 1)
		case CurveTo:
			if a.empty {
				a.first = pen
				a.empty = false
			}
			a.push(length, i, 0)
			prev := pen
			for k := 1; k <= steps; k++ {
				t := float64(k) / float64(steps)
				p := CubicPoint(pen, s.C1, s.C2, s.P, t)
				length += prev.Distance(p)
				a.push(length, i, t)
				prev = p
			}
		}
		pen = s.P
	}
	a.total = length
	return a
}

func (a *ArcTable) push(length float64, seg int, t float64) {
	a.cum = append(a.cum, length)
	a.seg = append(a.seg, seg)
	a.t = append(a.t, t)
}

// Total returns the total arc length.
func (a *ArcTable) Total() float64 { return a.total }

// Empty reports whether the path has no points at all.
func (a *ArcTable) Empty() bool { return a.empty }

// First returns the first point of the path.
func (a *ArcTable) First() Point { return a.first }

// Locate returns the segment and parameter at arc length s. ok is false
// when the path has no drawable segments.
func (a *ArcTable) Locate(s float64) (seg int, t float64, ok bool) {
	if len(a.cum) == 0 {
		return 0, 0, false
	}
	if s <= 0 {
		return a.seg[0], a.t[0], true
	}
	if s >= a.total {
		last := len(a.cum) - 1
		return a.seg[last], a.t[last], true
	}
	k := sort.SearchFloat64s(a.cum, s)
	if k == 0 {
		return a.seg[0], a.t[0], true
	}
	i, j := k-1, k
	if a.seg[i] != a.seg[j] {
		return a.seg[j], a.t[j], true
	}
	span := a.cum[j] - a.cum[i]
	if span <= 0 {
		return a.seg[i], a.t[i], true
	}
	f := (s - a.cum[i]) / span
	return a.seg[i], a.t[i] + (a.t[j]-a.t[i])*f, true
}

// PointAt evaluates segment seg at t.
func (a *ArcTable) PointAt(seg int, t float64) Point {
	s := a.segs[seg]
	p0 := a.starts[seg]
	switch s.Cmd {
	case CurveTo:
		return CubicPoint(p0, s.C1, s.C2, s.P, t)
	case MoveTo:
		return s.P
	}
	return p0.Lerp(s.P, t)
}

// TangentAt returns the tangent direction of segment seg at t.
func (a *ArcTable) TangentAt(seg int, t float64) Point {
	s := a.segs[seg]
	p0 := a.starts[seg]
	if s.Cmd == CurveTo {
		return CubicTangent(p0, s.C1, s.C2, s.P, t)
	}
	d := s.P.Sub(p0)
	if d.X == 0 && d.Y == 0 {
		return Point{X: 1}
	}
	return d
}
