package tess

import "math"

// Split divides the cubic p0..p3 at t using De Casteljau's construction and
// returns the control polygons of both halves.
func Split(p0, p1, p2, p3 Point, t float64) (left, right [4]Point) {
	q0 := p0.Lerp(p1, t)
	q1 := p1.Lerp(p2, t)
	q2 := p2.Lerp(p3, t)
	r0 := q0.Lerp(q1, t)
	r1 := q1.Lerp(q2, t)
	s := r0.Lerp(r1, t)
	return [4]Point{p0, q0, r0, s}, [4]Point{s, r1, q2, p3}
}

// CubicPoint evaluates the cubic at t.
func CubicPoint(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// CubicDerivative returns the first derivative of the cubic at t.
func CubicDerivative(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a := 3 * mt * mt
	b := 6 * mt * t
	c := 3 * t * t
	return Point{
		X: a*(p1.X-p0.X) + b*(p2.X-p1.X) + c*(p3.X-p2.X),
		Y: a*(p1.Y-p0.Y) + b*(p2.Y-p1.Y) + c*(p3.Y-p2.Y),
	}
}

// CubicTangent returns a non-zero tangent direction at t. Where the
// derivative vanishes (coincident handles) it falls back to the nearest
// non-degenerate chord.
func CubicTangent(p0, p1, p2, p3 Point, t float64) Point {
	d := CubicDerivative(p0, p1, p2, p3, t)
	if math.Hypot(d.X, d.Y) > 1e-12 {
		return d
	}
	for _, pair := range [][2]Point{{p0, p1}, {p0, p2}, {p1, p3}, {p2, p3}, {p0, p3}} {
		v := pair[1].Sub(pair[0])
		if math.Hypot(v.X, v.Y) > 1e-12 {
			return v
		}
	}
	return Point{X: 1}
}

// CubicLength approximates the arc length of the cubic with n chords.
func CubicLength(p0, p1, p2, p3 Point, n int) float64 {
	if n < 1 {
		n = 1
	}
	var length float64
	prev := p0
	for i := 1; i <= n; i++ {
		p := CubicPoint(p0, p1, p2, p3, float64(i)/float64(n))
		length += prev.Distance(p)
		prev = p
	}
	return length
}
