package sketch

import (
	"math"

	"github.com/gogpu/sketch/internal/tess"
)

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Angle returns the angle in degrees of the line from (x0, y0) to (x1, y1).
func Angle(x0, y0, x1, y1 float64) float64 {
	return Degrees(math.Atan2(y1-y0, x1-x0))
}

// Distance returns the distance between (x0, y0) and (x1, y1).
func Distance(x0, y0, x1, y1 float64) float64 {
	return math.Hypot(x1-x0, y1-y0)
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Smoothstep returns the Hermite interpolation of x between edges a and b,
// 0 below a and 1 above b.
func Smoothstep(a, b, x float64) float64 {
	if a == b {
		if x < a {
			return 0
		}
		return 1
	}
	t := Clamp((x-a)/(b-a), 0, 1)
	return t * t * (3 - 2*t)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// Coordinates returns the point at distance from (x0, y0) in the direction
// angle degrees.
func Coordinates(x0, y0, distance, angle float64) (x, y float64) {
	sin, cos := math.Sincos(Radians(angle))
	return x0 + cos*distance, y0 + sin*distance
}

// Reflect reflects (x1, y1) through (x0, y0), scaling the distance by d and
// rotating the direction by a degrees.
func Reflect(x0, y0, x1, y1, d, a float64) (x, y float64) {
	dist := Distance(x0, y0, x1, y1) * d
	angle := Angle(x1, y1, x0, y0) + a
	return Coordinates(x0, y0, dist, angle)
}

// LinePoint returns the point at t on the line from (x0, y0) to (x1, y1).
func LinePoint(t, x0, y0, x1, y1 float64) Point {
	return Point{X: Lerp(x0, x1, t), Y: Lerp(y0, y1, t)}
}

// CurveSplit is the result of evaluating a cubic with De Casteljau's
// algorithm: the point on the curve plus the handles of the two halves.
type CurveSplit struct {
	Point Point
	// Handles of the left half ending at Point.
	LeftC1, LeftC2 Point
	// Handles of the right half starting at Point.
	RightC1, RightC2 Point
}

// CurvePoint evaluates the cubic p0..p3 at t and returns the point with
// the split handles.
func CurvePoint(t float64, p0, p1, p2, p3 Point) CurveSplit {
	l, r := tess.Split(tp(p0), tp(p1), tp(p2), tp(p3), t)
	return CurveSplit{
		Point:   fromTess(l[3]),
		LeftC1:  fromTess(l[1]),
		LeftC2:  fromTess(l[2]),
		RightC1: fromTess(r[1]),
		RightC2: fromTess(r[2]),
	}
}

// SplitCubic splits the cubic p0..p3 at t into two cubics.
func SplitCubic(t float64, p0, p1, p2, p3 Point) (left, right [4]Point) {
	l, r := tess.Split(tp(p0), tp(p1), tp(p2), tp(p3), t)
	for i := range 4 {
		left[i], right[i] = fromTess(l[i]), fromTess(r[i])
	}
	return left, right
}

// CurveLength approximates the arc length of the cubic with n chords.
func CurveLength(p0, p1, p2, p3 Point, n int) float64 {
	return tess.CubicLength(tp(p0), tp(p1), tp(p2), tp(p3), n)
}

// CurveTangentAngle returns the direction of the cubic at t in degrees.
func CurveTangentAngle(t float64, p0, p1, p2, p3 Point) float64 {
	d := tess.CubicTangent(tp(p0), tp(p1), tp(p2), tp(p3), t)
	return Degrees(math.Atan2(d.Y, d.X))
}

func tp(p Point) tess.Point { return tess.Point{X: p.X, Y: p.Y} }

func fromTess(p tess.Point) Point { return Point{X: p.X, Y: p.Y} }

// Rect is an axis-aligned rectangle with its origin at the bottom-left
// corner in canvas coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside r. Points on the left and
// bottom edges are inside, points on the right and top edges are not.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	x0, y0 := math.Min(r.X, s.X), math.Min(r.Y, s.Y)
	x1, y1 := math.Max(r.X+r.Width, s.X+s.Width), math.Max(r.Y+r.Height, s.Y+s.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
