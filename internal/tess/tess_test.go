package tess

import (
	"math"
	"testing"
)

func square(x, y, s float64) []Segment {
	return []Segment{
		{Cmd: MoveTo, P: Point{x, y}},
		{Cmd: LineTo, P: Point{x + s, y}},
		{Cmd: LineTo, P: Point{x + s, y + s}},
		{Cmd: LineTo, P: Point{x, y + s}},
		{Cmd: Close, P: Point{x, y}},
	}
}

func TestFlattenLines(t *testing.T) {
	cs := Flatten(square(0, 0, 10), 0)
	if len(cs) != 1 {
		t.Fatalf("Flatten() returned %d contours, want 1", len(cs))
	}
	if !cs[0].Closed {
		t.Error("contour should be closed")
	}
	if got := len(cs[0].Points); got != 4 {
		t.Errorf("contour has %d points, want 4", got)
	}
}

func TestFlattenCubicWithinTolerance(t *testing.T) {
	p0, p1, p2, p3 := Point{0, 0}, Point{50, 50}, Point{0, 150}, Point{0, 200}
	segs := []Segment{{Cmd: MoveTo, P: p0}, {Cmd: CurveTo, C1: p1, C2: p2, P: p3}}

	for _, tol := range []float64{1, 0.25, 0.05} {
		cs := Flatten(segs, tol)
		pts := cs[0].Points
		if pts[len(pts)-1] != p3 {
			t.Errorf("tol=%v: last point %v, want %v", tol, pts[len(pts)-1], p3)
		}
		// Every curve sample must be close to the polyline.
		for i := 0; i <= 100; i++ {
			q := CubicPoint(p0, p1, p2, p3, float64(i)/100)
			best := math.Inf(1)
			for k := 0; k+1 < len(pts); k++ {
				best = math.Min(best, distanceToSegment(q, pts[k], pts[k+1]))
			}
			if best > tol*1.5 {
				t.Errorf("tol=%v: curve point %v is %.3f from polyline", tol, q, best)
				break
			}
		}
	}
}

func TestFlattenMultipleSubpaths(t *testing.T) {
	segs := append(square(0, 0, 10), square(20, 0, 10)...)
	cs := Flatten(segs, 0)
	if len(cs) != 2 {
		t.Fatalf("Flatten() returned %d contours, want 2", len(cs))
	}
	minX, _, maxX, _, ok := Bounds(cs)
	if !ok || minX != 0 || maxX != 30 {
		t.Errorf("Bounds() x range = [%v, %v], want [0, 30]", minX, maxX)
	}
}

func TestEvenOdd(t *testing.T) {
	// Outer square with an inner square: the hole is outside under even-odd.
	segs := append(square(0, 0, 30), square(10, 10, 10)...)
	cs := Flatten(segs, 0)
	tests := []struct {
		x, y float64
		want bool
	}{
		{5, 5, true},
		{15, 15, false},
		{25, 25, true},
		{35, 5, false},
	}
	for _, tt := range tests {
		if got := EvenOdd(cs, tt.x, tt.y); got != tt.want {
			t.Errorf("EvenOdd(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFanArea(t *testing.T) {
	cs := Flatten(square(0, 0, 10), 0)
	tris := Fan(cs)
	if len(tris) != 2 {
		t.Errorf("Fan() produced %d triangles, want 2", len(tris))
	}
	if got := SignedArea(tris); math.Abs(got-100) > 1e-9 {
		t.Errorf("SignedArea() = %v, want 100", got)
	}
}

func TestSplitMatchesEvaluation(t *testing.T) {
	p0, p1, p2, p3 := Point{0, 0}, Point{10, 40}, Point{60, 40}, Point{80, 0}
	l, r := Split(p0, p1, p2, p3, 0.3)
	want := CubicPoint(p0, p1, p2, p3, 0.3)
	if l[3].Distance(want) > 1e-12 || r[0].Distance(want) > 1e-12 {
		t.Errorf("split point = %v / %v, want %v", l[3], r[0], want)
	}
	// The left half at 0.5 is the original at 0.15.
	if got := CubicPoint(l[0], l[1], l[2], l[3], 0.5); got.Distance(CubicPoint(p0, p1, p2, p3, 0.15)) > 1e-9 {
		t.Errorf("left half midpoint = %v", got)
	}
}

func TestArcTableLocate(t *testing.T) {
	a := NewArcTable(square(0, 0, 10), 0)
	if got := a.Total(); math.Abs(got-40) > 1e-9 {
		t.Fatalf("Total() = %v, want 40", got)
	}
	tests := []struct {
		s    float64
		want Point
	}{
		{0, Point{0, 0}},
		{5, Point{5, 0}},
		{15, Point{10, 5}},
		{35, Point{0, 5}},
		{40, Point{0, 0}},
	}
	for _, tt := range tests {
		seg, u, ok := a.Locate(tt.s)
		if !ok {
			t.Fatalf("Locate(%v) not ok", tt.s)
		}
		if got := a.PointAt(seg, u); got.Distance(tt.want) > 1e-9 {
			t.Errorf("PointAt(Locate(%v)) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestArcTableEmpty(t *testing.T) {
	a := NewArcTable(nil, 0)
	if !a.Empty() {
		t.Error("Empty() = false for nil segments")
	}
	if _, _, ok := a.Locate(1); ok {
		t.Error("Locate on empty table reported ok")
	}
}

func TestWinding(t *testing.T) {
	ccw := Flatten(square(0, 0, 10), 0)
	if got := Winding(ccw, 5, 5); got != 1 {
		t.Errorf("Winding(ccw) = %d, want 1", got)
	}
	twice := append(ccw, ccw...)
	if got := Winding(twice, 5, 5); got != 2 {
		t.Errorf("Winding(twice) = %d, want 2", got)
	}
	if got := Winding(ccw, 15, 5); got != 0 {
		t.Errorf("Winding(outside) = %d, want 0", got)
	}
}
