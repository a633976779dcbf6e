package sketch

import (
	"math"
	"slices"
	"testing"
)

func near(a, b Point, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

func sCurve() *Path {
	return NewPath().MoveTo(0, 0).CurveTo(50, 50, 0, 150, 0, 200)
}

func TestPathPointsArcLengthUniform(t *testing.T) {
	p := sCurve()
	pts := slices.Collect(p.Points(5, 0, 1))
	if len(pts) != 5 {
		t.Fatalf("len(Points(5)) = %d", len(pts))
	}
	if !near(pts[0], Point{0, 0}, 1e-9) || !near(pts[4], Point{0, 200}, 1e-9) {
		t.Errorf("endpoints = %v, %v", pts[0], pts[4])
	}
	for i, pt := range pts {
		if want := p.Point(float64(i) / 4); !near(pt, want, 1e-9) {
			t.Errorf("Points()[%d] = %v, want Point(%v) = %v", i, pt, float64(i)/4, want)
		}
	}

	// Measure the arc length up to each quarter with a dense polyline.
	const dense = 4000
	total := p.Length()
	var run float64
	prev := p.Point(0)
	for k := 1; k <= dense; k++ {
		cur := p.Point(float64(k) / dense)
		run += prev.Distance(cur)
		prev = cur
		if k%(dense/4) == 0 {
			want := total * float64(k) / dense
			if math.Abs(run-want) > 0.02*total/4 {
				t.Errorf("arc length at %d/4 = %v, want %v", k/(dense/4), run, want)
			}
		}
	}
}

func TestPathDirectedFiniteAngles(t *testing.T) {
	p := sCurve()
	n := 0
	for angle, pt := range Directed(p.Points(5, 0, 1)) {
		n++
		if math.IsNaN(angle) || math.IsInf(angle, 0) {
			t.Errorf("angle at %v = %v", pt, angle)
		}
	}
	if n != 5 {
		t.Errorf("Directed yielded %d pairs, want 5", n)
	}
	for angle := range p.Directed(5, 0, 1) {
		if math.IsNaN(angle) || math.IsInf(angle, 0) {
			t.Errorf("tangent angle = %v", angle)
		}
	}
}

func TestPathPointsClosedCyclic(t *testing.T) {
	p := NewPath().Rect(0, 0, 10, 10)
	got := slices.Collect(p.Points(4, 0, 1))
	want := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if !near(got[i], want[i], 1e-9) {
			t.Errorf("Points()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if !near(p.Point(1.25), Point{10, 0}, 1e-9) {
		t.Errorf("Point(1.25) = %v, want wrap to (10, 0)", p.Point(1.25))
	}
}

func TestPathPointsZeroLength(t *testing.T) {
	p := NewPath().MoveTo(3, 4).LineTo(3, 4)
	got := slices.Collect(p.Points(3, 0, 1))
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for _, pt := range got {
		if pt != (Point{3, 4}) {
			t.Errorf("point = %v, want (3, 4)", pt)
		}
	}
}

func TestPathPointsCount(t *testing.T) {
	p := sCurve()
	for _, n := range []int{0, 1, 2, 7, 100} {
		if got := len(slices.Collect(p.Points(n, 0, 1))); got != n {
			t.Errorf("len(Points(%d)) = %d", n, got)
		}
	}
}

func TestPathContainsEvenOdd(t *testing.T) {
	p := NewPath().Rect(0, 0, 100, 100).Rect(25, 25, 50, 50)
	tests := []struct {
		x, y float64
		want bool
	}{
		{10, 10, true},
		{50, 50, false},
		{150, 50, false},
	}
	for _, tt := range tests {
		if got := p.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestPathFingerprint(t *testing.T) {
	a := NewPath().Rect(0, 0, 10, 10)
	b := NewPath().Rect(0, 0, 10, 10)
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal paths have different fingerprints")
	}
	before := a.Fingerprint()
	a.LineTo(5, 5)
	if a.Fingerprint() == before {
		t.Error("fingerprint did not change after mutation")
	}
	c := b.Copy()
	c.SetTolerance(1)
	if c.Fingerprint() == b.Fingerprint() {
		t.Error("tolerance is not part of the fingerprint")
	}
}

func TestPathBoundsAndTransformed(t *testing.T) {
	p := NewPath().Rect(10, 20, 30, 40)
	if got := p.Bounds(); got != (Rect{X: 10, Y: 20, Width: 30, Height: 40}) {
		t.Errorf("Bounds() = %+v", got)
	}
	q := p.Transformed(Translate(5, -5))
	if got := q.Bounds(); got != (Rect{X: 15, Y: 15, Width: 30, Height: 40}) {
		t.Errorf("translated Bounds() = %+v", got)
	}
	if got := p.Bounds(); got.X != 10 {
		t.Error("Transformed modified the original")
	}
}

func TestPathStyleOverridesCopied(t *testing.T) {
	p := NewPath().Rect(0, 0, 1, 1)
	p.SetFill(Red)
	p.SetStrokeWidth(3)
	c := p.Copy()
	if f, ok := c.Fill(); !ok || f != Red {
		t.Errorf("copied fill = %v, %v", f, ok)
	}
	if w, ok := c.StrokeWidth(); !ok || w != 3 {
		t.Errorf("copied stroke width = %v, %v", w, ok)
	}
	if _, ok := c.Stroke(); ok {
		t.Error("copy gained a stroke override")
	}
}
