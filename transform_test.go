package sketch

import (
	"math"
	"testing"
)

func TestScaleFactor(t *testing.T) {
	const epsilon = 1e-10

	tests := []struct {
		name string
		m    Transform
		want float64
	}{
		{"identity", Identity(), 1.0},
		{"pure translation", Translate(10, 20), 1.0},
		{"uniform scale 2", Scale(2, 2), 2.0},
		{"uniform scale 0.5", Scale(0.5, 0.5), 0.5},
		{"non-uniform scale 4,1", Scale(4, 1), 2.0},
		{"negative scale -2,-2", Scale(-2, -2), 2.0},
		{"flip y", Scale(1, -1), 1.0},
		{"zero scale", Scale(0, 0), 0.0},
		{"rotation 45deg", Rotate(math.Pi / 4), 1.0},
		{"rotation arbitrary", Rotate(1.23), 1.0},
		{"scale 3 then rotate", Scale(3, 3).Multiply(Rotate(math.Pi / 6)), 3.0},
		{"scale + translate", Scale(3, 3).Multiply(Translate(100, 200)), 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.ScaleFactor()
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("Transform%+v.ScaleFactor() = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}

func TestMultiplyAppliesRightOperandFirst(t *testing.T) {
	// Translate then scale: the point is scaled first.
	m := Translate(10, 0).Multiply(Scale(2, 2))
	got := m.Apply(Pt(1, 1))
	if got != Pt(12, 2) {
		t.Errorf("Translate*Scale applied to (1,1) = %v, want (12,2)", got)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	transforms := []Transform{
		Identity(),
		Translate(5, -10),
		Scale(2, 3),
		Rotate(math.Pi / 3),
		Skew(0.3, 0.1),
		Translate(100, 0).Multiply(Rotate(Radians(30))).Multiply(Scale(0.5, 0.5)),
	}
	points := []Point{{0, 0}, {1, 2}, {-30, 47.5}, {1e3, -1e3}}
	for _, m := range transforms {
		inv, ok := m.Invert()
		if !ok {
			t.Fatalf("Transform%+v not invertible", m)
		}
		for _, p := range points {
			got := inv.Apply(m.Apply(p))
			if got.Distance(p) > 1e-9 {
				t.Errorf("Transform%+v round trip of %v = %v", m, p, got)
			}
		}
	}
}

func TestInvertSingular(t *testing.T) {
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("Scale(0,1).Invert() reported ok")
	}
}

func TestRotateCounterClockwise(t *testing.T) {
	got := Rotate(math.Pi / 2).Apply(Pt(1, 0))
	if math.Abs(got.X) > 1e-12 || math.Abs(got.Y-1) > 1e-12 {
		t.Errorf("Rotate(90deg) applied to (1,0) = %v, want (0,1)", got)
	}
}

func TestIsIdentity(t *testing.T) {
	if !Identity().IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}
	if Translate(1, 0).IsIdentity() {
		t.Error("Translate(1,0).IsIdentity() = true")
	}
}
