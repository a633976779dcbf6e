package sketch

import (
	"image/color"
	"math"
	"testing"
)

// Verify at compile time that Color implements color.Color.
var _ color.Color = Color{}

func TestColor_ColorInterface(t *testing.T) {
	tests := []struct {
		name                       string
		c                          Color
		wantR, wantG, wantB, wantA uint32
	}{
		{name: "opaque black", c: Black, wantA: 65535},
		{name: "opaque white", c: White, wantR: 65535, wantG: 65535, wantB: 65535, wantA: 65535},
		{name: "opaque red", c: Red, wantR: 65535, wantA: 65535},
		{name: "transparent", c: Transparent},
		{name: "50% alpha red", c: NewColor(1, 0, 0, 0.5), wantR: 32896, wantA: 32896},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.c.RGBA()
			// Allow ±1 tolerance for rounding
			if diff(r, tt.wantR) > 1 || diff(g, tt.wantG) > 1 || diff(b, tt.wantB) > 1 || diff(a, tt.wantA) > 1 {
				t.Errorf("RGBA() = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					r, g, b, a, tt.wantR, tt.wantG, tt.wantB, tt.wantA)
			}
		})
	}
}

func TestColorClamping(t *testing.T) {
	inRange := func(c Color) bool {
		for _, v := range []float64{c.R, c.G, c.B, c.A} {
			if v < 0 || v > 1 || math.IsNaN(v) {
				return false
			}
		}
		return true
	}
	tests := []struct {
		name string
		c    Color
	}{
		{"NewColor above", NewColor(2, 3, 4, 5)},
		{"NewColor below", NewColor(-1, -2, -3, -4)},
		{"NewColor NaN", NewColor(math.NaN(), 0.5, 0.5, 1)},
		{"RGB", RGB(1.5, -0.5, 0.5)},
		{"Gray", Gray(7)},
		{"HSL", HSL(-400, 2, 2)},
		{"WithAlpha", Red.WithAlpha(9)},
		{"Lerp beyond", Black.Lerp(White, 3)},
		{"Hex", Hex("#ff8000cc")},
		{"bad Hex", Hex("zz")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !inRange(tt.c) {
				t.Errorf("%+v has a component outside [0,1]", tt.c)
			}
		})
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"f00", color.NRGBA{255, 0, 0, 255}},
		{"#00ff0080", color.NRGBA{0, 255, 0, 128}},
		{"#1234", color.NRGBA{0x11, 0x22, 0x33, 0x44}},
		{"nope", color.NRGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Hex(tt.in).NRGBA(); got != tt.want {
				t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColor_Roundtrip(t *testing.T) {
	original := NewColor(0.8, 0.2, 0.4, 0.6)
	got := FromColor(original.NRGBA())
	const tolerance = 1.0 / 255
	if absDiff(original.R, got.R) > tolerance ||
		absDiff(original.G, got.G) > tolerance ||
		absDiff(original.B, got.B) > tolerance ||
		absDiff(original.A, got.A) > tolerance {
		t.Errorf("roundtrip: %v → %v", original, got)
	}
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
