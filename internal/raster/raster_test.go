package raster

import (
	"image"
	"testing"

	"github.com/gogpu/sketch/internal/tess"
)

func rect(x, y, w, h float64) []tess.Contour {
	return []tess.Contour{{Closed: true, Points: []tess.Point{
		{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
	}}}
}

func count(img *image.NRGBA, pred func(p []uint8) bool) int {
	n := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if pred(img.Pix[i : i+4]) {
			n++
		}
	}
	return n
}

func TestFillPixelAlignedRect(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 500, 500))
	Fill(dst, dst.Rect, RGBA{R: 1, G: 1, B: 1, A: 1})

	f := NewFiller()
	f.Fill(dst, rect(100, 400, 300, 90), FillRuleNonZero, RGBA{A: 1}, Clip{})

	black := count(dst, func(p []uint8) bool { return p[0] == 0 && p[1] == 0 && p[2] == 0 && p[3] == 255 })
	if black != 300*90 {
		t.Errorf("filled %d pixels, want %d", black, 300*90)
	}
	if got := At(dst, 150, 450); got != (RGBA{A: 1}) {
		t.Errorf("inside pixel = %v, want black", got)
	}
	if got := At(dst, 50, 450); got != (RGBA{R: 1, G: 1, B: 1, A: 1}) {
		t.Errorf("outside pixel = %v, want white", got)
	}
}

func TestFillHalfPixelCoverage(t *testing.T) {
	var cov []float32
	f := NewFiller()
	f.Coverage(rect(0.5, 0, 2, 1), FillRuleNonZero, image.Rect(0, 0, 4, 4), func(y, x0 int, c []float32) {
		if y == 0 {
			cov = append([]float32(nil), c...)
		}
	})
	want := []float32{0.5, 1, 0.5}
	if len(cov) != len(want) {
		t.Fatalf("coverage row = %v, want %v", cov, want)
	}
	for i := range want {
		if d := cov[i] - want[i]; d > 1e-6 || d < -1e-6 {
			t.Errorf("cov[%d] = %v, want %v", i, cov[i], want[i])
		}
	}
}

func TestFillRules(t *testing.T) {
	// Two overlapping same-direction squares: nonzero fills the overlap,
	// even-odd leaves it empty.
	cs := append(rect(0, 0, 10, 10), rect(5, 0, 10, 10)...)
	tests := []struct {
		rule FillRule
		want uint8
	}{
		{FillRuleNonZero, 255},
		{FillRuleEvenOdd, 0},
	}
	for _, tt := range tests {
		dst := image.NewNRGBA(image.Rect(0, 0, 20, 10))
		NewFiller().Fill(dst, cs, tt.rule, RGBA{R: 1, A: 1}, Clip{})
		if got := dst.NRGBAAt(7, 5).A; got != tt.want {
			t.Errorf("rule %v: overlap alpha = %d, want %d", tt.rule, got, tt.want)
		}
		if got := dst.NRGBAAt(2, 5).A; got != 255 {
			t.Errorf("rule %v: single coverage alpha = %d, want 255", tt.rule, got)
		}
	}
}

func TestFillClip(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	NewFiller().Fill(dst, rect(0, 0, 10, 10), FillRuleNonZero, RGBA{A: 1}, image.Rect(0, 0, 5, 10))
	n := count(dst, func(p []uint8) bool { return p[3] != 0 })
	if n != 50 {
		t.Errorf("clipped fill touched %d pixels, want 50", n)
	}
}

func TestBlendOver(t *testing.T) {
	tests := []struct {
		name string
		dst  RGBA
		src  RGBA
		a    float64
		want [4]uint8
	}{
		{"opaque replaces", RGBA{R: 1, A: 1}, RGBA{G: 1, A: 1}, 1, [4]uint8{0, 255, 0, 255}},
		{"half over opaque", RGBA{A: 1}, RGBA{R: 1, G: 1, B: 1, A: 1}, 0.5, [4]uint8{128, 128, 128, 255}},
		{"over transparent keeps color", RGBA{}, RGBA{R: 1, A: 0.5}, 1, [4]uint8{255, 0, 0, 128}},
		{"zero alpha is no-op", RGBA{B: 1, A: 1}, RGBA{R: 1, A: 1}, 0, [4]uint8{0, 0, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := image.NewNRGBA(image.Rect(0, 0, 1, 1))
			Set(dst, 0, 0, tt.dst)
			BlendOver(dst, 0, 0, tt.src, tt.a)
			var got [4]uint8
			copy(got[:], dst.Pix)
			if got != tt.want {
				t.Errorf("BlendOver() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuadCoversEachPixelOnce(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	q := [4]Vertex{
		{X: 0, Y: 0, U: 0, V: 0},
		{X: 8, Y: 0, U: 1, V: 0},
		{X: 8, Y: 8, U: 1, V: 1},
		{X: 0, Y: 8, U: 0, V: 1},
	}
	// Half-transparent white over transparent: a double hit on the
	// diagonal would raise the alpha above 128.
	Quad(dst, q, func(u, v float64) RGBA { return RGBA{R: 1, G: 1, B: 1, A: 0.5} }, 1, Clip{})
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if a := dst.NRGBAAt(x, y).A; a != 128 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want 128", x, y, a)
			}
		}
	}
}

func TestQuadInterpolatesUV(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	for x := 0; x < 4; x++ {
		src.Pix[x*4] = uint8(x * 60)
		src.Pix[x*4+3] = 255
	}
	dst := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	q := [4]Vertex{
		{X: 0, Y: 0, U: 0, V: 0},
		{X: 4, Y: 0, U: 1, V: 0},
		{X: 4, Y: 1, U: 1, V: 1},
		{X: 0, Y: 1, U: 0, V: 1},
	}
	Quad(dst, q, func(u, v float64) RGBA {
		return SampleBilinear(src, u*4, v*1)
	}, 1, Clip{})
	for x := 0; x < 4; x++ {
		if got, want := dst.Pix[x*4], src.Pix[x*4]; got != want {
			t.Errorf("pixel %d red = %d, want %d", x, got, want)
		}
	}
}

func TestSampleNearestClamps(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	Set(src, 1, 1, RGBA{R: 1, A: 1})
	if got := SampleNearest(src, 10, 10); got != (RGBA{R: 1, A: 1}) {
		t.Errorf("SampleNearest(out of range) = %v", got)
	}
}
