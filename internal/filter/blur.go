package filter

import (
	"image"
	"sync"
)

var tempPool = sync.Pool{
	New: func() any { return new([]float32) },
}

func getTemp(n int) *[]float32 {
	p := tempPool.Get().(*[]float32)
	if cap(*p) < n {
		*p = make([]float32, n)
	}
	*p = (*p)[:n]
	return p
}

// Blur writes a separable Gaussian blur of src with the given radius into
// dst. Colors are weighted by alpha during convolution. The edges are
// extended. radius <= 0 copies src.
func Blur(dst, src *image.NRGBA, radius float64) {
	if !sameSize(dst, src) {
		return
	}
	if radius <= 0 {
		copyImage(dst, src)
		return
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	kernel := CachedGaussianKernel(radius)
	half := len(kernel) / 2

	pre := getTemp(w * h * 4)
	defer tempPool.Put(pre)
	tmp := getTemp(w * h * 4)
	defer tempPool.Put(tmp)
	premultiply(*pre, src)

	// Horizontal pass: pre -> tmp.
	p, t := *pre, *tmp
	for y := range h {
		row := y * w * 4
		for x := range w {
			var r, g, b, a float32
			for k, wt := range kernel {
				kx := min(max(x+k-half, 0), w-1)
				i := row + kx*4
				r += p[i] * wt
				g += p[i+1] * wt
				b += p[i+2] * wt
				a += p[i+3] * wt
			}
			o := row + x*4
			t[o], t[o+1], t[o+2], t[o+3] = r, g, b, a
		}
	}

	// Vertical pass: tmp -> dst.
	for y := range h {
		for x := range w {
			var r, g, b, a float32
			for k, wt := range kernel {
				ky := min(max(y+k-half, 0), h-1)
				i := (ky*w + x) * 4
				r += t[i] * wt
				g += t[i+1] * wt
				b += t[i+2] * wt
				a += t[i+3] * wt
			}
			storePremul(dst, x, y, r, g, b, a)
		}
	}
}

// Blur3 is the small-kernel blur used by inline filters: a 3x3 binomial
// kernel evaluated at (u, v) with texel size (du, dv).
func Blur3(src *image.NRGBA, u, v, du, dv float64) Color {
	weights := [3]float64{0.25, 0.5, 0.25}
	var r, g, b, a float64
	for j := -1; j <= 1; j++ {
		for i := -1; i <= 1; i++ {
			wt := weights[i+1] * weights[j+1]
			c := Sample(src, u+float64(i)*du, v+float64(j)*dv)
			r += c.R * c.A * wt
			g += c.G * c.A * wt
			b += c.B * c.A * wt
			a += c.A * wt
		}
	}
	if a <= 0 {
		return Color{}
	}
	return Color{R: r / a, G: g / a, B: b / a, A: a}
}

func premultiply(dst []float32, src *image.NRGBA) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := range h {
		for x := range w {
			s := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			px := src.Pix[s : s+4 : s+4]
			a := float32(px[3]) / 255
			o := (y*w + x) * 4
			dst[o] = float32(px[0]) / 255 * a
			dst[o+1] = float32(px[1]) / 255 * a
			dst[o+2] = float32(px[2]) / 255 * a
			dst[o+3] = a
		}
	}
}

func storePremul(dst *image.NRGBA, x, y int, r, g, b, a float32) {
	i := dst.PixOffset(dst.Rect.Min.X+x, dst.Rect.Min.Y+y)
	px := dst.Pix[i : i+4 : i+4]
	if a <= 0 {
		px[0], px[1], px[2], px[3] = 0, 0, 0, 0
		return
	}
	px[0] = unit8(float64(r / a))
	px[1] = unit8(float64(g / a))
	px[2] = unit8(float64(b / a))
	px[3] = unit8(float64(a))
}

func unit8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func copyImage(dst, src *image.NRGBA) {
	h := src.Rect.Dy()
	n := src.Rect.Dx() * 4
	for y := range h {
		s := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		d := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
		copy(dst.Pix[d:d+n], src.Pix[s:s+n])
	}
}
