package blend

// Non-separable HSL helpers per W3C Compositing and Blending Level 1,
// section 8. Components are in [0, 1].

// Lum returns the luminance of a color using BT.601 coefficients.
func Lum(r, g, b float64) float64 {
	return 0.30*r + 0.59*g + 0.11*b
}

// Sat returns max(r, g, b) - min(r, g, b).
func Sat(r, g, b float64) float64 {
	return max(r, g, b) - min(r, g, b)
}

// ClipColor brings components back into [0,1] while preserving luminance.
func ClipColor(r, g, b float64) (float64, float64, float64) {
	l := Lum(r, g, b)
	n := min(r, g, b)
	x := max(r, g, b)
	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

// SetLum shifts the color to luminance l, then clips.
func SetLum(r, g, b, l float64) (float64, float64, float64) {
	d := l - Lum(r, g, b)
	return ClipColor(r+d, g+d, b+d)
}

// SetSat rescales the color to saturation s keeping the component order.
func SetSat(r, g, b, s float64) (float64, float64, float64) {
	lo, mid, hi := sortRGB(&r, &g, &b)
	if *hi > *lo {
		*mid = (*mid - *lo) * s / (*hi - *lo)
		*hi = s
	} else {
		*mid, *hi = 0, 0
	}
	*lo = 0
	return r, g, b
}

func sortRGB(r, g, b *float64) (lo, mid, hi *float64) {
	switch {
	case *r <= *g && *g <= *b:
		return r, g, b
	case *r <= *b && *b <= *g:
		return r, b, g
	case *b <= *r && *r <= *g:
		return b, r, g
	case *g <= *r && *r <= *b:
		return g, r, b
	case *g <= *b && *b <= *r:
		return g, b, r
	}
	return b, g, r
}

// Hue keeps the hue of the top layer and the saturation and luminosity
// of the base: SetLum(SetSat(top, Sat(base)), Lum(base)).
func Hue(br, bg, bb, tr, tg, tb float64) (float64, float64, float64) {
	r, g, b := SetSat(tr, tg, tb, Sat(br, bg, bb))
	return SetLum(r, g, b, Lum(br, bg, bb))
}
