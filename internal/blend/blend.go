// Package blend implements the blend-mode math used by the two-input
// filter programs. Colors are straight (non-premultiplied) in [0, 1].
package blend

import "fmt"

// Mode is a blend mode.
type Mode int

// Blend modes.
const (
	Multiply Mode = iota
	Screen
	Overlay
	Add
	Subtract
	Darken
	Lighten
	HueMode
)

var modeNames = [...]string{
	Multiply: "multiply",
	Screen:   "screen",
	Overlay:  "overlay",
	Add:      "add",
	Subtract: "subtract",
	Darken:   "darken",
	Lighten:  "lighten",
	HueMode:  "hue",
}

// Modes lists every blend mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, len(modeNames))
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode returns the mode with the given name.
func ParseMode(name string) (Mode, bool) {
	for i, n := range modeNames {
		if n == name {
			return Mode(i), true
		}
	}
	return 0, false
}

// Channel applies a separable mode to one component. base is the lower
// layer. HueMode is not separable and returns base unchanged.
func Channel(m Mode, base, top float64) float64 {
	switch m {
	case Multiply:
		return base * top
	case Screen:
		return 1 - (1-base)*(1-top)
	case Overlay:
		if base <= 0.5 {
			return 2 * base * top
		}
		return 1 - 2*(1-base)*(1-top)
	case Add:
		return min(base+top, 1)
	case Subtract:
		return max(base+top-1, 0)
	case Darken:
		return min(base, top)
	case Lighten:
		return max(base, top)
	}
	return base
}

// Color is a straight RGBA color.
type Color struct {
	R, G, B, A float64
}

// Mix blends top onto base with mode m. The blended color replaces the
// base color in proportion to top.A*opacity; the result alpha is the
// source-over union of both alphas.
func Mix(m Mode, base, top Color, opacity float64) Color {
	var r, g, b float64
	if m == HueMode {
		r, g, b = Hue(base.R, base.G, base.B, top.R, top.G, top.B)
	} else {
		r = Channel(m, base.R, top.R)
		g = Channel(m, base.G, top.G)
		b = Channel(m, base.B, top.B)
	}
	k := top.A * opacity
	if base.A <= 0 {
		return Color{R: top.R, G: top.G, B: top.B, A: k}
	}
	return Color{
		R: base.R + (r-base.R)*k,
		G: base.G + (g-base.G)*k,
		B: base.B + (b-base.B)*k,
		A: base.A + k*(1-base.A),
	}
}
