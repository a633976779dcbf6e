package gui

import "github.com/gogpu/sketch"

// Theme holds the colors and metrics controls are drawn with.
type Theme struct {
	Font     string
	FontSize float64

	Text       sketch.Color
	Background sketch.Color
	Face       sketch.Color
	Accent     sketch.Color
	Border     sketch.Color

	// Padding is the inner margin of controls and containers.
	Padding float64
	// Height is the height of single-line controls.
	Height float64
	// Roundness is the corner radius fraction of control faces.
	Roundness float64
}

// DefaultTheme is used by controls created without WithTheme.
var DefaultTheme = Theme{
	Font:       "Go",
	FontSize:   11,
	Text:       sketch.Gray(0.1),
	Background: sketch.Gray(0.85).WithAlpha(0.9),
	Face:       sketch.Gray(0.97),
	Accent:     sketch.RGB(0.22, 0.5, 0.9),
	Border:     sketch.Gray(0.55),
	Padding:    6,
	Height:     20,
	Roundness:  0.3,
}

// label draws s left aligned and vertically centered in a box of height h.
func (t *Theme) label(c *sketch.Canvas, s string, x, h float64) error {
	baseline := (h - t.FontSize*0.7) / 2
	return c.Text(s, x, baseline,
		sketch.WithFill(t.Text),
		sketch.WithFont(t.Font),
		sketch.WithFontSize(t.FontSize),
	)
}

// face draws a bordered control face.
func (t *Theme) face(c *sketch.Canvas, x, y, w, h float64, fill sketch.Color) error {
	return c.Rect(x, y, w, h,
		sketch.WithFill(fill),
		sketch.WithStroke(t.Border),
		sketch.WithStrokeWidth(1),
		sketch.WithRoundness(t.Roundness),
	)
}
