package sketch

import (
	"time"

	"github.com/gogpu/sketch/text"
)

// CanvasOption configures a Canvas during creation.
//
// Example:
//
//	c := sketch.NewCanvas(sketch.WithSize(500, 500), sketch.WithFPS(30))
type CanvasOption func(*canvasOptions)

type canvasOptions struct {
	cfg   Config
	clock func() time.Time
	fonts *text.Registry
}

func defaultCanvasOptions() canvasOptions {
	return canvasOptions{cfg: DefaultConfig(), clock: time.Now}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) CanvasOption {
	return func(o *canvasOptions) { o.cfg = cfg }
}

// WithSize sets the canvas size in pixels.
func WithSize(width, height int) CanvasOption {
	return func(o *canvasOptions) { o.cfg.Width, o.cfg.Height = width, height }
}

// WithFPS sets the target frame rate.
func WithFPS(fps float64) CanvasOption {
	return func(o *canvasOptions) { o.cfg.FPS = fps }
}

// WithFullscreen requests a fullscreen window.
func WithFullscreen(on bool) CanvasOption {
	return func(o *canvasOptions) { o.cfg.Fullscreen = on }
}

// WithVSync enables or disables vertical sync in drivers that support it.
func WithVSync(on bool) CanvasOption {
	return func(o *canvasOptions) { o.cfg.VSync = on }
}

// WithClearOnFrame controls whether the framebuffer is cleared to the
// background before each Draw.
func WithClearOnFrame(on bool) CanvasOption {
	return func(o *canvasOptions) { o.cfg.ClearOnFrame = on }
}

// WithTitle sets the window title.
func WithTitle(title string) CanvasOption {
	return func(o *canvasOptions) { o.cfg.Title = title }
}

// WithBackground sets the clear color as a hex string.
func WithBackground(hex string) CanvasOption {
	return func(o *canvasOptions) { o.cfg.Background = hex }
}

// WithCaptureFile records every presented frame to path.
func WithCaptureFile(path string) CanvasOption {
	return func(o *canvasOptions) { o.cfg.CaptureFile = path }
}

// WithClock replaces the wall clock used for frame pacing and tweens.
func WithClock(now func() time.Time) CanvasOption {
	return func(o *canvasOptions) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithFonts sets the font registry. The default is text.Default().
func WithFonts(r *text.Registry) CanvasOption {
	return func(o *canvasOptions) { o.fonts = r }
}

// DrawOption overrides graphics state for a single drawing call. Options
// shadow the state and never modify it.
type DrawOption func(*drawOptions)

type drawOptions struct {
	fill, stroke *Color
	noFill       bool
	noStroke     bool
	strokeWidth  *float64
	alpha        *float64
	color        *Color
	width        *float64
	height       *float64
	roundness    float64
	filter       InlineFilter

	font       *string
	fontSize   *float64
	fontWeight *text.Weight
	italic     *bool
	lineHeight *float64
	align      *text.Align
	wrap       float64
}

func collectDrawOptions(opts []DrawOption) drawOptions {
	var o drawOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithFill overrides the fill color.
func WithFill(c Color) DrawOption {
	return func(o *drawOptions) { c = c.clamped(); o.fill, o.noFill = &c, false }
}

// WithNoFill disables the fill.
func WithNoFill() DrawOption {
	return func(o *drawOptions) { o.fill, o.noFill = nil, true }
}

// WithStroke overrides the stroke color.
func WithStroke(c Color) DrawOption {
	return func(o *drawOptions) { c = c.clamped(); o.stroke, o.noStroke = &c, false }
}

// WithNoStroke disables the stroke.
func WithNoStroke() DrawOption {
	return func(o *drawOptions) { o.stroke, o.noStroke = nil, true }
}

// WithStrokeWidth overrides the stroke width.
func WithStrokeWidth(w float64) DrawOption {
	return func(o *drawOptions) { o.strokeWidth = &w }
}

// WithAlpha multiplies the alpha of the call. For images it multiplies
// the texture alpha.
func WithAlpha(a float64) DrawOption {
	return func(o *drawOptions) { a = clamp01(a); o.alpha = &a }
}

// WithColor modulates the RGB of an image.
func WithColor(c Color) DrawOption {
	return func(o *drawOptions) { c = c.clamped(); o.color = &c }
}

// WithImageSize sets the drawn width and height of an image. Zero keeps the
// natural size of that axis.
func WithImageSize(width, height float64) DrawOption {
	return func(o *drawOptions) {
		if width > 0 {
			o.width = &width
		}
		if height > 0 {
			o.height = &height
		}
	}
}

// WithRoundness rounds the corners of Rect. r in [0,1] is the corner
// radius as a fraction of half the shorter side.
func WithRoundness(r float64) DrawOption {
	return func(o *drawOptions) { o.roundness = clamp01(r) }
}

// WithFilter attaches an inline filter to an image draw. The filter
// replaces the color and alpha overrides.
func WithFilter(f InlineFilter) DrawOption {
	return func(o *drawOptions) { o.filter = f }
}

// WithFont overrides the font family.
func WithFont(family string) DrawOption {
	return func(o *drawOptions) { o.font = &family }
}

// WithFontSize overrides the font size.
func WithFontSize(size float64) DrawOption {
	return func(o *drawOptions) { o.fontSize = &size }
}

// WithFontWeight overrides the font weight.
func WithFontWeight(w text.Weight) DrawOption {
	return func(o *drawOptions) { o.fontWeight = &w }
}

// WithItalic selects the italic variant.
func WithItalic(on bool) DrawOption {
	return func(o *drawOptions) { o.italic = &on }
}

// WithLineHeight overrides the line height multiplier.
func WithLineHeight(lh float64) DrawOption {
	return func(o *drawOptions) { o.lineHeight = &lh }
}

// WithAlign overrides the text alignment.
func WithAlign(a text.Align) DrawOption {
	return func(o *drawOptions) { o.align = &a }
}

// WithWrap wraps text at width pixels.
func WithWrap(width float64) DrawOption {
	return func(o *drawOptions) { o.wrap = width }
}
