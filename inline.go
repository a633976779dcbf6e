package sketch

import (
	"fmt"
	"image"

	"github.com/gogpu/sketch/internal/blend"
	"github.com/gogpu/sketch/internal/filter"
)

// InlineFilter is a fragment program bound to a single Canvas.Image call
// with WithFilter. It is evaluated per fragment during that draw and
// replaces the WithColor and WithAlpha overrides. Inline filters cannot
// be chained; use the eager filters for multi-pass effects.
type InlineFilter interface {
	// Name returns the registered program name.
	Name() string

	// prepare resolves textures before drawing; it returns the shader
	// for the texture being drawn.
	prepare(tex *image.NRGBA) (func(u, v float64) filter.Color, error)
}

type inline struct {
	name   string
	values []float64
	images []*Image
	shade  func(tex *image.NRGBA, extra []*image.NRGBA, u, v float64) filter.Color
}

func (f *inline) Name() string { return f.name }

func (f *inline) prepare(tex *image.NRGBA) (func(u, v float64) filter.Color, error) {
	if err := checkParams(f.name, f.values...); err != nil {
		return nil, err
	}
	extra, err := sources(f.images...)
	if err != nil {
		return nil, err
	}
	return func(u, v float64) filter.Color { return f.shade(tex, extra, u, v) }, nil
}

// Blurred blurs with a 3x3 kernel whose taps are scale texels apart.
func Blurred(scale float64) InlineFilter {
	return &inline{name: "blur", values: []float64{scale}, shade: func(tex *image.NRGBA, _ []*image.NRGBA, u, v float64) filter.Color {
		du := scale / float64(tex.Rect.Dx())
		dv := scale / float64(tex.Rect.Dy())
		return filter.Blur3(tex, u, v, du, dv)
	}}
}

// Desaturated removes amount of the saturation.
func Desaturated(amount float64) InlineFilter {
	return &inline{name: "desaturate", values: []float64{amount}, shade: func(tex *image.NRGBA, _ []*image.NRGBA, u, v float64) filter.Color {
		return filter.DesaturateColor(filter.Sample(tex, u, v), amount)
	}}
}

// Inverted inverts the colors.
func Inverted() InlineFilter {
	return &inline{name: "invert", shade: func(tex *image.NRGBA, _ []*image.NRGBA, u, v float64) filter.Color {
		return filter.InvertColor(filter.Sample(tex, u, v))
	}}
}

// Colorized multiplies the colors by color and adds bias.
func Colorized(color, bias Color) InlineFilter {
	cc, bc := color.clamped().raster(), bias.clamped().raster()
	return &inline{name: "colorize", shade: func(tex *image.NRGBA, _ []*image.NRGBA, u, v float64) filter.Color {
		return filter.ColorizeColor(filter.Sample(tex, u, v), cc, bc)
	}}
}

// Masked uses the luminance of mask, offset by (dx, dy) pixels, as alpha.
func Masked(mask *Image, amount, dx, dy float64) InlineFilter {
	return &inline{name: "mask", values: []float64{amount, dx, dy}, images: []*Image{mask}, shade: func(tex *image.NRGBA, extra []*image.NRGBA, u, v float64) filter.Color {
		w, h := float64(tex.Rect.Dx()), float64(tex.Rect.Dy())
		return filter.MaskColor(filter.Sample(tex, u, v), filter.OffsetSample(extra[0], u, v, dx, dy, w, h), amount)
	}}
}

// Blended mixes img, offset by (dx, dy) pixels, onto the drawn image with
// the named blend mode.
func Blended(mode string, img *Image, opacity, dx, dy float64) InlineFilter {
	m, ok := blend.ParseMode(mode)
	if !ok {
		return invalidInline(mode, fmt.Errorf("%w: unknown blend mode %q", ErrUsage, mode))
	}
	return &inline{name: mode, values: []float64{opacity, dx, dy}, images: []*Image{img}, shade: func(tex *image.NRGBA, extra []*image.NRGBA, u, v float64) filter.Color {
		w, h := float64(tex.Rect.Dx()), float64(tex.Rect.Dy())
		return filter.BlendColor(m, filter.Sample(tex, u, v), filter.OffsetSample(extra[0], u, v, dx, dy, w, h), opacity)
	}}
}

// Distorted applies a radial lens per fragment. kind is one of bump, dent,
// stretch or twirl; amount is the zoom, or the angle in degrees for twirl.
func Distorted(kind string, dx, dy, radius, amount float64) InlineFilter {
	lk, ok := map[string]filter.LensKind{
		"bump":    filter.LensBump,
		"dent":    filter.LensDent,
		"stretch": filter.LensStretch,
		"twirl":   filter.LensTwirl,
	}[kind]
	if !ok {
		return invalidInline(kind, fmt.Errorf("%w: unknown distortion %q", ErrUsage, kind))
	}
	return &inline{name: kind, values: []float64{dx, dy, radius, amount}, shade: func(tex *image.NRGBA, _ []*image.NRGBA, u, v float64) filter.Color {
		return filter.LensColor(tex, lk, u, v, dx, dy, radius, amount)
	}}
}

type brokenInline struct {
	name string
	err  error
}

func invalidInline(name string, err error) InlineFilter { return brokenInline{name: name, err: err} }

func (b brokenInline) Name() string { return b.name }

func (b brokenInline) prepare(*image.NRGBA) (func(u, v float64) filter.Color, error) {
	return nil, b.err
}
