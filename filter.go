package sketch

import (
	"errors"
	"fmt"
	"image"
	"math"
	"slices"
	"strings"

	"github.com/gogpu/sketch/internal/blend"
	"github.com/gogpu/sketch/internal/filter"
	"github.com/gogpu/sketch/internal/shader"
)

// FilterParam declares one numeric parameter of a filter program.
type FilterParam struct {
	Name     string
	Min, Max float64
	Default  float64
}

// FilterProgram describes a registered filter.
type FilterProgram struct {
	Name string
	// Inputs is the number of images the program reads: 0, 1 or 2.
	Inputs int
	Params []FilterParam
	// Shader names the GPU program, empty when the filter is CPU only.
	Shader string
	// Fallback describes what runs when the GPU program is unavailable.
	Fallback string
}

const offsetRange = 1 << 14

func params(ps ...FilterParam) []FilterParam { return ps }

func lensParams(last FilterParam) []FilterParam {
	return params(
		FilterParam{Name: "dx", Min: 0, Max: 1, Default: 0.5},
		FilterParam{Name: "dy", Min: 0, Max: 1, Default: 0.5},
		FilterParam{Name: "radius", Min: 0, Max: 1, Default: 0.5},
		last,
	)
}

func offsetParams(first FilterParam) []FilterParam {
	return params(
		first,
		FilterParam{Name: "dx", Min: -offsetRange, Max: offsetRange},
		FilterParam{Name: "dy", Min: -offsetRange, Max: offsetRange},
	)
}

// filterRegistry is built once at init and never modified.
var filterRegistry = func() map[string]FilterProgram {
	zoom := FilterParam{Name: "zoom", Min: 0, Max: 1, Default: 0.5}
	progs := []FilterProgram{
		{Name: "blur", Inputs: 1, Shader: "blur", Params: params(FilterParam{Name: "radius", Min: 0, Max: 100, Default: 10})},
		{Name: "bump", Inputs: 1, Params: lensParams(zoom)},
		{Name: "dent", Inputs: 1, Params: lensParams(zoom)},
		{Name: "stretch", Inputs: 1, Params: lensParams(zoom)},
		{Name: "twirl", Inputs: 1, Params: lensParams(FilterParam{Name: "angle", Min: -3600, Max: 3600, Default: 180})},
		{Name: "mirror", Inputs: 1, Shader: "mirror", Params: params(
			FilterParam{Name: "dx", Min: 0, Max: 1, Default: 0.5},
			FilterParam{Name: "dy", Min: 0, Max: 1, Default: 0.5},
		)},
		{Name: "mask", Inputs: 2, Shader: "mask", Params: offsetParams(FilterParam{Name: "amount", Min: 0, Max: 1, Default: 1})},
		{Name: "bloom", Inputs: 1, Params: params(
			FilterParam{Name: "intensity", Min: 0, Max: 10, Default: 0.5},
			FilterParam{Name: "radius", Min: 0, Max: 100, Default: 10},
		)},
		{Name: "colorize", Inputs: 1, Shader: "colorize"},
		{Name: "desaturate", Inputs: 1, Params: params(FilterParam{Name: "amount", Min: 0, Max: 1, Default: 1})},
		{Name: "invert", Inputs: 1, Shader: "invert"},
		{Name: "distort", Inputs: 1},
		{Name: "dropshadow", Inputs: 1, Params: params(
			FilterParam{Name: "alpha", Min: 0, Max: 1, Default: 0.5},
			FilterParam{Name: "radius", Min: 0, Max: 100, Default: 5},
			FilterParam{Name: "dx", Min: -offsetRange, Max: offsetRange, Default: 5},
			FilterParam{Name: "dy", Min: -offsetRange, Max: offsetRange, Default: -5},
		)},
		{Name: "gradient", Inputs: 0, Params: params(
			FilterParam{Name: "angle", Min: -360, Max: 360},
			FilterParam{Name: "spread", Min: 0, Max: 1},
		)},
	}
	for _, m := range blend.Modes() {
		p := FilterProgram{Name: m.String(), Inputs: 2, Params: offsetParams(FilterParam{Name: "opacity", Min: 0, Max: 1, Default: 1})}
		if m != blend.HueMode {
			p.Shader = "blend"
		}
		progs = append(progs, p)
	}
	reg := make(map[string]FilterProgram, len(progs))
	for _, p := range progs {
		p.Fallback = "cpu"
		reg[p.Name] = p
	}
	return reg
}()

// Filters lists the registered filter programs sorted by name.
func Filters() []FilterProgram {
	out := make([]FilterProgram, 0, len(filterRegistry))
	for _, p := range filterRegistry {
		p.Params = slices.Clone(p.Params)
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b FilterProgram) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// LookupFilter returns the filter program with the given name.
func LookupFilter(name string) (FilterProgram, bool) {
	p, ok := filterRegistry[name]
	if ok {
		p.Params = slices.Clone(p.Params)
	}
	return p, ok
}

// checkParams validates values against the declared ranges of program.
func checkParams(program string, values ...float64) error {
	p, ok := filterRegistry[program]
	if !ok {
		return fmt.Errorf("%w: unknown filter %q", ErrUsage, program)
	}
	for i, v := range values {
		if i >= len(p.Params) {
			break
		}
		d := p.Params[i]
		if math.IsNaN(v) || v < d.Min || v > d.Max {
			return fmt.Errorf("%w: %s %s = %v outside [%v, %v]", ErrUsage, program, d.Name, v, d.Min, d.Max)
		}
	}
	return nil
}

// FilterBackend reports where an eager run of the named filter executes:
// "gpu" when a registered accelerator can run its shader, "cpu" otherwise.
func FilterBackend(name string) string {
	p, ok := filterRegistry[name]
	if !ok || p.Shader == "" {
		return "cpu"
	}
	a := Accelerator()
	if a == nil || !a.CanRun(p.Shader) || shader.Validate(p.Shader) != nil {
		return "cpu"
	}
	return "gpu"
}

// stage is one eager filter run.
type stage struct {
	program string
	srcs    []*image.NRGBA
	w, h    int
	a, b    [4]float32
	// gpuOK is false when the uniforms cannot express this run.
	gpuOK bool
	cpu   func(dst *image.NRGBA)
}

func (s stage) run() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, s.w, s.h))
	if !s.gpu(dst) {
		s.cpu(dst)
	}
	return dst
}

// gpu offers the stage to the accelerator and reports whether it ran.
// Every reason for staying on the CPU is reported once per program.
func (s stage) gpu(dst *image.NRGBA) bool {
	p := filterRegistry[s.program]
	a := Accelerator()
	if a == nil {
		warnOnce("filter-cpu:"+s.program, "sketch: no filter accelerator registered, running filter on CPU", "filter", s.program)
		return false
	}
	if p.Shader == "" {
		warnOnce("filter-cpu:"+s.program, "sketch: filter has no GPU program, running on CPU", "filter", s.program)
		return false
	}
	if err := shader.Validate(p.Shader); err != nil {
		warnOnce("filter-shader:"+p.Shader, "sketch: filter shader does not compile, running on CPU", "filter", s.program, "err", err)
		return false
	}
	if !s.gpuOK || !a.CanRun(p.Shader) {
		warnOnce("filter-cpu:"+s.program, "sketch: accelerator cannot run filter, running on CPU", "filter", s.program, "accelerator", a.Name())
		return false
	}
	job := FilterJob{Program: p.Shader, Dst: dst, A: s.a, B: s.b}
	if len(s.srcs) > 0 {
		job.Src = s.srcs[0]
	}
	if len(s.srcs) > 1 {
		job.Src2 = s.srcs[1]
	}
	if err := a.RunFilter(job); err != nil {
		if errors.Is(err, ErrFallbackToCPU) {
			Logger().Debug("filter fell back to CPU", "filter", s.program)
		} else {
			warnOnce("filter-err:"+s.program, "sketch: accelerator failed, running filter on CPU", "filter", s.program, "err", err)
		}
		return false
	}
	return true
}

func sources(imgs ...*Image) ([]*image.NRGBA, error) {
	out := make([]*image.NRGBA, len(imgs))
	for i, img := range imgs {
		if img == nil {
			return nil, fmt.Errorf("%w: nil image", ErrUsage)
		}
		tex, err := img.texture()
		if err != nil {
			return nil, err
		}
		out[i] = tex
	}
	return out, nil
}

// eager validates the parameters, runs the stage and wraps the result in a
// new Image.
func eager(program string, values []float64, imgs []*Image, build func(srcs []*image.NRGBA) stage) (*Image, error) {
	if err := checkParams(program, values...); err != nil {
		return nil, err
	}
	srcs, err := sources(imgs...)
	if err != nil {
		return nil, err
	}
	s := build(srcs)
	s.program, s.srcs = program, srcs
	if s.w == 0 && len(srcs) > 0 {
		s.w, s.h = srcs[0].Rect.Dx(), srcs[0].Rect.Dy()
	}
	return newImage(s.run()), nil
}

func f32(vs ...float64) [4]float32 {
	var out [4]float32
	for i, v := range vs {
		out[i] = float32(v)
	}
	return out
}

func sameSize(a, b *image.NRGBA) bool {
	return a.Rect.Dx() == b.Rect.Dx() && a.Rect.Dy() == b.Rect.Dy()
}

// Blur returns img blurred with a Gaussian kernel of the given radius in
// pixels.
func Blur(img *Image, radius float64) (*Image, error) {
	return eager("blur", []float64{radius}, []*Image{img}, func(srcs []*image.NRGBA) stage {
		return stage{a: f32(radius), gpuOK: true, cpu: func(dst *image.NRGBA) { filter.Blur(dst, srcs[0], radius) }}
	})
}

func lens(program string, img *Image, dx, dy, radius, amount float64, fn func(dst, src *image.NRGBA, dx, dy, radius, amount float64)) (*Image, error) {
	return eager(program, []float64{dx, dy, radius, amount}, []*Image{img}, func(srcs []*image.NRGBA) stage {
		return stage{cpu: func(dst *image.NRGBA) { fn(dst, srcs[0], dx, dy, radius, amount) }}
	})
}

// Bump magnifies the region around (dx, dy), given as fractions of the
// image size. radius is relative to the shorter side; zoom in [0,1].
func Bump(img *Image, dx, dy, radius, zoom float64) (*Image, error) {
	return lens("bump", img, dx, dy, radius, zoom, filter.Bump)
}

// Dent pinches the region around (dx, dy) inward.
func Dent(img *Image, dx, dy, radius, zoom float64) (*Image, error) {
	return lens("dent", img, dx, dy, radius, zoom, filter.Dent)
}

// Stretch magnifies the region around (dx, dy) with a cone-shaped lens.
func Stretch(img *Image, dx, dy, radius, zoom float64) (*Image, error) {
	return lens("stretch", img, dx, dy, radius, zoom, filter.Stretch)
}

// Twirl rotates the region around (dx, dy) by angle degrees at the center,
// fading out at the radius.
func Twirl(img *Image, dx, dy, radius, angle float64) (*Image, error) {
	return lens("twirl", img, dx, dy, radius, angle, filter.Twirl)
}

// Mirror reflects img about the vertical axis at dx (horizontal) and/or
// the horizontal axis at dy (vertical), given as fractions of the size,
// wrapping around the edges. Mirroring twice restores the image.
func Mirror(img *Image, dx, dy float64, horizontal, vertical bool) (*Image, error) {
	return eager("mirror", []float64{dx, dy}, []*Image{img}, func(srcs []*image.NRGBA) stage {
		return stage{
			a:     f32(dx, dy, b2f(horizontal), b2f(vertical)),
			gpuOK: true,
			cpu:   func(dst *image.NRGBA) { filter.Mirror(dst, srcs[0], dx, dy, horizontal, vertical) },
		}
	})
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Mask uses the luminance of mask, offset by (dx, dy) pixels, as the alpha
// of img, mixed in by amount.
func Mask(img, mask *Image, amount, dx, dy float64) (*Image, error) {
	return eager("mask", []float64{amount, dx, dy}, []*Image{img, mask}, func(srcs []*image.NRGBA) stage {
		return stage{
			a:     f32(dx, dy, amount),
			gpuOK: sameSize(srcs[0], srcs[1]),
			cpu:   func(dst *image.NRGBA) { filter.Mask(dst, srcs[0], srcs[1], amount, dx, dy) },
		}
	})
}

// Blend mixes top, offset by (dx, dy) pixels, onto base with the named
// blend mode: multiply, screen, overlay, add, subtract, darken, lighten or
// hue.
func Blend(mode string, base, top *Image, opacity, dx, dy float64) (*Image, error) {
	m, ok := blend.ParseMode(mode)
	if !ok {
		return nil, fmt.Errorf("%w: unknown blend mode %q", ErrUsage, mode)
	}
	return eager(mode, []float64{opacity, dx, dy}, []*Image{base, top}, func(srcs []*image.NRGBA) stage {
		return stage{
			a:     f32(dx, dy, opacity),
			b:     f32(float64(m)),
			gpuOK: sameSize(srcs[0], srcs[1]),
			cpu:   func(dst *image.NRGBA) { filter.Blend(dst, srcs[0], srcs[1], m, opacity, dx, dy) },
		}
	})
}

// Multiply blends top onto base with the multiply mode.
func Multiply(base, top *Image, opacity, dx, dy float64) (*Image, error) {
	return Blend("multiply", base, top, opacity, dx, dy)
}

// Screen blends top onto base with the screen mode.
func Screen(base, top *Image, opacity, dx, dy float64) (*Image, error) {
	return Blend("screen", base, top, opacity, dx, dy)
}

// Overlay blends top onto base with the overlay mode.
func Overlay(base, top *Image, opacity, dx, dy float64) (*Image, error) {
	return Blend("overlay", base, top, opacity, dx, dy)
}

// Add blends top onto base by adding the colors.
func Add(base, top *Image, opacity, dx, dy float64) (*Image, error) {
	return Blend("add", base, top, opacity, dx, dy)
}

// Subtract blends top onto base with linear burn.
func Subtract(base, top *Image, opacity, dx, dy float64) (*Image, error) {
	return Blend("subtract", base, top, opacity, dx, dy)
}

// Darken keeps the darker of each color component.
func Darken(base, top *Image, opacity, dx, dy float64) (*Image, error) {
	return Blend("darken", base, top, opacity, dx, dy)
}

// Lighten keeps the lighter of each color component.
func Lighten(base, top *Image, opacity, dx, dy float64) (*Image, error) {
	return Blend("lighten", base, top, opacity, dx, dy)
}

// Hue takes the hue of top with the saturation and luminosity of base.
func Hue(base, top *Image, opacity, dx, dy float64) (*Image, error) {
	return Blend("hue", base, top, opacity, dx, dy)
}

// Bloom adds a blurred copy of img to itself, scaled by intensity.
func Bloom(img *Image, intensity, radius float64) (*Image, error) {
	return eager("bloom", []float64{intensity, radius}, []*Image{img}, func(srcs []*image.NRGBA) stage {
		return stage{cpu: func(dst *image.NRGBA) { filter.Bloom(dst, srcs[0], intensity, radius) }}
	})
}

// Colorize multiplies the colors of img by color and adds bias.
func Colorize(img *Image, color, bias Color) (*Image, error) {
	cc, bc := color.clamped().raster(), bias.clamped().raster()
	return eager("colorize", nil, []*Image{img}, func(srcs []*image.NRGBA) stage {
		return stage{
			a:     f32(cc.R, cc.G, cc.B, cc.A),
			b:     f32(bc.R, bc.G, bc.B, bc.A),
			gpuOK: true,
			cpu:   func(dst *image.NRGBA) { filter.Colorize(dst, srcs[0], cc, bc) },
		}
	})
}

// Desaturate removes amount of the saturation of img.
func Desaturate(img *Image, amount float64) (*Image, error) {
	return eager("desaturate", []float64{amount}, []*Image{img}, func(srcs []*image.NRGBA) stage {
		return stage{cpu: func(dst *image.NRGBA) { filter.Desaturate(dst, srcs[0], amount) }}
	})
}

// Invert inverts the colors of img, keeping alpha. Inverting twice
// restores the image.
func Invert(img *Image) (*Image, error) {
	return eager("invert", nil, []*Image{img}, func(srcs []*image.NRGBA) stage {
		return stage{gpuOK: true, cpu: func(dst *image.NRGBA) { filter.Invert(dst, srcs[0]) }}
	})
}

// Distort draws img with its corners displaced by q.
func Distort(img *Image, q Quad) (*Image, error) {
	return eager("distort", nil, []*Image{img}, func(srcs []*image.NRGBA) stage {
		return stage{cpu: func(dst *image.NRGBA) { filter.Distort(dst, srcs[0], q.filter()) }}
	})
}

// DropShadow returns a blurred, darkened silhouette of img offset by
// (dx, dy) pixels, composited under img.
func DropShadow(img *Image, alpha, radius, dx, dy float64) (*Image, error) {
	return eager("dropshadow", []float64{alpha, radius, dx, dy}, []*Image{img}, func(srcs []*image.NRGBA) stage {
		return stage{cpu: func(dst *image.NRGBA) { filter.DropShadow(dst, srcs[0], alpha, radius, dx, dy) }}
	})
}

// GradientKind selects linear or radial gradients.
type GradientKind = filter.GradientKind

// Gradient kinds.
const (
	LinearGradient = filter.Linear
	RadialGradient = filter.Radial
)

// Gradient renders a w x h gradient from c1 to c2. angle in degrees sets
// the direction of linear gradients; spread in [0,1] narrows the
// transition band.
func Gradient(w, h int, c1, c2 Color, kind GradientKind, angle, spread float64) (*Image, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: gradient size %dx%d", ErrUsage, w, h)
	}
	a, b := c1.clamped().raster(), c2.clamped().raster()
	return eager("gradient", []float64{angle, spread}, nil, func([]*image.NRGBA) stage {
		return stage{w: w, h: h, cpu: func(dst *image.NRGBA) { filter.Gradient(dst, a, b, kind, angle, spread) }}
	})
}

// Stage is one step of a Chain.
type Stage func(*Image) (*Image, error)

// Chain applies stages in order. The result equals nesting the calls;
// intermediate images are destroyed.
//
// Example:
//
//	out, err := sketch.Chain(img,
//	    func(i *sketch.Image) (*sketch.Image, error) { return sketch.Blur(i, 4) },
//	    sketch.Invert,
//	)
func Chain(img *Image, stages ...Stage) (*Image, error) {
	cur := img
	for i, s := range stages {
		next, err := s(cur)
		if cur != img {
			cur.Destroy()
		}
		if err != nil {
			return nil, fmt.Errorf("chain stage %d: %w", i, err)
		}
		cur = next
	}
	if cur == img {
		return NewImage(img)
	}
	return cur, nil
}
