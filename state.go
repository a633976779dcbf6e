package sketch

import (
	"fmt"

	"github.com/gogpu/sketch/text"
)

// GraphicsState holds the presentation properties consulted by every
// drawing primitive.
type GraphicsState struct {
	Fill        Color
	Stroke      Color
	NoFill      bool
	NoStroke    bool
	StrokeWidth float64

	FontName   string
	FontSize   float64
	FontWeight text.Weight
	Italic     bool
	LineHeight float64
	Align      text.Align

	// Alpha multiplies the alpha of everything drawn.
	Alpha float64
}

// DefaultGraphicsState returns the sentinel state: black fill, no stroke,
// 1px stroke width, the default font at 24px, alpha 1.
func DefaultGraphicsState() GraphicsState {
	return GraphicsState{
		Fill:        Black,
		Stroke:      Black,
		NoStroke:    true,
		StrokeWidth: 1,
		FontName:    text.DefaultFamily,
		FontSize:    text.DefaultSize,
		FontWeight:  text.Normal,
		LineHeight:  text.DefaultLineHeight,
		Align:       text.Left,
		Alpha:       1,
	}
}

// stacks holds the graphics state and transform stacks. Both always hold
// the sentinel entry at index 0.
type stacks struct {
	states     []GraphicsState
	transforms []Transform
}

func newStacks() stacks {
	return stacks{
		states:     []GraphicsState{DefaultGraphicsState()},
		transforms: []Transform{Identity()},
	}
}

func (s *stacks) push() {
	s.states = append(s.states, s.states[len(s.states)-1])
	s.transforms = append(s.transforms, s.transforms[len(s.transforms)-1])
}

func (s *stacks) pop() error {
	if len(s.states) <= 1 {
		return fmt.Errorf("%w: pop without matching push", ErrUsage)
	}
	s.states = s.states[:len(s.states)-1]
	s.transforms = s.transforms[:len(s.transforms)-1]
	return nil
}

func (s *stacks) depth() int { return len(s.states) - 1 }

// truncate restores the stacks to depth d.
func (s *stacks) truncate(d int) {
	if d < 0 {
		d = 0
	}
	if len(s.states) > d+1 {
		s.states = s.states[:d+1]
		s.transforms = s.transforms[:d+1]
	}
}

func (s *stacks) reset() {
	s.truncate(0)
	s.states[0] = DefaultGraphicsState()
	s.transforms[0] = Identity()
}

func (s *stacks) state() *GraphicsState { return &s.states[len(s.states)-1] }

func (s *stacks) transform() *Transform { return &s.transforms[len(s.transforms)-1] }

// Push saves the graphics state and the transform.
func (c *Canvas) Push() { c.stacks.push() }

// Pop restores the graphics state and transform saved by the matching
// Push. Popping past the bottom of the stack returns an error wrapping
// ErrUsage and leaves the stacks untouched.
func (c *Canvas) Pop() error {
	if err := c.stacks.pop(); err != nil {
		c.report(err)
		return err
	}
	return nil
}

// Scoped runs fn between Push and Pop. The state is restored on every exit
// path, including a panic in fn.
//
// Example:
//
//	c.Scoped(func() error {
//	    c.Translate(100, 100)
//	    c.Rotate(45)
//	    return c.Rect(-10, -10, 20, 20)
//	})
func (c *Canvas) Scoped(fn func() error) error {
	depth := c.stacks.depth()
	c.Push()
	defer c.stacks.truncate(depth)
	return fn()
}

// StackDepth returns the number of pushes not yet popped.
func (c *Canvas) StackDepth() int { return c.stacks.depth() }

// State returns a copy of the current graphics state.
func (c *Canvas) State() GraphicsState { return *c.stacks.state() }

// CurrentTransform returns the current transform.
func (c *Canvas) CurrentTransform() Transform { return *c.stacks.transform() }

// SetTransform replaces the current transform.
func (c *Canvas) SetTransform(m Transform) { *c.stacks.transform() = m }

// Translate moves the origin by (x, y).
func (c *Canvas) Translate(x, y float64) {
	t := c.stacks.transform()
	*t = t.Multiply(Translate(x, y))
}

// Rotate rotates by angle degrees counterclockwise.
func (c *Canvas) Rotate(angle float64) {
	t := c.stacks.transform()
	*t = t.Multiply(Rotate(Radians(angle)))
}

// Scale scales by (sx, sy). With one argument both axes scale equally.
func (c *Canvas) Scale(sx float64, sy ...float64) {
	y := sx
	if len(sy) > 0 {
		y = sy[0]
	}
	t := c.stacks.transform()
	*t = t.Multiply(Scale(sx, y))
}

// Skew shears by kx and ky degrees.
func (c *Canvas) Skew(kx, ky float64) {
	t := c.stacks.transform()
	*t = t.Multiply(Skew(Radians(kx), Radians(ky)))
}

// Reset sets the current transform to the identity.
func (c *Canvas) Reset() { *c.stacks.transform() = Identity() }

// Fill sets the fill color.
func (c *Canvas) Fill(col Color) {
	s := c.stacks.state()
	s.Fill, s.NoFill = col.clamped(), false
}

// NoFill disables filling.
func (c *Canvas) NoFill() { c.stacks.state().NoFill = true }

// Stroke sets the stroke color.
func (c *Canvas) Stroke(col Color) {
	s := c.stacks.state()
	s.Stroke, s.NoStroke = col.clamped(), false
}

// NoStroke disables stroking.
func (c *Canvas) NoStroke() { c.stacks.state().NoStroke = true }

// StrokeWidth sets the stroke width. Negative widths are treated as 0.
func (c *Canvas) StrokeWidth(w float64) { c.stacks.state().StrokeWidth = max(w, 0) }

// Alpha sets the global alpha multiplier.
func (c *Canvas) Alpha(a float64) { c.stacks.state().Alpha = clamp01(a) }

// Font sets the font family.
func (c *Canvas) Font(family string) { c.stacks.state().FontName = family }

// FontSize sets the font size in pixels.
func (c *Canvas) FontSize(size float64) {
	if size <= 0 {
		c.report(fmt.Errorf("%w: font size %v", ErrUsage, size))
		return
	}
	c.stacks.state().FontSize = size
}

// FontWeight sets the font weight.
func (c *Canvas) FontWeight(w text.Weight) { c.stacks.state().FontWeight = w }

// Italic selects the italic variant.
func (c *Canvas) Italic(on bool) { c.stacks.state().Italic = on }

// LineHeight sets the line height multiplier.
func (c *Canvas) LineHeight(lh float64) { c.stacks.state().LineHeight = lh }

// Align sets the text alignment.
func (c *Canvas) Align(a text.Align) { c.stacks.state().Align = a }

// resolved is the style of one drawing call after options are applied.
type resolved struct {
	fill, stroke *Color
	strokeWidth  float64
	alpha        float64
}

// resolve combines the state with per-call options and per-path overrides.
// Options win over the path, the path wins over the state.
func (c *Canvas) resolve(p *Path, o drawOptions) resolved {
	s := c.stacks.state()
	r := resolved{strokeWidth: s.StrokeWidth, alpha: s.Alpha}
	if !s.NoFill {
		f := s.Fill
		r.fill = &f
	}
	if !s.NoStroke {
		k := s.Stroke
		r.stroke = &k
	}
	if p != nil {
		if p.fill != nil {
			f := *p.fill
			r.fill = &f
		}
		if p.stroke != nil {
			k := *p.stroke
			r.stroke = &k
		}
		if p.strokeWidth != nil {
			r.strokeWidth = *p.strokeWidth
		}
	}
	switch {
	case o.noFill:
		r.fill = nil
	case o.fill != nil:
		r.fill = o.fill
	}
	switch {
	case o.noStroke:
		r.stroke = nil
	case o.stroke != nil:
		r.stroke = o.stroke
	}
	if o.strokeWidth != nil {
		r.strokeWidth = *o.strokeWidth
	}
	if o.alpha != nil {
		r.alpha *= *o.alpha
	}
	return r
}
