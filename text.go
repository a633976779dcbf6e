package sketch

import (
	"errors"
	"fmt"

	"github.com/gogpu/sketch/text"
)

// Text is a string with typographic properties. Its layout is computed on
// first use and cached until a property changes.
type Text struct {
	str   string
	style text.Style
	fill  Color
	wrap  float64
	spans []text.Span
	fonts *text.Registry

	layout *text.Layout
	err    error
}

// NewText creates a text set in the default font, black, at the default
// size. opts override the font properties and the fill.
func NewText(s string, opts ...DrawOption) *Text {
	t := &Text{
		str: s,
		style: text.Style{
			Family:     text.DefaultFamily,
			Size:       text.DefaultSize,
			Weight:     text.Normal,
			LineHeight: text.DefaultLineHeight,
			Align:      text.Left,
		},
		fill:  Black,
		fonts: text.Default(),
	}
	t.apply(collectDrawOptions(opts))
	return t
}

func (t *Text) apply(o drawOptions) {
	t.style = styleWith(t.style, o)
	t.style.Fill = nil
	if o.fill != nil {
		t.fill = *o.fill
	}
	if o.wrap > 0 {
		t.wrap = o.wrap
	}
	t.invalidate()
}

// styleWith returns s with the font options of o applied.
func styleWith(s text.Style, o drawOptions) text.Style {
	if o.font != nil {
		s.Family = *o.font
	}
	if o.fontSize != nil && *o.fontSize > 0 {
		s.Size = *o.fontSize
	}
	if o.fontWeight != nil {
		s.Weight = *o.fontWeight
	}
	if o.italic != nil {
		s.Italic = *o.italic
	}
	if o.lineHeight != nil && *o.lineHeight > 0 {
		s.LineHeight = *o.lineHeight
	}
	if o.align != nil {
		s.Align = *o.align
	}
	if o.fill != nil {
		s.Fill = o.fill.NRGBA()
	}
	return s
}

func (t *Text) invalidate() {
	t.layout = nil
	t.err = nil
}

// String returns the text.
func (t *Text) String() string { return t.str }

// SetString replaces the text and drops the spans.
func (t *Text) SetString(s string) {
	t.str = s
	t.spans = nil
	t.invalidate()
}

// SetFont sets the font family.
func (t *Text) SetFont(family string) { t.style.Family = family; t.invalidate() }

// SetFontSize sets the size in pixels per em.
func (t *Text) SetFontSize(size float64) {
	if size > 0 {
		t.style.Size = size
		t.invalidate()
	}
}

// SetFontWeight sets the weight.
func (t *Text) SetFontWeight(w text.Weight) { t.style.Weight = w; t.invalidate() }

// SetItalic selects the italic variant.
func (t *Text) SetItalic(on bool) { t.style.Italic = on; t.invalidate() }

// SetLineHeight sets the line advance as a multiple of the size.
func (t *Text) SetLineHeight(lh float64) { t.style.LineHeight = lh; t.invalidate() }

// SetAlign sets the alignment of lines within the wrap width.
func (t *Text) SetAlign(a text.Align) { t.style.Align = a; t.invalidate() }

// SetFill sets the color of glyphs not restyled by a span.
func (t *Text) SetFill(c Color) { t.fill = c.clamped(); t.invalidate() }

// SetWidth wraps lines at w pixels. Zero disables wrapping.
func (t *Text) SetWidth(w float64) { t.wrap = max(w, 0); t.invalidate() }

// SetFonts selects the registry fonts are looked up in.
func (t *Text) SetFonts(r *text.Registry) {
	if r != nil {
		t.fonts = r
		t.invalidate()
	}
}

// Style returns the base style.
func (t *Text) Style() text.Style { return t.style }

// Span restyles runes [start, end) with opts applied to the base style.
// Later spans win where they overlap.
func (t *Text) Span(start, end int, opts ...DrawOption) {
	t.spans = append(t.spans, text.Span{Start: start, End: end, Style: styleWith(t.style, collectDrawOptions(opts))})
	t.invalidate()
}

// ClearSpans removes every span.
func (t *Text) ClearSpans() { t.spans = nil; t.invalidate() }

// Layout returns the cached layout. A missing font falls back to the
// default family; the error wraps ErrResource and text.ErrFontNotFound.
func (t *Text) Layout() (*text.Layout, error) {
	if t.layout == nil {
		st := t.style
		st.Fill = t.fill.NRGBA()
		l, err := t.fonts.Layout(t.str, st, t.spans, t.wrap)
		if err != nil {
			if l == nil {
				return nil, fmt.Errorf("%w: %w", ErrResource, err)
			}
			t.err = fmt.Errorf("%w: %w", ErrResource, err)
		}
		t.layout = l
	}
	return t.layout, t.err
}

// Err returns the font error of the last layout.
func (t *Text) Err() error { return t.err }

// Width returns the width of the widest line.
func (t *Text) Width() float64 {
	l, _ := t.Layout()
	if l == nil {
		return 0
	}
	return l.Width
}

// Height returns the sum of the line advances.
func (t *Text) Height() float64 {
	l, _ := t.Layout()
	if l == nil {
		return 0
	}
	return l.Height
}

// Metrics returns the layout metrics.
func (t *Text) Metrics() text.LayoutMetrics {
	l, _ := t.Layout()
	if l == nil {
		return text.LayoutMetrics{}
	}
	return l.Metrics()
}

// fillRun is the outline of every glyph sharing one fill color.
type fillRun struct {
	fill Color
	path *Path
}

// runs converts the glyph outlines to paths grouped by fill, with the
// first baseline at y = 0 and y up.
func (t *Text) runs() ([]fillRun, error) {
	l, err := t.Layout()
	if l == nil {
		return nil, err
	}
	var base float64
	if len(l.Lines) > 0 {
		base = l.Lines[0].Baseline
	}
	var out []fillRun
	index := make(map[Color]int)
	for _, ln := range l.Lines {
		for _, g := range ln.Glyphs {
			segs, oerr := g.Font.Outline(g.ID, g.Size)
			if oerr != nil {
				err = errors.Join(err, fmt.Errorf("%w: %w", ErrResource, oerr))
				continue
			}
			if len(segs) == 0 {
				continue
			}
			fill := t.fill
			if g.Fill != nil {
				fill = FromColor(g.Fill)
			}
			i, ok := index[fill]
			if !ok {
				i = len(out)
				index[fill] = i
				out = append(out, fillRun{fill: fill, path: NewPath()})
			}
			appendOutline(out[i].path, segs, g.X, g.Y-base)
		}
	}
	return out, err
}

// appendOutline adds a y-down glyph outline at (ox, oy) to p, flipping it
// to y up. Quadratic segments are raised to cubics.
func appendOutline(p *Path, segs []text.Segment, ox, oy float64) {
	at := func(q text.Point) Point { return Point{X: ox + q.X, Y: -(oy + q.Y)} }
	var cur Point
	open := false
	for _, s := range segs {
		switch s.Op {
		case text.OpMoveTo:
			if open {
				p.Close()
			}
			cur = at(s.Args[0])
			p.MoveTo(cur.X, cur.Y)
			open = true
		case text.OpLineTo:
			cur = at(s.Args[0])
			p.LineTo(cur.X, cur.Y)
		case text.OpQuadTo:
			q, end := at(s.Args[0]), at(s.Args[1])
			c1 := cur.Add(q.Sub(cur).Mul(2.0 / 3))
			c2 := end.Add(q.Sub(end).Mul(2.0 / 3))
			p.CurveTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
			cur = end
		case text.OpCubeTo:
			c1, c2, end := at(s.Args[0]), at(s.Args[1]), at(s.Args[2])
			p.CurveTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
			cur = end
		}
	}
	if open {
		p.Close()
	}
}

// Path returns the glyph outlines as one path with the first baseline at
// y = 0.
func (t *Text) Path() (*Path, error) {
	runs, err := t.runs()
	p := NewPath()
	for _, r := range runs {
		p.Append(r.path)
	}
	return p, err
}

// Draw fills the text on c with the first baseline starting at (x, y).
// A missing font is reported once and drawn with the fallback font.
func (t *Text) Draw(c *Canvas, x, y float64) error {
	if err := c.checkDrawing(); err != nil {
		return err
	}
	runs, err := t.runs()
	if err != nil && !reportFont(t.style.Family, err) {
		err = nil
	}
	if len(runs) == 0 {
		return err
	}
	depth := c.stacks.depth()
	c.Push()
	defer c.stacks.truncate(depth)
	c.Translate(x, y)
	for _, r := range runs {
		if derr := c.drawPath(r.path, drawOptions{fill: &r.fill, noStroke: true}); derr != nil {
			return derr
		}
	}
	return err
}

// reportFont logs a font failure once per family and reports whether this
// was the first time.
func reportFont(family string, err error) bool {
	return warnOnce("font:"+family, "sketch: font unavailable, using fallback", "family", family, "err", err)
}

// newCanvasText builds a Text from the current state and opts.
func (c *Canvas) newCanvasText(s string, opts []DrawOption) *Text {
	st := c.stacks.state()
	t := &Text{
		str: s,
		style: text.Style{
			Family:     st.FontName,
			Size:       st.FontSize,
			Weight:     st.FontWeight,
			Italic:     st.Italic,
			LineHeight: st.LineHeight,
			Align:      st.Align,
		},
		fill:  st.Fill,
		fonts: c.fonts,
	}
	if st.NoFill {
		t.fill = Transparent
	}
	t.apply(collectDrawOptions(opts))
	return t
}

// Text draws s with its first baseline starting at (x, y), using the font
// and fill of the state. WithWrap wraps lines.
func (c *Canvas) Text(s string, x, y float64, opts ...DrawOption) error {
	return c.newCanvasText(s, opts).Draw(c, x, y)
}

// TextWidth returns the width s would have when drawn.
func (c *Canvas) TextWidth(s string, opts ...DrawOption) float64 {
	return c.newCanvasText(s, opts).Width()
}

// TextHeight returns the height s would have when drawn.
func (c *Canvas) TextHeight(s string, opts ...DrawOption) float64 {
	return c.newCanvasText(s, opts).Height()
}

// TextMetrics returns the layout metrics of s.
func (c *Canvas) TextMetrics(s string, opts ...DrawOption) text.LayoutMetrics {
	return c.newCanvasText(s, opts).Metrics()
}

// TextPath returns the outlines of s with the first baseline starting at
// (x, y).
func (c *Canvas) TextPath(s string, x, y float64, opts ...DrawOption) (*Path, error) {
	p, err := c.newCanvasText(s, opts).Path()
	if p == nil {
		return nil, err
	}
	return p.Transformed(Translate(x, y)), err
}
