package gui

import (
	"fmt"

	"github.com/gogpu/sketch"
)

// layouter is a control that positions its children.
type layouter interface {
	layout()
}

// stack arranges child controls in a line and sizes the container to fit.
type stack struct {
	base
	spacing  float64
	vertical bool
	// inset is the margin between the children and the container edges;
	// top is extra room above the first child.
	inset, top float64
}

// Append adds controls to the container and lays them out.
func (s *stack) Append(ctrls ...Control) error {
	for _, c := range ctrls {
		if c == nil {
			return fmt.Errorf("%w: gui: nil control", sketch.ErrUsage)
		}
		if err := s.layer.Append(c.Layer()); err != nil {
			return err
		}
	}
	s.layout()
	return nil
}

// Controls returns the child controls in order.
func (s *stack) Controls() []Control {
	children := s.layer.Children()
	out := make([]Control, 0, len(children))
	for _, l := range children {
		if c, ok := l.Behavior().(Control); ok {
			out = append(out, c)
		}
	}
	return out
}

// Value returns the values of the child controls in order.
func (s *stack) Value() []any {
	ctrls := s.Controls()
	out := make([]any, len(ctrls))
	for i, c := range ctrls {
		out[i] = c.anyValue()
	}
	return out
}

func (s *stack) anyValue() any { return s.Value() }

func (s *stack) layout() {
	ctrls := s.Controls()
	var along, across float64
	for i, c := range ctrls {
		if lo, ok := c.(layouter); ok {
			lo.layout()
		}
		l := c.Layer()
		w, h := l.Width(), l.Height()
		if s.vertical {
			w, h = h, w
		}
		if i > 0 {
			along += s.spacing
		}
		along += w
		across = max(across, h)
	}
	if s.vertical {
		s.layer.SetWidth(across + 2*s.inset)
		s.layer.SetHeight(along + 2*s.inset + s.top)
	} else {
		s.layer.SetWidth(along + 2*s.inset)
		s.layer.SetHeight(across + 2*s.inset + s.top)
	}

	pos := s.inset
	for _, c := range ctrls {
		l := c.Layer()
		if s.vertical {
			// First child at the top; y is up.
			pos += l.Height()
			l.SetX(s.inset)
			l.SetY(s.layer.Height() - s.top - pos)
			pos += s.spacing
			continue
		}
		l.SetX(pos)
		l.SetY(s.inset + (across-l.Height())/2)
		pos += l.Width() + s.spacing
	}
}

func (s *stack) Update(*sketch.Layer, *sketch.Canvas) error {
	s.layout()
	return nil
}

func (s *stack) Draw(*sketch.Layer, *sketch.Canvas) error { return nil }

// Row lays out controls left to right.
type Row struct{ stack }

// NewRow creates an empty row with spacing pixels between controls.
func NewRow(spacing float64) *Row {
	r := &Row{stack{spacing: spacing}}
	r.init(r, "row", 0, 0)
	return r
}

// Rows lays out controls top to bottom.
type Rows struct{ stack }

// NewRows creates an empty column with spacing pixels between controls.
func NewRows(spacing float64) *Rows {
	r := &Rows{stack{spacing: spacing, vertical: true}}
	r.init(r, "rows", 0, 0)
	return r
}

// Panel is a titled container that stacks controls top to bottom. It can
// be moved by dragging its title bar.
type Panel struct {
	stack
	title    string
	dragging bool
}

// NewPanel creates an empty panel at (x, y).
func NewPanel(title string, x, y float64) *Panel {
	p := &Panel{title: title}
	p.stack = stack{
		spacing:  DefaultTheme.Padding / 2,
		vertical: true,
		inset:    DefaultTheme.Padding,
		top:      DefaultTheme.Height,
	}
	p.init(p, "panel", 0, 0)
	p.SetPosition(x, y)
	p.layout()
	return p
}

// Title returns the panel title.
func (p *Panel) Title() string { return p.title }

func (p *Panel) Draw(l *sketch.Layer, c *sketch.Canvas) error {
	w, h := l.Width(), l.Height()
	if err := c.Rect(0, 0, w, h,
		sketch.WithFill(p.theme.Background),
		sketch.WithStroke(p.theme.Border),
		sketch.WithStrokeWidth(1),
	); err != nil {
		return err
	}
	if err := c.Rect(0, h-p.top, w, p.top, sketch.WithFill(p.theme.Face), sketch.WithNoStroke()); err != nil {
		return err
	}
	return c.Scoped(func() error {
		c.Translate(0, h-p.top)
		return p.theme.label(c, p.title, p.theme.Padding, p.top)
	})
}

func (p *Panel) inTitle(l *sketch.Layer, e sketch.PointerEvent) bool {
	return e.LocalY >= l.Height()-p.top
}

func (p *Panel) OnMousePress(l *sketch.Layer, e sketch.PointerEvent) error {
	p.dragging = p.inTitle(l, e)
	return nil
}

func (p *Panel) OnMouseDrag(l *sketch.Layer, e sketch.PointerEvent) error {
	if p.dragging {
		l.SetX(l.X() + e.DX)
		l.SetY(l.Y() + e.DY)
	}
	return nil
}

func (p *Panel) OnMouseRelease(*sketch.Layer, sketch.PointerEvent) error {
	p.dragging = false
	return nil
}
