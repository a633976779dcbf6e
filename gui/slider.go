package gui

import (
	"math"

	"github.com/gogpu/sketch"
)

// Slider picks a value in [min, max] by dragging a handle along a track.
// When focused, the left and right keys step by one percent of the range.
type Slider struct {
	base
	min, max, value float64
}

// NewSlider creates a horizontal slider w pixels wide.
func NewSlider(lo, hi, value, w float64) *Slider {
	if hi < lo {
		lo, hi = hi, lo
	}
	s := &Slider{min: lo, max: hi, value: clamp(value, lo, hi)}
	s.init(s, "slider", w, DefaultTheme.Height)
	return s
}

// Value returns the current value.
func (s *Slider) Value() float64 { return s.value }

// Range returns the bounds of the value.
func (s *Slider) Range() (lo, hi float64) { return s.min, s.max }

// SetValue moves the handle without running the action. v is clamped.
func (s *Slider) SetValue(v float64) { s.value = clamp(v, s.min, s.max) }

func (s *Slider) anyValue() any { return s.value }

// fraction returns the value position along the track in [0, 1].
func (s *Slider) fraction() float64 {
	if s.max == s.min {
		return 0
	}
	return (s.value - s.min) / (s.max - s.min)
}

func (s *Slider) Draw(l *sketch.Layer, c *sketch.Canvas) error {
	w, h := l.Width(), l.Height()
	if err := s.theme.face(c, 0, h/2-2, w, 4, s.theme.Face); err != nil {
		return err
	}
	if err := c.Rect(0, h/2-2, w*s.fraction(), 4, sketch.WithFill(s.theme.Accent), sketch.WithNoStroke()); err != nil {
		return err
	}
	d := h * 0.7
	x := clamp(w*s.fraction()-d/2, 0, w-d)
	return c.Ellipse(x, (h-d)/2, d, d,
		sketch.WithFill(s.theme.Face),
		sketch.WithStroke(s.theme.Border),
		sketch.WithStrokeWidth(1),
	)
}

func (s *Slider) set(v float64) error {
	v = clamp(v, s.min, s.max)
	if v == s.value {
		return nil
	}
	s.value = v
	return s.fire()
}

func (s *Slider) track(l *sketch.Layer, e sketch.PointerEvent) error {
	w := l.Width()
	if w <= 0 {
		return nil
	}
	return s.set(s.min + clamp(e.LocalX/w, 0, 1)*(s.max-s.min))
}

func (s *Slider) OnMousePress(l *sketch.Layer, e sketch.PointerEvent) error { return s.track(l, e) }

func (s *Slider) OnMouseDrag(l *sketch.Layer, e sketch.PointerEvent) error { return s.track(l, e) }

func (s *Slider) OnKeyPress(_ *sketch.Layer, e sketch.KeyboardEvent) error {
	step := (s.max - s.min) / 100
	switch e.Key {
	case sketch.KeyLeft, sketch.KeyDown:
		return s.set(s.value - step)
	case sketch.KeyRight, sketch.KeyUp:
		return s.set(s.value + step)
	case sketch.KeyHome:
		return s.set(s.min)
	case sketch.KeyEnd:
		return s.set(s.max)
	}
	return nil
}

// Knob sweep in degrees either side of twelve o'clock.
const knobSweep = 135

// Knob picks a value in [min, max] by rotating a dial. The pointer angle
// around the center maps linearly onto the range across a 270 degree
// sweep with min at seven o'clock.
type Knob struct {
	base
	min, max, value float64
}

// NewKnob creates a knob size pixels across.
func NewKnob(lo, hi, value, size float64) *Knob {
	if hi < lo {
		lo, hi = hi, lo
	}
	k := &Knob{min: lo, max: hi, value: clamp(value, lo, hi)}
	k.init(k, "knob", size, size)
	return k
}

// Value returns the current value.
func (k *Knob) Value() float64 { return k.value }

// SetValue turns the dial without running the action. v is clamped.
func (k *Knob) SetValue(v float64) { k.value = clamp(v, k.min, k.max) }

func (k *Knob) anyValue() any { return k.value }

// Angle returns the dial angle in degrees clockwise from twelve o'clock.
func (k *Knob) Angle() float64 {
	if k.max == k.min {
		return -knobSweep
	}
	return -knobSweep + 2*knobSweep*(k.value-k.min)/(k.max-k.min)
}

func (k *Knob) Draw(l *sketch.Layer, c *sketch.Canvas) error {
	d := min(l.Width(), l.Height())
	if err := c.Ellipse(0, 0, d, d,
		sketch.WithFill(k.theme.Face),
		sketch.WithStroke(k.theme.Border),
		sketch.WithStrokeWidth(1),
	); err != nil {
		return err
	}
	r := d / 2
	a := k.Angle() * math.Pi / 180
	// y is up: twelve o'clock is +y, clockwise is +x.
	return c.Line(r, r, r+math.Sin(a)*r*0.8, r+math.Cos(a)*r*0.8,
		sketch.WithStroke(k.theme.Accent),
		sketch.WithStrokeWidth(2),
	)
}

func (k *Knob) turn(l *sketch.Layer, e sketch.PointerEvent) error {
	r := min(l.Width(), l.Height()) / 2
	dx, dy := e.LocalX-r, e.LocalY-r
	if dx == 0 && dy == 0 {
		return nil
	}
	deg := clamp(math.Atan2(dx, dy)*180/math.Pi, -knobSweep, knobSweep)
	v := k.min + (deg+knobSweep)/(2*knobSweep)*(k.max-k.min)
	if v == k.value {
		return nil
	}
	k.value = v
	return k.fire()
}

func (k *Knob) OnMousePress(l *sketch.Layer, e sketch.PointerEvent) error { return k.turn(l, e) }

func (k *Knob) OnMouseDrag(l *sketch.Layer, e sketch.PointerEvent) error { return k.turn(l, e) }
