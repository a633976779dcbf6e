package gui

import (
	"github.com/gogpu/sketch"
)

// Control is a gui element attached to its own layer.
type Control interface {
	sketch.Behavior
	// Layer returns the layer the control draws into.
	Layer() *sketch.Layer
	// OnAction sets the hook run when the control's value is committed.
	OnAction(fn Action)

	anyValue() any
	hook() Action
}

// Action is called with the control whose value changed.
type Action func(c Control) error

// Value returns the value of any control: a string for Label and Field, a
// bool for Button and Flag, a float64 for Slider and Knob and a []any of
// the child values for containers.
func Value(c Control) any { return c.anyValue() }

// base holds the state every control shares.
type base struct {
	layer  *sketch.Layer
	action Action
	theme  Theme
	self   Control
}

func (b *base) init(self Control, name string, w, h float64) {
	b.self = self
	b.theme = DefaultTheme
	b.layer = sketch.NewLayer(0, 0, w, h, sketch.WithName(name), sketch.WithBehavior(self))
}

func (b *base) Layer() *sketch.Layer { return b.layer }

func (b *base) OnAction(fn Action) { b.action = fn }

func (b *base) hook() Action { return b.action }

// SetTheme changes the colors and metrics of the control.
func (b *base) SetTheme(t Theme) { b.theme = t }

// SetPosition moves the control's layer.
func (b *base) SetPosition(x, y float64) {
	b.layer.SetX(x)
	b.layer.SetY(y)
}

// fire runs the action of the control and then those of the containers
// above it.
func (b *base) fire() error {
	sketch.Logger().Debug("gui: action", "control", b.layer.Name(), "value", b.self.anyValue())
	for l := b.layer; l != nil; l = l.Parent() {
		c, ok := l.Behavior().(Control)
		if !ok {
			continue
		}
		if fn := c.hook(); fn != nil {
			if err := fn(b.self); err != nil {
				return err
			}
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
