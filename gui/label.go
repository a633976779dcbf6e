package gui

import "github.com/gogpu/sketch"

// Label is a line of static text. Clicking it runs its action.
type Label struct {
	base
	caption string
}

// NewLabel creates a label w pixels wide.
func NewLabel(caption string, w float64) *Label {
	l := &Label{caption: caption}
	l.init(l, "label", w, DefaultTheme.Height)
	return l
}

// Value returns the caption.
func (l *Label) Value() string { return l.caption }

// SetValue changes the caption.
func (l *Label) SetValue(s string) { l.caption = s }

func (l *Label) anyValue() any { return l.caption }

func (l *Label) Draw(layer *sketch.Layer, c *sketch.Canvas) error {
	return l.theme.label(c, l.caption, 0, layer.Height())
}

// OnMousePress claims the press so the release comes back to the label.
func (l *Label) OnMousePress(*sketch.Layer, sketch.PointerEvent) error { return nil }

func (l *Label) OnMouseRelease(layer *sketch.Layer, e sketch.PointerEvent) error {
	if !layer.Contains(e.X, e.Y) {
		return nil
	}
	return l.fire()
}
