package gui

import "github.com/gogpu/sketch"

// Button runs its action when released over itself.
type Button struct {
	base
	caption string
	down    bool
	hover   bool
}

// NewButton creates a push button w pixels wide.
func NewButton(caption string, w float64) *Button {
	b := &Button{caption: caption}
	b.init(b, "button", w, DefaultTheme.Height)
	return b
}

// Value reports whether the button is held down.
func (b *Button) Value() bool { return b.down }

// Caption returns the button text.
func (b *Button) Caption() string { return b.caption }

func (b *Button) anyValue() any { return b.down }

func (b *Button) Draw(l *sketch.Layer, c *sketch.Canvas) error {
	fill := b.theme.Face
	switch {
	case b.down:
		fill = b.theme.Accent
	case b.hover:
		fill = b.theme.Face.Lerp(b.theme.Accent, 0.2)
	}
	if err := b.theme.face(c, 0, 0, l.Width(), l.Height(), fill); err != nil {
		return err
	}
	w := c.TextWidth(b.caption, sketch.WithFont(b.theme.Font), sketch.WithFontSize(b.theme.FontSize))
	return b.theme.label(c, b.caption, (l.Width()-w)/2, l.Height())
}

func (b *Button) OnMouseEnter(*sketch.Layer, sketch.PointerEvent) error {
	b.hover = true
	return nil
}

func (b *Button) OnMouseLeave(*sketch.Layer, sketch.PointerEvent) error {
	b.hover = false
	return nil
}

func (b *Button) OnMousePress(*sketch.Layer, sketch.PointerEvent) error {
	b.down = true
	return nil
}

func (b *Button) OnMouseRelease(l *sketch.Layer, e sketch.PointerEvent) error {
	if !b.down {
		return nil
	}
	b.down = false
	if !l.Contains(e.X, e.Y) {
		return nil
	}
	return b.fire()
}

// Flag is a checkbox with a caption. Clicking it toggles the value.
type Flag struct {
	base
	caption string
	checked bool
}

// NewFlag creates a checkbox w pixels wide.
func NewFlag(caption string, checked bool, w float64) *Flag {
	f := &Flag{caption: caption, checked: checked}
	f.init(f, "flag", w, DefaultTheme.Height)
	return f
}

// Value reports whether the box is checked.
func (f *Flag) Value() bool { return f.checked }

// SetValue checks or clears the box without running the action.
func (f *Flag) SetValue(on bool) { f.checked = on }

func (f *Flag) anyValue() any { return f.checked }

func (f *Flag) Draw(l *sketch.Layer, c *sketch.Canvas) error {
	box := l.Height() - 6
	if err := f.theme.face(c, 0, 3, box, box, f.theme.Face); err != nil {
		return err
	}
	if f.checked {
		if err := c.Rect(3, 6, box-6, box-6, sketch.WithFill(f.theme.Accent), sketch.WithNoStroke()); err != nil {
			return err
		}
	}
	return f.theme.label(c, f.caption, box+f.theme.Padding, l.Height())
}

func (f *Flag) OnMousePress(*sketch.Layer, sketch.PointerEvent) error { return nil }

func (f *Flag) OnMouseRelease(l *sketch.Layer, e sketch.PointerEvent) error {
	if !l.Contains(e.X, e.Y) {
		return nil
	}
	f.checked = !f.checked
	return f.fire()
}
