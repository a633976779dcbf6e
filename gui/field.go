package gui

import (
	"unicode/utf8"

	"github.com/gogpu/sketch"
)

// Field is a single-line text entry. It takes keyboard focus when
// clicked; Enter runs the action, Backspace deletes the last character.
type Field struct {
	base
	value string
	// MaxLen limits the value to MaxLen runes. Zero means no limit.
	MaxLen int
}

// NewField creates a text field w pixels wide.
func NewField(value string, w float64) *Field {
	f := &Field{value: value}
	f.init(f, "field", w, DefaultTheme.Height)
	return f
}

// Value returns the text.
func (f *Field) Value() string { return f.value }

// SetValue replaces the text without running the action.
func (f *Field) SetValue(s string) { f.value = s }

func (f *Field) anyValue() any { return f.value }

func (f *Field) Draw(l *sketch.Layer, c *sketch.Canvas) error {
	if err := f.theme.face(c, 0, 0, l.Width(), l.Height(), f.theme.Face); err != nil {
		return err
	}
	pad := f.theme.Padding / 2
	if err := f.theme.label(c, f.value, pad, l.Height()); err != nil {
		return err
	}
	if c.Focused() != l {
		return nil
	}
	x := pad + c.TextWidth(f.value, sketch.WithFont(f.theme.Font), sketch.WithFontSize(f.theme.FontSize)) + 1
	return c.Line(x, 4, x, l.Height()-4, sketch.WithStroke(f.theme.Text), sketch.WithStrokeWidth(1))
}

// OnMousePress claims the press; focus follows it.
func (f *Field) OnMousePress(*sketch.Layer, sketch.PointerEvent) error { return nil }

func (f *Field) OnKeyType(_ *sketch.Layer, e sketch.KeyboardEvent) error {
	s := f.value + e.Text
	if f.MaxLen > 0 && utf8.RuneCountInString(s) > f.MaxLen {
		return nil
	}
	f.value = s
	return nil
}

func (f *Field) OnKeyPress(_ *sketch.Layer, e sketch.KeyboardEvent) error {
	switch e.Key {
	case sketch.KeyBackspace:
		if _, size := utf8.DecodeLastRuneInString(f.value); size > 0 {
			f.value = f.value[:len(f.value)-size]
		}
	case sketch.KeyEnter:
		return f.fire()
	}
	return nil
}
