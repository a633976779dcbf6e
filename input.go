package sketch

import (
	"maps"
	"slices"
)

// MouseButton identifies a mouse button.
type MouseButton int

// Mouse buttons.
const (
	NoButton MouseButton = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	}
	return "none"
}

// Modifiers is a set of modifier keys.
type Modifiers uint8

// Modifier keys.
const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether every modifier of m2 is held in m.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// Cursor is a mouse cursor shape.
type Cursor string

// Cursor shapes.
const (
	CursorDefault Cursor = "default"
	CursorHidden  Cursor = "hidden"
	CursorCross   Cursor = "cross"
	CursorHand    Cursor = "hand"
	CursorText    Cursor = "text"
)

// Key names a keyboard key. Printable keys use their lowercase character
// ("a", "1", "/"); other keys use the constants below.
type Key string

// Named keys.
const (
	KeyUnknown   Key = ""
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeyEnter     Key = "enter"
	KeyEscape    Key = "escape"
	KeyBackspace Key = "backspace"
	KeyDelete    Key = "delete"
	KeyTab       Key = "tab"
	KeySpace     Key = "space"
	KeyHome      Key = "home"
	KeyEnd       Key = "end"
	KeyShift     Key = "shift"
	KeyControl   Key = "control"
	KeyAlt       Key = "alt"
	KeySuper     Key = "super"
)

// Mouse is the pointer state of a canvas. Positions are in canvas
// coordinates with y up.
type Mouse struct {
	X, Y float64
	// DX and DY are the motion since the previous frame.
	DX, DY    float64
	Button    MouseButton
	Modifiers Modifiers
	Pressed   bool
	// Dragged is true in every frame in which a drag event was dispatched.
	Dragged bool
	Cursor  Cursor
	// ScrollX and ScrollY are the wheel motion of the current frame.
	ScrollX, ScrollY float64

	prevX, prevY float64
}

// Point returns the pointer position.
func (m *Mouse) Point() Point { return Point{X: m.X, Y: m.Y} }

// Keyboard is the key state of a canvas.
type Keyboard struct {
	// Key is the key of the last key event.
	Key Key
	// Char is the text of the last text event.
	Char      string
	Modifiers Modifiers

	pressed map[Key]bool
}

// Pressed reports whether k is held down.
func (k *Keyboard) Pressed(key Key) bool { return k.pressed[key] }

// Keys returns the held keys in sorted order.
func (k *Keyboard) Keys() []Key {
	return slices.Sorted(maps.Keys(k.pressed))
}

func (k *Keyboard) set(key Key, down bool) {
	if k.pressed == nil {
		k.pressed = make(map[Key]bool)
	}
	if down {
		k.pressed[key] = true
	} else {
		delete(k.pressed, key)
	}
}
