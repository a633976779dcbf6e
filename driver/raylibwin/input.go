package raylibwin

import (
	"unicode"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gogpu/sketch"
)

// input turns raylib's polled state into sketch events.
type input struct {
	mouseX, mouseY float32
	held           map[int32]bool
}

var mouseButtons = []struct {
	rl rl.MouseButton
	sk sketch.MouseButton
}{
	{rl.MouseButtonLeft, sketch.ButtonLeft},
	{rl.MouseButtonRight, sketch.ButtonRight},
	{rl.MouseButtonMiddle, sketch.ButtonMiddle},
}

func (in *input) poll() []sketch.Event {
	var evs []sketch.Event
	mods := modifiers()

	pos := rl.GetMousePosition()
	if pos.X != in.mouseX || pos.Y != in.mouseY {
		in.mouseX, in.mouseY = pos.X, pos.Y
		evs = append(evs, sketch.MouseMoveEvent{X: float64(pos.X), Y: float64(pos.Y)})
	}
	x, y := float64(pos.X), float64(pos.Y)
	for _, b := range mouseButtons {
		if rl.IsMouseButtonPressed(b.rl) {
			evs = append(evs, sketch.MouseButtonEvent{X: x, Y: y, Button: b.sk, Pressed: true, Modifiers: mods})
		}
		if rl.IsMouseButtonReleased(b.rl) {
			evs = append(evs, sketch.MouseButtonEvent{X: x, Y: y, Button: b.sk, Modifiers: mods})
		}
	}
	if wheel := rl.GetMouseWheelMoveV(); wheel.X != 0 || wheel.Y != 0 {
		evs = append(evs, sketch.MouseScrollEvent{DX: float64(wheel.X), DY: float64(wheel.Y)})
	}

	// Releases and repeats of keys seen earlier come first, then the
	// queue of new presses.
	for k := range in.held {
		switch {
		case rl.IsKeyReleased(k):
			delete(in.held, k)
			evs = append(evs, sketch.KeyEvent{Key: key(k), Modifiers: mods})
		case rl.IsKeyPressedRepeat(k):
			evs = append(evs, sketch.KeyEvent{Key: key(k), Pressed: true, Repeat: true, Modifiers: mods})
		}
	}
	for k := rl.GetKeyPressed(); k != 0; k = rl.GetKeyPressed() {
		in.held[k] = true
		evs = append(evs, sketch.KeyEvent{Key: key(k), Pressed: true, Modifiers: mods})
	}
	for r := rl.GetCharPressed(); r != 0; r = rl.GetCharPressed() {
		evs = append(evs, sketch.TextEvent{Text: string(rune(r))})
	}
	return evs
}

func modifiers() sketch.Modifiers {
	var m sketch.Modifiers
	if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
		m |= sketch.ModShift
	}
	if rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) {
		m |= sketch.ModCtrl
	}
	if rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt) {
		m |= sketch.ModAlt
	}
	if rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper) {
		m |= sketch.ModSuper
	}
	return m
}

var namedKeys = map[int32]sketch.Key{
	rl.KeyLeft:         sketch.KeyLeft,
	rl.KeyRight:        sketch.KeyRight,
	rl.KeyUp:           sketch.KeyUp,
	rl.KeyDown:         sketch.KeyDown,
	rl.KeyEnter:        sketch.KeyEnter,
	rl.KeyKpEnter:      sketch.KeyEnter,
	rl.KeyEscape:       sketch.KeyEscape,
	rl.KeyBackspace:    sketch.KeyBackspace,
	rl.KeyDelete:       sketch.KeyDelete,
	rl.KeyTab:          sketch.KeyTab,
	rl.KeySpace:        sketch.KeySpace,
	rl.KeyHome:         sketch.KeyHome,
	rl.KeyEnd:          sketch.KeyEnd,
	rl.KeyLeftShift:    sketch.KeyShift,
	rl.KeyRightShift:   sketch.KeyShift,
	rl.KeyLeftControl:  sketch.KeyControl,
	rl.KeyRightControl: sketch.KeyControl,
	rl.KeyLeftAlt:      sketch.KeyAlt,
	rl.KeyRightAlt:     sketch.KeyAlt,
	rl.KeyLeftSuper:    sketch.KeySuper,
	rl.KeyRightSuper:   sketch.KeySuper,
}

// key maps a raylib key code. Printable codes are ASCII with uppercase
// letters and map to the lowercase character.
func key(k int32) sketch.Key {
	if named, ok := namedKeys[k]; ok {
		return named
	}
	if k > ' ' && k < 0x7f {
		return sketch.Key(string(unicode.ToLower(rune(k))))
	}
	return sketch.KeyUnknown
}
