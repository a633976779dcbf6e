package sdlgl

import (
	"github.com/gogpu/sketch"
	"github.com/veandco/go-sdl2/sdl"
)

// translate converts an SDL event. ok is false for events the canvas
// does not use.
func translate(ev sdl.Event, mod sdl.Keymod) (e sketch.Event, ok bool) {
	switch ev := ev.(type) {
	case *sdl.QuitEvent:
		return sketch.QuitEvent{}, true
	case *sdl.WindowEvent:
		if ev.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return sketch.ResizeEvent{Width: int(ev.Data1), Height: int(ev.Data2)}, true
		}
	case *sdl.MouseMotionEvent:
		return sketch.MouseMoveEvent{X: float64(ev.X), Y: float64(ev.Y)}, true
	case *sdl.MouseButtonEvent:
		return sketch.MouseButtonEvent{
			X:         float64(ev.X),
			Y:         float64(ev.Y),
			Button:    button(ev.Button),
			Pressed:   ev.Type == sdl.MOUSEBUTTONDOWN,
			Modifiers: modifiers(mod),
		}, true
	case *sdl.MouseWheelEvent:
		return sketch.MouseScrollEvent{DX: float64(ev.X), DY: float64(ev.Y)}, true
	case *sdl.KeyboardEvent:
		return sketch.KeyEvent{
			Key:       key(ev.Keysym.Sym),
			Pressed:   ev.Type == sdl.KEYDOWN,
			Repeat:    ev.Repeat != 0,
			Modifiers: modifiers(sdl.Keymod(ev.Keysym.Mod)),
		}, true
	case *sdl.TextInputEvent:
		if s := ev.GetText(); s != "" {
			return sketch.TextEvent{Text: s}, true
		}
	}
	return nil, false
}

func button(b uint8) sketch.MouseButton {
	switch b {
	case sdl.BUTTON_LEFT:
		return sketch.ButtonLeft
	case sdl.BUTTON_RIGHT:
		return sketch.ButtonRight
	case sdl.BUTTON_MIDDLE:
		return sketch.ButtonMiddle
	}
	return sketch.NoButton
}

func modifiers(m sdl.Keymod) sketch.Modifiers {
	var out sketch.Modifiers
	if m&sdl.KMOD_SHIFT != 0 {
		out |= sketch.ModShift
	}
	if m&sdl.KMOD_CTRL != 0 {
		out |= sketch.ModCtrl
	}
	if m&sdl.KMOD_ALT != 0 {
		out |= sketch.ModAlt
	}
	if m&sdl.KMOD_GUI != 0 {
		out |= sketch.ModSuper
	}
	return out
}

var namedKeys = map[sdl.Keycode]sketch.Key{
	sdl.K_LEFT:      sketch.KeyLeft,
	sdl.K_RIGHT:     sketch.KeyRight,
	sdl.K_UP:        sketch.KeyUp,
	sdl.K_DOWN:      sketch.KeyDown,
	sdl.K_RETURN:    sketch.KeyEnter,
	sdl.K_KP_ENTER:  sketch.KeyEnter,
	sdl.K_ESCAPE:    sketch.KeyEscape,
	sdl.K_BACKSPACE: sketch.KeyBackspace,
	sdl.K_DELETE:    sketch.KeyDelete,
	sdl.K_TAB:       sketch.KeyTab,
	sdl.K_SPACE:     sketch.KeySpace,
	sdl.K_HOME:      sketch.KeyHome,
	sdl.K_END:       sketch.KeyEnd,
	sdl.K_LSHIFT:    sketch.KeyShift,
	sdl.K_RSHIFT:    sketch.KeyShift,
	sdl.K_LCTRL:     sketch.KeyControl,
	sdl.K_RCTRL:     sketch.KeyControl,
	sdl.K_LALT:      sketch.KeyAlt,
	sdl.K_RALT:      sketch.KeyAlt,
	sdl.K_LGUI:      sketch.KeySuper,
	sdl.K_RGUI:      sketch.KeySuper,
}

// key maps an SDL keycode. Printable keys map to their character, which
// SDL already reports in lowercase.
func key(k sdl.Keycode) sketch.Key {
	if named, ok := namedKeys[k]; ok {
		return named
	}
	if k > 0x20 && k < 0x7f {
		return sketch.Key(rune(k))
	}
	return sketch.KeyUnknown
}
