package sdlgl

import (
	"testing"

	"github.com/gogpu/sketch"
	"github.com/veandco/go-sdl2/sdl"
)

func TestKey(t *testing.T) {
	tests := []struct {
		in   sdl.Keycode
		want sketch.Key
	}{
		{sdl.K_a, "a"},
		{sdl.K_1, "1"},
		{sdl.K_SLASH, "/"},
		{sdl.K_LEFT, sketch.KeyLeft},
		{sdl.K_KP_ENTER, sketch.KeyEnter},
		{sdl.K_F1, sketch.KeyUnknown},
	}
	for _, tt := range tests {
		if got := key(tt.in); got != tt.want {
			t.Errorf("key(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   sdl.Event
		want sketch.Event
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, sketch.QuitEvent{}},
		{"motion", &sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 3, Y: 4}, sketch.MouseMoveEvent{X: 3, Y: 4}},
		{
			"press",
			&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_RIGHT, X: 1, Y: 2},
			sketch.MouseButtonEvent{X: 1, Y: 2, Button: sketch.ButtonRight, Pressed: true, Modifiers: sketch.ModShift},
		},
		{"wheel", &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: -1}, sketch.MouseScrollEvent{DY: -1}},
		{
			"resize",
			&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 800, Data2: 600},
			sketch.ResizeEvent{Width: 800, Height: 600},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.in, sdl.KMOD_LSHIFT)
			if !ok || got != tt.want {
				t.Errorf("translate() = %#v, %v, want %#v", got, ok, tt.want)
			}
		})
	}

	if _, ok := translate(&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_MOVED}, 0); ok {
		t.Error("window move translated, want dropped")
	}
}

func TestModifiers(t *testing.T) {
	got := modifiers(sdl.KMOD_RCTRL | sdl.KMOD_LALT)
	if got != sketch.ModCtrl|sketch.ModAlt {
		t.Errorf("modifiers() = %v, want ctrl|alt", got)
	}
}
