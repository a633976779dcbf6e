package sketch

import (
	"strings"
	"testing"
)

// recorder logs the pointer and key events a layer receives.
type recorder struct {
	events []string
}

func (r *recorder) handlers(name string) Handlers {
	rec := func(ch string) func(*Layer, PointerEvent) error {
		return func(*Layer, PointerEvent) error {
			r.events = append(r.events, name+" "+ch)
			return nil
		}
	}
	key := func(ch string) func(*Layer, KeyboardEvent) error {
		return func(_ *Layer, e KeyboardEvent) error {
			r.events = append(r.events, name+" "+ch+" "+string(e.Key)+e.Text)
			return nil
		}
	}
	return Handlers{
		MouseEnter:   rec("enter"),
		MouseLeave:   rec("leave"),
		MouseMotion:  rec("motion"),
		MousePress:   rec("press"),
		MouseRelease: rec("release"),
		MouseDrag:    rec("drag"),
		KeyPress:     key("keypress"),
	}
}

func (r *recorder) take() string {
	s := strings.Join(r.events, "; ")
	r.events = nil
	return s
}

func TestPointerDispatch(t *testing.T) {
	c, win, clk := newTestCanvas(t, 100, 100)
	rec := &recorder{}
	box := NewLayer(10, 10, 30, 30, WithName("box"), WithHandlers(rec.handlers("box")))
	if err := c.Append(box); err != nil {
		t.Fatal(err)
	}

	// Window coordinates are y down: (20, 80) is canvas (20, 20).
	steps := []struct {
		name   string
		events []Event
		want   string
	}{
		{"enter", []Event{MouseMoveEvent{X: 20, Y: 80}}, "box enter; box motion"},
		{"press", []Event{MouseButtonEvent{X: 20, Y: 80, Button: ButtonLeft, Pressed: true}}, "box press"},
		{"drag outside", []Event{MouseMoveEvent{X: 90, Y: 10}}, "box leave; box drag"},
		{"release outside", []Event{MouseButtonEvent{X: 90, Y: 10, Button: ButtonLeft}}, "box release"},
		{"motion outside", []Event{MouseMoveEvent{X: 95, Y: 5}}, ""},
	}
	for _, s := range steps {
		win.Inject(s.events...)
		frame(t, c, clk)
		if got := rec.take(); got != s.want {
			t.Errorf("%s: events = %q, want %q", s.name, got, s.want)
		}
	}
}

func TestPointerLocalCoordinates(t *testing.T) {
	c, win, clk := newTestCanvas(t, 100, 100)
	var got PointerEvent
	l := NewLayer(10, 20, 30, 30, WithHandlers(Handlers{
		MousePress: func(_ *Layer, e PointerEvent) error { got = e; return nil },
	}))
	if err := c.Append(l); err != nil {
		t.Fatal(err)
	}
	win.Inject(MouseButtonEvent{X: 15, Y: 75, Button: ButtonLeft, Pressed: true})
	frame(t, c, clk)
	if got.X != 15 || got.Y != 25 || got.LocalX != 5 || got.LocalY != 5 {
		t.Errorf("press event = %+v, want canvas (15, 25) local (5, 5)", got)
	}
}

func TestPointerBubblesToParent(t *testing.T) {
	c, win, clk := newTestCanvas(t, 100, 100)
	var pressed []string
	parent := NewLayer(0, 0, 100, 100, WithName("parent"), WithHandlers(Handlers{
		MousePress: func(l *Layer, _ PointerEvent) error { pressed = append(pressed, l.Name()); return nil },
	}))
	child := NewLayer(0, 0, 50, 50, WithName("child"))
	if err := parent.Append(child); err != nil {
		t.Fatal(err)
	}
	if err := c.Append(parent); err != nil {
		t.Fatal(err)
	}
	win.Inject(MouseButtonEvent{X: 10, Y: 90, Button: ButtonLeft, Pressed: true})
	frame(t, c, clk)
	if c.Hovered() != child {
		t.Errorf("Hovered() = %v, want child", c.Hovered())
	}
	if len(pressed) != 1 || pressed[0] != "parent" {
		t.Errorf("press delivered to %v, want [parent]", pressed)
	}
}

func TestMouseDraggedFlag(t *testing.T) {
	c, win, clk := newTestCanvas(t, 100, 100)
	steps := []struct {
		events []Event
		want   bool
	}{
		{[]Event{MouseButtonEvent{X: 10, Y: 10, Button: ButtonLeft, Pressed: true}}, false},
		{[]Event{MouseMoveEvent{X: 20, Y: 10}}, true},
		{[]Event{MouseMoveEvent{X: 30, Y: 10}, MouseMoveEvent{X: 40, Y: 10}}, true},
		{nil, false},
		{[]Event{MouseButtonEvent{X: 40, Y: 10, Button: ButtonLeft}, MouseMoveEvent{X: 50, Y: 10}}, false},
	}
	for i, s := range steps {
		win.Inject(s.events...)
		frame(t, c, clk)
		if got := c.Mouse().Dragged; got != s.want {
			t.Errorf("frame %d: Dragged = %v, want %v", i, got, s.want)
		}
	}
}

func TestMouseHooks(t *testing.T) {
	c, win, clk := newTestCanvas(t, 100, 100)
	var got []string
	c.OnMousePress(func(c *Canvas) error {
		got = append(got, "press")
		return nil
	})
	c.OnMouseScroll(func(c *Canvas) error {
		got = append(got, "scroll")
		return nil
	})
	win.Inject(
		MouseButtonEvent{X: 1, Y: 1, Button: ButtonRight, Pressed: true},
		MouseScrollEvent{DY: -3},
	)
	frame(t, c, clk)
	if strings.Join(got, ",") != "press,scroll" {
		t.Errorf("hooks = %v", got)
	}
	if c.Mouse().ScrollY != -3 || c.Mouse().Button != ButtonRight {
		t.Errorf("mouse state = %+v", c.Mouse())
	}
	frame(t, c, clk)
	if c.Mouse().ScrollY != 0 {
		t.Error("scroll did not reset on the next frame")
	}
}

func TestKeyFocusAndBroadcast(t *testing.T) {
	c, win, clk := newTestCanvas(t, 100, 100)
	rec := &recorder{}
	left := NewLayer(0, 0, 50, 100, WithName("left"), WithHandlers(rec.handlers("left")))
	right := NewLayer(50, 0, 50, 100, WithName("right"), WithHandlers(rec.handlers("right")))
	if err := c.Append(left, right); err != nil {
		t.Fatal(err)
	}

	win.Inject(KeyEvent{Key: "a", Pressed: true})
	frame(t, c, clk)
	if got := rec.take(); got != "left keypress a; right keypress a" {
		t.Errorf("broadcast events = %q", got)
	}

	win.Inject(MouseButtonEvent{X: 75, Y: 50, Button: ButtonLeft, Pressed: true})
	frame(t, c, clk)
	rec.take()
	if c.Focused() != right {
		t.Fatalf("Focused() = %v, want right", c.Focused())
	}

	win.Inject(KeyEvent{Key: "b", Pressed: true})
	frame(t, c, clk)
	if got := rec.take(); got != "right keypress b" {
		t.Errorf("focused events = %q", got)
	}
	if !c.Keyboard().Pressed("a") || !c.Keyboard().Pressed("b") {
		t.Errorf("held keys = %v", c.Keyboard().Keys())
	}

	right.SetEnabled(false)
	win.Inject(KeyEvent{Key: "c", Pressed: true})
	frame(t, c, clk)
	if got := rec.take(); got != "left keypress c" {
		t.Errorf("events after disabling focus = %q", got)
	}
}

func TestTextEventUpdatesKeyboard(t *testing.T) {
	c, win, clk := newTestCanvas(t, 10, 10)
	var typed string
	c.OnKeyType(func(c *Canvas) error {
		typed += c.Keyboard().Char
		return nil
	})
	win.Inject(TextEvent{Text: "h"}, TextEvent{Text: "i"})
	frame(t, c, clk)
	if typed != "hi" {
		t.Errorf("typed = %q, want hi", typed)
	}
}

func TestLayerHandlerFailureDropsFrame(t *testing.T) {
	c, win, clk := newTestCanvas(t, 100, 100)
	l := NewLayer(0, 0, 100, 100, WithHandlers(Handlers{
		MousePress: func(*Layer, PointerEvent) error { panic("handler") },
	}))
	if err := c.Append(l); err != nil {
		t.Fatal(err)
	}
	win.Inject(MouseButtonEvent{X: 5, Y: 5, Button: ButtonLeft, Pressed: true})
	frame(t, c, clk)
	if c.DroppedFrames() != 1 {
		t.Errorf("DroppedFrames() = %d, want 1", c.DroppedFrames())
	}
}
