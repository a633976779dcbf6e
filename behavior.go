package sketch

// Behavior draws a layer. It is called with the canvas transform set to
// the layer, so the layer rectangle spans (0, 0) to (Width, Height).
//
// A Behavior may also implement Updater, HitTester and any of the handler
// interfaces below; the layer dispatches to whichever it implements.
type Behavior interface {
	Draw(l *Layer, c *Canvas) error
}

// Updater is called once per frame after the tweens advance.
type Updater interface {
	Update(l *Layer, c *Canvas) error
}

// HitTester refines hit testing inside the layer rectangle. x and y are
// in layer coordinates.
type HitTester interface {
	HitTest(l *Layer, x, y float64) bool
}

// PointerEvent describes a mouse event delivered to a layer.
type PointerEvent struct {
	// X and Y are canvas coordinates.
	X, Y float64
	// LocalX and LocalY are coordinates in the receiving layer.
	LocalX, LocalY float64
	DX, DY         float64
	Button         MouseButton
	Modifiers      Modifiers
	// ScrollX and ScrollY are set for scroll events.
	ScrollX, ScrollY float64
}

// KeyboardEvent describes a key event delivered to a layer.
type KeyboardEvent struct {
	Key       Key
	Text      string
	Repeat    bool
	Modifiers Modifiers
}

// MouseEnterHandler receives the pointer entering the layer.
type MouseEnterHandler interface {
	OnMouseEnter(l *Layer, e PointerEvent) error
}

// MouseLeaveHandler receives the pointer leaving the layer.
type MouseLeaveHandler interface {
	OnMouseLeave(l *Layer, e PointerEvent) error
}

// MouseMotionHandler receives pointer motion without a button held.
type MouseMotionHandler interface {
	OnMouseMotion(l *Layer, e PointerEvent) error
}

// MousePressHandler receives button presses.
type MousePressHandler interface {
	OnMousePress(l *Layer, e PointerEvent) error
}

// MouseReleaseHandler receives button releases.
type MouseReleaseHandler interface {
	OnMouseRelease(l *Layer, e PointerEvent) error
}

// MouseDragHandler receives pointer motion with a button held. Drags go
// to the layer that received the press.
type MouseDragHandler interface {
	OnMouseDrag(l *Layer, e PointerEvent) error
}

// MouseScrollHandler receives wheel motion.
type MouseScrollHandler interface {
	OnMouseScroll(l *Layer, e PointerEvent) error
}

// KeyPressHandler receives key presses.
type KeyPressHandler interface {
	OnKeyPress(l *Layer, e KeyboardEvent) error
}

// KeyReleaseHandler receives key releases.
type KeyReleaseHandler interface {
	OnKeyRelease(l *Layer, e KeyboardEvent) error
}

// KeyTypeHandler receives typed text.
type KeyTypeHandler interface {
	OnKeyType(l *Layer, e KeyboardEvent) error
}

// Handlers is a callback table for layers that do not need a Behavior
// type. Non-nil entries run before the matching Behavior method.
type Handlers struct {
	Draw    func(l *Layer, c *Canvas) error
	Update  func(l *Layer, c *Canvas) error
	HitTest func(l *Layer, x, y float64) bool

	MouseEnter   func(l *Layer, e PointerEvent) error
	MouseLeave   func(l *Layer, e PointerEvent) error
	MouseMotion  func(l *Layer, e PointerEvent) error
	MousePress   func(l *Layer, e PointerEvent) error
	MouseRelease func(l *Layer, e PointerEvent) error
	MouseDrag    func(l *Layer, e PointerEvent) error
	MouseScroll  func(l *Layer, e PointerEvent) error

	KeyPress   func(l *Layer, e KeyboardEvent) error
	KeyRelease func(l *Layer, e KeyboardEvent) error
	KeyType    func(l *Layer, e KeyboardEvent) error
}

type pointerChannel int

const (
	chanEnter pointerChannel = iota
	chanLeave
	chanMotion
	chanPress
	chanRelease
	chanDrag
	chanScroll
)

var pointerChannelNames = [...]string{"mouse enter", "mouse leave", "mouse motion", "mouse press", "mouse release", "mouse drag", "mouse scroll"}

func (ch pointerChannel) String() string { return pointerChannelNames[ch] }

// pointerHandlers returns the callbacks of l for ch in dispatch order.
func (l *Layer) pointerHandlers(ch pointerChannel) []func(*Layer, PointerEvent) error {
	var fns []func(*Layer, PointerEvent) error
	h := l.handlers
	b := l.behavior
	switch ch {
	case chanEnter:
		fns = appendPointer(fns, h.MouseEnter)
		if x, ok := b.(MouseEnterHandler); ok {
			fns = append(fns, x.OnMouseEnter)
		}
	case chanLeave:
		fns = appendPointer(fns, h.MouseLeave)
		if x, ok := b.(MouseLeaveHandler); ok {
			fns = append(fns, x.OnMouseLeave)
		}
	case chanMotion:
		fns = appendPointer(fns, h.MouseMotion)
		if x, ok := b.(MouseMotionHandler); ok {
			fns = append(fns, x.OnMouseMotion)
		}
	case chanPress:
		fns = appendPointer(fns, h.MousePress)
		if x, ok := b.(MousePressHandler); ok {
			fns = append(fns, x.OnMousePress)
		}
	case chanRelease:
		fns = appendPointer(fns, h.MouseRelease)
		if x, ok := b.(MouseReleaseHandler); ok {
			fns = append(fns, x.OnMouseRelease)
		}
	case chanDrag:
		fns = appendPointer(fns, h.MouseDrag)
		if x, ok := b.(MouseDragHandler); ok {
			fns = append(fns, x.OnMouseDrag)
		}
	case chanScroll:
		fns = appendPointer(fns, h.MouseScroll)
		if x, ok := b.(MouseScrollHandler); ok {
			fns = append(fns, x.OnMouseScroll)
		}
	}
	return fns
}

type keyChannel int

const (
	chanKeyPress keyChannel = iota
	chanKeyRelease
	chanKeyType
)

var keyChannelNames = [...]string{"key press", "key release", "key type"}

func (ch keyChannel) String() string { return keyChannelNames[ch] }

func (l *Layer) keyHandlers(ch keyChannel) []func(*Layer, KeyboardEvent) error {
	var fns []func(*Layer, KeyboardEvent) error
	h := l.handlers
	b := l.behavior
	switch ch {
	case chanKeyPress:
		fns = appendKey(fns, h.KeyPress)
		if x, ok := b.(KeyPressHandler); ok {
			fns = append(fns, x.OnKeyPress)
		}
	case chanKeyRelease:
		fns = appendKey(fns, h.KeyRelease)
		if x, ok := b.(KeyReleaseHandler); ok {
			fns = append(fns, x.OnKeyRelease)
		}
	case chanKeyType:
		fns = appendKey(fns, h.KeyType)
		if x, ok := b.(KeyTypeHandler); ok {
			fns = append(fns, x.OnKeyType)
		}
	}
	return fns
}

// acceptsKeys reports whether l handles any keyboard channel.
func (l *Layer) acceptsKeys() bool {
	for ch := chanKeyPress; ch <= chanKeyType; ch++ {
		if len(l.keyHandlers(ch)) > 0 {
			return true
		}
	}
	return false
}

func appendPointer(fns []func(*Layer, PointerEvent) error, fn func(*Layer, PointerEvent) error) []func(*Layer, PointerEvent) error {
	if fn == nil {
		return fns
	}
	return append(fns, fn)
}

func appendKey(fns []func(*Layer, KeyboardEvent) error, fn func(*Layer, KeyboardEvent) error) []func(*Layer, KeyboardEvent) error {
	if fn == nil {
		return fns
	}
	return append(fns, fn)
}
