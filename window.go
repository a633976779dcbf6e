package sketch

import "image"

// Window presents canvas frames and delivers input. Drivers in the driver
// directory implement it on top of SDL2, ebiten and raylib;
// HeadlessWindow keeps frames in memory.
//
// Window positions are in pixels with y down; the canvas converts them to
// its own y-up coordinates.
type Window interface {
	// Size returns the drawable size in pixels.
	Size() (width, height int)

	// PollEvents returns the events received since the last call.
	PollEvents() []Event

	// Present shows a frame. fb is only valid during the call.
	Present(fb *image.NRGBA) error

	// Close releases the window. It is safe to call more than once.
	Close() error
}

// CursorSetter is implemented by windows that can change the mouse
// cursor.
type CursorSetter interface {
	SetCursor(Cursor)
}

// Event is an input event delivered by a Window.
type Event interface {
	isEvent()
}

// MouseMoveEvent reports the pointer position.
type MouseMoveEvent struct {
	X, Y float64
}

// MouseButtonEvent reports a button press or release at a position.
type MouseButtonEvent struct {
	X, Y      float64
	Button    MouseButton
	Pressed   bool
	Modifiers Modifiers
}

// MouseScrollEvent reports wheel motion.
type MouseScrollEvent struct {
	DX, DY float64
}

// KeyEvent reports a key press or release.
type KeyEvent struct {
	Key       Key
	Pressed   bool
	Repeat    bool
	Modifiers Modifiers
}

// TextEvent reports typed text.
type TextEvent struct {
	Text string
}

// ResizeEvent reports a new drawable size.
type ResizeEvent struct {
	Width, Height int
}

// QuitEvent asks the canvas to stop.
type QuitEvent struct{}

func (MouseMoveEvent) isEvent()   {}
func (MouseButtonEvent) isEvent() {}
func (MouseScrollEvent) isEvent() {}
func (KeyEvent) isEvent()         {}
func (TextEvent) isEvent()        {}
func (ResizeEvent) isEvent()      {}
func (QuitEvent) isEvent()        {}
