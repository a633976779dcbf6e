package sketch

import (
	"image"
	"sync"
)

// HeadlessWindow is an in-memory Window. Events are injected with Inject
// and the last presented frame is kept for inspection. It is safe for
// concurrent use.
type HeadlessWindow struct {
	mu        sync.Mutex
	w, h      int
	events    []Event
	last      *image.NRGBA
	presented int
	cursor    Cursor
	closed    bool
}

// NewHeadlessWindow returns a headless window of the given size.
func NewHeadlessWindow(w, h int) *HeadlessWindow {
	return &HeadlessWindow{w: w, h: h, cursor: CursorDefault}
}

// Size implements Window.
func (hw *HeadlessWindow) Size() (int, int) {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	return hw.w, hw.h
}

// Inject queues events for the next PollEvents. A ResizeEvent also
// changes the reported size.
func (hw *HeadlessWindow) Inject(events ...Event) {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	for _, e := range events {
		if r, ok := e.(ResizeEvent); ok {
			hw.w, hw.h = r.Width, r.Height
		}
	}
	hw.events = append(hw.events, events...)
}

// PollEvents implements Window.
func (hw *HeadlessWindow) PollEvents() []Event {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	ev := hw.events
	hw.events = nil
	return ev
}

// Present implements Window by copying fb.
func (hw *HeadlessWindow) Present(fb *image.NRGBA) error {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	if hw.closed {
		return ErrClosed
	}
	if hw.last == nil || hw.last.Rect != fb.Rect {
		hw.last = image.NewNRGBA(fb.Rect)
	}
	copy(hw.last.Pix, fb.Pix)
	hw.presented++
	return nil
}

// SetCursor implements CursorSetter.
func (hw *HeadlessWindow) SetCursor(c Cursor) {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	hw.cursor = c
}

// Cursor returns the last cursor set.
func (hw *HeadlessWindow) Cursor() Cursor {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	return hw.cursor
}

// LastFrame returns the last presented frame, or nil.
func (hw *HeadlessWindow) LastFrame() *image.NRGBA {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	return hw.last
}

// Presented returns the number of presented frames.
func (hw *HeadlessWindow) Presented() int {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	return hw.presented
}

// Close implements Window.
func (hw *HeadlessWindow) Close() error {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	hw.closed = true
	return nil
}
