// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucanvas

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/sketch"
)

var (
	// ErrWindowClosed is returned by operations on a closed window.
	ErrWindowClosed = errors.New("gpucanvas: window is closed")

	// ErrInvalidDimensions is returned for a non-positive width or height.
	ErrInvalidDimensions = errors.New("gpucanvas: invalid dimensions")

	// ErrNilProvider is returned when New gets a nil DeviceProvider.
	ErrNilProvider = errors.New("gpucanvas: nil DeviceProvider")
)

// textureDestroyer matches the Destroy method of host textures.
type textureDestroyer interface {
	Destroy()
}

// Window is a sketch.Window backed by a host GPU texture.
//
// Push may be called from the host's event goroutine. The other methods
// must be called from the render goroutine.
type Window struct {
	provider gpucontext.DeviceProvider
	keys     *KeyMap

	mu     sync.Mutex
	events []sketch.Event
	width  int
	height int

	frame       []byte // last presented frame, tightly packed RGBA
	frameW      int
	frameH      int
	texture     any // *pendingTexture until the first RenderTo
	oldTexture  any
	dirty       bool
	sizeChanged bool
	closed      bool
}

var _ sketch.Window = (*Window)(nil)

// New creates a window of the given size on the host device. The device
// is offered to the registered filter accelerator; a refusal is logged
// and the accelerator keeps its own device.
func New(provider gpucontext.DeviceProvider, width, height int) (*Window, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if err := sketch.SetAcceleratorDeviceProvider(provider); err != nil {
		sketch.Logger().Debug("gpucanvas: accelerator keeps its own device", "err", err)
	}
	return &Window{provider: provider, keys: DefaultKeyMap(), width: width, height: height}, nil
}

// Provider returns the host device provider, or nil after Close.
func (w *Window) Provider() gpucontext.DeviceProvider {
	if w.closed {
		return nil
	}
	return w.provider
}

// Size returns the host surface size.
func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Push queues host input for the next PollEvents.
func (w *Window) Push(evs ...sketch.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.events = append(w.events, evs...)
}

// Resize records a new host surface size and queues a ResizeEvent.
func (w *Window) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWindowClosed
	}
	if width == w.width && height == w.height {
		return nil
	}
	w.width, w.height = width, height
	w.events = append(w.events, sketch.ResizeEvent{Width: width, Height: height})
	return nil
}

// PollEvents returns and clears the queued input.
func (w *Window) PollEvents() []sketch.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	evs := w.events
	w.events = nil
	return evs
}

// Present copies fb for upload on the next Flush.
func (w *Window) Present(fb *image.NRGBA) error {
	if w.closed {
		return ErrWindowClosed
	}
	fw, fh := fb.Rect.Dx(), fb.Rect.Dy()
	if fw != w.frameW || fh != w.frameH {
		w.frame = make([]byte, fw*fh*4)
		w.frameW, w.frameH = fw, fh
		w.sizeChanged = true
	}
	for y := range fh {
		copy(w.frame[y*fw*4:(y+1)*fw*4], fb.Pix[y*fb.Stride:y*fb.Stride+fw*4])
	}
	w.dirty = true
	return nil
}

// IsDirty reports whether a presented frame awaits upload.
func (w *Window) IsDirty() bool { return w.dirty }

// Flush uploads the last presented frame if it changed and returns the
// texture. Before the first RenderTo the texture is a placeholder that
// RenderTo replaces with a host texture.
func (w *Window) Flush() (any, error) {
	if w.closed {
		return nil, ErrWindowClosed
	}
	if w.frame == nil {
		return nil, nil
	}
	// The old texture may still be in flight; RenderTo destroys it once
	// the replacement upload has waited for the GPU.
	if w.sizeChanged {
		if w.texture != nil {
			destroy(w.oldTexture)
			w.oldTexture = w.texture
			w.texture = nil
		}
		w.sizeChanged = false
	}
	if !w.dirty && w.texture != nil {
		return w.texture, nil
	}
	if w.texture == nil {
		w.texture = &pendingTexture{width: w.frameW, height: w.frameH, data: w.frame}
		w.dirty = false
		return w.texture, nil
	}
	if updater, ok := w.texture.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(w.frame); err != nil {
			return nil, fmt.Errorf("gpucanvas: texture update failed: %w", err)
		}
	}
	w.dirty = false
	return w.texture, nil
}

// Texture returns the current texture without flushing.
func (w *Window) Texture() any { return w.texture }

// Close destroys the textures. It is safe to call more than once.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	destroy(w.oldTexture)
	destroy(w.texture)
	w.oldTexture, w.texture = nil, nil
	w.events = nil
	w.provider = nil
	return nil
}

func destroy(tex any) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}

// pendingTexture holds a frame until a TextureCreator is available.
type pendingTexture struct {
	width  int
	height int
	data   []byte
}
