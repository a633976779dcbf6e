// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucanvas

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/sketch"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

type mockQueue struct{}

type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device   { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue     { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}

type mockTexture struct {
	destroyed bool
}

func (m *mockTexture) Destroy() { m.destroyed = true }

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		w, h     int
		wantErr  error
	}{
		{"valid", &mockProvider{}, 64, 48, nil},
		{"nil provider", nil, 64, 48, ErrNilProvider},
		{"zero width", &mockProvider{}, 0, 48, ErrInvalidDimensions},
		{"negative height", &mockProvider{}, 64, -1, ErrInvalidDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(tt.provider, tt.w, tt.h)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer w.Close()
			if gw, gh := w.Size(); gw != tt.w || gh != tt.h {
				t.Errorf("Size() = %d, %d", gw, gh)
			}
		})
	}
}

func TestPushAndResize(t *testing.T) {
	w, err := New(&mockProvider{}, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.Push(sketch.MouseMoveEvent{X: 1, Y: 2}, sketch.KeyEvent{Key: "a", Pressed: true})
	if err := w.Resize(10, 10); err != nil {
		t.Fatal(err)
	}
	if err := w.Resize(20, 30); err != nil {
		t.Fatal(err)
	}
	evs := w.PollEvents()
	if len(evs) != 3 {
		t.Fatalf("PollEvents() = %v, want 3 events", evs)
	}
	if r, ok := evs[2].(sketch.ResizeEvent); !ok || r.Width != 20 || r.Height != 30 {
		t.Errorf("last event = %#v", evs[2])
	}
	if len(w.PollEvents()) != 0 {
		t.Error("PollEvents did not clear the queue")
	}
	if err := w.Resize(0, 1); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Resize(0, 1) = %v", err)
	}
}

func TestPresentAndFlush(t *testing.T) {
	w, err := New(&mockProvider{}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if tex, err := w.Flush(); tex != nil || err != nil {
		t.Fatalf("Flush() before Present = %v, %v", tex, err)
	}

	full := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	full.SetNRGBA(2, 1, color.NRGBA{R: 9, A: 255})
	fb := full.SubImage(image.Rect(1, 0, 3, 2)).(*image.NRGBA)
	if err := w.Present(fb); err != nil {
		t.Fatal(err)
	}
	if !w.IsDirty() {
		t.Fatal("IsDirty() = false after Present")
	}
	tex, err := w.Flush()
	if err != nil {
		t.Fatal(err)
	}
	pending, ok := tex.(*pendingTexture)
	if !ok {
		t.Fatalf("Flush() = %T, want *pendingTexture", tex)
	}
	if pending.width != 2 || pending.height != 2 || len(pending.data) != 16 {
		t.Errorf("pending = %dx%d, %d bytes", pending.width, pending.height, len(pending.data))
	}
	if pending.data[12] != 9 || pending.data[15] != 255 {
		t.Errorf("pixel (1, 1) = %v", pending.data[12:16])
	}
	if w.IsDirty() {
		t.Error("IsDirty() = true after Flush")
	}
}

func TestResizeDefersTextureDestroy(t *testing.T) {
	w, err := New(&mockProvider{}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	first := &mockTexture{}
	w.texture = first
	w.frameW, w.frameH = 2, 2

	if err := w.Present(image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if first.destroyed {
		t.Error("old texture destroyed before the replacement was created")
	}
	if w.oldTexture != first {
		t.Errorf("oldTexture = %v, want the previous texture", w.oldTexture)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if !first.destroyed {
		t.Error("Close did not destroy the deferred texture")
	}
}

func TestClosedWindow(t *testing.T) {
	w, err := New(&mockProvider{}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := w.Present(image.NewNRGBA(image.Rect(0, 0, 2, 2))); !errors.Is(err, ErrWindowClosed) {
		t.Errorf("Present() = %v, want ErrWindowClosed", err)
	}
	if _, err := w.Flush(); !errors.Is(err, ErrWindowClosed) {
		t.Errorf("Flush() = %v, want ErrWindowClosed", err)
	}
	if w.Provider() != nil {
		t.Error("Provider() after Close is not nil")
	}
	w.Push(sketch.QuitEvent{})
	if len(w.PollEvents()) != 0 {
		t.Error("Push after Close queued an event")
	}
}

func TestKeyPressMapping(t *testing.T) {
	w, err := New(&mockProvider{}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	var shift gpucontext.Modifiers = 1
	w.Keys().MapModifier(shift, sketch.ModShift)

	w.KeyPress(gpucontext.KeySpace, shift)
	w.KeyRelease(gpucontext.KeySpace, 0)
	evs := w.PollEvents()
	want := []sketch.KeyEvent{
		{Key: sketch.KeySpace, Pressed: true, Modifiers: sketch.ModShift},
		{Key: sketch.KeySpace},
	}
	if len(evs) != len(want) {
		t.Fatalf("PollEvents() = %v", evs)
	}
	for i := range want {
		if evs[i] != want[i] {
			t.Errorf("event %d = %#v, want %#v", i, evs[i], want[i])
		}
	}
}
