package sketch

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"sync"
	"testing"
)

// mockAccelerator implements FilterAccelerator for testing.
type mockAccelerator struct {
	name    string
	initErr error
	runErr  error
	closed  bool
	calls   int
	logger  *slog.Logger
	mu      sync.Mutex
}

func (m *mockAccelerator) Name() string { return m.name }

func (m *mockAccelerator) Init() error { return m.initErr }

func (m *mockAccelerator) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *mockAccelerator) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockAccelerator) CanRun(string) bool { return true }

func (m *mockAccelerator) RunFilter(FilterJob) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.runErr != nil {
		return m.runErr
	}
	return ErrFallbackToCPU
}

func (m *mockAccelerator) SetLogger(l *slog.Logger) { m.logger = l }

// resetAccelerator clears the global accelerator state between tests.
func resetAccelerator() {
	accelMu.Lock()
	accel = nil
	accelMu.Unlock()
}

func TestRegisterAcceleratorNil(t *testing.T) {
	resetAccelerator()

	err := RegisterAccelerator(nil)
	if err == nil {
		t.Fatal("expected error when registering nil accelerator")
	}
	if err.Error() != "sketch: accelerator must not be nil" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if Accelerator() != nil {
		t.Error("accelerator should remain nil after failed registration")
	}
}

func TestRegisterAcceleratorInitError(t *testing.T) {
	resetAccelerator()

	initErr := errors.New("GPU init failed")
	mock := &mockAccelerator{name: "failing", initErr: initErr}
	if err := RegisterAccelerator(mock); !errors.Is(err, initErr) {
		t.Fatalf("RegisterAccelerator() = %v, want %v", err, initErr)
	}
	if Accelerator() != nil {
		t.Error("accelerator registered despite Init error")
	}
}

func TestRegisterAcceleratorReplacesAndCloses(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	first := &mockAccelerator{name: "first"}
	second := &mockAccelerator{name: "second"}
	if err := RegisterAccelerator(first); err != nil {
		t.Fatal(err)
	}
	if err := RegisterAccelerator(second); err != nil {
		t.Fatal(err)
	}
	if !first.isClosed() {
		t.Error("replaced accelerator was not closed")
	}
	if Accelerator() != second {
		t.Error("Accelerator() did not return the latest registration")
	}
	UnregisterAccelerator()
	if !second.isClosed() || Accelerator() != nil {
		t.Error("UnregisterAccelerator did not close and clear")
	}
}

func TestSetAcceleratorDeviceProviderWithoutAccelerator(t *testing.T) {
	resetAccelerator()
	if err := SetAcceleratorDeviceProvider(struct{}{}); err != nil {
		t.Errorf("SetAcceleratorDeviceProvider() = %v, want nil", err)
	}
}

func TestFilterFallbackMatchesCPU(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	img := testImage(t, 8, 8)
	want, err := Invert(img)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	for _, runErr := range []error{nil, errors.New("device lost")} {
		mock := &mockAccelerator{name: "mock", runErr: runErr}
		if err := RegisterAccelerator(mock); err != nil {
			t.Fatal(err)
		}
		got, err := Invert(img)
		if err != nil {
			t.Fatal(err)
		}
		assertSamePixels(t, got, want)
	}
}

// testImage returns a w x h image with a deterministic gradient.
func testImage(t *testing.T, w, h int) *Image {
	t.Helper()
	pix := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			i := pix.PixOffset(x, y)
			pix.Pix[i] = uint8(x * 255 / max(w-1, 1))
			pix.Pix[i+1] = uint8(y * 255 / max(h-1, 1))
			pix.Pix[i+2] = uint8((x + y) * 7)
			pix.Pix[i+3] = 255
		}
	}
	img, err := NewImage(pix)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(img.Destroy)
	return img
}

func assertSamePixels(t *testing.T, got, want *Image) {
	t.Helper()
	g, err := got.Image()
	if err != nil {
		t.Fatal(err)
	}
	w, err := want.Image()
	if err != nil {
		t.Fatal(err)
	}
	if g.Rect != w.Rect {
		t.Fatalf("size %v, want %v", g.Rect, w.Rect)
	}
	if !bytes.Equal(g.Pix, w.Pix) {
		t.Error("pixels differ")
	}
}
