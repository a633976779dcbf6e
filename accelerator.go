package sketch

import (
	"errors"
	"image"
	"sync"
)

// ErrFallbackToCPU indicates the accelerator cannot run a filter program.
// The caller transparently falls back to the CPU program.
var ErrFallbackToCPU = errors.New("sketch: falling back to CPU filter")

// FilterJob is one eager filter stage handed to an accelerator. Src2 is
// the second input of two-input programs and nil otherwise. A and B are
// the program uniforms; their meaning is defined per program.
type FilterJob struct {
	Program   string
	Dst       *image.NRGBA
	Src, Src2 *image.NRGBA
	A, B      [4]float32
}

// FilterAccelerator is an optional GPU provider for eager filters.
//
// When registered via RegisterAccelerator, eager filters with a GPU
// program are offered to the accelerator first. If it returns
// ErrFallbackToCPU or any other error, the CPU program runs instead.
//
// Users opt in to GPU filters via blank import:
//
//	import _ "github.com/gogpu/sketch/gpu"
type FilterAccelerator interface {
	// Name returns the accelerator name (e.g., "wgpu").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanRun reports whether the named program is available on the device.
	CanRun(program string) bool

	// RunFilter executes one stage, writing job.Dst.
	RunFilter(job FilterJob) error
}

// DeviceProviderAware is an optional interface for accelerators that can
// share GPU resources with an external provider (e.g., a gogpu window).
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   FilterAccelerator
)

// RegisterAccelerator registers a filter accelerator.
//
// Only one accelerator can be registered. Subsequent calls replace the
// previous one, which is closed. Init is called during registration; if it
// fails the accelerator is not registered and the error is returned.
func RegisterAccelerator(a FilterAccelerator) error {
	if a == nil {
		return errors.New("sketch: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	propagateLogger(a, Logger())
	Logger().Info("filter accelerator registered", "name", a.Name())
	return nil
}

// UnregisterAccelerator closes and removes the registered accelerator, if
// any. Eager filters run on the CPU afterwards.
func UnregisterAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// Accelerator returns the currently registered accelerator, or nil.
func Accelerator() FilterAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator, enabling GPU device sharing. If no accelerator is registered
// or it doesn't support device sharing, this is a no-op.
//
// The provider should implement HalDevice() any and HalQueue() any methods
// that return wgpu/hal types.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
