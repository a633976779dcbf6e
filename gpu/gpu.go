//go:build !nogpu

package gpu

import (
	"github.com/gogpu/sketch"
	gpuimpl "github.com/gogpu/sketch/internal/gpu"
)

func init() {
	if err := sketch.RegisterAccelerator(&gpuimpl.FilterAccelerator{}); err != nil {
		sketch.Logger().Warn("GPU filter accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the filter accelerator to use a shared GPU
// device from an external provider (e.g., a gogpu window). This avoids
// creating a separate GPU instance.
//
// The provider must implement HalDevice() any and HalQueue() any.
func SetDeviceProvider(provider any) error {
	return sketch.SetAcceleratorDeviceProvider(provider)
}
