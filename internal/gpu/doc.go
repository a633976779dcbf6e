//go:build !nogpu

// Package gpu runs image filters as WGSL compute programs on a
// wgpu/hal device.
//
// FilterAccelerator implements sketch.FilterAccelerator. It compiles one
// compute pipeline per program in internal/shader and executes a
// sketch.FilterJob as a single dispatch:
//
//	params (uniform) + src + src2 -> compute pass -> dst -> staging -> CPU
//
// Pixels travel as packed RGBA8 words. A job the device cannot run, such
// as one whose destination and source sizes differ, returns
// sketch.ErrFallbackToCPU and the caller runs the CPU program instead.
//
// The accelerator creates its own Vulkan device on Init unless a host
// device is shared with SetDeviceProvider.
//
// # Build Tags
//
// Build with -tags nogpu to leave the package out.
package gpu
