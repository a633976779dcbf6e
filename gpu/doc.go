// Package gpu registers the wgpu filter accelerator.
//
// Import this package to run eager filters (blur, invert, blend, mask,
// mirror, colorize) as compute shaders. If GPU initialization fails (no
// Vulkan available), the accelerator reports every program as unavailable
// and filters run on the CPU.
//
// Build with -tags nogpu to leave the accelerator out; the package then
// registers nothing.
//
// Usage:
//
//	import _ "github.com/gogpu/sketch/gpu" // enable GPU filters
package gpu
